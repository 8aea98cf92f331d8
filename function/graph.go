// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package function

import (
	"unicode/utf8"

	"github.com/SnellerInc/graphexpr/value"
)

func vertexProps(v *value.Vertex) value.Value {
	m := value.NewMap()
	// earlier tags win, as in Vertex.Prop
	for i := len(v.Tags) - 1; i >= 0; i-- {
		for k, p := range v.Tags[i].Props {
			m.Set(k, p)
		}
	}
	return value.FromMap(m)
}

// steps returns the edges walked by p
func steps(p *value.Path) []value.Value {
	out := make([]value.Value, len(p.Steps))
	prev := p.Src.Vid
	for i := range p.Steps {
		s := &p.Steps[i]
		out[i] = value.FromEdge(&value.Edge{
			Src:     prev,
			Dst:     s.Dst.Vid,
			Type:    s.Type,
			Name:    s.Name,
			Ranking: s.Ranking,
			Props:   s.Props,
		})
		prev = s.Dst.Vid
	}
	return out
}

func init() {
	register(&Func{
		name: "id",
		sigs: []sig{of(anyT, vertex)},
		eval: func(args []value.Value) value.Value { return args[0].AsVertex().Vid },
	})
	register(&Func{
		name: "tags",
		sigs: []sig{of(list, vertex)},
		eval: func(args []value.Value) value.Value {
			tags := args[0].AsVertex().Tags
			out := make([]value.Value, len(tags))
			for i := range tags {
				out[i] = value.String(tags[i].Name)
			}
			return value.ListOf(out...)
		},
	})
	alias("labels", "tags")
	register(&Func{
		name: "properties",
		sigs: []sig{of(mapT, vertex|edge|mapT)},
		eval: func(args []value.Value) value.Value {
			v := args[0]
			switch v.Type() {
			case value.VertexType:
				return vertexProps(v.AsVertex())
			case value.EdgeType:
				return value.MapOf(v.AsEdge().Props)
			}
			return v
		},
	})
	register(&Func{
		name: "type",
		sigs: []sig{of(str, edge)},
		eval: func(args []value.Value) value.Value { return value.String(args[0].AsEdge().Name) },
	})
	register(&Func{
		name: "typeid",
		sigs: []sig{of(i64, edge)},
		eval: func(args []value.Value) value.Value { return value.Int(int64(args[0].AsEdge().Type)) },
	})
	register(&Func{
		name: "rank",
		sigs: []sig{of(i64, edge)},
		eval: func(args []value.Value) value.Value { return value.Int(args[0].AsEdge().Ranking) },
	})
	register(&Func{
		name: "src",
		sigs: []sig{of(anyT, edge)},
		eval: func(args []value.Value) value.Value { return args[0].AsEdge().Src },
	})
	register(&Func{
		name: "dst",
		sigs: []sig{of(anyT, edge)},
		eval: func(args []value.Value) value.Value { return args[0].AsEdge().Dst },
	})
	register(&Func{
		name: "startnode",
		sigs: []sig{of(vertex, path)},
		eval: func(args []value.Value) value.Value {
			v := args[0].AsPath().Src
			return value.FromVertex(&v)
		},
	})
	register(&Func{
		name: "endnode",
		sigs: []sig{of(vertex, path)},
		eval: func(args []value.Value) value.Value {
			v := *args[0].AsPath().Last()
			return value.FromVertex(&v)
		},
	})
	register(&Func{
		name: "nodes",
		sigs: []sig{of(list, path)},
		eval: func(args []value.Value) value.Value {
			p := args[0].AsPath()
			out := make([]value.Value, 0, len(p.Steps)+1)
			src := p.Src
			out = append(out, value.FromVertex(&src))
			for i := range p.Steps {
				v := p.Steps[i].Dst
				out = append(out, value.FromVertex(&v))
			}
			return value.ListOf(out...)
		},
	})
	register(&Func{
		name: "relationships",
		sigs: []sig{of(list, path)},
		eval: func(args []value.Value) value.Value {
			return value.ListOf(steps(args[0].AsPath())...)
		},
	})
	register(&Func{
		name: "length",
		sigs: []sig{of(i64, str|path)},
		eval: func(args []value.Value) value.Value {
			v := args[0]
			if v.IsString() {
				return value.Int(int64(utf8.RuneCountInString(v.AsString())))
			}
			return value.Int(int64(len(v.AsPath().Steps)))
		},
	})
}
