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

	"golang.org/x/exp/slices"
)

const (
	mapT = value.MapType
	setT = value.SetType
)

func listHead(args []value.Value) value.Value {
	vs := args[0].AsList().Values
	if len(vs) == 0 {
		return value.Null
	}
	return vs[0]
}

func listLast(args []value.Value) value.Value {
	vs := args[0].AsList().Values
	if len(vs) == 0 {
		return value.Null
	}
	return vs[len(vs)-1]
}

func size(args []value.Value) value.Value {
	v := args[0]
	var n int
	switch v.Type() {
	case value.StringType:
		n = utf8.RuneCountInString(v.AsString())
	case value.ListType:
		n = v.AsList().Len()
	case value.MapType:
		n = v.AsMap().Len()
	case value.SetType:
		n = v.AsSet().Len()
	case value.DataSetType:
		n = len(v.AsDataSet().Rows)
	case value.PathType:
		n = len(v.AsPath().Steps)
	}
	return value.Int(int64(n))
}

// maxRange bounds the length of a range() result
const maxRange = 1 << 20

func rangeList(args []value.Value) value.Value {
	lo, hi, step := args[0].AsInt(), args[1].AsInt(), int64(1)
	if len(args) == 3 {
		step = args[2].AsInt()
	}
	if step == 0 {
		return badData()
	}
	var out []value.Value
	for i := lo; (step > 0 && i <= hi) || (step < 0 && i >= hi); i += step {
		if len(out) >= maxRange {
			return value.NullOf(value.NullOutOfRange)
		}
		out = append(out, value.Int(i))
		if (step > 0 && i > hi-step) || (step < 0 && i < hi-step) {
			break
		}
	}
	return value.ListOf(out...)
}

func keys(args []value.Value) value.Value {
	v := args[0]
	var names []string
	switch v.Type() {
	case value.MapType:
		names = v.AsMap().Keys()
	case value.VertexType:
		seen := make(map[string]bool)
		for _, t := range v.AsVertex().Tags {
			for k := range t.Props {
				if !seen[k] {
					seen[k] = true
					names = append(names, k)
				}
			}
		}
		slices.Sort(names)
	case value.EdgeType:
		for k := range v.AsEdge().Props {
			names = append(names, k)
		}
		slices.Sort(names)
	}
	out := make([]value.Value, len(names))
	for i := range names {
		out[i] = value.String(names[i])
	}
	return value.ListOf(out...)
}

func init() {
	register(&Func{
		name: "size",
		sigs: []sig{of(i64, str|list|mapT|setT|value.DataSetType|path)},
		eval: size,
	})
	register(&Func{
		name: "head",
		sigs: []sig{of(anyT, list)},
		eval: listHead,
	})
	register(&Func{
		name: "last",
		sigs: []sig{of(anyT, list)},
		eval: listLast,
	})
	register(&Func{
		name: "tail",
		sigs: []sig{of(list, list)},
		eval: func(args []value.Value) value.Value {
			vs := args[0].AsList().Values
			if len(vs) == 0 {
				return value.ListOf()
			}
			return value.ListOf(slices.Clone(vs[1:])...)
		},
	})
	register(&Func{
		name: "range",
		sigs: []sig{of(list, i64, i64), of(list, i64, i64, i64)},
		eval: rangeList,
	})
	register(&Func{
		name: "keys",
		sigs: []sig{of(list, mapT|vertex|edge)},
		eval: keys,
	})
	register(&Func{
		name:    "coalesce",
		sigs:    []sig{variadic(anyT, anyT, anyT)},
		lenient: true,
		eval: func(args []value.Value) value.Value {
			for i := range args {
				if !args[i].IsAbnormal() {
					return args[i]
				}
			}
			return value.Null
		},
	})
}
