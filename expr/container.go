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

package expr

import (
	"strings"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/value"
)

// List is a list literal.
type List struct {
	Items []Node
}

// ListOf returns the list literal [items...].
func ListOf(items ...Node) *List { return &List{Items: items} }

func (l *List) Kind() Kind { return KindList }

func (l *List) Eval(ctx Context) value.Value {
	return value.ListOf(evalAll(ctx, l.Items)...)
}

func evalAll(ctx Context, lst []Node) []value.Value {
	out := make([]value.Value, len(lst))
	for i := range lst {
		out[i] = lst[i].Eval(ctx)
	}
	return out
}

func (l *List) Equals(x Node) bool {
	o, ok := x.(*List)
	return ok && equalAll(l.Items, o.Items)
}

func (l *List) Clone() Node { return &List{Items: cloneAll(l.Items)} }

func (l *List) walk(v Visitor) { walkAll(v, l.Items) }

func (l *List) rewrite(r Rewriter) Node {
	rewriteAll(r, l.Items)
	return l
}

func (l *List) text(dst *strings.Builder) {
	dst.WriteByte('[')
	textAll(dst, l.Items, ",")
	dst.WriteByte(']')
}

func (l *List) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindList))
	return encodeList(dst, l.Items)
}

// Set is a set literal.
type Set struct {
	Items []Node
}

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) Eval(ctx Context) value.Value {
	return value.SetOf(evalAll(ctx, s.Items)...)
}

func (s *Set) Equals(x Node) bool {
	o, ok := x.(*Set)
	return ok && equalAll(s.Items, o.Items)
}

func (s *Set) Clone() Node { return &Set{Items: cloneAll(s.Items)} }

func (s *Set) walk(v Visitor) { walkAll(v, s.Items) }

func (s *Set) rewrite(r Rewriter) Node {
	rewriteAll(r, s.Items)
	return s
}

func (s *Set) text(dst *strings.Builder) {
	dst.WriteByte('{')
	textAll(dst, s.Items, ",")
	dst.WriteByte('}')
}

func (s *Set) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindSet))
	return encodeList(dst, s.Items)
}

// MapItem is one key of a map literal.
type MapItem struct {
	Key string
	Val Node
}

// Map is a map literal. Later items
// override earlier items with the same key.
type Map struct {
	Items []MapItem
}

func (m *Map) Kind() Kind { return KindMap }

func (m *Map) Eval(ctx Context) value.Value {
	out := value.NewMap()
	for i := range m.Items {
		out.Set(m.Items[i].Key, m.Items[i].Val.Eval(ctx))
	}
	return value.FromMap(out)
}

func (m *Map) Equals(x Node) bool {
	o, ok := x.(*Map)
	if !ok || len(m.Items) != len(o.Items) {
		return false
	}
	for i := range m.Items {
		if m.Items[i].Key != o.Items[i].Key || !Equal(m.Items[i].Val, o.Items[i].Val) {
			return false
		}
	}
	return true
}

func (m *Map) Clone() Node {
	items := make([]MapItem, len(m.Items))
	for i := range m.Items {
		items[i] = MapItem{Key: m.Items[i].Key, Val: Clone(m.Items[i].Val)}
	}
	return &Map{Items: items}
}

func (m *Map) walk(v Visitor) {
	for i := range m.Items {
		walkOpt(v, m.Items[i].Val)
	}
}

func (m *Map) rewrite(r Rewriter) Node {
	for i := range m.Items {
		m.Items[i].Val = Rewrite(r, m.Items[i].Val)
	}
	return m
}

func (m *Map) text(dst *strings.Builder) {
	dst.WriteByte('{')
	for i := range m.Items {
		if i > 0 {
			dst.WriteByte(',')
		}
		dst.WriteString(m.Items[i].Key)
		dst.WriteByte(':')
		m.Items[i].Val.text(dst)
	}
	dst.WriteByte('}')
}

func (m *Map) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindMap))
	dst.BeginList(len(m.Items))
	for i := range m.Items {
		dst.WriteString(m.Items[i].Key)
		if err := encodeNodes(dst, m.Items[i].Val); err != nil {
			return err
		}
	}
	return nil
}

// PathBuild assembles a path from a vertex or a
// path followed by edges, vertices and paths.
type PathBuild struct {
	Items []Node
}

func (p *PathBuild) Kind() Kind { return KindPathBuild }

// Eval returns BadType when an item is not a
// vertex, an edge or a path, or when consecutive
// items do not connect.
func (p *PathBuild) Eval(ctx Context) value.Value {
	if len(p.Items) == 0 {
		return value.Null
	}
	var path *value.Path
	first := p.Items[0].Eval(ctx)
	switch first.Type() {
	case value.VertexType:
		path = &value.Path{Src: *first.AsVertex()}
	case value.PathType:
		path = first.AsPath().Clone()
	default:
		return value.BadType()
	}
	for _, item := range p.Items[1:] {
		v := item.Eval(ctx)
		switch v.Type() {
		case value.EdgeType:
			if !path.Extend(v.AsEdge()) {
				return value.BadType()
			}
		case value.VertexType:
			vx := v.AsVertex()
			last := path.Last()
			if !value.Equals(last.Vid, vx.Vid) {
				return value.BadType()
			}
			*last = *vx
		case value.PathType:
			if !path.Concat(v.AsPath()) {
				return value.BadType()
			}
		default:
			return value.BadType()
		}
	}
	return value.FromPath(path)
}

func (p *PathBuild) Equals(x Node) bool {
	o, ok := x.(*PathBuild)
	return ok && equalAll(p.Items, o.Items)
}

func (p *PathBuild) Clone() Node { return &PathBuild{Items: cloneAll(p.Items)} }

func (p *PathBuild) walk(v Visitor) { walkAll(v, p.Items) }

func (p *PathBuild) rewrite(r Rewriter) Node {
	rewriteAll(r, p.Items)
	return p
}

func (p *PathBuild) text(dst *strings.Builder) {
	dst.WriteString("PathBuild[")
	textAll(dst, p.Items, ",")
	dst.WriteByte(']')
}

func (p *PathBuild) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindPathBuild))
	return encodeList(dst, p.Items)
}
