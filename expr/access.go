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
	"strconv"
	"strings"

	"github.com/SnellerInc/graphexpr/internal/wire"
	"github.com/SnellerInc/graphexpr/ints"
	"github.com/SnellerInc/graphexpr/value"
)

// Subscript is container[index].
type Subscript struct {
	Left, Right Node
}

func (s *Subscript) Kind() Kind { return KindSubscript }

func (s *Subscript) Eval(ctx Context) value.Value {
	return subscript(s.Left.Eval(ctx), s.Right.Eval(ctx))
}

// subscript indexes lists and datasets by integer
// (negative indices count from the end) and maps,
// vertices and edges by name
func subscript(c, k value.Value) value.Value {
	if c.IsAbnormal() {
		return c
	}
	if k.IsBadNull() {
		return k
	}
	switch c.Type() {
	case value.ListType:
		if !k.IsInt() {
			return value.BadType()
		}
		vs := c.AsList().Values
		i := ints.Index(k.AsInt(), int64(len(vs)))
		if i < 0 || i >= int64(len(vs)) {
			return value.NullOf(value.NullOutOfRange)
		}
		return vs[i]
	case value.MapType:
		if !k.IsString() {
			return value.Null
		}
		if v, ok := c.AsMap().Get(k.AsString()); ok {
			return v
		}
		return value.Null
	case value.DataSetType:
		if !k.IsInt() {
			return value.BadType()
		}
		rows := c.AsDataSet().Rows
		i := ints.Index(k.AsInt(), int64(len(rows)))
		if i < 0 || i >= int64(len(rows)) {
			return value.NullOf(value.NullOutOfRange)
		}
		return value.ListOf(rows[i]...)
	case value.VertexType, value.EdgeType:
		if !k.IsString() {
			return value.BadType()
		}
		if v, ok := graphField(c, k.AsString()); ok {
			return v
		}
		return value.Null
	}
	return value.BadType()
}

// graphField resolves the reserved fields and
// the properties of a vertex or an edge
func graphField(c value.Value, name string) (value.Value, bool) {
	switch c.Type() {
	case value.VertexType:
		v := c.AsVertex()
		if name == "_vid" {
			return v.Vid, true
		}
		return v.Prop(name)
	case value.EdgeType:
		e := c.AsEdge()
		switch name {
		case "_src":
			return e.Src, true
		case "_dst":
			return e.Dst, true
		case "_type":
			return value.Int(int64(e.Type)), true
		case "_rank":
			return value.Int(e.Ranking), true
		}
		return e.Prop(name)
	}
	return value.Value{}, false
}

func (s *Subscript) Equals(x Node) bool {
	o, ok := x.(*Subscript)
	return ok && Equal(s.Left, o.Left) && Equal(s.Right, o.Right)
}

func (s *Subscript) Clone() Node {
	return &Subscript{Left: Clone(s.Left), Right: Clone(s.Right)}
}

func (s *Subscript) walk(v Visitor) {
	walkOpt(v, s.Left)
	walkOpt(v, s.Right)
}

func (s *Subscript) rewrite(r Rewriter) Node {
	s.Left = Rewrite(r, s.Left)
	s.Right = Rewrite(r, s.Right)
	return s
}

func (s *Subscript) text(dst *strings.Builder) {
	s.Left.text(dst)
	dst.WriteByte('[')
	s.Right.text(dst)
	dst.WriteByte(']')
}

func (s *Subscript) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindSubscript))
	return encodeNodes(dst, s.Left, s.Right)
}

// SubscriptRange is list[lo..hi]. Either bound
// may be nil, meaning the start or the end of
// the list. The upper bound is exclusive.
type SubscriptRange struct {
	List   Node
	Lo, Hi Node
}

func (s *SubscriptRange) Kind() Kind { return KindSubscriptRange }

func (s *SubscriptRange) Eval(ctx Context) value.Value {
	l := s.List.Eval(ctx)
	if l.IsAbnormal() {
		return value.Null
	}
	if l.Type() != value.ListType {
		return value.BadType()
	}
	vs := l.AsList().Values
	n := int64(len(vs))
	lo, hi := int64(0), n
	for _, b := range []struct {
		node Node
		dst  *int64
	}{{s.Lo, &lo}, {s.Hi, &hi}} {
		if b.node == nil {
			continue
		}
		v := b.node.Eval(ctx)
		if v.IsAbnormal() {
			return value.Null
		}
		if !v.IsInt() {
			return value.BadType()
		}
		*b.dst = v.AsInt()
	}
	start, end, ok := ints.Window(lo, hi, n)
	if !ok {
		return value.ListOf()
	}
	return value.ListOf(vs[start:end]...)
}

func (s *SubscriptRange) Equals(x Node) bool {
	o, ok := x.(*SubscriptRange)
	return ok && Equal(s.List, o.List) && Equal(s.Lo, o.Lo) && Equal(s.Hi, o.Hi)
}

func (s *SubscriptRange) Clone() Node {
	return &SubscriptRange{List: Clone(s.List), Lo: Clone(s.Lo), Hi: Clone(s.Hi)}
}

func (s *SubscriptRange) walk(v Visitor) {
	walkOpt(v, s.List)
	walkOpt(v, s.Lo)
	walkOpt(v, s.Hi)
}

func (s *SubscriptRange) rewrite(r Rewriter) Node {
	s.List = Rewrite(r, s.List)
	s.Lo = Rewrite(r, s.Lo)
	s.Hi = Rewrite(r, s.Hi)
	return s
}

func (s *SubscriptRange) text(dst *strings.Builder) {
	s.List.text(dst)
	dst.WriteByte('[')
	if s.Lo != nil {
		s.Lo.text(dst)
	}
	dst.WriteString("..")
	if s.Hi != nil {
		s.Hi.text(dst)
	}
	dst.WriteByte(']')
}

func (s *SubscriptRange) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindSubscriptRange))
	return encodeNodes(dst, s.List, s.Lo, s.Hi)
}

// Attribute is left.name where the right
// operand evaluates to the attribute name.
type Attribute struct {
	Left, Right Node
}

func (a *Attribute) Kind() Kind { return KindAttribute }

func (a *Attribute) Eval(ctx Context) value.Value {
	l := a.Left.Eval(ctx)
	r := a.Right.Eval(ctx)
	if l.IsAbnormal() {
		return l
	}
	if !r.IsString() {
		return value.BadType()
	}
	return attribute(l, r.AsString())
}

// attribute resolves name against a map, a
// vertex, an edge or one of the date types;
// a name that is not present is UnknownProp
func attribute(c value.Value, name string) value.Value {
	if c.IsAbnormal() {
		return c
	}
	var (
		v  value.Value
		ok bool
		i  int64
	)
	switch c.Type() {
	case value.MapType:
		v, ok = c.AsMap().Get(name)
	case value.VertexType, value.EdgeType:
		v, ok = graphField(c, name)
	case value.DateType:
		i, ok = c.AsDate().Field(name)
		v = value.Int(i)
	case value.TimeType:
		i, ok = c.AsTime().Field(name)
		v = value.Int(i)
	case value.DateTimeType:
		i, ok = c.AsDateTime().Field(name)
		v = value.Int(i)
	default:
		return value.BadType()
	}
	if !ok {
		return value.NullOf(value.NullUnknownProp)
	}
	return v
}

func (a *Attribute) Equals(x Node) bool {
	o, ok := x.(*Attribute)
	return ok && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
}

func (a *Attribute) Clone() Node {
	return &Attribute{Left: Clone(a.Left), Right: Clone(a.Right)}
}

func (a *Attribute) walk(v Visitor) {
	walkOpt(v, a.Left)
	walkOpt(v, a.Right)
}

func (a *Attribute) rewrite(r Rewriter) Node {
	a.Left = Rewrite(r, a.Left)
	a.Right = Rewrite(r, a.Right)
	return a
}

func (a *Attribute) text(dst *strings.Builder) {
	a.Left.text(dst)
	dst.WriteByte('.')
	rawText(dst, a.Right)
}

// rawText writes string constants without quotes
func rawText(dst *strings.Builder, n Node) {
	if c, ok := n.(*Constant); ok && c.Val.IsString() {
		dst.WriteString(c.Val.AsString())
		return
	}
	n.text(dst)
}

func (a *Attribute) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindAttribute))
	return encodeNodes(dst, a.Left, a.Right)
}

// Label is a bare identifier produced by the
// parser. Labels are resolved by the validator
// and cannot be persisted.
type Label struct {
	Name string
}

func (l *Label) Kind() Kind                { return KindLabel }
func (l *Label) Eval(Context) value.Value  { return value.String(l.Name) }
func (l *Label) Clone() Node               { return &Label{Name: l.Name} }
func (l *Label) walk(Visitor)              {}
func (l *Label) text(dst *strings.Builder) { dst.WriteString(l.Name) }
func (l *Label) Encode(*wire.Buffer) error { return notEncodable(l) }

func (l *Label) Equals(x Node) bool {
	o, ok := x.(*Label)
	return ok && l.Name == o.Name
}

// LabelAttribute is label.name before the
// validator has resolved what label refers to.
type LabelAttribute struct {
	Left  *Label
	Right *Constant
}

// NewLabelAttribute returns label.name.
func NewLabelAttribute(label, name string) *LabelAttribute {
	return &LabelAttribute{Left: &Label{Name: label}, Right: String(name)}
}

// Name returns the attribute name.
func (l *LabelAttribute) Name() string { return l.Right.Val.Raw() }

func (l *LabelAttribute) Kind() Kind { return KindLabelAttribute }

// Eval resolves the attribute against the
// variable named by the label.
func (l *LabelAttribute) Eval(ctx Context) value.Value {
	return attribute(ctx.Var(l.Left.Name), l.Name())
}

func (l *LabelAttribute) Equals(x Node) bool {
	o, ok := x.(*LabelAttribute)
	return ok && l.Left.Equals(o.Left) && l.Right.Equals(o.Right)
}

func (l *LabelAttribute) Clone() Node {
	return &LabelAttribute{Left: &Label{Name: l.Left.Name}, Right: &Constant{Val: l.Right.Val}}
}

func (l *LabelAttribute) walk(v Visitor) {
	Walk(v, l.Left)
	Walk(v, l.Right)
}

func (l *LabelAttribute) text(dst *strings.Builder) {
	dst.WriteString(l.Left.Name)
	dst.WriteByte('.')
	dst.WriteString(l.Name())
}

func (l *LabelAttribute) Encode(*wire.Buffer) error { return notEncodable(l) }

// LabelTagProperty is label.tag.prop where label
// evaluates to a vertex.
type LabelTagProperty struct {
	Label     Node
	Tag, Prop string
}

func (l *LabelTagProperty) Kind() Kind { return KindLabelTagProperty }

func (l *LabelTagProperty) Eval(ctx Context) value.Value {
	v := l.Label.Eval(ctx)
	if v.Type() != value.VertexType {
		return value.Null
	}
	if p, ok := v.AsVertex().TagProp(l.Tag, l.Prop); ok {
		return p
	}
	return value.Null
}

func (l *LabelTagProperty) Equals(x Node) bool {
	o, ok := x.(*LabelTagProperty)
	return ok && l.Tag == o.Tag && l.Prop == o.Prop && Equal(l.Label, o.Label)
}

func (l *LabelTagProperty) Clone() Node {
	return &LabelTagProperty{Label: Clone(l.Label), Tag: l.Tag, Prop: l.Prop}
}

func (l *LabelTagProperty) walk(v Visitor) { walkOpt(v, l.Label) }

func (l *LabelTagProperty) rewrite(r Rewriter) Node {
	l.Label = Rewrite(r, l.Label)
	return l
}

func (l *LabelTagProperty) text(dst *strings.Builder) {
	l.Label.text(dst)
	dst.WriteByte('.')
	dst.WriteString(l.Tag)
	dst.WriteByte('.')
	dst.WriteString(l.Prop)
}

func (l *LabelTagProperty) Encode(*wire.Buffer) error { return notEncodable(l) }

// Column reads an input column by position.
type Column struct {
	Index int
}

func (c *Column) Kind() Kind                   { return KindColumn }
func (c *Column) Eval(ctx Context) value.Value { return ctx.Column(c.Index) }
func (c *Column) Clone() Node                  { return &Column{Index: c.Index} }
func (c *Column) walk(Visitor)                 {}

func (c *Column) Equals(x Node) bool {
	o, ok := x.(*Column)
	return ok && c.Index == o.Index
}

func (c *Column) text(dst *strings.Builder) {
	dst.WriteString("COLUMN[")
	dst.WriteString(strconv.Itoa(c.Index))
	dst.WriteByte(']')
}

func (c *Column) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindColumn))
	dst.WriteInt(int64(c.Index))
	return nil
}
