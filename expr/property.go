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

	"github.com/google/uuid"
)

// Property reads a property from the context.
//
// Op selects where the property comes from:
//
//	KindTagProperty    tag.prop
//	KindEdgeProperty   edge.prop
//	KindInputProperty  $-.prop
//	KindVarProperty    $var.prop
//	KindSrcProperty    $^.tag.prop
//	KindDstProperty    $$.tag.prop
//	KindEdgeSrc        edge._src
//	KindEdgeType       edge._type
//	KindEdgeRank       edge._rank
//	KindEdgeDst        edge._dst
//
// Ref is the tag, edge or variable name;
// it is empty for input properties.
type Property struct {
	Op   Kind
	Ref  string
	Prop string
}

func TagProp(tag, prop string) *Property {
	return &Property{Op: KindTagProperty, Ref: tag, Prop: prop}
}

func EdgeProp(edge, prop string) *Property {
	return &Property{Op: KindEdgeProperty, Ref: edge, Prop: prop}
}

func InputProp(prop string) *Property {
	return &Property{Op: KindInputProperty, Prop: prop}
}

func VarProp(variable, prop string) *Property {
	return &Property{Op: KindVarProperty, Ref: variable, Prop: prop}
}

func SrcProp(tag, prop string) *Property {
	return &Property{Op: KindSrcProperty, Ref: tag, Prop: prop}
}

func DstProp(tag, prop string) *Property {
	return &Property{Op: KindDstProperty, Ref: tag, Prop: prop}
}

// EdgeField returns one of the reserved edge fields;
// op is KindEdgeSrc, KindEdgeType, KindEdgeRank or
// KindEdgeDst.
func EdgeField(op Kind, edge string) *Property {
	return &Property{Op: op, Ref: edge, Prop: edgeFields[op]}
}

var edgeFields = map[Kind]string{
	KindEdgeSrc:  "_src",
	KindEdgeType: "_type",
	KindEdgeRank: "_rank",
	KindEdgeDst:  "_dst",
}

func (p *Property) Kind() Kind { return p.Op }

func (p *Property) Eval(ctx Context) value.Value {
	switch p.Op {
	case KindTagProperty:
		return ctx.TagProp(p.Ref, p.Prop)
	case KindEdgeProperty, KindEdgeSrc, KindEdgeType, KindEdgeRank, KindEdgeDst:
		return ctx.EdgeProp(p.Ref, p.Prop)
	case KindInputProperty:
		return ctx.InputProp(p.Prop)
	case KindVarProperty:
		return ctx.VarProp(p.Ref, p.Prop)
	case KindSrcProperty:
		return ctx.SrcProp(p.Ref, p.Prop)
	case KindDstProperty:
		return ctx.DstProp(p.Ref, p.Prop)
	}
	panic("expr: bad property kind " + p.Op.String())
}

func (p *Property) Equals(x Node) bool {
	o, ok := x.(*Property)
	return ok && *p == *o
}

func (p *Property) Clone() Node {
	c := *p
	return &c
}

func (p *Property) walk(Visitor) {}

func (p *Property) text(dst *strings.Builder) {
	switch p.Op {
	case KindInputProperty:
		dst.WriteString("$-")
	case KindVarProperty:
		dst.WriteByte('$')
		dst.WriteString(p.Ref)
	case KindSrcProperty:
		dst.WriteString("$^.")
		dst.WriteString(p.Ref)
	case KindDstProperty:
		dst.WriteString("$$.")
		dst.WriteString(p.Ref)
	default:
		dst.WriteString(p.Ref)
	}
	dst.WriteByte('.')
	dst.WriteString(p.Prop)
}

func (p *Property) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(p.Op))
	dst.WriteString(p.Ref)
	dst.WriteString(p.Prop)
	return nil
}

// Vertex evaluates to a vertex bound in the
// context. The default name is "VERTEX"; "$^"
// and "$$" name the source and destination
// vertices of the current edge.
type Vertex struct {
	Name string
}

func (v *Vertex) Kind() Kind                   { return KindVertex }
func (v *Vertex) Eval(ctx Context) value.Value { return ctx.Vertex(v.Name) }
func (v *Vertex) Clone() Node                  { return &Vertex{Name: v.Name} }
func (v *Vertex) walk(Visitor)                 {}
func (v *Vertex) text(dst *strings.Builder)    { dst.WriteString(v.Name) }

func (v *Vertex) Equals(x Node) bool {
	o, ok := x.(*Vertex)
	return ok && v.Name == o.Name
}

func (v *Vertex) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindVertex))
	dst.WriteString(v.Name)
	return nil
}

// Edge evaluates to the current edge.
type Edge struct{}

func (e *Edge) Kind() Kind                   { return KindEdge }
func (e *Edge) Eval(ctx Context) value.Value { return ctx.Edge() }
func (e *Edge) Clone() Node                  { return &Edge{} }
func (e *Edge) walk(Visitor)                 {}
func (e *Edge) text(dst *strings.Builder)    { dst.WriteString("EDGE") }

func (e *Edge) Equals(x Node) bool {
	_, ok := x.(*Edge)
	return ok
}

func (e *Edge) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindEdge))
	return nil
}

// UUID evaluates to a fresh random UUID string.
type UUID struct{}

func (u *UUID) Kind() Kind                { return KindUUID }
func (u *UUID) Eval(Context) value.Value  { return value.String(uuid.NewString()) }
func (u *UUID) Clone() Node               { return &UUID{} }
func (u *UUID) walk(Visitor)              {}
func (u *UUID) text(dst *strings.Builder) { dst.WriteString("uuid()") }

func (u *UUID) Equals(x Node) bool {
	_, ok := x.(*UUID)
	return ok
}

func (u *UUID) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindUUID))
	return nil
}

// Variable reads a named variable. Inner variables
// are the bindings introduced by comprehensions
// and reduce and print without the '$' sigil.
type Variable struct {
	Name  string
	Inner bool
}

// Var returns the variable $name.
func Var(name string) *Variable { return &Variable{Name: name} }

// InnerVar returns the inner variable name.
func InnerVar(name string) *Variable { return &Variable{Name: name, Inner: true} }

func (v *Variable) Kind() Kind                   { return KindVariable }
func (v *Variable) Eval(ctx Context) value.Value { return ctx.Var(v.Name) }
func (v *Variable) walk(Visitor)                 {}

func (v *Variable) Clone() Node {
	c := *v
	return &c
}

func (v *Variable) Equals(x Node) bool {
	o, ok := x.(*Variable)
	return ok && *v == *o
}

func (v *Variable) text(dst *strings.Builder) {
	if !v.Inner {
		dst.WriteByte('$')
	}
	dst.WriteString(v.Name)
}

func (v *Variable) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindVariable))
	dst.WriteString(v.Name)
	dst.WriteBool(v.Inner)
	return nil
}

// VersionedVariable reads a past binding of a
// variable; see Context.VersionedVar for the
// meaning of the version.
type VersionedVariable struct {
	Name    string
	Version Node
}

func (v *VersionedVariable) Kind() Kind { return KindVersionedVariable }

func (v *VersionedVariable) Eval(ctx Context) value.Value {
	ver := v.Version.Eval(ctx)
	if ver.IsAbnormal() {
		return ver
	}
	if !ver.IsInt() {
		return value.BadType()
	}
	return ctx.VersionedVar(v.Name, ver.AsInt())
}

func (v *VersionedVariable) Equals(x Node) bool {
	o, ok := x.(*VersionedVariable)
	return ok && v.Name == o.Name && Equal(v.Version, o.Version)
}

func (v *VersionedVariable) Clone() Node {
	return &VersionedVariable{Name: v.Name, Version: Clone(v.Version)}
}

func (v *VersionedVariable) walk(w Visitor) { walkOpt(w, v.Version) }

func (v *VersionedVariable) rewrite(r Rewriter) Node {
	v.Version = Rewrite(r, v.Version)
	return v
}

func (v *VersionedVariable) text(dst *strings.Builder) {
	dst.WriteByte('$')
	dst.WriteString(v.Name)
	dst.WriteByte('{')
	v.Version.text(dst)
	dst.WriteByte('}')
}

func (v *VersionedVariable) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindVersionedVariable))
	dst.WriteString(v.Name)
	return encodeNodes(dst, v.Version)
}
