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

// iterate binds name to each item of the list
// coll in turn and calls fn until it returns false.
// The previous binding of name is restored after
// the loop.
func iterate(ctx Context, name string, coll value.Value, fn func(item value.Value) bool) {
	saved := ctx.Var(name)
	defer ctx.SetVar(name, saved)
	for _, item := range coll.AsList().Values {
		ctx.SetVar(name, item)
		if !fn(item) {
			return
		}
	}
}

// collection checks the value iterated by a
// comprehension, returning the result to use
// when it is not a list
func collection(coll value.Value) (value.Value, bool) {
	if coll.IsAbnormal() {
		return value.Null, false
	}
	if coll.Type() != value.ListType {
		return value.BadType(), false
	}
	return coll, true
}

// ListComprehension is [var IN coll WHERE filter | mapping].
// Filter and Mapping are optional.
type ListComprehension struct {
	Var        string
	Collection Node
	Filter     Node
	Mapping    Node
}

func (l *ListComprehension) Kind() Kind { return KindListComprehension }

// Eval skips items for which the filter is not
// true; a filter that is neither a bool nor
// abnormal makes the result BadType.
func (l *ListComprehension) Eval(ctx Context) value.Value {
	coll, ok := collection(l.Collection.Eval(ctx))
	if !ok {
		return coll
	}
	var out []value.Value
	bad := false
	iterate(ctx, l.Var, coll, func(item value.Value) bool {
		if l.Filter != nil {
			f := l.Filter.Eval(ctx)
			if !f.IsBool() && !f.IsAbnormal() {
				bad = true
				return false
			}
			if !f.IsTrue() {
				return true
			}
		}
		if l.Mapping != nil {
			item = l.Mapping.Eval(ctx)
		}
		out = append(out, item)
		return true
	})
	if bad {
		return value.BadType()
	}
	return value.ListOf(out...)
}

func (l *ListComprehension) Equals(x Node) bool {
	o, ok := x.(*ListComprehension)
	return ok && l.Var == o.Var && Equal(l.Collection, o.Collection) &&
		Equal(l.Filter, o.Filter) && Equal(l.Mapping, o.Mapping)
}

func (l *ListComprehension) Clone() Node {
	return &ListComprehension{
		Var:        l.Var,
		Collection: Clone(l.Collection),
		Filter:     Clone(l.Filter),
		Mapping:    Clone(l.Mapping),
	}
}

func (l *ListComprehension) walk(v Visitor) {
	walkOpt(v, l.Collection)
	walkOpt(v, l.Filter)
	walkOpt(v, l.Mapping)
}

func (l *ListComprehension) rewrite(r Rewriter) Node {
	l.Collection = Rewrite(r, l.Collection)
	l.Filter = Rewrite(r, l.Filter)
	l.Mapping = Rewrite(r, l.Mapping)
	return l
}

func (l *ListComprehension) text(dst *strings.Builder) {
	dst.WriteByte('[')
	dst.WriteString(l.Var)
	dst.WriteString(" IN ")
	l.Collection.text(dst)
	if l.Filter != nil {
		dst.WriteString(" WHERE ")
		l.Filter.text(dst)
	}
	if l.Mapping != nil {
		dst.WriteString(" | ")
		l.Mapping.text(dst)
	}
	dst.WriteByte(']')
}

func (l *ListComprehension) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindListComprehension))
	dst.WriteString(l.Var)
	return encodeNodes(dst, l.Collection, l.Filter, l.Mapping)
}

// Predicate names
const (
	PredAll    = "all"
	PredAny    = "any"
	PredSingle = "single"
	PredNone   = "none"
	PredExists = "exists"
)

// Predicate is all/any/single/none(var IN coll WHERE filter)
// or exists(prop). For exists, Collection holds the
// property access being tested and Var and Filter
// are unused.
type Predicate struct {
	Name       string
	Var        string
	Collection Node
	Filter     Node
}

func (p *Predicate) Kind() Kind { return KindPredicate }

func (p *Predicate) Eval(ctx Context) value.Value {
	if p.Name == PredExists {
		return p.exists(ctx)
	}
	coll, ok := collection(p.Collection.Eval(ctx))
	if !ok {
		return coll
	}
	var res value.Value
	switch p.Name {
	case PredAll, PredNone:
		res = value.True
	case PredAny, PredSingle:
		res = value.False
	default:
		return value.BadType()
	}
	iterate(ctx, p.Var, coll, func(value.Value) bool {
		f := p.Filter.Eval(ctx)
		if !f.IsBool() && !f.IsAbnormal() {
			res = value.BadType()
			return false
		}
		switch p.Name {
		case PredAll:
			if !f.IsTrue() {
				res = value.False
				return false
			}
		case PredAny:
			if f.IsTrue() {
				res = value.True
				return false
			}
		case PredSingle:
			if f.IsTrue() {
				if res.IsTrue() {
					res = value.False
					return false
				}
				res = value.True
			}
		case PredNone:
			if f.IsTrue() {
				res = value.False
				return false
			}
		}
		return true
	})
	return res
}

// exists reports whether the container holds
// the key being accessed
func (p *Predicate) exists(ctx Context) value.Value {
	var c, k value.Value
	switch a := p.Collection.(type) {
	case *Attribute:
		c, k = a.Left.Eval(ctx), a.Right.Eval(ctx)
	case *Subscript:
		c, k = a.Left.Eval(ctx), a.Right.Eval(ctx)
	case *LabelAttribute:
		c, k = ctx.Var(a.Left.Name), value.String(a.Name())
	default:
		return value.BadType()
	}
	if c.IsAbnormal() {
		return value.Null
	}
	if !k.IsString() {
		return value.BadType()
	}
	switch c.Type() {
	case value.MapType:
		_, ok := c.AsMap().Get(k.AsString())
		return value.Bool(ok)
	case value.VertexType, value.EdgeType:
		_, ok := graphField(c, k.AsString())
		return value.Bool(ok)
	}
	return value.BadType()
}

func (p *Predicate) Equals(x Node) bool {
	o, ok := x.(*Predicate)
	return ok && p.Name == o.Name && p.Var == o.Var &&
		Equal(p.Collection, o.Collection) && Equal(p.Filter, o.Filter)
}

func (p *Predicate) Clone() Node {
	return &Predicate{
		Name:       p.Name,
		Var:        p.Var,
		Collection: Clone(p.Collection),
		Filter:     Clone(p.Filter),
	}
}

func (p *Predicate) walk(v Visitor) {
	walkOpt(v, p.Collection)
	walkOpt(v, p.Filter)
}

func (p *Predicate) rewrite(r Rewriter) Node {
	p.Collection = Rewrite(r, p.Collection)
	p.Filter = Rewrite(r, p.Filter)
	return p
}

func (p *Predicate) text(dst *strings.Builder) {
	dst.WriteString(p.Name)
	dst.WriteByte('(')
	if p.Name == PredExists {
		p.Collection.text(dst)
		dst.WriteByte(')')
		return
	}
	dst.WriteString(p.Var)
	dst.WriteString(" IN ")
	p.Collection.text(dst)
	if p.Filter != nil {
		dst.WriteString(" WHERE ")
		p.Filter.text(dst)
	}
	dst.WriteByte(')')
}

func (p *Predicate) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindPredicate))
	dst.WriteString(p.Name)
	dst.WriteString(p.Var)
	return encodeNodes(dst, p.Collection, p.Filter)
}

// Reduce is reduce(acc = initial, var IN coll | mapping).
type Reduce struct {
	Acc        string
	Initial    Node
	Var        string
	Collection Node
	Mapping    Node
}

func (r *Reduce) Kind() Kind { return KindReduce }

func (r *Reduce) Eval(ctx Context) value.Value {
	coll, ok := collection(r.Collection.Eval(ctx))
	if !ok {
		return coll
	}
	saved := ctx.Var(r.Acc)
	defer ctx.SetVar(r.Acc, saved)
	acc := r.Initial.Eval(ctx)
	ctx.SetVar(r.Acc, acc)
	iterate(ctx, r.Var, coll, func(value.Value) bool {
		acc = r.Mapping.Eval(ctx)
		ctx.SetVar(r.Acc, acc)
		return true
	})
	return acc
}

func (r *Reduce) Equals(x Node) bool {
	o, ok := x.(*Reduce)
	return ok && r.Acc == o.Acc && r.Var == o.Var && Equal(r.Initial, o.Initial) &&
		Equal(r.Collection, o.Collection) && Equal(r.Mapping, o.Mapping)
}

func (r *Reduce) Clone() Node {
	return &Reduce{
		Acc:        r.Acc,
		Initial:    Clone(r.Initial),
		Var:        r.Var,
		Collection: Clone(r.Collection),
		Mapping:    Clone(r.Mapping),
	}
}

func (r *Reduce) walk(v Visitor) {
	walkOpt(v, r.Initial)
	walkOpt(v, r.Collection)
	walkOpt(v, r.Mapping)
}

func (r *Reduce) rewrite(rw Rewriter) Node {
	r.Initial = Rewrite(rw, r.Initial)
	r.Collection = Rewrite(rw, r.Collection)
	r.Mapping = Rewrite(rw, r.Mapping)
	return r
}

func (r *Reduce) text(dst *strings.Builder) {
	dst.WriteString("reduce(")
	dst.WriteString(r.Acc)
	dst.WriteString(" = ")
	r.Initial.text(dst)
	dst.WriteString(", ")
	dst.WriteString(r.Var)
	dst.WriteString(" IN ")
	r.Collection.text(dst)
	dst.WriteString(" | ")
	r.Mapping.text(dst)
	dst.WriteByte(')')
}

func (r *Reduce) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindReduce))
	dst.WriteString(r.Acc)
	dst.WriteString(r.Var)
	return encodeNodes(dst, r.Initial, r.Collection, r.Mapping)
}
