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

// Constant is a literal value.
type Constant struct {
	Val value.Value
}

// Const returns a Constant holding v.
func Const(v value.Value) *Constant { return &Constant{Val: v} }

// Int, Float, String and Bool are shorthands
// for constants of the corresponding type.
func Int(i int64) *Constant     { return Const(value.Int(i)) }
func Float(f float64) *Constant { return Const(value.Float(f)) }
func String(s string) *Constant { return Const(value.String(s)) }
func Bool(b bool) *Constant     { return Const(value.Bool(b)) }
func Null() *Constant           { return Const(value.Null) }

func (c *Constant) Kind() Kind   { return KindConstant }
func (c *Constant) Clone() Node  { return &Constant{Val: c.Val} }
func (c *Constant) walk(Visitor) {}

func (c *Constant) Eval(Context) value.Value { return c.Val }

func (c *Constant) Equals(x Node) bool {
	o, ok := x.(*Constant)
	return ok && c.Val.Type() == o.Val.Type() && value.Equals(c.Val, o.Val)
}

func (c *Constant) text(dst *strings.Builder) {
	dst.WriteString(c.Val.String())
}

func (c *Constant) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindConstant))
	c.Val.Encode(dst)
	return nil
}

// Arithmetic is a binary arithmetic operation.
// Op is one of KindAdd, KindMinus, KindMultiply,
// KindDivision or KindMod.
type Arithmetic struct {
	Op          Kind
	Left, Right Node
}

// Arith returns the arithmetic node (left op right).
func Arith(op Kind, left, right Node) *Arithmetic {
	if !op.IsArithmetic() {
		panic("expr.Arith: " + op.String() + " is not an arithmetic operator")
	}
	return &Arithmetic{Op: op, Left: left, Right: right}
}

func (a *Arithmetic) Kind() Kind { return a.Op }

func (a *Arithmetic) Eval(ctx Context) value.Value {
	l := a.Left.Eval(ctx)
	r := a.Right.Eval(ctx)
	switch a.Op {
	case KindAdd:
		return value.Add(l, r)
	case KindMinus:
		return value.Sub(l, r)
	case KindMultiply:
		return value.Mul(l, r)
	case KindDivision:
		return value.Div(l, r)
	case KindMod:
		return value.Mod(l, r)
	}
	panic("expr: bad arithmetic kind " + a.Op.String())
}

func (a *Arithmetic) Equals(x Node) bool {
	o, ok := x.(*Arithmetic)
	return ok && a.Op == o.Op && Equal(a.Left, o.Left) && Equal(a.Right, o.Right)
}

func (a *Arithmetic) Clone() Node {
	return &Arithmetic{Op: a.Op, Left: Clone(a.Left), Right: Clone(a.Right)}
}

func (a *Arithmetic) walk(v Visitor) {
	walkOpt(v, a.Left)
	walkOpt(v, a.Right)
}

func (a *Arithmetic) rewrite(r Rewriter) Node {
	a.Left = Rewrite(r, a.Left)
	a.Right = Rewrite(r, a.Right)
	return a
}

func (a *Arithmetic) text(dst *strings.Builder) {
	dst.WriteByte('(')
	a.Left.text(dst)
	dst.WriteString(opText[a.Op])
	a.Right.text(dst)
	dst.WriteByte(')')
}

func (a *Arithmetic) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(a.Op))
	return encodeNodes(dst, a.Left, a.Right)
}

// Unary is a prefix or postfix unary operation.
type Unary struct {
	Op      Kind
	Operand Node
}

// NewUnary returns the unary node op(operand).
func NewUnary(op Kind, operand Node) *Unary {
	if !op.IsUnary() {
		panic("expr.NewUnary: " + op.String() + " is not a unary operator")
	}
	return &Unary{Op: op, Operand: operand}
}

// Not returns !(n).
func Not(n Node) *Unary { return &Unary{Op: KindUnaryNot, Operand: n} }

func (u *Unary) Kind() Kind { return u.Op }

func (u *Unary) Eval(ctx Context) value.Value {
	v := u.Operand.Eval(ctx)
	switch u.Op {
	case KindUnaryPlus:
		return v
	case KindUnaryNegate:
		return value.Neg(v)
	case KindUnaryNot:
		return value.Not(v)
	case KindUnaryIncr, KindUnaryDecr:
		delta := int64(1)
		if u.Op == KindUnaryDecr {
			delta = -1
		}
		res := value.Add(v, value.Int(delta))
		if vr, ok := u.Operand.(*Variable); ok {
			ctx.SetVar(vr.Name, res)
		}
		return res
	case KindIsNull:
		return value.Bool(v.IsNull())
	case KindIsNotNull:
		return value.Bool(!v.IsNull())
	case KindIsEmpty:
		return value.Bool(v.IsEmpty())
	case KindIsNotEmpty:
		return value.Bool(!v.IsEmpty())
	}
	panic("expr: bad unary kind " + u.Op.String())
}

func (u *Unary) Equals(x Node) bool {
	o, ok := x.(*Unary)
	return ok && u.Op == o.Op && Equal(u.Operand, o.Operand)
}

func (u *Unary) Clone() Node {
	return &Unary{Op: u.Op, Operand: Clone(u.Operand)}
}

func (u *Unary) walk(v Visitor) { walkOpt(v, u.Operand) }

func (u *Unary) rewrite(r Rewriter) Node {
	u.Operand = Rewrite(r, u.Operand)
	return u
}

func (u *Unary) text(dst *strings.Builder) {
	var prefix, suffix string
	switch u.Op {
	case KindUnaryPlus:
		prefix = "+"
	case KindUnaryNegate:
		prefix = "-"
	case KindUnaryNot:
		prefix = "!"
	case KindUnaryIncr:
		prefix = "++"
	case KindUnaryDecr:
		prefix = "--"
	case KindIsNull:
		suffix = " IS NULL"
	case KindIsNotNull:
		suffix = " IS NOT NULL"
	case KindIsEmpty:
		suffix = " IS EMPTY"
	case KindIsNotEmpty:
		suffix = " IS NOT EMPTY"
	}
	if suffix != "" {
		u.Operand.text(dst)
		dst.WriteString(suffix)
		return
	}
	dst.WriteString(prefix)
	dst.WriteByte('(')
	u.Operand.text(dst)
	dst.WriteByte(')')
}

func (u *Unary) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(u.Op))
	return encodeNodes(dst, u.Operand)
}

// TypeCasting converts its operand to a scalar type.
type TypeCasting struct {
	To      value.Type
	Operand Node
}

func (t *TypeCasting) Kind() Kind { return KindTypeCasting }

// Eval converts the operand with the conversion
// rules of value.Value.ToType; casting a value
// to its own type is the identity.
func (t *TypeCasting) Eval(ctx Context) value.Value {
	v := t.Operand.Eval(ctx)
	if v.Type() == t.To && !v.IsAbnormal() {
		return v
	}
	return v.ToType(t.To)
}

func (t *TypeCasting) Equals(x Node) bool {
	o, ok := x.(*TypeCasting)
	return ok && t.To == o.To && Equal(t.Operand, o.Operand)
}

func (t *TypeCasting) Clone() Node {
	return &TypeCasting{To: t.To, Operand: Clone(t.Operand)}
}

func (t *TypeCasting) walk(v Visitor) { walkOpt(v, t.Operand) }

func (t *TypeCasting) rewrite(r Rewriter) Node {
	t.Operand = Rewrite(r, t.Operand)
	return t
}

func (t *TypeCasting) text(dst *strings.Builder) {
	dst.WriteByte('(')
	dst.WriteString(t.To.String())
	dst.WriteByte(')')
	t.Operand.text(dst)
}

func (t *TypeCasting) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(KindTypeCasting))
	dst.WriteUvarint(uint64(t.To))
	return encodeNodes(dst, t.Operand)
}
