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

// Logical is an N-ary AND, OR or XOR.
// Operands are evaluated left to right.
type Logical struct {
	Op       Kind
	Operands []Node
}

// NewLogical returns the logical node op(operands...).
func NewLogical(op Kind, operands ...Node) *Logical {
	if !op.IsLogical() {
		panic("expr.NewLogical: " + op.String() + " is not a logical operator")
	}
	return &Logical{Op: op, Operands: operands}
}

// And, Or and Xor construct logical nodes.
func And(operands ...Node) *Logical { return NewLogical(KindLogicalAnd, operands...) }
func Or(operands ...Node) *Logical  { return NewLogical(KindLogicalOr, operands...) }
func Xor(operands ...Node) *Logical { return NewLogical(KindLogicalXor, operands...) }

func (l *Logical) Kind() Kind { return l.Op }

// Eval folds the operands with the ternary
// operators of package value. AND stops at the
// first false operand and OR at the first true
// one; XOR evaluates every operand.
func (l *Logical) Eval(ctx Context) value.Value {
	switch l.Op {
	case KindLogicalAnd:
		acc := value.True
		for _, o := range l.Operands {
			acc = value.And(acc, o.Eval(ctx))
			if acc.IsFalse() {
				break
			}
		}
		return acc
	case KindLogicalOr:
		acc := value.False
		for _, o := range l.Operands {
			acc = value.Or(acc, o.Eval(ctx))
			if acc.IsTrue() {
				break
			}
		}
		return acc
	case KindLogicalXor:
		if len(l.Operands) == 0 {
			return value.False
		}
		acc := l.Operands[0].Eval(ctx)
		for _, o := range l.Operands[1:] {
			acc = value.Xor(acc, o.Eval(ctx))
		}
		return acc
	}
	panic("expr: bad logical kind " + l.Op.String())
}

func (l *Logical) Equals(x Node) bool {
	o, ok := x.(*Logical)
	return ok && l.Op == o.Op && equalAll(l.Operands, o.Operands)
}

func (l *Logical) Clone() Node {
	return &Logical{Op: l.Op, Operands: cloneAll(l.Operands)}
}

func (l *Logical) walk(v Visitor) { walkAll(v, l.Operands) }

func (l *Logical) rewrite(r Rewriter) Node {
	rewriteAll(r, l.Operands)
	return l
}

func (l *Logical) text(dst *strings.Builder) {
	dst.WriteByte('(')
	textAll(dst, l.Operands, opText[l.Op])
	dst.WriteByte(')')
}

func (l *Logical) Encode(dst *wire.Buffer) error {
	dst.WriteTag(byte(l.Op))
	return encodeList(dst, l.Operands)
}
