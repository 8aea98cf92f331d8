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

package value

import (
	"math"
	"strings"
)

// abnormal applies the precedence shared by the
// arithmetic and relational operators: a failure
// NULL wins (left operand first), then NULL, then
// EMPTY.
func abnormal(a, b Value) (Value, bool) {
	switch {
	case a.IsBadNull():
		return a, true
	case b.IsBadNull():
		return b, true
	case a.IsNull() || b.IsNull():
		return Null, true
	case a.IsEmpty() || b.IsEmpty():
		return Empty, true
	}
	return Value{}, false
}

func overflow() Value  { return NullOf(NullOverflow) }
func divByZero() Value { return NullOf(NullDivByZero) }

// concatenable types are converted to
// text when added to a string
const concatenable = BoolType | IntType | FloatType | StringType | DateType | TimeType | DateTimeType

// Add implements the + operator: numeric addition,
// string concatenation, list append/prepend/concat,
// and adding a number of days to a DATE.
func Add(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	switch {
	case a.typ == IntType && b.typ == IntType:
		s := a.i + b.i
		if (s > a.i) != (b.i > 0) {
			return overflow()
		}
		return Int(s)
	case a.IsNumeric() && b.IsNumeric():
		return Float(a.AsFloat() + b.AsFloat())
	case a.typ == ListType && b.typ == ListType:
		l, r := a.AsList().Values, b.AsList().Values
		out := make([]Value, 0, len(l)+len(r))
		return ListOf(append(append(out, l...), r...)...)
	case a.typ == ListType && b.typ != DataSetType:
		l := a.AsList().Values
		out := make([]Value, 0, len(l)+1)
		return ListOf(append(append(out, l...), b)...)
	case b.typ == ListType && a.typ != DataSetType:
		r := b.AsList().Values
		out := make([]Value, 0, len(r)+1)
		return ListOf(append(append(out, a), r...)...)
	case a.typ == StringType && b.typ&concatenable != 0:
		return String(a.s + b.Raw())
	case b.typ == StringType && a.typ&concatenable != 0:
		return String(a.Raw() + b.s)
	case a.typ == DateType && b.typ == IntType:
		return FromDate(a.AsDate().AddDays(b.i))
	case a.typ == IntType && b.typ == DateType:
		return FromDate(b.AsDate().AddDays(a.i))
	}
	return BadType()
}

// Sub implements the binary - operator.
// Subtracting two DATEs yields the number
// of days between them.
func Sub(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	switch {
	case a.typ == IntType && b.typ == IntType:
		d := a.i - b.i
		if (d < a.i) != (b.i > 0) {
			return overflow()
		}
		return Int(d)
	case a.IsNumeric() && b.IsNumeric():
		return Float(a.AsFloat() - b.AsFloat())
	case a.typ == DateType && b.typ == IntType:
		return FromDate(a.AsDate().AddDays(-b.i))
	case a.typ == DateType && b.typ == DateType:
		return Int(a.AsDate().Days() - b.AsDate().Days())
	}
	return BadType()
}

// Mul implements the * operator.
func Mul(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	switch {
	case a.typ == IntType && b.typ == IntType:
		x, y := a.i, b.i
		if x == 0 || y == 0 {
			return Int(0)
		}
		p := x * y
		if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return overflow()
		}
		return Int(p)
	case a.IsNumeric() && b.IsNumeric():
		return Float(a.AsFloat() * b.AsFloat())
	}
	return BadType()
}

// Div implements the / operator. Integer division
// truncates toward zero.
func Div(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	switch {
	case a.typ == IntType && b.typ == IntType:
		if b.i == 0 {
			return divByZero()
		}
		if a.i == math.MinInt64 && b.i == -1 {
			return overflow()
		}
		return Int(a.i / b.i)
	case a.IsNumeric() && b.IsNumeric():
		d := b.AsFloat()
		if math.Abs(d) < Epsilon {
			return divByZero()
		}
		return Float(a.AsFloat() / d)
	}
	return BadType()
}

// Mod implements the % operator. The result takes
// the sign of the dividend, as math.Mod does.
func Mod(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	switch {
	case a.typ == IntType && b.typ == IntType:
		if b.i == 0 {
			return divByZero()
		}
		if b.i == -1 {
			return Int(0)
		}
		return Int(a.i % b.i)
	case a.IsNumeric() && b.IsNumeric():
		d := b.AsFloat()
		if math.Abs(d) < Epsilon {
			return divByZero()
		}
		return Float(math.Mod(a.AsFloat(), d))
	}
	return BadType()
}

// Neg implements unary minus.
func Neg(v Value) Value {
	switch v.Type() {
	case NullType, EmptyType:
		return v
	case IntType:
		if v.i == math.MinInt64 {
			return overflow()
		}
		return Int(-v.i)
	case FloatType:
		return Float(-v.f)
	}
	return BadType()
}

// Not implements logical negation.
func Not(v Value) Value {
	switch v.Type() {
	case NullType, EmptyType:
		return v
	case BoolType:
		return Bool(!v.AsBool())
	}
	return BadType()
}

// Equal implements the == operator. Numbers
// compare by value; values of different non-numeric
// types are never equal.
func Equal(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.IsNumeric() && b.IsNumeric() {
		return Bool(numEqual(a, b))
	}
	if a.typ != b.typ {
		return False
	}
	return Bool(Equals(a, b))
}

// NotEqual implements the != operator.
func NotEqual(a, b Value) Value {
	r := Equal(a, b)
	if r.IsBool() {
		return Bool(!r.AsBool())
	}
	return r
}

const orderable = BoolType | StringType | DateType | TimeType | DateTimeType |
	VertexType | EdgeType | PathType | ListType

// order compares two plain values for the ordering
// operators; mismatched or unordered types are a
// type error.
func order(a, b Value) (int, Value, bool) {
	if v, ok := abnormal(a, b); ok {
		return 0, v, false
	}
	if a.IsNumeric() && b.IsNumeric() {
		return numCompare(a, b), Value{}, true
	}
	if a.typ != b.typ || a.typ&orderable == 0 {
		return 0, BadType(), false
	}
	return Compare(a, b), Value{}, true
}

// Less implements the < operator.
func Less(a, b Value) Value {
	c, v, ok := order(a, b)
	if !ok {
		return v
	}
	return Bool(c < 0)
}

// LessEqual implements the <= operator.
func LessEqual(a, b Value) Value {
	c, v, ok := order(a, b)
	if !ok {
		return v
	}
	return Bool(c <= 0)
}

// Greater implements the > operator.
func Greater(a, b Value) Value {
	c, v, ok := order(a, b)
	if !ok {
		return v
	}
	return Bool(c > 0)
}

// GreaterEqual implements the >= operator.
func GreaterEqual(a, b Value) Value {
	c, v, ok := order(a, b)
	if !ok {
		return v
	}
	return Bool(c >= 0)
}

// And implements logical conjunction of two
// operands. A false operand decides the result
// even when the other one is NULL or a failure.
func And(a, b Value) Value {
	if a.IsFalse() || b.IsFalse() {
		return False
	}
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.IsBool() && b.IsBool() {
		return True
	}
	return BadType()
}

// Or implements logical disjunction of two
// operands. A true operand decides the result
// even when the other one is NULL or a failure.
func Or(a, b Value) Value {
	if a.IsTrue() || b.IsTrue() {
		return True
	}
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.IsBool() && b.IsBool() {
		return False
	}
	return BadType()
}

// Xor implements exclusive or. Unlike And and Or,
// no operand value decides the result on its own.
func Xor(a, b Value) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.IsBool() && b.IsBool() {
		return Bool(a.AsBool() != b.AsBool())
	}
	return BadType()
}

func bitwise(a, b Value, op func(x, y int64) int64) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.typ == IntType && b.typ == IntType {
		return Int(op(a.i, b.i))
	}
	return BadType()
}

// BitAnd implements integer bitwise and.
func BitAnd(a, b Value) Value {
	return bitwise(a, b, func(x, y int64) int64 { return x & y })
}

// BitOr implements integer bitwise or.
func BitOr(a, b Value) Value {
	return bitwise(a, b, func(x, y int64) int64 { return x | y })
}

// BitXor implements integer bitwise exclusive or.
func BitXor(a, b Value) Value {
	return bitwise(a, b, func(x, y int64) int64 { return x ^ y })
}

// In implements the IN operator.
//
// The container must be a LIST, SET or MAP (a MAP
// is searched by key). A match on a plain value
// yields true. When there is no match but the
// container holds a NULL, or the needle itself is
// NULL, the result is NULL rather than false.
func In(x, c Value) Value {
	var r Value
	switch c.Type() {
	case NullType:
		if !c.IsBadNull() {
			return Null
		}
		return BadType()
	case ListType:
		r = inValues(x, c.AsList().Values)
	case SetType:
		s := c.AsSet()
		if !x.IsAbnormal() && s.Contains(x) {
			r = True
		} else {
			r = inValues(x, s.Values())
		}
	case MapType:
		r = False
		if x.IsString() {
			_, ok := c.AsMap().Get(x.s)
			r = Bool(ok)
		}
	default:
		return BadType()
	}
	if !r.IsBadNull() && x.IsNull() {
		return Null
	}
	return r
}

func inValues(x Value, vs []Value) Value {
	sawNull := false
	for i := range vs {
		if vs[i].IsNull() {
			sawNull = true
			continue
		}
		if Equal(x, vs[i]).IsTrue() {
			return True
		}
	}
	if sawNull {
		return Null
	}
	return False
}

// NotIn implements the NOT IN operator.
func NotIn(x, c Value) Value {
	return Not(In(x, c))
}

func strop(a, b Value, op func(s, t string) bool) Value {
	if v, ok := abnormal(a, b); ok {
		return v
	}
	if a.typ == StringType && b.typ == StringType {
		return Bool(op(a.s, b.s))
	}
	return BadType()
}

// Contains implements the CONTAINS operator.
func Contains(a, b Value) Value { return strop(a, b, strings.Contains) }

// StartsWith implements the STARTS WITH operator.
func StartsWith(a, b Value) Value { return strop(a, b, strings.HasPrefix) }

// EndsWith implements the ENDS WITH operator.
func EndsWith(a, b Value) Value { return strop(a, b, strings.HasSuffix) }
