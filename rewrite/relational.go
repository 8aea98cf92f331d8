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
package rewrite

import (
	"github.com/SnellerInc/graphexpr/expr"
)

// ordered reports whether terms may be moved
// across a comparison of kind k.
func ordered(k expr.Kind) bool {
	return k >= expr.KindRelEQ && k <= expr.KindRelGE
}

func isStringConst(n expr.Node) bool {
	c, ok := n.(*expr.Constant)
	return ok && c.Val.IsString()
}

// movable reports whether n can be moved
// to the other side of a comparison.
func movable(n expr.Node) bool {
	return !isStringConst(n) && expr.IsEvaluable(n)
}

// hasMovableTerm reports whether a is an
// addition or subtraction with a term
// that can be moved to the right side.
// In (c - x) only x could be moved, which
// would flip the comparison, so it is not.
func hasMovableTerm(a *expr.Arithmetic) bool {
	switch a.Op {
	case expr.KindAdd:
		return movable(a.Left) || movable(a.Right)
	case expr.KindMinus:
		return movable(a.Right)
	}
	return false
}

func isNullConst(n expr.Node) bool {
	c, ok := n.(*expr.Constant)
	return ok && c.Val.IsNull()
}

func isNormalizable(n expr.Node) bool {
	r, ok := n.(*expr.Relational)
	if !ok || !expr.IsEvaluable(r.Right) {
		return false
	}
	switch l := r.Left.(type) {
	case *expr.Arithmetic:
		return isNullConst(r.Right) || (ordered(r.Op) && hasMovableTerm(l))
	case *expr.Relational, *expr.LabelAttribute:
		return true
	}
	return false
}

// moveTerms moves the constant terms of the
// additive expression e to *rhs and returns
// what is left of e.
func moveTerms(e expr.Node, rhs *expr.Node) expr.Node {
	a, ok := e.(*expr.Arithmetic)
	if !ok || !hasMovableTerm(a) {
		return e
	}
	if movable(a.Right) {
		*rhs = expr.Arith(NegatedArithmeticKind(a.Op), *rhs, a.Right)
		return moveTerms(a.Left, rhs)
	}
	*rhs = expr.Arith(expr.KindMinus, *rhs, a.Left)
	return moveTerms(a.Right, rhs)
}

func normalize(n expr.Node) expr.Node {
	r := n.(*expr.Relational)
	if isNullConst(r.Right) {
		return r.Right
	}
	if inner, ok := r.Left.(*expr.Relational); ok && (r.Op == expr.KindRelEQ || r.Op == expr.KindRelNE) {
		if b, ok := constBool(r.Right); ok {
			left := RewriteRelExpr(inner)
			if b == (r.Op == expr.KindRelEQ) {
				return left
			}
			return expr.Not(left)
		}
	}
	if _, ok := r.Left.(*expr.Arithmetic); !ok || !ordered(r.Op) {
		return r
	}
	rhs := r.Right
	r.Left = moveTerms(r.Left, &rhs)
	r.Right = rhs
	return r
}

// RewriteRelExpr normalizes the comparisons in n
// so that the non-constant side stands alone on
// the left, which lets them be matched against
// indexes:
//
//	(v.age+1) < 40  => v.age < (40-1)
//	(a<b) == true   => (a<b)
//	(a<b) == false  => !((a<b))
//	x == NULL       => NULL
//
// Only + and - are inverted; string constants
// and the c in (c - x) are never moved. The new
// right side is not folded; callers are expected
// to run FoldConstantExpr afterwards.
func RewriteRelExpr(n expr.Node) expr.Node {
	return expr.Transform(n, isNormalizable, normalize)
}

// maxPrefixByte is the largest byte value that
// the upper bound of a prefix range increments.
const maxPrefixByte = 127

// RewriteStartsWith rewrites (a STARTS WITH "p")
// into the half-open range
//
//	((a>="p") AND (a<"q"))
//
// where the upper bound is the prefix with its
// last byte incremented, or with a zero byte
// appended when the last byte is 127 or above.
// Any other node, or a prefix that is not a
// non-empty string constant, is returned as a
// copy.
func RewriteStartsWith(n expr.Node) expr.Node {
	r, ok := n.(*expr.Relational)
	if !ok || r.Op != expr.KindStartsWith || !expr.IsEvaluable(r.Right) {
		return expr.Clone(n)
	}
	p := r.Right.Eval(&expr.MapContext{})
	if !p.IsString() || p.AsString() == "" {
		return expr.Clone(n)
	}
	hi := []byte(p.AsString())
	if last := hi[len(hi)-1]; last < maxPrefixByte {
		hi[len(hi)-1] = last + 1
	} else {
		hi = append(hi, 0)
	}
	return expr.And(
		expr.Compare(expr.KindRelGE, expr.Clone(r.Left), expr.String(p.AsString())),
		expr.Compare(expr.KindRelLT, expr.Clone(r.Left), expr.String(string(hi))),
	)
}
