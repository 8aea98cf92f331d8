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
// Package rewrite implements the algebraic
// passes the planner applies to filter
// expressions before pushing them down:
// constant folding of logical operators,
// NOT elimination, normalization of
// comparisons, IN and STARTS WITH expansion,
// AND/OR distribution and filter splitting.
//
// Unless noted otherwise, a pass returns a
// new tree and leaves its input unmodified.
package rewrite

import (
	"github.com/SnellerInc/graphexpr/expr"
)

var negatedRel = map[expr.Kind]expr.Kind{
	expr.KindRelEQ:         expr.KindRelNE,
	expr.KindRelNE:         expr.KindRelEQ,
	expr.KindRelLT:         expr.KindRelGE,
	expr.KindRelGE:         expr.KindRelLT,
	expr.KindRelLE:         expr.KindRelGT,
	expr.KindRelGT:         expr.KindRelLE,
	expr.KindRelIn:         expr.KindRelNotIn,
	expr.KindRelNotIn:      expr.KindRelIn,
	expr.KindContains:      expr.KindNotContains,
	expr.KindNotContains:   expr.KindContains,
	expr.KindStartsWith:    expr.KindNotStartsWith,
	expr.KindNotStartsWith: expr.KindStartsWith,
	expr.KindEndsWith:      expr.KindNotEndsWith,
	expr.KindNotEndsWith:   expr.KindEndsWith,
}

// NegatedRelKind returns the relational kind
// that yields the logical negation of k
// (e.g. < for >=). The second result is false
// when k has no negated form, which is the
// case for =~ and for non-relational kinds.
func NegatedRelKind(k expr.Kind) (expr.Kind, bool) {
	n, ok := negatedRel[k]
	return n, ok
}

// ReverseRelKind returns the kind to use when
// the operands of a comparison are swapped:
// a < b is b > a. Other kinds are returned as-is.
func ReverseRelKind(k expr.Kind) expr.Kind {
	switch k {
	case expr.KindRelLT:
		return expr.KindRelGT
	case expr.KindRelLE:
		return expr.KindRelGE
	case expr.KindRelGT:
		return expr.KindRelLT
	case expr.KindRelGE:
		return expr.KindRelLE
	}
	return k
}

// NegatedArithmeticKind returns the inverse
// operation of an additive or multiplicative
// kind: + and -, * and /. Other kinds
// (including %) are returned as-is.
func NegatedArithmeticKind(k expr.Kind) expr.Kind {
	switch k {
	case expr.KindAdd:
		return expr.KindMinus
	case expr.KindMinus:
		return expr.KindAdd
	case expr.KindMultiply:
		return expr.KindDivision
	case expr.KindDivision:
		return expr.KindMultiply
	}
	return k
}

// NegatedLogicalKind swaps AND and OR.
// XOR is its own counterpart.
func NegatedLogicalKind(k expr.Kind) expr.Kind {
	switch k {
	case expr.KindLogicalAnd:
		return expr.KindLogicalOr
	case expr.KindLogicalOr:
		return expr.KindLogicalAnd
	}
	return k
}

// ReverseRelExpr returns the negation of r as
// a single comparison with the same operands,
// e.g. (a<b) becomes (a>=b). It returns nil
// when the kind of r has no negated form.
func ReverseRelExpr(r *expr.Relational) *expr.Relational {
	k, ok := NegatedRelKind(r.Op)
	if !ok {
		return nil
	}
	return expr.Compare(k, expr.Clone(r.Left), expr.Clone(r.Right))
}

// ReverseLogicalExpr applies De Morgan's law
// to l: the operands of the flattened node are
// each wrapped in NOT and AND and OR are swapped.
func ReverseLogicalExpr(l *expr.Logical) *expr.Logical {
	flat := l.Clone().(*expr.Logical)
	pullOps(flat, flat.Op)
	out := &expr.Logical{Op: NegatedLogicalKind(flat.Op), Operands: make([]expr.Node, len(flat.Operands))}
	for i, o := range flat.Operands {
		out.Operands[i] = expr.Not(o)
	}
	return out
}
