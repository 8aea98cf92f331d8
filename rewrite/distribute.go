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

func isOr(n expr.Node) bool {
	l, ok := n.(*expr.Logical)
	return ok && l.Op == expr.KindLogicalOr
}

func isAnd(n expr.Node) bool {
	l, ok := n.(*expr.Logical)
	return ok && l.Op == expr.KindLogicalAnd
}

// RewriteAndToOr distributes an AND over the
// OR operands it has, producing a disjunction
// of conjunctions:
//
//	(a OR b) AND (c OR d) AND e
//	=> ((a AND c AND e) OR (a AND d AND e) OR
//	    (b AND c AND e) OR (b AND d AND e))
//
// Only direct OR operands of l are distributed.
// A copy of l is returned when it has none.
func RewriteAndToOr(l *expr.Logical) expr.Node {
	if l.Op != expr.KindLogicalAnd {
		return l.Clone()
	}
	var ors [][]expr.Node
	var rest []expr.Node
	for _, o := range l.Operands {
		if or, ok := o.(*expr.Logical); ok && or.Op == expr.KindLogicalOr {
			ors = append(ors, or.Operands)
			continue
		}
		rest = append(rest, o)
	}
	if len(ors) == 0 {
		return l.Clone()
	}
	// cross product: [[a], [b]] x [c, d] => [[a, c], [a, d], [b, c], [b, d]]
	product := [][]expr.Node{nil}
	for _, ops := range ors {
		next := make([][]expr.Node, 0, len(product)*len(ops))
		for _, p := range product {
			for _, o := range ops {
				next = append(next, append(p[:len(p):len(p)], o))
			}
		}
		product = next
	}
	out := make([]expr.Node, len(product))
	for i, p := range product {
		and := &expr.Logical{Op: expr.KindLogicalAnd}
		for _, o := range p {
			and.Operands = append(and.Operands, expr.Clone(o))
		}
		for _, o := range rest {
			and.Operands = append(and.Operands, expr.Clone(o))
		}
		out[i] = and
	}
	return expr.Or(out...)
}

// binarize rewrites every logical node of n
// into a left-nested chain of binary nodes.
// n is modified in place.
func binarize(n expr.Node) expr.Node {
	return expr.Rewrite(expr.RewriteFunc(func(x expr.Node) expr.Node {
		l, ok := x.(*expr.Logical)
		if !ok || len(l.Operands) == 2 || len(l.Operands) == 0 {
			return x
		}
		return pushOps(l.Op, l.Operands)
	}), n)
}

// ExpandExpr turns a filter into disjunctive
// normal form by distributing AND over OR, so
// that each disjunct can be matched against an
// index on its own:
//
//	(a OR b) AND c       => ((a AND c) OR (b AND c))
//	a OR (b AND (c OR d)) => (a OR ((b AND c) OR (b AND d)))
//
// The result is made of binary, left-nested
// AND and OR nodes. n is not modified.
func ExpandExpr(n expr.Node) expr.Node {
	return expand(binarize(expr.Clone(n)))
}

func expand(n expr.Node) expr.Node {
	l, ok := n.(*expr.Logical)
	if !ok || l.Op == expr.KindLogicalXor || len(l.Operands) != 2 {
		return n
	}
	var target []expr.Node
	if l.Op == expr.KindLogicalOr {
		for _, o := range l.Operands {
			if isAnd(o) {
				target = append(target, expandAnd(o.(*expr.Logical)))
			} else {
				target = append(target, expand(o))
			}
		}
	} else {
		target = append(target, expandAnd(l))
	}
	if len(target) == 1 {
		if and, ok := target[0].(*expr.Logical); ok && and.Op == expr.KindLogicalAnd {
			if isOr(and.Operands[0]) || isOr(and.Operands[1]) {
				return expand(and)
			}
		}
		return target[0]
	}
	return pushOps(l.Op, target)
}

// expandAnd distributes the binary AND l
// over the OR operands on either side.
func expandAnd(l *expr.Logical) expr.Node {
	side := func(n expr.Node) []expr.Node {
		if isOr(n) {
			return disjuncts(n, nil)
		}
		return []expr.Node{expand(n)}
	}
	left, right := side(l.Operands[0]), side(l.Operands[1])
	var target []expr.Node
	for _, a := range left {
		for _, b := range right {
			target = append(target, expr.And(expr.Clone(a), expr.Clone(b)))
		}
	}
	if len(target) == 1 {
		return target[0]
	}
	return pushOps(expr.KindLogicalOr, target)
}

// disjuncts appends the operands of the
// OR tree n to dst, flattening nested ORs.
func disjuncts(n expr.Node, dst []expr.Node) []expr.Node {
	for _, o := range n.(*expr.Logical).Operands {
		if isOr(o) {
			dst = disjuncts(o, dst)
		} else {
			dst = append(dst, o)
		}
	}
	return dst
}
