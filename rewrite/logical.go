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

// pullOps splices the operands of every
// direct operand of l that is itself an op
// node into l, recursively, preserving order.
// l is modified in place.
func pullOps(l *expr.Logical, op expr.Kind) {
	if l.Op != op {
		return
	}
	var out []expr.Node
	for _, o := range l.Operands {
		if inner, ok := o.(*expr.Logical); ok && inner.Op == op {
			pullOps(inner, op)
			out = append(out, inner.Operands...)
			continue
		}
		out = append(out, o)
	}
	l.Operands = out
}

// PullAnds flattens nested AND operands of
// an AND node into the node itself, so that
// (a AND (b AND c)) becomes (a AND b AND c).
// l is modified in place.
func PullAnds(l *expr.Logical) { pullOps(l, expr.KindLogicalAnd) }

// PullOrs is PullAnds for OR.
func PullOrs(l *expr.Logical) { pullOps(l, expr.KindLogicalOr) }

// PullXors is PullAnds for XOR.
func PullXors(l *expr.Logical) { pullOps(l, expr.KindLogicalXor) }

// FlattenInnerLogicalExpr returns a copy of n
// in which every AND and OR node has absorbed
// the operands of its same-kind children.
func FlattenInnerLogicalExpr(n expr.Node) expr.Node {
	return expr.Rewrite(expr.RewriteFunc(func(x expr.Node) expr.Node {
		if l, ok := x.(*expr.Logical); ok && l.Op != expr.KindLogicalXor {
			pullOps(l, l.Op)
		}
		return x
	}), expr.Clone(n))
}

// pushOps is the inverse of pullOps: it joins
// ops into a left-nested chain of binary op
// nodes. ops are used as-is, not copied.
func pushOps(op expr.Kind, ops []expr.Node) expr.Node {
	switch len(ops) {
	case 0:
		return nil
	case 1:
		return ops[0]
	}
	acc := expr.NewLogical(op, ops[0], ops[1])
	for _, o := range ops[2:] {
		acc = expr.NewLogical(op, acc, o)
	}
	return acc
}

// PushAnds joins ops into the left-nested
// binary chain (((a AND b) AND c) AND d).
// It returns nil for an empty list and the
// operand itself for a single one.
func PushAnds(ops []expr.Node) expr.Node { return pushOps(expr.KindLogicalAnd, ops) }

// PushOrs is PushAnds for OR.
func PushOrs(ops []expr.Node) expr.Node { return pushOps(expr.KindLogicalOr, ops) }

func constBool(n expr.Node) (b, ok bool) {
	c, isc := n.(*expr.Constant)
	if !isc || !c.Val.IsBool() {
		return false, false
	}
	return c.Val.AsBool(), true
}

// simplifyLogical drops the identity operands
// of an AND or OR node and collapses it when an
// operand decides the result.
func simplifyLogical(n expr.Node) expr.Node {
	l, ok := n.(*expr.Logical)
	if !ok || l.Op == expr.KindLogicalXor {
		return n
	}
	// AND: true is the identity, false decides
	identity := l.Op == expr.KindLogicalAnd
	var ops []expr.Node
	for _, o := range l.Operands {
		b, isb := constBool(o)
		if !isb {
			ops = append(ops, o)
			continue
		}
		if b != identity {
			return expr.Bool(b)
		}
	}
	switch len(ops) {
	case 0:
		return expr.Bool(identity)
	case 1:
		return ops[0]
	}
	l.Operands = ops
	return l
}

// FoldConstantExpr folds every constant subtree
// of n (see expr.Fold) and then simplifies AND
// and OR nodes with constant boolean operands:
// (x AND true) is x, (x AND false) is false,
// (x OR false) is x and (x OR true) is true.
//
// Folding errors such as a division by zero
// are returned as-is.
func FoldConstantExpr(n expr.Node) (expr.Node, error) {
	folded, err := expr.Fold(expr.Clone(n))
	if err != nil {
		return nil, err
	}
	if expr.IsConstant(folded) {
		return folded, nil
	}
	return expr.Rewrite(expr.RewriteFunc(simplifyLogical), folded), nil
}
