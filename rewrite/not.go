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

// reducibleNot matches the operands that
// a NOT can be pushed into.
func reducibleNot(n expr.Node) bool {
	switch n := n.(type) {
	case *expr.Unary:
		return n.Op == expr.KindUnaryNot
	case *expr.Relational:
		_, ok := NegatedRelKind(n.Op)
		return ok
	case *expr.Logical:
		return n.Op != expr.KindLogicalXor
	}
	return false
}

func isReducibleNot(n expr.Node) bool {
	u, ok := n.(*expr.Unary)
	return ok && u.Op == expr.KindUnaryNot && reducibleNot(u.Operand)
}

func reduceNot(n expr.Node) expr.Node {
	var out expr.Node
	switch op := n.(*expr.Unary).Operand.(type) {
	case *expr.Unary:
		out = op.Operand
	case *expr.Relational:
		out = ReverseRelExpr(op)
	case *expr.Logical:
		out = ReverseLogicalExpr(op)
	}
	return expr.Transform(out, isReducibleNot, reduceNot)
}

// ReduceUnaryNot pushes NOT operators as far
// down into n as they go:
//
//	!!x        => x
//	!(a<b)     => (a>=b)
//	!(a AND b) => (!a OR !b)
//	!(a OR b)  => (!a AND !b)
//
// A NOT over =~, XOR or any other node is kept.
func ReduceUnaryNot(n expr.Node) expr.Node {
	return expr.Transform(n, isReducibleNot, reduceNot)
}
