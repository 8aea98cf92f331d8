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
	"github.com/SnellerInc/graphexpr/value"
)

// inOperands returns the candidates of the
// right side of an IN as separate nodes.
// ok is false when the right side is not
// a container literal or constant.
func inOperands(n expr.Node) (ops []expr.Node, ok bool) {
	switch n := n.(type) {
	case *expr.List:
		return n.Items, true
	case *expr.Set:
		return n.Items, true
	case *expr.Map:
		for _, it := range n.Items {
			ops = append(ops, expr.String(it.Key))
		}
		return ops, true
	case *expr.Constant:
		var vals []value.Value
		switch n.Val.Type() {
		case value.ListType:
			vals = n.Val.AsList().Values
		case value.SetType:
			vals = n.Val.AsSet().Values()
		default:
			return nil, false
		}
		for _, v := range vals {
			ops = append(ops, expr.Const(v))
		}
		return ops, true
	}
	return nil, false
}

func expandIn(left expr.Node, ops []expr.Node) expr.Node {
	if len(ops) == 1 {
		return expr.Eq(left, ops[0])
	}
	eqs := make([]expr.Node, len(ops))
	for i, o := range ops {
		eqs[i] = expr.Eq(expr.Clone(left), o)
	}
	return expr.Or(eqs...)
}

// RewriteIn expands (a IN [x, y]) into
// ((a==x) OR (a==y)) and (a IN [x]) into
// (a==x). The keys of a map literal are the
// candidates of an IN over a map. n is returned
// as a copy when it is not an IN over a
// non-empty container literal or constant.
func RewriteIn(n expr.Node) expr.Node {
	n = expr.Clone(n)
	r, ok := n.(*expr.Relational)
	if !ok || r.Op != expr.KindRelIn {
		return n
	}
	ops, ok := inOperands(r.Right)
	if !ok || len(ops) == 0 {
		return n
	}
	return expandIn(r.Left, ops)
}

// expandableIn matches the IN nodes whose
// candidates are all known ahead of execution.
func expandableIn(n expr.Node) bool {
	r, ok := n.(*expr.Relational)
	if !ok || r.Op != expr.KindRelIn {
		return false
	}
	switch c := r.Right.(type) {
	case *expr.Constant:
		ops, ok := inOperands(c)
		return ok && len(ops) > 0
	case *expr.List, *expr.Set:
		ops, _ := inOperands(c)
		if len(ops) == 0 {
			return false
		}
		for _, o := range ops {
			if !expr.IsEvaluable(o) {
				return false
			}
		}
		return true
	}
	return false
}

// RewriteInnerIn applies RewriteIn to every IN
// inside n whose right side is a constant list
// or set, or a list or set literal made only of
// evaluable items.
func RewriteInnerIn(n expr.Node) expr.Node {
	return expr.Transform(n, expandableIn, func(x expr.Node) expr.Node {
		r := x.(*expr.Relational)
		ops, _ := inOperands(r.Right)
		return expandIn(r.Left, ops)
	})
}
