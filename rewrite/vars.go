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

// RewriteInnerVar points every variable
// property of n at the variable newVar.
func RewriteInnerVar(n expr.Node, newVar string) expr.Node {
	return expr.Transform(n, expr.OfKind(expr.KindVarProperty), func(x expr.Node) expr.Node {
		return expr.VarProp(newVar, x.(*expr.Property).Prop)
	})
}

// RewriteParameter replaces every reference to
// a query parameter in n with its value.
func RewriteParameter(n expr.Node, params map[string]value.Value) expr.Node {
	match := func(x expr.Node) bool {
		v, ok := x.(*expr.Variable)
		if !ok || v.Inner {
			return false
		}
		_, ok = params[v.Name]
		return ok
	}
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		return expr.Const(params[x.(*expr.Variable).Name])
	})
}

// ExtractInnerVars returns, in pre-order, the
// names of the variables that n reads and that
// are not parameters.
func ExtractInnerVars(n expr.Node, params map[string]value.Value) []string {
	var out []string
	for _, x := range expr.CollectAll(n, expr.KindVariable) {
		v := x.(*expr.Variable)
		if _, ok := params[v.Name]; ok || v.Inner {
			continue
		}
		out = append(out, v.Name)
	}
	return out
}

// RewriteAgg2VarProp replaces every aggregate in
// n with a reference to the column that holds
// its result, named after its text.
func RewriteAgg2VarProp(n expr.Node) expr.Node {
	return expr.Transform(n, expr.OfKind(expr.KindAggregate), func(x expr.Node) expr.Node {
		return expr.VarProp("", expr.ToString(x))
	})
}

// RewriteSubExprs2VarProp replaces every subtree
// of n with the same text as one of subs with a
// reference to the column named after it.
func RewriteSubExprs2VarProp(n expr.Node, subs []expr.Node) expr.Node {
	names := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		names[expr.ToString(s)] = struct{}{}
	}
	match := func(x expr.Node) bool {
		_, ok := names[expr.ToString(x)]
		return ok
	}
	return expr.Transform(n, match, func(x expr.Node) expr.Node {
		return expr.VarProp("", expr.ToString(x))
	})
}
