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
	"fmt"
	"strings"

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/value"

	"golang.org/x/exp/slices"
)

func semanticf(f string, args ...any) error {
	return &expr.SemanticError{Msg: fmt.Sprintf(f, args...)}
}

// CheckAggExpr performs the semantic checks of
// an aggregate call: the function must exist,
// its argument must not contain another
// aggregate, and only COUNT may be applied
// to $-.* or $var.*.
func CheckAggExpr(a *expr.Aggregate) error {
	if _, err := aggregate.Get(a.Name); err != nil {
		return err
	}
	if a.Arg == nil {
		return nil
	}
	if expr.FindAny(a.Arg, expr.KindAggregate) != nil {
		return semanticf("Aggregate function nesting is not allowed: `%s'", expr.ToString(a))
	}
	if strings.EqualFold(a.Name, "COUNT") {
		return nil
	}
	if p, ok := a.Arg.(*expr.Property); ok && p.Prop == "*" &&
		(p.Op == expr.KindInputProperty || p.Op == expr.KindVarProperty) {
		return semanticf("Could not apply aggregation function `%s' on `%s'", expr.ToString(a), expr.ToString(p))
	}
	return nil
}

// IsPropertyExpr returns whether n reads a
// property: a tag, edge, input, variable,
// source or destination property, an edge
// field or a label tag property.
func IsPropertyExpr(n expr.Node) bool {
	return n.Kind().IsProperty() || n.Kind() == expr.KindLabelTagProperty
}

func isRandCall(n expr.Node) bool {
	f, ok := n.(*expr.FunctionCall)
	if !ok {
		return false
	}
	switch strings.ToLower(f.Name) {
	case "rand", "rand32", "rand64":
		return true
	}
	return false
}

// FindInnerRandFunction returns whether n
// calls rand, rand32 or rand64 anywhere.
func FindInnerRandFunction(n expr.Node) bool {
	return expr.Find(n, isRandCall) != nil
}

// FindEdgeDstExpr returns whether n reads the
// destination of an edge, either as an edge
// field (like._dst) or as id($$).
func FindEdgeDstExpr(n expr.Node) bool {
	return expr.Find(n, func(x expr.Node) bool {
		return x.Kind() == expr.KindEdgeDst || strings.ToLower(expr.ToString(x)) == "id($$)"
	}) != nil
}

// IsVidPredication returns whether n selects
// vertices by id: id(v) == <constant> or
// id(v) IN <evaluable list>, where v is a label.
func IsVidPredication(n expr.Node) bool {
	r, ok := n.(*expr.Relational)
	if !ok || (r.Op != expr.KindRelIn && r.Op != expr.KindRelEQ) {
		return false
	}
	f, ok := r.Left.(*expr.FunctionCall)
	if !ok || f.Name != "id" || len(f.Args) != 1 || f.Args[0].Kind() != expr.KindLabel {
		return false
	}
	if r.Op == expr.KindRelEQ {
		return expr.IsConstant(r.Right)
	}
	if !expr.IsEvaluable(r.Right) {
		return false
	}
	return r.Right.Eval(&expr.MapContext{}).Type() == value.ListType
}

// CheckColName returns whether every column
// reference in n ($var.col, a vertex or an
// edge) names one of columns. It returns false
// when n references no column at all.
func CheckColName(columns []string, n expr.Node) bool {
	refs := expr.CollectAll(n, expr.KindVarProperty, expr.KindVertex, expr.KindEdge)
	if len(refs) == 0 {
		return false
	}
	for _, ref := range refs {
		var name string
		switch ref := ref.(type) {
		case *expr.Property:
			name = ref.Prop
		case *expr.Vertex:
			name = ref.Name
		default:
			name = expr.ToString(ref)
		}
		if !slices.Contains(columns, name) {
			return false
		}
	}
	return true
}
