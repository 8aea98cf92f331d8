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
	"errors"
	"testing"

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/value"

	"github.com/stretchr/testify/require"
)

func TestCheckAggExpr(t *testing.T) {
	for _, a := range []*expr.Aggregate{
		expr.Agg("count", nil, false),
		expr.Agg("count", expr.InputProp("*"), false),
		expr.Agg("count", expr.VarProp("v", "*"), true),
		expr.Agg("sum", expr.InputProp("age"), false),
		expr.Agg("collect", expr.Arith(expr.KindAdd, expr.InputProp("age"), expr.Int(1)), false),
	} {
		require.NoError(t, CheckAggExpr(a), expr.ToString(a))
	}

	err := CheckAggExpr(expr.Agg("sum", expr.InputProp("*"), false))
	require.EqualError(t, err, "Could not apply aggregation function `SUM($-.*)' on `$-.*'")
	var serr *expr.SemanticError
	require.ErrorAs(t, err, &serr)

	err = CheckAggExpr(expr.Agg("max", expr.VarProp("v", "*"), false))
	require.EqualError(t, err, "Could not apply aggregation function `MAX($v.*)' on `$v.*'")

	err = CheckAggExpr(expr.Agg("sum", expr.Agg("count", nil, false), false))
	require.EqualError(t, err, "Aggregate function nesting is not allowed: `SUM(COUNT(*))'")

	err = CheckAggExpr(expr.Agg("avg", expr.Arith(expr.KindAdd, expr.Int(1), expr.Agg("max", expr.InputProp("a"), false)), false))
	require.ErrorContains(t, err, "nesting is not allowed")

	err = CheckAggExpr(expr.Agg("nosuch", expr.Int(1), false))
	require.True(t, errors.Is(err, aggregate.ErrUnknown))
}

func TestIsPropertyExpr(t *testing.T) {
	for _, n := range []expr.Node{
		expr.TagProp("t", "p"),
		expr.EdgeProp("e", "p"),
		expr.InputProp("p"),
		expr.VarProp("v", "p"),
		expr.SrcProp("t", "p"),
		expr.DstProp("t", "p"),
		expr.EdgeField(expr.KindEdgeRank, "e"),
		&expr.LabelTagProperty{Label: expr.InputProp("v"), Tag: "t", Prop: "p"},
	} {
		require.True(t, IsPropertyExpr(n), expr.ToString(n))
	}
	for _, n := range []expr.Node{expr.Var("v"), expr.NewLabelAttribute("t", "p"), expr.Int(1)} {
		require.False(t, IsPropertyExpr(n), expr.ToString(n))
	}
}

func TestFindHelpers(t *testing.T) {
	require.True(t, FindInnerRandFunction(expr.Call("rand")))
	require.True(t, FindInnerRandFunction(expr.Arith(expr.KindAdd, expr.Int(1), expr.Call("RAND64"))))
	require.False(t, FindInnerRandFunction(expr.Call("abs", expr.Int(1))))

	require.True(t, FindEdgeDstExpr(expr.Eq(expr.EdgeField(expr.KindEdgeDst, "like"), expr.Int(1))))
	require.True(t, FindEdgeDstExpr(expr.Eq(expr.Call("ID", &expr.Vertex{Name: "$$"}), expr.Int(1))))
	require.False(t, FindEdgeDstExpr(expr.Eq(expr.EdgeField(expr.KindEdgeSrc, "like"), expr.Int(1))))
}

func TestIsVidPredication(t *testing.T) {
	id := func() expr.Node { return expr.Call("id", &expr.Label{Name: "v"}) }
	yes := []expr.Node{
		expr.Eq(id(), expr.String("a")),
		expr.Compare(expr.KindRelIn, id(), expr.ListOf(expr.String("a"), expr.String("b"))),
		expr.Compare(expr.KindRelIn, id(), expr.Const(value.ListOf(value.String("a")))),
	}
	no := []expr.Node{
		expr.Eq(id(), expr.InputProp("x")),
		expr.Eq(id(), expr.Arith(expr.KindAdd, expr.String("a"), expr.String("b"))),
		expr.Compare(expr.KindRelIn, id(), &expr.Set{Items: []expr.Node{expr.String("a")}}),
		expr.Compare(expr.KindRelIn, id(), expr.ListOf(expr.InputProp("x"))),
		expr.Compare(expr.KindRelNE, id(), expr.String("a")),
		expr.Eq(expr.Call("id", expr.InputProp("v")), expr.String("a")),
		expr.Eq(expr.Call("src", &expr.Label{Name: "v"}), expr.String("a")),
		expr.String("a"),
	}
	for _, n := range yes {
		require.True(t, IsVidPredication(n), expr.ToString(n))
	}
	for _, n := range no {
		require.False(t, IsVidPredication(n), expr.ToString(n))
	}
}

func TestCheckColName(t *testing.T) {
	cols := []string{"a", "VERTEX", "EDGE"}
	require.True(t, CheckColName(cols, expr.Eq(expr.VarProp("", "a"), expr.Int(1))))
	require.True(t, CheckColName(cols, expr.ListOf(&expr.Vertex{Name: "VERTEX"}, &expr.Edge{})))
	require.False(t, CheckColName(cols, expr.Eq(expr.VarProp("", "b"), expr.Int(1))))
	require.False(t, CheckColName(cols, expr.Int(1)))
}
