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
	"testing"

	"github.com/SnellerInc/graphexpr/expr"

	"github.com/stretchr/testify/require"
)

// col returns (t1.c<i>==v)
func col(i int, v int64) expr.Node {
	return expr.Eq(expr.TagProp("t1", fmt.Sprintf("c%d", i)), expr.Int(v))
}

// c returns (t1.c<i>==<i>)
func c(i int) expr.Node { return col(i, int64(i)) }

func TestPull(t *testing.T) {
	l := expr.And(expr.And(c(1), c(2)), expr.And(c(3), expr.And(c(4), c(5))), expr.Or(c(6), c(7)))
	PullAnds(l)
	require.Len(t, l.Operands, 6)
	require.Equal(t, "((t1.c1==1) AND (t1.c2==2) AND (t1.c3==3) AND (t1.c4==4) AND (t1.c5==5) AND ((t1.c6==6) OR (t1.c7==7)))", expr.ToString(l))

	o := expr.Or(c(1), expr.Or(c(2), c(3)))
	PullAnds(o)
	require.Len(t, o.Operands, 2)
	PullOrs(o)
	require.Equal(t, "((t1.c1==1) OR (t1.c2==2) OR (t1.c3==3))", expr.ToString(o))

	x := expr.Xor(expr.Xor(c(1), c(2)), c(3))
	PullXors(x)
	require.Equal(t, "((t1.c1==1) XOR (t1.c2==2) XOR (t1.c3==3))", expr.ToString(x))
}

func TestFlattenInnerLogicalExpr(t *testing.T) {
	in := expr.Or(expr.And(expr.And(c(1), c(2)), c(3)), expr.Or(c(4), c(5)))
	before := expr.ToString(in)
	got := FlattenInnerLogicalExpr(in)
	require.Equal(t, "(((t1.c1==1) AND (t1.c2==2) AND (t1.c3==3)) OR (t1.c4==4) OR (t1.c5==5))", expr.ToString(got))
	require.Equal(t, before, expr.ToString(in))

	nested := expr.Not(expr.And(c(1), expr.And(c(2), c(3))))
	require.Equal(t, "!(((t1.c1==1) AND (t1.c2==2) AND (t1.c3==3)))", expr.ToString(FlattenInnerLogicalExpr(nested)))
}

func TestPush(t *testing.T) {
	require.Equal(t, "(((t1.c1==1) OR (t1.c2==2)) OR (t1.c3==3))",
		expr.ToString(PushOrs([]expr.Node{c(1), c(2), c(3)})))
	require.Equal(t, "((((t1.c1==1) AND (t1.c2==2)) AND (t1.c3==3)) AND (t1.c4==4))",
		expr.ToString(PushAnds([]expr.Node{c(1), c(2), c(3), c(4)})))
	require.Equal(t, "(t1.c1==1)", expr.ToString(PushAnds([]expr.Node{c(1)})))
	require.Nil(t, PushOrs(nil))
}

func TestFoldConstantExpr(t *testing.T) {
	testcases := []struct {
		in   expr.Node
		want string
	}{
		{expr.And(expr.Bool(true), c(1)), "(t1.c1==1)"},
		{expr.And(c(1), expr.Bool(false), c(2)), "false"},
		{expr.Or(expr.Eq(expr.Int(1), expr.Int(1)), c(1)), "true"},
		{expr.Or(expr.Bool(false), c(1), c(2)), "((t1.c1==1) OR (t1.c2==2))"},
		{expr.And(expr.Bool(true), expr.Bool(true)), "true"},
		{expr.And(c(1), expr.Eq(expr.Arith(expr.KindAdd, expr.Int(1), expr.Int(1)), expr.Int(2))), "(t1.c1==1)"},
		{expr.Xor(expr.Bool(true), c(1)), "(true XOR (t1.c1==1))"},
		{expr.Not(expr.And(expr.Bool(true), c(1))), "!((t1.c1==1))"},
		{expr.And(c(1), expr.Or(expr.Bool(false), expr.Bool(false))), "false"},
		{expr.And(c(1), expr.Or(expr.Bool(false), c(2))), "((t1.c1==1) AND (t1.c2==2))"},
		{expr.Compare(expr.KindRelLT, expr.TagProp("t1", "c1"), expr.Arith(expr.KindMinus, expr.Int(40), expr.Int(1))), "(t1.c1<39)"},
	}
	for _, tc := range testcases {
		before := expr.ToString(tc.in)
		got, err := FoldConstantExpr(tc.in)
		require.NoError(t, err, before)
		require.Equal(t, tc.want, expr.ToString(got), before)
		require.Equal(t, before, expr.ToString(tc.in), "input was modified")

		again, err := FoldConstantExpr(got)
		require.NoError(t, err)
		require.True(t, got.Equals(again), "not idempotent: %s", before)
	}

	_, err := FoldConstantExpr(expr.And(c(1), expr.Eq(expr.Arith(expr.KindDivision, expr.Int(1), expr.Int(0)), expr.Int(1))))
	require.EqualError(t, err, "/ by zero")
}
