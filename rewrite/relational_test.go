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
	"testing"

	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/value"

	"github.com/stretchr/testify/require"
)

func age() expr.Node { return expr.NewLabelAttribute("v", "age") }

func add(l, r expr.Node) expr.Node   { return expr.Arith(expr.KindAdd, l, r) }
func minus(l, r expr.Node) expr.Node { return expr.Arith(expr.KindMinus, l, r) }

func TestRewriteRelExpr(t *testing.T) {
	gt1 := func() expr.Node { return expr.Compare(expr.KindRelGT, age(), expr.Int(1)) }
	testcases := []struct {
		in   expr.Node
		want string
	}{
		{expr.Compare(expr.KindRelLT, add(age(), expr.Int(1)), expr.Int(40)), "(v.age<(40-1))"},
		{expr.Compare(expr.KindRelLT, add(expr.Int(1), age()), expr.Int(40)), "(v.age<(40-1))"},
		{expr.Compare(expr.KindRelGE, minus(age(), expr.Int(1)), expr.Int(10)), "(v.age>=(10+1))"},
		{expr.Eq(minus(add(age(), expr.Int(1)), expr.Int(2)), expr.Int(5)), "(v.age==((5+2)-1))"},
		{expr.Compare(expr.KindRelNE, add(age(), add(expr.Int(1), expr.Int(2))), expr.Int(5)), "(v.age!=(5-(1+2)))"},
		{expr.Compare(expr.KindRelLT, minus(expr.Int(10), age()), expr.Int(3)), "((10-v.age)<3)"},
		{expr.Compare(expr.KindRelLT, expr.Arith(expr.KindMultiply, age(), expr.Int(2)), expr.Int(4)), "((v.age*2)<4)"},
		{expr.Compare(expr.KindRelLT, expr.Arith(expr.KindMod, age(), expr.Int(2)), expr.Int(1)), "((v.age%2)<1)"},
		{expr.Eq(add(expr.NewLabelAttribute("v", "name"), expr.String("x")), expr.String("yx")), "((v.name+\"x\")==\"yx\")"},
		{expr.Compare(expr.KindRelIn, add(age(), expr.Int(1)), expr.Const(value.ListOf(value.Int(1)))), "((v.age+1) IN [1])"},
		{expr.Compare(expr.KindRelLT, add(age(), expr.InputProp("x")), expr.Int(4)), "((v.age+$-.x)<4)"},
		{expr.Compare(expr.KindRelLT, add(age(), expr.Int(1)), expr.InputProp("x")), "((v.age+1)<$-.x)"},
		{expr.Eq(gt1(), expr.Bool(true)), "(v.age>1)"},
		{expr.Eq(gt1(), expr.Bool(false)), "!((v.age>1))"},
		{expr.Compare(expr.KindRelNE, gt1(), expr.Bool(true)), "!((v.age>1))"},
		{expr.Compare(expr.KindRelNE, gt1(), expr.Bool(false)), "(v.age>1)"},
		{expr.Eq(expr.Compare(expr.KindRelGT, add(age(), expr.Int(1)), expr.Int(2)), expr.Bool(true)), "(v.age>(2-1))"},
		{expr.Eq(age(), expr.Null()), "NULL"},
		{expr.Compare(expr.KindRelLT, add(age(), expr.Int(1)), expr.Null()), "NULL"},
		{expr.Eq(age(), expr.Int(3)), "(v.age==3)"},
		{expr.And(expr.Compare(expr.KindRelLT, add(age(), expr.Int(1)), expr.Int(40)), expr.Eq(gt1(), expr.Bool(true))),
			"((v.age<(40-1)) AND (v.age>1))"},
	}
	for _, tc := range testcases {
		before := expr.ToString(tc.in)
		got := RewriteRelExpr(tc.in)
		require.Equal(t, tc.want, expr.ToString(got), before)
		require.Equal(t, before, expr.ToString(tc.in), "input was modified")
	}
}

func TestRewriteRelExprStructure(t *testing.T) {
	in := expr.Compare(expr.KindRelLT, add(age(), expr.Int(1)), expr.Int(40))
	want := expr.Compare(expr.KindRelLT, age(), minus(expr.Int(40), expr.Int(1)))
	require.True(t, RewriteRelExpr(in).Equals(want))
}

func TestRewriteStartsWith(t *testing.T) {
	s := expr.TagProp("t", "s")
	got := RewriteStartsWith(expr.Compare(expr.KindStartsWith, s, expr.String("abc")))
	require.Equal(t, "((t.s>=\"abc\") AND (t.s<\"abd\"))", expr.ToString(got))

	got = RewriteStartsWith(expr.Compare(expr.KindStartsWith, s, expr.Arith(expr.KindAdd, expr.String("a"), expr.String("b"))))
	require.Equal(t, "((t.s>=\"ab\") AND (t.s<\"ac\"))", expr.ToString(got))

	got = RewriteStartsWith(expr.Compare(expr.KindStartsWith, s, expr.String("a\x7f")))
	hi := got.(*expr.Logical).Operands[1].(*expr.Relational).Right.(*expr.Constant)
	require.Equal(t, "a\x7f\x00", hi.Val.AsString())

	for _, n := range []expr.Node{
		expr.Compare(expr.KindStartsWith, s, expr.String("")),
		expr.Compare(expr.KindStartsWith, s, expr.Int(1)),
		expr.Compare(expr.KindStartsWith, s, expr.InputProp("p")),
		expr.Compare(expr.KindEndsWith, s, expr.String("a")),
		expr.Eq(s, expr.String("a")),
	} {
		got := RewriteStartsWith(n)
		require.True(t, got.Equals(n), expr.ToString(n))
		require.NotSame(t, n, got)
	}
}

func TestRewriteIn(t *testing.T) {
	a := func() expr.Node { return expr.TagProp("t", "a") }
	in := func(r expr.Node) expr.Node { return expr.Compare(expr.KindRelIn, a(), r) }
	testcases := []struct {
		in   expr.Node
		want string
	}{
		{in(expr.Const(value.ListOf(value.Int(1), value.Int(2), value.Int(3)))), "((t.a==1) OR (t.a==2) OR (t.a==3))"},
		{in(expr.Const(value.ListOf(value.Int(1)))), "(t.a==1)"},
		{in(expr.Const(value.SetOf(value.Int(1)))), "(t.a==1)"},
		{in(expr.ListOf(expr.Int(1), expr.InputProp("x"))), "((t.a==1) OR (t.a==$-.x))"},
		{in(&expr.Set{Items: []expr.Node{expr.String("b")}}), "(t.a==\"b\")"},
		{in(&expr.Map{Items: []expr.MapItem{{Key: "k", Val: expr.Int(1)}, {Key: "l", Val: expr.Int(2)}}}), "((t.a==\"k\") OR (t.a==\"l\"))"},
		{in(expr.InputProp("x")), "(t.a IN $-.x)"},
		{in(expr.ListOf()), "(t.a IN [])"},
		{expr.Compare(expr.KindRelNotIn, a(), expr.ListOf(expr.Int(1))), "(t.a NOT IN [1])"},
	}
	for _, tc := range testcases {
		before := expr.ToString(tc.in)
		require.Equal(t, tc.want, expr.ToString(RewriteIn(tc.in)), before)
		require.Equal(t, before, expr.ToString(tc.in))
	}
}

func TestRewriteInnerIn(t *testing.T) {
	n := expr.And(
		expr.Compare(expr.KindRelIn, expr.TagProp("t", "a"), expr.Const(value.ListOf(value.Int(1), value.Int(2)))),
		expr.Compare(expr.KindRelIn, expr.TagProp("t", "b"), expr.ListOf(expr.InputProp("x"), expr.Int(1))),
		expr.Compare(expr.KindRelIn, expr.TagProp("t", "c"), expr.ListOf(expr.Int(3), expr.Arith(expr.KindAdd, expr.Int(1), expr.Int(1)))),
		expr.Compare(expr.KindRelIn, expr.TagProp("t", "d"), &expr.Map{Items: []expr.MapItem{{Key: "k", Val: expr.Int(1)}}}),
	)
	got := RewriteInnerIn(n)
	require.Equal(t,
		"(((t.a==1) OR (t.a==2)) AND (t.b IN [$-.x,1]) AND ((t.c==3) OR (t.c==(1+1))) AND (t.d IN {k:1}))",
		expr.ToString(got))
}
