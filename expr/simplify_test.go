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

package expr

import (
	"math"
	"testing"

	"github.com/SnellerInc/graphexpr/value"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	testcases := []struct {
		in   Node
		want string
	}{
		{Arith(KindAdd, Int(1), Int(2)), "3"},
		{Arith(KindMultiply, Arith(KindAdd, Int(1), Int(2)), Int(3)), "9"},
		{And(Eq(Int(1), Int(1)), InputProp("a")), "(true AND $-.a)"},
		{Arith(KindAdd, InputProp("a"), Arith(KindMinus, Int(3), Int(1))), "($-.a+2)"},
		{Call("abs", Int(-5)), "5"},
		{Call("rand"), "rand()"},
		{Arith(KindAdd, Call("rand"), Arith(KindAdd, Int(1), Int(1))), "(rand()+2)"},
		{Agg("count", Arith(KindAdd, Int(1), Int(2)), false), "COUNT(3)"},
		{Agg("count", nil, false), "COUNT(*)"},
		{NewUnary(KindUnaryIncr, Var("a")), "++($a)"},
		{NewUnary(KindUnaryNegate, Int(3)), "-3"},
		{Not(Bool(false)), "true"},
		{&Attribute{Left: Var("m"), Right: Arith(KindAdd, String("a"), String("b"))}, "$m.ab"},
		{ListOf(Int(1), Arith(KindAdd, Int(1), Int(1))), "[1,2]"},
		{ListOf(Int(1), InputProp("a")), "[1,$-.a]"},
		{&Set{Items: []Node{Int(1), Arith(KindAdd, Int(1), Int(1))}}, "{1,2}"},
		{Compare(KindRelIn, InputProp("a"), ListOf(Int(1), Arith(KindAdd, Int(1), Int(1)))), "($-.a IN [1,2])"},
		{Compare(KindRelIn, Int(2), ListOf(Int(1), Arith(KindAdd, Int(1), Int(1)))), "true"},
		{Ternary(Bool(true), Int(1), Int(2)), "1"},
		{&TypeCasting{To: value.IntType, Operand: String("12")}, "12"},
	}
	for _, tc := range testcases {
		before := ToString(tc.in)
		got, err := Fold(tc.in.Clone())
		require.NoError(t, err, before)
		require.Equal(t, tc.want, ToString(got), before)

		again, err := Fold(got.Clone())
		require.NoError(t, err)
		require.True(t, got.Equals(again), "fold of %s is not idempotent", before)
	}
}

func TestFoldErrors(t *testing.T) {
	_, err := Fold(Arith(KindAdd, InputProp("a"), Arith(KindDivision, Int(1), Int(0))))
	require.EqualError(t, err, "/ by zero")
	_, err = Fold(Arith(KindMod, Int(3), Int(0)))
	require.EqualError(t, err, "/ by zero")

	_, err = Fold(Arith(KindAdd, Int(math.MaxInt64), Int(1)))
	require.EqualError(t, err, "result of (9223372036854775807+1) cannot be represented as an integer")

	_, err = Fold(Arith(KindMinus, Int(1), String("a")))
	require.Error(t, err)
	var serr *SemanticError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Msg, "(1-\"a\")")

	// NULL and EMPTY are not errors
	got, err := Fold(Arith(KindAdd, Int(1), Null()))
	require.NoError(t, err)
	require.Equal(t, "NULL", ToString(got))
}

func TestFoldPreservesValue(t *testing.T) {
	for _, c := range textcases {
		if !IsEvaluable(c) {
			continue
		}
		got, err := Fold(c.Clone())
		require.NoError(t, err, ToString(c))
		require.True(t, settled(got), ToString(got))
		require.Equal(t, isContainer(c), isContainer(got), ToString(got))
		requireValue(t, eval(c), eval(got), ToString(c))
	}
}

func TestIsEvaluable(t *testing.T) {
	yes := []Node{
		Int(1),
		Arith(KindAdd, Int(1), Int(2)),
		Call("abs", Int(-1)),
		ListOf(Int(1), String("a")),
		Ternary(Bool(true), Int(1), Int(2)),
		NewUnary(KindIsNull, Null()),
	}
	no := []Node{
		InputProp("a"),
		Var("v"),
		Call("rand"),
		Call("abs", Var("v")),
		Agg("count", Int(1), false),
		NewUnary(KindUnaryIncr, Int(1)),
		&Attribute{Left: Const(value.MapOf(map[string]value.Value{"a": value.Int(1)})), Right: String("a")},
		&UUID{},
		&Column{Index: 0},
		NewLabelAttribute("v", "age"),
	}
	for _, n := range yes {
		require.True(t, IsEvaluable(n), ToString(n))
	}
	for _, n := range no {
		require.False(t, IsEvaluable(n), ToString(n))
	}
}
