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
	"errors"
	"testing"

	"github.com/SnellerInc/graphexpr/function"
	"github.com/SnellerInc/graphexpr/value"

	"github.com/stretchr/testify/require"
)

func nested(depth int) Node {
	var n Node = Int(1)
	for i := 1; i < depth; i++ {
		n = Arith(KindAdd, Int(1), n)
	}
	return n
}

func TestCheckDepth(t *testing.T) {
	require.NoError(t, CheckDepth(nested(DefaultMaxDepth), DefaultMaxDepth))
	err := CheckDepth(nested(DefaultMaxDepth+1), DefaultMaxDepth)
	require.EqualError(t, err, "The above expression's depth exceeds the maximum depth:512")
	require.True(t, errors.Is(err, ErrTooDeep))

	require.NoError(t, CheckDepth(Int(1), 1))
	require.Error(t, CheckDepth(Not(Bool(true)), 1))
	require.NoError(t, Check(nested(10), 10))
	require.Error(t, Check(nested(11), 10))
}

func TestCheck(t *testing.T) {
	ok := []Node{
		Call("abs", Int(1)),
		Call("ABS", Int(1)),
		Agg("count", nil, false),
		&TypeCasting{To: value.FloatType, Operand: Int(1)},
		&Predicate{Name: PredAny, Var: "n", Collection: intList(1), Filter: Bool(true)},
		&Predicate{Name: PredExists, Collection: &Attribute{Left: Var("m"), Right: String("a")}},
	}
	for _, n := range ok {
		require.NoError(t, Check(n, DefaultMaxDepth), ToString(n))
	}

	err := Check(Call("abs", Int(1), Int(2)), DefaultMaxDepth)
	require.True(t, errors.Is(err, function.ErrArity), err.Error())

	err = Check(Arith(KindAdd, Int(1), Call("nosuch")), DefaultMaxDepth)
	require.Error(t, err)

	err = Check(Agg("nosuch", Int(1), false), DefaultMaxDepth)
	require.Error(t, err)

	err = Check(&TypeCasting{To: value.ListType, Operand: Int(1)}, DefaultMaxDepth)
	require.ErrorContains(t, err, "Type cast to `LIST' is not supported")

	err = Check(&Predicate{Name: PredExists, Collection: Int(1)}, DefaultMaxDepth)
	require.EqualError(t, err, "The exists function only accept property expressions, but got `1'")

	err = Check(&Predicate{Name: PredAll, Var: "n", Collection: intList(1)}, DefaultMaxDepth)
	require.ErrorContains(t, err, "requires a filter")

	err = Check(&Predicate{Name: "most", Var: "n", Collection: intList(1), Filter: Bool(true)}, DefaultMaxDepth)
	require.EqualError(t, err, "Unknown predicate `most'")

	err = Check(ListOf(Call("nosuch"), Agg("nosuch", nil, false)), DefaultMaxDepth)
	require.ErrorContains(t, err, "and 1 other errors")
}

func TestChildren(t *testing.T) {
	c := Children(&SubscriptRange{List: Var("l"), Hi: Int(3)})
	require.Len(t, c, 2)
	require.True(t, c[0].Equals(Var("l")))
	require.True(t, c[1].Equals(Int(3)))
	require.Empty(t, Children(Int(1)))
}
