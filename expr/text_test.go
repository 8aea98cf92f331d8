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
	"strings"
	"testing"

	"github.com/SnellerInc/graphexpr/value"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func n(name string) *Variable { return InnerVar(name) }

func intList(lst ...int64) *List {
	items := make([]Node, len(lst))
	for i := range lst {
		items[i] = Int(lst[i])
	}
	return ListOf(items...)
}

var textcases = []Node{
	Arith(KindMinus, Arith(KindAdd, Int(2), Int(2)), Int(3)),
	Arith(KindMod, Float(1.5), Arith(KindDivision, Int(3), Int(-2))),
	And(Bool(true), Bool(false)),
	Or(And(Bool(true), Bool(false)), Bool(false)),
	Xor(Bool(true), Bool(false)),
	And(InputProp("a"), InputProp("b"), InputProp("c")),
	&Case{Cond: Int(23), Whens: []When{{When: Int(24), Then: Int(1)}}},
	&Case{Whens: []When{{When: Bool(false), Then: Int(1)}}, Default: String("x")},
	Ternary(Bool(true), Int(1), Int(2)),
	Not(InputProp("a")),
	NewUnary(KindUnaryNegate, Int(1)),
	NewUnary(KindUnaryPlus, Var("a")),
	NewUnary(KindUnaryIncr, Var("a")),
	NewUnary(KindUnaryDecr, Var("a")),
	NewUnary(KindIsNull, Var("v")),
	NewUnary(KindIsNotNull, Var("v")),
	NewUnary(KindIsEmpty, Var("v")),
	NewUnary(KindIsNotEmpty, Var("v")),
	&TypeCasting{To: value.IntType, Operand: String("1")},
	Call("abs", Int(-1)),
	Call("concat", String("a"), String("b")),
	Call("rand"),
	Agg("count", InputProp("age"), true),
	Agg("count", nil, false),
	Agg("avg", TagProp("player", "age"), false),
	InputProp("age"),
	VarProp("var", "age"),
	SrcProp("player", "name"),
	DstProp("team", "name"),
	TagProp("player", "age"),
	EdgeProp("like", "likeness"),
	EdgeField(KindEdgeSrc, "like"),
	EdgeField(KindEdgeType, "like"),
	EdgeField(KindEdgeRank, "like"),
	EdgeField(KindEdgeDst, "like"),
	intList(1, 2),
	&Set{Items: []Node{Int(1), Int(2)}},
	&Map{Items: []MapItem{{Key: "k", Val: Int(1)}, {Key: "v", Val: String("a")}}},
	&Subscript{Left: Var("list"), Right: Int(0)},
	&SubscriptRange{List: Var("l"), Lo: Int(1), Hi: Int(3)},
	&SubscriptRange{List: Var("l"), Hi: Int(3)},
	&SubscriptRange{List: Var("l"), Lo: Int(1)},
	&Attribute{Left: Var("m"), Right: String("a")},
	&Reduce{Acc: "acc", Initial: Int(0), Var: "n", Collection: intList(1, 2), Mapping: Arith(KindAdd, n("acc"), n("n"))},
	&ListComprehension{Var: "n", Collection: intList(1, 2, 3), Filter: Compare(KindRelGT, n("n"), Int(1)), Mapping: Arith(KindMultiply, n("n"), Int(2))},
	&ListComprehension{Var: "n", Collection: intList(1, 2, 3), Filter: Compare(KindRelGT, n("n"), Int(1))},
	&Predicate{Name: PredAll, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, n("n"), Int(0))},
	&Predicate{Name: PredExists, Collection: &Attribute{Left: Var("m"), Right: String("a")}},
	&PathBuild{Items: []Node{&Vertex{Name: "VERTEX"}, &Edge{}}},
	&UUID{},
	&Column{Index: 0},
	Compare(KindRelIn, Int(1), intList(1, 2)),
	Compare(KindRelNotIn, Int(1), intList(1, 2)),
	Compare(KindStartsWith, String("abc"), String("a")),
	Compare(KindNotEndsWith, String("abc"), String("c")),
	Compare(KindContains, String("abc"), String("b")),
	Compare(KindRelREG, String("abc"), String("a.c")),
	Compare(KindRelNE, Int(1), Float(1.5)),
	Compare(KindRelLE, Int(1), Null()),
	Const(value.ListOf(value.Int(1), value.Int(2))),
	NewLabelAttribute("v", "age"),
	&LabelTagProperty{Label: &Label{Name: "v"}, Tag: "player", Prop: "age"},
	&VersionedVariable{Name: "var", Version: Int(-1)},
	&Label{Name: "v"},
}

func TestToStringGolden(t *testing.T) {
	var out strings.Builder
	for _, c := range textcases {
		out.WriteString(c.Kind().String())
		out.WriteString(": ")
		out.WriteString(ToString(c))
		out.WriteByte('\n')
	}
	g := goldie.New(t)
	g.Assert(t, "text", []byte(out.String()))
}

func TestCloneEquals(t *testing.T) {
	for _, c := range textcases {
		cp := c.Clone()
		require.True(t, c.Equals(cp), ToString(c))
		require.True(t, cp.Equals(c), ToString(c))
		require.Equal(t, ToString(c), ToString(cp))
	}
	for i := range textcases {
		for j := range textcases {
			if i == j {
				continue
			}
			require.False(t, textcases[i].Equals(textcases[j]),
				"%s == %s", ToString(textcases[i]), ToString(textcases[j]))
		}
	}
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(Int(1), nil))
	require.False(t, Equal(nil, Int(1)))
	require.Equal(t, "<nil>", ToString(nil))
}

func TestCloneIsDeep(t *testing.T) {
	orig := Arith(KindAdd, InputProp("a"), Int(1))
	cp := orig.Clone().(*Arithmetic)
	cp.Right = Int(2)
	cp.Left.(*Property).Prop = "b"
	require.Equal(t, "($-.a+1)", ToString(orig))
	require.Equal(t, "($-.b+2)", ToString(cp))
}

func TestKindNames(t *testing.T) {
	require.Equal(t, "Constant", KindConstant.String())
	require.Equal(t, "NotEqual", KindRelNE.String())
	require.Equal(t, "Unknown", Kind(0).String())
	require.Equal(t, "Unknown", maxKind.String())
	for k := KindConstant; k < maxKind; k++ {
		require.NotEqual(t, "Unknown", k.String(), "kind %d", k)
	}
	require.Equal(t, "STARTS WITH", KindStartsWith.Symbol())
	require.Equal(t, "==", KindRelEQ.Symbol())
}
