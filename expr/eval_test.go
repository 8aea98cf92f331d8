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
	"testing"

	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/value"

	"github.com/stretchr/testify/require"
)

func eval(n Node) value.Value {
	return n.Eval(&MapContext{})
}

func requireValue(t *testing.T, want, got value.Value, msg ...any) {
	t.Helper()
	require.Equal(t, want.Type(), got.Type(), msg...)
	require.True(t, value.Equals(want, got), append([]any{"want %s got %s", want, got}, msg...)...)
}

var (
	null     = Null()
	empty    = Const(value.Empty)
	badType  = Const(value.BadType())
	divZero  = Arith(KindDivision, Int(2), Int(0))
	tru, fal = Bool(true), Bool(false)
)

func TestAbnormalPrecedence(t *testing.T) {
	ops := []Kind{
		KindAdd, KindMinus, KindMultiply, KindDivision, KindMod,
		KindRelEQ, KindRelNE, KindRelLT, KindRelLE, KindRelGT, KindRelGE,
		KindContains, KindStartsWith, KindEndsWith,
	}
	build := func(op Kind, l, r Node) Node {
		if op.IsArithmetic() {
			return Arith(op, l, r)
		}
		return Compare(op, l, r)
	}
	for _, op := range ops {
		for _, x := range []Node{Int(1), String("a")} {
			requireValue(t, value.Null, eval(build(op, null, x)), op)
			requireValue(t, value.Null, eval(build(op, x, null)), op)
			requireValue(t, value.Empty, eval(build(op, empty, x)), op)
			requireValue(t, value.Empty, eval(build(op, x, empty)), op)
			requireValue(t, value.BadType(), eval(build(op, badType, null)), op)
			requireValue(t, value.BadType(), eval(build(op, empty, badType)), op)
		}
		requireValue(t, value.Null, eval(build(op, null, empty)), op)
		requireValue(t, value.Null, eval(build(op, empty, null)), op)
	}
}

func TestLogical(t *testing.T) {
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{And(fal, divZero), value.False},
		{And(tru, divZero), value.NullOf(value.NullDivByZero)},
		{And(divZero, fal), value.False},
		{And(tru, tru), value.True},
		{And(tru, null), value.Null},
		{And(null, fal), value.False},
		{And(tru, Int(1)), value.BadType()},
		{And(tru, tru, fal), value.False},
		{Or(tru, divZero), value.True},
		{Or(fal, null), value.Null},
		{Or(null, fal), value.Null},
		{Or(fal, fal), value.False},
		{Or(fal, empty), value.Empty},
		{Or(null, tru), value.True},
		{Xor(tru, fal), value.True},
		{Xor(tru, tru), value.False},
		{Xor(null, tru), value.Null},
		{Xor(tru, fal, tru), value.False},
		{Not(tru), value.False},
		{Not(null), value.Null},
		{Not(empty), value.Empty},
		{Not(Int(1)), value.BadType()},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}
}

func TestRelational(t *testing.T) {
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{Eq(Int(1), Float(1.0)), value.True},
		{Eq(Float(0.1), Float(0.1+1e-12)), value.True},
		{Eq(Int(1), String("1")), value.False},
		{Compare(KindRelNE, Int(1), String("1")), value.True},
		{Compare(KindRelLT, Int(1), String("1")), value.BadType()},
		{Compare(KindRelLT, Int(1), Float(1.5)), value.True},
		{Compare(KindRelGE, String("b"), String("a")), value.True},
		{Compare(KindRelIn, Int(2), intList(1, 2)), value.True},
		{Compare(KindRelIn, Int(3), intList(1, 2)), value.False},
		{Compare(KindRelIn, Int(3), ListOf(Int(1), null)), value.Null},
		{Compare(KindRelIn, null, intList(1)), value.Null},
		{Compare(KindRelNotIn, Int(3), intList(1, 2)), value.True},
		{Compare(KindRelIn, Int(1), Int(1)), value.BadType()},
		{Compare(KindRelIn, String("k"), &Map{Items: []MapItem{{Key: "k", Val: Int(1)}}}), value.True},
		{Compare(KindContains, String("abc"), String("b")), value.True},
		{Compare(KindNotContains, String("abc"), String("b")), value.False},
		{Compare(KindStartsWith, String("abc"), String("ab")), value.True},
		{Compare(KindNotStartsWith, String("abc"), String("b")), value.True},
		{Compare(KindEndsWith, String("abc"), String("bc")), value.True},
		{Compare(KindNotEndsWith, String("abc"), String("bc")), value.False},
		{Compare(KindContains, Int(1), String("1")), value.BadType()},
		{Compare(KindNotContains, null, String("1")), value.Null},
		{Compare(KindRelREG, String("abc"), String("a.c")), value.True},
		{Compare(KindRelREG, String("abcd"), String("a.c")), value.False},
		{Compare(KindRelREG, String("abc"), String("(")), value.NullOf(value.NullBadData)},
		{Compare(KindRelREG, Int(1), String("1")), value.BadType()},
		{Compare(KindRelREG, empty, String("1")), value.Empty},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}
}

func TestUnaryPredicates(t *testing.T) {
	for _, v := range []Node{null, empty, badType, Int(0), String("")} {
		for _, op := range []Kind{KindIsNull, KindIsNotNull, KindIsEmpty, KindIsNotEmpty} {
			r := eval(NewUnary(op, v))
			require.True(t, r.IsBool(), "%s %s", op, ToString(v))
		}
	}
	requireValue(t, value.True, eval(NewUnary(KindIsNull, badType)))
	requireValue(t, value.False, eval(NewUnary(KindIsNull, empty)))
	requireValue(t, value.True, eval(NewUnary(KindIsEmpty, empty)))
	requireValue(t, value.True, eval(NewUnary(KindIsNotEmpty, null)))
	requireValue(t, value.Int(-3), eval(NewUnary(KindUnaryNegate, Int(3))))
	requireValue(t, value.Int(3), eval(NewUnary(KindUnaryPlus, Int(3))))
}

func TestIncrDecr(t *testing.T) {
	ctx := &MapContext{}
	ctx.SetVar("a", value.Int(1))
	requireValue(t, value.Int(2), NewUnary(KindUnaryIncr, Var("a")).Eval(ctx))
	requireValue(t, value.Int(2), ctx.Var("a"))
	requireValue(t, value.Int(1), NewUnary(KindUnaryDecr, Var("a")).Eval(ctx))
	requireValue(t, value.Int(1), ctx.Var("a"))
	requireValue(t, value.Int(6), NewUnary(KindUnaryIncr, Int(5)).Eval(ctx))
}

func TestSubscript(t *testing.T) {
	list := intList(1, 2, 3, 4)
	m := &Map{Items: []MapItem{{Key: "a", Val: Int(1)}}}
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{&Subscript{Left: list, Right: Int(0)}, value.Int(1)},
		{&Subscript{Left: list, Right: Int(-1)}, value.Int(4)},
		{&Subscript{Left: list, Right: Int(-4)}, value.Int(1)},
		{&Subscript{Left: list, Right: Int(4)}, value.NullOf(value.NullOutOfRange)},
		{&Subscript{Left: list, Right: Int(-5)}, value.NullOf(value.NullOutOfRange)},
		{&Subscript{Left: list, Right: String("a")}, value.BadType()},
		{&Subscript{Left: list, Right: Float(1)}, value.BadType()},
		{&Subscript{Left: m, Right: String("a")}, value.Int(1)},
		{&Subscript{Left: m, Right: String("b")}, value.Null},
		{&Subscript{Left: m, Right: Int(0)}, value.Null},
		{&Subscript{Left: null, Right: Int(0)}, value.Null},
		{&Subscript{Left: Int(1), Right: Int(0)}, value.BadType()},
		{&SubscriptRange{List: list, Lo: Int(1), Hi: Int(3)}, value.ListOf(value.Int(2), value.Int(3))},
		{&SubscriptRange{List: list, Hi: Int(-1)}, value.ListOf(value.Int(1), value.Int(2), value.Int(3))},
		{&SubscriptRange{List: list, Lo: Int(-2)}, value.ListOf(value.Int(3), value.Int(4))},
		{&SubscriptRange{List: list, Lo: Int(3), Hi: Int(1)}, value.ListOf()},
		{&SubscriptRange{List: list, Lo: Int(10)}, value.ListOf()},
		{&SubscriptRange{List: list, Lo: String("a")}, value.BadType()},
		{&SubscriptRange{List: list, Lo: null}, value.Null},
		{&SubscriptRange{List: Int(1)}, value.BadType()},
		{&Attribute{Left: m, Right: String("a")}, value.Int(1)},
		{&Attribute{Left: m, Right: String("b")}, value.NullOf(value.NullUnknownProp)},
		{&Attribute{Left: Int(1), Right: String("a")}, value.BadType()},
		{&Attribute{Left: null, Right: String("a")}, value.Null},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}
}

func TestGraphAccess(t *testing.T) {
	vx := value.FromVertex(&value.Vertex{
		Vid: value.String("v1"),
		Tags: []value.Tag{
			{Name: "player", Props: map[string]value.Value{"age": value.Int(30)}},
		},
	})
	ed := value.FromEdge(&value.Edge{
		Src: value.String("v1"), Dst: value.String("v2"),
		Type: 1, Name: "like", Ranking: 7,
		Props: map[string]value.Value{"likeness": value.Int(90)},
	})
	ctx := &MapContext{
		Vertices: map[string]value.Value{"VERTEX": vx},
		CurEdge:  ed,
		Tags:     Props{"player": {"age": value.Int(30)}},
		Edges:    Props{"like": {"likeness": value.Int(90), "_src": value.String("v1")}},
		Inputs:   map[string]value.Value{"name": value.String("Tim")},
		VarProps: Props{"var": {"x": value.Int(1)}},
		Columns:  []value.Value{value.Int(10), value.Int(20)},
	}
	ctx.SetVar("v", vx)
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{&Attribute{Left: &Vertex{Name: "VERTEX"}, Right: String("age")}, value.Int(30)},
		{&Attribute{Left: &Vertex{Name: "VERTEX"}, Right: String("_vid")}, value.String("v1")},
		{&Attribute{Left: &Edge{}, Right: String("likeness")}, value.Int(90)},
		{&Attribute{Left: &Edge{}, Right: String("_dst")}, value.String("v2")},
		{&Attribute{Left: &Edge{}, Right: String("_rank")}, value.Int(7)},
		{&Subscript{Left: &Edge{}, Right: String("_src")}, value.String("v1")},
		{&Subscript{Left: &Edge{}, Right: String("missing")}, value.Null},
		{NewLabelAttribute("v", "age"), value.Int(30)},
		{&LabelTagProperty{Label: Var("v"), Tag: "player", Prop: "age"}, value.Int(30)},
		{&LabelTagProperty{Label: Var("v"), Tag: "team", Prop: "age"}, value.Null},
		{TagProp("player", "age"), value.Int(30)},
		{TagProp("player", "nope"), value.Empty},
		{EdgeProp("like", "likeness"), value.Int(90)},
		{EdgeField(KindEdgeSrc, "like"), value.String("v1")},
		{InputProp("name"), value.String("Tim")},
		{VarProp("var", "x"), value.Int(1)},
		{&Column{Index: 1}, value.Int(20)},
		{&Column{Index: -1}, value.Int(20)},
		{&Column{Index: 2}, value.NullOf(value.NullOutOfRange)},
		{&Label{Name: "abc"}, value.String("abc")},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, tc.expr.Eval(ctx), ToString(tc.expr))
	}
}

func TestVersionedVariable(t *testing.T) {
	ctx := &MapContext{}
	ctx.PushVar("x", value.Int(1))
	ctx.PushVar("x", value.Int(2))
	ctx.PushVar("x", value.Int(3))
	vv := func(n Node) Node { return &VersionedVariable{Name: "x", Version: n} }
	requireValue(t, value.Int(3), vv(Int(0)).Eval(ctx))
	requireValue(t, value.Int(2), vv(Int(-1)).Eval(ctx))
	requireValue(t, value.Int(1), vv(Int(1)).Eval(ctx))
	requireValue(t, value.Empty, vv(Int(4)).Eval(ctx))
	requireValue(t, value.BadType(), vv(String("a")).Eval(ctx))
	requireValue(t, value.Null, vv(null).Eval(ctx))
	requireValue(t, value.Int(3), Var("x").Eval(ctx))
	requireValue(t, value.Empty, Var("y").Eval(ctx))
}

func TestCase(t *testing.T) {
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{&Case{Cond: Int(23), Whens: []When{{When: Int(24), Then: Int(1)}}}, value.Null},
		{&Case{Cond: Int(23), Whens: []When{{When: Int(24), Then: Int(1)}}, Default: Int(2)}, value.Int(2)},
		{&Case{Cond: Int(23), Whens: []When{{When: Int(24), Then: Int(1)}, {When: Float(23), Then: Int(3)}}}, value.Int(3)},
		{&Case{Whens: []When{{When: fal, Then: Int(1)}, {When: tru, Then: Int(2)}}}, value.Int(2)},
		{&Case{Whens: []When{{When: null, Then: Int(1)}}, Default: Int(5)}, value.Int(5)},
		{&Case{Whens: []When{{When: Int(1), Then: Int(1)}}}, value.BadType()},
		{Ternary(tru, Int(1), Int(2)), value.Int(1)},
		{Ternary(fal, Int(1), Int(2)), value.Int(2)},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}
}

func TestComprehensions(t *testing.T) {
	nv := n("n")
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{
			&ListComprehension{Var: "n", Collection: intList(1, 2, 3), Filter: Compare(KindRelGT, nv, Int(1)), Mapping: Arith(KindMultiply, nv, Int(2))},
			value.ListOf(value.Int(4), value.Int(6)),
		},
		{&ListComprehension{Var: "n", Collection: intList(1, 2)}, value.ListOf(value.Int(1), value.Int(2))},
		{&ListComprehension{Var: "n", Collection: null}, value.Null},
		{&ListComprehension{Var: "n", Collection: Int(1)}, value.BadType()},
		{&ListComprehension{Var: "n", Collection: intList(1), Filter: Int(1)}, value.BadType()},
		{&Predicate{Name: PredAll, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(0))}, value.True},
		{&Predicate{Name: PredAll, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(1))}, value.False},
		{&Predicate{Name: PredAny, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(1))}, value.True},
		{&Predicate{Name: PredSingle, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(0))}, value.False},
		{&Predicate{Name: PredSingle, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(1))}, value.True},
		{&Predicate{Name: PredNone, Var: "n", Collection: intList(1, 2), Filter: Compare(KindRelGT, nv, Int(5))}, value.True},
		{&Predicate{Name: PredAll, Var: "n", Collection: null, Filter: tru}, value.Null},
		{&Predicate{Name: PredExists, Collection: &Attribute{Left: &Map{Items: []MapItem{{Key: "a", Val: null}}}, Right: String("a")}}, value.True},
		{&Predicate{Name: PredExists, Collection: &Attribute{Left: &Map{}, Right: String("a")}}, value.False},
		{&Reduce{Acc: "acc", Initial: Int(0), Var: "n", Collection: intList(1, 2, 3), Mapping: Arith(KindAdd, n("acc"), nv)}, value.Int(6)},
		{&Reduce{Acc: "acc", Initial: Int(0), Var: "n", Collection: null, Mapping: n("acc")}, value.Null},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}

	// the inner variable does not leak out of the comprehension
	ctx := &MapContext{}
	ctx.SetVar("n", value.String("outer"))
	lc := &ListComprehension{Var: "n", Collection: intList(1, 2), Mapping: nv}
	requireValue(t, value.ListOf(value.Int(1), value.Int(2)), lc.Eval(ctx))
	requireValue(t, value.String("outer"), ctx.Var("n"))
}

func TestContainers(t *testing.T) {
	requireValue(t, value.ListOf(value.Int(1), value.Null), eval(ListOf(Int(1), null)))
	requireValue(t, value.SetOf(value.Int(1)), eval(&Set{Items: []Node{Int(1), Int(1)}}))
	m := eval(&Map{Items: []MapItem{{Key: "a", Val: Int(1)}, {Key: "a", Val: Int(2)}}})
	v, ok := m.AsMap().Get("a")
	require.True(t, ok)
	requireValue(t, value.Int(2), v)
}

func TestPathBuild(t *testing.T) {
	v1 := value.FromVertex(&value.Vertex{Vid: value.String("a")})
	v2 := value.FromVertex(&value.Vertex{Vid: value.String("b")})
	e := value.FromEdge(&value.Edge{Src: value.String("a"), Dst: value.String("b"), Name: "like"})
	bad := value.FromEdge(&value.Edge{Src: value.String("x"), Dst: value.String("y"), Name: "like"})
	p := eval(&PathBuild{Items: []Node{Const(v1), Const(e), Const(v2)}})
	require.Equal(t, value.PathType, p.Type())
	require.Len(t, p.AsPath().Steps, 1)
	requireValue(t, value.String("b"), p.AsPath().Last().Vid)

	requireValue(t, value.BadType(), eval(&PathBuild{Items: []Node{Const(v1), Const(bad)}}))
	requireValue(t, value.BadType(), eval(&PathBuild{Items: []Node{Int(1)}}))
	requireValue(t, value.BadType(), eval(&PathBuild{Items: []Node{Const(v1), Int(1)}}))
	requireValue(t, value.Null, eval(&PathBuild{}))
}

func TestTypeCasting(t *testing.T) {
	testcases := []struct {
		expr Node
		want value.Value
	}{
		{&TypeCasting{To: value.IntType, Operand: String("12")}, value.Int(12)},
		{&TypeCasting{To: value.IntType, Operand: Float(1.9)}, value.Int(1)},
		{&TypeCasting{To: value.FloatType, Operand: Int(2)}, value.Float(2)},
		{&TypeCasting{To: value.StringType, Operand: Int(2)}, value.String("2")},
		{&TypeCasting{To: value.BoolType, Operand: String("FALSE")}, value.False},
		{&TypeCasting{To: value.BoolType, Operand: Int(0)}, value.BadType()},
		{&TypeCasting{To: value.IntType, Operand: String("abc")}, value.Null},
		{&TypeCasting{To: value.IntType, Operand: null}, value.Null},
	}
	for _, tc := range testcases {
		requireValue(t, tc.want, eval(tc.expr), ToString(tc.expr))
	}
}

func TestFunctionCall(t *testing.T) {
	requireValue(t, value.Int(1), eval(Call("abs", Int(-1))))
	requireValue(t, value.NullOf(value.NullBadData), eval(Call("nosuchfunction", Int(-1))))
	requireValue(t, value.NullOf(value.NullBadData), eval(Call("abs")))
	require.True(t, Call("abs", Int(1)).Pure())
	require.False(t, Call("rand").Pure())
	require.False(t, Call("nosuchfunction").Pure())
	u1, u2 := eval(&UUID{}), eval(&UUID{})
	require.True(t, u1.IsString())
	require.NotEqual(t, u1.AsString(), u2.AsString())
}

func TestAggregateApply(t *testing.T) {
	// AVG(distinct $-.v) grouped by $-.k
	agg := Agg("avg", InputProp("v"), true)
	rows := []struct {
		k string
		v int64
	}{{"a", 1}, {"a", 3}, {"b", 4}, {"a", 1}}
	data := map[string]*aggregate.Data{}
	for _, r := range rows {
		ctx := &MapContext{Inputs: map[string]value.Value{"k": value.String(r.k), "v": value.Int(r.v)}}
		d := data[r.k]
		if d == nil {
			d = aggregate.NewData()
			data[r.k] = d
		}
		agg.Apply(ctx, d)
	}
	requireValue(t, value.Float(2), data["a"].Result())
	requireValue(t, value.Float(4), data["b"].Result())

	// Eval resolves the bound data
	count := Agg("count", nil, false)
	ctx := &MapContext{}
	requireValue(t, value.Null, count.Eval(ctx))
	d := aggregate.NewData()
	ctx.Bind(count, d)
	count.Eval(ctx)
	requireValue(t, value.Int(2), count.Eval(ctx))
	requireValue(t, value.NullOf(value.NullBadData), Agg("nope", nil, false).Apply(ctx, aggregate.NewData()))
}
