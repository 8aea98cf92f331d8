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

package aggregate

import (
	"testing"

	"github.com/SnellerInc/graphexpr/value"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type row struct {
	key string
	val value.Value
}

var (
	ints = []row{
		{"a", value.Int(1)},
		{"b", value.Int(4)},
		{"c", value.Int(3)},
		{"a", value.Int(3)},
		{"c", value.Int(8)},
		{"c", value.Int(5)},
		{"c", value.Int(8)},
	}
	// ints interleaved with NULL and EMPTY
	sparse = []row{
		{"a", value.Int(1)},
		{"b", value.Int(4)},
		{"c", value.Int(3)},
		{"c", value.Null},
		{"a", value.Empty},
		{"a", value.Int(3)},
		{"c", value.Int(8)},
		{"b", value.Null},
		{"c", value.Int(5)},
		{"c", value.Empty},
		{"c", value.Int(8)},
	}
	nulls = []row{
		{"c", value.Null},
		{"c", value.Empty},
		{"c", value.Null},
	}
	spread = []row{
		{"a", value.Int(0)}, {"a", value.Int(1)}, {"a", value.Int(2)},
		{"a", value.Int(3)}, {"a", value.Int(4)}, {"a", value.Int(5)},
		{"a", value.Int(6)}, {"a", value.Int(7)}, {"a", value.Int(8)},
		{"a", value.Int(9)},
		{"b", value.Int(6)},
		{"c", value.Int(7)}, {"c", value.Int(7)},
		{"c", value.Int(9)}, {"c", value.Int(9)},
	}
	bools = []row{
		{"a", value.True},
		{"b", value.True},
		{"c", value.False},
		{"a", value.False},
		{"c", value.False},
		{"c", value.False},
		{"c", value.True},
	}
)

// run feeds rows through the named aggregate,
// grouping on the row key
func run(t *testing.T, name string, distinct bool, rows []row) map[string]value.Value {
	f, err := Get(name)
	require.NoError(t, err)
	var g Groups
	for _, r := range rows {
		d := g.Get(0, []value.Value{value.String(r.key)})
		Apply(f, d, r.val, distinct)
	}
	out := make(map[string]value.Value)
	g.Each(func(node int, key []value.Value, d *Data) {
		require.Equal(t, 0, node)
		out[key[0].AsString()] = d.Result()
	})
	return out
}

func check(t *testing.T, want map[string]value.Value, got map[string]value.Value) {
	t.Helper()
	require.Len(t, got, len(want))
	for k, w := range want {
		require.True(t, value.Equals(w, got[k]), "group %s: want %s, got %s", k, w, got[k])
	}
}

func is(vs ...int64) map[string]value.Value {
	out := make(map[string]value.Value)
	for i, v := range vs {
		out[string(rune('a'+i))] = value.Int(v)
	}
	return out
}

func TestCounting(t *testing.T) {
	check(t, is(3, 4, 8), run(t, "", false, ints))
	for _, rows := range [][]row{ints, sparse} {
		check(t, is(2, 1, 4), run(t, "COUNT", false, rows))
		check(t, is(2, 1, 3), run(t, "count", true, rows))
		check(t, is(4, 4, 24), run(t, "SUM", false, rows))
		check(t, is(4, 4, 16), run(t, "Sum", true, rows))
		check(t, is(1, 4, 3), run(t, "MIN", false, rows))
		check(t, is(3, 4, 8), run(t, "MAX", true, rows))
	}
	check(t, is(3, 4, 5), run(t, "", true, ints))
}

func TestAvg(t *testing.T) {
	got := run(t, "AVG", false, sparse)
	require.Equal(t, 2.0, got["a"].AsFloat())
	require.Equal(t, 4.0, got["b"].AsFloat())
	require.Equal(t, 6.0, got["c"].AsFloat())
	got = run(t, "AVG", true, ints)
	require.InDelta(t, 16.0/3, got["c"].AsFloat(), 1e-12)
	require.True(t, got["c"].IsFloat())
}

func TestStd(t *testing.T) {
	got := run(t, "STD", false, spread)
	require.InDelta(t, 2.8722813232690143, got["a"].AsFloat(), 1e-12)
	require.Equal(t, 0.0, got["b"].AsFloat())
	require.InDelta(t, 1.0, got["c"].AsFloat(), 1e-12)
	got = run(t, "STD", true, spread)
	require.InDelta(t, 1.0, got["c"].AsFloat(), 1e-12)
}

func TestBitwise(t *testing.T) {
	check(t, is(1, 4, 0), run(t, "BIT_AND", false, ints))
	check(t, is(1, 4, 0), run(t, "BIT_AND", true, ints))
	check(t, is(3, 4, 15), run(t, "BIT_OR", false, ints))
	check(t, is(2, 4, 6), run(t, "BIT_XOR", false, ints))
	check(t, is(2, 4, 14), run(t, "BIT_XOR", true, ints))
}

func TestCollect(t *testing.T) {
	got := run(t, "COLLECT", false, sparse)
	require.Equal(t, "[3, 8, 5, 8]", got["c"].String())
	got = run(t, "COLLECT", true, sparse)
	require.Equal(t, "[3, 8, 5]", got["c"].String())
	got = run(t, "COLLECT_SET", false, sparse)
	require.Equal(t, "{3, 8, 5}", got["c"].String())
	require.Equal(t, "{1, 3}", got["a"].String())
}

func TestApplySnapshot(t *testing.T) {
	cases := []struct {
		name  string
		first string
		final string
	}{
		{"COLLECT", "[1]", "[1, 2]"},
		{"COLLECT_SET", "{1}", "{1, 2}"},
	}
	for _, c := range cases {
		f, err := Get(c.name)
		require.NoError(t, err)
		d := NewData()
		first := Apply(f, d, value.Int(1), false)
		second := Apply(f, d, value.Int(2), false)
		require.Equal(t, c.first, first.String(), c.name)
		require.Equal(t, c.final, second.String(), c.name)
		require.Equal(t, c.final, d.Result().String(), c.name)
		// later steps keep growing the running result
		Apply(f, d, value.Int(3), false)
		require.Equal(t, c.final, second.String(), c.name)
	}
}

func TestDistinctNearFloats(t *testing.T) {
	rows := []row{
		{"a", value.Int(1)},
		{"a", value.Float(1)},
		{"a", value.Float(1.00000000001)},
	}
	check(t, is(2), run(t, "COUNT", true, rows))
	check(t, is(3), run(t, "COUNT", false, rows))
	got := run(t, "COLLECT_SET", false, rows)
	require.Equal(t, 2, got["a"].AsSet().Len())
}

func TestAllNull(t *testing.T) {
	want := map[string]string{
		"COUNT":       "0",
		"SUM":         "NULL",
		"AVG":         "NULL",
		"MAX":         "NULL",
		"MIN":         "NULL",
		"STD":         "NULL",
		"BIT_AND":     "NULL",
		"BIT_OR":      "NULL",
		"BIT_XOR":     "NULL",
		"COLLECT":     "[]",
		"COLLECT_SET": "{}",
	}
	for name, w := range want {
		for _, distinct := range []bool{false, true} {
			got := run(t, name, distinct, nulls)
			require.Equal(t, w, got["c"].String(), "%s distinct=%v", name, distinct)
		}
	}
}

func TestBadType(t *testing.T) {
	for _, name := range []string{"SUM", "AVG", "STD", "BIT_AND", "BIT_OR", "BIT_XOR"} {
		got := run(t, name, false, bools)
		for k, v := range got {
			require.Equal(t, value.NullBadType, v.NullKind(), "%s group %s", name, k)
		}
	}
	// the error is sticky
	f, _ := Get("SUM")
	d := NewData()
	Apply(f, d, value.String("x"), false)
	Apply(f, d, value.Int(1), false)
	require.Equal(t, value.NullBadType, d.Result().NullKind())

	got := run(t, "MAX", false, bools)
	for _, k := range []string{"a", "b", "c"} {
		require.True(t, got[k].IsTrue(), k)
	}
	got = run(t, "MIN", false, bools)
	require.True(t, got["a"].IsFalse())
	require.True(t, got["b"].IsTrue())
	require.True(t, got["c"].IsFalse())
}

func TestRegistry(t *testing.T) {
	require.True(t, Find("collect_set"))
	require.True(t, Find(""))
	require.False(t, Find("MEDIAN"))
	_, err := Get("median")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknown))
	require.Equal(t, "Unknown aggregate function `median'", err.Error())
	names := Names()
	require.Len(t, names, 12)
	require.Equal(t, "", names[0])
	require.True(t, errors.Is(Load("MEDIAN"), ErrNotSupported))
	require.True(t, errors.Is(Unload("SUM"), ErrNotSupported))
}

func TestGroups(t *testing.T) {
	var g Groups
	k := func(vs ...value.Value) []value.Value { return vs }
	a := g.Get(1, k(value.Int(1), value.String("x")))
	require.Same(t, a, g.Get(1, k(value.Float(1), value.String("x"))))
	require.NotSame(t, a, g.Get(2, k(value.Int(1), value.String("x"))))
	require.NotSame(t, a, g.Get(1, k(value.Int(1))))
	require.Equal(t, 3, g.Len())
	var order []int
	g.Each(func(node int, _ []value.Value, _ *Data) { order = append(order, node) })
	require.Equal(t, []int{1, 2, 1}, order)
	g.Reset()
	require.Zero(t, g.Len())
}
