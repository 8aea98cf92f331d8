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

package function

import (
	"strings"
	"unicode/utf8"

	"github.com/SnellerInc/graphexpr/ints"
	"github.com/SnellerInc/graphexpr/value"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	str    = value.StringType
	anyT   = value.AnyType
	list   = value.ListType
	path   = value.PathType
	vertex = value.VertexType
	edge   = value.EdgeType
)

func badData() value.Value { return value.NullOf(value.NullBadData) }

func stringFunc(name string, fn func(string) string) {
	register(&Func{
		name: name,
		sigs: []sig{of(str, str)},
		eval: func(args []value.Value) value.Value {
			return value.String(fn(args[0].AsString()))
		},
	})
}

// runeSlice returns the runes [start, end) of s,
// with both bounds clamped to the length of s
func runeSlice(s string, start, end int) string {
	r := []rune(s)
	start = ints.Clamp(start, 0, len(r))
	end = ints.Clamp(end, start, len(r))
	return string(r[start:end])
}

func pad(args []value.Value, left bool) value.Value {
	s, n, fill := args[0].AsString(), int(args[1].AsInt()), args[2].AsString()
	if n < 0 {
		return badData()
	}
	have := utf8.RuneCountInString(s)
	if have >= n {
		return value.String(runeSlice(s, 0, n))
	}
	if fill == "" {
		return value.String(s)
	}
	need := n - have
	fr := []rune(strings.Repeat(fill, need/utf8.RuneCountInString(fill)+1))[:need]
	if left {
		return value.String(string(fr) + s)
	}
	return value.String(s + string(fr))
}

func reverse(args []value.Value) value.Value {
	v := args[0]
	if v.IsString() {
		r := []rune(v.AsString())
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return value.String(string(r))
	}
	vs := v.AsList().Values
	out := make([]value.Value, len(vs))
	for i := range vs {
		out[len(vs)-1-i] = vs[i]
	}
	return value.ListOf(out...)
}

func init() {
	stringFunc("lower", func(s string) string { return cases.Lower(language.Und).String(s) })
	stringFunc("upper", func(s string) string { return cases.Upper(language.Und).String(s) })
	stringFunc("trim", strings.TrimSpace)
	stringFunc("ltrim", func(s string) string { return strings.TrimLeft(s, " \t\n\r") })
	stringFunc("rtrim", func(s string) string { return strings.TrimRight(s, " \t\n\r") })
	alias("tolower", "lower")
	alias("toupper", "upper")
	register(&Func{
		name: "left",
		sigs: []sig{of(str, str, i64)},
		eval: func(args []value.Value) value.Value {
			n := args[1].AsInt()
			if n < 0 {
				return badData()
			}
			return value.String(runeSlice(args[0].AsString(), 0, int(n)))
		},
	})
	register(&Func{
		name: "right",
		sigs: []sig{of(str, str, i64)},
		eval: func(args []value.Value) value.Value {
			s, n := args[0].AsString(), int(args[1].AsInt())
			if n < 0 {
				return badData()
			}
			size := utf8.RuneCountInString(s)
			return value.String(runeSlice(s, size-n, size))
		},
	})
	register(&Func{
		name: "substr",
		sigs: []sig{of(str, str, i64), of(str, str, i64, i64)},
		eval: func(args []value.Value) value.Value {
			s, start := args[0].AsString(), int(args[1].AsInt())
			if start < 0 {
				return badData()
			}
			end := utf8.RuneCountInString(s)
			if len(args) == 3 {
				n := int(args[2].AsInt())
				if n < 0 {
					return badData()
				}
				end = ints.Min(end, start+n)
			}
			return value.String(runeSlice(s, start, end))
		},
	})
	alias("substring", "substr")
	register(&Func{
		name: "replace",
		sigs: []sig{of(str, str, str, str)},
		eval: func(args []value.Value) value.Value {
			return value.String(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString()))
		},
	})
	register(&Func{
		name: "split",
		sigs: []sig{of(list, str, str)},
		eval: func(args []value.Value) value.Value {
			parts := strings.Split(args[0].AsString(), args[1].AsString())
			out := make([]value.Value, len(parts))
			for i := range parts {
				out[i] = value.String(parts[i])
			}
			return value.ListOf(out...)
		},
	})
	register(&Func{
		name: "lpad",
		sigs: []sig{of(str, str, i64, str)},
		eval: func(args []value.Value) value.Value { return pad(args, true) },
	})
	register(&Func{
		name: "rpad",
		sigs: []sig{of(str, str, i64, str)},
		eval: func(args []value.Value) value.Value { return pad(args, false) },
	})
	register(&Func{
		name: "reverse",
		sigs: []sig{of(str, str), of(list, list)},
		eval: reverse,
	})
	register(&Func{
		name: "strcasecmp",
		sigs: []sig{of(i64, str, str)},
		eval: func(args []value.Value) value.Value {
			a := cases.Fold().String(args[0].AsString())
			b := cases.Fold().String(args[1].AsString())
			return value.Int(int64(strings.Compare(a, b)))
		},
	})
	register(&Func{
		name: "concat",
		sigs: []sig{variadic(str, anyT, anyT)},
		eval: func(args []value.Value) value.Value {
			var b strings.Builder
			for i := range args {
				b.WriteString(args[i].Raw())
			}
			return value.String(b.String())
		},
	})
	register(&Func{
		name:    "concat_ws",
		sigs:    []sig{variadic(str, anyT, str, anyT)},
		lenient: true,
		eval: func(args []value.Value) value.Value {
			if args[0].IsAbnormal() {
				return value.Null
			}
			var b strings.Builder
			first := true
			for _, v := range args[1:] {
				if v.IsAbnormal() {
					continue
				}
				if !first {
					b.WriteString(args[0].AsString())
				}
				first = false
				b.WriteString(v.Raw())
			}
			return value.String(b.String())
		},
	})
	register(&Func{
		name: "tostring",
		sigs: []sig{of(str, anyT)},
		eval: func(args []value.Value) value.Value { return args[0].ToString() },
	})
	register(&Func{
		name: "tointeger",
		sigs: []sig{of(i64, num|str|value.BoolType)},
		eval: func(args []value.Value) value.Value { return args[0].ToInt() },
	})
	alias("toint", "tointeger")
	register(&Func{
		name: "tofloat",
		sigs: []sig{of(f64, num|str|value.BoolType)},
		eval: func(args []value.Value) value.Value { return args[0].ToFloat() },
	})
	register(&Func{
		name: "toboolean",
		sigs: []sig{of(value.BoolType, str|value.BoolType)},
		eval: func(args []value.Value) value.Value { return args[0].ToBool() },
	})
	alias("tobool", "toboolean")
	register(&Func{
		name: "hash",
		sigs: []sig{of(i64, anyT)},
		eval: func(args []value.Value) value.Value {
			return value.Int(int64(value.Hash(args[0])))
		},
	})
}
