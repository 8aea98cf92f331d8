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
	"math"
	"math/rand"

	"github.com/SnellerInc/graphexpr/value"
)

const (
	num = value.NumericType
	i64 = value.IntType
	f64 = value.FloatType
)

// float wraps a floating-point result;
// NaN is reported as a NaN null
func float(f float64) value.Value {
	if math.IsNaN(f) {
		return value.NullOf(value.NullNaN)
	}
	return value.Float(f)
}

func unaryFloat(name string, fn func(float64) float64) {
	register(&Func{
		name: name,
		sigs: []sig{of(f64, num)},
		eval: func(args []value.Value) value.Value {
			return float(fn(args[0].AsFloat()))
		},
	})
}

func init() {
	register(&Func{
		name: "abs",
		sigs: []sig{of(i64, i64), of(f64, f64)},
		eval: func(args []value.Value) value.Value {
			v := args[0]
			if v.IsInt() {
				if v.AsInt() == math.MinInt64 {
					return value.NullOf(value.NullOverflow)
				}
				if v.AsInt() < 0 {
					return value.Int(-v.AsInt())
				}
				return v
			}
			return value.Float(math.Abs(v.AsFloat()))
		},
	})
	unaryFloat("floor", math.Floor)
	unaryFloat("ceil", math.Ceil)
	unaryFloat("sqrt", math.Sqrt)
	unaryFloat("cbrt", math.Cbrt)
	unaryFloat("exp", math.Exp)
	unaryFloat("exp2", math.Exp2)
	unaryFloat("log", math.Log)
	unaryFloat("log2", math.Log2)
	unaryFloat("log10", math.Log10)
	unaryFloat("sin", math.Sin)
	unaryFloat("cos", math.Cos)
	unaryFloat("tan", math.Tan)
	unaryFloat("asin", math.Asin)
	unaryFloat("acos", math.Acos)
	unaryFloat("atan", math.Atan)
	register(&Func{
		name: "round",
		sigs: []sig{of(f64, num), of(f64, num, i64)},
		eval: func(args []value.Value) value.Value {
			x := args[0].AsFloat()
			if len(args) == 1 {
				return value.Float(math.Round(x))
			}
			scale := math.Pow(10, float64(args[1].AsInt()))
			return float(math.Round(x*scale) / scale)
		},
	})
	register(&Func{
		name: "pow",
		sigs: []sig{of(i64, i64, i64), of(f64, num, num)},
		eval: func(args []value.Value) value.Value {
			a, b := args[0], args[1]
			if a.IsInt() && b.IsInt() && b.AsInt() >= 0 {
				if r, ok := ipow(a.AsInt(), b.AsInt()); ok {
					return value.Int(r)
				}
				return value.NullOf(value.NullOverflow)
			}
			return float(math.Pow(a.AsFloat(), b.AsFloat()))
		},
	})
	register(&Func{
		name: "hypot",
		sigs: []sig{of(f64, num, num)},
		eval: func(args []value.Value) value.Value {
			return float(math.Hypot(args[0].AsFloat(), args[1].AsFloat()))
		},
	})
	register(&Func{
		name: "sign",
		sigs: []sig{of(i64, num)},
		eval: func(args []value.Value) value.Value {
			x := args[0].AsFloat()
			switch {
			case x > 0:
				return value.Int(1)
			case x < 0:
				return value.Int(-1)
			}
			return value.Int(0)
		},
	})
	register(&Func{
		name: "e",
		sigs: []sig{of(f64)},
		eval: func([]value.Value) value.Value { return value.Float(math.E) },
	})
	register(&Func{
		name: "pi",
		sigs: []sig{of(f64)},
		eval: func([]value.Value) value.Value { return value.Float(math.Pi) },
	})
	register(&Func{
		name: "radians",
		sigs: []sig{of(f64, num)},
		eval: func(args []value.Value) value.Value {
			return value.Float(args[0].AsFloat() * math.Pi / 180)
		},
	})
	register(&Func{
		name: "rand",
		sigs: []sig{of(f64)},
		pure: never,
		eval: func([]value.Value) value.Value { return value.Float(rand.Float64()) },
	})
	register(&Func{
		name: "rand32",
		sigs: []sig{of(i64), of(i64, i64), of(i64, i64, i64)},
		pure: never,
		eval: func(args []value.Value) value.Value {
			return randRange(args, math.MinInt32, math.MaxInt32)
		},
	})
	register(&Func{
		name: "rand64",
		sigs: []sig{of(i64), of(i64, i64), of(i64, i64, i64)},
		pure: never,
		eval: func(args []value.Value) value.Value {
			return randRange(args, math.MinInt64, math.MaxInt64)
		},
	})
}

// randRange draws from [lo, hi) where the
// optional arguments are (hi) or (lo, hi)
func randRange(args []value.Value, lo, hi int64) value.Value {
	switch len(args) {
	case 0:
		if hi == math.MaxInt64 {
			return value.Int(int64(rand.Uint64()))
		}
		return value.Int(int64(rand.Int31()))
	case 1:
		lo, hi = 0, args[0].AsInt()
	default:
		lo, hi = args[0].AsInt(), args[1].AsInt()
	}
	if hi <= lo {
		return value.NullOf(value.NullBadData)
	}
	span := uint64(hi - lo)
	if span > math.MaxInt64 {
		return value.Int(lo + int64(rand.Uint64()%span))
	}
	return value.Int(lo + rand.Int63n(int64(span)))
}

func ipow(base, exp int64) (int64, bool) {
	r := int64(1)
	for exp > 0 {
		if exp&1 != 0 {
			if !mulOK(r, base) {
				return 0, false
			}
			r *= base
		}
		exp >>= 1
		if exp > 0 {
			if !mulOK(base, base) {
				return 0, false
			}
			base *= base
		}
	}
	return r, true
}

func mulOK(a, b int64) bool {
	if a == 0 || b == 0 {
		return true
	}
	c := a * b
	return c/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64)
}
