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
	"github.com/SnellerInc/graphexpr/date"
	"github.com/SnellerInc/graphexpr/value"
)

// without arguments the temporal constructors
// read the clock
func pureWithArgs(arity int) bool { return arity > 0 }

func init() {
	register(&Func{
		name: "now",
		sigs: []sig{of(i64)},
		pure: never,
		eval: func([]value.Value) value.Value { return value.Int(date.Now().Unix()) },
	})
	register(&Func{
		name: "timestamp",
		sigs: []sig{of(i64), of(i64, str|i64)},
		pure: pureWithArgs,
		eval: func(args []value.Value) value.Value {
			if len(args) == 0 {
				return value.Int(date.Now().Unix())
			}
			if args[0].IsInt() {
				return args[0]
			}
			dt, ok := date.ParseDateTime(args[0].AsString())
			if !ok {
				return badData()
			}
			return value.Int(dt.Unix())
		},
	})
	register(&Func{
		name: "date",
		sigs: []sig{of(value.DateType), of(value.DateType, str)},
		pure: pureWithArgs,
		eval: func(args []value.Value) value.Value {
			if len(args) == 0 {
				return value.FromDate(date.Today())
			}
			d, ok := date.ParseDate(args[0].AsString())
			if !ok {
				return badData()
			}
			return value.FromDate(d)
		},
	})
	register(&Func{
		name: "time",
		sigs: []sig{of(value.TimeType), of(value.TimeType, str)},
		pure: pureWithArgs,
		eval: func(args []value.Value) value.Value {
			if len(args) == 0 {
				return value.FromTime(date.Now().Clock())
			}
			t, ok := date.ParseTime(args[0].AsString())
			if !ok {
				return badData()
			}
			return value.FromTime(t)
		},
	})
	register(&Func{
		name: "datetime",
		sigs: []sig{of(value.DateTimeType), of(value.DateTimeType, str)},
		pure: pureWithArgs,
		eval: func(args []value.Value) value.Value {
			if len(args) == 0 {
				return value.FromDateTime(date.Now())
			}
			dt, ok := date.ParseDateTime(args[0].AsString())
			if !ok {
				return badData()
			}
			return value.FromDateTime(dt)
		},
	})
}
