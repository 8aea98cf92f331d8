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
	"fmt"
	"math"
	"strings"

	"github.com/SnellerInc/graphexpr/value"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Func advances an accumulator with one input.
type Func func(d *Data, v value.Value)

var (
	// ErrUnknown is matched by the error returned
	// from Get for an unregistered name.
	ErrUnknown = errors.New("unknown aggregate function")
	// ErrNotSupported is returned by Load and Unload.
	ErrNotSupported = errors.New("aggregate: dynamic loading is not supported")
)

type unknownError struct {
	name string
}

func (u *unknownError) Error() string {
	return fmt.Sprintf("Unknown aggregate function `%s'", u.name)
}

func (u *unknownError) Unwrap() error { return ErrUnknown }

// builtin is populated once at init and
// is read-only afterwards
var builtin = map[string]Func{
	"":            last,
	"COUNT":       count,
	"SUM":         sum,
	"AVG":         avg,
	"MAX":         extreme(1),
	"MIN":         extreme(-1),
	"STD":         std,
	"BIT_AND":     bitwise(value.BitAnd),
	"BIT_OR":      bitwise(value.BitOr),
	"BIT_XOR":     bitwise(value.BitXor),
	"COLLECT":     collect,
	"COLLECT_SET": collectSet,
}

// Get returns the accumulation step for name,
// which is matched case-insensitively.
func Get(name string) (Func, error) {
	f, ok := builtin[strings.ToUpper(name)]
	if !ok {
		return nil, &unknownError{name: name}
	}
	return f, nil
}

// Find returns whether name is a registered aggregate.
func Find(name string) bool {
	_, ok := builtin[strings.ToUpper(name)]
	return ok
}

// Names returns the registered names in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Load always fails: the registry is fixed at build time.
func Load(name string) error {
	return fmt.Errorf("load %q: %w", name, ErrNotSupported)
}

// Unload always fails: the registry is fixed at build time.
func Unload(name string) error {
	return fmt.Errorf("unload %q: %w", name, ErrNotSupported)
}

// Apply feeds v to f. When distinct is set,
// inputs already seen by d are skipped.
// Apply returns a snapshot of the running result
// which later steps do not modify.
func Apply(f Func, d *Data, v value.Value, distinct bool) value.Value {
	if !distinct || d.Uniques().Add(v) {
		f(d, v)
	}
	return snapshot(d.result)
}

// snapshot detaches the containers that collect
// and collectSet grow in place
func snapshot(v value.Value) value.Value {
	switch v.Type() {
	case value.ListType:
		return value.ListOf(slices.Clone(v.AsList().Values)...)
	case value.SetType:
		return value.FromSet(v.AsSet().Clone())
	}
	return v
}

func last(d *Data, v value.Value) {
	d.result = v
}

func count(d *Data, v value.Value) {
	if d.result.IsNull() {
		d.result = value.Int(0)
	}
	if v.IsAbnormal() {
		return
	}
	d.result = value.Add(d.result, value.Int(1))
}

// numeric filters the input of the arithmetic
// aggregates; it reports whether the step should
// proceed, and poisons the result on a type error
func numeric(d *Data, v value.Value) bool {
	if d.result.IsBadNull() || v.IsAbnormal() {
		return false
	}
	if !v.IsNumeric() {
		d.result = value.BadType()
		return false
	}
	return true
}

func sum(d *Data, v value.Value) {
	if !numeric(d, v) {
		return
	}
	if d.result.IsNull() {
		d.result = v
		return
	}
	d.result = value.Add(d.result, v)
}

func avg(d *Data, v value.Value) {
	if !numeric(d, v) {
		return
	}
	if d.result.IsNull() {
		d.sum = value.Int(0)
		d.cnt = value.Int(0)
	}
	d.sum = value.Add(d.sum, v)
	d.cnt = value.Add(d.cnt, value.Int(1))
	if d.sum.IsBadNull() {
		d.result = d.sum
		return
	}
	d.result = value.Float(d.sum.AsFloat() / d.cnt.AsFloat())
}

func extreme(sign int) Func {
	return func(d *Data, v value.Value) {
		if d.result.IsBadNull() || v.IsAbnormal() {
			return
		}
		if d.result.IsNull() || value.Compare(v, d.result)*sign > 0 {
			d.result = v
		}
	}
}

// std computes the population standard deviation
// with Welford's online algorithm
func std(d *Data, v value.Value) {
	if !numeric(d, v) {
		return
	}
	if d.result.IsNull() {
		d.cnt = value.Float(0)
		d.avg = value.Float(0)
		d.deviation = value.Float(0)
	}
	x := v.AsFloat()
	cnt := d.cnt.AsFloat() + 1
	mean := d.avg.AsFloat()
	delta := x - mean
	mean += delta / cnt
	dev := d.deviation.AsFloat() + delta*(x-mean)
	d.cnt = value.Float(cnt)
	d.avg = value.Float(mean)
	d.deviation = value.Float(dev)
	d.result = value.Float(math.Sqrt(dev / cnt))
}

func bitwise(op func(a, b value.Value) value.Value) Func {
	return func(d *Data, v value.Value) {
		if d.result.IsBadNull() || v.IsAbnormal() {
			return
		}
		if !v.IsInt() {
			d.result = value.BadType()
			return
		}
		if d.result.IsNull() {
			d.result = v
			return
		}
		d.result = op(d.result, v)
	}
}

func collect(d *Data, v value.Value) {
	if d.result.IsNull() {
		d.result = value.ListOf()
	}
	if v.IsAbnormal() {
		return
	}
	l := d.result.AsList()
	l.Values = append(l.Values, v)
}

func collectSet(d *Data, v value.Value) {
	if d.result.IsNull() {
		d.result = value.FromSet(value.NewSet())
	}
	if v.IsAbnormal() {
		return
	}
	d.result.AsSet().Add(v)
}
