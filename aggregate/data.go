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

// Package aggregate implements the aggregate
// functions used by GROUP BY: the accumulator
// state kept per group, the registry of built-in
// accumulation steps, and a table that keys
// accumulators by aggregate and group.
package aggregate

import (
	"github.com/SnellerInc/graphexpr/value"
)

// Data is the accumulator state of one aggregate
// function for one group. The running result starts
// out NULL; the remaining fields are scratch space
// for the functions that need it.
//
// A Data must not be shared between groups, and
// must not be updated by two goroutines at once.
type Data struct {
	result    value.Value
	sum       value.Value
	cnt       value.Value
	avg       value.Value
	deviation value.Value
	uniques   *value.Set
}

// NewData returns a fresh accumulator.
func NewData() *Data {
	return &Data{result: value.Null}
}

// Result returns the running result.
func (d *Data) Result() value.Value { return d.result }

// SetResult replaces the running result.
func (d *Data) SetResult(v value.Value) { d.result = v }

func (d *Data) Sum() value.Value           { return d.sum }
func (d *Data) SetSum(v value.Value)       { d.sum = v }
func (d *Data) Cnt() value.Value           { return d.cnt }
func (d *Data) SetCnt(v value.Value)       { d.cnt = v }
func (d *Data) Avg() value.Value           { return d.avg }
func (d *Data) SetAvg(v value.Value)       { d.avg = v }
func (d *Data) Deviation() value.Value     { return d.deviation }
func (d *Data) SetDeviation(v value.Value) { d.deviation = v }

// Uniques returns the set of inputs already
// seen by a DISTINCT aggregate.
func (d *Data) Uniques() *value.Set {
	if d.uniques == nil {
		d.uniques = value.NewSet()
	}
	return d.uniques
}
