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
	"encoding/binary"

	"github.com/SnellerInc/graphexpr/value"

	"github.com/cespare/xxhash/v2"
)

type slot struct {
	node int
	key  []value.Value
	data *Data
}

// Groups holds the accumulators of a GROUP BY:
// one Data per (aggregate node, group key) pair.
// The zero value is ready to use.
type Groups struct {
	index map[uint64][]int
	slots []slot
	buf   []byte
}

func (g *Groups) hash(node int, key []value.Value) uint64 {
	g.buf = binary.LittleEndian.AppendUint64(g.buf[:0], uint64(node))
	for i := range key {
		g.buf = value.AppendHashKey(g.buf, key[i])
	}
	return xxhash.Sum64(g.buf)
}

func sameKey(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !value.Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Get returns the accumulator for node and key,
// creating it on first use. The key slice is
// retained and must not be modified afterwards.
func (g *Groups) Get(node int, key []value.Value) *Data {
	if g.index == nil {
		g.index = make(map[uint64][]int)
	}
	h := g.hash(node, key)
	for _, i := range g.index[h] {
		s := &g.slots[i]
		if s.node == node && sameKey(s.key, key) {
			return s.data
		}
	}
	d := NewData()
	g.index[h] = append(g.index[h], len(g.slots))
	g.slots = append(g.slots, slot{node: node, key: key, data: d})
	return d
}

// Len returns the number of accumulators.
func (g *Groups) Len() int { return len(g.slots) }

// Each calls fn for every accumulator
// in the order they were created.
func (g *Groups) Each(fn func(node int, key []value.Value, d *Data)) {
	for i := range g.slots {
		s := &g.slots[i]
		fn(s.node, s.key, s.data)
	}
}

// Reset discards every accumulator.
func (g *Groups) Reset() {
	g.index = nil
	g.slots = g.slots[:0]
}
