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

package value

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// List is an ordered sequence of values.
type List struct {
	Values []Value
}

// Len returns the number of items in l.
func (l *List) Len() int { return len(l.Values) }

// Contains returns whether some item of l is
// structurally equal to v.
func (l *List) Contains(v Value) bool {
	for i := range l.Values {
		if Equals(l.Values[i], v) {
			return true
		}
	}
	return false
}

func (l *List) text(dst *strings.Builder) {
	dst.WriteByte('[')
	for i := range l.Values {
		if i > 0 {
			dst.WriteString(", ")
		}
		l.Values[i].text(dst)
	}
	dst.WriteByte(']')
}

// Set is a collection of values that remembers
// insertion order. Membership uses Identical, so
// FLOATs that are only within Epsilon of a member
// are kept as distinct members.
type Set struct {
	vals  []Value
	index map[uint64][]int
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{index: make(map[uint64][]int)}
}

func (s *Set) find(v Value, h uint64) bool {
	for _, i := range s.index[h] {
		if Identical(s.vals[i], v) {
			return true
		}
	}
	return false
}

// Add inserts v and reports whether
// it was not already present.
func (s *Set) Add(v Value) bool {
	if s.index == nil {
		s.index = make(map[uint64][]int)
	}
	h := Hash(v)
	if s.find(v, h) {
		return false
	}
	s.index[h] = append(s.index[h], len(s.vals))
	s.vals = append(s.vals, v)
	return true
}

// Contains returns whether v is a member of s.
func (s *Set) Contains(v Value) bool {
	return s.find(v, Hash(v))
}

// Len returns the number of members of s.
func (s *Set) Len() int { return len(s.vals) }

// Values returns the members of s in insertion order.
// The returned slice must not be modified.
func (s *Set) Values() []Value { return s.vals }

// Clone returns a copy of s that does not
// share storage with it.
func (s *Set) Clone() *Set {
	out := &Set{
		vals:  slices.Clone(s.vals),
		index: make(map[uint64][]int, len(s.index)),
	}
	for h, idx := range s.index {
		out.index[h] = slices.Clone(idx)
	}
	return out
}

func (s *Set) text(dst *strings.Builder) {
	dst.WriteByte('{')
	for i := range s.vals {
		if i > 0 {
			dst.WriteString(", ")
		}
		s.vals[i].text(dst)
	}
	dst.WriteByte('}')
}

// Map is a string-keyed dictionary of values.
type Map struct {
	kvs map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{kvs: make(map[string]Value)}
}

// Get returns the value bound to key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.kvs[key]
	return v, ok
}

// Set binds key to v.
func (m *Map) Set(key string, v Value) {
	if m.kvs == nil {
		m.kvs = make(map[string]Value)
	}
	m.kvs[key] = v
}

// Len returns the number of keys in m.
func (m *Map) Len() int { return len(m.kvs) }

// Keys returns the keys of m in sorted order.
func (m *Map) Keys() []string {
	return sortedKeys(m.kvs)
}

func (m *Map) text(dst *strings.Builder) {
	props(dst, m.kvs)
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func props(dst *strings.Builder, m map[string]Value) {
	dst.WriteByte('{')
	for i, k := range sortedKeys(m) {
		if i > 0 {
			dst.WriteString(", ")
		}
		dst.WriteString(k)
		dst.WriteString(": ")
		m[k].text(dst)
	}
	dst.WriteByte('}')
}

// Tag is one labelled group of vertex properties.
type Tag struct {
	Name  string
	Props map[string]Value
}

// Vertex is a graph vertex.
type Vertex struct {
	Vid  Value
	Tags []Tag
}

// Prop returns the named property from the
// first tag of v that defines it.
func (v *Vertex) Prop(name string) (Value, bool) {
	for i := range v.Tags {
		if p, ok := v.Tags[i].Props[name]; ok {
			return p, true
		}
	}
	return Value{}, false
}

// TagProp returns the named property of the named tag.
func (v *Vertex) TagProp(tag, name string) (Value, bool) {
	for i := range v.Tags {
		if v.Tags[i].Name == tag {
			p, ok := v.Tags[i].Props[name]
			return p, ok
		}
	}
	return Value{}, false
}

func (v *Vertex) text(dst *strings.Builder) {
	dst.WriteByte('(')
	v.Vid.text(dst)
	for i := range v.Tags {
		dst.WriteString(" :")
		dst.WriteString(v.Tags[i].Name)
		props(dst, v.Tags[i].Props)
	}
	dst.WriteByte(')')
}

// Edge is a directed graph edge. A negative Type
// denotes the reverse direction of the edge type -Type.
type Edge struct {
	Src, Dst Value
	Type     int32
	Name     string
	Ranking  int64
	Props    map[string]Value
}

// Prop returns the named edge property.
func (e *Edge) Prop(name string) (Value, bool) {
	p, ok := e.Props[name]
	return p, ok
}

func (e *Edge) text(dst *strings.Builder) {
	dst.WriteByte('(')
	e.Src.text(dst)
	dst.WriteString(")-[")
	dst.WriteString(e.Name)
	dst.WriteByte('(')
	dst.WriteString(strconv.Itoa(int(e.Type)))
	dst.WriteString(")]->(")
	e.Dst.text(dst)
	dst.WriteString(")@")
	dst.WriteString(strconv.FormatInt(e.Ranking, 10))
	if len(e.Props) > 0 {
		dst.WriteByte(' ')
		props(dst, e.Props)
	}
}

// Step is one hop of a Path.
type Step struct {
	Dst     Vertex
	Type    int32
	Name    string
	Ranking int64
	Props   map[string]Value
}

// Path is a walk through the graph starting at Src.
type Path struct {
	Src   Vertex
	Steps []Step
}

// Last returns the final vertex of p.
func (p *Path) Last() *Vertex {
	if len(p.Steps) == 0 {
		return &p.Src
	}
	return &p.Steps[len(p.Steps)-1].Dst
}

// Extend appends the hop described by e to p.
// It reports false if e does not start at the
// final vertex of p.
func (p *Path) Extend(e *Edge) bool {
	if !Equals(p.Last().Vid, e.Src) {
		return false
	}
	p.Steps = append(p.Steps, Step{
		Dst:     Vertex{Vid: e.Dst},
		Type:    e.Type,
		Name:    e.Name,
		Ranking: e.Ranking,
		Props:   e.Props,
	})
	return true
}

// Concat appends the steps of q to p. It reports
// false if q does not start where p ends.
func (p *Path) Concat(q *Path) bool {
	if !Equals(p.Last().Vid, q.Src.Vid) {
		return false
	}
	p.Steps = append(p.Steps, q.Steps...)
	return true
}

// Clone returns a copy of p that shares
// no steps with the original.
func (p *Path) Clone() *Path {
	return &Path{Src: p.Src, Steps: slices.Clone(p.Steps)}
}

func (p *Path) text(dst *strings.Builder) {
	p.Src.text(dst)
	for i := range p.Steps {
		s := &p.Steps[i]
		dst.WriteString("-[")
		dst.WriteString(s.Name)
		dst.WriteByte('(')
		dst.WriteString(strconv.Itoa(int(s.Type)))
		dst.WriteString(")]->")
		s.Dst.text(dst)
	}
}

// DataSet is a table of rows.
type DataSet struct {
	ColNames []string
	Rows     [][]Value
}

func (d *DataSet) text(dst *strings.Builder) {
	dst.WriteString(strings.Join(d.ColNames, "|"))
	for _, row := range d.Rows {
		dst.WriteByte('\n')
		for i := range row {
			if i > 0 {
				dst.WriteByte('|')
			}
			row[i].text(dst)
		}
	}
}
