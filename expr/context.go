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
	"github.com/SnellerInc/graphexpr/aggregate"
	"github.com/SnellerInc/graphexpr/value"
)

// Context supplies the runtime bindings an
// expression is evaluated against.
//
// Lookups of names that are not bound return
// value.Empty. SetVar is also used as scratch
// space by the comprehension nodes and by
// increment/decrement of a variable, so a
// Context must not be shared between goroutines
// that evaluate concurrently.
type Context interface {
	Var(name string) value.Value
	// VersionedVar returns a past binding of a
	// variable. Version 0 is the latest binding
	// and negative versions count backwards
	// from it; positive versions count forwards
	// from the oldest binding, which is version 1.
	VersionedVar(name string, version int64) value.Value
	SetVar(name string, v value.Value)
	TagProp(tag, prop string) value.Value
	EdgeProp(edge, prop string) value.Value
	InputProp(prop string) value.Value
	VarProp(variable, prop string) value.Value
	SrcProp(tag, prop string) value.Value
	DstProp(tag, prop string) value.Value
	Column(index int) value.Value
	Vertex(name string) value.Value
	Edge() value.Value
}

// AggContext is implemented by contexts that
// bind accumulator state to aggregate nodes.
type AggContext interface {
	Context
	// AggData returns the accumulator bound to a,
	// or nil if there is none.
	AggData(a *Aggregate) *aggregate.Data
}

// Props is a two-level property table: the
// outer key names a tag, an edge or a variable,
// the inner key names a property.
type Props map[string]map[string]value.Value

func (p Props) get(owner, prop string) value.Value {
	if v, ok := p[owner][prop]; ok {
		return v
	}
	return value.Empty
}

// MapContext is an in-memory Context.
// The zero value is an empty context.
type MapContext struct {
	// Vars holds the variable history,
	// oldest binding first.
	Vars     map[string][]value.Value
	Inputs   map[string]value.Value
	Tags     Props
	Edges    Props
	VarProps Props
	Src      Props
	Dst      Props
	Columns  []value.Value
	Vertices map[string]value.Value
	CurEdge  value.Value
	Aggs     map[*Aggregate]*aggregate.Data
}

var _ AggContext = (*MapContext)(nil)

func (m *MapContext) Var(name string) value.Value {
	h := m.Vars[name]
	if len(h) == 0 {
		return value.Empty
	}
	return h[len(h)-1]
}

func (m *MapContext) VersionedVar(name string, version int64) value.Value {
	h := m.Vars[name]
	i := int64(len(h)) - 1 + version
	if version > 0 {
		i = version - 1
	}
	if i < 0 || i >= int64(len(h)) {
		return value.Empty
	}
	return h[i]
}

// SetVar replaces the latest binding of name.
func (m *MapContext) SetVar(name string, v value.Value) {
	if m.Vars == nil {
		m.Vars = make(map[string][]value.Value)
	}
	h := m.Vars[name]
	if len(h) == 0 {
		m.Vars[name] = []value.Value{v}
		return
	}
	h[len(h)-1] = v
}

// PushVar appends a new binding to the history of name.
func (m *MapContext) PushVar(name string, v value.Value) {
	if m.Vars == nil {
		m.Vars = make(map[string][]value.Value)
	}
	m.Vars[name] = append(m.Vars[name], v)
}

func (m *MapContext) TagProp(tag, prop string) value.Value {
	return m.Tags.get(tag, prop)
}

func (m *MapContext) EdgeProp(edge, prop string) value.Value {
	return m.Edges.get(edge, prop)
}

func (m *MapContext) InputProp(prop string) value.Value {
	if v, ok := m.Inputs[prop]; ok {
		return v
	}
	return value.Empty
}

func (m *MapContext) VarProp(variable, prop string) value.Value {
	return m.VarProps.get(variable, prop)
}

func (m *MapContext) SrcProp(tag, prop string) value.Value {
	return m.Src.get(tag, prop)
}

func (m *MapContext) DstProp(tag, prop string) value.Value {
	return m.Dst.get(tag, prop)
}

func (m *MapContext) Column(index int) value.Value {
	if index < 0 {
		index += len(m.Columns)
	}
	if index < 0 || index >= len(m.Columns) {
		return value.NullOf(value.NullOutOfRange)
	}
	return m.Columns[index]
}

func (m *MapContext) Vertex(name string) value.Value {
	if v, ok := m.Vertices[name]; ok {
		return v
	}
	return value.Empty
}

func (m *MapContext) Edge() value.Value {
	return m.CurEdge
}

func (m *MapContext) AggData(a *Aggregate) *aggregate.Data {
	return m.Aggs[a]
}

// Bind binds d as the accumulator of a.
func (m *MapContext) Bind(a *Aggregate, d *aggregate.Data) {
	if m.Aggs == nil {
		m.Aggs = make(map[*Aggregate]*aggregate.Data)
	}
	m.Aggs[a] = d
}
