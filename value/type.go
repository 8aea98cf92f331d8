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

// Package value implements the dynamically typed
// values that graph expressions produce and consume,
// together with the operators that implement their
// three-valued logic.
package value

import (
	"strings"
)

// Type is a bit flag identifying the type of a Value.
// Unions of types are expressed by or-ing flags together.
type Type uint32

const (
	EmptyType Type = 1 << iota
	BoolType
	IntType
	FloatType
	StringType
	DateType
	TimeType
	DateTimeType
	VertexType
	EdgeType
	PathType
	ListType
	MapType
	SetType
	DataSetType
	NullType

	// NumericType is the union of the numeric types.
	NumericType = IntType | FloatType
	// AnyType is the union of every type.
	AnyType = NullType<<1 - 1
)

var typeNames = []struct {
	t    Type
	name string
}{
	{EmptyType, "__EMPTY__"},
	{BoolType, "BOOL"},
	{IntType, "INT"},
	{FloatType, "FLOAT"},
	{StringType, "STRING"},
	{DateType, "DATE"},
	{TimeType, "TIME"},
	{DateTimeType, "DATETIME"},
	{VertexType, "VERTEX"},
	{EdgeType, "EDGE"},
	{PathType, "PATH"},
	{ListType, "LIST"},
	{MapType, "MAP"},
	{SetType, "SET"},
	{DataSetType, "DATASET"},
	{NullType, "NULL"},
}

// String returns the name of a single type, or the
// names of every type in a union joined by '|'.
func (t Type) String() string {
	var parts []string
	for i := range typeNames {
		if t&typeNames[i].t != 0 {
			if t == typeNames[i].t {
				return typeNames[i].name
			}
			parts = append(parts, typeNames[i].name)
		}
	}
	if len(parts) == 0 {
		return "__UNKNOWN__"
	}
	return strings.Join(parts, "|")
}

// ParseType returns the type with the given name.
// Names are matched case-insensitively.
func ParseType(name string) (Type, bool) {
	for i := range typeNames {
		if strings.EqualFold(typeNames[i].name, name) {
			return typeNames[i].t, true
		}
	}
	return 0, false
}

// Superior returns whether t is NULL or EMPTY.
// Superior types unify with every other type
// during type deduction.
func (t Type) Superior() bool {
	return t == NullType || t == EmptyType
}

// NullKind distinguishes the flavors of NULL.
type NullKind uint8

const (
	// NullNormal is the ordinary NULL.
	NullNormal NullKind = iota
	NullNaN
	NullBadData
	NullBadType
	NullOverflow
	NullUnknownProp
	NullDivByZero
	NullOutOfRange
)

func (k NullKind) String() string {
	switch k {
	case NullNormal:
		return "NULL"
	case NullNaN:
		return "__NULL_NaN__"
	case NullBadData:
		return "__NULL_BAD_DATA__"
	case NullBadType:
		return "__NULL_BAD_TYPE__"
	case NullOverflow:
		return "__NULL_OVERFLOW__"
	case NullUnknownProp:
		return "__NULL_UNKNOWN_PROP__"
	case NullDivByZero:
		return "__NULL_DIV_BY_ZERO__"
	case NullOutOfRange:
		return "__NULL_OUT_OF_RANGE__"
	}
	return "__NULL_UNKNOWN__"
}
