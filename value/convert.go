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
	"errors"
	"math"
	"strconv"
	"strings"
)

// ToBool converts v to a BOOL. Strings convert
// when they spell true or false in any case.
func (v Value) ToBool() Value {
	switch v.Type() {
	case EmptyType, NullType:
		return Null
	case BoolType:
		return v
	case StringType:
		switch strings.ToLower(v.s) {
		case "true":
			return True
		case "false":
			return False
		}
		return Null
	}
	return BadType()
}

// ToFloat converts v to a FLOAT.
// Unparseable strings convert to NULL.
func (v Value) ToFloat() Value {
	switch v.Type() {
	case EmptyType, NullType:
		return Null
	case IntType:
		return Float(float64(v.i))
	case FloatType:
		return v
	case StringType:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Null
		}
		return Float(f)
	}
	return BadType()
}

// ToInt converts v to an INT. Floats are truncated
// and clamped to the INT range. Strings containing
// a '.' are parsed as floats and then truncated;
// other strings must be decimal integers, and
// integers out of range convert to an overflow.
func (v Value) ToInt() Value {
	switch v.Type() {
	case EmptyType, NullType:
		return Null
	case IntType:
		return v
	case FloatType:
		return Int(clampFloat(v.f))
	case StringType:
		if strings.IndexByte(v.s, '.') >= 0 {
			f, err := strconv.ParseFloat(v.s, 64)
			if err != nil {
				return Null
			}
			return Int(clampFloat(f))
		}
		i, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return overflow()
			}
			return Null
		}
		return Int(i)
	}
	return BadType()
}

func clampFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= math.MinInt64:
		return math.MinInt64
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(f)
}

// ToString converts v to a STRING holding
// its canonical text; strings are unchanged.
func (v Value) ToString() Value {
	switch v.Type() {
	case EmptyType, NullType:
		return Null
	case StringType:
		return v
	}
	return String(v.String())
}

// ToType converts v to the named scalar type,
// returning a type error for other targets.
func (v Value) ToType(t Type) Value {
	switch t {
	case BoolType:
		return v.ToBool()
	case IntType:
		return v.ToInt()
	case FloatType:
		return v.ToFloat()
	case StringType:
		return v.ToString()
	}
	return BadType()
}
