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

// Package ints provides int-related common functions.
package ints

import (
	"golang.org/x/exp/constraints"
)

// Min returns the smaller value of x and y
func Min[T constraints.Integer](x, y T) T {
	if x <= y {
		return x
	}
	return y
}

// Max returns the greater value of x and y
func Max[T constraints.Integer](x, y T) T {
	if x >= y {
		return x
	}
	return y
}

// Clamp returns x if it is in [lo, hi]. Otherwise, the nearest bounding value is returned
func Clamp[T constraints.Integer](x, lo, hi T) T {
	return Max(lo, Min(x, hi))
}

// Index resolves a possibly negative index
// against a sequence of length n. Negative
// indices count from the end. The result is
// not bounds-checked.
func Index[T constraints.Signed](i, n T) T {
	if i < 0 {
		return i + n
	}
	return i
}

// Window resolves the half-open range [lo, hi)
// against a sequence of length n: negative bounds
// count from the end, and both bounds are clamped
// to [0, n]. When lo >= hi the window is empty and
// ok is false.
func Window[T constraints.Signed](lo, hi, n T) (start, end T, ok bool) {
	start = Clamp(Index(lo, n), 0, n)
	end = Clamp(Index(hi, n), 0, n)
	return start, end, start < end
}
