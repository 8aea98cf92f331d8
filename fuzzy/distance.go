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

// Package fuzzy finds near matches for
// misspelled identifiers.
package fuzzy

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

// Distance returns the true Damerau-Levenshtein
// distance between a and b, counted in runes.
// It is safe for concurrent use.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	switch {
	case len(ra) == 0:
		return len(rb)
	case len(rb) == 0:
		return len(ra)
	}
	w := len(rb) + 2
	m := make([]int, (len(ra)+2)*w)
	at := func(i, j int) *int { return &m[i*w+j] }

	inf := len(ra) + len(rb) + 1
	*at(0, 0) = inf
	for i := 0; i <= len(ra); i++ {
		*at(i+1, 1) = i
		*at(i+1, 0) = inf
	}
	for j := 0; j <= len(rb); j++ {
		*at(1, j+1) = j
		*at(0, j+1) = inf
	}
	// last row at which each rune was seen in a
	da := make(map[rune]int)
	for i := 1; i <= len(ra); i++ {
		db := 0
		for j := 1; j <= len(rb); j++ {
			i1 := da[rb[j-1]]
			j1 := db
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
				db = j
			}
			*at(i+1, j+1) = min(
				*at(i, j)+cost,
				*at(i+1, j)+1,
				*at(i, j+1)+1,
				*at(i1, j1)+(i-i1-1)+1+(j-j1-1),
			)
		}
		da[ra[i-1]] = i
	}
	return *at(len(ra)+1, len(rb)+1)
}

// Closest returns the candidate nearest to name,
// comparing case-insensitively. Candidates further
// than maxDist edits away are ignored; ties go to
// the lexically smaller candidate.
func Closest(name string, candidates []string, maxDist int) (string, bool) {
	name = strings.ToLower(name)
	best, dist := "", maxDist+1
	for _, c := range candidates {
		// the distance is at least the length difference
		if abs(utf8.RuneCountInString(c)-utf8.RuneCountInString(name)) > maxDist {
			continue
		}
		d := Distance(name, strings.ToLower(c))
		if d < dist || (d == dist && c < best) {
			best, dist = c, d
		}
	}
	return best, dist <= maxDist
}

// Ranked returns every candidate within maxDist
// edits of name, nearest first.
func Ranked(name string, candidates []string, maxDist int) []string {
	type hit struct {
		name string
		dist int
	}
	var hits []hit
	lname := strings.ToLower(name)
	for _, c := range candidates {
		if d := Distance(lname, strings.ToLower(c)); d <= maxDist {
			hits = append(hits, hit{c, d})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})
	out := make([]string, len(hits))
	for i := range hits {
		out[i] = hits[i].name
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
