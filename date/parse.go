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

package date

import (
	"strings"
)

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, bool) {
	d, rest, ok := parseDate(strings.TrimSpace(s))
	if !ok || rest != "" {
		return Date{}, false
	}
	return d, true
}

// ParseTime parses HH:MM, HH:MM:SS or HH:MM:SS.fraction.
// Fractions longer than six digits are truncated
// to microseconds.
func ParseTime(s string) (Time, bool) {
	t, rest, ok := parseClock(strings.TrimSpace(s))
	if !ok || rest != "" {
		return Time{}, false
	}
	return t, true
}

// ParseDateTime parses a date and a time of day
// separated by 'T' or a single space. A trailing 'Z'
// is accepted; other offsets are not.
func ParseDateTime(s string) (DateTime, bool) {
	s = strings.TrimSpace(s)
	d, rest, ok := parseDate(s)
	if !ok {
		return DateTime{}, false
	}
	if rest == "" {
		return Combine(d, Time{}), true
	}
	if rest[0] != 'T' && rest[0] != 't' && rest[0] != ' ' {
		return DateTime{}, false
	}
	t, rest, ok := parseClock(rest[1:])
	if !ok {
		return DateTime{}, false
	}
	if rest == "Z" || rest == "z" {
		rest = ""
	}
	if rest != "" {
		return DateTime{}, false
	}
	return Combine(d, t), true
}

func parseDate(s string) (Date, string, bool) {
	year, s, ok := digits(s, 4)
	if !ok || !skip(&s, '-') {
		return Date{}, s, false
	}
	month, s, ok := digits(s, 2)
	if !ok || month < 1 || month > 12 || !skip(&s, '-') {
		return Date{}, s, false
	}
	day, s, ok := digits(s, 2)
	if !ok || day < 1 || day > daysin(year, month) {
		return Date{}, s, false
	}
	return Date{year: int16(year), month: uint8(month), day: uint8(day)}, s, true
}

func parseClock(s string) (Time, string, bool) {
	hour, s, ok := digits(s, 2)
	if !ok || hour > 23 || !skip(&s, ':') {
		return Time{}, s, false
	}
	min, s, ok := digits(s, 2)
	if !ok || min > 59 {
		return Time{}, s, false
	}
	sec, us := 0, 0
	if skip(&s, ':') {
		sec, s, ok = digits(s, 2)
		if !ok || sec > 59 {
			return Time{}, s, false
		}
		if skip(&s, '.') {
			n := 0
			for n < len(s) && s[n] >= '0' && s[n] <= '9' {
				n++
			}
			if n == 0 {
				return Time{}, s, false
			}
			frac := s[:n]
			s = s[n:]
			for i := 0; i < 6; i++ {
				us *= 10
				if i < len(frac) {
					us += int(frac[i] - '0')
				}
			}
		}
	}
	return Time{hour: uint8(hour), minute: uint8(min), sec: uint8(sec), us: uint32(us)}, s, true
}

func digits(s string, n int) (int, string, bool) {
	if len(s) < n {
		return 0, s, false
	}
	v := 0
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, s, false
		}
		v = v*10 + int(c-'0')
	}
	return v, s[n:], true
}

func skip(s *string, c byte) bool {
	if len(*s) == 0 || (*s)[0] != c {
		return false
	}
	*s = (*s)[1:]
	return true
}
