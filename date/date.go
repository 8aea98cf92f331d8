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

// Package date implements the calendar scalars
// (Date, Time and DateTime) carried by graph values.
package date

import (
	"strings"
	"time"
)

// Date is a calendar date without a time zone.
type Date struct {
	year  int16
	month uint8
	day   uint8
}

// NewDate constructs a Date from components.
// Out-of-range months and days are normalized,
// so NewDate(2020, 1, 32) is February 1st.
func NewDate(year, month, day int) Date {
	year, month, day = normdate(year, month, day)
	return Date{year: int16(year), month: uint8(month), day: uint8(day)}
}

// Today returns the current UTC date.
func Today() Date {
	return Now().Date()
}

// Year returns the year component of d.
func (d Date) Year() int { return int(d.year) }

// Month returns the month component of d.
func (d Date) Month() int { return int(d.month) }

// Day returns the day component of d.
func (d Date) Day() int { return int(d.day) }

// Days returns the number of days
// between the Unix epoch and d.
func (d Date) Days() int64 {
	t := time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, time.UTC)
	return t.Unix() / 86400
}

// FromDays is the inverse of Date.Days.
func FromDays(n int64) Date {
	t := time.Unix(n*86400, 0).UTC()
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int64) Date {
	return FromDays(d.Days() + n)
}

// Compare returns -1, 0, or +1 depending on
// whether d is before, equal to, or after d2.
func (d Date) Compare(d2 Date) int {
	a := int(d.year)<<16 | int(d.month)<<8 | int(d.day)
	b := int(d2.year)<<16 | int(d2.month)<<8 | int(d2.day)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Field returns the named component of d.
// Names are matched case-insensitively; the
// accepted names are year, month and day.
func (d Date) Field(name string) (int64, bool) {
	switch strings.ToLower(name) {
	case "year":
		return int64(d.year), true
	case "month":
		return int64(d.month), true
	case "day":
		return int64(d.day), true
	}
	return 0, false
}

// Append appends d formatted as YYYY-MM-DD to b.
func (d Date) Append(b []byte) []byte {
	b = appendInt(b, d.Year(), 4)
	b = append(b, '-')
	b = appendInt(b, d.Month(), 2)
	b = append(b, '-')
	return appendInt(b, d.Day(), 2)
}

func (d Date) String() string {
	return string(d.Append(make([]byte, 0, len("0000-00-00"))))
}

// Time is a time of day with microsecond precision.
type Time struct {
	hour, minute, sec uint8
	us                uint32
}

// NewTime constructs a Time from components.
// Overflowing components carry into the next
// larger unit and the hour wraps at 24.
func NewTime(hour, min, sec, us int) Time {
	sec, us = norm(sec, us, 1e6)
	min, sec = norm(min, sec, 60)
	hour, min = norm(hour, min, 60)
	_, hour = norm(0, hour, 24)
	return Time{hour: uint8(hour), minute: uint8(min), sec: uint8(sec), us: uint32(us)}
}

// Hour returns the hour component of t.
func (t Time) Hour() int { return int(t.hour) }

// Minute returns the minute component of t.
func (t Time) Minute() int { return int(t.minute) }

// Second returns the second component of t.
func (t Time) Second() int { return int(t.sec) }

// Microsecond returns the microsecond component of t.
func (t Time) Microsecond() int { return int(t.us) }

// Micros returns the number of microseconds since midnight.
func (t Time) Micros() int64 {
	return ((int64(t.hour)*60+int64(t.minute))*60+int64(t.sec))*1e6 + int64(t.us)
}

// Compare returns -1, 0, or +1 depending on
// whether t is before, equal to, or after t2.
func (t Time) Compare(t2 Time) int {
	a, b := t.Micros(), t2.Micros()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Field returns the named component of t.
// The accepted names are hour, minute, second,
// millisecond and microsecond.
func (t Time) Field(name string) (int64, bool) {
	switch strings.ToLower(name) {
	case "hour":
		return int64(t.hour), true
	case "minute":
		return int64(t.minute), true
	case "second":
		return int64(t.sec), true
	case "millisecond":
		return int64(t.us / 1000), true
	case "microsecond":
		return int64(t.us), true
	}
	return 0, false
}

// Append appends t formatted as HH:MM:SS.ffffff to b.
func (t Time) Append(b []byte) []byte {
	b = appendInt(b, t.Hour(), 2)
	b = append(b, ':')
	b = appendInt(b, t.Minute(), 2)
	b = append(b, ':')
	b = appendInt(b, t.Second(), 2)
	b = append(b, '.')
	return appendInt(b, t.Microsecond(), 6)
}

func (t Time) String() string {
	return string(t.Append(make([]byte, 0, len("00:00:00.000000"))))
}
