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
	"time"
)

// A DateTime represents a date and a time of day
// with a microsecond component, in UTC.
// The calendar fields are packed into a single
// word so that extracting a component is a shift
// and a mask, and so that two DateTimes order the
// same way their packed words do.
//
// This representation cannot store years below 0 or
// above 16,383. Years falling outside that range will
// be truncated to fit within that range.
type DateTime struct {
	ts uint64
	us uint32
}

// NewDateTime constructs a DateTime from components.
// Values of month, day, hour, min, sec, and us outside
// their usual ranges will be normalized.
func NewDateTime(year, month, day, hour, min, sec, us int) DateTime {
	sec, us = norm(sec, us, 1e6)
	min, sec = norm(min, sec, 60)
	hour, min = norm(hour, min, 60)
	day, hour = norm(day, hour, 24)
	year, month, day = normdate(year, month, day)
	return pack(year, month, day, hour, min, sec, us)
}

func pack(year, month, day, hour, min, sec, us int) DateTime {
	if year < 0 {
		year = 0
	} else if year > (1<<14)-1 {
		year = (1 << 14) - 1
	}
	ts := (uint64(year) & 0xffff << 40) |
		(uint64(month-1) & 0xff << 32) |
		(uint64(day-1) & 0xff << 24) |
		(uint64(hour) & 0xff << 16) |
		(uint64(min) & 0xff << 8) |
		(uint64(sec) & 0xff)
	return DateTime{ts: ts, us: uint32(us)}
}

// FromTime returns a DateTime equivalent to t,
// truncated to microseconds.
func FromTime(t time.Time) DateTime {
	t = t.UTC()
	return pack(t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000)
}

// Now returns the current time.
func Now() DateTime {
	return FromTime(time.Now())
}

// Combine joins a date and a time of day.
func Combine(d Date, t Time) DateTime {
	return pack(d.Year(), d.Month(), d.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Microsecond())
}

// Time returns dt as a time.Time.
func (dt DateTime) Time() time.Time {
	return time.Date(dt.Year(), time.Month(dt.Month()), dt.Day(),
		dt.Hour(), dt.Minute(), dt.Second(), int(dt.us)*1000, time.UTC)
}

// Date returns the calendar part of dt.
func (dt DateTime) Date() Date {
	return Date{year: int16(dt.Year()), month: uint8(dt.Month()), day: uint8(dt.Day())}
}

// Clock returns the time-of-day part of dt.
func (dt DateTime) Clock() Time {
	return Time{hour: uint8(dt.Hour()), minute: uint8(dt.Minute()), sec: uint8(dt.Second()), us: dt.us}
}

// Year returns the year component of dt.
func (dt DateTime) Year() int {
	return int(dt.ts & 0xffff0000000000 >> 40)
}

// Month returns the month component of dt.
func (dt DateTime) Month() int {
	return int(dt.ts&0xff00000000>>32) + 1
}

// Day returns the day component of dt.
func (dt DateTime) Day() int {
	return int(dt.ts&0xff000000>>24) + 1
}

// Hour returns the hour component of dt.
func (dt DateTime) Hour() int {
	return int(dt.ts & 0xff0000 >> 16)
}

// Minute returns the minute component of dt.
func (dt DateTime) Minute() int {
	return int(dt.ts & 0xff00 >> 8)
}

// Second returns the second component of dt.
func (dt DateTime) Second() int {
	return int(dt.ts & 0xff)
}

// Microsecond returns the microsecond component of dt.
func (dt DateTime) Microsecond() int {
	return int(dt.us)
}

// Unix returns dt as the number of seconds since the
// Unix epoch.
func (dt DateTime) Unix() int64 {
	return dt.Time().Unix()
}

// UnixMicro returns dt as the number of microseconds
// since the Unix epoch.
func (dt DateTime) UnixMicro() int64 {
	return dt.Time().UnixMicro()
}

// Compare returns -1, 0, or +1 depending on
// whether dt is before, equal to, or after dt2.
func (dt DateTime) Compare(dt2 DateTime) int {
	switch {
	case dt.Before(dt2):
		return -1
	case dt2.Before(dt):
		return 1
	}
	return 0
}

// Before returns whether dt is before dt2.
func (dt DateTime) Before(dt2 DateTime) bool {
	return dt.ts < dt2.ts || (dt.ts == dt2.ts && dt.us < dt2.us)
}

// After returns whether dt is after dt2.
func (dt DateTime) After(dt2 DateTime) bool {
	return dt2.Before(dt)
}

// Field returns the named component of dt.
// See Date.Field for the accepted names.
func (dt DateTime) Field(name string) (int64, bool) {
	if v, ok := dt.Date().Field(name); ok {
		return v, true
	}
	return dt.Clock().Field(name)
}

// Append appends dt formatted as
// YYYY-MM-DDTHH:MM:SS.ffffff to b.
func (dt DateTime) Append(b []byte) []byte {
	b = dt.Date().Append(b)
	b = append(b, 'T')
	return dt.Clock().Append(b)
}

// String implements fmt.Stringer.
func (dt DateTime) String() string {
	return string(dt.Append(make([]byte, 0, len("0000-00-00T00:00:00.000000"))))
}

var monthdays = [12]int{
	31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31,
}

func daysin(y, m int) int {
	d := monthdays[m-1]
	if m == 2 && isleap(y) {
		d++
	}
	return d
}

func normdate(y, m, d int) (year, month, day int) {
	y, m = norm(y, m-1, 12)
	m++
	md := daysin(y, m)
	if d >= 1 && d <= md {
		return y, m, d
	}
	for d < 1 {
		if m--; m < 1 {
			y, m = y-1, 12
		}
		md = daysin(y, m)
		d += md
	}
	for ; d > md; md = daysin(y, m) {
		d -= md
		if m++; m > 12 {
			y, m = y+1, 1
		}
	}
	return y, m, d
}
