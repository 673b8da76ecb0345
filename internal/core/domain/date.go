package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unknown marks a month or day component that is not known.
const Unknown = -1

const (
	MinYear = 1
	MaxYear = 9999
)

// PartialDate is a calendar date whose month and day may be unknown.
//
// Ordering favours specificity: at equal year a date carrying a month is
// older than one without, and likewise for the day. Less is not a strict
// weak order when exactly one side lacks a component, so PartialDate values
// are only ever folded pairwise into a running minimum, never sorted.
type PartialDate struct {
	year  int
	month int
	day   int
}

// NewDate builds a PartialDate. The year is clamped into [MinYear, MaxYear].
// Pass Unknown for a missing month or day; any other out of range value is
// replaced with 1 and still counts as known.
func NewDate(year, month, day int) PartialDate {
	year = min(max(year, MinYear), MaxYear)
	if month != Unknown && (month < 1 || month > 12) {
		month = 1
	}
	if day != Unknown && (day < 1 || day > 31) {
		day = 1
	}
	return PartialDate{year: year, month: month, day: day}
}

// YearOnly returns a PartialDate with unknown month and day.
func YearOnly(year int) PartialDate {
	return NewDate(year, Unknown, Unknown)
}

// DateOf returns a fully specified PartialDate for t.
func DateOf(t time.Time) PartialDate {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local date with full precision.
func Today() PartialDate {
	return DateOf(time.Now())
}

// ParseDate parses an ISO-like date such as "1977", "1977-05", "1977-05-24"
// or "1977-??-24". Hyphens are ignored. Month and day segments that are not
// integers are left unknown; a missing or malformed year is a ParseError.
func ParseDate(s string) (PartialDate, error) {
	compact := strings.ReplaceAll(s, "-", "")
	if len(compact) < 4 {
		return PartialDate{}, &ParseError{Value: s, Reason: "missing year"}
	}

	year, err := strconv.Atoi(compact[:4])
	if err != nil {
		return PartialDate{}, &ParseError{Value: s, Reason: "invalid year"}
	}

	month, day := Unknown, Unknown
	if len(compact) >= 6 {
		if m, err := strconv.Atoi(compact[4:6]); err == nil {
			month = m
		}
	}
	if len(compact) >= 8 {
		if d, err := strconv.Atoi(compact[6:8]); err == nil {
			day = d
		}
	}

	return NewDate(year, month, day), nil
}

// Year returns the year.
func (d PartialDate) Year() int { return d.year }

// Month returns the month and whether it is known.
func (d PartialDate) Month() (int, bool) { return d.month, d.month != Unknown }

// Day returns the day and whether it is known.
func (d PartialDate) Day() (int, bool) { return d.day, d.day != Unknown }

// IsZero reports whether d was never initialised.
func (d PartialDate) IsZero() bool { return d.year == 0 }

// Time returns a concrete date for display, defaulting unknown components
// to 1. It plays no part in comparisons.
func (d PartialDate) Time() time.Time {
	month, day := d.month, d.day
	if month == Unknown {
		month = 1
	}
	if day == Unknown {
		day = 1
	}
	return time.Date(d.year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Less reports whether d is older than other. At equal year the side with
// more specific information wins unless the known components disagree.
func (d PartialDate) Less(other PartialDate) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month == Unknown {
		return false
	}
	if other.month == Unknown {
		return true
	}
	if d.month != other.month {
		return d.month < other.month
	}
	if d.day == Unknown {
		return false
	}
	if other.day == Unknown {
		return true
	}
	return d.day < other.day
}

// Equal reports whether d and other denote the same date. When both sides
// carry a month and a day only the days are compared.
func (d PartialDate) Equal(other PartialDate) bool {
	if d.year != other.year {
		return false
	}
	if d.month != Unknown && other.month != Unknown &&
		d.day != Unknown && other.day != Unknown {
		return d.day == other.day
	}
	return d.month == other.month
}

// String renders the known components, e.g. "1977", "1977-05",
// "1977-05-24" or "1977-??-24".
func (d PartialDate) String() string {
	switch {
	case d.month == Unknown && d.day == Unknown:
		return fmt.Sprintf("%04d", d.year)
	case d.day == Unknown:
		return fmt.Sprintf("%04d-%02d", d.year, d.month)
	case d.month == Unknown:
		return fmt.Sprintf("%04d-??-%02d", d.year, d.day)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
	}
}
