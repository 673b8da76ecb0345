package domain

import "time"

// Track is a library item. Zero date components are unset.
type Track struct {
	ID             string    `db:"id"`
	RecordingID    string    `db:"recording_id"`
	Artist         string    `db:"artist"`
	Title          string    `db:"title"`
	Year           int       `db:"year"`
	Month          int       `db:"month"`
	Day            int       `db:"day"`
	RecordingYear  int       `db:"recording_year"`
	RecordingMonth int       `db:"recording_month"`
	RecordingDay   int       `db:"recording_day"`
	RunID          string    `db:"run_id"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// EmbeddedDate returns the date stored on the track itself, if any.
func (t *Track) EmbeddedDate() (PartialDate, bool) {
	if t.Year == 0 {
		return PartialDate{}, false
	}
	month, day := Unknown, Unknown
	if t.Month != 0 {
		month = t.Month
		if t.Day != 0 {
			day = t.Day
		}
	}
	return NewDate(t.Year, month, day), true
}

// RecordingDate returns the previously resolved date, if any.
func (t *Track) RecordingDate() (PartialDate, bool) {
	if t.RecordingYear == 0 {
		return PartialDate{}, false
	}
	month, day := Unknown, Unknown
	if t.RecordingMonth != 0 {
		month = t.RecordingMonth
	}
	if t.RecordingDay != 0 {
		day = t.RecordingDay
	}
	return NewDate(t.RecordingYear, month, day), true
}
