// Package daymonitor detects calendar-day transitions against a stored marker.
package daymonitor

import (
	"time"
)

// DateLayout is the calendar-day marker format.
const DateLayout = "2006-01-02"

// Transition describes a detected day change.
type Transition struct {
	From       string
	To         string
	DaysPassed int
}

// Detector compares a stored last-processed date with the current day in a fixed location.
type Detector struct {
	loc *time.Location
}

func NewDetector(loc *time.Location) Detector {
	if loc == nil {
		loc = time.Local
	}
	return Detector{loc: loc}
}

// Today formats now as a calendar day in the detector's location.
func (d Detector) Today(now time.Time) string {
	return now.In(d.location()).Format(DateLayout)
}

// Detect reports the transition from last to the day containing now.
//
// marker is the value the caller must store afterwards. An empty or
// unparsable last only initialises the marker. A clock that moved backwards
// keeps the old marker so the same transition is not replayed later.
func (d Detector) Detect(last string, now time.Time) (tr Transition, marker string, changed bool) {
	today := d.Today(now)
	if last == "" || last == today {
		return Transition{}, today, false
	}

	from, err := time.ParseInLocation(DateLayout, last, d.location())
	if err != nil {
		return Transition{}, today, false
	}
	to, _ := time.ParseInLocation(DateLayout, today, d.location())
	days := DaysBetween(from, to)
	if days <= 0 {
		return Transition{}, last, false
	}
	return Transition{From: last, To: today, DaysPassed: days}, today, true
}

// DaysBetween counts calendar days from a to b, ignoring time of day and DST.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func (d Detector) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}
