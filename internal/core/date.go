package core

import (
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// ISODate is a calendar date in YYYY-MM-DD form as exchanged with the
// backend. Lexicographic order equals chronological order.
type ISODate string

func NewISODate(t time.Time) ISODate {
	return ISODate(t.Format(isoLayout))
}

func (d ISODate) String() string { return string(d) }

func (d ISODate) IsEmpty() bool { return strings.TrimSpace(string(d)) == "" }

func (d ISODate) Time() (time.Time, error) {
	return time.Parse(isoLayout, string(d))
}

// DayMonth cuts "DD/MM" out of the date string without parsing it.
// Anything not shaped like YYYY-MM-DD is returned unchanged.
func (d ISODate) DayMonth() string {
	parts := strings.Split(string(d), "-")
	if len(parts) != 3 {
		return string(d)
	}
	return parts[2] + "/" + parts[1]
}

// InRange reports whether d lies in the inclusive range [from, to];
// an empty bound is open.
func (d ISODate) InRange(from, to ISODate) bool {
	if !from.IsEmpty() && d < from {
		return false
	}
	if !to.IsEmpty() && d > to {
		return false
	}
	return true
}
