package engine

import (
	"time"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
)

// BirthdayEntry is a display-ready view of one contact's next birthday.
type BirthdayEntry struct {
	Name string

	// DateOfBirth is the birth date at midnight UTC.
	DateOfBirth time.Time

	// YearKnown is false for birthdays imported as a bare day and month.
	YearKnown bool

	// NextOccurrence is the date the birthday is next celebrated, today included.
	NextOccurrence time.Time

	// AgeNext is the age the person will turn at NextOccurrence, or zero
	// when the year is not known.
	AgeNext int
}

// NewBirthdayEntry projects r's birthday relative to today.
// It reports false for records without a birthday.
func NewBirthdayEntry(r *addressbook.Record, today time.Time) (BirthdayEntry, bool) {
	bday, ok := r.Birthday()
	if !ok {
		return BirthdayEntry{}, false
	}
	next, age := addressbook.NextOccurrence(today, bday)
	return BirthdayEntry{
		Name:           r.Name().String(),
		DateOfBirth:    bday.Date(),
		YearKnown:      bday.HasYear(),
		NextOccurrence: next,
		AgeNext:        age,
	}, true
}

// IsToday reports whether the entry's next occurrence is on today's calendar date.
func (e BirthdayEntry) IsToday(today time.Time) bool {
	y, m, d := today.Date()
	return e.NextOccurrence.Equal(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
