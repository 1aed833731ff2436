package addressbook

import (
	"time"
)

// UpcomingWindowDays is how far ahead UpcomingBirthdays looks, today included.
const UpcomingWindowDays = 7

// Upcoming groups records by the weekday on which their birthday is celebrated.
type Upcoming map[time.Weekday][]*Record

// Len counts the records across all weekdays.
func (u Upcoming) Len() int {
	n := 0
	for _, rs := range u {
		n += len(rs)
	}
	return n
}

// Weekdays lists the non-empty weekdays in calendar order starting at from.
func (u Upcoming) Weekdays(from time.Weekday) []time.Weekday {
	var days []time.Weekday
	for i := range 7 {
		d := (from + time.Weekday(i)) % 7
		if len(u[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

// UpcomingBirthdays returns the records whose next birthday falls within
// UpcomingWindowDays of today. Only the calendar date of today is used.
// Birthdays landing on a weekend are listed under Monday.
func (b *AddressBook) UpcomingBirthdays(today time.Time) Upcoming {
	start := dateOf(today)
	out := make(Upcoming)

	for _, r := range b.records {
		bday, ok := r.Birthday()
		if !ok {
			continue
		}
		next, _ := NextOccurrence(start, bday)
		if daysBetween(start, next) > UpcomingWindowDays {
			continue
		}
		day := next.Weekday()
		if day == time.Saturday || day == time.Sunday {
			day = time.Monday
		}
		out[day] = append(out[day], r)
	}
	return out
}

// NextOccurrence returns the first anniversary of b on or after today's date,
// and the age turned on that day, or zero when the year of birth is unknown.
// A 29 February birthday falls on 1 March in non-leap years, which is how
// time.Date normalizes it.
func NextOccurrence(today time.Time, b Birthday) (time.Time, int) {
	start := dateOf(today)
	born := b.Date()

	candidate := time.Date(start.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(start) {
		candidate = time.Date(start.Year()+1, born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	}
	if !b.HasYear() {
		return candidate, 0
	}
	return candidate, candidate.Year() - born.Year()
}

// dateOf drops the clock and zone of t, keeping its local calendar date.
// Working in UTC keeps day arithmetic free of DST shifts.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
