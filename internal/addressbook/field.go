package addressbook

import (
	"regexp"
	"strings"
	"time"
)

// BirthdayLayout is the accepted input and display form of a Birthday (DD.MM.YYYY).
const BirthdayLayout = "02.01.2006"

// BirthdayLayoutNoYear displays a Birthday whose year is not known (DD.MM).
const BirthdayLayoutNoYear = "02.01"

// placeholderYear holds year-less birthdays. It is a leap year so 29 February stays valid.
const placeholderYear = 2000

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._]+@[a-z]+\.[a-z]{2,3}$`)
)

// Name is the display name of a contact and its lookup key.
type Name struct {
	value string
}

// NewName trims surrounding whitespace and rejects blank input.
func NewName(raw string) (Name, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Name{}, newError(InvalidName, raw)
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// Phone is a ten digit phone number.
type Phone struct {
	value string
}

func NewPhone(raw string) (Phone, error) {
	if err := validatePhone(raw); err != nil {
		return Phone{}, err
	}
	return Phone{value: raw}, nil
}

// Update replaces the number in place. The old value is kept if raw is invalid.
func (p *Phone) Update(raw string) error {
	if err := validatePhone(raw); err != nil {
		return err
	}
	p.value = raw
	return nil
}

func (p Phone) String() string { return p.value }

func validatePhone(raw string) error {
	if !phonePattern.MatchString(raw) {
		return newError(InvalidPhoneFormat, raw)
	}
	return nil
}

// Email is a lowercase address of the form local@domain.tld.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	if !emailPattern.MatchString(raw) {
		return Email{}, newError(InvalidEmailFormat, raw)
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

// Birthday is a calendar date without a time component, stored as midnight UTC.
// Birthdays imported without a year carry only a day and month.
type Birthday struct {
	date   time.Time
	noYear bool
}

// NewBirthday parses raw strictly as DD.MM.YYYY.
func NewBirthday(raw string) (Birthday, error) {
	t, err := time.Parse(BirthdayLayout, raw)
	if err != nil {
		return Birthday{}, newError(InvalidBirthdayFormat, raw)
	}
	return Birthday{date: t}, nil
}

// BirthdayFromDate keeps only the calendar date of t, as seen in t's location.
func BirthdayFromDate(t time.Time) Birthday {
	y, m, d := t.Date()
	return Birthday{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// BirthdayWithoutYear records a day and month whose year is not known.
func BirthdayWithoutYear(month time.Month, day int) Birthday {
	return Birthday{date: time.Date(placeholderYear, month, day, 0, 0, 0, 0, time.UTC), noYear: true}
}

// Date returns the birth date at midnight UTC. The year is a placeholder
// when HasYear is false.
func (b Birthday) Date() time.Time { return b.date }

// HasYear reports whether the year of birth is known.
func (b Birthday) HasYear() bool { return !b.noYear }

func (b Birthday) String() string {
	if b.noYear {
		return b.date.Format(BirthdayLayoutNoYear)
	}
	return b.date.Format(BirthdayLayout)
}
