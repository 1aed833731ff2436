package addressbook

import (
	"fmt"
	"strings"
)

// Record is one contact. The name is fixed at creation; everything else is
// mutated in place by the methods below.
type Record struct {
	name     Name
	phones   []Phone
	email    *Email
	birthday *Birthday
}

func NewRecord(name Name) *Record {
	return &Record{name: name}
}

func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// AddPhone appends p. Duplicates are kept.
func (r *Record) AddPhone(p Phone) {
	r.phones = append(r.phones, p)
}

// HasPhone reports whether a phone with the same number is present.
func (r *Record) HasPhone(p Phone) bool {
	return r.indexOfPhone(p.String()) >= 0
}

// RemovePhone drops every phone equal to p and returns how many were removed.
func (r *Record) RemovePhone(p Phone) int {
	kept := r.phones[:0]
	for _, existing := range r.phones {
		if existing.value != p.value {
			kept = append(kept, existing)
		}
	}
	removed := len(r.phones) - len(kept)
	clear(r.phones[len(kept):])
	r.phones = kept
	return removed
}

// EditPhone replaces the first phone equal to old with newRaw.
// It fails with PhoneNotFound or InvalidPhoneFormat and then changes nothing.
func (r *Record) EditPhone(old, newRaw string) error {
	i := r.indexOfPhone(old)
	if i < 0 {
		return newError(PhoneNotFound, old)
	}
	return r.phones[i].Update(newRaw)
}

func (r *Record) indexOfPhone(number string) int {
	for i, p := range r.phones {
		if p.value == number {
			return i
		}
	}
	return -1
}

func (r *Record) Email() (Email, bool) {
	if r.email == nil {
		return Email{}, false
	}
	return *r.email, true
}

func (r *Record) SetEmail(e Email) { r.email = &e }

func (r *Record) ClearEmail() { r.email = nil }

func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

func (r *Record) SetBirthday(b Birthday) { r.birthday = &b }

func (r *Record) String() string {
	numbers := make([]string, len(r.phones))
	for i, p := range r.phones {
		numbers[i] = p.value
	}
	return fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(numbers, "; "))
}
