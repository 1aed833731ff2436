// Package addressbook holds the in-memory contact model: validated fields,
// records, the ordered book and the upcoming-birthdays query.
//
// Nothing here is safe for concurrent use; the book is owned by a single
// command loop.
package addressbook

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// AddressBook keeps records in insertion order and indexes them by case-folded name.
type AddressBook struct {
	records []*Record
	byName  map[string]*Record
}

func New() *AddressBook {
	return &AddressBook{byName: make(map[string]*Record)}
}

// nameKey folds case so that lookups ignore it, including for non-ASCII names.
func nameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Add appends r. A record whose name differs only by case is rejected with DuplicateName.
func (b *AddressBook) Add(r *Record) error {
	key := nameKey(r.Name().String())
	if _, exists := b.byName[key]; exists {
		return newError(DuplicateName, r.Name().String())
	}
	b.records = append(b.records, r)
	b.byName[key] = r
	return nil
}

// Find looks a record up by name, ignoring case. It never fails.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.byName[nameKey(name)]
	return r, ok
}

// Delete removes the record found by name and reports whether one was removed.
func (b *AddressBook) Delete(name string) bool {
	key := nameKey(name)
	r, ok := b.byName[key]
	if !ok {
		return false
	}
	delete(b.byName, key)
	b.records = slices.DeleteFunc(b.records, func(x *Record) bool { return x == r })
	return true
}

// Records returns the records in insertion order. The slice is a copy; the
// records are not.
func (b *AddressBook) Records() []*Record {
	return slices.Clone(b.records)
}

func (b *AddressBook) Len() int { return len(b.records) }
