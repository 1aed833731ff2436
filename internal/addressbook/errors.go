package addressbook

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the failures the address book can report.
// The command layer switches on it to pick a user-facing message.
type ErrorKind int

const (
	InvalidName ErrorKind = iota + 1
	InvalidPhoneFormat
	InvalidEmailFormat
	InvalidBirthdayFormat
	RecordNotFound
	PhoneNotFound
	DuplicateName
)

var kindNames = map[ErrorKind]string{
	InvalidName:           "invalid name",
	InvalidPhoneFormat:    "invalid phone format",
	InvalidEmailFormat:    "invalid email format",
	InvalidBirthdayFormat: "invalid birthday format",
	RecordNotFound:        "record not found",
	PhoneNotFound:         "phone not found",
	DuplicateName:         "duplicate name",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is the concrete error value returned by this package.
// Value carries the offending input as the caller supplied it.
type Error struct {
	Kind  ErrorKind
	Value string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Value)
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidName           = &Error{Kind: InvalidName}
	ErrInvalidPhoneFormat    = &Error{Kind: InvalidPhoneFormat}
	ErrInvalidEmailFormat    = &Error{Kind: InvalidEmailFormat}
	ErrInvalidBirthdayFormat = &Error{Kind: InvalidBirthdayFormat}
	ErrRecordNotFound        = &Error{Kind: RecordNotFound}
	ErrPhoneNotFound         = &Error{Kind: PhoneNotFound}
	ErrDuplicateName         = &Error{Kind: DuplicateName}
)

func newError(kind ErrorKind, value string) *Error {
	return &Error{Kind: kind, Value: value}
}

// NotFound builds a RecordNotFound error for the given lookup name.
// Find itself never fails; callers that require a hit use this.
func NotFound(name string) error {
	return newError(RecordNotFound, name)
}

// KindOf extracts the ErrorKind from err, reporting false for foreign errors.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
