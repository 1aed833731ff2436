package addressbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
)

func newBook(t *testing.T, names ...string) *addressbook.AddressBook {
	t.Helper()
	b := addressbook.New()
	for _, n := range names {
		require.NoError(t, b.Add(addressbook.NewRecord(mustName(t, n))))
	}
	return b
}

func recordNames(rs []*addressbook.Record) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Name().String())
	}
	return out
}

func TestAddressBook_FindIsCaseInsensitive(t *testing.T) {
	b := newBook(t, "Alice", "Олена")

	r, ok := b.Find("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice", r.Name().String())

	_, ok = b.Find("ALICE")
	assert.True(t, ok)

	_, ok = b.Find("олена")
	assert.True(t, ok, "Case folding must cover non-ASCII names")

	_, ok = b.Find("Alic")
	assert.False(t, ok, "Only exact matches count")
}

func TestAddressBook_AddRejectsDuplicateNames(t *testing.T) {
	b := newBook(t, "Alice")

	err := b.Add(addressbook.NewRecord(mustName(t, "ALICE")))
	assert.ErrorIs(t, err, addressbook.ErrDuplicateName)
	assert.Equal(t, 1, b.Len())
}

func TestAddressBook_RecordsKeepInsertionOrder(t *testing.T) {
	b := newBook(t, "Zed", "Amy", "Mia")
	assert.Equal(t, []string{"Zed", "Amy", "Mia"}, recordNames(b.Records()))

	snapshot := b.Records()
	snapshot[0] = nil
	assert.Equal(t, "Zed", b.Records()[0].Name().String(), "Records must return a copy of the slice")
}

func TestAddressBook_Delete(t *testing.T) {
	b := newBook(t, "Zed", "Amy", "Mia")

	assert.True(t, b.Delete("amy"))
	assert.Equal(t, []string{"Zed", "Mia"}, recordNames(b.Records()))
	_, ok := b.Find("Amy")
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		assert.False(t, b.Delete("Nobody"), "Deleting an absent name is a no-op")
	})
	assert.Equal(t, 2, b.Len())

	// The name is free again after deletion.
	require.NoError(t, b.Add(addressbook.NewRecord(mustName(t, "Amy"))))
	assert.Equal(t, []string{"Zed", "Mia", "Amy"}, recordNames(b.Records()))
}

func TestNotFound(t *testing.T) {
	err := addressbook.NotFound("ghost")
	assert.ErrorIs(t, err, addressbook.ErrRecordNotFound)
	assert.Contains(t, err.Error(), "ghost")
}
