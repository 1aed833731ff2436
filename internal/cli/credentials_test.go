package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

func TestWebPassword(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, "olena", "secret"))

	assert.Equal(t, "secret", webPassword("olena"))
	assert.Empty(t, webPassword("petro"), "Missing entries yield an empty password")
	assert.Empty(t, webPassword(""), "No user, no lookup")
}
