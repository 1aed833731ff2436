package cli

import (
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// webPassword fetches the Basic Auth password for user from the OS keyring.
// A missing entry yields an empty password.
func webPassword(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return ""
	}
	return p
}
