package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// errExitCalled is a sentinel used to catch kong's exit calls in tests.
var errExitCalled = errors.New("exit called")

func TestParseFlags_Version(t *testing.T) {
	var buf bytes.Buffer

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic from --version flag")
		err, ok := r.(error)
		if !ok || !errors.Is(err, errExitCalled) {
			panic(r)
		}
		assert.Contains(t, buf.String(), config.Version)
	}()

	_, _ = parseFlags([]string{"--version"}, &buf, &buf, func(int) { panic(errExitCalled) })
}

func TestParseFlags(t *testing.T) {
	var buf bytes.Buffer
	exit := func(int) { panic(errExitCalled) }

	flags, err := parseFlags([]string{"--debug", "--lang", "uk", "--config", "settings.yaml", "--today", "2024-06-10"}, &buf, &buf, exit)
	require.NoError(t, err)
	assert.True(t, flags.Debug)
	assert.Equal(t, "uk", flags.Lang)
	assert.Equal(t, "settings.yaml", flags.Config)
	assert.Equal(t, "2024-06-10", flags.Today)

	flags, err = parseFlags(nil, &buf, &buf, exit)
	require.NoError(t, err)
	assert.False(t, flags.Debug)
	assert.Empty(t, flags.Lang)

	_, err = parseFlags([]string{"--colour"}, &buf, &buf, exit)
	assert.Error(t, err)
}

func TestNewClock(t *testing.T) {
	c, err := newClock("")
	require.NoError(t, err)
	assert.IsType(t, engine.RealClock{}, c)

	c, err = newClock("2024-06-10")
	require.NoError(t, err)
	y, m, d := c.Now().Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
	assert.Equal(t, 10, d)

	_, err = newClock("10.06.2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrDateParse)
}

func TestRun_Session(t *testing.T) {
	var out bytes.Buffer
	script := strings.Join([]string{
		"add Alice 0501234567",
		"add-birthday Alice 15.06.1990",
		"birthdays",
		"exit",
	}, "\n")

	err := run(context.Background(), &Flags{Today: "2024-06-10"}, strings.NewReader(script), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Monday")
	assert.Contains(t, out.String(), "Alice")
}

func TestRun_LanguageFlag(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), &Flags{Lang: "uk"}, strings.NewReader("exit\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "До побачення!")
}

func TestRun_InvalidInputs(t *testing.T) {
	dir := t.TempDir()
	badSettings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(badSettings, []byte("language: fr\n"), config.FilePermUserRW))

	tests := []struct {
		name    string
		flags   Flags
		wantErr string
	}{
		{"UnknownLanguage", Flags{Lang: "fr"}, config.ErrSettingsValid},
		{"BadToday", Flags{Today: "tomorrow"}, config.ErrDateParse},
		{"MissingSettingsFile", Flags{Config: filepath.Join(dir, "missing.yaml")}, config.ErrSettingsLoad},
		{"InvalidSettingsFile", Flags{Config: badSettings}, config.ErrSettingsValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), &tt.flags, strings.NewReader(""), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
