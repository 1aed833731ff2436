package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/cli"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// translationKeys lists every key the code asks for.
func translationKeys() []string {
	keys := []string{
		config.TKeyWelcome,
		config.TKeyGoodbye,
		config.TKeyPrompt,
		config.TKeyHello,
		config.TKeyHelp,
		config.TKeyInvalidCommand,
		config.TKeyContactAdded,
		config.TKeyContactUpdated,
		config.TKeyPhonesAdded,
		config.TKeyPhoneRemoved,
		config.TKeyPhoneChanged,
		config.TKeyNoPhones,
		config.TKeyEmailAdded,
		config.TKeyEmailChanged,
		config.TKeyEmailRemoved,
		config.TKeyBirthdayAdded,
		config.TKeyNoBirthday,
		config.TKeyRemoved,
		config.TKeyNoUpcoming,
		config.TKeyNoRecords,
		config.TKeyImported,
		config.TKeyExported,
		config.TKeyCalendarSaved,
		config.TKeyServing,
		config.TKeyBirthdaysToday,
		config.TKeyServeStopped,
		config.TKeyServeFailed,
		config.TKeyAlreadyServing,
		config.TKeyColName,
		config.TKeyColPhones,
		config.TKeyColEmail,
		config.TKeyColBirthday,
		config.TKeyColWeekday,
		config.TKeyEvtSummary,
		config.TKeyEvtSummaryAge,
		config.TKeyErrUsage,
		config.TKeyErrInvalidName,
		config.TKeyErrInvalidPhone,
		config.TKeyErrInvalidEmail,
		config.TKeyErrInvalidBirthday,
		config.TKeyErrNotFound,
		config.TKeyErrPhoneNotFound,
		config.TKeyErrDuplicate,
		config.TKeyErrInternal,
		config.TKeyErrIO,
	}
	return append(keys, config.WeekdayKeys[:]...)
}

// TestI18nIntegrity ensures every key exists in every locale file, and that
// the locale files do not drift apart.
func TestI18nIntegrity(t *testing.T) {
	keys := translationKeys()
	var reference map[string]any

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "Must load locale file")

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for _, k := range keys {
				_, exists := jsonMap[k]
				assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", k, lang)
			}

			if reference == nil {
				reference = jsonMap
				return
			}
			for k := range jsonMap {
				_, exists := reference[k]
				assert.Truef(t, exists, "Key '%s' of active.%s.json is absent from the first locale", k, lang)
			}
		})
	}
}

func TestTranslator_LoadsEmbeddedLanguages(t *testing.T) {
	tr := cli.NewTranslator(config.DefaultLanguage)
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages)
}

func TestTranslator_Msg(t *testing.T) {
	tr := cli.NewTranslator("en")

	assert.Equal(t, "Imported 3 contact(s), skipped 1.", tr.Msg(config.TKeyImported, map[string]any{"Added": 3, "Skipped": 1}))
	assert.Equal(t, "no_such_key", tr.Msg("no_such_key", nil), "Unknown keys are returned verbatim")

	tr.SetLanguage("uk")
	assert.Equal(t, "До побачення!", tr.Msg(config.TKeyGoodbye, nil))

	tr.SetLanguage("")
	assert.Equal(t, "Good bye!", tr.Msg(config.TKeyGoodbye, nil), "Empty language selects the default")
}

func TestTranslator_UnsupportedLanguageFallsBack(t *testing.T) {
	tr := cli.NewTranslator("fr")
	assert.Equal(t, "How can I help you?", tr.Msg(config.TKeyHello, nil))
}

func TestTranslator_Weekday(t *testing.T) {
	en := cli.NewTranslator("en")
	uk := cli.NewTranslator("uk")

	assert.Equal(t, "Monday", en.Weekday(time.Monday))
	assert.Equal(t, "Sunday", en.Weekday(time.Sunday))
	assert.Equal(t, "Понеділок", uk.Weekday(time.Monday))

	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.False(t, strings.HasPrefix(uk.Weekday(d), "weekday_"), "weekday %d untranslated", d)
	}
}

func TestTranslator_Summary(t *testing.T) {
	tr := cli.NewTranslator("en")

	assert.Equal(t, "Birthday: Alice (30)", tr.Summary("Alice", 30))
	assert.Equal(t, "Birthday: Alice", tr.Summary("Alice", 0))

	tr.SetLanguage("uk")
	assert.Equal(t, "День народження: Олена (1)", tr.Summary("Олена", 1))
}
