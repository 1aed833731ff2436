package cli

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-addressbook/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves translation keys for one language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// Languages lists the codes found in the embedded locale files.
	Languages []string
}

// NewTranslator loads every embedded locale and selects lang,
// falling back to English for missing keys.
func NewTranslator(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return tr
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		tr.Languages = append(tr.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	tr.SetLanguage(lang)
	return tr
}

// SetLanguage switches the active language. An empty code selects the default.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(t.bundle, lang, config.DefaultLanguage)
}

// Msg translates key with optional template data.
// Unknown keys are returned verbatim so a missing entry never hides output.
func (t *Translator) Msg(key string, data map[string]any) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Weekday returns the localized name of d.
func (t *Translator) Weekday(d time.Weekday) string {
	return t.Msg(config.WeekdayKeys[d], nil)
}

// Summary renders a calendar event title. Age zero is the year of birth.
func (t *Translator) Summary(name string, age int) string {
	if age > 0 {
		return t.Msg(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
	}
	return t.Msg(config.TKeyEvtSummary, map[string]any{"Name": name})
}
