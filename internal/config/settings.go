package config

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Settings holds the user-tunable runtime options.
// Every field can come from the YAML file and be overridden by its env variable.
type Settings struct {
	// Language selects the console translation (see SupportedLanguages).
	Language string `yaml:"language" env:"ADDRESSBOOK_LANG" env-default:"en" validate:"required,oneof=en uk"`

	// ServerPort is the port used by the serve command when none is given.
	ServerPort int `yaml:"server_port" env:"ADDRESSBOOK_PORT" env-default:"18080" validate:"min=1,max=65535"`

	// ReminderTrigger is an ISO8601 duration for calendar alarms; empty disables them.
	ReminderTrigger string `yaml:"reminder_trigger" env:"ADDRESSBOOK_REMINDER" env-default:"-P1D" validate:"omitempty,startswith=-P|startswith=P"`

	// WebUser is the HTTP Basic Auth user for URL imports. The password lives in the OS keyring.
	WebUser string `yaml:"web_user" env:"ADDRESSBOOK_WEB_USER"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSettings reads path (YAML) when given, applies env overrides and defaults, then validates.
func LoadSettings(path string) (*Settings, error) {
	var s Settings
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &s)
	} else {
		err = cleanenv.ReadEnv(&s)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	slog.Debug(MsgSettings,
		LogKeyComponent, CompConfig,
		LogKeyLang, s.Language,
		LogKeyPort, s.ServerPort,
	)
	return &s, nil
}

// Validate checks the struct tags above.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsValid, err)
	}
	return nil
}
