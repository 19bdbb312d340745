package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every settings environment variable, e.g. CAREERDASH_BACKEND.
const EnvPrefix = "CAREERDASH"

// Backend names.
const (
	BackendJSONPlaceholder = "jsonplaceholder"
	BackendGoogleTasks     = "googletasks"
)

// ErrInvalidSettings is returned when settings cannot be read or fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the tunable application settings.
type Settings struct {
	// Backend selects the remote task store.
	Backend string `mapstructure:"backend" validate:"required,oneof=jsonplaceholder googletasks"`

	// BaseURL overrides the jsonplaceholder endpoint.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// TaskList is the Google Tasks list ID.
	TaskList string `mapstructure:"task_list" validate:"required"`

	ListLimit int           `mapstructure:"list_limit" validate:"gte=1,lte=100"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Workers   int           `mapstructure:"workers" validate:"gte=1,lte=64"`
	LogLevel  string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Listen is the address the serve command binds.
	Listen string `mapstructure:"listen" validate:"required,hostname_port"`
}

var defaults = map[string]any{
	"backend":    BackendJSONPlaceholder,
	"base_url":   "",
	"task_list":  "@default",
	"list_limit": 5,
	"timeout":    5 * time.Second,
	"workers":    4,
	"log_level":  "warn",
	"listen":     "127.0.0.1:8080",
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Backend:   defaults["backend"].(string),
		TaskList:  defaults["task_list"].(string),
		ListLimit: defaults["list_limit"].(int),
		Timeout:   defaults["timeout"].(time.Duration),
		Workers:   defaults["workers"].(int),
		LogLevel:  defaults["log_level"].(string),
		Listen:    defaults["listen"].(string),
	}
}

// LoadSettings reads settings from the YAML file at path, if it exists, and
// from CAREERDASH_* environment variables, which take precedence.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidSettings, path, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "warning" {
		s.LogLevel = "warn"
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings against their constraints.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
