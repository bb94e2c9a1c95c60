package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/lifecycle"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Forms    FormsConfig       `yaml:"forms"`
	Caption  CaptionConfig     `yaml:"caption"`
	Plugin   PluginConfig      `yaml:"plugin"`
	Throttle ThrottleConfig    `yaml:"throttle"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Forms.Validate(); err != nil {
		return fmt.Errorf("forms: %w", err)
	}
	if err := c.Caption.Validate(); err != nil {
		return fmt.Errorf("caption: %w", err)
	}
	if err := c.Plugin.Validate(); err != nil {
		return fmt.Errorf("plugin: %w", err)
	}
	return c.Throttle.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"FIGCAPTION_LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" env:"FIGCAPTION_HTTP_PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"FIGCAPTION_SQLITE_PATH"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how API users are identified:
//   - "disabled" (also when empty): every request is anonymous and can only read.
//   - "token": requests carry "Authorization: Bearer <user token>".
type AuthConfig struct {
	Mode string `yaml:"mode" env:"FIGCAPTION_AUTH_MODE"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	)
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// FormsConfig configures the edit form anti-forgery tokens.
type FormsConfig struct {
	Secret   string        `yaml:"secret" env:"FIGCAPTION_FORM_SECRET"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"FIGCAPTION_FORM_TOKEN_TTL"`
}

// Validate validates the forms configuration.
func (c *FormsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Secret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
	)
}

// CaptionConfig configures caption storage and display.
type CaptionConfig struct {
	MetaKey  string `yaml:"meta_key" env:"FIGCAPTION_META_KEY"`
	CSSClass string `yaml:"css_class" env:"FIGCAPTION_CSS_CLASS"`
}

// Validate validates the caption configuration.
func (c *CaptionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MetaKey, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.CSSClass, validation.Required),
	)
}

// PluginConfig carries version bookkeeping for the lifecycle hooks.
type PluginConfig struct {
	Version        string `yaml:"version"`
	MinHostVersion string `yaml:"min_host_version"`
	HostVersion    string `yaml:"host_version" env:"FIGCAPTION_HOST_VERSION"`
}

// Validate validates the plugin configuration.
func (c *PluginConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.MinHostVersion, validation.Required),
		validation.Field(&c.HostVersion, validation.Required),
	)
}

// ThrottleConfig limits caption saves per user. Zero disables the limit.
type ThrottleConfig struct {
	SavesPerMinute int `yaml:"saves_per_minute" env:"FIGCAPTION_SAVES_PER_MINUTE"`
}

// Validate validates the throttle configuration.
func (c *ThrottleConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SavesPerMinute, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
// Forms.Secret has no default and must be configured.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./figcaption.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeToken,
		},
		Forms: FormsConfig{
			TokenTTL: 24 * time.Hour,
		},
		Caption: CaptionConfig{
			MetaKey:  caption.DefaultMetaKey,
			CSSClass: caption.DefaultClass,
		},
		Plugin: PluginConfig{
			Version:        lifecycle.DefaultVersion,
			MinHostVersion: lifecycle.DefaultMinHostVersion,
			HostVersion:    "6.0",
		},
		Throttle: ThrottleConfig{
			SavesPerMinute: 30,
		},
	}
}
