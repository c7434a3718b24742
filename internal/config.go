package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kanboard/internal/board"
	"github.com/starford/kanboard/internal/models"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app" toml:"app"`
	Board  BoardConfig       `yaml:"board" toml:"board"`
	Index  IndexConfig       `yaml:"index" toml:"index"`
	Reload ReloadConfig      `yaml:"reload" toml:"reload"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Board.Validate(); err != nil {
		return err
	}
	return c.Index.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
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

// BoardConfig holds the notice timings and the initial board.
//
// A nil Seed starts the board with the built-in sample cards; an explicit
// empty seed (`seed: {}`) starts it empty.
type BoardConfig struct {
	Notice NoticeConfig `yaml:"notice" toml:"notice"`
	Seed   models.Board `yaml:"seed" toml:"seed"`
}

// Validate validates the board configuration.
func (c *BoardConfig) Validate() error {
	if err := c.Notice.Validate(); err != nil {
		return err
	}
	if err := board.ValidateSeed(c.Seed); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// SeedBoard returns the configured seed, or the built-in sample board.
func (c *BoardConfig) SeedBoard() models.Board {
	if c.Seed == nil {
		return board.DefaultSeed()
	}
	return c.Seed
}

// NoticeConfig holds how long each kind of notice stays visible.
type NoticeConfig struct {
	ValidationTTL time.Duration `yaml:"validation_ttl" toml:"validation_ttl"`
	SuccessTTL    time.Duration `yaml:"success_ttl" toml:"success_ttl"`
}

// Validate validates the notice configuration.
func (c *NoticeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ValidationTTL, validation.Required, validation.Min(10*time.Millisecond)),
		validation.Field(&c.SuccessTTL, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// IndexConfig holds the search index configuration.
type IndexConfig struct {
	// Path is the SQLite DSN. The default ":memory:" keeps the index in
	// process; it is rebuilt from the board on every start either way.
	Path string `yaml:"path" toml:"path"`
	// EventsThrottle is the minimum gap between board.updated SSE events.
	EventsThrottle time.Duration `yaml:"events_throttle" toml:"events_throttle"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.EventsThrottle, validation.Min(time.Duration(0))),
	)
}

// ReloadConfig controls hot reloading of the config file.
type ReloadConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Board: BoardConfig{
			Notice: NoticeConfig{
				ValidationTTL: board.DefaultValidationTTL,
				SuccessTTL:    board.DefaultSuccessTTL,
			},
		},
		Index: IndexConfig{
			Path:           ":memory:",
			EventsThrottle: 500 * time.Millisecond,
		},
	}
}
