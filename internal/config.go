package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Data      DataConfig        `yaml:"data"`
	Import    ImportConfig      `yaml:"import"`
	Settings  SettingsConfig    `yaml:"settings"`
	Thumbnail ThumbnailConfig   `yaml:"thumbnail"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Thumbnail.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
	// RefreshThrottle is the minimum gap between two list.refresh events.
	RefreshThrottle time.Duration `yaml:"refresh_throttle"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.RefreshThrottle, validation.Min(time.Duration(0))),
	)
}

// StoreConfig locates the note database and the resource files.
type StoreConfig struct {
	Path         string `yaml:"path"`
	ResourcesDir string `yaml:"resources_dir"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.ResourcesDir, validation.Required),
	)
}

// DataConfig holds the plugin data directory thumbnails are written to.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// ImportConfig names a directory of Markdown notes the server imports at
// startup and, with Watch, keeps importing while it runs. An empty Dir
// disables both.
type ImportConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// SettingsConfig locates the render settings file. An empty Path runs with
// the built-in defaults.
type SettingsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ThumbnailConfig tunes thumbnail generation.
type ThumbnailConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	Quality  int           `yaml:"quality"`
	Capacity int           `yaml:"capacity"`
}

// Validate validates the thumbnail configuration.
func (c *ThumbnailConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Quality, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Capacity, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:            8080,
				RefreshThrottle: 2 * time.Second,
			},
		},
		Store: StoreConfig{
			Path:         "./notelist.db",
			ResourcesDir: "./resources",
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Settings: SettingsConfig{
			Path:  "config/settings.yaml",
			Watch: true,
		},
		Thumbnail: ThumbnailConfig{
			Timeout:  10 * time.Second,
			Quality:  80,
			Capacity: 500,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
