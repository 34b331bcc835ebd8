package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/graphol/internal/translator"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Ontology  OntologyConfig    `yaml:"ontology"`
	Events    EventsConfig      `yaml:"events"`
	Metrics   MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Workspace, &c.SQLite, &c.Auth, &c.Ontology, &c.Events} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
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

// WorkspaceConfig holds the path to the diagram workspace directory.
type WorkspaceConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
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
	// Normalise empty mode to "disabled" for backward compatibility.
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

// OntologyConfig holds the translator defaults. Diagram documents may
// override BaseIRI and Prefix.
type OntologyConfig struct {
	BaseIRI     string `yaml:"base_iri"`
	Prefix      string `yaml:"prefix"`
	MaxDepth    int    `yaml:"max_depth"`
	Annotations bool   `yaml:"annotations"`
}

// Validate validates the ontology configuration.
func (c *OntologyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseIRI, validation.Required, is.URL),
		validation.Field(&c.MaxDepth, validation.Min(0)),
	)
}

// TranslatorOptions returns the translator options for this configuration.
func (c *OntologyConfig) TranslatorOptions(logger *slog.Logger) []translator.Option {
	return []translator.Option{
		translator.WithOntologyIRI(c.BaseIRI),
		translator.WithPrefix(c.Prefix),
		translator.WithMaxDepth(c.MaxDepth),
		translator.WithAnnotations(c.Annotations),
		translator.WithLogger(logger),
	}
}

// EventsConfig holds SSE throttling configuration.
type EventsConfig struct {
	OntologyThrottle time.Duration `yaml:"ontology_throttle"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OntologyThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.ProgressInterval, validation.Min(time.Duration(0))),
	)
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
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
		Workspace: WorkspaceConfig{
			Path:  "./diagrams",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./graphol.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Ontology: OntologyConfig{
			BaseIRI:     "http://example.org/ontology",
			MaxDepth:    translator.DefaultMaxDepth,
			Annotations: true,
		},
		Events: EventsConfig{
			OntologyThrottle: 2 * time.Second,
			ProgressInterval: 100 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
