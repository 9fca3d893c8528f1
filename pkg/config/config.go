// Package config loads the settings of a maze session: which maze to solve,
// where the authority lives and where results go.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/mazewalk/pkg/explorer"
	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/transport"
	"github.com/dd0wney/mazewalk/pkg/validation"
	"github.com/dd0wney/mazewalk/pkg/visualization"
)

// DotEnvFile is read from the working directory when present. Its values
// only fill variables the process environment leaves unset or empty.
const DotEnvFile = ".env"

// Environment variables read by Load.
const (
	EnvGroupID          = "MAZE_GRUPO_ID"
	EnvMazeID           = "MAZE_LABIRINTO_ID"
	EnvWebSocketURL     = "MAZE_WEBSOCKET_URL"
	EnvResultsDir       = "MAZE_RESULTS_DIR"
	EnvNeighborOrder    = "MAZE_NEIGHBOR_ORDER"
	EnvHandshakeTimeout = "MAZE_HANDSHAKE_TIMEOUT"
	EnvMetricsAddr      = "MAZE_METRICS_ADDR"
	EnvLayout           = "MAZE_LAYOUT"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
)

// Default configuration values
const (
	DefaultWebSocketURL = "ws://localhost:8000/ws/"
	DefaultResultsDir   = "results"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLayout       = visualization.LayoutHierarchical
)

// Config holds everything a session needs.
type Config struct {
	// GroupID identifies the team to the authority.
	GroupID string `yaml:"group_id" validate:"required"`

	// MazeID selects the maze to solve.
	MazeID string `yaml:"maze_id" validate:"required"`

	// WebSocketURL is the authority base URL; the session URL appends
	// "<group>/<maze>".
	WebSocketURL string `yaml:"websocket_url" validate:"required"`

	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	ResultsDir string `yaml:"results_dir"`

	// NeighborOrder is the exploration tie-break: as-reported, lowest-id or lightest.
	NeighborOrder string `yaml:"neighbor_order" validate:"omitempty,oneof=as-reported lowest-id lightest"`

	// Layout places vertices in the HTML visualization.
	Layout string `yaml:"layout" validate:"omitempty,oneof=hierarchical circular force"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=json text"`
}

// Default returns a Config with every optional field filled in.
func Default() *Config {
	return &Config{
		WebSocketURL:     DefaultWebSocketURL,
		HandshakeTimeout: transport.DefaultHandshakeTimeout,
		ResultsDir:       DefaultResultsDir,
		NeighborOrder:    explorer.OrderAsReported,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		Layout:           DefaultLayout,
	}
}

// Override adjusts a Config after the file and environment have been applied,
// typically from command-line flags.
type Override func(*Config)

// Load builds a Config from defaults, then the YAML file at path if path is
// not empty, then environment variables (backed by DotEnvFile), then
// overrides, and validates the result. Every invalid field is reported in the returned error.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	lookup, err := envLookup(DotEnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// envLookup reads the process environment, falling back to the dotenv file
// at path. A missing file is not an error.
func envLookup(path string) (func(string) (string, bool), error) {
	dotenv, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		dotenv = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	setString(EnvGroupID, &c.GroupID)
	setString(EnvMazeID, &c.MazeID)
	setString(EnvWebSocketURL, &c.WebSocketURL)
	setString(EnvResultsDir, &c.ResultsDir)
	setString(EnvNeighborOrder, &c.NeighborOrder)
	setString(EnvMetricsAddr, &c.MetricsAddr)
	setString(EnvLayout, &c.Layout)
	setString(EnvLogLevel, &c.LogLevel)
	setString(EnvLogFormat, &c.LogFormat)

	if v, ok := lookup(EnvHandshakeTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHandshakeTimeout, v, err)
		}
		c.HandshakeTimeout = d
	}
	return nil
}

// Validate checks struct tags and the cross-field rules, reporting every
// problem together.
func (c *Config) Validate() error {
	tagErr := validation.Struct(c)

	ruleErr := validation.NewConfigValidator("Config").
		When(c.WebSocketURL != "", func(v *validation.ConfigValidator) {
			v.URL("WebSocketURL", c.WebSocketURL, "ws", "wss")
		}).
		MinDuration("HandshakeTimeout", c.HandshakeTimeout, time.Millisecond).
		Custom("LogLevel", func() error {
			if _, ok := logging.LookupLevel(c.LogLevel); !ok {
				return fmt.Errorf("unknown log level %q", c.LogLevel)
			}
			return nil
		}).
		Validate()

	return errors.Join(tagErr, ruleErr)
}

// SessionURL is the websocket URL of this group's session on this maze.
func (c *Config) SessionURL() string {
	base := c.WebSocketURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + c.GroupID + "/" + c.MazeID
}

// Order resolves NeighborOrder.
func (c *Config) Order() (explorer.NeighborOrder, error) {
	return explorer.ParseOrder(c.NeighborOrder)
}
