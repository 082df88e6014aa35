// Package config reads the optional YAML configuration file of the cfgen CLI.
//
//	grammar: https://example.com/grammar.xml
//	source: <story/>
//	repeat: 4        # seconds, or a duration such as "1m30s"
//	seed: 42
//	max_depth: 256
//	filter: ./filter.star
//	log:
//	  level: debug
//	  file: /var/log/cfgen.json
//	http:
//	  timeout: 10s
//	  bearer_token: secret
//	  headers:
//	    X-Request-Source: cfgen
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/execution/loader/httpauth"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config mirrors the YAML file. Zero values mean "not set".
type Config struct {
	Grammar  string    `yaml:"grammar"`
	Source   string    `yaml:"source"`
	Repeat   *Duration `yaml:"repeat"`
	Seed     *uint64   `yaml:"seed"`
	MaxDepth int       `yaml:"max_depth"`
	Filter   string    `yaml:"filter"`
	Log      Log       `yaml:"log"`
	HTTP     HTTP      `yaml:"http"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HTTP configures the loader used for http:// and https:// locators.
// Basic credentials and a bearer token are mutually exclusive.
type HTTP struct {
	Timeout            Duration          `yaml:"timeout"`
	Headers            map[string]string `yaml:"headers"`
	Username           string            `yaml:"username"`
	Password           string            `yaml:"password"`
	BearerToken        string            `yaml:"bearer_token"`
	InsecureSkipVerify bool              `yaml:"insecure_skip_verify"`
}

// Duration accepts a number of seconds (4, 0.5) or a Go duration string ("250ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidConfig)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer func() { _ = file.Close() }()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates one YAML document. Unknown keys are rejected;
// an empty document yields an empty Config.
func Parse(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := &Config{}
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every problem into one error.
func (c *Config) Validate() error {
	var issues []string
	if c.MaxDepth < 0 {
		issues = append(issues, "max_depth must not be negative")
	}
	if c.Repeat != nil && *c.Repeat < 0 {
		issues = append(issues, "repeat must not be negative")
	}
	if c.HTTP.Timeout < 0 {
		issues = append(issues, "http.timeout must not be negative")
	}
	if c.HTTP.BearerToken != "" && c.HTTP.Username != "" {
		issues = append(issues, "http.bearer_token and http.username are mutually exclusive")
	}
	if c.HTTP.Password != "" && c.HTTP.Username == "" {
		issues = append(issues, "http.password requires http.username")
	}
	if _, err := c.LogLevel(); err != nil {
		issues = append(issues, err.Error())
	}

	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(issues, "; "))
}

// LogLevel parses Log.Level. An empty level is warn.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Log.Level == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// HTTPOptions builds loader options from the http section.
func (c *Config) HTTPOptions() *loader.HTTPOptions {
	opts := loader.DefaultHTTPOptions()
	if c.HTTP.Timeout > 0 {
		opts.Timeout = c.HTTP.Timeout.Std()
	}
	opts.InsecureSkipVerify = c.HTTP.InsecureSkipVerify
	for k, v := range c.HTTP.Headers {
		opts.Headers[k] = v
	}

	switch {
	case c.HTTP.BearerToken != "":
		opts.Authenticator = httpauth.NewBearerAuth(c.HTTP.BearerToken)
	case c.HTTP.Username != "":
		opts.Authenticator = httpauth.NewBasicAuth(c.HTTP.Username, c.HTTP.Password)
	}
	return opts
}
