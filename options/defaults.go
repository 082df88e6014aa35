package options

import (
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/robbyt/go-cfgen/execution/loader"
)

const (
	// DefaultGrammar is read from the working directory.
	DefaultGrammar = "grammar.xml"

	// DefaultSource references the grammar's main rule.
	DefaultSource = "<main/>"

	// DefaultMaxDepth bounds nesting of references and extern cycles.
	DefaultMaxDepth = 512
)

// processRand draws from the process-wide math/rand/v2 source, which is
// randomly seeded and safe for concurrent use.
type processRand struct{}

func (processRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		handler:  DefaultHandler(),
		grammar:  DefaultGrammar,
		source:   DefaultSource,
		rand:     DefaultRand(),
		maxDepth: DefaultMaxDepth,
	}
}

// DefaultHandler logs warnings and errors to stderr; stdout carries the output.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// DefaultRand returns the process-wide random source.
func DefaultRand() RandSource {
	return processRand{}
}

// DefaultResolver resolves "-" against os.Stdin with default HTTP options.
func DefaultResolver() *loader.Resolver {
	return loader.NewResolver(os.Stdin, loader.DefaultHTTPOptions())
}

// WithDefaults applies default values to any config properties that are unset
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.grammar == "" && c.grammarLoader == nil {
			c.grammar = DefaultGrammar
		}
		if c.source == "" && c.sourceLoader == nil {
			c.source = DefaultSource
		}
		if c.resolver == nil {
			c.resolver = DefaultResolver()
		}
		if c.rand == nil {
			c.rand = DefaultRand()
		}
		if c.maxDepth == 0 {
			c.maxDepth = DefaultMaxDepth
		}
		return nil
	}
}
