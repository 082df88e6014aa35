package options

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/robbyt/go-cfgen/execution/loader"
)

// RandSource draws the uniform integers used for choices and chance gates.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Config holds everything a Generator needs for its cycles.
type Config struct {
	// Logger for the generator and the packages it drives
	handler slog.Handler
	// Grammar and source locators, resolved per cycle
	grammar string
	source  string
	// Explicit loaders take precedence over the locators
	grammarLoader loader.Loader
	sourceLoader  loader.Loader
	// Turns locators, including extern grammars, into loaders
	resolver *loader.Resolver
	// Shared by the outer cycle and every nested extern cycle
	rand RandSource
	// Bound on element nesting across references and extern cycles
	maxDepth int
	// Optional Starlark output filter
	filterLoader loader.Loader
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogHandler sets the log handler
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		return nil
	}
}

// WithGrammar sets the grammar locator: URL, path, "-" or inline XML.
func WithGrammar(locator string) Option {
	return func(c *Config) error {
		if locator == "" {
			return fmt.Errorf("grammar locator cannot be empty")
		}
		c.grammar = locator
		return nil
	}
}

// WithSource sets the source locator. An empty locator keeps the default <main/>.
func WithSource(locator string) Option {
	return func(c *Config) error {
		if locator != "" {
			c.source = locator
		}
		return nil
	}
}

// WithGrammarLoader bypasses locator resolution for the grammar.
func WithGrammarLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l == nil {
			return fmt.Errorf("grammar loader cannot be nil")
		}
		c.grammarLoader = l
		return nil
	}
}

// WithSourceLoader bypasses locator resolution for the source.
func WithSourceLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l == nil {
			return fmt.Errorf("source loader cannot be nil")
		}
		c.sourceLoader = l
		return nil
	}
}

// WithResolver sets the locator resolver, e.g. to supply HTTP options or stdin.
func WithResolver(r *loader.Resolver) Option {
	return func(c *Config) error {
		if r == nil {
			return fmt.Errorf("resolver cannot be nil")
		}
		c.resolver = r
		return nil
	}
}

// WithRand sets the random source. Pass a seeded *rand.Rand for reproducible output.
func WithRand(r RandSource) Option {
	return func(c *Config) error {
		if r == nil {
			return fmt.Errorf("random source cannot be nil")
		}
		c.rand = r
		return nil
	}
}

// WithSeed is WithRand with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithMaxDepth bounds element nesting. Zero keeps the default.
func WithMaxDepth(depth int) Option {
	return func(c *Config) error {
		if depth < 0 {
			return fmt.Errorf("max depth must not be negative, got %d", depth)
		}
		if depth > 0 {
			c.maxDepth = depth
		}
		return nil
	}
}

// WithFilter sets the Starlark output filter script.
func WithFilter(l loader.Loader) Option {
	return func(c *Config) error {
		if l == nil {
			return fmt.Errorf("filter loader cannot be nil")
		}
		c.filterLoader = l
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.handler == nil {
		return fmt.Errorf("no log handler specified")
	}
	if c.grammar == "" && c.grammarLoader == nil {
		return fmt.Errorf("no grammar specified")
	}
	if c.source == "" && c.sourceLoader == nil {
		return fmt.Errorf("no source specified")
	}
	if (c.grammarLoader == nil || c.sourceLoader == nil) && c.resolver == nil {
		return fmt.Errorf("no resolver specified")
	}
	if c.rand == nil {
		return fmt.Errorf("no random source specified")
	}
	if c.maxDepth <= 0 {
		return fmt.Errorf("max depth must be positive")
	}
	return nil
}

// WithNested returns a copy for an extern cycle: same handler, resolver,
// random source and depth bound, but its own grammar and source and no filter.
func (c *Config) WithNested(grammar string, source loader.Loader) *Config {
	return &Config{
		handler:      c.handler,
		grammar:      grammar,
		sourceLoader: source,
		resolver:     c.resolver,
		rand:         c.rand,
		maxDepth:     c.maxDepth,
	}
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetGrammar returns the grammar locator
func (c *Config) GetGrammar() string {
	return c.grammar
}

// GetSource returns the source locator
func (c *Config) GetSource() string {
	return c.source
}

// GetGrammarLoader returns the explicit grammar loader, if any
func (c *Config) GetGrammarLoader() loader.Loader {
	return c.grammarLoader
}

// GetSourceLoader returns the explicit source loader, if any
func (c *Config) GetSourceLoader() loader.Loader {
	return c.sourceLoader
}

// GetResolver returns the locator resolver
func (c *Config) GetResolver() *loader.Resolver {
	return c.resolver
}

// GetRand returns the random source
func (c *Config) GetRand() RandSource {
	return c.rand
}

// GetMaxDepth returns the nesting bound
func (c *Config) GetMaxDepth() int {
	return c.maxDepth
}

// GetFilterLoader returns the filter script loader, if any
func (c *Config) GetFilterLoader() loader.Loader {
	return c.filterLoader
}
