package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-cfgen/execution/grammar"
	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/internal/helpers"
	"github.com/robbyt/go-cfgen/options"
	"github.com/robbyt/go-cfgen/postprocess"
	"github.com/robbyt/go-cfgen/postprocess/filter"
)

// Generator runs generation cycles for one configuration. Every call to
// Generate builds a fresh grammar.Store, State and Evaluator.
type Generator struct {
	cfg    *options.Config
	filter *filter.Filter

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewGenerator applies opts over the defaults, validates the result and
// compiles the output filter if one is configured.
func NewGenerator(ctx context.Context, opts ...options.Option) (*Generator, error) {
	cfg := &options.Config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handler, logger := helpers.SetupLogger(cfg.GetHandler(), "engine", "Generator")
	g := &Generator{
		cfg:        cfg,
		logHandler: handler,
		logger:     logger,
	}

	if l := cfg.GetFilterLoader(); l != nil {
		f, err := filter.New(ctx, handler, l)
		if err != nil {
			return nil, fmt.Errorf("failed to load output filter: %w", err)
		}
		g.filter = f
	}

	return g, nil
}

func (g *Generator) String() string {
	return fmt.Sprintf("engine.Generator{Grammar: %s, Source: %s}", g.cfg.GetGrammar(), g.cfg.GetSource())
}

// Generate runs one complete cycle and returns the rendered, filtered text.
// A failed cycle returns no output.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	logger := g.logger.WithGroup("Generate")
	startTime := time.Now()

	out, err := g.run(ctx, g.cfg, 0)
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		return "", err
	}

	if g.filter != nil {
		out, err = g.filter.Apply(ctx, out)
		if err != nil {
			logger.ErrorContext(ctx, "output filter failed", "error", err)
			return "", err
		}
	}

	logger.DebugContext(ctx, "generation complete",
		"duration", time.Since(startTime), "length", len(out))
	return out, nil
}

// run is one cycle for cfg, starting at depth. Extern elements re-enter it
// with a nested config, so inner cycles share nothing mutable with outer ones.
func (g *Generator) run(ctx context.Context, cfg *options.Config, depth int) (string, error) {
	grammarLoader, err := resolve(cfg.GetResolver(), cfg.GetGrammarLoader(), cfg.GetGrammar())
	if err != nil {
		return "", err
	}
	store, err := grammar.Load(ctx, cfg.GetHandler(), grammarLoader)
	if err != nil {
		return "", err
	}

	sourceLoader, err := resolve(cfg.GetResolver(), cfg.GetSourceLoader(), cfg.GetSource())
	if err != nil {
		return "", err
	}
	source, err := grammar.LoadDocument(ctx, sourceLoader)
	if err != nil {
		return "", err
	}

	nested := func(ctx context.Context, grammarLocator, sourceTag string, depth int) (string, error) {
		src, err := loader.NewFromString("<" + sourceTag + "/>")
		if err != nil {
			return "", fmt.Errorf("%w: source=%q: %w", ErrInvalidAttribute, sourceTag, err)
		}
		return g.run(ctx, cfg.WithNested(grammarLocator, src), depth)
	}

	st := NewState()
	ev := NewEvaluator(cfg.GetHandler(), store, cfg.GetRand(), cfg.GetMaxDepth(), nested)
	ev.baseDepth = depth
	if err := ev.Evaluate(ctx, source, st); err != nil {
		return "", err
	}

	return postprocess.Render(st.Pieces()), nil
}

// resolve prefers an explicit loader and otherwise resolves the locator.
// Resolution failures count as load failures.
func resolve(r *loader.Resolver, explicit loader.Loader, locator string) (loader.Loader, error) {
	if explicit != nil {
		return explicit, nil
	}
	l, err := r.Resolve(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", grammar.ErrGrammarLoad, locator, err)
	}
	return l, nil
}
