// Command cfgen prints text generated from an XML context-free grammar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robbyt/go-cfgen/engine"
	"github.com/robbyt/go-cfgen/execution/grammar"
	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/internal/config"
	"github.com/robbyt/go-cfgen/options"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usageText = `Usage: cfgen [options] [source]

Options:
  -g, --grammar=...   grammar file, URL, "-" for stdin, or inline XML
                      (default grammar.xml)
  -r, --repeat=...    repeat with the given delay in seconds
  -c, --config=...    YAML configuration file
  -s, --seed=...      seed for reproducible output
  -f, --filter=...    Starlark output filter script
  -v, --verbose       debug logging on stderr
  -h, --help          show this help

Examples:
  cfgen                       generates from <main/> in ./grammar.xml
  cfgen "<mygrammarnode/>"    generates from the given node or string
  cfgen -g mygrammar.xml      generates from the given grammar file
  cfgen -r 4                  repeats with a 4s delay between generations
`

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args)
	if err != nil {
		printError(stderr, err)
		_, _ = fmt.Fprint(stderr, usageText)
		return exitUsage
	}
	if f.help {
		_, _ = fmt.Fprint(stdout, usageText)
		return exitOK
	}

	fileCfg := &config.Config{}
	if f.config != "" {
		fileCfg, err = config.Load(f.config)
		if err != nil {
			printError(stderr, err)
			return exitUsage
		}
	}

	level := new(slog.LevelVar)
	fileLevel, _ := fileCfg.LogLevel()
	level.Set(fileLevel)
	if f.verbose {
		level.Set(slog.LevelDebug)
	}

	handler, closeLog, err := newLogHandler(stderr, level, fileCfg.Log.File)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	defer func() { _ = closeLog() }()
	logger := slog.New(handler).WithGroup("cfgen")

	opts, err := generatorOptions(f, fileCfg, handler, stdin)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := engine.NewGenerator(ctx, opts...)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	logger.DebugContext(ctx, "generator ready", "generator", g.String())

	delay := f.repeat
	if delay == nil && fileCfg.Repeat != nil {
		d := fileCfg.Repeat.Std()
		delay = &d
	}

	if delay == nil {
		out, err := g.Generate(ctx)
		if err != nil {
			printError(stderr, err)
			return exitCode(err)
		}
		_, _ = fmt.Fprintln(stdout, out)
		return exitOK
	}

	if err := newRepeater(g, *delay, stdout, logger).Run(ctx); err != nil {
		printError(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

// generatorOptions merges flags over the config file.
func generatorOptions(
	f *flags,
	fileCfg *config.Config,
	handler slog.Handler,
	stdin io.Reader,
) ([]options.Option, error) {
	resolver := loader.NewResolver(stdin, fileCfg.HTTPOptions())

	source := f.source
	if source == "" {
		source = fileCfg.Source
	}

	opts := []options.Option{
		options.WithLogHandler(handler),
		options.WithResolver(resolver),
		options.WithSource(source),
		options.WithMaxDepth(fileCfg.MaxDepth),
	}

	grammarLocator := f.grammar
	if grammarLocator == "" {
		grammarLocator = fileCfg.Grammar
	}
	if grammarLocator != "" {
		opts = append(opts, options.WithGrammar(grammarLocator))
	}

	switch {
	case f.seed != nil:
		opts = append(opts, options.WithSeed(*f.seed))
	case fileCfg.Seed != nil:
		opts = append(opts, options.WithSeed(*fileCfg.Seed))
	}

	filterLocator := f.filter
	if filterLocator == "" {
		filterLocator = fileCfg.Filter
	}
	if filterLocator != "" {
		l, err := resolver.Resolve(filterLocator)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", filterLocator, err)
		}
		opts = append(opts, options.WithFilter(l))
	}

	return opts, nil
}

// exitCode is 2 when the grammar or source could not be loaded, 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, grammar.ErrGrammarLoad) {
		return exitUsage
	}
	return exitFailure
}

func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintf(w, "cfgen: %v\n", err)
}
