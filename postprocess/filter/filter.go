// Package filter runs a user supplied Starlark function over rendered output.
//
// A filter script defines filter(text) and returns the replacement string:
//
//	def filter(text):
//	    return sub(r"fs\b", "ves", text)
package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/internal/helpers"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const entryPoint = "filter"

// Filter holds the initialized, frozen script. It is safe for concurrent use.
type Filter struct {
	name   string
	fn     starlarkLib.Callable
	logger *slog.Logger
}

// New loads, compiles and initializes the script behind l.
func New(ctx context.Context, handler slog.Handler, l loader.Loader) (*Filter, error) {
	_, logger := helpers.SetupLogger(handler, "filter", "Filter")

	reader, err := l.GetReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}
	src, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read filter script: %w", err)
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, ErrContentNil
	}

	name := "filter.star"
	if u := l.GetSourceURL(); u != nil {
		name = u.String()
	}
	logger = logger.With("script", name)

	predeclared := universe()
	opts := &syntax.FileOptions{}
	f, err := opts.Parse(name, src, 0)
	if err != nil {
		logger.WarnContext(ctx, "parse failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		logger.WarnContext(ctx, "compile failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	thread := newThread(logger, "init")
	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	globals.Freeze()

	fn, ok := globals[entryPoint].(starlarkLib.Callable)
	if !ok {
		return nil, ErrNoEntryPoint
	}

	logger.DebugContext(ctx, "filter compiled")
	return &Filter{
		name:   name,
		fn:     fn,
		logger: logger,
	}, nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("filter.Filter{Script: %s}", f.name)
}

// Apply calls filter(text). Cancelling ctx cancels the running script.
func (f *Filter) Apply(ctx context.Context, text string) (string, error) {
	logger := f.logger.WithGroup("Apply")
	startTime := time.Now()

	thread := newThread(logger, "apply")
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	v, err := starlarkLib.Call(thread, f.fn, starlarkLib.Tuple{starlarkLib.String(text)}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFilterFailed, err)
	}
	out, ok := starlarkLib.AsString(v)
	if !ok {
		return "", fmt.Errorf("%w: filter returned %s, want string", ErrFilterFailed, v.Type())
	}

	logger.DebugContext(ctx, "filter applied", "duration", time.Since(startTime))
	return out, nil
}

func newThread(logger *slog.Logger, name string) *starlarkLib.Thread {
	return &starlarkLib.Thread{
		Name: name,
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.Info(msg, "starlark-thread", thread.Name)
		},
	}
}
