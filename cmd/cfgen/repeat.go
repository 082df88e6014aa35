package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"
)

const minInterval = time.Millisecond

type generator interface {
	Generate(ctx context.Context) (string, error)
}

// repeater prints one generation per interval, each followed by a blank line,
// until its context ends or a cycle fails.
type repeater struct {
	gen      generator
	interval time.Duration
	stdout   io.Writer
	logger   *slog.Logger

	running *abool.AtomicBool
	mu      sync.Mutex
	err     error
}

func newRepeater(gen generator, interval time.Duration, stdout io.Writer, logger *slog.Logger) *repeater {
	if interval < minInterval {
		interval = minInterval
	}
	return &repeater{
		gen:      gen,
		interval: interval,
		stdout:   stdout,
		logger:   logger.WithGroup("repeater"),
		running:  abool.NewBool(false),
	}
}

// Run blocks until ctx is cancelled or a cycle fails. The first cycle starts
// immediately. Only a failed cycle is returned as an error.
func (r *repeater) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	job, err := s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.tick(ctx, cancel) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule generation: %w", err)
	}
	r.logger.DebugContext(ctx, "repeat started", "job", job.ID(), "interval", r.interval)

	s.Start()
	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		r.logger.WarnContext(ctx, "scheduler shutdown", "error", err)
	}
	return r.failure()
}

func (r *repeater) tick(ctx context.Context, stop context.CancelFunc) {
	if ctx.Err() != nil || !r.running.SetToIf(false, true) {
		return
	}
	defer r.running.UnSet()

	out, err := r.gen.Generate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		stop()
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s\n\n", out)
}

func (r *repeater) failure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
