package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is written by scheduler goroutines and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeGenerator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int32) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context) (string, error) {
	return f.fn(ctx, f.calls.Add(1))
}

func TestRepeater(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	t.Run("prints each result followed by a blank line", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		gen := &fakeGenerator{fn: func(ctx context.Context, call int32) (string, error) {
			if call > 3 {
				cancel()
				return "", ctx.Err()
			}
			return "line", nil
		}}
		var out syncBuffer

		err := newRepeater(gen, 5*time.Millisecond, &out, logger).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("line\n\n", 3), out.String())
	})

	t.Run("first result is immediate", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		gen := &fakeGenerator{fn: func(context.Context, int32) (string, error) {
			time.AfterFunc(20*time.Millisecond, cancel)
			return "first", nil
		}}
		var out syncBuffer

		start := time.Now()
		err := newRepeater(gen, time.Hour, &out, logger).Run(ctx)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 10*time.Second)
		assert.Equal(t, "first\n\n", out.String())
		assert.Equal(t, int32(1), gen.calls.Load())
	})

	t.Run("a failed cycle stops the loop", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		gen := &fakeGenerator{fn: func(_ context.Context, call int32) (string, error) {
			if call == 2 {
				return "", boom
			}
			return "ok", nil
		}}
		var out syncBuffer

		err := newRepeater(gen, 5*time.Millisecond, &out, logger).Run(t.Context())
		require.ErrorIs(t, err, boom)
		assert.Equal(t, "ok\n\n", out.String())
	})

	t.Run("zero interval is clamped", func(t *testing.T) {
		t.Parallel()
		r := newRepeater(&fakeGenerator{}, 0, &syncBuffer{}, logger)
		assert.Equal(t, minInterval, r.interval)
	})
}
