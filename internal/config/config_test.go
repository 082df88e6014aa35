package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robbyt/go-cfgen/execution/loader/httpauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
grammar: https://example.com/grammar.xml
source: <story/>
repeat: 4
seed: 42
max_depth: 256
filter: ./filter.star
log:
  level: debug
  file: /tmp/cfgen.json
http:
  timeout: 10s
  bearer_token: secret
  headers:
    X-Request-Source: cfgen
`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()
		cfg, err := Parse(strings.NewReader(fullConfig))
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/grammar.xml", cfg.Grammar)
		assert.Equal(t, "<story/>", cfg.Source)
		require.NotNil(t, cfg.Repeat)
		assert.Equal(t, 4*time.Second, cfg.Repeat.Std())
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, uint64(42), *cfg.Seed)
		assert.Equal(t, 256, cfg.MaxDepth)
		assert.Equal(t, "./filter.star", cfg.Filter)
		assert.Equal(t, "/tmp/cfgen.json", cfg.Log.File)

		level, err := cfg.LogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)

		opts := cfg.HTTPOptions()
		assert.Equal(t, 10*time.Second, opts.Timeout)
		assert.Equal(t, "cfgen", opts.Headers["X-Request-Source"])
		assert.Equal(t, "Header", opts.Authenticator.Name())
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		cfg, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, cfg.Grammar)
		assert.Nil(t, cfg.Repeat)
		assert.Nil(t, cfg.Seed)

		level, err := cfg.LogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelWarn, level)

		opts := cfg.HTTPOptions()
		assert.Equal(t, 30*time.Second, opts.Timeout)
		assert.IsType(t, &httpauth.NoAuth{}, opts.Authenticator)
	})

	t.Run("basic auth", func(t *testing.T) {
		t.Parallel()
		cfg, err := Parse(strings.NewReader("http:\n  username: user\n  password: pass\n"))
		require.NoError(t, err)
		assert.Equal(t, "Basic", cfg.HTTPOptions().Authenticator.Name())
	})

	t.Run("zero seed is kept", func(t *testing.T) {
		t.Parallel()
		cfg, err := Parse(strings.NewReader("seed: 0\n"))
		require.NoError(t, err)
		require.NotNil(t, cfg.Seed)
		assert.Zero(t, *cfg.Seed)
	})
}

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want time.Duration
	}{
		{name: "integer seconds", yaml: "repeat: 4", want: 4 * time.Second},
		{name: "fractional seconds", yaml: "repeat: 0.5", want: 500 * time.Millisecond},
		{name: "zero", yaml: "repeat: 0", want: 0},
		{name: "duration string", yaml: "repeat: 1m30s", want: 90 * time.Second},
		{name: "quoted duration", yaml: `repeat: "250ms"`, want: 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			require.NotNil(t, cfg.Repeat)
			assert.Equal(t, tt.want, cfg.Repeat.Std())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{name: "unknown key", yaml: "grammer: x.xml", wantMsg: "grammer"},
		{name: "bad duration", yaml: "repeat: soon", wantMsg: "soon"},
		{name: "list duration", yaml: "repeat: [1, 2]", wantMsg: "scalar"},
		{name: "negative repeat", yaml: "repeat: -1", wantMsg: "repeat must not be negative"},
		{name: "negative depth", yaml: "max_depth: -3", wantMsg: "max_depth"},
		{name: "bad level", yaml: "log:\n  level: loud", wantMsg: "log.level"},
		{name: "negative seed", yaml: "seed: -1", wantMsg: "uint64"},
		{
			name:    "conflicting auth",
			yaml:    "http:\n  username: u\n  bearer_token: t",
			wantMsg: "mutually exclusive",
		},
		{name: "password without user", yaml: "http:\n  password: p", wantMsg: "requires http.username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.yaml))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("from disk", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cfgen.yaml")
		require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 256, cfg.MaxDepth)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		_, err := Load("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid content names the file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_depth: -1\n"), 0o600))

		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}
