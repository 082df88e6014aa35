package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGrammar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grammar.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewFromDisk(t *testing.T) {
	t.Parallel()

	t.Run("absolute path", func(t *testing.T) {
		path := writeGrammar(t, simpleGrammar)

		l, err := NewFromDisk(path)
		require.NoError(t, err)
		require.Equal(t, "file", l.GetSourceURL().Scheme)
		require.Equal(t, filepath.ToSlash(path), l.GetSourceURL().Path)
		require.Equal(t, simpleGrammar, readAll(t, l))
	})

	t.Run("file scheme prefix", func(t *testing.T) {
		path := writeGrammar(t, simpleGrammar)

		l, err := NewFromDisk("file://" + path)
		require.NoError(t, err)
		require.Equal(t, simpleGrammar, readAll(t, l))
	})

	t.Run("rejected paths", func(t *testing.T) {
		cases := []struct {
			name string
			path string
			err  error
		}{
			{name: "relative", path: "grammar.xml", err: ErrGrammarNotAvailable},
			{name: "root", path: "/", err: ErrGrammarNotAvailable},
			{name: "http url", path: "http://example.com/grammar.xml", err: ErrSchemeUnsupported},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromDisk(tc.path)
				require.ErrorIs(t, err, tc.err)
				require.Nil(t, l)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		l, err := NewFromDisk(filepath.Join(t.TempDir(), "missing.xml"))
		require.NoError(t, err)

		_, err = l.GetReader(t.Context())
		require.ErrorIs(t, err, ErrGrammarNotAvailable)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
