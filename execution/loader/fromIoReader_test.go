package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/robbyt/go-cfgen/internal/helpers"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("forced read error")
}

func TestNewFromIoReader(t *testing.T) {
	t.Parallel()

	t.Run("buffers content for repeated reads", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader(simpleGrammar), "stdin")
		require.NoError(t, err)

		require.Equal(t, simpleGrammar, readAll(t, l))
		require.Equal(t, simpleGrammar, readAll(t, l))

		expected := "reader://stdin/" + helpers.ShortHash([]byte(simpleGrammar))
		require.Equal(t, expected, l.GetSourceURL().String())
		require.Contains(t, l.String(), "Bytes: 44")
	})

	t.Run("unnamed source", func(t *testing.T) {
		l, err := NewFromIoReader(strings.NewReader("<main/>"), "")
		require.NoError(t, err)
		require.Equal(t, "unnamed", l.GetSourceURL().Host)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := NewFromIoReader(nil, "stdin")
		require.ErrorIs(t, err, ErrGrammarNotAvailable)

		_, err = NewFromIoReader(strings.NewReader(" \n\t"), "stdin")
		require.ErrorIs(t, err, ErrInputEmpty)

		_, err = NewFromIoReader(failingReader{}, "stdin")
		require.ErrorContains(t, err, "forced read error")
	})
}
