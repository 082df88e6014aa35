package loader

import (
	"context"
	"testing"

	"github.com/robbyt/go-cfgen/internal/helpers"
	"github.com/stretchr/testify/require"
)

func TestNewFromString(t *testing.T) {
	t.Parallel()

	t.Run("valid content", func(t *testing.T) {
		cases := []struct {
			name    string
			content string
			want    string
		}{
			{
				name:    "inline source",
				content: choiceSource,
				want:    choiceSource,
			},
			{
				name:    "surrounding whitespace trimmed",
				content: "  <main/>\n",
				want:    "<main/>",
			},
			{
				name:    "multiline grammar",
				content: "<grammar>\n<main><s>x</s></main>\n</grammar>",
				want:    "<grammar>\n<main><s>x</s></main>\n</grammar>",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromString(tc.content)
				require.NoError(t, err)
				require.Equal(t, tc.want, l.content)
				require.Equal(t, tc.want, readAll(t, l))

				sourceURL := l.GetSourceURL()
				require.Equal(t, "string", sourceURL.Scheme)
				require.Equal(t, "inline", sourceURL.Host)
				require.Equal(t, "/"+helpers.ShortHash([]byte(tc.want)), sourceURL.Path)
			})
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		for _, content := range []string{"", "   \n\t  "} {
			l, err := NewFromString(content)
			require.ErrorIs(t, err, ErrInputEmpty)
			require.Nil(t, l)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		l, err := NewFromString("<main/>")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = l.GetReader(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("string representation", func(t *testing.T) {
		l, err := NewFromString("<main/>")
		require.NoError(t, err)
		require.Equal(t, "loader.FromString{Chars: 7}", l.String())
	})
}
