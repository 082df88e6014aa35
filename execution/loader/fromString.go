package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/robbyt/go-cfgen/internal/helpers"
)

// FromString serves inline grammar text, e.g. "<choice><s>Dog</s><s>Cat</s></choice>".
type FromString struct {
	content   string
	sourceURL *url.URL
}

func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInputEmpty)
	}

	u, err := url.Parse("string://inline/" + helpers.ShortHash([]byte(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}

	return &FromString{
		content:   content,
		sourceURL: u,
	}, nil
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

func (l *FromString) GetReader(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns the synthetic string:// URL of the content.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}
