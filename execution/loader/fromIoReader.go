package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-cfgen/internal/helpers"
)

// FromIoReader buffers the whole reader so the content can be served to
// every generation cycle, which matters for standard input under --repeat.
type FromIoReader struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromIoReader drains reader. sourceName becomes the host of the reader:// URL.
func NewFromIoReader(reader io.Reader, sourceName string) (*FromIoReader, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrGrammarNotAvailable)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf(
			"%w: content is empty or contains only whitespace",
			ErrInputEmpty,
		)
	}

	if sourceName == "" {
		sourceName = "unnamed"
	}
	u, err := url.Parse("reader://" + sourceName + "/" + helpers.ShortHash(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}

	return &FromIoReader{
		content:   content,
		sourceURL: u,
	}, nil
}

func (l *FromIoReader) String() string {
	return fmt.Sprintf(
		"loader.FromIoReader{Bytes: %d, Source: %s}",
		len(l.content),
		l.sourceURL.String(),
	)
}

// GetReader returns a fresh reader over the buffered content.
func (l *FromIoReader) GetReader(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

func (l *FromIoReader) GetSourceURL() *url.URL {
	return l.sourceURL
}
