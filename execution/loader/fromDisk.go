package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FromDisk reads a grammar file from an absolute path.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk accepts an absolute path, optionally prefixed with file://.
// Relative paths are rejected; the Resolver makes them absolute first.
func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}

	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported", ErrGrammarNotAvailable)
	}

	path = filepath.Clean(path)
	if path == "/" || path == "\\" {
		return nil, fmt.Errorf("%w: path is empty or invalid", ErrGrammarNotAvailable)
	}

	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}

	return &FromDisk{
		path:      path,
		sourceURL: u,
	}, nil
}

func (l *FromDisk) String() string {
	return fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)
}

// GetReader opens the file. A missing file surfaces as ErrGrammarNotAvailable.
func (l *FromDisk) GetReader(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGrammarNotAvailable, err)
	}
	return f, nil
}

func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
