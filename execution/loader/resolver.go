package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
)

// StdinMarker is the locator that selects standard input.
const StdinMarker = "-"

// Resolver infers a Loader from a locator string:
//   - "-" reads Stdin once and serves the buffered content afterwards
//   - http:// and https:// use FromHTTP with HTTPOptions
//   - file:// URLs and paths use FromDisk, relative paths made absolute
//   - anything starting with "<" is inline XML served by FromString
type Resolver struct {
	Stdin       io.Reader
	HTTPOptions *HTTPOptions

	mu    sync.Mutex
	stdin *FromIoReader
}

// NewResolver returns a Resolver reading standard input from stdin.
func NewResolver(stdin io.Reader, httpOptions *HTTPOptions) *Resolver {
	if httpOptions == nil {
		httpOptions = DefaultHTTPOptions()
	}
	return &Resolver{
		Stdin:       stdin,
		HTTPOptions: httpOptions,
	}
}

// Resolve returns the Loader for locator.
func (r *Resolver) Resolve(locator string) (Loader, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, fmt.Errorf("%w: empty locator", ErrInputEmpty)
	}

	if locator == StdinMarker {
		return r.fromStdin()
	}

	if strings.HasPrefix(locator, "<") {
		return NewFromString(locator)
	}

	if parsed, err := url.Parse(locator); err == nil && len(parsed.Scheme) > 1 {
		switch parsed.Scheme {
		case "http", "https":
			return NewFromHTTPWithOptions(locator, r.HTTPOptions)
		case "file":
			return fromPath(parsed.Path)
		default:
			return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, parsed.Scheme)
		}
	}

	return fromPath(locator)
}

// fromStdin buffers standard input on first use; later cycles reuse it.
func (r *Resolver) fromStdin() (Loader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stdin != nil {
		return r.stdin, nil
	}
	if r.Stdin == nil {
		return nil, fmt.Errorf("%w: no standard input configured", ErrGrammarNotAvailable)
	}

	l, err := NewFromIoReader(r.Stdin, "stdin")
	if err != nil {
		return nil, err
	}
	r.stdin = l
	return l, nil
}

func fromPath(path string) (Loader, error) {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = absPath
	}
	return NewFromDisk(path)
}
