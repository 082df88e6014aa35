// Package loader turns grammar and source locators into readable content.
//
// A locator is one of: an http(s) URL, a file path or file:// URL, the "-"
// marker for standard input, or inline XML text. Use a Resolver to infer the
// right Loader from a locator string.
package loader

import (
	"context"
	"io"
	"net/url"
)

// Loader provides the raw bytes of a grammar or source document.
type Loader interface {
	// GetReader opens the content. The caller closes the returned reader.
	GetReader(ctx context.Context) (io.ReadCloser, error)

	// GetSourceURL identifies where the content came from.
	GetSourceURL() *url.URL
}
