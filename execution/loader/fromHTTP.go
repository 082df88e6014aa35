package loader

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/robbyt/go-cfgen/execution/loader/httpauth"
)

const userAgent = "go-cfgen/http-loader"

// HTTPOptions configures the HTTP loader.
// Use DefaultHTTPOptions() and adjust the fields you need.
//
// Example:
//
//	options := loader.DefaultHTTPOptions()
//	options.Timeout = 10 * time.Second
//	options.Authenticator = httpauth.NewBearerAuth("token")
type HTTPOptions struct {
	// Timeout is the client timeout for one request. Default 30 seconds.
	Timeout time.Duration

	// TLSConfig is an optional custom TLS configuration.
	TLSConfig *tls.Config

	// InsecureSkipVerify disables certificate verification. Test use only.
	InsecureSkipVerify bool

	// Authenticator is applied to every request. Default httpauth.NoAuth.
	Authenticator httpauth.Authenticator

	// Headers are extra request headers, applied before authentication.
	Headers map[string]string
}

// DefaultHTTPOptions returns a 30 second timeout, verified TLS and no auth.
func DefaultHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Timeout:       30 * time.Second,
		Authenticator: httpauth.NewNoAuth(),
		Headers:       make(map[string]string),
	}
}

// httpRequester is satisfied by *http.Client; tests substitute it.
type httpRequester interface {
	Do(req *http.Request) (*http.Response, error)
}

// FromHTTP fetches a grammar from an http or https URL on every GetReader call.
type FromHTTP struct {
	url       string
	sourceURL *url.URL
	options   *HTTPOptions
	client    httpRequester
}

// NewFromHTTP creates an HTTP loader with DefaultHTTPOptions.
func NewFromHTTP(rawURL string) (*FromHTTP, error) {
	return NewFromHTTPWithOptions(rawURL, DefaultHTTPOptions())
}

// NewFromHTTPWithOptions creates an HTTP loader with custom options.
// A nil options value is treated as DefaultHTTPOptions().
func NewFromHTTPWithOptions(rawURL string, options *HTTPOptions) (*FromHTTP, error) {
	sourceURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse URL: %w", err)
	}

	if sourceURL.Scheme != "http" && sourceURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, rawURL)
	}

	if options == nil {
		options = DefaultHTTPOptions()
	}
	if options.Authenticator == nil {
		options.Authenticator = httpauth.NewNoAuth()
	}

	client := &http.Client{
		Timeout: options.Timeout,
	}

	if options.InsecureSkipVerify || options.TLSConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if options.TLSConfig != nil {
			transport.TLSClientConfig = options.TLSConfig
		} else {
			transport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}
		client.Transport = transport
	}

	return &FromHTTP{
		url:       rawURL,
		sourceURL: sourceURL,
		options:   options,
		client:    client,
	}, nil
}

// GetReader performs the GET request. Non-2xx responses are reported as
// ErrGrammarNotAvailable and their bodies are closed.
func (l *FromHTTP) GetReader(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range l.options.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if err := l.options.Authenticator.AuthenticateWithContext(ctx, req); err != nil {
		return nil, fmt.Errorf("%s authentication failed: %w", l.options.Authenticator.Name(), err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrGrammarNotAvailable, resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}

func (l *FromHTTP) GetSourceURL() *url.URL {
	return l.sourceURL
}

func (l *FromHTTP) String() string {
	return fmt.Sprintf("loader.FromHTTP{URL: %s, Auth: %s}", l.url, l.options.Authenticator.Name())
}
