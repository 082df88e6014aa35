// Package httpauth provides request authentication for the HTTP grammar loader.
package httpauth

import (
	"context"
	"maps"
	"net/http"
)

// Authenticator decorates an outgoing grammar request with credentials.
type Authenticator interface {
	// AuthenticateWithContext modifies req in place. It fails without touching
	// the request when ctx is already done.
	AuthenticateWithContext(ctx context.Context, req *http.Request) error

	// Name is used in log lines and error messages.
	Name() string
}

func withLiveContext(ctx context.Context, apply func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	apply()
	return nil
}

// NoAuth sends requests unchanged.
type NoAuth struct{}

func NewNoAuth() *NoAuth {
	return &NoAuth{}
}

func (n *NoAuth) AuthenticateWithContext(ctx context.Context, _ *http.Request) error {
	return withLiveContext(ctx, func() {})
}

func (n *NoAuth) Name() string {
	return "None"
}

// BasicAuth sets an RFC 7617 Authorization header. An empty username disables it.
type BasicAuth struct {
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

func (b *BasicAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return withLiveContext(ctx, func() {
		if b.Username != "" {
			req.SetBasicAuth(b.Username, b.Password)
		}
	})
}

func (b *BasicAuth) Name() string {
	return "Basic"
}

// HeaderAuth sets arbitrary headers, e.g. API keys or bearer tokens.
type HeaderAuth struct {
	Headers map[string]string
}

// NewHeaderAuth copies headers so later changes by the caller have no effect.
func NewHeaderAuth(headers map[string]string) *HeaderAuth {
	return &HeaderAuth{
		Headers: maps.Clone(headers),
	}
}

// NewBearerAuth is a HeaderAuth carrying "Authorization: Bearer <token>".
func NewBearerAuth(token string) *HeaderAuth {
	return &HeaderAuth{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	}
}

func (h *HeaderAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return withLiveContext(ctx, func() {
		for key, value := range h.Headers {
			req.Header.Set(key, value)
		}
	})
}

func (h *HeaderAuth) Name() string {
	return "Header"
}
