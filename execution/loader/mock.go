package loader

import (
	"bytes"
	"context"
	"io"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockLoader implements Loader for tests.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) GetSourceURL() *url.URL {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*url.URL)
}

func (m *MockLoader) GetReader(ctx context.Context) (io.ReadCloser, error) {
	args := m.Called(ctx)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func(context.Context) io.ReadCloser:
		return v(ctx), args.Error(1)
	default:
		return v.(io.ReadCloser), args.Error(1)
	}
}

// NewMockLoaderWithContent returns a mock that serves content on every call.
func NewMockLoaderWithContent(content string) *MockLoader {
	m := new(MockLoader)
	m.On("GetReader", mock.Anything).Return(
		func(context.Context) io.ReadCloser {
			return io.NopCloser(bytes.NewReader([]byte(content)))
		},
		nil,
	)
	m.On("GetSourceURL").Return(&url.URL{Scheme: "mock", Host: "content"}).Maybe()
	return m
}
