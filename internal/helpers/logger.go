package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns the handler and a logger grouped under the component name.
// When handler is nil a text handler on stderr is used, limited to warnings so
// library callers that never configure logging keep a quiet stdout.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - component: The package-level group, e.g. "engine" or "loader"
//   - groupName: Optional sub-group, usually the type name
func SetupLogger(
	handler slog.Handler,
	component string,
	groupName string,
) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelWarn},
		).WithGroup(component)
	}

	var logger *slog.Logger
	if groupName != "" {
		logger = slog.New(handler.WithGroup(groupName))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}
