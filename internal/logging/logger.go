// Package logging defines the structured-logging interface the services and
// the HTTP layer depend on, decoupled from the concrete slog backend.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Warn(ctx, "image upload failed, falling back to data URL", "key", key)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, like the object store
	// being unreachable during an upload.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs. Each service tags itself once via With("module", name).
	With(args ...any) Logger
}
