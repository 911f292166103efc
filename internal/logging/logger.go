// Package logging is the narrow logging surface the AgriTrack client codes
// against. Services report through it; the CLI keeps user-facing output on
// plain prints, so log records only carry diagnostics.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key–value
// pairs:
//
//	log.Warn(ctx, "session not persisted", "err", err)
//
// The method set is deliberately small: the client has no debug tracing, and
// anything a user must see goes to the terminal, not the log.
type Logger interface {
	// Info records normal operations worth an audit trail, like a stage
	// submission.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records degraded but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key–value pairs on
	// every record.
	With(args ...any) Logger
}
