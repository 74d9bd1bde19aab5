// Package logging provides a minimal logging facade for the bba wrapper.
//
// The Logger interface wraps a subset of the standard library's log/slog
// functionality. Library code in this module logs through the interface
// rather than a concrete logger, so applications can route messages into
// whatever logging stack they already run; cmd/bba-server, for example,
// backs it with zap.
//
// # Default Implementation
//
// The package provides a slog-backed implementation:
//
//	// Use the process-wide default (slog.Default())
//	logger := logging.New(nil)
//
//	// Or a custom slog.Logger
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	logger := logging.New(slog.New(handler))
//
// Discard returns a Logger that drops everything, for workers whose
// per-deal chatter would bury a batch summary.
package logging
