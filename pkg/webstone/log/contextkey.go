package log

import "context"

// contextKey is an unexported pointer type so logger values stored in a
// context can never collide with keys from other packages.
type contextKey struct {
	name string
}

var loggerContextKey = &contextKey{name: "LOGGER_CONTEXT_KEY"}

// GetLoggerFromContext returns the request-scoped logger, nil when none was
// injected.
func GetLoggerFromContext(ctx context.Context) Logger {
	res, _ := ctx.Value(loggerContextKey).(Logger)

	return res
}

// SetLoggerInContext injects a logger for downstream pipeline stages.
func SetLoggerInContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}
