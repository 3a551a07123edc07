package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerKey    contextKey = "corelink.logger"
	requestIDKey contextKey = "corelink.request_id"
	connIDKey    contextKey = "corelink.conn_id"
	connLogKey   contextKey = "corelink.conn_logger"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, falling back to
// slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithConnID adds the local connection ID to the context.
func WithConnID(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connIDKey, connID)
}

// WithConnLogger adds connID together with a logger that already carries it.
func WithConnLogger(ctx context.Context, connID string, l *slog.Logger) context.Context {
	ctx = WithConnID(ctx, connID)
	ctx = WithLogger(ctx, l)
	return context.WithValue(ctx, connLogKey, l)
}

// ConnIDFromContext extracts the connection ID from context.
func ConnIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(connIDKey).(string)
	return id
}

// L returns the context logger enriched with the connection and request IDs
// found in ctx.
func L(ctx context.Context) *slog.Logger {
	l := FromContext(ctx)

	scoped, _ := ctx.Value(connLogKey).(*slog.Logger)
	if connID := ConnIDFromContext(ctx); connID != "" && scoped != l {
		l = l.With("conn_id", connID)
	}
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		l = l.With("request_id", reqID)
	}
	return l
}
