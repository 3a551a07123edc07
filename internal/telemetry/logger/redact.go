package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose values are never logged. Core configurations carry
// controller secrets and the CLI may forward authorization headers.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"cookie",
	"credential",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}
