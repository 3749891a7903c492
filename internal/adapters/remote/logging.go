package remote

import (
	"log/slog"
	"net/http"
	"time"
)

type loggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// LoggingTransport logs each outgoing request with method, path, status, and duration.
// It does not log request or response bodies.
func LoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{logger: logger, next: next}
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	duration := time.Since(start)
	if err != nil {
		t.logger.WarnContext(r.Context(), "remote request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration_ms", duration.Milliseconds(),
			"err", err,
		)
		return nil, err
	}
	t.logger.InfoContext(r.Context(), "remote request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"request_id", r.Header.Get("X-Request-ID"),
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}
