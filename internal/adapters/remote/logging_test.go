package remote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func recordAttrs(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestLoggingTransport(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)

	tests := []struct {
		name         string
		serverStatus int
		path         string
		method       string
	}{
		{"ok status", http.StatusOK, "/api/events", http.MethodGet},
		{"not found", http.StatusNotFound, "/api/events/EV9", http.MethodGet},
		{"server error", http.StatusInternalServerError, "/api/events/EV1", http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.serverStatus)
			}))
			defer server.Close()

			client := &http.Client{Transport: LoggingTransport(logger, http.DefaultTransport)}
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)
			req.Header.Set("X-Request-ID", "req-1")

			resp, err := client.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			require.Equal(t, "remote request", cap.record.Message)
			attrs := recordAttrs(cap.record)
			require.Contains(t, attrs, "duration_ms")
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, int64(tt.serverStatus), attrs["status"].Int64())
			require.Equal(t, "req-1", attrs["request_id"].String())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
		})
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestLoggingTransport_Failure(t *testing.T) {
	var cap capturingHandler
	tr := LoggingTransport(slog.New(&cap), failingTransport{})

	req := httptest.NewRequest(http.MethodGet, "http://attendance.test/api/cameras", nil)
	_, err := tr.RoundTrip(req)
	require.Error(t, err)

	require.Equal(t, "remote request failed", cap.record.Message)
	require.Equal(t, slog.LevelWarn, cap.record.Level)
	attrs := recordAttrs(cap.record)
	require.Equal(t, "/api/cameras", attrs["path"].String())
	require.Contains(t, attrs, "err")
}
