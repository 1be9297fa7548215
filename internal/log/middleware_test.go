package log

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareInstallsContextLogger(t *testing.T) {
	logger := New(DefaultConfig())

	var got *Logger
	handler := Middleware(logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got != logger {
		t.Error("FromContext() did not return the installed logger")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	chain := Middleware(logger)(
		RequestIDMiddleware(func(*http.Request) string { return "req_test" })(
			http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				FromContext(r.Context()).Info("handled")
			})))
	chain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=req_test") {
		t.Errorf("log output %q missing request id", out)
	}
	if !strings.Contains(out, "component="+ComponentHTTP) {
		t.Errorf("log output %q missing component", out)
	}
}
