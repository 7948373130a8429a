package logging

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// Transport wraps an http.RoundTripper and logs every GitHub call at debug level
type Transport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

// NewTransport creates a logging transport wrapper
func NewTransport(next http.RoundTripper, logger *zap.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{next: next, logger: logger}
}

// Wrap adapts NewTransport to a transport decorator
func Wrap(logger *zap.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewTransport(next, logger)
	}
}

// RoundTrip executes a single HTTP transaction
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	}
	if query := req.URL.RawQuery; query != "" {
		fields = append(fields, zap.String("query", query))
	}
	if ce := t.logger.Check(zap.DebugLevel, "github request"); ce != nil {
		ce.Write(append(fields, zap.Any("headers", redactHeaders(req.Header)))...)
	}

	resp, err := t.next.RoundTrip(req)
	fields = append(fields, zap.Duration("duration", time.Since(start)))

	if err != nil {
		t.logger.Debug("github request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	fields = append(fields, zap.Int("status", resp.StatusCode))
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		fields = append(fields, zap.String("rate_limit_remaining", remaining))
	}
	t.logger.Debug("github response", fields...)

	return resp, nil
}

func redactHeaders(header http.Header) map[string]string {
	redacted := make(map[string]string, len(header))
	for name, values := range header {
		if sensitiveHeaders[strings.ToLower(name)] {
			redacted[name] = "[REDACTED]"
			continue
		}
		redacted[name] = strings.Join(values, ", ")
	}
	return redacted
}
