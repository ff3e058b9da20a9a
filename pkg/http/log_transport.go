package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}

var redactedHeaders = map[string]struct{}{
	"Authorization": {},
	"X-Api-Key":     {},
	"Cookie":        {},
}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", redact(req.Header)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.ByteString("payload", payload))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)

	done := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", append(done, zap.Error(err))...)
		return nil, err
	}
	ctxzap.Debug(ctx, "HTTP outbound response", append(done, zap.Int("status", resp.StatusCode))...)

	return resp, nil
}

func redact(h http.Header) http.Header {
	out := h.Clone()
	for key := range out {
		if _, ok := redactedHeaders[http.CanonicalHeaderKey(key)]; ok {
			out.Set(key, "[REDACTED]")
		}
	}
	return out
}

// WithRequestLogging wraps the HTTP transport with debug logging of method, URL, headers, payload and outcome.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}

type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	for key, value := range t.headers {
		reqCopy.Header.Set(key, value)
	}
	return t.transport.RoundTrip(reqCopy)
}

func withStaticHeader(key, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		if value == "" {
			return rt
		}
		return &headerTransport{
			headers:   map[string]string{key: value},
			transport: rt,
		}
	})
}

// WithAuthToken sends "Authorization: Bearer <token>" on every request when token is set.
func WithAuthToken(token string) HttpOpts {
	var value string
	if token != "" {
		value = "Bearer " + token
	}
	return withStaticHeader("Authorization", value)
}

// WithAPIKey sends the key in the X-API-Key header when set.
func WithAPIKey(key string) HttpOpts {
	return withStaticHeader("X-API-Key", key)
}
