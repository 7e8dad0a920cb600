package timer

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RoundTripper returns a transport that logs the duration of every
// outbound request. Only the host, path and API name are logged; carrier
// URLs embed credentials in the query.
func RoundTripper(next http.RoundTripper, logger *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(req)

		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.String("path", req.URL.Path),
			zap.String("api", req.URL.Query().Get("API")),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Debug("request", append(fields, zap.Error(err))...)
			return resp, err
		}
		logger.Debug("request", append(fields, zap.Int("status", resp.StatusCode))...)
		return resp, nil
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
