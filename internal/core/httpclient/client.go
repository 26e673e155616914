package httpclient

import (
	"net/http"
	"time"

	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/metrics"
	"flow-seal-proxy/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging and metrics.
// Query strings are never logged because they carry customer emails.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Metrics records per-host request counts and latencies. May be nil.
	Metrics *metrics.Recorder
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		lrt.Metrics.Upstream(req.URL.Host, 0, duration)
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	lrt.Metrics.Upstream(req.URL.Host, resp.StatusCode, duration)
	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware, the given timeout and outbound proxy.
func NewClient(timeout time.Duration, p proxy.Settings, m *metrics.Recorder) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = p.Func()

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
			Metrics: m,
		},
		Timeout: timeout,
	}
}
