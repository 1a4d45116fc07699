package imageurl

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Checker reports whether a URL currently serves a resource.
// Implementations never fail: any problem reads as "not found".
type Checker interface {
	Exists(ctx context.Context, url string) bool
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context, url string) bool

func (f CheckerFunc) Exists(ctx context.Context, url string) bool {
	return f(ctx, url)
}

// NotFound finds nothing and keeps no state. Offline runs use it so every
// image resolves to its fallback URL.
var NotFound Checker = CheckerFunc(func(context.Context, string) bool { return false })

// DefaultProbeTimeout bounds a single existence check.
const DefaultProbeTimeout = 5 * time.Second

// HTTPChecker probes URLs over HTTP. A HEAD request is tried first; hosts
// that answer 405 Method Not Allowed are retried with GET. Any 2xx after
// redirects counts as found.
type HTTPChecker struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPChecker returns an HTTPChecker whose probes time out after timeout.
// A zero timeout uses DefaultProbeTimeout.
func NewHTTPChecker(timeout time.Duration, logger *zap.Logger) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPChecker{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewHTTPCheckerWithClient uses a caller-supplied client.
func NewHTTPCheckerWithClient(client *http.Client, logger *zap.Logger) *HTTPChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPChecker{client: client, logger: logger}
}

func (h *HTTPChecker) Exists(ctx context.Context, url string) bool {
	status, err := h.do(ctx, http.MethodHead, url)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = h.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		h.logger.Debug("image probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	h.logger.Debug("image probe", zap.String("url", url), zap.Int("status", status))
	return status >= 200 && status < 300
}

func (h *HTTPChecker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
