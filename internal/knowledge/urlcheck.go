package knowledge

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ohs-consultant/pkg/metrics"

	"go.uber.org/zap"
)

const DefaultURLCheckTimeout = 5 * time.Second

// URLChecker reports whether a citation link answers. Implementations never
// fail: unreachable links come back as (false, nil).
type URLChecker interface {
	Check(ctx context.Context, rawURL string) (bool, *int)
}

// HTTPChecker issues a single HEAD request per check, following redirects.
type HTTPChecker struct {
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewHTTPChecker(timeout time.Duration, logger *zap.Logger) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultURLCheckTimeout
	}
	return &HTTPChecker{
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

func (c *HTTPChecker) Check(ctx context.Context, rawURL string) (bool, *int) {
	if strings.TrimSpace(rawURL) == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		c.logger.Warn("Invalid legal URL", zap.String("url", rawURL), zap.Error(err))
		metrics.URLChecks.WithLabelValues("error").Inc()
		return false, nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Legal URL check failed", zap.String("url", rawURL), zap.Error(err))
		metrics.URLChecks.WithLabelValues("error").Inc()
		return false, nil
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	valid := status >= http.StatusOK && status < http.StatusBadRequest
	metrics.URLChecks.WithLabelValues(metrics.Result(valid, "valid", "invalid")).Inc()

	return valid, &status
}
