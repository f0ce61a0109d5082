package pipeline

import (
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// NewHTTPClient builds the resty client shared by the page and cover fetchers.
// Retries stay disabled: a failed page ends the run and a failed cover is skipped.
func NewHTTPClient(timeout time.Duration, userAgent string) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		slog.Debug("http response",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"bytes", len(res.Body()),
			"duration", res.Time(),
		)
		return nil
	})

	return client
}
