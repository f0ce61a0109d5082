package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// DefaultPageTemplate is the path of a numbered listing page, relative to the site root
const DefaultPageTemplate = "catalogue/page-%d.html"

// Client retrieves numbered catalogue listing pages
type Client struct {
	BaseURL      *url.URL
	PageTemplate string
	http         *resty.Client
}

// NewClient creates a catalogue client for the site rooted at baseURL
func NewClient(baseURL *url.URL, http *resty.Client) *Client {
	return &Client{
		BaseURL:      baseURL,
		PageTemplate: DefaultPageTemplate,
		http:         http,
	}
}

// PageURL returns the absolute URL of a 1-based listing page
func (c *Client) PageURL(page int) string {
	ref := &url.URL{Path: fmt.Sprintf(c.PageTemplate, page)}
	return c.BaseURL.ResolveReference(ref).String()
}

// FetchPage retrieves one listing page. ok is false when the site answered
// with a non-success status.
func (c *Client) FetchPage(ctx context.Context, page int) ([]byte, bool, error) {
	pageURL := c.PageURL(page)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}

	if !resp.IsSuccess() {
		slog.Debug("Catalogue page returned non-success status", "page", page, "url", pageURL, "status", resp.StatusCode())
		return nil, false, nil
	}

	return resp.Body(), true, nil
}

// Pages visits pages 1..limit in order, handing each body to fn. Iteration
// ends without error at the first page that cannot be retrieved, since the
// site may run out of pages before the limit. Errors returned by fn, and
// context cancellation, are returned to the caller.
// The number of pages handed to fn is returned.
func (c *Client) Pages(ctx context.Context, limit int, fn func(page int, body []byte) error) (int, error) {
	visited := 0
	for page := 1; page <= limit; page++ {
		body, ok, err := c.FetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return visited, ctx.Err()
			}
			slog.Warn("Stopping at unreachable catalogue page", "page", page, "error", err)
			return visited, nil
		}
		if !ok {
			slog.Info("Catalogue ended before page limit", "page", page, "limit", limit)
			return visited, nil
		}

		visited++
		if err := fn(page, body); err != nil {
			return visited, err
		}
	}

	return visited, nil
}
