// Package vendorfeed pulls listing batches from vendor feed endpoints.
// Feeds are the external ingestion collaborator: they produce incoming
// listings, which the reconciler folds into the canonical catalog.
package vendorfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/supptrack/backend/internal/domain"
)

// Client fetches vendor listing feeds over HTTP
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new vendor feed client. Non-positive arguments fall
// back to a 30s timeout and one request per second with a small burst.
func NewClient(timeout time.Duration, ratePerSecond float64) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), 5),
	}
}

// exponentialBackoff returns the delay before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

// FetchListings pulls one vendor's listing feed and maps it to incoming
// listings stamped with the vendor id. Transient failures are retried up
// to three times.
func (c *Client) FetchListings(ctx context.Context, feedURL string, vendorID int64) ([]domain.IncomingListing, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.fetch(ctx, feedURL)
		if err != nil {
			zap.L().Warn("vendor feed request failed",
				zap.String("url", feedURL),
				zap.Int64("vendorId", vendorID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var items []feedItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: decode feed: %v", domain.ErrFeedUnavailable, err)
		}

		zap.L().Info("fetched vendor feed",
			zap.Int64("vendorId", vendorID),
			zap.Int("listings", len(items)),
		)
		return mapListings(items, vendorID), nil
	}

	return nil, lastErr
}

// fetch executes one GET against the feed URL
func (c *Client) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "supptrack/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFeedUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	return body, nil
}
