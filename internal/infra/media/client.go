// Package media uploads user media to the external object store over its
// HTTP API. Calls go through a bulkhead, a circuit breaker and retry with
// backoff so a flaky store cannot stall request handling.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/infra/resilience"

	"github.com/sony/gobreaker"
)

// Client talks to the object store's REST endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	retryCfg   resilience.Config
}

// NewClient creates an object store client.
func NewClient(baseURL, apiKey string, timeout time.Duration, retryCfg resilience.Config) *Client {
	concurrency := retryCfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewCircuitBreaker("object-store"),
		bulkhead:   resilience.NewBulkhead(concurrency),
		retryCfg:   retryCfg,
	}
}

// Upload stores data under bucket/objectPath and returns its public URL.
// An existing object at the same path is overwritten.
func (c *Client) Upload(ctx context.Context, bucket, objectPath, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, objectPath)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return "", err
	}
	defer c.bulkhead.Release()

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.retryCfg, func() error {
			return c.doUpload(ctx, uploadURL, contentType, data)
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &domain.ErrCircuitOpen{Service: "storage"}
		}
		return "", &domain.ErrExternalService{Service: "storage", Err: err}
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, objectPath), nil
}

func (c *Client) doUpload(ctx context.Context, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("object store returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
