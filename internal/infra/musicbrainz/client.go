// Package musicbrainz is a minimal client for the MusicBrainz ws/2 JSON API.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/resolution/metrics"
)

const (
	recordingIncludes = "artists+releases+work-rels"
	workIncludes      = "recording-rels"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Config holds client settings.
type Config struct {
	URL       string        `yaml:"url"`        // base url, e.g. https://musicbrainz.org
	UserAgent string        `yaml:"user_agent"` // mandatory per MusicBrainz policy
	RateLimit float64       `yaml:"rate_limit"` // requests per second
	Timeout   time.Duration `yaml:"timeout"`    // per request
}

// DefaultConfig matches the public server's policy of one request per second.
var DefaultConfig = Config{
	URL:       "https://musicbrainz.org",
	UserAgent: "oldestdate/1.0.0 ( https://github.com/vietddude/oldestdate )",
	RateLimit: 1,
	Timeout:   30 * time.Second,
}

// APIError is a non-retryable error answer from the web service.
type APIError struct {
	Entity     string
	ID         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("musicbrainz %s %s: http %d: %s", e.Entity, e.ID, e.StatusCode, e.Body)
}

// Unwrap maps 404 answers to domain.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// Client fetches recordings and works. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter

	Monitor *Monitor
}

// NewClient creates a new MusicBrainz client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultConfig.URL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig.UserAgent
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultConfig.RateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig.Timeout
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		Monitor: NewMonitor(),
	}
}

// GetRecordingByID fetches a recording with its artists, releases and work
// relations.
func (c *Client) GetRecordingByID(ctx context.Context, id string) (*domain.Recording, error) {
	var resp recordingResponse
	if err := c.get(ctx, "recording", id, recordingIncludes, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// GetWorkByID fetches a work with its recording relations.
func (c *Client) GetWorkByID(ctx context.Context, id string) (*domain.Work, error) {
	var resp workResponse
	if err := c.get(ctx, "work", id, workIncludes, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// Close cleans up resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) get(ctx context.Context, entity, id, inc string, out any) error {
	op := "get " + entity
	outcome := "error"
	start := time.Now()
	defer func() {
		metrics.FetchTotal.WithLabelValues(entity, outcome).Inc()
		metrics.FetchLatency.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	}()

	if err := c.wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/ws/2/%s/%s?inc=%s&fmt=json", c.baseURL, entity, url.PathEscape(id), inc)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.Monitor.RecordFailure()
		outcome = "network_error"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	// MusicBrainz answers 503 when the rate limit is exceeded
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		c.Monitor.RecordThrottle(resp.Header.Get("Retry-After"))
		outcome = "throttled"
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("rate limited (%d)", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Monitor.RecordFailure()
		outcome = "network_error"
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.Monitor.RecordFailure()
		outcome = "network_error"
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("http %d: %s", resp.StatusCode, truncate(body))}
	}

	if resp.StatusCode != http.StatusOK {
		c.Monitor.RecordFailure()
		apiErr := &APIError{Entity: entity, ID: id, StatusCode: resp.StatusCode, Body: truncate(body)}
		if errors.Is(apiErr, domain.ErrNotFound) {
			outcome = "not_found"
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.Monitor.RecordFailure()
		return fmt.Errorf("parse %s %s: %w", entity, id, err)
	}

	c.Monitor.RecordRequest(time.Since(start))
	outcome = "ok"
	return nil
}

// wait blocks until the rate limiter and any Retry-After window allow a
// request.
func (c *Client) wait(ctx context.Context) error {
	if d := c.Monitor.RetryAfter(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return c.limiter.Wait(ctx)
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
