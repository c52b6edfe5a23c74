package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Client talks to the external fake-news scoring service.
type Client struct {
	endpoint  string
	healthURL string
	apiKey    string
	http      *http.Client
}

var (
	_ ports.Classifier    = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// NewClient creates a reusable HTTP client. cfg.Timeout of zero leaves calls unbounded.
func NewClient(cfg config.ClassifierConfig) *Client {
	health := cfg.HealthURL
	if health == "" {
		health = deriveHealthURL(cfg.Endpoint)
	}
	return &Client{
		endpoint:  cfg.Endpoint,
		healthURL: health,
		apiKey:    cfg.APIKey,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Classify posts {"text": text} and decodes the verdict.
func (c *Client) Classify(ctx context.Context, text string) (domain.Verdict, error) {
	if c.endpoint == "" {
		return domain.Verdict{}, fmt.Errorf("classifier endpoint is not configured: %w", domain.ErrClassifierUnreachable)
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Verdict{}, &domain.StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(payload)),
		}
	}

	var verdict domain.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return domain.Verdict{}, fmt.Errorf("decode response: %w", err)
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return domain.Verdict{}, fmt.Errorf("confidence %v outside [0,1]", verdict.Confidence)
	}

	return verdict, nil
}

// Health calls the service health endpoint and expects 200.
func (c *Client) Health(ctx context.Context) error {
	if c.healthURL == "" {
		return fmt.Errorf("health url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrClassifierUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &domain.StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(payload))}
	}
	return nil
}

func deriveHealthURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/health"
}
