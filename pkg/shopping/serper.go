// Package shopping is a small client for the Serper shopping search API.
package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Offer is one shopping search result.
type Offer struct {
	Title     string  `json:"title"`
	Source    string  `json:"source"`
	Link      string  `json:"link,omitempty"`
	Price     string  `json:"price"`
	Delivery  string  `json:"delivery,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Reviews   int     `json:"ratingCount,omitempty"`
	ProductID string  `json:"productId,omitempty"`
	Position  int     `json:"position,omitempty"`
}

// Config configures a Client.
type Config struct {
	APIKey   string
	URL      string
	Country  string
	Language string
	// RequestsPerSecond throttles outbound calls; 0 disables throttling.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client searches shopping offers.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{cfg: cfg, http: hc, limiter: limiter}
}

type searchRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl,omitempty"`
	HL string `json:"hl,omitempty"`
}

type searchResponse struct {
	Shopping []Offer `json:"shopping"`
}

// Search returns the shopping offers for query. An empty slice means no offers.
func (c *Client) Search(ctx context.Context, query string) ([]Offer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{Q: query, GL: c.cfg.Country, HL: c.cfg.Language})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopping search: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("shopping search: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shopping search: status=%d snippet=%q", resp.StatusCode, snippet(b))
	}

	var out searchResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("shopping search: invalid JSON: %v snippet=%q", err, snippet(b))
	}
	if out.Shopping == nil {
		return []Offer{}, nil
	}
	return out.Shopping, nil
}

func snippet(b []byte) string {
	s := string(bytes.TrimSpace(b))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
