package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"safvacut-wallet-go/internal/transport"

	"go.uber.org/zap"
)

// Unknown is recorded whenever the address cannot be resolved.
const Unknown = "Unknown"

// Resolver looks up the caller's public IP address.
type Resolver interface {
	PublicIP(ctx context.Context) string
}

// Client queries an ipify-compatible endpoint returning {"ip": "..."}.
type Client struct {
	url     string
	timeout time.Duration
	http    http.Client
}

func NewClient(url string, timeout time.Duration) (*Client, error) {
	httpClient, err := transport.NewHttpClient(timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	return &Client{url: url, timeout: timeout, http: httpClient}, nil
}

// PublicIP never fails; any error yields Unknown.
func (c *Client) PublicIP(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ip, err := c.lookup(ctx)
	if err != nil {
		zap.L().Debug("Public IP lookup failed", zap.String("url", c.url), zap.Error(err))
		return Unknown
	}
	return ip
}

func (c *Client) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Ip string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Ip == "" {
		return "", fmt.Errorf("empty ip in response")
	}
	return body.Ip, nil
}

// Static always returns the same address. Used when lookups are disabled.
type Static string

func (s Static) PublicIP(context.Context) string {
	if s == "" {
		return Unknown
	}
	return string(s)
}
