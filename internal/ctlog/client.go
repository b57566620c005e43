package ctlog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

const (
	// DefaultEndpoint is the crt.sh search URL.
	DefaultEndpoint = "https://crt.sh/"

	// DefaultTimeout bounds a whole query including the body read.
	DefaultTimeout = 10 * time.Second
)

// Client queries a certificate transparency search service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client, for example one that dials
// through a SOCKS5 proxy.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithEndpoint sets the search URL.
func WithEndpoint(endpoint string) Option {
	return func(cl *Client) {
		if endpoint != "" {
			cl.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		endpoint:   DefaultEndpoint,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryURL returns the search URL for every certificate under domain.
// The query is "%.<domain>" with the percent sign encoded.
func (c *Client) QueryURL(domain string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	u.RawQuery = "q=%25." + url.QueryEscape(domain) + "&output=json"
	return u.String(), nil
}

// Subdomains returns every name found in certificates issued under domain.
// On any failure the result carries the error and no subdomains.
func (c *Client) Subdomains(ctx context.Context, domain string) model.HarvestResult {
	result := model.HarvestResult{Domain: domain}

	queryURL, err := c.QueryURL(domain)
	if err != nil {
		result.Err = err
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		result.Err = fmt.Errorf("failed to create request: %w", err)
		return result
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("querying certificate transparency", "domain", domain, "url", queryURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("request failed: %w", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return result
	}

	names, err := parseEntries(resp.Body)
	if err != nil {
		result.Err = err
		return result
	}
	result.Subdomains = names

	c.logger.Debug("certificate transparency answered",
		"domain", domain,
		"subdomains", len(names),
	)
	return result
}
