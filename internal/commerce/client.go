// Package commerce fetches listings from the GraphQL commerce backend.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id of a fetch.
	RequestIDHeader = "X-Request-ID"

	defaultPageSize = 100
	// maxPages stops a backend that keeps reporting another page.
	maxPages = 50
	// maxErrorBody limits how much of a failed response is kept in the error.
	maxErrorBody = 512
)

// Client implements domain.ListingFetcher over the backend's products query.
type Client struct {
	endpoint   string
	channel    string
	pageSize   int
	token      string
	httpClient *http.Client
	logger     logging.Logger
}

var _ domain.ListingFetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithChannel selects the sales channel.
func WithChannel(channel string) Option {
	return func(c *Client) {
		if channel != "" {
			c.channel = channel
		}
	}
}

// WithPageSize sets how many products are requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the GraphQL endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		channel:    "default-channel",
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the commerce_* and session_token
// keys. opts are applied after the configured values.
func NewClientFromConfig(logger logging.Logger, opts ...Option) *Client {
	return NewClient(
		config.Get("commerce_endpoint", "http://localhost:8000/graphql/"),
		append([]Option{
			WithChannel(config.Get("commerce_channel", "default-channel")),
			WithPageSize(config.GetInt("commerce_page_size", defaultPageSize)),
			WithToken(config.Get("session_token", "")),
			WithLogger(logger),
		}, opts...)...,
	)
}

// FetchByCategory implements domain.ListingFetcher.
func (c *Client) FetchByCategory(ctx context.Context, categorySlug string) ([]domain.ListingItem, error) {
	return c.fetchAll(ctx, categorySlug, "")
}

// FetchByCategoryAndUser implements domain.ListingFetcher.
func (c *Client) FetchByCategoryAndUser(ctx context.Context, categorySlug, userID string) ([]domain.ListingItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrFetchFailed)
	}
	return c.fetchAll(ctx, categorySlug, userID)
}

func (c *Client) fetchAll(ctx context.Context, categorySlug, owner string) ([]domain.ListingItem, error) {
	requestID := domain.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := c.logger.With("request_id", requestID, "category", categorySlug)

	items := []domain.ListingItem{}
	after := ""
	for page := 0; page < maxPages; page++ {
		vars := map[string]any{
			"first":    c.pageSize,
			"channel":  c.channel,
			"category": categorySlug,
		}
		if after != "" {
			vars["after"] = after
		}
		if owner != "" {
			vars["owner"] = owner
		}

		conn, err := c.query(ctx, requestID, vars)
		if err != nil {
			log.Error("products query failed", "page", page, "error", err.Error())
			return nil, err
		}
		for _, edge := range conn.Edges {
			if categoryTruncated(edge.Node.Category) {
				log.Debug("category chain deeper than requested", "listing", edge.Node.ID, "depth", categoryDepth+2)
			}
			items = append(items, toListing(edge.Node))
		}
		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			log.Debug("products fetched", "pages", page+1, "count", len(items))
			return items, nil
		}
		after = conn.PageInfo.EndCursor
	}
	log.Warn("page limit reached", "pages", maxPages, "count", len(items))
	return items, nil
}

func (c *Client) query(ctx context.Context, requestID string, vars map[string]any) (*productConnection, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:         listingsQuery,
		OperationName: "Listings",
		Variables:     vars,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out listingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrFetchFailed, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrFetchFailed, strings.Join(msgs, "; "))
	}
	if out.Data.Products == nil {
		return nil, fmt.Errorf("%w: response has no products", domain.ErrFetchFailed)
	}
	return out.Data.Products, nil
}
