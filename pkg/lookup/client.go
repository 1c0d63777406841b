package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Query parameter names sent to the endpoint.
const (
	ParamParent = "parent_submission_id"
	ParamSource = "child_form_id"
)

// DefaultCacheSize bounds the response cache when none is configured.
const DefaultCacheSize = 256

// Choice is one {id, text} pair returned by the endpoint.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Query identifies one lookup.
type Query struct {
	ParentID string
	SourceID string
}

// RemoteError carries the endpoint's {"error": "..."} payload.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("lookup: remote error (status %d): %s", e.Status, e.Message)
}

// Fetcher resolves a query to its choices.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]Choice, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default client (10s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithCacheSize sets the number of cached queries. Zero or less disables
// caching.
func WithCacheSize(n int) ClientOption {
	return func(cl *Client) {
		cl.cacheSize = n
	}
}

// Client fetches choices over HTTP and caches successful responses.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	cacheSize int
	cache     *lru.Cache[Query, []Choice]
}

var _ Fetcher = (*Client)(nil)

// NewClient builds a Client for endpoint.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("lookup: endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("lookup: parse endpoint: %w", err)
	}
	c := &Client{
		endpoint:  parsed,
		http:      &http.Client{Timeout: 10 * time.Second},
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[Query, []Choice](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("lookup: cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Fetch issues GET endpoint?parent_submission_id=..&child_form_id=.. and
// decodes either a list of choices or an error object.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Choice, error) {
	if c == nil {
		return nil, errors.New("lookup: client is nil")
	}
	if c.cache != nil {
		if cached, ok := c.cache.Get(q); ok {
			return append([]Choice(nil), cached...), nil
		}
	}

	reqURL := *c.endpoint
	params := reqURL.Query()
	params.Set(ParamParent, q.ParentID)
	params.Set(ParamSource, q.SourceID)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("lookup: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("lookup: read body: %w", err)
	}
	choices, err := decodeChoices(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(q, append([]Choice(nil), choices...))
	}
	return choices, nil
}

func decodeChoices(status int, body []byte) ([]Choice, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("lookup: decode: %w", err)
		}
		msg := payload.Error
		if msg == "" {
			msg = "unexpected object response"
		}
		return nil, &RemoteError{Status: status, Message: msg}
	}
	if status < 200 || status >= 300 {
		return nil, &RemoteError{Status: status, Message: http.StatusText(status)}
	}

	var raw []struct {
		ID   json.RawMessage `json:"id"`
		Text string          `json:"text"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("lookup: decode: %w", err)
	}
	choices := make([]Choice, 0, len(raw))
	for _, item := range raw {
		id := rawID(item.ID)
		if id == "" {
			continue
		}
		choices = append(choices, Choice{ID: id, Text: item.Text})
	}
	return choices, nil
}

// rawID accepts both numeric and string ids.
func rawID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}
