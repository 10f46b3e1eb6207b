package esports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/dnscache"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout  = 10 * time.Second
	MaxResponseSize = 8 * 1024 * 1024 // 8MB
	UserAgent       = "lol-esports-mcp/0.1"
)

// ErrTimeout is returned when an upstream request exceeds its deadline.
var ErrTimeout = errors.New("esports: request timed out")

// StatusError reports a non-2xx upstream response. Message carries the
// upstream's own explanation when the body had one.
type StatusError struct {
	Status  int
	URL     string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("esports: %s returned status %d: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("esports: %s returned status %d", e.URL, e.Status)
}

// errorMessage digs the human-readable reason out of an error body. The API
// uses both {"message": ...} and {"error": {"message": ...}} shapes.
func errorMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"error.message", "message", "error"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}

// ClientOptions configures the upstream HTTP client.
type ClientOptions struct {
	BaseURL string
	APIKey  string
	// Timeout aborts a transfer that takes longer; zero means DefaultTimeout.
	Timeout time.Duration
	// Parallelism caps concurrent upstream requests; zero means unlimited.
	Parallelism int
	// Resolver, when set, caches DNS lookups for upstream dials.
	Resolver *dnscache.Resolver
}

// Client issues GET requests against the esports API and decodes JSON bodies.
// It is safe for concurrent use: each request runs on a clone of the base
// collector, sharing its transport and limits.
type Client struct {
	c       *colly.Collector
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient validates the base URL and builds the shared collector.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.Async(false),
		colly.MaxBodySize(MaxResponseSize),
		colly.UserAgent(UserAgent),
	)
	c.WithTransport(newTransport(opts.Resolver))
	if opts.Parallelism > 0 {
		if err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: opts.Parallelism,
		}); err != nil {
			return nil, fmt.Errorf("set limit rule: %w", err)
		}
	}
	c.SetRequestTimeout(timeout)
	return &Client{
		c:       c,
		baseURL: base.String(),
		apiKey:  opts.APIKey,
		timeout: timeout,
	}, nil
}

// BaseURL returns the normalized API root.
func (cl *Client) BaseURL() string { return cl.baseURL }

// Get fetches endpoint with the given query and decodes the JSON body into out.
func (cl *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target := cl.buildURL(endpoint, query)

	c := cl.c.Clone()
	c.Context = ctx

	var body, errBody []byte
	var status int
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		if cl.apiKey != "" {
			r.Headers.Set("x-api-key", cl.apiKey)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
			errBody = r.Body
		}
	})

	if err := c.Visit(target); err != nil {
		return cl.classify(ctx, target, status, errBody, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("esports: empty response body from %s", target)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("esports: decode %s: %w", endpoint, err)
	}
	return nil
}

func (cl *Client) buildURL(endpoint string, query url.Values) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := cl.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (cl *Client) classify(ctx context.Context, target string, status int, body []byte, err error) error {
	if status >= 300 {
		return &StatusError{Status: status, URL: target, Message: errorMessage(body)}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, cl.timeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, cl.timeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("esports: get %s: %w", target, err)
}
