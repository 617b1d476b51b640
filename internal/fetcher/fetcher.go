// Package fetcher provides the HTTP client shared by the crawler and the
// live-web retrieval strategies.
package fetcher

import (
	"context"
	"crypto/tls"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every fetch, including fallback-provider calls.
const DefaultTimeout = 12 * time.Second

// Result is the outcome of a single HTTP request.
type Result struct {
	StatusCode   int
	Body         string
	ContentType  string
	ETag         string
	LastModified string
	FinalURL     string
}

// OK reports whether the response carried a 2xx status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client is the fetch interface consumed by the crawler and retrieval
// strategies. Tests substitute an in-memory implementation.
type Client interface {
	Get(ctx context.Context, rawURL string) (*Result, error)
	PostJSON(ctx context.Context, rawURL string, headers map[string]string, body, out interface{}) (*Result, error)
}

// Config holds fetcher configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// InsecureHosts lists hostnames whose TLS certificates are not verified.
	// Some government sites present incomplete chains.
	InsecureHosts []string
}

// Fetcher is the resty-backed Client implementation.
type Fetcher struct {
	client         *resty.Client
	insecureClient *resty.Client
	insecureHosts  map[string]bool
}

// New creates a Fetcher.
// Parameters:
//   - cfg: fetcher configuration; nil uses defaults.
//
// Returns:
//   - *Fetcher: initialized fetcher.
func New(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	build := func(insecure bool) *resty.Client {
		c := resty.New().
			SetTimeout(timeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		if cfg.UserAgent != "" {
			c.SetHeader("User-Agent", cfg.UserAgent)
		}
		if insecure {
			c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
		return c
	}

	insecureHosts := make(map[string]bool, len(cfg.InsecureHosts))
	for _, h := range cfg.InsecureHosts {
		insecureHosts[h] = true
	}

	return &Fetcher{
		client:         build(false),
		insecureClient: build(true),
		insecureHosts:  insecureHosts,
	}
}

func (f *Fetcher) clientFor(rawURL string) *resty.Client {
	if len(f.insecureHosts) == 0 {
		return f.client
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return f.client
	}
	if f.insecureHosts[u.Hostname()] {
		return f.insecureClient
	}
	return f.client
}

// Get performs a GET request following redirects and capturing the cache
// validators the crawler stores (etag, last-modified).
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	resp, err := f.clientFor(rawURL).R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, err
	}
	return resultFrom(resp), nil
}

// PostJSON posts a JSON body and decodes a JSON response into out.
func (f *Fetcher) PostJSON(ctx context.Context, rawURL string, headers map[string]string, body, out interface{}) (*Result, error) {
	req := f.clientFor(rawURL).R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(rawURL)
	if err != nil {
		return nil, err
	}
	return resultFrom(resp), nil
}

func resultFrom(resp *resty.Response) *Result {
	finalURL := ""
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}
	return &Result{
		StatusCode:   resp.StatusCode(),
		Body:         string(resp.Body()),
		ContentType:  resp.Header().Get("Content-Type"),
		ETag:         resp.Header().Get("ETag"),
		LastModified: resp.Header().Get("Last-Modified"),
		FinalURL:     finalURL,
	}
}
