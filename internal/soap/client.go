package soap

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
	"unicode/utf8"
)

const (
	defaultTimeout          = 60 * time.Second
	defaultMaxResponseBytes = 64 << 20 // 64MB, document binaries travel inline
	defaultUserAgent        = "econnect-gateway/1.0"
)

var ErrInvalidEndpoint = errors.New("soap: invalid endpoint")

type Options struct {
	Namespace        string        // target namespace of the operation wrapper element
	Timeout          time.Duration // default 60s, applied to the http client
	MaxResponseBytes int64         // default 64MB
	Probe            bool          // GET endpoint?wsdl on Dial
	UserAgent        string
	HTTPClient       *http.Client // overrides Timeout when set
}

// Client is safe for concurrent use; it holds no per-call state.
type Client struct {
	endpoint  string
	namespace string
	maxBytes  int64
	userAgent string
	http      *http.Client
}

// Dial validates endpoint and returns a client bound to it. With opts.Probe it
// also checks that the endpoint answers at all; any HTTP response counts.
func Dial(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxResponseBytes <= 0 {
		opts.MaxResponseBytes = defaultMaxResponseBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		endpoint:  u.String(),
		namespace: opts.Namespace,
		maxBytes:  opts.MaxResponseBytes,
		userAgent: opts.UserAgent,
		http:      hc,
	}

	if opts.Probe {
		if err := c.probe(ctx); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Client) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?wsdl", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("soap: probe %s: %w", c.endpoint, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<20))
	_ = res.Body.Close()

	return nil
}

// Call invokes operation with params as the children of the request wrapper
// and returns the decoded response wrapper. SOAP faults come back as *Fault.
func (c *Client) Call(ctx context.Context, operation string, params Params) (Object, error) {
	body, err := buildEnvelope(c.namespace, operation, params)
	if err != nil {
		return nil, fmt.Errorf("soap: encode %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("soap: %s: %w", operation, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `""`)
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("soap: %s: %w", operation, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("soap: %s: read response: %w", operation, err)
	}
	if int64(len(raw)) > c.maxBytes {
		return nil, fmt.Errorf("soap: %s: response exceeds %d bytes", operation, c.maxBytes)
	}

	obj, err := decodeResponse(raw)
	if err != nil {
		var f *Fault
		if errors.As(err, &f) {
			return nil, f
		}
		if res.StatusCode/100 != 2 {
			return nil, &HTTPError{StatusCode: res.StatusCode, Body: truncate(string(raw), 512)}
		}
		return nil, fmt.Errorf("soap: %s: %w", operation, err)
	}
	if res.StatusCode/100 != 2 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: truncate(string(raw), 512)}
	}

	return obj, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
