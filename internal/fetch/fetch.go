// Package fetch performs the unauthenticated HTTP(S) GETs the pipeline
// needs: the watermark image and remote source documents.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors for fetch operations.
var (
	ErrInvalidURL    = errors.New("invalid URL")
	ErrRequest       = errors.New("request failed")
	ErrStatus        = errors.New("unexpected HTTP status")
	ErrBodyTooLarge  = errors.New("response body exceeds limit")
	ErrEmptyResponse = errors.New("empty response body")
)

// DefaultMaxBytes caps response bodies (64 MiB).
const DefaultMaxBytes = 64 << 20

// Response is a fully read response body plus its declared content type.
type Response struct {
	Body        []byte
	ContentType string
}

// Client fetches remote resources with a size cap.
type Client struct {
	HTTP     *http.Client
	MaxBytes int64
}

// NewClient returns a Client using hc, or http.DefaultClient when hc is nil.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{HTTP: hc, MaxBytes: DefaultMaxBytes}
}

// Get fetches url and reads the whole body. Non-2xx statuses are errors.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if !IsHTTP(url) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %d", ErrStatus, url, res.StatusCode)
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRequest, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, limit)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, url)
	}

	return &Response{Body: body, ContentType: res.Header.Get("Content-Type")}, nil
}

// IsHTTP reports whether s is an http:// or https:// URL.
func IsHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
