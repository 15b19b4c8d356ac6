package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/tackcheck/internal/ports"
)

const (
	maxResponseBytes      = 4 << 20
	defaultRequestTimeout = 15 * time.Second
)

// Fetcher GETs a JSON document over HTTP.
type Fetcher struct {
	URL            string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Fetcher = Fetcher{}

func (f Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	endpoint, err := validateURL(f.URL)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := f.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch source: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read source body: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("source body exceeds %d bytes", maxResponseBytes)
	}

	return body, nil
}

func (f Fetcher) httpClient() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

func (f Fetcher) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := f.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func validateURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("source url is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse source url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("source url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("source url host is required")
	}

	return parsed.String(), nil
}
