// Package fetch downloads user-supplied image URLs into memory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"productshot/internal/domain"
	"productshot/internal/infra"
)

// quoteArtifact is an encoded double quote left behind by sources that
// over-encode copied URLs.
const quoteArtifact = "%22"

// StripQuoteArtifact removes a single literal trailing %22. Nothing else in
// the URL is decoded.
func StripQuoteArtifact(raw string) string {
	return strings.TrimSuffix(raw, quoteArtifact)
}

// Options configures a Fetcher.
type Options struct {
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Fetcher performs single-shot GET requests for image bytes.
type Fetcher struct {
	httpClient *http.Client
	logger     *infra.Logger
}

// NewFetcher constructs a Fetcher. A nil HTTPClient uses the transport defaults.
func NewFetcher(opts Options) *Fetcher {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Fetcher{httpClient: httpClient, logger: logger}
}

// FetchBytes downloads rawURL and returns the full body. There are no retries.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	cleaned := StripQuoteArtifact(strings.TrimSpace(rawURL))
	parsed, err := url.Parse(cleaned)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, domain.NewValidationError("url", fmt.Sprintf("invalid image url: %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpFetch, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpFetch, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Op: domain.OpFetch, StatusCode: resp.StatusCode, Body: string(body)}
	}

	f.logger.Debug().
		Str("url", parsed.Redacted()).
		Int("bytes", len(body)).
		Msg("fetch: downloaded image")
	return body, nil
}
