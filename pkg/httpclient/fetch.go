package httpclient

import (
	"context"
	"errors"
	"strings"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

const (
	// MaxBodyBytes is the largest page body accepted from a source.
	MaxBodyBytes = 4 << 20 // 4 MiB

	maxSnippetLen = 512
)

// ErrBodyTooLarge reports a page larger than MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds 4 MiB limit")

// Fetch GETs url and returns the body of a 2xx response.
// Every failure is reported as a *domain.FetchError.
func Fetch(ctx context.Context, client Client, url string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &domain.FetchError{URL: url, StatusCode: code, Snippet: Snippet(body)}
	}
	if len(body) > MaxBodyBytes {
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode(), Err: ErrBodyTooLarge}
	}
	return body, nil
}

// Snippet returns a trimmed prefix of body suitable for error messages.
func Snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	return s
}
