package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// PageCache stores successful page bodies keyed by URL.
type PageCache interface {
	GetPage(url string) ([]byte, bool, error)
	PutPage(url string, body []byte) error
}
