package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

func TestFetchReturnsBodyOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "UA" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.Header.Get("Accept-Language"); got != "it" {
			t.Errorf("Accept-Language = %q", got)
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := NewRestyClient(2*time.Second, map[string]string{"User-Agent": "UA"})
	body, err := Fetch(context.Background(), client, srv.URL, map[string]string{"Accept-Language": "it"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Fatalf("body = %q", body)
	}
}

func TestFetchMapsStatusToFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), NewRestyClient(time.Second, nil), srv.URL, nil)
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusNotFound || fe.Snippet != "gone" {
		t.Fatalf("unexpected FetchError %+v", fe)
	}
}

func TestFetchMapsTransportError(t *testing.T) {
	client := stubClient{err: errors.New("dial tcp: refused")}
	_, err := Fetch(context.Background(), client, "https://example.com", nil)
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Err == nil {
		t.Fatalf("expected FetchError wrapping transport error, got %v", err)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", MaxBodyBytes+1)))
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), NewRestyClient(5*time.Second, nil), srv.URL, nil)
	var fe *domain.FetchError
	if !errors.As(err, &fe) || !errors.Is(err, resty.ErrResponseBodyTooLarge) {
		t.Fatalf("expected FetchError wrapping the body limit, got %v", err)
	}
	if body != nil {
		t.Fatalf("expected no body, got %d bytes", len(body))
	}
}

func TestFetchRejectsOversizedBodyFromAnyClient(t *testing.T) {
	client := stubClient{resp: stubResponse{status: http.StatusOK, body: make([]byte, MaxBodyBytes+1)}}
	_, err := Fetch(context.Background(), client, "https://example.com/huge", nil)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.URL != "https://example.com/huge" {
		t.Fatalf("expected FetchError for the url, got %v", err)
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	if got := Snippet(long); len(got) != maxSnippetLen+3 {
		t.Fatalf("snippet length %d", len(got))
	}
}

type stubResponse struct {
	body   []byte
	status int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

type stubClient struct {
	resp  stubResponse
	err   error
	calls *int
}

func (s stubClient) Get(context.Context, string, map[string]string) (Response, error) {
	if s.calls != nil {
		*s.calls++
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type memoryCache struct {
	pages map[string][]byte
}

func (m *memoryCache) GetPage(url string) ([]byte, bool, error) {
	b, ok := m.pages[url]
	return b, ok, nil
}

func (m *memoryCache) PutPage(url string, body []byte) error {
	m.pages[url] = body
	return nil
}

func TestCachingClientServesSecondRequestFromCache(t *testing.T) {
	calls := 0
	inner := stubClient{resp: stubResponse{body: []byte("page"), status: 200}, calls: &calls}
	cache := &memoryCache{pages: map[string][]byte{}}
	client := NewCachingClient(inner, cache, nil)

	for i := 0; i < 2; i++ {
		body, err := Fetch(context.Background(), client, "https://example.com/a", nil)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if string(body) != "page" {
			t.Fatalf("body = %q", body)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 network call, got %d", calls)
	}
}

func TestCachingClientSkipsErrorResponses(t *testing.T) {
	calls := 0
	inner := stubClient{resp: stubResponse{body: []byte("nope"), status: 500}, calls: &calls}
	cache := &memoryCache{pages: map[string][]byte{}}
	client := NewCachingClient(inner, cache, nil)

	for i := 0; i < 2; i++ {
		if _, err := Fetch(context.Background(), client, "https://example.com/a", nil); err == nil {
			t.Fatalf("expected error")
		}
	}
	if calls != 2 || len(cache.pages) != 0 {
		t.Fatalf("error responses must not be cached (calls=%d cached=%d)", calls, len(cache.pages))
	}
}

func TestNewCachingClientNilCache(t *testing.T) {
	inner := &stubClient{}
	if got := NewCachingClient(inner, nil, nil); got != Client(inner) {
		t.Fatalf("expected inner client back")
	}
}

type failingCache struct{}

func (failingCache) GetPage(string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}
func (failingCache) PutPage(string, []byte) error { return errors.New("cache down") }

func TestCachingClientReportsCacheErrors(t *testing.T) {
	calls := 0
	inner := stubClient{resp: stubResponse{body: []byte("page"), status: 200}, calls: &calls}
	var reported []string
	client := NewCachingClient(inner, failingCache{}, func(url string, _ error) {
		reported = append(reported, url)
	})

	body, err := Fetch(context.Background(), client, "https://example.com/a", nil)
	if err != nil || string(body) != "page" {
		t.Fatalf("Fetch = %q, %v", body, err)
	}
	if len(reported) != 2 {
		t.Fatalf("expected get and put failures to be reported, got %v", reported)
	}
}
