package httpclient

import "context"

// CachingClient serves successful responses from a PageCache before hitting the network.
type CachingClient struct {
	inner Client
	cache PageCache
	// OnCacheError is notified when the cache fails; the request still proceeds.
	OnCacheError func(url string, err error)
}

// NewCachingClient wraps inner with cache. A nil cache returns inner unchanged.
// onErr may be nil.
func NewCachingClient(inner Client, cache PageCache, onErr func(url string, err error)) Client {
	if cache == nil {
		return inner
	}
	return &CachingClient{inner: inner, cache: cache, OnCacheError: onErr}
}

// Get returns the cached body when present, otherwise fetches and stores 2xx bodies.
func (c *CachingClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	body, ok, err := c.cache.GetPage(url)
	if err != nil {
		c.cacheError(url, err)
	} else if ok {
		return cachedResponse{body: body}, nil
	}

	resp, err := c.inner.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code >= 200 && code <= 299 {
		if err := c.cache.PutPage(url, resp.Body()); err != nil {
			c.cacheError(url, err)
		}
	}
	return resp, nil
}

func (c *CachingClient) cacheError(url string, err error) {
	if c.OnCacheError != nil {
		c.OnCacheError(url, err)
	}
}

type cachedResponse struct {
	body []byte
}

func (r cachedResponse) Body() []byte  { return r.body }
func (cachedResponse) StatusCode() int { return 200 }
