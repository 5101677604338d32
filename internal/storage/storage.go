package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the on-disk page cache used by the fetcher.

// Store caches fetched page bodies keyed by URL.
type Store interface {
	Close() error
	GetPage(url string) ([]byte, bool, error)
	PutPage(url string, body []byte) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	PageTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultPageTTL         = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// Enabled reports whether s actually stores anything.
func Enabled(s Store) bool {
	_, noop := s.(noopStore)
	return s != nil && !noop
}

func normalizeOptions(opts Options) Options {
	if opts.PageTTL <= 0 {
		opts.PageTTL = defaultPageTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) GetPage(string) ([]byte, bool, error) { return nil, false, nil }
func (noopStore) PutPage(string, []byte) error         { return nil }
