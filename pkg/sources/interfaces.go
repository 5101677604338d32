package sources

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/httpclient"
)

// Source is one supported newspaper: it lists a day's archive and extracts articles.
// Concrete implementations live in source-specific files (e.g., larepubblica.go).
type Source interface {
	Descriptor() Descriptor
	// ListArticleURLs returns the article links of one archive page, or of the
	// whole day when page is 0.
	ListArticleURLs(ctx context.Context, day time.Time, page int) ([]domain.Link, error)
	// ArchiveSize returns the number of archive pages published for day.
	ArchiveSize(ctx context.Context, day time.Time) (int, error)
	// Extract fetches and parses one article page.
	Extract(ctx context.Context, link domain.Link) (domain.Article, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
