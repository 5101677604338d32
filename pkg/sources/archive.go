package sources

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/httpclient"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// pickFunc turns one listing entry into a link, or rejects it.
type pickFunc func(pageURL string, entry *goquery.Selection) (domain.Link, bool)

// archive holds the listing behaviour shared by every date-archive source.
type archive struct {
	desc   Descriptor
	client HTTPClient
	pick   pickFunc
}

// fetchDocument downloads url with the source headers and parses it.
func (a *archive) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := httpclient.Fetch(ctx, a.client, url, Headers(a.desc))
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Field: "document", Err: err}
	}
	return doc, nil
}

// listPage returns the links of one archive page plus the parsed page.
func (a *archive) listPage(ctx context.Context, day time.Time, page int) ([]domain.Link, *goquery.Document, error) {
	pageURL := a.desc.ArchivePageURL(day, page)
	doc, err := a.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}

	var links []domain.Link
	doc.Find(a.desc.Listing.ArticleSelector).Each(func(_ int, entry *goquery.Selection) {
		link, ok := a.pick(pageURL, entry)
		if !ok || !a.desc.OwnsURL(link.URL) {
			return
		}
		link.Day = day
		links = append(links, link)
	})
	return links, doc, nil
}

// pageCount reads the last number of the pagination block; one page when absent.
func (a *archive) pageCount(doc *goquery.Document) int {
	sel := a.desc.Listing.PaginationSelector
	if sel == "" || doc == nil {
		return 1
	}
	nums := digitsPattern.FindAllString(doc.Find(sel).First().Text(), -1)
	if len(nums) == 0 {
		return 1
	}
	n, err := strconv.Atoi(nums[len(nums)-1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ArchiveSize returns the number of archive pages for day.
func (a *archive) ArchiveSize(ctx context.Context, day time.Time) (int, error) {
	doc, err := a.fetchDocument(ctx, a.desc.ArchivePageURL(day, 1))
	if err != nil {
		return 0, err
	}
	return a.pageCount(doc), nil
}

// ListArticleURLs lists a single page, or the whole day according to the
// descriptor's pagination. When one page of a multi-page day fails, the links of
// the other pages are still returned together with the error.
func (a *archive) ListArticleURLs(ctx context.Context, day time.Time, page int) ([]domain.Link, error) {
	if page < 0 {
		return nil, &domain.InvalidRangeError{Reason: fmt.Sprintf("page %d must be positive", page)}
	}
	if page > 0 {
		links, _, err := a.listPage(ctx, day, page)
		return links, err
	}

	links, doc, err := a.listPage(ctx, day, 1)
	if err != nil || a.desc.Pagination != PaginateAll {
		return links, err
	}

	seen := make(map[string]struct{}, len(links))
	out := make([]domain.Link, 0, len(links))
	add := func(ls []domain.Link) {
		for _, l := range ls {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
			out = append(out, l)
		}
	}
	add(links)

	var errs []error
	for p, total := 2, a.pageCount(doc); p <= total; p++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		more, _, err := a.listPage(ctx, day, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("archive page %d: %w", p, err))
			continue
		}
		add(more)
	}
	return out, errors.Join(errs...)
}
