package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

const (
	laRepubblicaID   = "larepubblica"
	laRepubblicaName = "LaRepubblica"

	laRepubblicaCatalogURL = "https://quotidiano.repubblica.it/edicola/catalogogenerale.jsp?ref=search"
	laRepubblicaCrossword  = "Il Cruciverba"
	minPreviewRunes        = 6
)

// LaRepubblicaDescriptor describes the La Repubblica archive at
// ricerca.repubblica.it. Archive markup changed many times; the chains below
// cover the layouts in use since 2015.
func LaRepubblicaDescriptor() Descriptor {
	return Descriptor{
		ID:             laRepubblicaID,
		Name:           laRepubblicaName,
		ArchiveURL:     "https://ricerca.repubblica.it/repubblica/archivio/repubblica/{year}/{month}/{day}?page={page}",
		Hosts:          []string{"repubblica.it"},
		Pagination:     PaginateFirst,
		RequestDelayMs: 250,
		Listing: ListingRules{
			ArticleSelector:    "article",
			LinkSelector:       "a[href]",
			PaginationSelector: "div.pagination p",
		},
		Fields: FieldRules{
			Title: []string{"article h1", "h1", `meta[property="og:title"]@content`},
			Author: []string{
				`[itemprop="author"]`,
				`meta[name="author"]@content`,
			},
			Date: []string{
				`time[itemprop="datePublished"]@datetime`,
				`time[itemprop="datePublished"]`,
				`meta[property="article:published_time"]@content`,
			},
			Body: []string{
				`[itemprop="articleBody"]`,
				"div.detail_body",
				"div.body-text div.content",
			},
			Tags:       []string{"dl.args dd", "div.detail_tag a"},
			Characters: []string{"dl.character dd"},
			Description: []string{
				`p[itemprop="description"]`,
				`meta[property="og:description"]@content`,
			},
			Section: []string{"a.section-logo", "a.sport-logo"},
			Image:   []string{"figure img@src", `meta[property="og:image"]@content`},
		},
		Config: map[string]any{
			ConfigAcceptKey:         "text/html,application/xhtml+xml",
			ConfigAcceptLanguageKey: "it-IT,it;q=0.9",
		},
	}
}

// laRepubblica lists the daily archive and extracts articles of La Repubblica.
type laRepubblica struct {
	archive
}

// NewLaRepubblica builds the La Repubblica source from desc
// (usually LaRepubblicaDescriptor, possibly overridden).
func NewLaRepubblica(client HTTPClient, desc Descriptor) Source {
	if client == nil {
		client = DefaultHTTPClient()
	}
	s := &laRepubblica{}
	s.archive = archive{desc: desc.clone(), client: client, pick: s.pickPreview}
	return s
}

func (s *laRepubblica) Descriptor() Descriptor {
	return s.desc.clone()
}

// pickPreview applies the archive filters: multimedia previews (a span inside
// the summary), crosswords, search pages, the paid catalogue and empty
// placeholders are skipped.
func (s *laRepubblica) pickPreview(pageURL string, entry *goquery.Selection) (domain.Link, bool) {
	summary := entry.Find("p").First()
	if summary.Length() == 0 || summary.Find("span").Length() > 0 {
		return domain.Link{}, false
	}
	summaryText := cleanText(summary.Text())
	if utf8.RuneCountInString(summaryText) < minPreviewRunes {
		return domain.Link{}, false
	}

	label := sectionLabel(cleanText(entry.Find("span").First().Text()))
	if strings.Contains(label, laRepubblicaCrossword) {
		return domain.Link{}, false
	}

	href, ok := entry.Find(s.desc.Listing.LinkSelector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return domain.Link{}, false
	}
	if strings.HasSuffix(href, ".html?ref=search") || href == laRepubblicaCatalogURL {
		return domain.Link{}, false
	}

	abs := resolveURL(href, pageURL)
	if abs == "" {
		return domain.Link{}, false
	}

	return domain.Link{
		URL: stripSearchRef(abs),
		Preview: domain.Preview{
			Author:   cleanText(entry.Find("em.author").First().Text()),
			Label:    label,
			DateText: firstNonEmpty(entry.Find("time").First().AttrOr("datetime", ""), cleanText(entry.Find("time").First().Text())),
			Summary:  summaryText,
		},
	}, true
}

// Extract fetches the article page and maps it onto an article record.
func (s *laRepubblica) Extract(ctx context.Context, link domain.Link) (domain.Article, error) {
	if strings.TrimSpace(link.URL) == "" {
		return domain.Article{}, &domain.ExtractionError{Field: "url", Err: fmt.Errorf("empty article url")}
	}

	doc, err := s.fetchDocument(ctx, link.URL)
	if err != nil {
		return domain.Article{}, err
	}
	root := doc.Selection
	rules := s.desc.Fields

	art := domain.Article{
		SourceID: s.desc.ID,
		URL:      link.URL,
		Title:    firstValue(root, rules.Title),
		Body:     firstBlock(root, rules.Body),
	}
	if art.Title == "" {
		return domain.Article{}, &domain.ExtractionError{URL: link.URL, Field: "title"}
	}
	if art.Body == "" {
		return domain.Article{}, &domain.ExtractionError{URL: link.URL, Field: "body"}
	}

	art.Author = firstNonEmpty(firstValue(root, rules.Author), link.Preview.Author)
	art.Tags = allValues(root, rules.Tags)
	art.Characters = allValues(root, rules.Characters)
	art.Description = firstNonEmpty(firstValue(root, rules.Description), link.Preview.Summary)
	art.Section = firstValue(root, rules.Section)
	art.Subsection = link.Preview.Label
	art.ImageURL = resolveURL(firstValue(root, rules.Image), link.URL)

	if t, ok := parseDate(firstValue(root, rules.Date)); ok {
		art.PublishedAt = t
	} else if t, ok := parseDate(link.Preview.DateText); ok {
		art.PublishedAt = t
	} else {
		art.PublishedAt = link.Day
	}

	return art, nil
}

// sectionLabel drops the short "Sez." style prefix archive previews put before
// the section name.
func sectionLabel(raw string) string {
	if i := strings.IndexAny(raw, ".:"); i >= 0 && i <= 5 {
		return strings.TrimSpace(raw[i+1:])
	}
	return raw
}

// stripSearchRef removes the ref=search pair the archive appends and leaves the
// rest of the query as written.
func stripSearchRef(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	pairs := strings.Split(u.RawQuery, "&")
	kept := pairs[:0]
	for _, p := range pairs {
		if p != "ref=search" {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(pairs) {
		return raw
	}
	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}
