package sources

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Pagination decides what "the whole day" means for a source.
type Pagination int

const (
	// PaginateFirst lists only the first archive page of a day.
	PaginateFirst Pagination = iota
	// PaginateAll reads the page count from page one and lists every page.
	PaginateAll
)

func (p Pagination) String() string {
	if p == PaginateAll {
		return "all_pages"
	}
	return "first_page"
}

// ParsePagination maps "first_page" / "all_pages" to a Pagination.
func ParsePagination(raw string) (Pagination, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "first_page":
		return PaginateFirst, nil
	case "all_pages":
		return PaginateAll, nil
	default:
		return PaginateFirst, fmt.Errorf("unknown pagination %q (expected first_page or all_pages)", raw)
	}
}

// Descriptor statically describes one supported newspaper.
type Descriptor struct {
	ID   string
	Name string
	// ArchiveURL is a template with {year}, {month}, {day} and {page} placeholders.
	ArchiveURL string
	// Hosts lists the domains article URLs must belong to (subdomains included).
	Hosts      []string
	Pagination Pagination
	// RequestDelayMs throttles consecutive article fetches; zero disables it.
	RequestDelayMs int
	Listing        ListingRules
	Fields         FieldRules
	Config         map[string]any
}

// ListingRules locate article links on an archive page.
type ListingRules struct {
	ArticleSelector    string
	LinkSelector       string
	PaginationSelector string
}

// FieldRules are ordered selector chains, one per article field. A selector
// may end with "@attr" to read an attribute instead of the node text.
type FieldRules struct {
	Title       []string
	Author      []string
	Date        []string
	Body        []string
	Tags        []string
	Description []string
	Section     []string
	Characters  []string
	Image       []string
}

// ArchivePageURL builds the archive URL for day and page (pages start at 1).
func (d Descriptor) ArchivePageURL(day time.Time, page int) string {
	if page < 1 {
		page = 1
	}
	r := strings.NewReplacer(
		"{year}", strconv.Itoa(day.Year()),
		"{month}", strconv.Itoa(int(day.Month())),
		"{day}", strconv.Itoa(day.Day()),
		"{page}", strconv.Itoa(page),
	)
	return r.Replace(d.ArchiveURL)
}

// OwnsURL reports whether raw is an absolute http(s) URL on one of the source hosts.
func (d Descriptor) OwnsURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range d.Hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// RequestDelay returns the pause between two article fetches.
func (d Descriptor) RequestDelay() time.Duration {
	if d.RequestDelayMs <= 0 {
		return 0
	}
	return time.Duration(d.RequestDelayMs) * time.Millisecond
}

// clone returns a copy that shares no mutable state with d.
func (d Descriptor) clone() Descriptor {
	d.Hosts = slices.Clone(d.Hosts)
	d.Config = maps.Clone(d.Config)
	return d
}
