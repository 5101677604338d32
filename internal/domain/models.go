package domain

import "time"

// Domain contains core models and interfaces.

// Article is one extracted newspaper article.
type Article struct {
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags,omitempty"`
	URL         string    `json:"url"`

	Description string   `json:"description,omitempty"`
	Section     string   `json:"section,omitempty"`
	Subsection  string   `json:"subsection,omitempty"`
	Characters  []string `json:"characters,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Link is an article URL found on an archive listing page.
type Link struct {
	URL     string
	Day     time.Time
	Preview Preview
}

// Preview holds what the archive listing shows next to a link.
type Preview struct {
	Author   string
	Label    string
	DateText string
	Summary  string
}
