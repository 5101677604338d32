package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	RunID       string         `json:"run_id"`
	SourceID    string         `json:"source_id"`
	SourceName  string         `json:"source_name"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for one extracted article of a run.
func NewEvent(runID, sourceID, sourceName string, article domain.Article) Event {
	return Event{
		RunID:       runID,
		SourceID:    sourceID,
		SourceName:  sourceName,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the string attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"run_id":    e.RunID,
		"source_id": e.SourceID,
	}
}
