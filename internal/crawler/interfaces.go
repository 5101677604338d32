package crawler

import (
	"context"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/publishers"
)

// RecordSink receives every extracted article as soon as it is available.
// A sink error aborts the run.
type RecordSink interface {
	Write(art domain.Article) error
}

// EventPublisher forwards extracted articles downstream. Publish failures are
// logged and never abort the run.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// ProgressReporter tracks article extraction progress.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(int)  {}
func (nopProgress) Increment() {}
func (nopProgress) Done()      {}
