package crawler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/internal/logger"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/publishers"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/sources"
)

const (
	StageListing = "listing"
	StageArticle = "article"
)

// Request selects what one run extracts.
type Request struct {
	RunID  string
	Source sources.Source
	Range  domain.DateRange
}

// Failure is a non-fatal error recorded during a run.
type Failure struct {
	Stage string
	Day   time.Time
	URL   string
	Err   error
}

// Result is the outcome of one run. Articles keep listing-resolution order.
type Result struct {
	RunID      string
	State      State
	Articles   []domain.Article
	Failures   []Failure
	Days       int
	Listings   int
	Links      int
	StartedAt  time.Time
	FinishedAt time.Time

	transitions []State
}

// Transitions returns every state the run went through, starting at Idle.
func (r *Result) Transitions() []State {
	if r == nil {
		return nil
	}
	return slices.Clone(r.transitions)
}

// ArticleFailures returns the failures recorded while extracting articles.
func (r *Result) ArticleFailures() []Failure {
	return r.failuresAt(StageArticle)
}

// ListingFailures returns the failures recorded while resolving archive listings.
func (r *Result) ListingFailures() []Failure {
	return r.failuresAt(StageListing)
}

func (r *Result) failuresAt(stage string) []Failure {
	if r == nil {
		return nil
	}
	var out []Failure
	for _, f := range r.Failures {
		if f.Stage == stage {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) enter(s State) {
	r.State = s
	r.transitions = append(r.transitions, s)
}

// Service runs the batch state machine for one source and date range.
type Service struct {
	sinks     []RecordSink
	publisher EventPublisher
	progress  ProgressReporter
	log       logger.Logger
	now       func() time.Time
}

// NewService wires the orchestrator. publisher and progress may be nil.
func NewService(publisher EventPublisher, progress ProgressReporter, log logger.Logger, sinks ...RecordSink) *Service {
	if progress == nil {
		progress = nopProgress{}
	}
	cp := make([]RecordSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			cp = append(cp, s)
		}
	}
	return &Service{
		sinks:     cp,
		publisher: publisher,
		progress:  progress,
		log:       logger.Ensure(log),
		now:       time.Now,
	}
}

// Run executes one batch. The returned Result is never nil; on a fatal error it
// is in the Failed state and holds whatever was extracted before the failure.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{RunID: req.RunID, State: Idle, transitions: []State{Idle}, StartedAt: s.now().UTC()}
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}

	res.enter(ResolvingDates)
	if err := req.Range.Validate(); err != nil {
		return s.fail(res, err)
	}
	if req.Source == nil {
		return s.fail(res, errors.New("crawl request has no source"))
	}
	days := req.Range.Days()
	res.Days = len(days)

	res.enter(ResolvingListings)
	links, err := s.resolveListings(ctx, req, res, days)
	if err != nil {
		return s.fail(res, err)
	}
	res.Links = len(links)

	res.enter(FetchingArticles)
	if err := s.fetchArticles(ctx, req.Source, res, links); err != nil {
		return s.fail(res, err)
	}

	res.enter(Done)
	res.FinishedAt = s.now().UTC()
	s.log.InfoObj("crawl completed", "crawl_result", map[string]any{
		"run_id":           res.RunID,
		"source_id":        req.Source.Descriptor().ID,
		"days":             res.Days,
		"links":            res.Links,
		"articles":         len(res.Articles),
		"article_failures": len(res.ArticleFailures()),
		"listing_failures": len(res.ListingFailures()),
		"elapsed_ms":       res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
	})
	return res, nil
}

func (s *Service) fail(res *Result, err error) (*Result, error) {
	res.enter(Failed)
	res.FinishedAt = s.now().UTC()
	s.log.ErrorObj("crawl failed", "crawl_error", map[string]any{
		"run_id":   res.RunID,
		"articles": len(res.Articles),
		"error":    err.Error(),
	})
	return res, err
}

// resolveListings lists every day in order and unions the links by URL,
// keeping the first occurrence. A failed listing only skips its own day or page.
func (s *Service) resolveListings(ctx context.Context, req Request, res *Result, days []time.Time) ([]domain.Link, error) {
	desc := req.Source.Descriptor()
	seen := make(map[string]struct{})
	var links []domain.Link

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		got, err := req.Source.ListArticleURLs(ctx, day, req.Range.Page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			for _, cause := range splitJoined(err) {
				res.Failures = append(res.Failures, Failure{
					Stage: StageListing,
					Day:   day,
					URL:   failedURL(cause, desc.ArchivePageURL(day, req.Range.Page)),
					Err:   cause,
				})
			}
			s.log.WarnObj("archive listing failed", "listing_error", map[string]any{
				"source_id": desc.ID,
				"day":       day.Format(time.DateOnly),
				"page":      req.Range.Page,
				"error":     err.Error(),
			})
			if len(got) == 0 {
				continue
			}
		}
		res.Listings++

		added := 0
		for _, l := range got {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
			links = append(links, l)
			added++
		}
		s.log.DebugObj("archive listing resolved", "listing_meta", map[string]any{
			"source_id": desc.ID,
			"day":       day.Format(time.DateOnly),
			"links":     len(got),
			"new_links": added,
		})
	}

	return links, nil
}

// splitJoined unpacks an errors.Join result so each failed page is recorded on its own.
func splitJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// failedURL returns the URL of the request behind err, or fallback.
func failedURL(err error, fallback string) string {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) && fetchErr.URL != "" {
		return fetchErr.URL
	}
	return fallback
}

// fetchArticles extracts links in order, pausing RequestDelay between fetches.
// Per-article errors are recorded and skipped; sink errors and cancellation abort.
func (s *Service) fetchArticles(ctx context.Context, src sources.Source, res *Result, links []domain.Link) error {
	desc := src.Descriptor()
	delay := desc.RequestDelay()
	s.progress.Start(len(links))
	defer s.progress.Done()

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		art, err := src.Extract(ctx, link)
		s.progress.Increment()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			res.Failures = append(res.Failures, Failure{Stage: StageArticle, Day: link.Day, URL: link.URL, Err: err})
			s.log.WarnObj("article extraction failed", "article_error", map[string]any{
				"source_id": desc.ID,
				"url":       link.URL,
				"error":     err.Error(),
			})
			continue
		}

		res.Articles = append(res.Articles, art)
		for _, sink := range s.sinks {
			if err := sink.Write(art); err != nil {
				return fmt.Errorf("write record %s: %w", art.URL, err)
			}
		}
		s.publish(ctx, res.RunID, desc, art)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) publish(ctx context.Context, runID string, desc sources.Descriptor, art domain.Article) {
	if s.publisher == nil {
		return
	}
	evt := publishers.NewEvent(runID, desc.ID, desc.Name, art)
	if _, err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.WarnObj("article publish failed", "publish_error", map[string]any{
			"run_id": runID,
			"url":    art.URL,
			"error":  err.Error(),
		})
	}
}
