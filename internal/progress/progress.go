package progress

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const (
	renderFrequency = 100 * time.Millisecond
	stopTimeout     = 2 * time.Second
)

// Reporter tracks article extraction progress.
type Reporter interface {
	Start(total int)
	Increment()
	Done()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)  {}
func (Nop) Increment() {}
func (Nop) Done()      {}

// Console renders a single progress bar on w.
type Console struct {
	out     io.Writer
	message string

	mu      sync.Mutex
	pw      progress.Writer
	tracker *progress.Tracker
	stopped chan struct{}
}

// NewConsole returns a Reporter drawing on w (usually stdout).
func NewConsole(w io.Writer, message string) *Console {
	if message == "" {
		message = "Extracting articles"
	}
	return &Console{out: w, message: message}
}

// Start begins rendering a bar of total steps. A zero total draws nothing.
func (c *Console) Start(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pw != nil || total <= 0 {
		return
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(c.out)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(40)
	pw.SetMessageLength(24)
	pw.SetUpdateFrequency(renderFrequency)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true
	pw.Style().Visibility.Value = true

	tracker := &progress.Tracker{Message: c.message, Total: int64(total), Units: progress.UnitsDefault}
	pw.AppendTracker(tracker)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		pw.Render()
	}()

	c.pw, c.tracker, c.stopped = pw, tracker, stopped
}

// Increment advances the bar by one article.
func (c *Console) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tracker != nil {
		c.tracker.Increment(1)
	}
}

// Done completes the bar and waits briefly for the final frame.
func (c *Console) Done() {
	c.mu.Lock()
	pw, tracker, stopped := c.pw, c.tracker, c.stopped
	c.pw, c.tracker, c.stopped = nil, nil, nil
	c.mu.Unlock()
	if pw == nil {
		return
	}

	tracker.MarkAsDone()
	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		pw.Stop()
	}
}
