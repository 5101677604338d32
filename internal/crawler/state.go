package crawler

// State is a step of the batch state machine.
type State int

const (
	Idle State = iota
	ResolvingDates
	ResolvingListings
	FetchingArticles
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolvingDates:
		return "resolving_dates"
	case ResolvingListings:
		return "resolving_listings"
	case FetchingArticles:
		return "fetching_articles"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool { return s == Done || s == Failed }
