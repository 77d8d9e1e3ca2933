package search

import "time"

// Progress reports how many documents of a run have been started.
type Progress struct {
	Current int    `json:"current"` // 1-based count of documents started so far.
	Total   int    `json:"total"`   // Documents discovered for the run.
	File    string `json:"current_file"`
}

// ProgressFunc receives progress events. It is called with a lock held and
// must not block.
type ProgressFunc func(Progress)

// ChannelProgress delivers events to ch without ever blocking. Events that do
// not fit are dropped.
func ChannelProgress(ch chan<- Progress) ProgressFunc {
	return func(p Progress) {
		select {
		case ch <- p:
		default:
		}
	}
}

// Status is the outcome of searching one document.
type Status int

const (
	Matched Status = iota
	NoMatch
	Skipped
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case NoMatch:
		return "no_match"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the tagged result of one unit of work.
type Outcome struct {
	Document Document `json:"document"`
	Status   Status   `json:"status"`
	Result   *Result  `json:"result,omitempty"` // Set when Status is Matched.
	Reason   string   `json:"reason,omitempty"` // Set when Status is Skipped.
}

// Hooks observe a run while it executes. Both fields are optional.
type Hooks struct {
	Progress ProgressFunc
	// Outcome is called once per document as soon as it is done, from the
	// worker goroutine. It must be safe for concurrent use.
	Outcome func(Outcome)
}

// Report is the complete result of a run.
type Report struct {
	RunID   string        `json:"run_id"`
	Query   Query         `json:"query"`
	Total   int           `json:"total"`
	Results []Result      `json:"results"`
	Matched int           `json:"matched"`
	NoMatch int           `json:"no_match"`
	Skipped []Outcome     `json:"skipped"`
	Elapsed time.Duration `json:"elapsed"`
}
