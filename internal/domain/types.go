// Package domain defines the normalized types for portfolio analytics.
// Records are fully typed and default-filled at ingestion so the rest of
// the system never deals with missing or loosely-typed fields.
package domain

import (
	"strings"
	"time"
)

// Status is a project delivery status. CSV values are free-form and get
// normalized through ParseStatus; anything unrecognized becomes Unknown.
type Status string

const (
	StatusOnTrack   Status = "On Track"
	StatusDelayed   Status = "Delayed"
	StatusCompleted Status = "Completed"
	StatusAtRisk    Status = "At Risk"
	StatusUnknown   Status = "Unknown"
)

// KnownStatuses lists the recognized statuses in display order.
var KnownStatuses = []Status{StatusOnTrack, StatusDelayed, StatusCompleted, StatusAtRisk, StatusUnknown}

// ParseStatus normalizes a free-form status string.
func ParseStatus(s string) Status {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch key {
	case "on track", "ontrack", "green", "in progress":
		return StatusOnTrack
	case "delayed", "late", "behind", "overdue":
		return StatusDelayed
	case "completed", "complete", "done", "closed":
		return StatusCompleted
	case "at risk", "atrisk", "risk", "amber", "red":
		return StatusAtRisk
	default:
		return StatusUnknown
	}
}

// ProjectRecord is one row of the source CSV after normalization.
// Date fields are nil when the source value did not parse; money fields
// default to 0 on malformed input. Records are immutable after load and
// replaced wholesale on re-import.
type ProjectRecord struct {
	Portfolio  string
	Program    string
	Name       string
	ExternalID string
	Manager    string
	Status     Status
	Budget     float64
	Spent      float64

	Start       *time.Time // G0 milestone
	PreviousEnd *time.Time // G5_Previous milestone
	CurrentEnd  *time.Time // G5_Current milestone

	Department    string
	RDCategory    string
	FundingSource string
	Notes         string

	// Extra keeps unrecognized CSV columns verbatim.
	Extra map[string]string
}

// SearchText is the haystack used by the filter search term.
func (r ProjectRecord) SearchText() string {
	return strings.ToLower(r.Name + "\x00" + r.ExternalID + "\x00" + r.Manager + "\x00" + r.Notes)
}

// FilterAll is the sentinel meaning "no restriction" for the portfolio
// and program filter dimensions.
const FilterAll = "All"

// FilterState is the user-controlled selection. Filtering is conjunctive
// across all active dimensions; an empty status set means no status
// restriction, not "show nothing".
type FilterState struct {
	Portfolio string
	Program   string
	Statuses  map[Status]bool
	Search    string
}

// NewFilterState returns the unrestricted selection.
func NewFilterState() FilterState {
	return FilterState{Portfolio: FilterAll, Program: FilterAll, Statuses: map[Status]bool{}}
}

// Active reports whether any dimension restricts the record set.
func (f FilterState) Active() bool {
	return f.Portfolio != FilterAll || f.Program != FilterAll || len(f.Statuses) > 0 || strings.TrimSpace(f.Search) != ""
}

// ToggleStatus flips a status in the selection set.
func (f *FilterState) ToggleStatus(s Status) {
	if f.Statuses == nil {
		f.Statuses = map[Status]bool{}
	}
	if f.Statuses[s] {
		delete(f.Statuses, s)
		return
	}
	f.Statuses[s] = true
}

// DateRange is the inclusive span of the timeline view.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// Days returns the span length in whole days.
func (d DateRange) Days() int {
	return int(d.Max.Sub(d.Min).Hours() / 24)
}
