package portfolio

import (
	"fmt"
	"time"

	"github.com/tmcke/portview/internal/domain"
)

// Granularity selects timeline label density.
type Granularity int

const (
	Months Granularity = iota
	Quarters
	Years
)

// monthThinningDays is the span beyond which month labels are emitted
// every second month. Readability heuristic, not a correctness property.
const monthThinningDays = 1000

// futureFloorMonths keeps the timeline extending past today even when
// every project has concluded.
const futureFloorMonths = 6

// ComputeDateRange spans the three milestone dates of every record.
// Max is floored at today+6 months; with zero valid dates the range
// falls back to a ±1 year window around today.
func ComputeDateRange(records []domain.ProjectRecord) domain.DateRange {
	return ComputeDateRangeAt(records, time.Now().UTC())
}

// ComputeDateRangeAt is ComputeDateRange with an injectable clock.
func ComputeDateRangeAt(records []domain.ProjectRecord, now time.Time) domain.DateRange {
	var min, max time.Time
	seen := false
	for _, r := range records {
		for _, d := range []*time.Time{r.Start, r.PreviousEnd, r.CurrentEnd} {
			if d == nil {
				continue
			}
			if !seen {
				min, max = *d, *d
				seen = true
				continue
			}
			if d.Before(min) {
				min = *d
			}
			if d.After(max) {
				max = *d
			}
		}
	}
	if !seen {
		return domain.DateRange{Min: now.AddDate(-1, 0, 0), Max: now.AddDate(1, 0, 0)}
	}
	floor := now.AddDate(0, futureFloorMonths, 0)
	if max.Before(floor) {
		max = floor
	}
	return domain.DateRange{Min: min, Max: max}
}

// TimelineLabels emits one display label per calendar period in the
// inclusive [min, max] range. Month labels thin to every second month
// when the span exceeds monthThinningDays.
func TimelineLabels(min, max time.Time, g Granularity) []string {
	if max.Before(min) {
		return nil
	}
	var out []string
	switch g {
	case Quarters:
		q := time.Date(min.Year(), quarterStart(min.Month()), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(max.Year(), quarterStart(max.Month()), 1, 0, 0, 0, 0, time.UTC)
		for !q.After(end) {
			out = append(out, fmt.Sprintf("Q%d %d", (int(q.Month())-1)/3+1, q.Year()))
			q = q.AddDate(0, 3, 0)
		}
	case Years:
		for y := min.Year(); y <= max.Year(); y++ {
			out = append(out, fmt.Sprintf("%d", y))
		}
	default:
		step := 1
		if int(max.Sub(min).Hours()/24) > monthThinningDays {
			step = 2
		}
		m := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !m.After(end) {
			out = append(out, m.Format("Jan 2006"))
			m = m.AddDate(0, step, 0)
		}
	}
	return out
}

// MonthsBetween enumerates the first day of every calendar month in the
// inclusive range. Used by the heatmap grid and the timeline view.
func MonthsBetween(min, max time.Time) []time.Time {
	if max.Before(min) {
		return nil
	}
	var out []time.Time
	m := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(end) {
		out = append(out, m)
		m = m.AddDate(0, 1, 0)
	}
	return out
}

func quarterStart(m time.Month) time.Month {
	return time.Month((int(m)-1)/3*3 + 1)
}
