package portfolio

import (
	"time"

	"github.com/tmcke/portview/internal/domain"
)

// overrunThreshold flags projects whose spend exceeds budget by 10%.
const overrunThreshold = 1.1

// dueSoonWindow is the look-ahead for upcoming deadlines.
const dueSoonWindow = 30 * 24 * time.Hour

// Summary carries the headline analytics shown on the dashboard and
// fed into the assistant data context.
type Summary struct {
	Portfolios int
	Programs   int
	Projects   int

	TotalBudget float64
	TotalSpent  float64

	StatusCounts      map[domain.Status]int
	StatusPercentages map[domain.Status]float64

	Overdue    []string // past current end, not completed
	DueSoon    []string // current end within 30 days
	OverBudget []string // spent > 110% of budget
}

// Summarize computes headline analytics over a record set.
func Summarize(records []domain.ProjectRecord, now time.Time) Summary {
	s := Summary{
		StatusCounts:      map[domain.Status]int{},
		StatusPercentages: map[domain.Status]float64{},
	}
	portfolios := map[string]bool{}
	programs := map[string]bool{}

	for _, r := range records {
		portfolios[r.Portfolio] = true
		programs[r.Program] = true
		s.Projects++
		s.TotalBudget += r.Budget
		s.TotalSpent += r.Spent
		s.StatusCounts[r.Status]++

		if r.CurrentEnd != nil && r.Status != domain.StatusCompleted {
			switch {
			case r.CurrentEnd.Before(now):
				s.Overdue = append(s.Overdue, r.Name)
			case r.CurrentEnd.Sub(now) <= dueSoonWindow:
				s.DueSoon = append(s.DueSoon, r.Name)
			}
		}
		if r.Budget > 0 && r.Spent > r.Budget*overrunThreshold {
			s.OverBudget = append(s.OverBudget, r.Name)
		}
	}

	s.Portfolios = len(portfolios)
	s.Programs = len(programs)
	if s.Projects > 0 {
		for st, n := range s.StatusCounts {
			s.StatusPercentages[st] = float64(n) / float64(s.Projects) * 100
		}
	}
	return s
}
