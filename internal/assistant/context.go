package assistant

import (
	"time"

	"github.com/tmcke/portview/internal/domain"
)

// BuildContext condenses the record set into the wire shape the
// backend expects. Portfolio and program values are summed budgets;
// dependencies are the manager->project assignments the network view
// draws.
func BuildContext(records []domain.ProjectRecord) DataContext {
	ctx := DataContext{
		Portfolios:   []Item{},
		Programs:     []Item{},
		Projects:     []Item{},
		Budgets:      []Item{},
		Timelines:    []Timeline{},
		Dependencies: []Dependency{},
	}

	portfolioIdx := map[string]int{}
	programIdx := map[string]int{}

	for _, r := range records {
		if i, ok := portfolioIdx[r.Portfolio]; ok {
			ctx.Portfolios[i].Value += r.Budget
		} else {
			portfolioIdx[r.Portfolio] = len(ctx.Portfolios)
			ctx.Portfolios = append(ctx.Portfolios, Item{ID: r.Portfolio, Name: r.Portfolio, Value: r.Budget})
		}

		if i, ok := programIdx[r.Program]; ok {
			ctx.Programs[i].Value += r.Budget
		} else {
			programIdx[r.Program] = len(ctx.Programs)
			ctx.Programs = append(ctx.Programs, Item{ID: r.Program, Name: r.Program, Value: r.Budget, Parent: r.Portfolio})
		}

		ctx.Projects = append(ctx.Projects, Item{
			ID:     r.ExternalID,
			Name:   r.Name,
			Value:  r.Budget,
			Status: string(r.Status),
			Parent: r.Program,
			Budget: r.Budget,
			Spent:  r.Spent,
		})
		ctx.Budgets = append(ctx.Budgets, Item{
			ID:     r.ExternalID,
			Name:   r.Name,
			Budget: r.Budget,
			Spent:  r.Spent,
		})
		ctx.Timelines = append(ctx.Timelines, Timeline{
			Project: r.Name,
			Start:   isoDate(r.Start),
			End:     isoDate(r.CurrentEnd),
			Status:  string(r.Status),
		})
		if r.Manager != "" {
			ctx.Dependencies = append(ctx.Dependencies, Dependency{Source: r.Manager, Target: r.Name})
		}
	}
	return ctx
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
