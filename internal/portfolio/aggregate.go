// Package portfolio derives every view model from the flat record list:
// conjunctive filtering, the portfolio→program→project hierarchy,
// timeline ranges and summary analytics. Everything here is a total
// function: any input, including nil, yields a well-defined (possibly
// empty) result.
package portfolio

import (
	"sort"
	"strings"

	"github.com/tmcke/portview/internal/domain"
)

// Hierarchy groups filtered records by portfolio, then program.
// Key order is first-seen source order; records within a program keep
// source order. It is a derived, disposable view rebuilt on every
// filter change, never patched incrementally.
type Hierarchy struct {
	Order      []string
	Portfolios map[string]*PortfolioGroup
}

// PortfolioGroup holds one portfolio's programs.
type PortfolioGroup struct {
	Name     string
	Order    []string
	Programs map[string][]domain.ProjectRecord
}

func newHierarchy() Hierarchy {
	return Hierarchy{Portfolios: map[string]*PortfolioGroup{}}
}

func (h *Hierarchy) insert(r domain.ProjectRecord) {
	pg, ok := h.Portfolios[r.Portfolio]
	if !ok {
		pg = &PortfolioGroup{Name: r.Portfolio, Programs: map[string][]domain.ProjectRecord{}}
		h.Portfolios[r.Portfolio] = pg
		h.Order = append(h.Order, r.Portfolio)
	}
	if _, ok := pg.Programs[r.Program]; !ok {
		pg.Order = append(pg.Order, r.Program)
	}
	pg.Programs[r.Program] = append(pg.Programs[r.Program], r)
}

// Total counts records across all leaves.
func (h Hierarchy) Total() int {
	n := 0
	for _, pg := range h.Portfolios {
		for _, recs := range pg.Programs {
			n += len(recs)
		}
	}
	return n
}

// Records of one portfolio, program order preserved.
func (h Hierarchy) Records(portfolio string) []domain.ProjectRecord {
	pg, ok := h.Portfolios[portfolio]
	if !ok {
		return nil
	}
	var out []domain.ProjectRecord
	for _, prog := range pg.Order {
		out = append(out, pg.Programs[prog]...)
	}
	return out
}

// Aggregation is the full derived view model consumed by every view.
// Name/status lists come from the unfiltered dataset so filter menus
// always show all options, and are sorted alphabetically; the hierarchy
// keeps first-seen order.
type Aggregation struct {
	Filtered       []domain.ProjectRecord
	Hierarchy      Hierarchy
	PortfolioNames []string
	ProgramNames   []string
	Statuses       []domain.Status
}

// Aggregate applies the filter and rebuilds all derived collections in
// a single pass over the input.
func Aggregate(records []domain.ProjectRecord, f domain.FilterState) Aggregation {
	agg := Aggregation{Hierarchy: newHierarchy()}

	portfolios := map[string]bool{}
	programs := map[string]bool{}
	statuses := map[domain.Status]bool{}

	for _, r := range records {
		portfolios[r.Portfolio] = true
		programs[r.Program] = true
		statuses[r.Status] = true
		if !Matches(f, r) {
			continue
		}
		agg.Filtered = append(agg.Filtered, r)
		agg.Hierarchy.insert(r)
	}

	agg.PortfolioNames = sortedKeys(portfolios)
	agg.ProgramNames = sortedKeys(programs)
	for s := range statuses {
		agg.Statuses = append(agg.Statuses, s)
	}
	sort.Slice(agg.Statuses, func(i, j int) bool { return agg.Statuses[i] < agg.Statuses[j] })
	return agg
}

// Matches is the conjunctive filter predicate.
func Matches(f domain.FilterState, r domain.ProjectRecord) bool {
	if f.Portfolio != "" && f.Portfolio != domain.FilterAll && r.Portfolio != f.Portfolio {
		return false
	}
	if f.Program != "" && f.Program != domain.FilterAll && r.Program != f.Program {
		return false
	}
	if len(f.Statuses) > 0 && !f.Statuses[r.Status] {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(r.SearchText(), q) {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
