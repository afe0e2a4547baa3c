package portfolio

import (
	"testing"

	"github.com/tmcke/portview/internal/domain"
)

func rec(portfolio, program, name string, status domain.Status, budget float64) domain.ProjectRecord {
	return domain.ProjectRecord{
		Portfolio: portfolio,
		Program:   program,
		Name:      name,
		Status:    status,
		Budget:    budget,
	}
}

func sample() []domain.ProjectRecord {
	return []domain.ProjectRecord{
		rec("P1", "Alpha", "A1", domain.StatusOnTrack, 100),
		rec("P1", "Alpha", "A2", domain.StatusDelayed, 200),
		rec("P1", "Beta", "B1", domain.StatusOnTrack, 300),
		rec("P2", "Gamma", "C1", domain.StatusCompleted, 400),
		rec("P2", "Gamma", "C2", domain.StatusAtRisk, 500),
	}
}

func TestAggregateBasicPortfolioFilter(t *testing.T) {
	f := domain.NewFilterState()
	f.Portfolio = "P1"
	f.ToggleStatus(domain.StatusOnTrack)

	agg := Aggregate(sample(), f)
	if len(agg.Filtered) != 2 {
		t.Fatalf("got %d records, want 2", len(agg.Filtered))
	}
	for _, r := range agg.Filtered {
		if r.Portfolio != "P1" || r.Status != domain.StatusOnTrack {
			t.Fatalf("record %q escaped the filter: %s/%s", r.Name, r.Portfolio, r.Status)
		}
	}
}

func TestAggregateConjunction(t *testing.T) {
	f := domain.NewFilterState()
	f.Portfolio = "P1"
	f.Program = "Gamma" // belongs to P2, so no record satisfies both

	agg := Aggregate(sample(), f)
	if len(agg.Filtered) != 0 {
		t.Fatalf("conjunctive filter leaked %d records", len(agg.Filtered))
	}
}

func TestAggregateGroupingComplete(t *testing.T) {
	records := sample()
	agg := Aggregate(records, domain.NewFilterState())

	if got := agg.Hierarchy.Total(); got != len(records) {
		t.Fatalf("hierarchy holds %d records, want %d", got, len(records))
	}
	for _, r := range records {
		pg, ok := agg.Hierarchy.Portfolios[r.Portfolio]
		if !ok {
			t.Fatalf("portfolio %q missing from hierarchy", r.Portfolio)
		}
		found := false
		for _, pr := range pg.Programs[r.Program] {
			if pr.Name == r.Name {
				found = true
			}
		}
		if !found {
			t.Fatalf("record %q missing from %s/%s", r.Name, r.Portfolio, r.Program)
		}
	}
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	agg := Aggregate(sample(), domain.NewFilterState())
	want := []string{"P1", "P2"}
	if len(agg.Hierarchy.Order) != len(want) {
		t.Fatalf("order %v, want %v", agg.Hierarchy.Order, want)
	}
	for i, name := range want {
		if agg.Hierarchy.Order[i] != name {
			t.Fatalf("order %v, want %v", agg.Hierarchy.Order, want)
		}
	}
}

func TestAggregateNameListsIgnoreFilter(t *testing.T) {
	f := domain.NewFilterState()
	f.Portfolio = "P1"

	agg := Aggregate(sample(), f)
	if len(agg.PortfolioNames) != 2 {
		t.Fatalf("portfolio names %v, want both portfolios regardless of filter", agg.PortfolioNames)
	}
	if len(agg.ProgramNames) != 3 {
		t.Fatalf("program names %v, want all three programs", agg.ProgramNames)
	}
}

func TestAggregateEmptyDataset(t *testing.T) {
	agg := Aggregate(nil, domain.NewFilterState())
	if len(agg.Filtered) != 0 || agg.Hierarchy.Total() != 0 {
		t.Fatal("empty input must produce empty aggregates")
	}
	if len(agg.PortfolioNames) != 0 || len(agg.ProgramNames) != 0 {
		t.Fatal("empty input must produce empty name lists")
	}
}

func TestMatchesSearch(t *testing.T) {
	r := domain.ProjectRecord{
		Portfolio: "P1",
		Program:   "Alpha",
		Name:      "Data Platform",
		Manager:   "A. Chen",
		Notes:     "phase two",
	}

	f := domain.NewFilterState()
	f.Search = "platform"
	if !Matches(f, r) {
		t.Fatal("case-insensitive name search should match")
	}
	f.Search = "chen"
	if !Matches(f, r) {
		t.Fatal("manager search should match")
	}
	f.Search = "zzz"
	if Matches(f, r) {
		t.Fatal("unrelated search must not match")
	}
}

func TestMatchesEmptyStatusSetMeansAll(t *testing.T) {
	f := domain.NewFilterState()
	if !Matches(f, sample()[0]) {
		t.Fatal("empty status set must not hide records")
	}
}

func TestDuplicateExternalIDsPassThrough(t *testing.T) {
	records := []domain.ProjectRecord{
		rec("P1", "Alpha", "A1", domain.StatusOnTrack, 100),
		rec("P1", "Alpha", "A1", domain.StatusOnTrack, 100),
	}
	agg := Aggregate(records, domain.NewFilterState())
	if agg.Hierarchy.Total() != 2 {
		t.Fatalf("duplicates must be preserved, got %d", agg.Hierarchy.Total())
	}
}
