package chart

import (
	"testing"
	"time"

	"github.com/tmcke/portview/internal/domain"
)

func TestBuildHeatSpreadsBudgetUniformly(t *testing.T) {
	start := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC) // 3-month inclusive span
	r := proj("P1", "Alpha", "A1", "chen", 300)
	r.Start, r.CurrentEnd = &start, &end

	rng := domain.DateRange{
		Min: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	m := BuildHeat([]domain.ProjectRecord{r}, rng)

	if len(m.Cells) != 3 {
		t.Fatalf("got %d cells, want 3 months of contribution", len(m.Cells))
	}
	var total float64
	for _, c := range m.Cells {
		if c.Value != 100 {
			t.Fatalf("cell value %.0f, want uniform 100/month", c.Value)
		}
		total += c.Value
	}
	if total != 300 {
		t.Fatalf("total %.0f, want full budget preserved", total)
	}
	if m.Max != 100 {
		t.Fatalf("max %.0f, want 100", m.Max)
	}
}

func TestBuildHeatSkipsRecordsWithoutDates(t *testing.T) {
	rng := domain.DateRange{
		Min: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	r := proj("P1", "Alpha", "A1", "chen", 300) // no dates

	m := BuildHeat([]domain.ProjectRecord{r}, rng)
	if len(m.Cells) != 0 {
		t.Fatal("records without both dates contribute nothing")
	}
	// the portfolio still appears as a row
	if len(m.Portfolios) != 1 {
		t.Fatalf("portfolios %v, want the name listed", m.Portfolios)
	}
}

func TestBuildHeatClipsToVisibleRange(t *testing.T) {
	start := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	r := proj("P1", "Alpha", "A1", "chen", 500)
	r.Start, r.CurrentEnd = &start, &end

	rng := domain.DateRange{
		Min: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	m := BuildHeat([]domain.ProjectRecord{r}, rng)

	for _, c := range m.Cells {
		if c.Month < 0 || c.Month >= len(m.Months) {
			t.Fatalf("cell column %d outside the visible grid", c.Month)
		}
	}
	if len(m.Cells) != 2 {
		t.Fatalf("got %d visible cells, want Jan and Feb only", len(m.Cells))
	}
}
