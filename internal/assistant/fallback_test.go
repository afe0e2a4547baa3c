package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/tmcke/portview/internal/domain"
)

func fallbackRecords() []domain.ProjectRecord {
	past := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []domain.ProjectRecord{
		{Portfolio: "P1", Program: "Alpha", Name: "A1", Status: domain.StatusOnTrack, Budget: 100, Spent: 50},
		{Portfolio: "P1", Program: "Alpha", Name: "A2", Status: domain.StatusDelayed, Budget: 100, Spent: 120, CurrentEnd: &past},
		{Portfolio: "P2", Program: "Beta", Name: "B1", Status: domain.StatusAtRisk, Budget: 100, Spent: 90},
	}
}

func TestFallbackBudgetSection(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	resp := Fallback("how is our budget tracking?", fallbackRecords(), now)

	if !strings.Contains(resp.Response, "computed locally") {
		t.Fatal("fallback answers must state they were computed locally")
	}
	found := false
	for _, in := range resp.Insights {
		if strings.Contains(in, "Budget overruns") {
			found = true
		}
	}
	if !found {
		t.Fatalf("budget query should surface the overrun insight: %v", resp.Insights)
	}
}

func TestFallbackRiskSection(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	resp := Fallback("any risk issues?", fallbackRecords(), now)

	found := false
	for _, in := range resp.Insights {
		if strings.Contains(in, "High-risk projects: 2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("risk query should count delayed plus at-risk: %v", resp.Insights)
	}
}

func TestFallbackDefaultRecommendations(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	resp := Fallback("hello", fallbackRecords(), now)

	if len(resp.Recommendations) == 0 {
		t.Fatal("keyword-free queries still get default recommendations")
	}
	if len(resp.Insights) > 6 || len(resp.Recommendations) > 4 {
		t.Fatalf("limits exceeded: %d insights, %d recommendations", len(resp.Insights), len(resp.Recommendations))
	}
}

func TestFallbackEmptyDataset(t *testing.T) {
	resp := Fallback("status?", nil, time.Now())
	if resp.Response == "" {
		t.Fatal("empty dataset must still produce an answer")
	}
	if resp.DataSummary["projects"] != 0 {
		t.Fatalf("data summary should report zero projects: %v", resp.DataSummary)
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-4500:    "-4,500",
		100000.4: "100,000",
	}
	for in, want := range cases {
		if got := money(in); got != want {
			t.Fatalf("money(%v) = %q, want %q", in, got, want)
		}
	}
}
