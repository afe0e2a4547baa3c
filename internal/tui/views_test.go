package tui

import (
	"strings"
	"testing"

	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/portfolio"
)

func hintApp(search string) *App {
	records := []domain.ProjectRecord{
		{Portfolio: "Growth", Program: "Alpha", Name: "Apollo"},
		{Portfolio: "Growth", Program: "Alpha", Name: "Borealis"},
	}
	f := domain.NewFilterState()
	f.Search = search
	return &App{
		records: records,
		filter:  f,
		agg:     portfolio.Aggregate(records, f),
	}
}

func TestSearchHintSuggestsClosestName(t *testing.T) {
	a := hintApp("Apolo")
	hint := a.searchHint()
	if !strings.Contains(hint, `"Apollo"`) {
		t.Fatalf("typo search should suggest the close project name, got %q", hint)
	}
}

func TestSearchHintSilentWhenResultsExist(t *testing.T) {
	a := hintApp("apollo")
	if hint := a.searchHint(); hint != "" {
		t.Fatalf("matching search must not hint, got %q", hint)
	}
}

func TestSearchHintSilentForDistantTerms(t *testing.T) {
	a := hintApp("zzzzzzzz")
	if hint := a.searchHint(); hint != "" {
		t.Fatalf("nothing plausible to suggest, got %q", hint)
	}
}
