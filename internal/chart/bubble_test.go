package chart

import (
	"math"
	"testing"

	"github.com/tmcke/portview/internal/domain"
)

func TestBuildBubbleGeometry(t *testing.T) {
	r := proj("P1", "Alpha", "A1", "chen", 250000)
	r.Spent = 120000

	m := BuildBubble([]domain.ProjectRecord{r})
	if len(m.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(m.Points))
	}
	p := m.Points[0]
	if p.X != 250000 || p.Y != 120000 {
		t.Fatalf("point at (%.0f, %.0f), want (budget, spent)", p.X, p.Y)
	}
	if math.Abs(p.Radius-math.Sqrt(250000)) > 1e-9 {
		t.Fatalf("radius %.2f, want sqrt(budget) so area tracks budget", p.Radius)
	}
	if p.Color != StatusColor(domain.StatusOnTrack) {
		t.Fatalf("color %s, want the status palette color", p.Color)
	}
}

func TestBuildBubbleNegativeBudgetClamped(t *testing.T) {
	r := proj("P1", "Alpha", "A1", "chen", -5)
	m := BuildBubble([]domain.ProjectRecord{r})
	if m.Points[0].Radius != 0 {
		t.Fatalf("radius %.2f, want 0 for negative budgets", m.Points[0].Radius)
	}
}
