package chart

import (
	"math"

	"github.com/tmcke/portview/internal/domain"
)

// Status palette shared by the bubble and network renderings. Fixed
// four-way categorical mapping with a fallback for unrecognized or
// missing statuses.
var statusColors = map[domain.Status]string{
	domain.StatusOnTrack:   "#91cc75",
	domain.StatusDelayed:   "#fac858",
	domain.StatusCompleted: "#5470c6",
	domain.StatusAtRisk:    "#ee6666",
}

const fallbackColor = "#9a9a9a"

// StatusColor returns the palette color for a status.
func StatusColor(s domain.Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fallbackColor
}

// BubblePoint is one project in the bubble-scatter view.
type BubblePoint struct {
	Name   string
	X      float64 // budget
	Y      float64 // spent
	Radius float64 // ∝ sqrt(budget)
	Status domain.Status
	Color  string
}

// BubbleModel is the budget/spend scatter.
type BubbleModel struct {
	Points []BubblePoint
}

// BuildBubble maps each project to a point; radius is sqrt(budget) so
// bubble area tracks budget linearly.
func BuildBubble(records []domain.ProjectRecord) BubbleModel {
	m := BubbleModel{}
	for _, r := range records {
		budget := r.Budget
		if budget < 0 {
			budget = 0
		}
		m.Points = append(m.Points, BubblePoint{
			Name:   r.Name,
			X:      r.Budget,
			Y:      r.Spent,
			Radius: math.Sqrt(budget),
			Status: r.Status,
			Color:  StatusColor(r.Status),
		})
	}
	return m
}
