package chart

import (
	"sort"
	"time"

	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/portfolio"
)

// HeatCell is one (portfolio × month) intensity value.
type HeatCell struct {
	Portfolio int // index into Portfolios
	Month     int // index into Months
	Value     float64
}

// HeatModel is the budget heat matrix. A project's budget is spread
// uniformly across the inclusive month span between its start and
// current end; projects without both dates contribute nothing here.
type HeatModel struct {
	Portfolios []string
	Months     []time.Time
	Labels     []string
	Cells      []HeatCell
	Max        float64
}

// BuildHeat spreads budgets over the matrix bounded by rng.
func BuildHeat(records []domain.ProjectRecord, rng domain.DateRange) HeatModel {
	m := HeatModel{Months: portfolio.MonthsBetween(rng.Min, rng.Max)}
	for _, t := range m.Months {
		m.Labels = append(m.Labels, t.Format("Jan 2006"))
	}

	names := map[string]bool{}
	for _, r := range records {
		names[r.Portfolio] = true
	}
	for n := range names {
		m.Portfolios = append(m.Portfolios, n)
	}
	sort.Strings(m.Portfolios)

	rowOf := map[string]int{}
	for i, n := range m.Portfolios {
		rowOf[n] = i
	}
	colOf := map[time.Time]int{}
	for i, t := range m.Months {
		colOf[t] = i
	}

	grid := map[[2]int]float64{}
	for _, r := range records {
		if r.Start == nil || r.CurrentEnd == nil {
			continue
		}
		span := portfolio.MonthsBetween(*r.Start, *r.CurrentEnd)
		n := len(span)
		if n < 1 {
			n = 1 // zero-length spans still get one full month
		}
		share := r.Budget / float64(n)
		row := rowOf[r.Portfolio]
		for _, month := range span {
			col, ok := colOf[month]
			if !ok {
				continue // outside the visible range
			}
			grid[[2]int{row, col}] += share
		}
	}

	keys := make([][2]int, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		v := grid[k]
		m.Cells = append(m.Cells, HeatCell{Portfolio: k[0], Month: k[1], Value: v})
		if v > m.Max {
			m.Max = v
		}
	}
	return m
}
