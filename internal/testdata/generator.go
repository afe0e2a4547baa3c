// Package testdata generates deterministic synthetic datasets for
// tests and for the demo seed command.
package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tmcke/portview/internal/domain"
)

var (
	portfolios = []string{"Digital Transformation", "Infrastructure", "Research", "Customer Experience"}
	programs   = []string{"Platform", "Modernization", "Analytics", "Mobile", "Security"}
	managers   = []string{"A. Chen", "M. Okafor", "S. Petrov", "L. Alvarez", "J. Kim", "R. Novak"}
	statuses   = []domain.Status{domain.StatusOnTrack, domain.StatusDelayed, domain.StatusCompleted, domain.StatusAtRisk}
)

// Generate returns n synthetic project records. The same seed always
// produces the same dataset.
func Generate(n int, seed int64) []domain.ProjectRecord {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	records := make([]domain.ProjectRecord, 0, n)
	for i := 0; i < n; i++ {
		portfolio := portfolios[rng.Intn(len(portfolios))]
		program := programs[rng.Intn(len(programs))]
		budget := float64(rng.Intn(900)+100) * 1000
		spent := budget * (0.1 + rng.Float64()*1.1)

		start := base.AddDate(0, rng.Intn(12), 0)
		prevEnd := start.AddDate(0, 3+rng.Intn(9), 0)
		curEnd := prevEnd.AddDate(0, rng.Intn(4), 0)

		records = append(records, domain.ProjectRecord{
			Portfolio:   portfolio,
			Program:     program,
			Name:        fmt.Sprintf("%s %s Initiative %d", portfolio, program, i+1),
			ExternalID:  fmt.Sprintf("BPM-%04d", 1000+i),
			Manager:     managers[rng.Intn(len(managers))],
			Status:      statuses[rng.Intn(len(statuses))],
			Budget:      budget,
			Spent:       spent,
			Start:       &start,
			PreviousEnd: &prevEnd,
			CurrentEnd:  &curEnd,
			Department:  "Engineering",
			RDCategory:  []string{"Applied", "Experimental", ""}[rng.Intn(3)],
		})
	}
	return records
}

// CSV renders records as a CSV document using the canonical headers,
// suitable for feeding back through the ingest path.
func CSV(records []domain.ProjectRecord) string {
	var b strings.Builder
	b.WriteString("Portfolio,Program,Project Name,BPM ID,Project Manager,Status,Budget,Spent,G0,G5 Previous,G5 Current\n")
	for _, r := range records {
		fields := []string{
			r.Portfolio, r.Program, r.Name, r.ExternalID, r.Manager, string(r.Status),
			fmt.Sprintf("%.0f", r.Budget), fmt.Sprintf("%.0f", r.Spent),
			csvDate(r.Start), csvDate(r.PreviousEnd), csvDate(r.CurrentEnd),
		}
		for i, f := range fields {
			if strings.ContainsAny(f, ",\"") {
				f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func csvDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
