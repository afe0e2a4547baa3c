package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/portfolio"
)

const offlineNotice = "The analysis backend is unreachable, so this answer was " +
	"computed locally from the loaded dataset. Check that the backend is " +
	"running and that the assistant base URL in the configuration points at it."

// Fallback produces a rule-based answer from the record set. It covers
// the same ground as the backend's template analyzer: scale, budget,
// status, timeline, dependency and risk sections, selected by keywords
// in the query.
func Fallback(query string, records []domain.ProjectRecord, now time.Time) QueryResponse {
	s := portfolio.Summarize(records, now)
	q := strings.ToLower(query)

	var insights, recommendations []string

	insights = append(insights,
		fmt.Sprintf("Portfolio scale: %d portfolios, %d programs, %d projects", s.Portfolios, s.Programs, s.Projects),
		fmt.Sprintf("Total budget: $%s", money(s.TotalBudget)),
		"Status distribution: "+statusLine(s),
	)

	if containsAny(q, "budget", "cost", "financial", "spending") {
		if s.Projects > 0 {
			insights = append(insights, fmt.Sprintf("Average project budget: $%s", money(s.TotalBudget/float64(s.Projects))))
		}
		if n := len(s.OverBudget); n > 0 {
			insights = append(insights, fmt.Sprintf("Budget overruns: %d projects exceeding budget", n))
			recommendations = append(recommendations,
				"Review budget overruns and implement cost controls",
				"Establish budget monitoring and alerting")
		} else {
			recommendations = append(recommendations,
				"Budget performance is within acceptable ranges",
				"Continue monitoring budget against actual spending")
		}
	}

	if containsAny(q, "status", "progress", "performance") {
		delayed := s.StatusCounts[domain.StatusDelayed]
		atRisk := s.StatusCounts[domain.StatusAtRisk]
		if delayed > 0 || atRisk > 0 {
			insights = append(insights, fmt.Sprintf("Risk status: %d delayed, %d at risk projects", delayed, atRisk))
			recommendations = append(recommendations,
				"Prioritize delayed and at-risk projects",
				"Review resource allocation for struggling projects")
		} else {
			insights = append(insights, "All projects are on track or completed")
			recommendations = append(recommendations, "Maintain current performance momentum")
		}
	}

	if containsAny(q, "portfolio", "strategy", "overview") {
		insights = append(insights, "Portfolio breakdown: "+portfolioLine(records))
		recommendations = append(recommendations,
			"Conduct portfolio performance analysis",
			"Balance resource allocation across portfolios")
	}

	if containsAny(q, "timeline", "schedule", "deadline") {
		withDates := 0
		for _, r := range records {
			if r.Start != nil && r.CurrentEnd != nil {
				withDates++
			}
		}
		insights = append(insights, fmt.Sprintf("Timeline coverage: %d projects with schedule data", withDates))
		if n := len(s.Overdue); n > 0 {
			insights = append(insights, fmt.Sprintf("Overdue projects: %d past their end date", n))
			recommendations = append(recommendations, "Address overdue projects immediately")
		}
		if n := len(s.DueSoon); n > 0 {
			insights = append(insights, fmt.Sprintf("Upcoming deadlines: %d projects due within 30 days", n))
			recommendations = append(recommendations, "Prepare for upcoming project deadlines")
		}
	}

	if containsAny(q, "risk", "issue", "problem") {
		risk := s.StatusCounts[domain.StatusDelayed] + s.StatusCounts[domain.StatusAtRisk]
		if risk > 0 {
			insights = append(insights, fmt.Sprintf("High-risk projects: %d requiring attention", risk))
			recommendations = append(recommendations,
				"Implement risk mitigation strategies",
				"Establish regular risk assessment reviews")
		} else {
			insights = append(insights, "Risk levels are within acceptable ranges")
			recommendations = append(recommendations, "Continue proactive risk monitoring")
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Conduct a comprehensive portfolio performance review",
			"Identify optimization opportunities across portfolios",
			"Monitor key performance indicators regularly")
	}

	insights = cap6(insights)
	if len(recommendations) > 4 {
		recommendations = recommendations[:4]
	}

	var b strings.Builder
	b.WriteString(offlineNotice)
	b.WriteString("\n\nPortfolio analysis:\n")
	fmt.Fprintf(&b, "- %d portfolios, %d programs, %d projects\n", s.Portfolios, s.Programs, s.Projects)
	fmt.Fprintf(&b, "- Total budget: $%s\n", money(s.TotalBudget))
	fmt.Fprintf(&b, "- Status distribution: %s\n", statusLine(s))
	b.WriteString("\nKey insights:\n")
	for _, in := range insights {
		b.WriteString("- " + in + "\n")
	}
	b.WriteString("\nRecommendations:\n")
	for _, rec := range recommendations {
		b.WriteString("- " + rec + "\n")
	}

	return QueryResponse{
		Response:        b.String(),
		Insights:        insights,
		Recommendations: recommendations,
		DataSummary: map[string]interface{}{
			"portfolios":         s.Portfolios,
			"programs":           s.Programs,
			"projects":           s.Projects,
			"total_budget":       s.TotalBudget,
			"overdue_projects":   len(s.Overdue),
			"high_risk_projects": s.StatusCounts[domain.StatusDelayed] + s.StatusCounts[domain.StatusAtRisk],
		},
		Timestamp: now.Format(time.RFC3339),
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func statusLine(s portfolio.Summary) string {
	if len(s.StatusCounts) == 0 {
		return "no projects loaded"
	}
	keys := make([]string, 0, len(s.StatusCounts))
	for st := range s.StatusCounts {
		keys = append(keys, string(st))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", k, s.StatusPercentages[domain.Status(k)]))
	}
	return strings.Join(parts, ", ")
}

func portfolioLine(records []domain.ProjectRecord) string {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		if _, ok := counts[r.Portfolio]; !ok {
			order = append(order, r.Portfolio)
		}
		counts[r.Portfolio]++
	}
	parts := make([]string, 0, len(order))
	for _, p := range order {
		parts = append(parts, fmt.Sprintf("%s: %d projects", p, counts[p]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func cap6(in []string) []string {
	if len(in) > 6 {
		return in[:6]
	}
	return in
}

// money formats with thousands separators, no cents.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
