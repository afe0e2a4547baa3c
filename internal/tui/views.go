package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmcke/portview/internal/chart"
	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/drill"
	"github.com/tmcke/portview/internal/portfolio"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	crumbStyle  = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Bold(true)
)

const barWidth = 48

func (a *App) View() string {
	var body string
	switch a.state {
	case viewTimeline:
		body = a.renderTimeline()
	case viewCharts:
		body = a.renderCharts()
	case viewAssistant:
		body = a.renderAssistant()
	case viewImport:
		body = a.renderImport()
	default:
		body = a.renderDashboard()
	}
	return body
}

// header renders the title line, breadcrumbs and the filter bar shared
// by the data views.
func (a *App) header(name string) string {
	title := titleStyle.Render("PortView - " + name)
	crumbs := crumbStyle.Render(strings.Join(a.nav.Breadcrumbs(), " > "))

	var statuses []string
	for _, s := range a.agg.Statuses {
		label := string(s)
		if a.filter.Statuses[s] {
			label = activeStyle.Render("[" + label + "]")
		}
		statuses = append(statuses, label)
	}
	search := a.filter.Search
	if a.searching {
		search = a.searchInput.View()
	} else if search == "" {
		search = "(none)"
	}
	filter := fmt.Sprintf("Portfolio: %s  Program: %s  Status: %s  Search: %s%s",
		a.filter.Portfolio, a.filter.Program, strings.Join(statuses, " "), search, a.searchHint())

	return title + "\n" + crumbs + "\n" + filter + "\n" +
		fmt.Sprintf("%d of %d projects shown", len(a.agg.Filtered), len(a.records)) + "\n"
}

// searchHint suggests a close name when the committed search term
// matches nothing, so a typo doesn't read as an empty dataset.
func (a *App) searchHint() string {
	if a.searching || a.filter.Search == "" || len(a.agg.Filtered) > 0 {
		return ""
	}
	candidates := append([]string{}, a.agg.PortfolioNames...)
	candidates = append(candidates, a.agg.ProgramNames...)
	for _, r := range a.records {
		candidates = append(candidates, r.Name)
	}
	if hint := portfolio.ClosestName(a.filter.Search, candidates); hint != "" {
		return fmt.Sprintf("  (did you mean %q?)", hint)
	}
	return ""
}

func (a *App) footer(keys string) string {
	out := "\n" + keys
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

const globalKeys = "[d] Dashboard  [t] Timeline  [c] Charts  [a] Assistant  [i] Import  [p/P] Cycle portfolio/program  [1-5] Toggle status  [/] Search  [0] Clear  [q] Quit"

func (a *App) renderDashboard() string {
	out := a.header("Dashboard")
	fr := a.nav.Current()

	switch fr.Level {
	case drill.Portfolio:
		if len(a.agg.Hierarchy.Order) == 0 {
			out += "No projects loaded. Press [i] to import a CSV.\n"
		}
		for i, name := range a.agg.Hierarchy.Order {
			pg := a.agg.Hierarchy.Portfolios[name]
			recs := a.agg.Hierarchy.Records(name)
			var budget float64
			for _, r := range recs {
				budget += r.Budget
			}
			out += fmt.Sprintf("%s %-32s %3d programs  %4d projects  %s\n",
				a.marker(i), truncate(name, 32), len(pg.Order), len(recs), a.money(budget))
		}
	case drill.Program:
		pg := a.focusedGroup(fr)
		if pg == nil {
			out += "Nothing to show.\n"
			break
		}
		for i, prog := range pg.Order {
			recs := pg.Programs[prog]
			var budget float64
			for _, r := range recs {
				budget += r.Budget
			}
			out += fmt.Sprintf("%s %-32s %4d projects  %s\n",
				a.marker(i), truncate(prog, 32), len(recs), a.money(budget))
		}
	case drill.Project:
		for i, r := range fr.Dataset {
			out += fmt.Sprintf("%s %-36s %-10s %s / %s  ends %s\n",
				a.marker(i), truncate(r.Name, 36), r.Status,
				a.money(r.Spent), a.money(r.Budget), dateOrDash(r.CurrentEnd))
		}
	case drill.Detail:
		out += a.renderDetail(fr)
	}

	return out + a.footer("[enter] Drill down  [backspace] Back  [esc] Top  "+globalKeys)
}

func (a *App) renderDetail(fr drill.Frame) string {
	if fr.Focus == nil || fr.Focus.Record == nil {
		return "Nothing selected.\n"
	}
	r := *fr.Focus.Record
	rows := []struct{ k, v string }{
		{"Project", r.Name},
		{"External ID", r.ExternalID},
		{"Portfolio", r.Portfolio},
		{"Program", r.Program},
		{"Manager", r.Manager},
		{"Status", string(r.Status)},
		{"Budget", a.money(r.Budget)},
		{"Spent", a.money(r.Spent)},
		{"Start", dateOrDash(r.Start)},
		{"Previous end", dateOrDash(r.PreviousEnd)},
		{"Current end", dateOrDash(r.CurrentEnd)},
		{"Department", r.Department},
		{"R&D category", r.RDCategory},
		{"Funding source", r.FundingSource},
		{"Notes", r.Notes},
	}
	var b strings.Builder
	for _, row := range rows {
		if row.v == "" {
			continue
		}
		fmt.Fprintf(&b, "%-16s %s\n", row.k+":", row.v)
	}
	return b.String()
}

func (a *App) renderTimeline() string {
	out := a.header("Timeline")
	rng := portfolio.ComputeDateRange(a.agg.Filtered)
	labels := portfolio.TimelineLabels(rng.Min, rng.Max, a.granularity)

	gran := [...]string{"months", "quarters", "years"}[a.granularity]
	out += fmt.Sprintf("%s to %s (%s)\n", rng.Min.Format("Jan 2006"), rng.Max.Format("Jan 2006"), gran)
	out += crumbStyle.Render(strings.Join(labels, " | ")) + "\n\n"

	shown := 0
	for _, r := range a.agg.Filtered {
		if r.Start == nil || r.CurrentEnd == nil {
			continue
		}
		out += fmt.Sprintf("%-28s %s %s\n", truncate(r.Name, 28), ganttBar(r, rng), r.Status)
		shown++
		if shown >= 30 {
			out += fmt.Sprintf("... and %d more\n", len(a.agg.Filtered)-shown)
			break
		}
	}
	if shown == 0 {
		out += "No projects with schedule data in the current selection.\n"
	}
	return out + a.footer("[g] Granularity  "+globalKeys)
}

// ganttBar draws the project's span as a fixed-width bar across the
// visible range. A '|' marks the previous end date when it differs
// from the current one.
func ganttBar(r domain.ProjectRecord, rng domain.DateRange) string {
	total := rng.Max.Sub(rng.Min)
	if total <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	cell := func(t time.Time) int {
		p := int(float64(barWidth) * float64(t.Sub(rng.Min)) / float64(total))
		if p < 0 {
			p = 0
		}
		if p >= barWidth {
			p = barWidth - 1
		}
		return p
	}
	start, end := cell(*r.Start), cell(*r.CurrentEnd)
	if end < start {
		start, end = end, start
	}
	bar := make([]rune, barWidth)
	for i := range bar {
		bar[i] = '·'
	}
	for i := start; i <= end; i++ {
		bar[i] = '█'
	}
	if r.PreviousEnd != nil && !r.PreviousEnd.Equal(*r.CurrentEnd) {
		bar[cell(*r.PreviousEnd)] = '|'
	}
	return string(bar)
}

func (a *App) renderCharts() string {
	out := a.header("Charts")
	records := a.agg.Filtered
	rng := portfolio.ComputeDateRange(records)

	flow := chart.BuildFlow(records)
	heat := chart.BuildHeat(records, rng)
	net := chart.BuildNetwork(records)
	bubble := chart.BuildBubble(records)

	out += fmt.Sprintf("Flow      %d nodes, %d budget links\n", len(flow.Nodes), len(flow.Links))
	out += fmt.Sprintf("Heatmap   %d portfolios x %d months, peak %s/month\n", len(heat.Portfolios), len(heat.Months), a.money(heat.Max))
	out += fmt.Sprintf("Network   %d nodes, %d edges\n", net.Order, net.Size)
	out += fmt.Sprintf("Bubble    %d projects plotted by budget vs spend\n", len(bubble.Points))
	out += "\nExports are written to " + a.cfg.Export.OutDir + "\n"

	return out + a.footer("[h] HTML dashboard  [s] PNG  [w] Word  [x] Spreadsheet  [r] PDF report  "+globalKeys)
}

func (a *App) renderAssistant() string {
	title := titleStyle.Render("PortView - Assistant")

	health := "checking..."
	if a.backendUp != nil {
		if *a.backendUp {
			health = "online (" + a.cfg.Assistant.BaseURL + ")"
		} else {
			health = "offline, answers computed locally"
		}
	}

	out := title + "\n"
	out += "Backend: " + health + "\n"
	out += fmt.Sprintf("Context: %d projects in current selection\n\n", len(a.agg.Filtered))
	out += a.askInput.View() + "\n"

	if a.asking {
		out += "\nthinking...\n"
	} else if a.answer != nil {
		out += "\n" + a.answer.Response + "\n"
		if len(a.answer.Insights) > 0 {
			out += "\nInsights:\n"
			for _, in := range a.answer.Insights {
				out += "  - " + in + "\n"
			}
		}
		if len(a.answer.Recommendations) > 0 {
			out += "\nRecommendations:\n"
			for _, rec := range a.answer.Recommendations {
				out += "  - " + rec + "\n"
			}
		}
	}
	return out + a.footer("[enter] Ask  [esc] Back")
}

func (a *App) renderImport() string {
	title := titleStyle.Render("PortView - Import CSV")
	body := fmt.Sprintf("CSV path: %s\nType a path and press Enter to load it as the active dataset.\n[enter] Import  [esc] Back", a.importPath)
	if a.lastImport != nil {
		body += fmt.Sprintf("\nLast import: %d imported, %d skipped, %d errors",
			a.lastImport.Imported, a.lastImport.Skipped, len(a.lastImport.Errors))
		if len(a.lastImport.Errors) > 0 {
			body += "\nFirst error: " + a.lastImport.Errors[0].Error()
			if len(a.lastImport.Errors) > 1 {
				body += fmt.Sprintf(" (+%d more)", len(a.lastImport.Errors)-1)
			}
		}
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) marker(i int) string {
	if i == a.cursor {
		return "▶"
	}
	return " "
}

func (a *App) money(v float64) string {
	return fmt.Sprintf("%s%.0f", a.currency, v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
