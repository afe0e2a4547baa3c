package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmcke/portview/internal/assistant"
	"github.com/tmcke/portview/internal/config"
	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/drill"
	"github.com/tmcke/portview/internal/export"
	"github.com/tmcke/portview/internal/ingest"
	"github.com/tmcke/portview/internal/portfolio"
	"github.com/tmcke/portview/internal/prefs"
	"github.com/tmcke/portview/internal/store"
)

// App ties together views.
type App struct {
	ctx       context.Context
	cfg       config.Config
	snapshots *store.SnapshotRepo
	client    *assistant.Client
	exporter  *export.Exporter

	state       appState
	records     []domain.ProjectRecord
	snapName    string
	filter      domain.FilterState
	agg         portfolio.Aggregation
	nav         *drill.Machine
	cursor      int
	granularity portfolio.Granularity

	searchInput textinput.Model
	searching   bool

	askInput  textinput.Model
	asking    bool
	guard     assistant.Guard
	answer    *assistant.QueryResponse
	backendUp *bool // nil until the first health probe answers

	importPath string
	lastImport *ingest.Result

	status   string
	width    int
	currency string
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewTimeline  appState = "timeline"
	viewCharts    appState = "charts"
	viewAssistant appState = "assistant"
	viewImport    appState = "import"
)

func New(ctx context.Context, cfg config.Config, snapshots *store.SnapshotRepo) *App {
	search := textinput.New()
	search.Placeholder = "search name, id, manager, notes"
	search.CharLimit = 120
	search.Width = 40

	ask := textinput.New()
	ask.Placeholder = "ask about budgets, status, timelines, risks..."
	ask.CharLimit = 300
	ask.Width = 60

	filter := domain.NewFilterState()
	if saved, err := prefs.LoadFilter(); err == nil && saved != nil {
		filter = *saved
	}

	return &App{
		ctx:         ctx,
		cfg:         cfg,
		snapshots:   snapshots,
		client:      assistant.NewClient(cfg.Assistant.BaseURL, time.Duration(cfg.Assistant.TimeoutSeconds)*time.Second),
		exporter:    export.New(cfg.Export.OutDir),
		state:       viewDashboard,
		filter:      filter,
		nav:         drill.New(),
		searchInput: search,
		askInput:    ask,
		importPath:  "projects.csv",
		currency:    cfg.UI.CurrencySymbol,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadSnapshot(), a.healthCmd())
}

// recompute rebuilds the aggregation after any filter or data change
// and resets drill navigation, whose frames hold stale datasets.
func (a *App) recompute() {
	a.agg = portfolio.Aggregate(a.records, a.filter)
	a.nav.Reset()
	a.cursor = 0
	_ = prefs.SaveFilter(a.filter) // restored on next start; best effort
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case tea.KeyMsg:
		if a.searching {
			return a.handleSearchKey(m)
		}
		switch a.state {
		case viewImport:
			return a.handleImportKey(m)
		case viewAssistant:
			return a.handleAssistantKey(m)
		}
		return a.handleGlobalKey(m)
	case recordsMsg:
		a.records = m.records
		a.snapName = m.name
		a.recompute()
		if len(a.records) > 0 {
			a.status = fmt.Sprintf("loaded %d projects from %q", len(a.records), m.name)
		}
	case importDoneMsg:
		a.lastImport = &m.Result
		a.records = m.records
		a.recompute()
		summary := fmt.Sprintf("imported %d, skipped %d", m.Result.Imported, m.Result.Skipped+m.Duplicates)
		if len(m.Result.Errors) > 0 {
			summary += fmt.Sprintf(", errors %d (see import view)", len(m.Result.Errors))
		}
		a.status = summary
		a.state = viewDashboard
	case answerMsg:
		if !a.guard.Accept(m.seq) {
			return a, nil // superseded by a newer question
		}
		a.asking = false
		a.answer = &m.resp
		if m.offline {
			a.status = "backend unreachable, local analysis shown"
		} else {
			a.status = "answer received"
		}
	case healthMsg:
		up := m.err == nil
		a.backendUp = &up
	case exportDoneMsg:
		a.status = "exported " + m.path
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleGlobalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "t":
		a.state = viewTimeline
	case "c":
		a.state = viewCharts
	case "a":
		a.state = viewAssistant
		a.askInput.Focus()
		a.status = ""
	case "i":
		a.state = viewImport
		a.status = ""
	case "/":
		a.searching = true
		a.searchInput.SetValue(a.filter.Search)
		a.searchInput.Focus()
	case "p":
		a.cyclePortfolio()
	case "P":
		a.cycleProgram()
	case "1", "2", "3", "4", "5":
		idx := int(m.String()[0] - '1')
		if idx < len(a.agg.Statuses) {
			a.filter.ToggleStatus(a.agg.Statuses[idx])
			a.recompute()
		}
	case "0":
		a.filter = domain.NewFilterState()
		a.recompute()
		a.status = "filters cleared"
	case "g":
		if a.state == viewTimeline {
			a.granularity = (a.granularity + 1) % 3
		}
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
	case "enter":
		if a.state == viewDashboard {
			a.drillIn()
		}
	case "backspace":
		if a.nav.DrillUp() {
			a.cursor = 0
		}
	case "esc":
		a.nav.Reset()
		a.cursor = 0
	case "h":
		if a.state == viewCharts {
			a.status = "exporting dashboard..."
			return a, a.exportCmd(export.FormatHTML)
		}
	case "s":
		if a.state == viewCharts {
			a.status = "exporting png..."
			return a, a.exportCmd(export.FormatPNG)
		}
	case "w":
		if a.state == viewCharts {
			a.status = "exporting word document..."
			return a, a.exportCmd(export.FormatWord)
		}
	case "x":
		if a.state == viewCharts {
			a.status = "exporting workbook..."
			return a, a.exportCmd(export.FormatXLSX)
		}
	case "r":
		if a.state == viewCharts {
			a.status = "building pdf report..."
			return a, a.reportCmd()
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	case tea.KeyEnter:
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(m)
	if v := a.searchInput.Value(); v != a.filter.Search {
		a.filter.Search = v
		a.recompute()
	}
	return a, cmd
}

func (a *App) handleAssistantKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.askInput.Blur()
		a.state = viewDashboard
		return a, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(a.askInput.Value())
		if q == "" {
			a.status = "enter a question"
			return a, nil
		}
		a.asking = true
		a.status = "asking..."
		return a, tea.Batch(a.askCmd(q), a.healthCmd())
	}
	var cmd tea.Cmd
	a.askInput, cmd = a.askInput.Update(m)
	return a, cmd
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewDashboard
		a.status = ""
	case tea.KeyEnter:
		path := strings.TrimSpace(a.importPath)
		if path == "" {
			a.status = "enter a CSV path"
			return a, nil
		}
		a.status = "importing..."
		return a, a.importCmd(path)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeySpace:
		a.importPath += " "
	case tea.KeyRunes:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

// cyclePortfolio advances the portfolio filter through All plus every
// known portfolio name.
func (a *App) cyclePortfolio() {
	options := append([]string{domain.FilterAll}, a.agg.PortfolioNames...)
	a.filter.Portfolio = nextOption(options, a.filter.Portfolio)
	a.recompute()
}

func (a *App) cycleProgram() {
	options := append([]string{domain.FilterAll}, a.agg.ProgramNames...)
	a.filter.Program = nextOption(options, a.filter.Program)
	a.recompute()
}

func nextOption(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// rowCount is the number of selectable rows at the current drill level.
func (a *App) rowCount() int {
	fr := a.nav.Current()
	switch fr.Level {
	case drill.Portfolio:
		return len(a.agg.Hierarchy.Order)
	case drill.Program:
		if pg := a.focusedGroup(fr); pg != nil {
			return len(pg.Order)
		}
	case drill.Project:
		return len(fr.Dataset)
	case drill.Detail:
		return 1
	}
	return 0
}

func (a *App) focusedGroup(fr drill.Frame) *portfolio.PortfolioGroup {
	if fr.Focus == nil {
		return nil
	}
	return a.agg.Hierarchy.Portfolios[fr.Focus.Portfolio]
}

// drillIn pushes one level deeper from the row under the cursor.
func (a *App) drillIn() {
	fr := a.nav.Current()
	switch fr.Level {
	case drill.Portfolio:
		if a.cursor >= len(a.agg.Hierarchy.Order) {
			return
		}
		name := a.agg.Hierarchy.Order[a.cursor]
		a.nav.DrillDown(drill.Program, a.agg.Hierarchy.Records(name), &drill.Focus{Portfolio: name})
		a.cursor = 0
	case drill.Program:
		pg := a.focusedGroup(fr)
		if pg == nil || a.cursor >= len(pg.Order) {
			return
		}
		prog := pg.Order[a.cursor]
		a.nav.DrillDown(drill.Project, pg.Programs[prog], &drill.Focus{Portfolio: pg.Name, Program: prog})
		a.cursor = 0
	case drill.Project:
		if a.cursor >= len(fr.Dataset) {
			return
		}
		rec := fr.Dataset[a.cursor]
		a.nav.DrillDown(drill.Detail, []domain.ProjectRecord{rec}, &drill.Focus{
			Portfolio: rec.Portfolio,
			Program:   rec.Program,
			Project:   rec.Name,
			Record:    &rec,
		})
		a.cursor = 0
	}
}

// commands

func (a *App) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		records, snap, err := a.snapshots.Load(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return recordsMsg{records: records, name: snap.Name}
	}
}

func (a *App) importCmd(path string) tea.Cmd {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	return func() tea.Msg {
		f, err := os.Open(abs)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()

		records, res, err := ingest.ReadCSV(f)
		if err != nil {
			return errMsg{fmt.Errorf("read %s: %w", filepath.Base(abs), err)}
		}
		_, dups, err := a.snapshots.Replace(a.ctx, filepath.Base(abs), records)
		if err != nil {
			return errMsg{fmt.Errorf("store snapshot: %w", err)}
		}
		return importDoneMsg{Result: res, Duplicates: dups, records: records}
	}
}

func (a *App) askCmd(query string) tea.Cmd {
	records := a.agg.Filtered
	view := string(a.state)
	seq := a.guard.Begin()
	return func() tea.Msg {
		resp, err := a.client.Query(a.ctx, query, assistant.BuildContext(records), view)
		if err != nil {
			return answerMsg{seq: seq, resp: assistant.Fallback(query, records, time.Now()), offline: true}
		}
		return answerMsg{seq: seq, resp: resp}
	}
}

func (a *App) healthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
		defer cancel()
		return healthMsg{err: a.client.Health(ctx)}
	}
}

func (a *App) exportCmd(format export.Format) tea.Cmd {
	records := a.agg.Filtered
	rng := portfolio.ComputeDateRange(records)
	return func() tea.Msg {
		path, err := a.exporter.Export(records, rng, "dashboard", format)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path: path}
	}
}

func (a *App) reportCmd() tea.Cmd {
	records := a.agg.Filtered
	return func() tea.Msg {
		path, err := a.exporter.ExportReportPDF(records, "portfolio-report")
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path: path}
	}
}

// messages

type recordsMsg struct {
	records []domain.ProjectRecord
	name    string
}

type importDoneMsg struct {
	Result     ingest.Result
	Duplicates int
	records    []domain.ProjectRecord
}

type answerMsg struct {
	seq     uint64
	resp    assistant.QueryResponse
	offline bool
}

type healthMsg struct{ err error }

type exportDoneMsg struct{ path string }

type statusMsg string

type errMsg struct{ error }
