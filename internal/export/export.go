// Package export captures chart models into downloadable files:
// raster images, vector/PDF output, an HTML "word" document with an
// embedded raster, a composed PDF report, and a spreadsheet of the
// filtered records. Failures are returned as errors for the caller to
// surface as status text; nothing here panics.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tmcke/portview/internal/chart"
	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/portfolio"
)

// Format is a requested output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatJPEG, FormatSVG, FormatPDF, FormatWord, FormatHTML, FormatXLSX:
		return f, nil
	case "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

const (
	rasterWidth  = 10 * vg.Inch
	rasterHeight = 7 * vg.Inch

	// readyTimeout bounds how long we wait for the output directory to
	// become writable before attempting the export anyway.
	readyTimeout = 2 * time.Second
	readyPoll    = 100 * time.Millisecond
)

// Exporter writes export artifacts under OutDir with
// {name}_{ISO-date}.{ext} filenames.
type Exporter struct {
	OutDir string

	now func() time.Time
}

// New returns an exporter rooted at outDir.
func New(outDir string) *Exporter {
	return &Exporter{OutDir: outDir, now: time.Now}
}

// Filename composes {name}_{ISO-date}.{ext} under OutDir.
func (e *Exporter) Filename(name, ext string) string {
	return filepath.Join(e.OutDir, fmt.Sprintf("%s_%s.%s", name, e.now().Format(time.DateOnly), ext))
}

// waitReady polls until OutDir accepts writes or the bound elapses.
// On timeout the export is attempted anyway; the write itself reports
// the real failure.
func (e *Exporter) waitReady() {
	deadline := e.now().Add(readyTimeout)
	for {
		if err := os.MkdirAll(e.OutDir, 0o755); err == nil {
			probe := filepath.Join(e.OutDir, ".portview-probe")
			if f, err := os.Create(probe); err == nil {
				f.Close()
				os.Remove(probe)
				return
			}
		}
		if !e.now().Before(deadline) {
			return
		}
		time.Sleep(readyPoll)
	}
}

// Export writes the requested artifact for the record set and returns
// the output path.
func (e *Exporter) Export(records []domain.ProjectRecord, rng domain.DateRange, name string, format Format) (string, error) {
	e.waitReady()
	switch format {
	case FormatHTML:
		return e.exportDashboardHTML(records, rng, name)
	case FormatPNG, FormatJPEG, FormatSVG, FormatPDF:
		return e.exportBubbleRaster(chart.BuildBubble(records), name, format)
	case FormatWord:
		return e.exportWord(records, name)
	case FormatXLSX:
		return e.ExportWorkbook(records, name)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// exportDashboardHTML renders all four charts to one HTML page.
func (e *Exporter) exportDashboardHTML(records []domain.ProjectRecord, rng domain.DateRange, name string) (string, error) {
	path := e.Filename(name, "html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := chart.RenderDashboard(f, records, rng); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return path, nil
}

// exportBubbleRaster saves the bubble scatter in the format implied by
// the file extension (png/jpeg/svg/pdf, handled by the plot backend).
func (e *Exporter) exportBubbleRaster(m chart.BubbleModel, name string, format Format) (string, error) {
	p, err := bubblePlot(m)
	if err != nil {
		return "", err
	}
	path := e.Filename(name, string(format))
	if err := p.Save(rasterWidth, rasterHeight, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func bubblePlot(m chart.BubbleModel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Budget vs Spend"
	p.X.Label.Text = "Budget"
	p.Y.Label.Text = "Spent"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(m.Points))
	for i, b := range m.Points {
		pts[i] = plotter.XY{X: b.X, Y: b.Y}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	points := m.Points
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		r := points[i].Radius / 40
		if r < 2 {
			r = 2
		}
		if r > 18 {
			r = 18
		}
		return draw.GlyphStyle{
			Color:  hexColor(points[i].Color),
			Radius: vg.Points(r),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)
	return p, nil
}

// exportWord writes an HTML document with the raster embedded as
// base64, saved with a .doc extension so word processors open it.
func (e *Exporter) exportWord(records []domain.ProjectRecord, name string) (string, error) {
	m := chart.BuildBubble(records)
	p, err := bubblePlot(m)
	if err != nil {
		return "", err
	}
	wt, err := p.WriterTo(rasterWidth, rasterHeight, "png")
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}

	path := e.Filename(name, "doc")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	data := struct {
		Title    string
		Date     string
		Projects int
		Image    template.URL
	}{
		Title:    name,
		Date:     e.now().Format(time.DateOnly),
		Projects: len(records),
		Image:    template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
	}
	if err := wordTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var wordTemplate = template.Must(template.New("word").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Exported {{.Date}} — {{.Projects}} projects</p>
<img src="{{.Image}}" alt="chart"/>
</body>
</html>
`))

// ExportReportPDF composes a summary page plus the bubble raster.
func (e *Exporter) ExportReportPDF(records []domain.ProjectRecord, name string) (string, error) {
	e.waitReady()

	summary := portfolio.Summarize(records, e.now())
	m := chart.BuildBubble(records)
	p, err := bubblePlot(m)
	if err != nil {
		return "", err
	}
	wt, err := p.WriterTo(rasterWidth, rasterHeight, "png")
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}
	var img bytes.Buffer
	if _, err := wt.WriteTo(&img); err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Portfolio Report")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Generated: %s", e.now().Format(time.DateOnly)),
		fmt.Sprintf("Scale: %d portfolios, %d programs, %d projects", summary.Portfolios, summary.Programs, summary.Projects),
		fmt.Sprintf("Total budget: $%.0f   Total spent: $%.0f", summary.TotalBudget, summary.TotalSpent),
		fmt.Sprintf("Overdue: %d   Due within 30 days: %d   Over budget: %d",
			len(summary.Overdue), len(summary.DueSoon), len(summary.OverBudget)),
	}
	statuses := make([]string, 0, len(summary.StatusCounts))
	for st := range summary.StatusCounts {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		s := domain.Status(st)
		lines = append(lines, fmt.Sprintf("%s: %d (%.1f%%)", st, summary.StatusCounts[s], summary.StatusPercentages[s]))
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("bubble", opts, &img)
	pdf.ImageOptions("bubble", 10, pdf.GetY()+6, 190, 0, false, opts, 0, "")

	path := e.Filename(name, "pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportWorkbook writes the record set as a spreadsheet.
func (e *Exporter) ExportWorkbook(records []domain.ProjectRecord, name string) (string, error) {
	e.waitReady()

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Projects"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("sheet: %w", err)
	}

	headers := []string{"Portfolio", "Program", "Project", "External ID", "Manager", "Status", "Budget", "Spent", "Start", "Previous End", "Current End", "Department", "R&D Category", "Funding Source", "Notes"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", err
		}
	}
	for row, r := range records {
		values := []interface{}{
			r.Portfolio, r.Program, r.Name, r.ExternalID, r.Manager, string(r.Status),
			r.Budget, r.Spent,
			dateCell(r.Start), dateCell(r.PreviousEnd), dateCell(r.CurrentEnd),
			r.Department, r.RDCategory, r.FundingSource, r.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}
	}

	path := e.Filename(name, "xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func hexColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.Gray{Y: 128}
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
