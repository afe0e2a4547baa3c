package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmcke/portview/internal/domain"
)

func testExporter(t *testing.T) *Exporter {
	t.Helper()
	e := New(t.TempDir())
	e.now = func() time.Time { return time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestFilenameCarriesISODate(t *testing.T) {
	e := testExporter(t)
	got := e.Filename("dashboard", "png")
	require.Equal(t, "dashboard_2026-03-15.png", filepath.Base(got))
	require.Equal(t, e.OutDir, filepath.Dir(got))
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"png", "JPEG", "jpg", "svg", "pdf", "word", "html", "xlsx", " PNG "} {
		_, err := ParseFormat(ok)
		require.NoError(t, err, ok)
	}
	_, err := ParseFormat("gif")
	require.Error(t, err)
}

func TestExportWorkbook(t *testing.T) {
	e := testExporter(t)
	records := []domain.ProjectRecord{
		{Portfolio: "P1", Program: "Alpha", Name: "A1", Status: domain.StatusOnTrack, Budget: 100, Spent: 40},
		{Portfolio: "P2", Program: "Beta", Name: "B1", Status: domain.StatusDelayed, Budget: 200, Spent: 250},
	}

	path, err := e.ExportWorkbook(records, "projects")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "projects_2026-03-15.xlsx"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportWordEmbedsImage(t *testing.T) {
	e := testExporter(t)
	records := []domain.ProjectRecord{
		{Portfolio: "P1", Program: "Alpha", Name: "A1", Status: domain.StatusOnTrack, Budget: 100, Spent: 40},
	}

	path, err := e.exportWord(records, "chart")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".doc"))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "data:image/png;base64,")
	require.Contains(t, string(body), "1 projects")
}

func TestExportDashboardHTML(t *testing.T) {
	e := testExporter(t)
	records := []domain.ProjectRecord{
		{Portfolio: "P1", Program: "Alpha", Name: "A1", Status: domain.StatusOnTrack, Budget: 100},
	}
	rng := domain.DateRange{
		Min: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
	}

	path, err := e.Export(records, rng, "dashboard", FormatHTML)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "echarts")
}

func TestHexColor(t *testing.T) {
	require.NotNil(t, hexColor("#91cc75"))
	require.NotNil(t, hexColor("bogus")) // degrades to gray, never nil
}
