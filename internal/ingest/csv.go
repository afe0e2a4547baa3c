// Package ingest reads project CSV exports into normalized records.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tmcke/portview/internal/domain"
)

// Result summarizes one import run. Malformed individual fields never
// abort the run; they degrade to defaults. Errors holds per-line
// structural failures (bad CSV, no usable cells).
type Result struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Column aliases, keyed by normalized header (lowercase, separators
// stripped). Headers not listed here land in ProjectRecord.Extra.
var columnAliases = map[string]string{
	"portfolio":       "portfolio",
	"program":         "program",
	"programme":       "program",
	"project":         "name",
	"projectname":     "name",
	"bpmid":           "externalID",
	"externalid":      "externalID",
	"projectmanager":  "manager",
	"manager":         "manager",
	"status":          "status",
	"budget":          "budget",
	"spent":           "spent",
	"actuals":         "spent",
	"g0":              "start",
	"startdate":       "start",
	"g5previous":      "previousEnd",
	"previousenddate": "previousEnd",
	"g5current":       "currentEnd",
	"currentenddate":  "currentEnd",
	"enddate":         "currentEnd",
	"department":      "department",
	"rdcategory":      "rdCategory",
	"fundingsource":   "fundingSource",
	"otherdetail":     "notes",
	"notes":           "notes",
}

// dateLayouts are tried in order. Dates failing every layout stay nil
// and are excluded from range computation downstream.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
	"2/01/2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ReadCSV parses a header-driven project CSV. The first row must be a
// header; column order is free. Rows shorter than the header are padded
// with empty cells, fully empty rows are skipped.
func ReadCSV(r io.Reader) ([]domain.ProjectRecord, Result, error) {
	res := Result{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err == io.EOF {
		return nil, res, nil
	}
	if err != nil {
		return nil, res, fmt.Errorf("read header: %w", err)
	}
	fields := bindColumns(header)

	var out []domain.ProjectRecord
	line := 1
	for {
		line++
		row, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if emptyRow(row) {
			res.Skipped++
			continue
		}
		out = append(out, buildRecord(header, fields, row))
		res.Imported++
	}
	return out, res, nil
}

type binding struct {
	field string // normalized field name, or "" for Extra
	index int
}

func bindColumns(header []string) []binding {
	out := make([]binding, len(header))
	for i, h := range header {
		out[i] = binding{field: columnAliases[normalizeHeader(h)], index: i}
	}
	return out
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(h)
	return h
}

func buildRecord(header []string, fields []binding, row []string) domain.ProjectRecord {
	rec := domain.ProjectRecord{Status: domain.StatusUnknown}
	for _, b := range fields {
		var cell string
		if b.index < len(row) {
			cell = strings.TrimSpace(row[b.index])
		}
		switch b.field {
		case "portfolio":
			rec.Portfolio = cell
		case "program":
			rec.Program = cell
		case "name":
			rec.Name = cell
		case "externalID":
			rec.ExternalID = cell
		case "manager":
			rec.Manager = cell
		case "status":
			rec.Status = domain.ParseStatus(cell)
		case "budget":
			rec.Budget = parseMoney(cell)
		case "spent":
			rec.Spent = parseMoney(cell)
		case "start":
			rec.Start = parseDate(cell)
		case "previousEnd":
			rec.PreviousEnd = parseDate(cell)
		case "currentEnd":
			rec.CurrentEnd = parseDate(cell)
		case "department":
			rec.Department = cell
		case "rdCategory":
			rec.RDCategory = cell
		case "fundingSource":
			rec.FundingSource = cell
		case "notes":
			rec.Notes = cell
		default:
			if cell != "" {
				if rec.Extra == nil {
					rec.Extra = map[string]string{}
				}
				rec.Extra[strings.TrimSpace(header[b.index])] = cell
			}
		}
	}
	return rec
}

// parseMoney tolerates currency symbols, thousands separators and
// garbage; anything unparseable is 0 so aggregation sums stay finite.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
