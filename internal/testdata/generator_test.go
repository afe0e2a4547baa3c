package testdata

import (
	"strings"
	"testing"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(25, 7)
	b := Generate(25, 7)

	if len(a) != 25 {
		t.Fatalf("got %d records", len(a))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Budget != b[i].Budget || a[i].Status != b[i].Status {
			t.Fatalf("record %d differs across runs with the same seed", i)
		}
	}
}

func TestCSVHasHeaderAndRows(t *testing.T) {
	out := CSV(Generate(3, 1))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header plus 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Portfolio,Program,") {
		t.Fatalf("header missing: %q", lines[0])
	}
}
