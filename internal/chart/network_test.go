package chart

import (
	"testing"

	"github.com/tmcke/portview/internal/domain"
)

func TestBuildNetworkPeerLinkCount(t *testing.T) {
	// one program with k=4 projects: expect k(k-1)/2 = 6 peer edges
	records := []domain.ProjectRecord{
		proj("P1", "Alpha", "A1", "chen", 100),
		proj("P1", "Alpha", "A2", "chen", 100),
		proj("P1", "Alpha", "A3", "kim", 100),
		proj("P1", "Alpha", "A4", "kim", 100),
	}

	m := BuildNetwork(records)
	peers := 0
	for _, e := range m.Edges {
		if e.Kind == EdgePeer {
			peers++
		}
	}
	if peers != 6 {
		t.Fatalf("got %d peer edges, want 6", peers)
	}
}

func TestBuildNetworkDeduplicates(t *testing.T) {
	records := []domain.ProjectRecord{
		proj("P1", "Alpha", "A1", "chen", 100),
		proj("P1", "Alpha", "A1", "chen", 100), // repeated assignment
	}

	m := BuildNetwork(records)
	if m.Order != 2 {
		t.Fatalf("order %d, want 2 (one manager, one project)", m.Order)
	}
	if m.Size != 1 {
		t.Fatalf("size %d, want a single assignment edge", m.Size)
	}
	assignments := 0
	for _, e := range m.Edges {
		if e.Kind == EdgeAssignment {
			assignments++
		}
	}
	if assignments != 1 {
		t.Fatalf("%d assignment edges in the model, want 1", assignments)
	}
}

func TestBuildNetworkManagerValueCountsAssignments(t *testing.T) {
	records := []domain.ProjectRecord{
		proj("P1", "Alpha", "A1", "chen", 100),
		proj("P1", "Beta", "B1", "chen", 100),
	}

	m := BuildNetwork(records)
	for _, n := range m.Nodes {
		if n.Kind == NodeManager && n.Label == "chen" {
			if n.Value != 2 {
				t.Fatalf("manager value %.0f, want 2 assignments", n.Value)
			}
			return
		}
	}
	t.Fatal("manager node missing")
}

func TestStatusColorFallback(t *testing.T) {
	if StatusColor(domain.StatusOnTrack) == StatusColor(domain.StatusAtRisk) {
		t.Fatal("distinct statuses must have distinct colors")
	}
	if StatusColor(domain.StatusUnknown) != fallbackColor {
		t.Fatal("unknown status must use the fallback color")
	}
}
