package assistant

import "testing"

func TestGuardLastWins(t *testing.T) {
	var g Guard

	first := g.Begin()
	second := g.Begin()

	if g.Accept(first) {
		t.Fatal("stale response must be dropped")
	}
	if !g.Accept(second) {
		t.Fatal("latest response must be accepted")
	}
	// acceptance is not consumed: late re-delivery of the same seq is still current
	if !g.Accept(second) {
		t.Fatal("latest seq stays current until a newer request begins")
	}
}
