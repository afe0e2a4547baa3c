package portfolio

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestMaxDistance caps how far a candidate may be from the input
// before "did you mean" stays silent.
const suggestMaxDistance = 3

// ClosestName returns the candidate nearest to name by edit distance,
// or "" when nothing is close enough to be a plausible typo.
func ClosestName(name string, candidates []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best, bestDist := "", suggestMaxDistance+1
	for _, c := range candidates {
		if c == "" {
			continue
		}
		d := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
