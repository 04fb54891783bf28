package deck

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a suggestion may be.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name, if any is close enough to be
// a plausible typo.
func Suggest(name string, candidates []string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}
