// Package match scores assignment names against existing task names to
// detect probable duplicates before task creation.
package match

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Threshold is the duplicate-detection contract: a candidate counts as a
// pre-existing duplicate iff its best rating is strictly greater than this.
const Threshold = 0.85

// emptySentinel stands in when a target list has no tasks, so the matcher
// never scores against an empty set.
const emptySentinel = "No tasks"

// Match is the best-scoring existing name for a candidate.
type Match struct {
	Target string
	Rating float64
}

// IsDuplicate applies the threshold contract.
func (m Match) IsDuplicate() bool {
	return m.Rating > Threshold
}

// dice is a bigram Sørensen–Dice comparator. Case is folded so "HOMEWORK 3"
// and "Homework 3" score as identical.
var dice = &metrics.SorensenDice{CaseSensitive: false, NgramSize: 2}

// Best returns the highest-rated match for candidate among existing names.
// An empty existing set is replaced with a single sentinel entry.
func Best(candidate string, existing []string) Match {
	if len(existing) == 0 {
		existing = []string{emptySentinel}
	}

	best := Match{Target: existing[0], Rating: strutil.Similarity(candidate, existing[0], dice)}
	for _, name := range existing[1:] {
		if rating := strutil.Similarity(candidate, name, dice); rating > best.Rating {
			best = Match{Target: name, Rating: rating}
		}
	}
	return best
}
