package ranking

import "unicode/utf8"

// LevenshteinDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string
// into another. This is a pure function with no side effects.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Convert to runes for proper Unicode handling
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	// Two rows are enough; the full matrix is never needed.
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

// FuzzyBudget returns the edit-distance budget for a query token of the
// given length: 2 for long tokens, 1 for mid-length, 0 (fuzzy disabled) for
// short ones, where a single edit would change most of the token.
func FuzzyBudget(length int) int {
	switch {
	case length >= 7:
		return 2
	case length >= 4:
		return 1
	default:
		return 0
	}
}

// WithinDistance reports whether the edit distance between a and b is at
// most maxDist. The length difference alone is checked first so long field
// tokens are rejected without running the full computation.
func WithinDistance(a, b string, maxDist int) bool {
	if maxDist <= 0 {
		return a == b
	}
	diff := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return false
	}
	return LevenshteinDistance(a, b) <= maxDist
}
