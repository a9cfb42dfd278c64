package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/tansaku/internal/ranking"
)

const (
	// suggestMaxDistance is the edit-distance ceiling for vocabulary terms
	// offered as corrections.
	suggestMaxDistance = 2
	// maxSuggestions caps the corrected queries attached to a response.
	maxSuggestions = 3
)

// candidate is one vocabulary term close to an unknown query token.
type candidate struct {
	term  string
	score float64
}

// Suggest proposes corrected query strings for tokens absent from the index
// vocabulary. Each unknown token is replaced by its closest vocabulary
// terms, ranked by document frequency over edit distance; known tokens pass
// through unchanged. No unknown tokens, or no close terms, means no
// suggestions.
func Suggest(ix *ranking.Index, tokens []string, max int) []string {
	if ix == nil || len(tokens) == 0 || max <= 0 {
		return nil
	}

	corrected := make([]string, len(tokens))
	copy(corrected, tokens)
	// alternates for the single corrected position, when only one token
	// was unknown; multi-token corrections only surface the best combo.
	var alternates []candidate
	unknownAt := -1
	unknowns := 0

	for i, tok := range tokens {
		if ix.DocFrequencies[tok] > 0 {
			continue
		}
		cands := closestTerms(ix, tok)
		if len(cands) == 0 {
			continue
		}
		unknowns++
		unknownAt = i
		corrected[i] = cands[0].term
		alternates = cands[1:]
	}
	if unknowns == 0 {
		return nil
	}

	suggestions := []string{strings.Join(corrected, " ")}
	if unknowns == 1 {
		for _, alt := range alternates {
			if len(suggestions) >= max {
				break
			}
			variant := make([]string, len(corrected))
			copy(variant, corrected)
			variant[unknownAt] = alt.term
			suggestions = append(suggestions, strings.Join(variant, " "))
		}
	}
	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

// closestTerms scans the vocabulary for terms within the edit budget of tok,
// best first. Ties rank alphabetically so map iteration order never leaks
// into responses.
func closestTerms(ix *ranking.Index, tok string) []candidate {
	var cands []candidate
	for term, freq := range ix.DocFrequencies {
		if term == tok || freq <= 0 {
			continue
		}
		if !ranking.WithinDistance(tok, term, suggestMaxDistance) {
			continue
		}
		dist := ranking.LevenshteinDistance(tok, term)
		cands = append(cands, candidate{
			term:  term,
			score: float64(freq) / float64(dist+1),
		})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].term < cands[j].term
	})
	return cands
}
