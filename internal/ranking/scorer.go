package ranking

import (
	"sort"
	"strings"

	"github.com/hyperjump/tansaku/internal/synonym"
	"github.com/hyperjump/tansaku/internal/tokenizer"
)

const (
	// prefixEligibleLen is the token length at or below which prefix
	// matching is always attempted. Longer tokens only get it when they are
	// the last original token, where the user may still be typing.
	prefixEligibleLen = 3
	// minAcronymLen keeps single letters from triggering the acronym bonus.
	minAcronymLen = 2
)

// Scorer ranks indexed documents against analyzed queries. A Scorer is
// stateless apart from its config and safe for concurrent use.
type Scorer struct {
	cfg *Config
}

// NewScorer returns a Scorer using cfg, or the default config when nil.
func NewScorer(cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// Score ranks every indexed document against the query. rawQuery is the
// unprocessed user input; the exact-id and acronym checks normalize it
// themselves, so they fire even when tokens is empty. tokens is the analyzed
// token list with any synonym expansions appended after the originals.
//
// Documents whose total comes out zero are omitted entirely. Results are
// sorted by score descending, with corpus order breaking ties.
func (s *Scorer) Score(ix *Index, rawQuery string, tokens []synonym.Token) []ScoredResult {
	if ix.Len() == 0 {
		return nil
	}
	q := query{
		normalized:   tokenizer.Normalize(rawQuery),
		tokens:       tokens,
		lastOriginal: -1,
	}
	for i, tok := range tokens {
		if !tok.Expansion {
			q.originals++
			q.lastOriginal = i
		}
	}

	var results []ScoredResult
	for i := range ix.Entries {
		if res, ok := s.scoreEntry(&ix.Entries[i], &q); ok {
			results = append(results, res)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// query is the analyzed form of one search input.
type query struct {
	normalized   string
	tokens       []synonym.Token
	originals    int
	lastOriginal int
}

func (s *Scorer) scoreEntry(entry *DocumentEntry, q *query) (ScoredResult, bool) {
	var (
		sum             float64
		matchedOriginal int
		matched         = make([]bool, len(entry.Fields))
		positions       = make([][]int, len(entry.Fields))
	)

	for ti, tok := range q.tokens {
		prefixOK := ti == q.lastOriginal || len(tok.Text) <= prefixEligibleLen
		var best float64
		for fi := range entry.Fields {
			score, pos := s.matchField(&entry.Fields[fi], tok.Text, prefixOK)
			if score <= 0 {
				continue
			}
			matched[fi] = true
			if pos >= 0 {
				positions[fi] = append(positions[fi], pos)
			}
			if score > best {
				best = score
			}
		}
		if best == 0 {
			continue
		}
		if tok.Expansion {
			best *= s.cfg.ExpansionDiscount
		} else {
			matchedOriginal++
		}
		sum += best
	}

	total := sum
	if q.originals >= 2 && matchedOriginal == q.originals {
		total *= s.cfg.CoverageMultiplier
	}
	for fi, pos := range positions {
		if pairs := adjacentPairs(pos); pairs > 0 {
			total += s.cfg.PhraseFactor * entry.Fields[fi].Weight * float64(pairs)
		}
	}
	if q.normalized != "" && q.normalized == entry.NormalizedID {
		total += s.cfg.ExactIDBonus
		markField(matched, entry.Fields, FieldID)
	}
	if len(q.normalized) >= minAcronymLen && q.normalized == entry.Acronym {
		total += s.cfg.AcronymBonus
		markField(matched, entry.Fields, FieldTitle)
	}

	if total <= 0 {
		return ScoredResult{}, false
	}
	res := ScoredResult{ID: entry.ID, Score: total}
	for fi, ok := range matched {
		if ok {
			res.MatchedFields = append(res.MatchedFields, entry.Fields[fi].Name)
		}
	}
	return res, true
}

// matchField finds the strongest match of tok against f, cascading from
// exact down to substring. It returns the score and the position of the
// matched field token, or -1 when the match carries no position.
func (s *Scorer) matchField(f *Field, tok string, prefixOK bool) (float64, int) {
	if pos, ok := f.Pos[tok]; ok {
		return f.Weight, pos
	}
	if prefixOK {
		for i, ft := range f.Tokens {
			if len(ft) > len(tok) && strings.HasPrefix(ft, tok) {
				ratio := float64(len(tok)) / float64(len(ft))
				return f.Weight * (s.cfg.PrefixBase + s.cfg.PrefixScale*ratio), i
			}
		}
	}
	if budget := FuzzyBudget(len(tok)); budget > 0 {
		for i, ft := range f.Tokens {
			if WithinDistance(tok, ft, budget) {
				return f.Weight * s.cfg.FuzzyFactor, i
			}
		}
	}
	if f.Raw != "" && strings.Contains(f.Raw, tok) {
		return f.Weight * s.cfg.SubstringFactor, -1
	}
	return 0, -1
}

// adjacentPairs counts consecutive position pairs among the matched
// positions of one field. Positions are sorted in place.
func adjacentPairs(pos []int) int {
	if len(pos) < 2 {
		return 0
	}
	sort.Ints(pos)
	pairs := 0
	for i := 1; i < len(pos); i++ {
		if pos[i] == pos[i-1]+1 {
			pairs++
		}
	}
	return pairs
}

func markField(matched []bool, fields []Field, name string) {
	for i := range fields {
		if fields[i].Name == name {
			matched[i] = true
			return
		}
	}
}
