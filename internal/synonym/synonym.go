// Package synonym expands query token lists with domain synonyms. Expansion
// is purely additive: originals are never removed, replaced, or re-marked,
// and callers can tell expansion tokens apart so scoring can discount them.
package synonym

// Token is a query token with its provenance.
type Token struct {
	Text      string
	Expansion bool
}

// Expander adds synonyms from a static table to query token lists.
type Expander struct {
	table map[string][]string
}

// NewExpander returns an Expander over the given table. A nil or empty table
// selects the built-in catalog table.
func NewExpander(table map[string][]string) *Expander {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Expander{table: table}
}

// Expand returns the original tokens followed by any table synonyms for
// them, deduplicated. A synonym that collides with an original token is
// dropped (the original already covers it at full weight).
func (e *Expander) Expand(tokens []string) []Token {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Token, 0, len(tokens)*2)
	seen := make(map[string]bool, len(tokens)*2)
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, Token{Text: tok})
	}
	for _, tok := range tokens {
		for _, syn := range e.table[tok] {
			if seen[syn] {
				continue
			}
			seen[syn] = true
			out = append(out, Token{Text: syn, Expansion: true})
		}
	}
	return out
}

// Wrap converts a plain token list to Tokens without expanding anything.
// Used when the caller has not opted in to expansion.
func Wrap(tokens []string) []Token {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{Text: tok}
	}
	return out
}
