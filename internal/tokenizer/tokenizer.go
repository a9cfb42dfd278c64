// Package tokenizer normalizes raw text into the token streams shared by the
// scorer index and the hash embedder. Every function is pure and total:
// identical input always yields identical output, and no input is an error.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text, splits it on every non-alphanumeric rune (so
// hyphenated and compound forms become separate tokens), and removes
// stopwords. Empty or whitespace-only input yields nil.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if IsStopword(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// TokenizeQuery tokenizes like Tokenize and deduplicates the result,
// preserving first-seen order. Query tokens are matched as a set, so
// repeats add nothing.
func TokenizeQuery(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Normalize strips everything but letters and digits and lowercases the rest.
// Used for exact-id and acronym comparison, where separators are noise.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Acronym returns the first letters of the non-stopword words in title,
// lowercased. Hyphens separate words the same way whitespace does, so
// "Robot-Mode Maker" and "Robot Mode Maker" both yield "rmm".
func Acronym(title string) string {
	if title == "" {
		return ""
	}
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	var b strings.Builder
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w == "" || IsStopword(w) {
			continue
		}
		for _, r := range w {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}
