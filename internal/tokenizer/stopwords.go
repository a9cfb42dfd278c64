package tokenizer

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

// IsStopword reports whether word (already lowercased) is in the fixed
// stopword set.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
