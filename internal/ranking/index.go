package ranking

import (
	"strings"

	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/tokenizer"
)

// BuildIndex materializes the scoring view of a corpus in a single pass over
// the documents. Missing fields are treated as empty text, never as an
// error. Field order inside each entry is fixed so matched-field lists come
// out in a stable order.
func BuildIndex(docs []*models.Document, cfg *Config) *Index {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ix := &Index{
		Entries:        make([]DocumentEntry, 0, len(docs)),
		DocFrequencies: make(map[string]int),
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		entry := DocumentEntry{
			ID:           doc.ID,
			NormalizedID: tokenizer.Normalize(doc.ID),
			Acronym:      tokenizer.Acronym(doc.Title),
			Fields: []Field{
				newField(FieldTitle, cfg.TitleWeight, doc.Title),
				newField(FieldID, cfg.IDWeight, doc.ID),
				newField(FieldTags, cfg.TagsWeight, strings.Join(doc.Tags, " ")),
				newField(FieldCategory, cfg.CategoryWeight, doc.Category),
				newField(FieldDescription, cfg.DescriptionWeight, doc.Description),
				newField(FieldContent, cfg.ContentWeight, doc.Content),
			},
		}
		countTerms(ix.DocFrequencies, entry.Fields)
		ix.Entries = append(ix.Entries, entry)
	}
	return ix
}

func newField(name string, weight float64, text string) Field {
	tokens := tokenizer.Tokenize(text)
	pos := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, ok := pos[tok]; !ok {
			pos[tok] = i
		}
	}
	return Field{
		Name:   name,
		Weight: weight,
		Tokens: tokens,
		Pos:    pos,
		Raw:    strings.ToLower(text),
	}
}

// countTerms bumps the document frequency once per distinct token in the
// document, regardless of how many fields repeat it.
func countTerms(freqs map[string]int, fields []Field) {
	seen := make(map[string]struct{})
	for _, f := range fields {
		for tok := range f.Pos {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			freqs[tok]++
		}
	}
}
