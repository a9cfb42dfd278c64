package search

import (
	"strings"

	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/pkg/utils"
)

// Snippet returns the display excerpt for a document: the description when
// present, otherwise the leading content, truncated to maxLen runes.
func Snippet(doc *models.Document, maxLen int) string {
	text := strings.TrimSpace(doc.Description)
	if text == "" {
		text = strings.TrimSpace(doc.Content)
	}
	text = strings.Join(strings.Fields(text), " ")
	return utils.Truncate(text, maxLen)
}
