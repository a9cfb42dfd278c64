package synonym

// DefaultTable returns the built-in synonym table. Entries map a normalized
// query token to catalog terms that should also be tried. The table is
// intentionally small; deployments with richer vocabularies override it via
// the synonyms section of the config file.
func DefaultTable() map[string][]string {
	return map[string][]string{
		"write":      {"writing", "draft", "compose"},
		"writing":    {"write", "draft", "editing"},
		"draft":      {"write", "compose"},
		"code":       {"coding", "programming", "develop"},
		"coding":     {"code", "programming"},
		"develop":    {"code", "build"},
		"debug":      {"debugging", "fix", "troubleshoot"},
		"debugging":  {"debug", "troubleshoot"},
		"fix":        {"debug", "repair"},
		"error":      {"bug", "failure", "fault"},
		"bug":        {"error", "defect"},
		"market":     {"marketing", "promotion"},
		"marketing":  {"market", "promotion", "advertising"},
		"promote":    {"marketing", "advertise"},
		"idea":       {"concept", "brainstorm"},
		"brainstorm": {"idea", "ideate"},
		"summary":    {"summarize", "digest", "overview"},
		"summarize":  {"summary", "condense"},
		"translate":  {"translation", "localize"},
		"email":      {"mail", "message"},
	}
}
