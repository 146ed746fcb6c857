package models

// Issue represents one accessibility violation found in a Swift source file.
// The JSON shape is fixed at exactly these seven fields; CI consumers parse
// them by name, do not add or rename fields.
type Issue struct {
	Rule           string `json:"rule"`
	Title          string `json:"title"`
	Path           string `json:"path"`
	Line           int    `json:"line"`
	Symbol         string `json:"symbol"`
	SuggestedLabel string `json:"suggested_label"`
	Message        string `json:"message"`
}

// IssueKey uniquely identifies an issue. Line is the 1-based line of the
// icon reference, not the Button declaration.
type IssueKey struct {
	Path   string
	Line   int
	Symbol string
	Rule   string
}

// Key returns the deduplication key for the issue.
func (i *Issue) Key() IssueKey {
	return IssueKey{
		Path:   i.Path,
		Line:   i.Line,
		Symbol: i.Symbol,
		Rule:   i.Rule,
	}
}
