package scanner

// UnresolvedLabel marks symbols that have no curated label. The fixer still
// inserts it so the gap stays visible to reviewers.
const UnresolvedLabel = "TODO"

// SymbolTable maps SF Symbol names to suggested human-readable labels.
type SymbolTable map[string]string

// DefaultSymbols returns the curated symbol set.
func DefaultSymbols() SymbolTable {
	return SymbolTable{
		"gearshape":       "Settings",
		"gearshape.fill":  "Settings",
		"magnifyingglass": "Search",
		"plus":            "Add",
		"trash":           "Delete",
		"pencil":          "Edit",
		"xmark":           "Close",
		"chevron.left":    "Back",
	}
}

// WithOverrides returns a copy of t with non-empty entries from overrides
// layered on top. The receiver is not modified.
func (t SymbolTable) WithOverrides(overrides map[string]string) SymbolTable {
	merged := make(SymbolTable, len(t)+len(overrides))
	for symbol, label := range t {
		merged[symbol] = label
	}
	for symbol, label := range overrides {
		if label != "" {
			merged[symbol] = label
		}
	}
	return merged
}

// Resolve returns the suggested label for symbol. Total and deterministic:
// unknown symbols resolve to UnresolvedLabel, never to an empty string.
func (t SymbolTable) Resolve(symbol string) string {
	if label, ok := t[symbol]; ok {
		return label
	}
	return UnresolvedLabel
}
