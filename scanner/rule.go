package scanner

import "regexp"

const (
	RuleID    = "A11Y001"
	RuleTitle = "Icon-only Button missing accessibilityLabel"
)

// Heuristic defaults. All of them are carried by Rule so a config file or a
// future structural backend can substitute its own values.
const (
	DefaultWindowSize   = 40
	DefaultFixLookahead = 6
	DefaultIndentUnit   = "    " // standard SwiftUI indentation for chained modifiers
	AnnotationMarker    = ".accessibilityLabel"
)

var (
	defaultControlRe = regexp.MustCompile(`\bButton\b`)
	defaultIconRe    = regexp.MustCompile(`Image\s*\(\s*systemName\s*:\s*"([^"]+)"\s*\)`)
)

// Rule bundles the text patterns and window geometry of one detection rule.
// The matching is heuristic by design: it runs over raw lines, not a Swift
// syntax tree, and trades false positives/negatives for zero build setup.
type Rule struct {
	ID               string
	Title            string
	WindowSize       int // forward lookahead from a control line, capped at EOF
	FixLookahead     int // lines the fixer inspects before inserting
	IndentUnit       string
	ControlPattern   *regexp.Regexp
	IconPattern      *regexp.Regexp // first capture group is the symbol name
	AnnotationMarker string
}

// DefaultRule returns the A11Y001 rule with stock patterns.
func DefaultRule() Rule {
	return Rule{
		ID:               RuleID,
		Title:            RuleTitle,
		WindowSize:       DefaultWindowSize,
		FixLookahead:     DefaultFixLookahead,
		IndentUnit:       DefaultIndentUnit,
		ControlPattern:   defaultControlRe,
		IconPattern:      defaultIconRe,
		AnnotationMarker: AnnotationMarker,
	}
}
