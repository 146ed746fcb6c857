package scanner

import (
	"fmt"
	"os"
	"strings"

	"github.com/SergeiSkv/SwiftA11y/models"
)

// Detector runs the window heuristic over one file at a time. It is safe for
// concurrent use: all state is read-only after construction.
type Detector struct {
	rule    Rule
	symbols SymbolTable
	windows *WindowScanner
}

// NewDetector returns a detector for rule, resolving labels via symbols.
func NewDetector(rule Rule, symbols SymbolTable) *Detector {
	return &Detector{
		rule:    rule,
		symbols: symbols,
		windows: NewWindowScanner(rule),
	}
}

// DetectFile reads path and scans it. relPath is stamped into every issue
// and must be repo-relative with forward slashes. The error is non-nil only
// when the file cannot be read; undecodable bytes inside a readable file are
// replaced with U+FFFD instead of failing the file.
func (d *Detector) DetectFile(path, relPath string) ([]*models.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d.DetectLines(SplitLines(data), relPath), nil
}

// DetectLines scans an in-memory line sequence and returns the deduplicated
// issues in first-seen order.
func (d *Detector) DetectLines(lines []string, relPath string) []*models.Issue {
	var raw []*models.Issue
	for _, window := range d.windows.Windows(lines) {
		iconIdx, symbol, ok := d.windows.IconLine(window)
		if !ok {
			continue
		}
		label := d.symbols.Resolve(symbol)
		raw = append(raw, &models.Issue{
			Rule:           d.rule.ID,
			Title:          d.rule.Title,
			Path:           relPath,
			Line:           iconIdx + 1,
			Symbol:         symbol,
			SuggestedLabel: label,
			Message: fmt.Sprintf(
				"Add %s(%q) so VoiceOver/TalkBack announce what this icon button does.",
				d.rule.AnnotationMarker, label,
			),
		})
	}
	return Deduplicate(raw)
}

// SplitLines decodes file content into lines. Invalid UTF-8 is replaced with
// U+FFFD, CRLF endings are tolerated and a trailing newline does not produce
// an empty final line, so indices match what editors display.
func SplitLines(data []byte) []string {
	text := strings.ToValidUTF8(string(data), "�")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
