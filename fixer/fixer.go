package fixer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/SergeiSkv/SwiftA11y/models"
	"github.com/SergeiSkv/SwiftA11y/scanner"
)

var leadingWhitespaceRe = regexp.MustCompile(`^[ \t]*`)

// Engine rewrites Swift files in place, inserting the missing
// accessibilityLabel modifier directly after each flagged icon line.
type Engine struct {
	rule scanner.Rule
}

// New returns an engine applying fixes with the geometry of rule.
func New(rule scanner.Rule) *Engine {
	return &Engine{rule: rule}
}

// Apply groups issues by file and rewrites each file under root. It returns
// the number of files actually modified; files where every insertion was
// skipped are left untouched. Issues that reference a missing file or a line
// outside the file's current bounds are skipped, never fatal.
func (e *Engine) Apply(root string, issues []*models.Issue) int {
	byFile := make(map[string][]*models.Issue, len(issues))
	var order []string // deterministic file processing order
	for _, issue := range issues {
		if _, ok := byFile[issue.Path]; !ok {
			order = append(order, issue.Path)
		}
		byFile[issue.Path] = append(byFile[issue.Path], issue)
	}

	changedFiles := 0
	for _, rel := range order {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if e.applyFile(path, byFile[rel]) {
			changedFiles++
		}
	}
	return changedFiles
}

// applyFile inserts annotations for one file's issues. Line numbers were
// recorded against the original file, so insertions run in descending line
// order: each insertion shifts every line below it, and bottom-up application
// keeps the not-yet-applied positions valid.
func (e *Engine) applyFile(path string, issues []*models.Issue) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Skipping fixes, file unreadable", "file", path, "error", err)
		return false
	}
	lines := scanner.SplitLines(data)

	sorted := make([]*models.Issue, len(issues))
	copy(sorted, issues)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Line > sorted[j].Line })

	changed := false
	for _, issue := range sorted {
		idx := issue.Line - 1
		if idx < 0 || idx >= len(lines) {
			slog.Warn("Issue line out of range, skipping", "file", path, "line", issue.Line)
			continue
		}
		if e.alreadyLabeled(lines, idx) {
			continue
		}
		indent := leadingWhitespaceRe.FindString(lines[idx])
		insert := indent + e.rule.IndentUnit +
			fmt.Sprintf("%s(%q)", e.rule.AnnotationMarker, issue.SuggestedLabel)
		lines = append(lines[:idx+1], append([]string{insert}, lines[idx+1:]...)...)
		changed = true
	}

	if !changed {
		return false
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		slog.Warn("Failed to write fixed file", "file", path, "error", err)
		return false
	}
	return true
}

// alreadyLabeled reports whether the annotation marker appears within the fix
// lookahead starting at the icon line. This is what makes a second fix run
// over an already-fixed file a no-op.
func (e *Engine) alreadyLabeled(lines []string, idx int) bool {
	end := min(len(lines), idx+e.rule.FixLookahead)
	for _, line := range lines[idx:end] {
		if strings.Contains(line, e.rule.AnnotationMarker) {
			return true
		}
	}
	return false
}
