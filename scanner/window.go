package scanner

import (
	"iter"
	"strings"
)

// Window is a bounded forward span of lines anchored at a control line. It
// only lives for the duration of one scan; nothing persists it.
type Window struct {
	Start int // control line index, 0-based
	End   int // exclusive, capped at len(lines)
	lines []string
}

// Text returns the window content joined with newlines.
func (w Window) Text() string {
	return strings.Join(w.lines[w.Start:w.End], "\n")
}

// Len returns the number of lines covered by the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// WindowScanner finds control declarations in a line sequence and associates
// each with its lookahead window.
type WindowScanner struct {
	rule Rule
}

// NewWindowScanner returns a scanner using the patterns and geometry of rule.
func NewWindowScanner(rule Rule) *WindowScanner {
	return &WindowScanner{rule: rule}
}

// Windows yields one (control line index, window) pair per line matching the
// control pattern. Windows never look behind the control line and are capped
// at end of file. Overlapping windows are expected; issue-level dedup
// collapses repeated detections of the same icon line.
func (s *WindowScanner) Windows(lines []string) iter.Seq2[int, Window] {
	return func(yield func(int, Window) bool) {
		for i, line := range lines {
			if !s.rule.ControlPattern.MatchString(line) {
				continue
			}
			end := min(len(lines), i+s.rule.WindowSize)
			if !yield(i, Window{Start: i, End: end, lines: lines}) {
				return
			}
		}
	}
}

// IconLine locates the violation inside w. It returns the 0-based index of
// the first line matching the icon pattern and the captured symbol name.
// ok is false when the window already carries the annotation marker (assumed
// intentional, even if the marker belongs to a different control in the same
// window) or contains no icon reference at all.
func (s *WindowScanner) IconLine(w Window) (idx int, symbol string, ok bool) {
	text := w.Text()
	if strings.Contains(text, s.rule.AnnotationMarker) {
		return 0, "", false
	}
	m := s.rule.IconPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	// Only the first icon in the window is reported; re-scan line by line to
	// recover its position.
	for j := w.Start; j < w.End; j++ {
		if s.rule.IconPattern.MatchString(w.lines[j]) {
			return j, m[1], true
		}
	}
	return 0, "", false
}
