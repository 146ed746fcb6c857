// Package report renders issue lists for humans and machines. Reporters only
// consume issues; none of them re-scan files or mutate anything besides their
// own output paths.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SergeiSkv/SwiftA11y/models"
)

// Marker identifies bot-generated markdown so PR tooling can find and update
// its own comment instead of posting a new one.
const Marker = "<!-- a11y-bot -->"

// Payload is the machine-readable report envelope.
type Payload struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Count       int             `json:"count"`
	Issues      []*models.Issue `json:"issues"`
}

// WriteJSON writes the JSON report to outPath, creating parent directories.
func WriteJSON(issues []*models.Issue, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	payload := Payload{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Count:       len(issues),
		Issues:      issues,
	}
	if payload.Issues == nil {
		payload.Issues = []*models.Issue{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the human-readable report to outPath, creating parent
// directories.
func WriteMarkdown(issues []*models.Issue, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(Markdown(issues)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report body.
func Markdown(issues []*models.Issue) string {
	if len(issues) == 0 {
		return Marker + "\n## ✅ SwiftUI Accessibility Report\n\nNo issues found.\n"
	}

	var sb strings.Builder
	sb.Grow(len(issues) * 400)
	sb.WriteString(Marker + "\n")
	sb.WriteString("## ❌ SwiftUI Accessibility Report\n\n")
	fmt.Fprintf(&sb, "Found **%d** issue(s).\n\n", len(issues))

	for idx, issue := range issues {
		fmt.Fprintf(&sb, "### %d) `%s` — %s\n", idx+1, issue.Rule, issue.Title)
		fmt.Fprintf(&sb, "- File: `%s:%d`\n", issue.Path, issue.Line)
		fmt.Fprintf(&sb, "- Detected icon: `%s`\n", issue.Symbol)
		fmt.Fprintf(&sb, "- Recommended label: **%s**\n\n", issue.SuggestedLabel)
		sb.WriteString("Suggested fix:\n")
		sb.WriteString("```swift\n")
		fmt.Fprintf(&sb, "Image(systemName: %q)\n", issue.Symbol)
		fmt.Fprintf(&sb, "    .accessibilityLabel(%q)\n", issue.SuggestedLabel)
		sb.WriteString("```\n\n")
		sb.WriteString("Why this matters:\n")
		sb.WriteString("- Screen readers use accessibility metadata. Without a label, users may only hear “Button” with no meaning.\n\n")
		sb.WriteString("To auto-fix this PR, comment:\n")
		sb.WriteString("`/a11y-fix`\n\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// EmitAnnotations writes GitHub workflow commands to w, one per issue. The
// runner turns each into an annotation tied to the file and line.
func EmitAnnotations(w io.Writer, issues []*models.Issue) {
	for _, issue := range issues {
		title := fmt.Sprintf("%s %s", issue.Rule, issue.Title)
		fmt.Fprintf(w, "::error file=%s,line=%d,title=%s::%s\n",
			issue.Path, issue.Line, title, issue.Message)
	}
}
