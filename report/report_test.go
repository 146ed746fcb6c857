package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SergeiSkv/SwiftA11y/models"
)

func sampleIssues() []*models.Issue {
	return []*models.Issue{
		{
			Rule:           "A11Y001",
			Title:          "Icon-only Button missing accessibilityLabel",
			Path:           "Views/ToolbarView.swift",
			Line:           12,
			Symbol:         "trash",
			SuggestedLabel: "Delete",
			Message:        `Add .accessibilityLabel("Delete") so VoiceOver/TalkBack announce what this icon button does.`,
		},
	}
}

func TestWriteJSONCreatesDirectories(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out", "nested", "a11y_report.json")

	require.NoError(t, WriteJSON(sampleIssues(), outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Equal(t, 1, payload.Count)
	require.Len(t, payload.Issues, 1)
	require.Equal(t, "trash", payload.Issues[0].Symbol)
	require.False(t, payload.GeneratedAt.IsZero())

	_, err = uuid.Parse(payload.RunID)
	require.NoError(t, err)
}

func TestWriteJSONEmptyIssues(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "a11y_report.json")

	require.NoError(t, WriteJSON(nil, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var payload Payload
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Equal(t, 0, payload.Count)
	require.NotNil(t, payload.Issues)
	require.Empty(t, payload.Issues)
}

func TestIssueJSONShape(t *testing.T) {
	// Downstream consumers rely on exactly these seven keys
	data, err := json.Marshal(sampleIssues()[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Len(t, fields, 7)
	for _, key := range []string{"rule", "title", "path", "line", "symbol", "suggested_label", "message"} {
		require.Contains(t, fields, key)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	body := Markdown(nil)
	require.Contains(t, body, Marker)
	require.Contains(t, body, "No issues found.")
	require.Contains(t, body, "✅")
}

func TestMarkdownWithIssues(t *testing.T) {
	body := Markdown(sampleIssues())
	require.Contains(t, body, Marker)
	require.Contains(t, body, "Found **1** issue(s).")
	require.Contains(t, body, "`Views/ToolbarView.swift:12`")
	require.Contains(t, body, "`trash`")
	require.Contains(t, body, "**Delete**")
	require.Contains(t, body, `.accessibilityLabel("Delete")`)
	require.Contains(t, body, "/a11y-fix")
}

func TestWriteMarkdown(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out", "a11y_report.md")

	require.NoError(t, WriteMarkdown(sampleIssues(), outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, Markdown(sampleIssues()), string(data))
}

func TestEmitAnnotations(t *testing.T) {
	var buf bytes.Buffer
	EmitAnnotations(&buf, sampleIssues())

	expected := "::error file=Views/ToolbarView.swift,line=12," +
		"title=A11Y001 Icon-only Button missing accessibilityLabel::" +
		`Add .accessibilityLabel("Delete") so VoiceOver/TalkBack announce what this icon button does.` + "\n"
	require.Equal(t, expected, buf.String())
}

func TestEmitAnnotationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	EmitAnnotations(&buf, nil)
	require.Empty(t, buf.String())
}
