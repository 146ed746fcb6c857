package scanner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowsOnePerControlLine(t *testing.T) {
	lines := []string{
		"struct ToolbarView: View {",
		"    Button(action: first) {",
		"    }",
		"    Button(action: second) {",
		"    }",
		"}",
	}

	ws := NewWindowScanner(DefaultRule())

	var controls []int
	for i, w := range ws.Windows(lines) {
		controls = append(controls, i)
		require.Equal(t, i, w.Start)
	}
	require.Equal(t, []int{1, 3}, controls)
}

func TestWindowsCappedAtEOF(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("// filler %d", i)
	}
	lines[8] = "Button {"

	ws := NewWindowScanner(DefaultRule())

	count := 0
	for i, w := range ws.Windows(lines) {
		count++
		require.Equal(t, 8, i)
		require.Equal(t, 10, w.End)
		require.Equal(t, 2, w.Len())
	}
	require.Equal(t, 1, count)
}

func TestWindowsRespectConfiguredSize(t *testing.T) {
	rule := DefaultRule()
	rule.WindowSize = 3

	lines := []string{
		"Button {",
		"a", "b", "c", "d",
	}

	ws := NewWindowScanner(rule)
	for _, w := range ws.Windows(lines) {
		require.Equal(t, 3, w.Len())
	}
}

func TestWindowsEmptyInput(t *testing.T) {
	ws := NewWindowScanner(DefaultRule())
	for range ws.Windows(nil) {
		t.Fatal("no windows expected for empty input")
	}
}

func TestIconLineFindsFirstIcon(t *testing.T) {
	lines := []string{
		"Button {",
		"    HStack {",
		`        Image(systemName: "trash")`,
		`        Image(systemName: "pencil")`,
		"    }",
		"}",
	}

	ws := NewWindowScanner(DefaultRule())
	for _, w := range ws.Windows(lines) {
		idx, symbol, ok := ws.IconLine(w)
		require.True(t, ok)
		require.Equal(t, 2, idx)
		require.Equal(t, "trash", symbol)
	}
}

func TestIconLineAnnotationSuppresses(t *testing.T) {
	lines := []string{
		"Button {",
		`    Image(systemName: "trash")`,
		`        .accessibilityLabel("Delete")`,
		"}",
	}

	ws := NewWindowScanner(DefaultRule())
	for _, w := range ws.Windows(lines) {
		_, _, ok := ws.IconLine(w)
		require.False(t, ok)
	}
}

func TestIconLineNoIconNoIssue(t *testing.T) {
	lines := []string{
		"Button(\"Save\") {",
		"    save()",
		"}",
	}

	ws := NewWindowScanner(DefaultRule())
	for _, w := range ws.Windows(lines) {
		_, _, ok := ws.IconLine(w)
		require.False(t, ok)
	}
}

func TestIconLineToleratesSpacing(t *testing.T) {
	lines := []string{
		"Button {",
		`    Image ( systemName : "xmark" )`,
		"}",
	}

	ws := NewWindowScanner(DefaultRule())
	for _, w := range ws.Windows(lines) {
		idx, symbol, ok := ws.IconLine(w)
		require.True(t, ok)
		require.Equal(t, 1, idx)
		require.Equal(t, "xmark", symbol)
	}
}
