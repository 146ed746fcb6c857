package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SergeiSkv/SwiftA11y/models"
)

func issueAt(path string, line int, symbol string) *models.Issue {
	return &models.Issue{
		Rule:   RuleID,
		Path:   path,
		Line:   line,
		Symbol: symbol,
	}
}

func TestDeduplicatePreservesFirstSeenOrder(t *testing.T) {
	issues := []*models.Issue{
		issueAt("a.swift", 12, "trash"),
		issueAt("a.swift", 30, "plus"),
		issueAt("a.swift", 12, "trash"), // dup from an overlapping window
		issueAt("a.swift", 5, "xmark"),
		issueAt("a.swift", 30, "plus"),
	}

	unique := Deduplicate(issues)
	require.Len(t, unique, 3)
	require.Equal(t, 12, unique[0].Line)
	require.Equal(t, 30, unique[1].Line)
	require.Equal(t, 5, unique[2].Line)
}

func TestDeduplicateKeyFields(t *testing.T) {
	// Same line, different symbol: both kept
	issues := []*models.Issue{
		issueAt("a.swift", 12, "trash"),
		issueAt("a.swift", 12, "pencil"),
		issueAt("b.swift", 12, "trash"),
	}

	unique := Deduplicate(issues)
	require.Len(t, unique, 3)
}

func TestDeduplicateSmallInputs(t *testing.T) {
	require.Empty(t, Deduplicate(nil))

	one := []*models.Issue{issueAt("a.swift", 1, "plus")}
	require.Len(t, Deduplicate(one), 1)
}
