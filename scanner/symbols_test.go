package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCuratedSymbols(t *testing.T) {
	tests := []struct {
		symbol   string
		expected string
	}{
		{"gearshape", "Settings"},
		{"gearshape.fill", "Settings"},
		{"magnifyingglass", "Search"},
		{"plus", "Add"},
		{"trash", "Delete"},
		{"pencil", "Edit"},
		{"xmark", "Close"},
		{"chevron.left", "Back"},
	}

	symbols := DefaultSymbols()
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			require.Equal(t, tt.expected, symbols.Resolve(tt.symbol))
		})
	}
}

func TestResolveUnknownSymbol(t *testing.T) {
	symbols := DefaultSymbols()

	require.Equal(t, UnresolvedLabel, symbols.Resolve("sparkles"))
	require.Equal(t, UnresolvedLabel, symbols.Resolve(""))
	require.NotEmpty(t, symbols.Resolve("definitely.not.curated"))
}

func TestWithOverrides(t *testing.T) {
	symbols := DefaultSymbols().WithOverrides(map[string]string{
		"trash":    "Remove item",
		"sparkles": "Magic",
		"pencil":   "", // empty override must not erase the default
	})

	require.Equal(t, "Remove item", symbols.Resolve("trash"))
	require.Equal(t, "Magic", symbols.Resolve("sparkles"))
	require.Equal(t, "Edit", symbols.Resolve("pencil"))

	// Originals untouched
	require.Equal(t, "Delete", DefaultSymbols().Resolve("trash"))
}
