package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statFor(t *testing.T, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info
}

func TestShouldSkipPath(t *testing.T) {
	tdir := t.TempDir()

	podsDir := filepath.Join(tdir, "Pods")
	require.NoError(t, os.MkdirAll(podsDir, 0o755))

	buildersDir := filepath.Join(tdir, "builders")
	require.NoError(t, os.MkdirAll(buildersDir, 0o755))

	swiftInBuild := filepath.Join(tdir, "build", "A.swift")
	require.NoError(t, os.MkdirAll(filepath.Dir(swiftInBuild), 0o755))
	require.NoError(t, os.WriteFile(swiftInBuild, []byte("x"), 0o644))

	generated := filepath.Join(tdir, "API.generated.swift")
	require.NoError(t, os.WriteFile(generated, []byte("x"), 0o644))

	excludes := []string{"Pods", "build", ".generated.swift"}

	skip, skipDir := shouldSkipPath(podsDir, statFor(t, podsDir), excludes)
	assert.False(t, skip)
	assert.True(t, skipDir)

	// "builders" must not match the "build" exclude
	skip, skipDir = shouldSkipPath(buildersDir, statFor(t, buildersDir), excludes)
	assert.False(t, skip)
	assert.False(t, skipDir)

	skip, skipDir = shouldSkipPath(swiftInBuild, statFor(t, swiftInBuild), excludes)
	assert.True(t, skip)
	assert.False(t, skipDir)

	skip, skipDir = shouldSkipPath(generated, statFor(t, generated), excludes)
	assert.True(t, skip)
	assert.False(t, skipDir)
}

func TestIsSourceFile(t *testing.T) {
	tdir := t.TempDir()

	swift := filepath.Join(tdir, "A.swift")
	require.NoError(t, os.WriteFile(swift, []byte("x"), 0o644))

	other := filepath.Join(tdir, "notes.md")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	extensions := []string{".swift"}

	assert.True(t, isSourceFile(swift, statFor(t, swift), extensions))
	assert.False(t, isSourceFile(other, statFor(t, other), extensions))
	assert.False(t, isSourceFile(tdir, statFor(t, tdir), extensions))
}

func TestRelTo(t *testing.T) {
	root := filepath.Join("repo")
	path := filepath.Join("repo", "Views", "A.swift")

	assert.Equal(t, "Views/A.swift", relTo(root, path))
	assert.Equal(t, "A.swift", relTo("repo/Views", path))
}

func TestCountLines(t *testing.T) {
	tdir := t.TempDir()

	path := filepath.Join(tdir, "A.swift")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))
	assert.Equal(t, 3, countLines(path))

	noNewline := filepath.Join(tdir, "B.swift")
	require.NoError(t, os.WriteFile(noNewline, []byte("single"), 0o644))
	assert.Equal(t, 1, countLines(noNewline))

	empty := filepath.Join(tdir, "C.swift")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	assert.Equal(t, 0, countLines(empty))

	assert.Equal(t, 0, countLines(filepath.Join(tdir, "missing.swift")))
}
