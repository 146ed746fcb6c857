package cmd

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SergeiSkv/SwiftA11y/models"
)

// loadCachedIssues attempts to load issues from the cache
func loadCachedIssues(path string) ([]*models.Issue, bool) {
	if cacheDB == nil || noCache {
		return nil, false
	}

	changed, err := cacheDB.IsFileChanged(path)
	if err != nil || changed {
		return nil, false
	}

	record, err := cacheDB.GetFileRecord(path)
	if err != nil {
		return nil, false
	}

	if verbose {
		slog.Debug("Using cached results", "file", path, "issues", len(record.Issues))
	}
	return record.Issues, true
}

// saveToCacheDB saves issues to the cache
func saveToCacheDB(path string, issues []*models.Issue) {
	if cacheDB == nil || noCache {
		return
	}

	if err := cacheDB.SaveFileRecord(path, issues); err != nil {
		slog.Debug("Failed to save to cache", "file", path, "error", err)
	}
}

// shouldSkipPath checks if a path should be skipped based on exclusion rules
func shouldSkipPath(path string, info os.FileInfo, excludes []string) (skip, skipDir bool) {
	cleanPath := filepath.Clean(path)

	for _, exclude := range excludes {
		cleanExclude := filepath.Clean(exclude)

		if strings.HasPrefix(exclude, ".") && strings.Contains(exclude[1:], ".") {
			// Extension-like pattern (e.g. ".generated.swift")
			if !info.IsDir() && strings.HasSuffix(cleanPath, exclude) {
				return true, false
			}
			continue
		}

		// Path segment match
		if containsSegment(cleanPath, cleanExclude) {
			if info.IsDir() {
				return false, true
			}
			return true, false
		}

		if filepath.Base(cleanPath) == exclude {
			if info.IsDir() {
				return false, true
			}
			return true, false
		}
	}

	return false, false
}

// containsSegment reports whether path contains exclude as a whole path
// segment, so "build" does not also exclude "builders".
func containsSegment(path, exclude string) bool {
	for _, seg := range strings.Split(path, string(filepath.Separator)) {
		if seg == exclude {
			return true
		}
	}
	return false
}

// isSourceFile checks if a file carries one of the scanned extensions
func isSourceFile(path string, info os.FileInfo, extensions []string) bool {
	if info.IsDir() {
		return false
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// relTo returns path relative to root in forward-slash form, as stamped into
// issues.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// countLines counts the number of lines in a file using streaming IO
func countLines(path string) int {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer func() {
		_ = file.Close()
	}()

	sc := bufio.NewScanner(file)
	lineCount := 0
	for sc.Scan() {
		lineCount++
	}

	// Handle files that don't end with newline
	if lineCount == 0 {
		if stat, err := file.Stat(); err == nil && stat.Size() > 0 {
			lineCount = 1
		}
	}

	return lineCount
}
