package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SergeiSkv/SwiftA11y/models"
)

const (
	CacheDir     = ".swifta11y"
	CacheFile    = "cache.json"
	CacheVersion = "1.0"
)

// FileCache persists per-file scan results keyed by content hash, so
// unchanged files are not re-scanned on subsequent runs.
type FileCache struct {
	mu       sync.RWMutex
	baseDir  string
	cacheDir string
	data     *cacheData
}

type cacheData struct {
	Version     string        `json:"version"`
	Files       []*FileRecord `json:"files"`
	Stats       *Stats        `json:"stats"`
	LastUpdated time.Time     `json:"last_updated"`
}

// FileRecord holds the cached scan result for one file.
type FileRecord struct {
	Path        string          `json:"path"`
	Hash        string          `json:"hash"`
	LastScanned time.Time       `json:"last_scanned"`
	Issues      []*models.Issue `json:"issues"`
}

// Stats accumulates cache effectiveness counters.
type Stats struct {
	TotalFiles   int       `json:"total_files"`
	TotalIssues  int       `json:"total_issues"`
	CacheHits    int       `json:"cache_hits"`
	CacheMisses  int       `json:"cache_misses"`
	LastFullScan time.Time `json:"last_full_scan"`
}

// New creates a cache rooted at baseDir/.swifta11y.
func New(baseDir string) (*FileCache, error) {
	if baseDir == "" {
		var err error
		baseDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	cacheDir := filepath.Join(baseDir, CacheDir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	fc := &FileCache{
		baseDir:  baseDir,
		cacheDir: cacheDir,
		data: &cacheData{
			Version:     CacheVersion,
			Files:       make([]*FileRecord, 0, 100),
			Stats:       &Stats{},
			LastUpdated: time.Now(),
		},
	}

	if err := fc.load(); err != nil {
		// A corrupt or stale cache is not fatal, start fresh.
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load cache: %v\n", err)
	}

	return fc, nil
}

func (fc *FileCache) load() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	file, err := os.Open(filepath.Join(fc.cacheDir, CacheFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = file.Close() }()

	var data cacheData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	if data.Version != CacheVersion {
		return fmt.Errorf("cache version mismatch: expected %s, got %s", CacheVersion, data.Version)
	}
	if data.Stats == nil {
		data.Stats = &Stats{}
	}

	fc.data = &data
	return nil
}

// save writes cache to disk (acquires lock).
func (fc *FileCache) save() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.saveLocked()
}

// saveLocked writes cache to disk; the caller must hold fc.mu.
func (fc *FileCache) saveLocked() error {
	fc.data.LastUpdated = time.Now()

	data, err := json.Marshal(fc.data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	cacheFile := filepath.Join(fc.cacheDir, CacheFile)
	tempFile := cacheFile + ".tmp"

	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tempFile, cacheFile); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to save cache: %w", err)
	}

	return nil
}

// HashFile calculates the SHA-256 hash of a file using streaming IO.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// IsFileChanged reports whether path changed since it was last scanned.
// Unreadable files count as changed.
func (fc *FileCache) IsFileChanged(path string) (bool, error) {
	currentHash, err := HashFile(path)
	if err != nil {
		return true, err
	}

	fc.mu.RLock()
	record := fc.findLocked(path)
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if record == nil || record.Hash != currentHash {
		fc.data.Stats.CacheMisses++
		return true, nil
	}
	fc.data.Stats.CacheHits++
	return false, nil
}

// SaveFileRecord stores the scan result for path, replacing any previous
// record.
func (fc *FileCache) SaveFileRecord(path string, issues []*models.Issue) error {
	hash, err := HashFile(path)
	if err != nil {
		return err
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i, existing := range fc.data.Files {
		if existing.Path == path {
			fc.data.Files = append(fc.data.Files[:i], fc.data.Files[i+1:]...)
			break
		}
	}

	fc.data.Files = append(fc.data.Files, &FileRecord{
		Path:        path,
		Hash:        hash,
		LastScanned: time.Now(),
		Issues:      issues,
	})
	fc.updateStatsLocked()

	return fc.saveLocked()
}

// GetFileRecord retrieves the record for path.
func (fc *FileCache) GetFileRecord(path string) (*FileRecord, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if record := fc.findLocked(path); record != nil {
		recordCopy := *record
		return &recordCopy, nil
	}
	return nil, fmt.Errorf("file not found in cache: %s", path)
}

func (fc *FileCache) findLocked(path string) *FileRecord {
	for _, record := range fc.data.Files {
		if record.Path == path {
			return record
		}
	}
	return nil
}

// GetStats returns cache statistics.
func (fc *FileCache) GetStats() Stats {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return *fc.data.Stats
}

func (fc *FileCache) updateStatsLocked() {
	stats := &Stats{
		CacheHits:    fc.data.Stats.CacheHits,
		CacheMisses:  fc.data.Stats.CacheMisses,
		LastFullScan: fc.data.Stats.LastFullScan,
	}
	for _, record := range fc.data.Files {
		stats.TotalFiles++
		stats.TotalIssues += len(record.Issues)
	}
	fc.data.Stats = stats
}

// ClearCache drops all cached records.
func (fc *FileCache) ClearCache() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.data = &cacheData{
		Version:     CacheVersion,
		Files:       make([]*FileRecord, 0, 100),
		Stats:       &Stats{},
		LastUpdated: time.Now(),
	}
	return fc.saveLocked()
}

// GetCacheDir returns the cache directory path.
func (fc *FileCache) GetCacheDir() string {
	return fc.cacheDir
}

// Close saves and closes the cache.
func (fc *FileCache) Close() error {
	return fc.save()
}
