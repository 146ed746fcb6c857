package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/SergeiSkv/SwiftA11y/scanner"
)

const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-lint whenever Swift sources change",
	Long: `Watches the target tree and re-runs detection after each change,
debounced so rapid editor saves trigger a single scan. Reports configured via
flags or config are rewritten on every pass.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := targetArg(args)
		config, rule, symbols := mustLoadConfig()
		runWatch(target, config, rule, symbols, nil)
	},
}

func runWatch(target string, config *Config, rule scanner.Rule, symbols scanner.SymbolTable, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Watch init failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchRecursive(watcher, target, config.Paths.Exclude); err != nil {
		slog.Error("Watch failed", "error", err)
		os.Exit(1)
	}

	trigger := func() {
		issues, _ := scanTarget(target, config, rule, symbols)
		emitResults(target, config, issues)
	}
	trigger()

	var timer *time.Timer
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Ignore our own cache and report churn
			if strings.Contains(ev.Name, string(filepath.Separator)+".swifta11y"+string(filepath.Separator)) {
				continue
			}
			if !isWatchRelevant(ev.Name, config.Paths.Extensions) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watch error", "error", err)
		}
	}
}

// isWatchRelevant reports whether a change to name warrants a re-scan.
// Directory events have no extension and always count, new subtrees included.
func isWatchRelevant(name string, extensions []string) bool {
	if filepath.Ext(name) == "" {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func addWatchRecursive(w *fsnotify.Watcher, root string, excludes []string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if _, skipDir := shouldSkipPath(path, info, excludes); skipDir {
			return filepath.SkipDir
		}
		if filepath.Base(path) == ".swifta11y" {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
