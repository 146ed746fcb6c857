package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SergeiSkv/SwiftA11y/cache"
	"github.com/SergeiSkv/SwiftA11y/fixer"
	"github.com/SergeiSkv/SwiftA11y/models"
	"github.com/SergeiSkv/SwiftA11y/report"
	"github.com/SergeiSkv/SwiftA11y/scanner"
	"github.com/SergeiSkv/SwiftA11y/version"
)

var (
	jsonOutput        bool
	configPath        string
	compact           bool
	verbose           bool
	logLevel          string
	reportPath        string
	jsonReportPath    string
	githubAnnotations bool
	noCache           = true // Disabled by default; content hashing costs a read per file
	clearCache        bool
	ignoreFile        string
	logger            *slog.Logger
	cacheDB           *cache.FileCache
)

// JSONOutput represents the JSON structure for stdout results
type JSONOutput struct {
	Target    string          `json:"target"`
	Summary   Summary         `json:"summary"`
	Issues    []*models.Issue `json:"issues"`
	FileStats []fileStat      `json:"file_stats"`
}

// Summary contains overall statistics
type Summary struct {
	TotalIssues     int `json:"total_issues"`
	FilesWithIssues int `json:"files_with_issues"`
}

var rootCmd = &cobra.Command{
	Use:   "swifta11y [path]",
	Short: "SwiftA11y - find icon-only Buttons missing accessibility labels",
	Long: `SwiftA11y is a heuristic accessibility linter for SwiftUI sources.
It flags Buttons whose label contains Image(systemName:) with no
.accessibilityLabel(...) nearby, and can insert the missing modifier.

Detection is text-based by design: no Swift toolchain is needed, so it runs
anywhere a checkout exists. It is best-effort, not a verifier.`,
	Example: `
  swifta11y .                          # Lint current directory
  swifta11y Sources/Views              # Lint specific directory
  swifta11y SettingsView.swift         # Lint single file
  swifta11y --json .                   # JSON output for CI/CD
  swifta11y --github-annotations .     # Emit ::error workflow commands
  swifta11y fix .                      # Insert missing labels in place`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := targetArg(args)
		config, rule, symbols := mustLoadConfig()

		openCache(target)
		defer closeCache()

		issues, _ := scanTarget(target, config, rule, symbols)
		emitResults(target, config, issues)

		if len(issues) > 0 {
			os.Exit(1)
		}
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Insert missing accessibilityLabel modifiers in place",
	Long: `Runs detection, then rewrites the flagged files, inserting
.accessibilityLabel("...") directly after each icon line. Re-running fix on
an already-fixed tree is a no-op. Reports always describe the issues as
detected before the fix.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := targetArg(args)
		config, rule, symbols := mustLoadConfig()

		// No cache during fix: files are about to change under it
		issues, root := scanTarget(target, config, rule, symbols)

		engine := fixer.New(rule)
		changed := engine.Apply(root, issues)

		emitResults(target, config, issues)
		fmt.Printf("AutoFix changed %d file(s).\n", changed)
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Creates a .swifta11y.yaml configuration file with default settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		createDefaultConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("SwiftA11y version %s\n", version.Version))
		sb.WriteString(fmt.Sprintf("Commit: %s\n", version.CommitHash))
		sb.WriteString(fmt.Sprintf("Built: %s\n", version.BuiltAt))
		fmt.Print(sb.String())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Shows statistics about the cached scan results.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		db, err := cache.New(projectRoot(target))
		if err != nil {
			slog.Error("Failed to open cache", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		stats := db.GetStats()

		var sb strings.Builder
		sb.WriteString("Cache Statistics:\n")
		sb.WriteString("====================\n")
		sb.WriteString(fmt.Sprintf("Total files scanned:   %d\n", stats.TotalFiles))
		sb.WriteString(fmt.Sprintf("Total issues found:    %d\n", stats.TotalIssues))
		sb.WriteString(fmt.Sprintf("Cache hits:            %d\n", stats.CacheHits))
		sb.WriteString(fmt.Sprintf("Cache misses:          %d\n", stats.CacheMisses))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Cache location: %s\n", db.GetCacheDir()))

		if fileInfo, err := os.Stat(filepath.Join(db.GetCacheDir(), cache.CacheFile)); err == nil {
			sb.WriteString(fmt.Sprintf("Cache size:     %.2f KB\n", float64(fileInfo.Size())/1024))
		}
		fmt.Print(sb.String())
	},
}

var listSymbolsCmd = &cobra.Command{
	Use:   "list-symbols",
	Short: "List curated symbol labels",
	Long:  `Shows the built-in SF Symbol to label mapping, including config overrides.`,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := LoadConfig(configPath)
		if err != nil {
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
		symbols := config.BuildSymbols()

		names := make([]string, 0, len(symbols))
		for name := range symbols {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Known symbols:")
		fmt.Println("====================")
		for _, name := range names {
			fmt.Printf("• %-20s %s\n", name, symbols[name])
		}
		fmt.Printf("\nUnknown symbols resolve to %q.\n", scanner.UnresolvedLabel)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&compact, "compact", "", false, "Compact IDE-friendly output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&reportPath, "report", "r", "", "Write markdown report to this path")
	rootCmd.PersistentFlags().StringVar(&jsonReportPath, "json-report", "", "Write JSON report to this path")
	rootCmd.PersistentFlags().BoolVar(&githubAnnotations, "github-annotations", false, "Emit GitHub ::error workflow commands")
	rootCmd.PersistentFlags().BoolVar(&clearCache, "clear-cache", false, "Clear the cache before scanning")
	rootCmd.PersistentFlags().StringVar(&ignoreFile, "ignore-file", ".a11yignore", "Path to ignore file")

	enableCache := rootCmd.PersistentFlags().Bool("enable-cache", false, "Enable file cache for faster subsequent runs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *enableCache {
			noCache = false
		}
	}

	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listSymbolsCmd)
	rootCmd.AddCommand(watchCmd)

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Only show message and custom attrs
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.SourceKey {
				return slog.Attr{}
			}
			return a
		},
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func Execute() error {
	return rootCmd.Execute()
}

func targetArg(args []string) string {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		slog.Error("Path does not exist", "path", target)
		os.Exit(1)
	}
	return target
}

func mustLoadConfig() (*Config, scanner.Rule, scanner.SymbolTable) {
	config, err := LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	rule, err := config.BuildRule()
	if err != nil {
		slog.Error("Invalid rule configuration", "error", err)
		os.Exit(1)
	}
	return config, rule, config.BuildSymbols()
}

func openCache(target string) {
	if noCache {
		return
	}
	var err error
	cacheDB, err = cache.New(projectRoot(target))
	if err != nil {
		slog.Warn("Failed to open cache", "error", err)
		return
	}
	if clearCache {
		if err := cacheDB.ClearCache(); err != nil {
			slog.Warn("Failed to clear cache", "error", err)
		} else {
			slog.Info("Cache cleared")
		}
	}
}

func closeCache() {
	if cacheDB != nil {
		_ = cacheDB.Close()
		cacheDB = nil
	}
}

// scanTarget walks target, scans every matching file and returns the issues
// sorted by (path, line, symbol) plus the root directory that issue paths are
// relative to. Single files are scanned relative to their parent directory.
func scanTarget(target string, config *Config, rule scanner.Rule, symbols scanner.SymbolTable) ([]*models.Issue, string) {
	if config == nil {
		return nil, target
	}

	detector := scanner.NewDetector(rule, symbols)

	root := target
	var filesToScan []string

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		root = filepath.Dir(target)
		filesToScan = []string{target}
	} else {
		err := filepath.Walk(
			target, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				skip, skipDir := shouldSkipPath(path, info, config.Paths.Exclude)
				if skipDir {
					return filepath.SkipDir
				}
				if skip {
					return nil
				}

				if isSourceFile(path, info, config.Paths.Extensions) {
					filesToScan = append(filesToScan, path)
				}

				return nil
			},
		)
		if err != nil {
			slog.Error("Error scanning target", "error", err)
			os.Exit(1)
		}
	}

	// Per-file scans share no state; only the final ordering matters
	var allIssues []*models.Issue
	var filesScanned int
	var totalLines int

	numWorkers := runtime.NumCPU()
	var wg sync.WaitGroup
	var mu sync.Mutex
	fileChan := make(chan string, len(filesToScan))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileChan {
				issues := scanFile(detector, root, path)
				lines := countLines(path)

				mu.Lock()
				allIssues = append(allIssues, issues...)
				filesScanned++
				totalLines += lines
				mu.Unlock()
			}
		}()
	}

	for _, path := range filesToScan {
		fileChan <- path
	}
	close(fileChan)
	wg.Wait()

	sortIssues(allIssues)

	if config.Output.MaxIssues > 0 && len(allIssues) > config.Output.MaxIssues {
		allIssues = allIssues[:config.Output.MaxIssues]
	}

	if !jsonOutput {
		fmt.Fprintf(os.Stderr, "\nScanned %d files (%d lines of Swift)\n", filesScanned, totalLines)
	} else {
		slog.Debug("Scan complete", "files", filesScanned, "lines", totalLines)
	}

	return allIssues, root
}

// sortIssues makes the cross-file ordering deterministic regardless of
// worker scheduling.
func sortIssues(issues []*models.Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Symbol < issues[j].Symbol
	})
}

func scanFile(detector *scanner.Detector, root, path string) []*models.Issue {
	if cached, found := loadCachedIssues(path); found {
		return cached
	}

	issues, err := detector.DetectFile(path, relTo(root, path))
	if err != nil {
		slog.Warn("Skipping unreadable file", "file", path, "error", err)
		return nil
	}

	saveToCacheDB(path, issues)
	return issues
}

func emitResults(target string, config *Config, issues []*models.Issue) {
	if githubAnnotations {
		report.EmitAnnotations(os.Stdout, issues)
	}

	if jsonOutput {
		outputJSON(target, issues)
	} else {
		outputHuman(issues)
	}

	writeReports(config, issues)
}

func writeReports(config *Config, issues []*models.Issue) {
	mdPath := reportPath
	if mdPath == "" {
		mdPath = config.Output.Report
	}
	if mdPath != "" {
		if err := report.WriteMarkdown(issues, mdPath); err != nil {
			slog.Warn("Failed to write markdown report", "path", mdPath, "error", err)
		}
	}

	jsPath := jsonReportPath
	if jsPath == "" {
		jsPath = config.Output.JSON
	}
	if jsPath != "" {
		if err := report.WriteJSON(issues, jsPath); err != nil {
			slog.Warn("Failed to write JSON report", "path", jsPath, "error", err)
		}
	}
}

type fileStat struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
}

func outputJSON(target string, issues []*models.Issue) {
	var fileStats []fileStat

	findFileIndex := func(filename string) int {
		for i, f := range fileStats {
			if f.Filename == filename {
				return i
			}
		}
		return -1
	}

	for _, issue := range issues {
		idx := findFileIndex(issue.Path)
		if idx == -1 {
			fileStats = append(fileStats, fileStat{Filename: issue.Path, Count: 1})
		} else {
			fileStats[idx].Count++
		}
	}

	output := JSONOutput{
		Target: target,
		Summary: Summary{
			TotalIssues:     len(issues),
			FilesWithIssues: len(fileStats),
		},
		Issues:    issues,
		FileStats: fileStats,
	}
	if output.Issues == nil {
		output.Issues = []*models.Issue{}
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(output); err != nil {
		slog.Error("Error encoding JSON", "error", err)
		os.Exit(1)
	}
}

func outputHuman(issues []*models.Issue) {
	if len(issues) == 0 {
		fmt.Println("✅ No accessibility issues found!")
		return
	}

	if compact {
		printCompactIssues(issues)
	} else {
		printGroupedIssues(issues)
	}

	fmt.Printf("Summary: %d issue(s) in %d file(s)\n", len(issues), countFilesWithIssues(issues))
}

func countFilesWithIssues(issues []*models.Issue) int {
	files := make(map[string]struct{}, len(issues))
	for _, issue := range issues {
		files[issue.Path] = struct{}{}
	}
	return len(files)
}

// printGroupedIssues prints issues grouped by file, mirroring walk order
func printGroupedIssues(issues []*models.Issue) {
	var sb strings.Builder
	sb.Grow(len(issues) * 200)

	var currentFile string
	for _, issue := range issues {
		if issue.Path != currentFile {
			if currentFile != "" {
				sb.WriteString("\n")
			}
			currentFile = issue.Path
			sb.WriteString("📄 ")
			sb.WriteString(issue.Path)
			sb.WriteString(":\n")
			sb.WriteString(strings.Repeat("─", 50) + "\n")
		}
		sb.WriteString("\t🔶 line ")
		sb.WriteString(strconv.Itoa(issue.Line))
		sb.WriteString(" [")
		sb.WriteString(issue.Rule)
		sb.WriteString("] icon \"")
		sb.WriteString(issue.Symbol)
		sb.WriteString("\"\n\t\t")
		sb.WriteString(issue.Message)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	fmt.Print(sb.String())
}

func printCompactIssues(issues []*models.Issue) {
	// One line per issue, IDE-clickable compiler error format
	var sb strings.Builder
	sb.Grow(len(issues) * 150)

	for _, issue := range issues {
		sb.WriteString(
			fmt.Sprintf(
				"%s:%d: [%s] %s (suggested: %s)\n",
				issue.Path, issue.Line, issue.Rule, issue.Message, issue.SuggestedLabel,
			),
		)
	}
	fmt.Print(sb.String())
}

func createDefaultConfig() {
	config := DefaultConfig()

	yamlData, err := yaml.Marshal(config)
	if err != nil {
		slog.Error("Failed to marshal config", "error", err)
	}

	const configFile = ".swifta11y.yaml"
	const configFileMode = 0o644
	err = os.WriteFile(configFile, yamlData, configFileMode)
	if err != nil {
		slog.Error("Failed to write config file", "error", err)
	}

	fmt.Printf("Created default configuration file: %s\n", configFile)
	fmt.Println("\tEdit this file to customize window size, patterns and symbol labels")
	fmt.Println("")
	fmt.Println("Example usage:")
	fmt.Println("  swifta11y --config=.swifta11y.yaml .")
}

// projectRoot finds the project root (directory with Package.swift or an
// .xcodeproj entry), falling back to the target itself
func projectRoot(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	current := absPath
	for {
		if hasProjectMarker(current) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return absPath
		}
		current = parent
	}
}

func hasProjectMarker(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "Package.swift")); err == nil {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".xcodeproj") || strings.HasSuffix(e.Name(), ".xcworkspace") {
			return true
		}
	}
	return false
}
