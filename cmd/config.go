package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SergeiSkv/SwiftA11y/scanner"
)

// Config represents the configuration for the linter
type Config struct {
	// Rule tuning; zero values fall back to the stock A11Y001 heuristic
	Rule struct {
		WindowSize       int    `yaml:"window_size" json:"window_size"`
		FixLookahead     int    `yaml:"fix_lookahead" json:"fix_lookahead"`
		IndentUnit       string `yaml:"indent_unit" json:"indent_unit"`
		ControlPattern   string `yaml:"control_pattern" json:"control_pattern"`
		IconPattern      string `yaml:"icon_pattern" json:"icon_pattern"`
		AnnotationMarker string `yaml:"annotation_marker" json:"annotation_marker"`
	} `yaml:"rule" json:"rule"`

	// Symbols holds label overrides layered on top of the curated defaults
	Symbols map[string]string `yaml:"symbols,omitempty" json:"symbols,omitempty"`

	// Path configuration
	Paths struct {
		Exclude    []string `yaml:"exclude" json:"exclude"`       // Directory names to skip
		Extensions []string `yaml:"extensions" json:"extensions"` // File extensions to scan
	} `yaml:"paths" json:"paths"`

	// Output configuration
	Output struct {
		Format    string `yaml:"format" json:"format"`         // "text" or "json"
		Report    string `yaml:"report" json:"report"`         // markdown report path, empty disables
		JSON      string `yaml:"json" json:"json"`             // JSON report path, empty disables
		MaxIssues int    `yaml:"max_issues" json:"max_issues"` // Maximum issues to report (0 = unlimited)
	} `yaml:"output" json:"output"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{}

	config.Rule.WindowSize = scanner.DefaultWindowSize
	config.Rule.FixLookahead = scanner.DefaultFixLookahead
	config.Rule.IndentUnit = scanner.DefaultIndentUnit
	config.Rule.AnnotationMarker = scanner.AnnotationMarker

	config.Paths.Exclude = []string{
		".git",
		".github",
		"DerivedData",
		"Pods",
		"Carthage",
		".build",
		"build",
	}
	config.Paths.Extensions = []string{".swift"}

	config.Output.Format = "text"
	config.Output.MaxIssues = 0

	return config
}

// BuildRule compiles the configured patterns into a scanner rule. Empty
// fields keep the stock defaults.
func (c *Config) BuildRule() (scanner.Rule, error) {
	rule := scanner.DefaultRule()

	if c.Rule.WindowSize > 0 {
		rule.WindowSize = c.Rule.WindowSize
	}
	if c.Rule.FixLookahead > 0 {
		rule.FixLookahead = c.Rule.FixLookahead
	}
	if c.Rule.IndentUnit != "" {
		rule.IndentUnit = c.Rule.IndentUnit
	}
	if c.Rule.AnnotationMarker != "" {
		rule.AnnotationMarker = c.Rule.AnnotationMarker
	}
	if c.Rule.ControlPattern != "" {
		re, err := regexp.Compile(c.Rule.ControlPattern)
		if err != nil {
			return rule, fmt.Errorf("invalid control_pattern: %w", err)
		}
		rule.ControlPattern = re
	}
	if c.Rule.IconPattern != "" {
		re, err := regexp.Compile(c.Rule.IconPattern)
		if err != nil {
			return rule, fmt.Errorf("invalid icon_pattern: %w", err)
		}
		if re.NumSubexp() < 1 {
			return rule, fmt.Errorf("icon_pattern must capture the symbol name")
		}
		rule.IconPattern = re
	}

	return rule, nil
}

// BuildSymbols returns the curated symbol table with config overrides applied.
func (c *Config) BuildSymbols() scanner.SymbolTable {
	return scanner.DefaultSymbols().WithOverrides(c.Symbols)
}

// findConfigPath searches for a config file in common locations
func findConfigPath() string {
	locations := []string{
		".swifta11y.yaml",
		".swifta11y.yml",
		".swifta11y.json",
		"swifta11y.yaml",
		"swifta11y.yml",
		"swifta11y.json",
	}

	// Check the current directory
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	// Check home directory
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}

	for _, loc := range locations {
		configPath := filepath.Join(home, ".config", "swifta11y", loc)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// LoadConfig loads configuration from a file or returns default
func LoadConfig(path string) (*Config, error) {
	resolvedPath := resolveConfigPath(path)
	if resolvedPath == "" {
		config := DefaultConfig()
		mergeIgnorePatterns(config, ignoreFile)
		return config, nil
	}

	file, err := os.Open(resolvedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	config, err := decodeConfigFile(file, resolvedPath)
	if err != nil {
		return nil, err
	}

	applyConfigDefaults(config)
	mergeIgnorePatterns(config, ignoreFile)
	return config, nil
}

// applyConfigDefaults fills fields a partial config file left empty
func applyConfigDefaults(config *Config) {
	defaults := DefaultConfig()
	if len(config.Paths.Exclude) == 0 {
		config.Paths.Exclude = defaults.Paths.Exclude
	}
	if len(config.Paths.Extensions) == 0 {
		config.Paths.Extensions = defaults.Paths.Extensions
	}
	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}
}

func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	return findConfigPath()
}

func decodeConfigFile(r io.ReadSeeker, path string) (*Config, error) {
	config := &Config{}
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.NewDecoder(r).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML config: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := tryJSONThenYAML(r, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func tryJSONThenYAML(r io.ReadSeeker, config *Config) error {
	if err := json.NewDecoder(r).Decode(config); err == nil {
		return nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config for YAML parsing: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config (tried JSON and YAML): %w", err)
	}
	return nil
}

func mergeIgnorePatterns(cfg *Config, ignorePath string) {
	if ignorePath == "" {
		return
	}
	patterns, err := loadIgnoreFile(ignorePath)
	if err != nil {
		return
	}
	cfg.Paths.Exclude = append(cfg.Paths.Exclude, patterns...)
}

// loadIgnoreFile loads patterns from an ignore file like .gitignore
func loadIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}

	return parseIgnoreLines(lines), nil
}

func readLines(r io.Reader) ([]string, error) {
	const maxLineSize = 1024 * 1024
	sc := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	sc.Buffer(buf, maxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseIgnoreLines(lines []string) []string {
	patterns := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSuffix(line, "/")
		line = strings.TrimSuffix(line, "*")
		line = strings.TrimPrefix(line, "**/")

		patterns = append(patterns, line)
	}

	return patterns
}
