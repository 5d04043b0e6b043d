// pattern: Functional Core

// package config loads the daemon configuration and the root
// declaration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML strings like "5s" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the daemon configuration.
type Config struct {
	MarkerName      string   `yaml:"marker_name"`      // project marker / index output filename
	ExcludeName     string   `yaml:"exclude_name"`     // per-root exclusion list filename
	ToolPath        string   `yaml:"tool_path"`        // external indexing tool
	ToolArgs        string   `yaml:"tool_args"`        // raw argument string appended after the tool path
	QuiescenceDelay Duration `yaml:"quiescence_delay"` // coalescing window for change bursts
	IgnoreGlobs     []string `yaml:"ignore_globs"`     // always-ignored top-level entries
	RootFile        string   `yaml:"root_file"`        // root declaration file
	LogLevel        string   `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		MarkerName:      ".tags",
		ExcludeName:     ".tags.exclude",
		ToolPath:        "ctags",
		QuiescenceDelay: Duration(5 * time.Second),
		IgnoreGlobs:     []string{".*"},
		RootFile:        "~/.config/tagsentry/root",
		LogLevel:        "info",
	}
}

// Load reads the config from the default location.
func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom reads the config from configPath. A missing file is not an
// error: the defaults apply.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.MarkerName == "" {
		cfg.MarkerName = ".tags"
	}
	if cfg.ExcludeName == "" {
		cfg.ExcludeName = cfg.MarkerName + ".exclude"
	}
	if cfg.ToolPath == "" {
		cfg.ToolPath = "ctags"
	}
	if cfg.QuiescenceDelay <= 0 {
		cfg.QuiescenceDelay = Duration(5 * time.Second)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// LoadRoot reads the root declaration file: a single absolute path,
// surrounding whitespace ignored, "~" expanded. Any other content is
// an error; startup must not proceed without a valid root.
func LoadRoot(rootFile string) (string, error) {
	data, err := os.ReadFile(ResolvePath(rootFile))
	if err != nil {
		return "", fmt.Errorf("root declaration %s: %w", rootFile, err)
	}

	root := ResolvePath(strings.TrimSpace(string(data)))
	if root == "" {
		return "", fmt.Errorf("root declaration %s is empty", rootFile)
	}
	if !filepath.IsAbs(root) {
		return "", fmt.Errorf("root declaration %s: %q is not an absolute path", rootFile, root)
	}
	return root, nil
}

// ResolvePath expands a leading "~/" to the user's home directory.
// Empty and absolute paths are returned unchanged.
func ResolvePath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DataDir returns the state directory for the lock, pid and log files.
func DataDir() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "tagsentry")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "state", "tagsentry")
	}
	return filepath.Join(home, ".local", "state", "tagsentry")
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tagsentry", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "tagsentry", "config.yaml")
	}
	return filepath.Join(home, ".config", "tagsentry", "config.yaml")
}
