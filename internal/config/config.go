package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	Dataset  string `toml:"dataset"`
	Artifact string `toml:"artifact"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Vectorizer contains the TF-IDF term weighting settings.
type Vectorizer struct {
	MaxFeatures int    `toml:"max_features"`
	NGramMin    int    `toml:"ngram_min"`
	NGramMax    int    `toml:"ngram_max"`
	StopWords   string `toml:"stop_words"` // "english" or "none"
	Norm        string `toml:"norm"`       // "l2" or "none"
}

// Similarity contains settings for the all-pairs similarity build.
type Similarity struct {
	// Workers bounds the goroutines computing row blocks. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
	// MaxRows refuses datasets larger than this many rows. Zero disables the guard.
	MaxRows int `toml:"max_rows"`
}

// Recommend contains lookup defaults.
type Recommend struct {
	DefaultCount int `toml:"default_count"`
}

// Ledger controls the build history database.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// Config encapsulates all configuration values for cinematch.
//
// Configuration sections by subsystem:
//   - Paths: dataset, similarity artifact, state and log directories
//   - Vectorizer: vocabulary size, n-gram range, stop words, normalization
//   - Similarity: worker pool size and optional row ceiling
//   - Recommend: default number of results
//   - Ledger: build history database
//   - Logging: log format, level, and per-component overrides
type Config struct {
	Paths      Paths      `toml:"paths"`
	Vectorizer Vectorizer `toml:"vectorizer"`
	Similarity Similarity `toml:"similarity"`
	Recommend  Recommend  `toml:"recommend"`
	Ledger     Ledger     `toml:"ledger"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cinematch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log, and artifact directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.Artifact) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.Artifact))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the build history database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "builds.db")
}

// LockPath returns the file used to serialize artifact builds.
func (c *Config) LockPath() string {
	return c.Paths.Artifact + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
