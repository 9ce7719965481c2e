package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cinematch/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "cinematch")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.Dataset) || !strings.HasSuffix(cfg.Paths.Dataset, filepath.Join("data", "movies.csv")) {
		t.Fatalf("unexpected dataset path: %q", cfg.Paths.Dataset)
	}
	if !strings.HasSuffix(cfg.Paths.Artifact, filepath.Join("models", "similarity.bin")) {
		t.Fatalf("unexpected artifact path: %q", cfg.Paths.Artifact)
	}
	if cfg.Vectorizer.MaxFeatures != 10000 {
		t.Fatalf("expected max_features 10000, got %d", cfg.Vectorizer.MaxFeatures)
	}
	if cfg.Vectorizer.NGramMin != 1 || cfg.Vectorizer.NGramMax != 2 {
		t.Fatalf("unexpected ngram range: %d..%d", cfg.Vectorizer.NGramMin, cfg.Vectorizer.NGramMax)
	}
	if cfg.Vectorizer.StopWords != config.StopWordsEnglish {
		t.Fatalf("unexpected stop words: %q", cfg.Vectorizer.StopWords)
	}
	if cfg.Vectorizer.Norm != config.NormL2 {
		t.Fatalf("unexpected norm: %q", cfg.Vectorizer.Norm)
	}
	if cfg.Recommend.DefaultCount != 5 {
		t.Fatalf("expected default count 5, got %d", cfg.Recommend.DefaultCount)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger enabled by default")
	}
	if cfg.LedgerPath() != filepath.Join(wantState, "builds.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.LedgerPath())
	}
	if cfg.LockPath() != cfg.Paths.Artifact+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cinematch.toml")

	type payload struct {
		Paths struct {
			Dataset  string `toml:"dataset"`
			Artifact string `toml:"artifact"`
		} `toml:"paths"`
		Vectorizer struct {
			MaxFeatures int    `toml:"max_features"`
			Norm        string `toml:"norm"`
		} `toml:"vectorizer"`
		Logging struct {
			Format          string            `toml:"format"`
			ComponentLevels map[string]string `toml:"component_levels"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.Dataset = filepath.Join(tempDir, "movies.csv")
	custom.Paths.Artifact = filepath.Join(tempDir, "out", "matrix.bin")
	custom.Vectorizer.MaxFeatures = 500
	custom.Vectorizer.Norm = " NONE "
	custom.Logging.Format = "JSON"
	custom.Logging.ComponentLevels = map[string]string{" Catalog ": "DEBUG"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.Dataset != custom.Paths.Dataset {
		t.Fatalf("expected dataset from file, got %q", cfg.Paths.Dataset)
	}
	if cfg.Paths.Artifact != custom.Paths.Artifact {
		t.Fatalf("expected artifact from file, got %q", cfg.Paths.Artifact)
	}
	if cfg.Vectorizer.MaxFeatures != 500 {
		t.Fatalf("expected max_features 500, got %d", cfg.Vectorizer.MaxFeatures)
	}
	if cfg.Vectorizer.NGramMax != 2 {
		t.Fatalf("expected unspecified ngram_max to keep default, got %d", cfg.Vectorizer.NGramMax)
	}
	if cfg.Vectorizer.Norm != config.NormNone {
		t.Fatalf("expected norm to normalize to none, got %q", cfg.Vectorizer.Norm)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.ComponentLevels["catalog"] != "debug" {
		t.Fatalf("expected normalized component level, got %v", cfg.Logging.ComponentLevels)
	}
}

func TestEnvVarOverridesConfigFilePaths(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cinematch.toml")
	contents := "[paths]\ndataset = \"file.csv\"\nartifact = \"file.bin\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	envDataset := filepath.Join(tempDir, "env.csv")
	envArtifact := filepath.Join(tempDir, "env.bin")
	t.Setenv("CINEMATCH_DATASET", envDataset)
	t.Setenv("CINEMATCH_ARTIFACT", envArtifact)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.Dataset != envDataset {
		t.Errorf("expected dataset from env, got %q", cfg.Paths.Dataset)
	}
	if cfg.Paths.Artifact != envArtifact {
		t.Errorf("expected artifact from env, got %q", cfg.Paths.Artifact)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[paths\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Vectorizer.MaxFeatures != 10000 {
		t.Fatalf("expected sample max_features 10000, got %d", cfg.Vectorizer.MaxFeatures)
	}
	if !strings.Contains(cfg.Paths.StateDir, "cinematch") {
		t.Fatalf("expected state dir to contain cinematch, got %q", cfg.Paths.StateDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative max features", func(c *config.Config) { c.Vectorizer.MaxFeatures = -1 }, "max_features"},
		{"zero ngram min", func(c *config.Config) { c.Vectorizer.NGramMin = 0 }, "ngram_min"},
		{"inverted ngram range", func(c *config.Config) { c.Vectorizer.NGramMin = 3; c.Vectorizer.NGramMax = 2 }, "ngram_max"},
		{"unknown stop words", func(c *config.Config) { c.Vectorizer.StopWords = "french" }, "stop_words"},
		{"unknown norm", func(c *config.Config) { c.Vectorizer.Norm = "l1" }, "norm"},
		{"negative workers", func(c *config.Config) { c.Similarity.Workers = -2 }, "workers"},
		{"negative max rows", func(c *config.Config) { c.Similarity.MaxRows = -1 }, "max_rows"},
		{"bad component level", func(c *config.Config) {
			c.Logging.ComponentLevels = map[string]string{"catalog": "loud"}
		}, "component_levels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Artifact = filepath.Join(base, "models", "similarity.bin")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.Artifact)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}
