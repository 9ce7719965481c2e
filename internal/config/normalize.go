package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVectorizer()
	c.normalizeRecommend()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CINEMATCH_DATASET"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Dataset = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("CINEMATCH_ARTIFACT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Artifact = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.Dataset) == "" {
		c.Paths.Dataset = defaultDatasetPath
	}
	if strings.TrimSpace(c.Paths.Artifact) == "" {
		c.Paths.Artifact = defaultArtifactPath
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.Dataset, err = expandPath(strings.TrimSpace(c.Paths.Dataset)); err != nil {
		return fmt.Errorf("paths.dataset: %w", err)
	}
	if c.Paths.Artifact, err = expandPath(strings.TrimSpace(c.Paths.Artifact)); err != nil {
		return fmt.Errorf("paths.artifact: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVectorizer() {
	c.Vectorizer.StopWords = strings.ToLower(strings.TrimSpace(c.Vectorizer.StopWords))
	if c.Vectorizer.StopWords == "" {
		c.Vectorizer.StopWords = defaultStopWords
	}
	c.Vectorizer.Norm = strings.ToLower(strings.TrimSpace(c.Vectorizer.Norm))
	if c.Vectorizer.Norm == "" {
		c.Vectorizer.Norm = defaultNorm
	}
	if c.Vectorizer.NGramMin == 0 && c.Vectorizer.NGramMax == 0 {
		c.Vectorizer.NGramMin = defaultNGramMin
		c.Vectorizer.NGramMax = defaultNGramMax
	}
}

func (c *Config) normalizeRecommend() {
	if c.Recommend.DefaultCount <= 0 {
		c.Recommend.DefaultCount = defaultCount
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentLevels) > 0 {
		levels := make(map[string]string, len(c.Logging.ComponentLevels))
		for component, level := range c.Logging.ComponentLevels {
			component = strings.ToLower(strings.TrimSpace(component))
			level = strings.ToLower(strings.TrimSpace(level))
			if component == "" || level == "" {
				continue
			}
			levels[component] = level
		}
		c.Logging.ComponentLevels = levels
	}
}
