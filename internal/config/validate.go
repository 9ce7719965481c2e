package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVectorizer(); err != nil {
		return err
	}
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVectorizer() error {
	v := c.Vectorizer
	if v.MaxFeatures < 0 {
		return errors.New("vectorizer.max_features must be >= 0 (0 disables the limit)")
	}
	if v.NGramMin < 1 {
		return errors.New("vectorizer.ngram_min must be >= 1")
	}
	if v.NGramMax < v.NGramMin {
		return errors.New("vectorizer.ngram_max must be >= vectorizer.ngram_min")
	}
	switch v.StopWords {
	case StopWordsEnglish, StopWordsNone:
	default:
		return fmt.Errorf("vectorizer.stop_words: unsupported value %q (use %q or %q)", v.StopWords, StopWordsEnglish, StopWordsNone)
	}
	switch v.Norm {
	case NormL2, NormNone:
	default:
		return fmt.Errorf("vectorizer.norm: unsupported value %q (use %q or %q)", v.Norm, NormL2, NormNone)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	if c.Similarity.Workers < 0 {
		return errors.New("similarity.workers must be >= 0 (0 uses all CPUs)")
	}
	if c.Similarity.MaxRows < 0 {
		return errors.New("similarity.max_rows must be >= 0 (0 disables the guard)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	for component, level := range c.Logging.ComponentLevels {
		switch level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("logging.component_levels.%s: unsupported level %q", component, level)
		}
	}
	return nil
}
