package config

const (
	defaultConfigPath   = "~/.config/cinematch/config.toml"
	defaultDatasetPath  = "data/movies.csv"
	defaultArtifactPath = "models/similarity.bin"
	defaultStateDir     = "~/.local/share/cinematch"
	defaultLogDir       = "~/.local/share/cinematch/logs"
	defaultMaxFeatures  = 10_000
	defaultNGramMin     = 1
	defaultNGramMax     = 2
	defaultStopWords    = StopWordsEnglish
	defaultNorm         = NormL2
	defaultCount        = 5
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Accepted values for Vectorizer.StopWords and Vectorizer.Norm.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
	NormL2           = "l2"
	NormNone         = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Dataset:  defaultDatasetPath,
			Artifact: defaultArtifactPath,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Vectorizer: Vectorizer{
			MaxFeatures: defaultMaxFeatures,
			NGramMin:    defaultNGramMin,
			NGramMax:    defaultNGramMax,
			StopWords:   defaultStopWords,
			Norm:        defaultNorm,
		},
		Recommend: Recommend{
			DefaultCount: defaultCount,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
