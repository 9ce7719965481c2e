package ledger

import "time"

// Status describes how a build run ended.
type Status string

const (
	// StatusBuilt means the matrix was computed and persisted.
	StatusBuilt Status = "built"
	// StatusReused means a valid artifact was loaded instead of rebuilding.
	StatusReused Status = "reused"
	// StatusFailed means the run stopped with an error.
	StatusFailed Status = "failed"
)

// Build is one recorded run.
type Build struct {
	ID            string        `json:"id"`
	Status        Status        `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	DatasetPath   string        `json:"dataset_path"`
	DatasetSHA256 string        `json:"dataset_sha256,omitempty"`
	ArtifactPath  string        `json:"artifact_path,omitempty"`
	Rows          int           `json:"rows"`
	Vocabulary    int           `json:"vocabulary"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
}
