package main

import (
	"encoding/hex"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"cinematch/internal/catalog"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	return writeJSONTo(cmd.OutOrStdout(), v)
}

func writeJSONTo(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type buildJSON struct {
	BuildID       string    `json:"build_id"`
	Source        string    `json:"source"`
	BuiltAt       time.Time `json:"built_at"`
	Movies        int       `json:"movies"`
	Vocabulary    int       `json:"vocabulary,omitempty"`
	DatasetPath   string    `json:"dataset_path"`
	DatasetSHA256 string    `json:"dataset_sha256"`
	ArtifactPath  string    `json:"artifact_path"`
}

func buildSummaryJSON(cat *catalog.Catalog) buildJSON {
	meta := cat.Metadata()
	return buildJSON{
		BuildID:       meta.BuildID.String(),
		Source:        string(meta.Source),
		BuiltAt:       meta.BuiltAt,
		Movies:        cat.Len(),
		Vocabulary:    meta.Vocabulary,
		DatasetPath:   meta.DatasetPath,
		DatasetSHA256: hex.EncodeToString(meta.DatasetSHA256[:]),
		ArtifactPath:  meta.ArtifactPath,
	}
}

type recommendJSON struct {
	Query           string                   `json:"query"`
	Found           bool                     `json:"found"`
	Recommendations []catalog.Recommendation `json:"recommendations"`
	Message         string                   `json:"message,omitempty"`
	Suggestions     []string                 `json:"suggestions,omitempty"`
}
