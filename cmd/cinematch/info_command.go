package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cinematch/internal/artifact"
	"cinematch/internal/fileutil"
)

type infoJSON struct {
	DatasetPath     string     `json:"dataset_path"`
	DatasetSHA256   string     `json:"dataset_sha256,omitempty"`
	DatasetBytes    int64      `json:"dataset_bytes"`
	ArtifactPath    string     `json:"artifact_path"`
	ArtifactPresent bool       `json:"artifact_present"`
	ArtifactError   string     `json:"artifact_error,omitempty"`
	SchemaVersion   uint16     `json:"schema_version,omitempty"`
	Rows            int        `json:"rows,omitempty"`
	BuildID         string     `json:"build_id,omitempty"`
	BuiltAt         *time.Time `json:"built_at,omitempty"`
	UpToDate        bool       `json:"up_to_date"`
	LedgerPath      string     `json:"ledger_path,omitempty"`
	RecordedBuilds  int        `json:"recorded_builds"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show dataset and similarity artifact status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			info := infoJSON{
				DatasetPath:  cfg.Paths.Dataset,
				ArtifactPath: cfg.Paths.Artifact,
			}

			sum, size, sumErr := fileutil.SHA256File(cfg.Paths.Dataset)
			if sumErr == nil {
				info.DatasetSHA256 = hex.EncodeToString(sum[:])
				info.DatasetBytes = size
			}

			header, headerErr := artifact.ReadHeader(cfg.Paths.Artifact)
			switch {
			case headerErr == nil:
				info.ArtifactPresent = true
				info.SchemaVersion = header.Version
				info.Rows = header.Rows
				info.BuildID = header.BuildID.String()
				builtAt := header.BuiltAt
				info.BuiltAt = &builtAt
				info.UpToDate = sumErr == nil && header.DatasetSHA256 == sum
			case errors.Is(headerErr, fs.ErrNotExist):
			default:
				info.ArtifactPresent = true
				info.ArtifactError = headerErr.Error()
			}

			if store, err := ctx.ledgerStore(cmd.Context()); err == nil && store != nil {
				info.LedgerPath = store.Path()
				if n, err := store.Count(cmd.Context()); err == nil {
					info.RecordedBuilds = n
				}
			}

			if jsonOutput {
				return writeJSON(cmd, info)
			}

			dataset := cfg.Paths.Dataset
			if sumErr != nil {
				dataset += " (unreadable)"
			}
			pairs := [][2]string{
				{"Dataset", dataset},
			}
			if info.DatasetSHA256 != "" {
				pairs = append(pairs, [2]string{"Dataset SHA-256", info.DatasetSHA256})
			}
			pairs = append(pairs,
				[2]string{"Artifact", cfg.Paths.Artifact},
				[2]string{"Artifact present", yesNo(info.ArtifactPresent)},
			)
			if info.ArtifactError != "" {
				pairs = append(pairs, [2]string{"Artifact error", info.ArtifactError})
			}
			if info.BuiltAt != nil {
				pairs = append(pairs,
					[2]string{"Schema version", strconv.Itoa(int(info.SchemaVersion))},
					[2]string{"Movies", strconv.Itoa(info.Rows)},
					[2]string{"Build ID", info.BuildID},
					[2]string{"Built at", info.BuiltAt.Local().Format(time.RFC1123)},
					[2]string{"Up to date", yesNo(info.UpToDate)},
				)
			}
			if info.LedgerPath != "" {
				pairs = append(pairs, [2]string{"Recorded builds", strconv.Itoa(info.RecordedBuilds)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
