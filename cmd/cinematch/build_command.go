package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinematch/internal/catalog"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the similarity artifact from the movie dataset",
		Long: "Build loads the movie dataset, computes pairwise similarity, and writes the artifact.\n" +
			"Without --force an artifact that already matches the dataset is reused.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := ctx.builder(cmd.Context())
			if err != nil {
				return err
			}
			var cat *catalog.Catalog
			if force {
				cat, err = builder.BuildAndPersist(cmd.Context())
			} else {
				cat, err = builder.LoadOrBuild(cmd.Context())
			}
			if err != nil {
				return err
			}

			meta := cat.Metadata()
			if jsonOutput {
				return writeJSON(cmd, buildSummaryJSON(cat))
			}
			out := cmd.OutOrStdout()
			if meta.Source == catalog.SourceArtifact {
				fmt.Fprintf(out, "Artifact up to date: %d movies (build %s)\n", cat.Len(), meta.BuildID)
				return nil
			}
			fmt.Fprintf(out, "Built similarity matrix: %d movies, %d terms (build %s)\n", cat.Len(), meta.Vocabulary, meta.BuildID)
			fmt.Fprintf(out, "Artifact: %s\n", meta.ArtifactPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild even when the artifact matches the dataset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
