package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cinematch/internal/catalog"
)

const suggestionLimit = 5

type recommendOptions struct {
	count      int
	jsonOutput bool
	scores     bool
	rebuild    bool
	suggest    bool
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend [title]",
		Short: "Recommend movies similar to a title",
		Long: "Recommend prints the movies most similar to an exact title from the dataset.\n" +
			"Without a title argument it reads one line from stdin, prompting when attached to a terminal.",
		Example: "  cinematch recommend \"The Dark Knight\"\n  cinematch recommend -n 10 --scores Heat",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if len(args) == 0 {
				var err error
				title, err = readTitle(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal(cmd.InOrStdin()))
				if err != nil {
					return err
				}
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			builder, err := ctx.builder(cmd.Context())
			if err != nil {
				return err
			}
			var cat *catalog.Catalog
			if opts.rebuild {
				cat, err = builder.BuildAndPersist(cmd.Context())
			} else {
				cat, err = builder.LoadOrBuild(cmd.Context())
			}
			if err != nil {
				return err
			}

			count := opts.count
			if !cmd.Flags().Changed("count") {
				count = cfg.Recommend.DefaultCount
			}
			return renderRecommendations(cmd.OutOrStdout(), cat, title, count, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", catalog.DefaultCount, "Number of recommendations")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "Show a ranked table with similarity scores")
	cmd.Flags().BoolVar(&opts.rebuild, "rebuild", false, "Rebuild the similarity artifact before answering")
	cmd.Flags().BoolVar(&opts.suggest, "suggest", false, "Suggest close titles when no exact match exists")
	return cmd
}

func renderRecommendations(out io.Writer, cat *catalog.Catalog, title string, count int, opts recommendOptions) error {
	recs, found := cat.RecommendScored(title, count)
	var suggestions []string
	if !found && opts.suggest {
		suggestions = cat.Suggest(title, suggestionLimit)
	}

	if opts.jsonOutput {
		payload := recommendJSON{
			Query:           title,
			Found:           found,
			Recommendations: recs,
			Suggestions:     suggestions,
		}
		if payload.Recommendations == nil {
			payload.Recommendations = []catalog.Recommendation{}
		}
		if !found {
			payload.Message = catalog.NotFoundMessage
		}
		return writeJSONTo(out, payload)
	}

	if !found {
		fmt.Fprintln(out, catalog.NotFoundMessage)
		if len(suggestions) > 0 {
			fmt.Fprintln(out, "Did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(out, "  - %s\n", s)
			}
		}
		return nil
	}

	if opts.scores {
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, []string{strconv.Itoa(r.Rank), r.Title, strconv.FormatFloat(r.Score, 'f', 4, 64)})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Title", "Score"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
		return nil
	}

	fmt.Fprintln(out, "Recommended Movies:")
	for _, r := range recs {
		fmt.Fprintf(out, "%d. %s\n", r.Rank, r.Title)
	}
	return nil
}
