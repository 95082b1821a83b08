package commands

import (
	"context"
	"fmt"
	"os"

	"playscope-backend/lib/scrapers/gplay"
	"playscope-backend/services/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	reviewsCmd.Flags().StringVar(&flagSort, "sort", "newest", "review order: newest, relevance or rating")
	listCmd.Flags().StringVar(&flagCollection, "collection", "", "chart collection, e.g. topselling_free")
	listCmd.Flags().StringVar(&flagCategory, "category", "", "chart category, e.g. GAME")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(developerCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(similarCmd)
}

var (
	flagSort       string
	flagCollection string
	flagCategory   string
)

func reviewSort(name string) gplay.ReviewSort {
	switch name {
	case "relevance":
		return gplay.SortRelevance
	case "rating":
		return gplay.SortRating
	default:
		return gplay.SortNewest
	}
}

// renderRows prints a field table, or defers to printAll for the raw
// records.
func renderRows(rows []map[string]any, fields []string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{}
	for _, field := range fields {
		header = append(header, field)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{}
		for _, field := range fields {
			cells = append(cells, fmt.Sprintf("%v", row[field]))
		}
		t.AppendRow(cells)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func runRowsCommand(
	ctx context.Context,
	fetch func(ctx context.Context, svc catalog.Service) ([]map[string]any, error),
	printAll func(ctx context.Context, svc catalog.Service) error,
) {
	svc := service()
	if len(flagFields) == 0 {
		if err := printAll(ctx, svc); err != nil {
			fatal(err)
		}
		return
	}

	rows, err := fetch(ctx, svc)
	if err != nil {
		fatal(err)
	}
	renderRows(rows, flagFields)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches the storefront.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.SearchOptions{Count: flagCount, Language: flagLang, Country: flagCountry}
		runRowsCommand(cmd.Context(),
			func(ctx context.Context, svc catalog.Service) ([]map[string]any, error) {
				return svc.SearchAnalyze(ctx, args[0], opts)
			},
			func(ctx context.Context, svc catalog.Service) error {
				return svc.SearchPrintAll(ctx, args[0], opts)
			})
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <app id>",
	Short: "Fetches user reviews of an app.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.ReviewsOptions{
			Count:    flagCount,
			Sort:     reviewSort(flagSort),
			Language: flagLang,
			Country:  flagCountry,
		}
		runRowsCommand(cmd.Context(),
			func(ctx context.Context, svc catalog.Service) ([]map[string]any, error) {
				return svc.ReviewsAnalyze(ctx, args[0], opts)
			},
			func(ctx context.Context, svc catalog.Service) error {
				return svc.ReviewsPrintAll(ctx, args[0], opts)
			})
	},
}

var developerCmd = &cobra.Command{
	Use:   "developer <developer id>",
	Short: "Lists the portfolio of a developer.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.DeveloperOptions{Count: flagCount, Language: flagLang, Country: flagCountry}
		runRowsCommand(cmd.Context(),
			func(ctx context.Context, svc catalog.Service) ([]map[string]any, error) {
				return svc.DeveloperAnalyze(ctx, args[0], opts)
			},
			func(ctx context.Context, svc catalog.Service) error {
				return svc.DeveloperPrintAll(ctx, args[0], opts)
			})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetches a top-chart collection.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.ListOptions{
			Collection: flagCollection,
			Category:   flagCategory,
			Count:      flagCount,
			Language:   flagLang,
			Country:    flagCountry,
		}
		runRowsCommand(cmd.Context(),
			func(ctx context.Context, svc catalog.Service) ([]map[string]any, error) {
				return svc.ListAnalyze(ctx, opts)
			},
			func(ctx context.Context, svc catalog.Service) error {
				return svc.ListPrintAll(ctx, opts)
			})
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <app id>",
	Short: "Lists apps similar to the given one.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.SimilarOptions{Count: flagCount, Language: flagLang, Country: flagCountry}
		runRowsCommand(cmd.Context(),
			func(ctx context.Context, svc catalog.Service) ([]map[string]any, error) {
				return svc.SimilarAnalyze(ctx, args[0], opts)
			},
			func(ctx context.Context, svc catalog.Service) error {
				return svc.SimilarPrintAll(ctx, args[0], opts)
			})
	},
}
