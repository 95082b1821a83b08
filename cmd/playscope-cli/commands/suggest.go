package commands

import (
	"github.com/spf13/cobra"

	"playscope-backend/services/catalog"
)

var flagNested bool

func init() {
	suggestCmd.Flags().BoolVar(&flagNested, "nested", false, "expand each suggestion with its own suggestions")
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <term>",
	Short: "Fetches search-box suggestions for a term.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := service()
		opts := catalog.SuggestOptions{
			Count:    flagCount,
			Language: flagLang,
			Country:  flagCountry,
		}

		var err error
		if flagNested {
			err = svc.SuggestPrintNested(cmd.Context(), args[0], opts)
		} else {
			err = svc.SuggestPrintAll(cmd.Context(), args[0], opts)
		}
		if err != nil {
			fatal(err)
		}
	},
}
