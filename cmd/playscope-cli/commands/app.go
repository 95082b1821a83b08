package commands

import (
	"github.com/spf13/cobra"

	"playscope-backend/services/catalog"
)

var flagAssets string

func init() {
	appCmd.Flags().StringVar(&flagAssets, "assets", "", "asset sizing: SMALL, MEDIUM, LARGE or ORIGINAL")
	rootCmd.AddCommand(appCmd)
}

var appCmd = &cobra.Command{
	Use:   "app <app id>",
	Short: "Analyzes the full detail record of an app.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := service()
		opts := catalog.AppOptions{
			Language: flagLang,
			Country:  flagCountry,
			Assets:   flagAssets,
		}

		var err error
		if len(flagFields) > 0 {
			err = svc.AppPrintFields(cmd.Context(), args[0], flagFields, opts)
		} else {
			err = svc.AppPrintAll(cmd.Context(), args[0], opts)
		}
		if err != nil {
			fatal(err)
		}
	},
}
