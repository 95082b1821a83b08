package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"playscope-backend/lib/scrapers/gplay"
	"playscope-backend/services/catalog"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "playscope-cli",
	Short: "playscope-cli scrapes and inspects Play catalog listings.",
}

var (
	flagLang     string
	flagCountry  string
	flagCount    int
	flagThrottle int
	flagFields   []string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "storefront language code")
	rootCmd.PersistentFlags().StringVar(&flagCountry, "country", "", "storefront country code")
	rootCmd.PersistentFlags().IntVar(&flagCount, "count", 0, "maximum result count")
	rootCmd.PersistentFlags().IntVar(&flagThrottle, "throttle", 0, "minimum milliseconds between requests")
	rootCmd.PersistentFlags().StringSliceVar(&flagFields, "fields", nil, "project only the given fields")
}

func service() catalog.Service {
	scraper, err := gplay.NewClient(gplay.ClientOptions{
		Language: flagLang,
		Country:  flagCountry,
		Throttle: time.Duration(flagThrottle) * time.Millisecond,
	})
	if err != nil {
		fatal(err)
	}
	return catalog.NewService(scraper, catalog.ServiceOptions{})
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
