package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "quote-search",
	Short: "Ticker suggestions and stock quote lookup",
	Long: `quote-search suggests tickers from a small catalog as you type and
looks up a quote, derived change metrics and a week of closes for a symbol.

Examples:
  quote-search suggest bank of
  quote-search quote aapl
  quote-search interactive
  quote-search serve --port 8080`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}
