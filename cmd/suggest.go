package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"quote-search/metrics"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Rank catalog tickers for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	metrics.SuggestRequestsTotal.Inc()
	results := a.engine.Suggest(strings.Join(args, " "))

	out := cmd.OutOrStdout()
	if jsonOutput {
		return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out).Encode(results)
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "no suggestions")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Ticker, r.Score, r.Name)
	}
	return tw.Flush()
}
