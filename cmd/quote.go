package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"quote-search/display"
	"quote-search/lookup"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <symbol>",
	Short: "Look up a quote, its change metrics and recent closes",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout)
	defer cancel()

	session := lookup.NewSession(a.service)
	defer session.Close()

	res, err := session.Search(ctx, args[0])
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res lookup.Result) error {
	v := display.Render(res)
	if jsonOutput {
		return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(struct {
			lookup.Result
			View display.View `json:"view"`
		}{res, v})
	}

	fmt.Fprintf(w, "%s %s\n", v.Name, v.Symbol)
	fmt.Fprintf(w, "  Price       %s\n", v.Price)
	fmt.Fprintf(w, "  Change      %s\n", v.Change)
	fmt.Fprintf(w, "  Open        %s\n", v.Open)
	fmt.Fprintf(w, "  High        %s\n", v.High)
	fmt.Fprintf(w, "  Low         %s\n", v.Low)
	fmt.Fprintf(w, "  Prev close  %s\n", v.PreviousClose)
	fmt.Fprintf(w, "  Time        %s\n", v.Time)
	if len(res.Chart) > 0 {
		fmt.Fprintf(w, "  %s\n", res.ChartLabel())
		for _, p := range res.Chart {
			fmt.Fprintf(w, "    %s  %s\n", p.Date, display.Number(&p.Price))
		}
	}
	return nil
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
