package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"quote-search/lookup"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Read queries from stdin: '?text' suggests, anything else looks up a quote",
	Long: `Each line starting with '?' prints suggestions for the rest of the line.
Any other line starts a quote search; entering a new symbol before the
previous search finishes abandons the previous one.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session := lookup.NewSession(a.service)
	defer session.Close()

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	var wg sync.WaitGroup

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "?") {
			mu.Lock()
			for _, s := range a.engine.Suggest(line[1:]) {
				fmt.Fprintf(out, "%s\t%d\n", s.Text(), s.Score)
			}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout)
			defer cancel()

			start := time.Now()
			res, err := session.Search(ctx, symbol)
			if errors.Is(err, lookup.ErrSuperseded) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
			_ = printResult(out, res)
			a.log.Debug().Str("symbol", res.Symbol).Str("took", elapsed(start)).Msg("search finished")
		}(line)
	}
	wg.Wait()
	return scanner.Err()
}
