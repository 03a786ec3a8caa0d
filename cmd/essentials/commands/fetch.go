package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/internal/cli/output"
	"github.com/marmos91/essentials/internal/cli/timeutil"
	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/delay"
	"github.com/marmos91/essentials/pkg/metrics"
)

var (
	fetchCount  int
	fetchDelay  time.Duration
	fetchOutput string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch data from a simulated slow source",
	Long: `Fetch data from a simulated slow source.

The source answers "Data fetched successfully!" after a fixed delay (2s by
default). The command logs "Fetching data...", waits, then logs the result.
A failed fetch is logged and the command still exits successfully.

With --count greater than one, that many fetches run concurrently and a
summary of each resolution is printed.

Examples:
  # Single fetch with the configured delay
  essentials fetch

  # Five concurrent fetches with a shorter delay, as JSON
  essentials fetch --count 5 --delay 500ms --output json`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchCount, "count", "n", 1, "Number of concurrent fetches")
	fetchCmd.Flags().DurationVar(&fetchDelay, "delay", 0, "Override the configured delay")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "table", "Summary format for --count > 1 (table|json|yaml)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", fetchCount)
	}
	format, err := output.ParseFormat(fetchOutput)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.cfg.Delay
	if cmd.Flags().Changed("delay") {
		cfg.Delay = fetchDelay
	}
	fetcher := delay.NewFetcher(cfg, metrics.NewFetchMetrics())

	if fetchCount == 1 {
		// The outcome has already been logged.
		_, _ = fetcher.GetData(ctx)
		return nil
	}

	logger.InfoCtx(ctx, "Fetching data...", "count", fetchCount)
	results, err := fetcher.FetchAll(ctx, fetchCount)
	if err != nil {
		logger.ErrorCtx(ctx, "Error fetching data", logger.KeyError, err)
		return nil
	}
	logger.InfoCtx(ctx, "All fetches settled", "count", len(results))

	return output.NewPrinter(cmd.OutOrStdout(), format).Print(resolutionList(results))
}

// resolutionList renders fetch results as a table.
type resolutionList []delay.Resolution

func (r resolutionList) Headers() []string {
	return []string{"Index", "Payload", "Elapsed"}
}

func (r resolutionList) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, res := range r {
		rows = append(rows, []string{strconv.Itoa(res.Index), res.Payload, timeutil.FormatElapsed(res.Elapsed)})
	}
	return rows
}
