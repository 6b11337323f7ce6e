package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"selfeval/internal/ledger"
)

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .selfeval/config.yml)")
		limit := fs.Int("limit", 20, "Maximum number of evaluations to list")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			return ExitUsage
		}
		if *limit <= 0 {
			fmt.Fprintln(stderr, "--limit must be positive")
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if cfg.Ledger.Disabled {
			fmt.Fprintln(stderr, "History is disabled in the config")
			return ExitError
		}

		ctx := context.Background()
		history, err := ledger.Open(ctx, cfg.Ledger.Path)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open history: %v\n", err)
			return ExitError
		}
		defer func() { _ = history.Close() }()

		entries, err := history.List(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read history: %v\n", err)
			return ExitError
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "No evaluations recorded")
			return ExitOK
		}
		for _, entry := range entries {
			fmt.Fprintf(stdout, "%s  %-24s %6.2f  %-10s %s\n",
				entry.SubmittedAt.Local().Format("2006-01-02 15:04"),
				entry.LocationName,
				entry.Score,
				verdict(entry.Passed),
				entry.EvaluationID,
			)
		}
		rate, total, err := history.PassRate(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to compute pass rate: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "\n%d evaluation(s), %.0f%% passed\n", total, rate*100)
		return ExitOK
	}
}
