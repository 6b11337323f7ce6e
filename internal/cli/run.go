package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"selfeval/internal/capture"
	"selfeval/internal/ui"
	"selfeval/internal/verbose"
)

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// runProgram is a test seam for the terminal program.
var runProgram = ui.Run

// runWizard builds the handler for the run command.
func runWizard(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .selfeval/config.yml)")
		userID := fs.Int64("user", 0, "Host user id (overrides host.fallback_user_id)")
		logPath := fs.String("log", "", "Write logs to a file while the wizard runs")
		noColor := fs.Bool("no-color", false, "Disable colors")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			return ExitUsage
		}
		if !isTerminal(stdout) {
			fmt.Fprintln(stderr, "selfeval run needs a terminal; use selfeval submit for answers files")
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		logger := verbose.Discard()
		if path := firstNonEmpty(*logPath, cfg.Log.File); path != "" {
			file, err := openLogFile(path)
			if err != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				return ExitError
			}
			defer func() { _ = file.Close() }()
			logger = newLogger(cfg, file, true)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		history := openLedger(ctx, cfg, logger)
		if history != nil {
			defer func() { _ = history.Close() }()
		}

		bridge := ui.NewBridge(userIDFor(cfg, *userID))
		w := newWizard(cfg, bridge, logger, history)
		model := ui.NewModel(ui.Options{
			Wizard:  w,
			Bridge:  bridge,
			Context: ctx,
			Locator: locatorFor(cfg),
			Photo: capture.PhotoOptions{
				Quality:      cfg.Capture.JPEGQuality,
				MaxDimension: cfg.Capture.MaxPhotoDimension,
				GeoTimeout:   cfg.Capture.GeolocationTimeout(),
			},
			Logger:  logger,
			NoColor: *noColor || !verbose.ShouldUseStyling(stdout),
		})
		final, err := runProgram(ctx, model, os.Stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Wizard failed: %v\n", err)
			return ExitError
		}
		if result, ok := final.Wizard().Result(); ok {
			fmt.Fprintf(stdout, "Evaluation %s: score %.2f (%s)\n", result.ID, result.Score, verdict(result.Passed))
		}
		return ExitOK
	}
}

// defaultIsTerminal inspects stdout for TTY support.
func defaultIsTerminal(stdout io.Writer) bool {
	if stdout == nil {
		return false
	}
	if file, ok := stdout.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := stdout.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func verdict(passed bool) string {
	if passed {
		return "passed"
	}
	return "not passed"
}
