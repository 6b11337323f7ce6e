package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"selfeval/internal/api"
	"selfeval/internal/config"
	"selfeval/internal/template"
)

// serveBackend is a test seam for running the development backend.
var serveBackend = api.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		addr := fs.String("addr", "127.0.0.1:8787", "Address to listen on")
		directoryPath := fs.String("directory", "", "YAML file of contacts and their locations")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors in logs")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintln(stderr, "Too many arguments")
			return ExitUsage
		}
		if *directoryPath == "" {
			fmt.Fprintln(stderr, "Missing --directory")
			return ExitUsage
		}
		if *addr == "" {
			fmt.Fprintln(stderr, "Missing --addr")
			return ExitUsage
		}
		directory, err := api.LoadDirectory(*directoryPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load directory: %v\n", err)
			return ExitError
		}

		logger := newLogger(config.Default(""), stderr, *noColor)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := api.ServeConfig{
			Addr: *addr,
			Handler: api.Config{
				Template:  template.Default(),
				Directory: directory,
				Logger:    logger,
			},
			Ready: func(bound string) {
				fmt.Fprintf(stdout, "Serving development backend at http://%s (%d contacts)\n", bound, len(directory.Contacts))
			},
		}
		if err := serveBackend(ctx, cfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
