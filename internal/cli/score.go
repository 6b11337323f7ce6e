package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"selfeval/internal/scoring"
	"selfeval/internal/template"
)

// runScore builds the handler for the score command.
func runScore(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		asJSON := fs.Bool("json", false, "Print the breakdown as JSON")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: selfeval score [--json] <answers.yml>")
			return ExitUsage
		}

		file, err := loadAnswersFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		tmpl := template.Default()
		values, err := file.values(tmpl)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		report := scoring.Breakdown(tmpl, values)

		if *asJSON {
			encoder := json.NewEncoder(stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fmt.Fprintf(stderr, "encode report: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		printReport(stdout, report)
		return ExitOK
	}
}

func printReport(w io.Writer, report scoring.Report) {
	for _, area := range report.Areas {
		fmt.Fprintf(w, "%-28s weight %.2f  score %5.1f%%  answered %d/%d", area.Name, area.Weight, area.Score*100, area.Answered, area.Total)
		if area.NA > 0 {
			fmt.Fprintf(w, "  n/a %d", area.NA)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Total %.2f (threshold %.2f): %s\n", report.Score, report.Threshold, verdict(report.Passed))
}
