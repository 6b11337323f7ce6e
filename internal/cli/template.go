package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"selfeval/internal/template"
)

// runTemplate builds the handler for the template command.
func runTemplate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		check := fs.Bool("check", false, "Only verify that weights sum to one")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			return ExitUsage
		}

		tmpl := template.Default()
		if err := template.CheckWeights(tmpl, template.DefaultWeightTolerance); err != nil {
			fmt.Fprintf(stderr, "Template weights invalid:\n%v\n", err)
			return ExitError
		}
		if *check {
			fmt.Fprintln(stdout, "Template OK")
			return ExitOK
		}

		fmt.Fprintf(stdout, "%s (pass at %.0f)\n", tmpl.Name, tmpl.PassingThreshold)
		for i, area := range tmpl.Areas {
			fmt.Fprintf(stdout, "\n%d. %s [%s] weight %.2f\n", i+1, area.Name, area.ID, area.Weight)
			for _, question := range area.Questions {
				var flags []string
				if question.AllowsNA() {
					flags = append(flags, "n/a allowed")
				}
				if question.RequiresPhoto {
					flags = append(flags, "photo")
				}
				line := fmt.Sprintf("   - %-8s %.2f  %s", question.ID, question.Weight, question.Text)
				if len(flags) > 0 {
					line += " (" + strings.Join(flags, ", ") + ")"
				}
				fmt.Fprintln(stdout, line)
			}
		}
		return ExitOK
	}
}
