package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  selfeval <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"selfeval <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .selfeval/config.yml", []string{
		"selfeval init [--dir <path>] [--force]",
	}, runInit),
	command("validate", "Validate the config and the bundled template", []string{
		"selfeval validate [--config <path>]",
	}, runValidate),
	command("run", "Run the evaluation wizard in the terminal", []string{
		"selfeval run [--config <path>] [--user <id>] [--log <file>] [--no-color]",
	}, runWizard),
	command("submit", "Submit an evaluation from an answers file", []string{
		"selfeval submit [--config <path>] [--user <id>] <answers.yml>",
	}, runSubmit),
	command("score", "Score an answers file without submitting", []string{
		"selfeval score [--json] <answers.yml>",
	}, runScore),
	command("template", "Show the evaluation template", []string{
		"selfeval template [--check]",
	}, runTemplate),
	command("history", "List submitted evaluations", []string{
		"selfeval history [--config <path>] [--limit <n>]",
	}, runHistory),
	command("serve", "Run the development backend", []string{
		"selfeval serve --directory <contacts.yml> [--addr <host:port>]",
	}, runServe),
}
