package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  apply      Wrap abbreviations in HTML and Markdown files")
	fmt.Fprintln(w, "  check      Report which files contain abbreviations")
	fmt.Fprintln(w, "  list       Print the configured abbreviations as JSON")
	fmt.Fprintln(w, "  define     Add abbreviations to a config file")
	fmt.Fprintln(w, "  watch      Apply, then re-apply whenever inputs or config change")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'abbreviator help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging")
}

func printSourceUsage(w io.Writer) {
	fmt.Fprintln(w, "Discovery:")
	fmt.Fprintln(w, "      --include <glob>      Files to process, relative to the input directory")
	fmt.Fprintln(w, "                            (default \"**/*.{html,htm,md,markdown}\")")
	fmt.Fprintln(w, "      --exclude <glob>      Files to skip")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cache:")
	fmt.Fprintln(w, "      --cache <backend>     none, memory, sqlite")
	fmt.Fprintln(w, "      --cache-path <file>   SQLite database file")
}

// printApplyUsage prints usage for the apply command.
func printApplyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator apply <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Wrap every configured abbreviation outside tag markup in <abbr title=\"...\">.")
	fmt.Fprintln(w, "Markdown files are rendered to HTML first. Outputs are written as")
	fmt.Fprintln(w, "<name>.abbr.html next to each source unless --output is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory; \"-\" writes to stdout")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file path, or CSS")
	fmt.Fprintln(w, "      --style-dir <dir>     Directory of custom {name}.css styles")
	fmt.Fprintln(w, "      --no-style            Do not inject a stylesheet")
	fmt.Fprintln(w)
	printSourceUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator watch <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run apply, then re-apply changed files until interrupted. Changes to the")
	fmt.Fprintln(w, "config file or to watch.files invalidate every cached decision.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --debounce <d>        Delay before re-applying (default 200ms)")
	fmt.Fprintln(w, "  All apply flags are accepted.")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator check <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report, per file, whether abbreviations occur, whether any occur inside")
	fmt.Fprintln(w, "tag markup, and which substitution strategy applies. Nothing is written.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print decisions as JSON")
	fmt.Fprintln(w)
	printSourceUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printListUsage prints usage for the list command.
func printListUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator list [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configured abbreviations as a JSON object, sorted by key.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDefineUsage prints usage for the define command.
func printDefineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: abbreviator define --abbr <a> --meaning <m> [...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Append abbreviations to the config file (abbreviator.yaml by default).")
	fmt.Fprintln(w, "Pass one --meaning per --abbr, in the same order. Blank pairs are ignored.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -a, --abbr <s>            Abbreviation (repeatable)")
	fmt.Fprintln(w, "  -m, --meaning <s>         Meaning (repeatable)")
	fmt.Fprintln(w, "      --replace             Update the meaning of existing abbreviations")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "apply":
		printApplyUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "list":
		printListUsage(env.Stdout)
	case "define":
		printDefineUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: abbreviator version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: abbreviator help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
