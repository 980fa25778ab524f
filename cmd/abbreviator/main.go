package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid usage")
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the subcommand and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case "apply":
		err = runApply(ctx, rest, env)
	case "check":
		err = runCheck(ctx, rest, env)
	case "list":
		err = runList(rest, env)
	case "define":
		err = runDefine(rest, env)
	case "watch":
		err = runWatch(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "abbreviator %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		if looksLikeSource(cmd) {
			// "abbreviator post.md" is shorthand for "abbreviator apply post.md".
			err = runApply(ctx, args[1:], env)
			break
		}
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "abbreviator: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// looksLikeSource reports whether arg names a supported input file or an
// existing directory.
func looksLikeSource(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return true
	}
	_, err := formatFor(arg)
	return err == nil
}
