package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// With no command, or with flags only, it serves.
func runMain(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := "serve", []string(nil)
	if len(args) > 1 {
		cmd, rest = args[1], args[2:]
		if len(cmd) > 0 && cmd[0] == '-' && !isCommandFlag(cmd) {
			cmd, rest = "serve", args[1:]
		}
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "config":
		err = runConfig(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "pdfgate %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}

// isCommandFlag reports whether a leading flag names a command rather than
// a serve option.
func isCommandFlag(s string) bool {
	switch s {
	case "-h", "--help", "--version":
		return true
	}
	return false
}
