package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognized subcommand.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "provision":
		err = runProvision(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "html2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		err = runHelp(rest, env.Stdout)
	default:
		err = unknownCommand(cmd)
	}

	if errors.Is(err, errHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "html2pdf: %v%s\n", err, hintFor(err, env.Getenv))
		if errors.Is(err, ErrUnknownCommand) {
			fmt.Fprintln(env.Stderr)
			printUsage(env.Stderr)
		}
	}
	return exitCodeFor(err)
}

// unknownCommand wraps name in ErrUnknownCommand.
func unknownCommand(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, getenv func(string) string) string {
	var pe *html2pdf.ProvisioningError
	switch {
	case errors.As(err, &pe):
		return hints.ForProvisioning(string(pe.Reason))
	case errors.Is(err, html2pdf.ErrLaunch):
		return hints.ForLaunch(getenv)
	case errors.Is(err, html2pdf.ErrRenderTimeout):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
