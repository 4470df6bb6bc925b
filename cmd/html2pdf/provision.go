package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	html2pdf "github.com/alnah/go-html2pdf"
)

// runProvision downloads or verifies the pinned browser and prints its path.
// With --flags it prints the launch switches instead and touches nothing.
func runProvision(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseProvisionFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printProvisionUsage(env.Stdout)
		}
		return err
	}

	if flags.showFlags {
		return printLaunchFlags(env.Stdout, html2pdf.LaunchFlags, flags.noSandbox)
	}

	cfg, logger, closer, err := prepare(flags.common, env)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, err := env.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.converter.Close()

	path, err := svc.provisioner.EnsureBrowser(ctx)
	if err != nil {
		return err
	}

	logger.Debug().Str("path", path).Msg("browser ready")
	fmt.Fprintln(env.Stdout, path)
	return nil
}

// printLaunchFlags writes one row per switch with its rationale. Switches
// that need the sandbox disabled are listed only when noSandbox is set.
func printLaunchFlags(w io.Writer, launchFlags []html2pdf.LaunchFlag, noSandbox bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range launchFlags {
		if f.RequiresNoSandbox && !noSandbox {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", formatFlag(f), f.Rationale)
	}
	return tw.Flush()
}

// formatFlag renders a switch the way Chromium receives it.
func formatFlag(f html2pdf.LaunchFlag) string {
	if len(f.Values) == 0 {
		return "--" + string(f.Name)
	}
	return "--" + string(f.Name) + "=" + strings.Join(f.Values, ",")
}
