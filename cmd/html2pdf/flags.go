package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps pflag parse failures so they map to ExitUsage.
var ErrInvalidFlags = errors.New("invalid flags")

// errHelp is returned unwrapped for -h and --help.
var errHelp = flag.ErrHelp

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	timeout time.Duration
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common commonFlags
	output string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	workers int
}

// provisionFlags holds all flags for the provision command.
type provisionFlags struct {
	common    commonFlags
	showFlags bool
	noSandbox bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "load and print timeout per document (e.g. 45s)")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// parseFlagSet parses args, keeping flag.ErrHelp unwrapped so callers can
// print usage and exit cleanly.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, errHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return nil
}

// parseConvertFlags parses convert arguments and returns the positional ones.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert")
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", `output PDF path ("-" for stdout)`)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve arguments. Zero values mean "keep config".
func parseServeFlags(args []string) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default from config, :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrInvalidFlags, f.workers)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidFlags, fs.Args())
	}
	return f, nil
}

// parseProvisionFlags parses provision arguments.
func parseProvisionFlags(args []string) (*provisionFlags, error) {
	f := &provisionFlags{}
	fs := newFlagSet("provision")
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.showFlags, "flags", false, "print the browser launch flags and exit")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "with --flags, include sandbox-only switches")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidFlags, fs.Args())
	}
	return f, nil
}
