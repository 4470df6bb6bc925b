package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert one HTML document to PDF")
	fmt.Fprintln(w, "  serve      Run the HTTP conversion endpoint")
	fmt.Fprintln(w, "  provision  Download or verify the pinned browser")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2pdf help <command>' for details on a specific command.")
}

// printCommonFlags prints flags accepted by every command.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Load and print timeout (e.g. 45s)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf convert [flags] <input.html|->")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert one HTML document to PDF. Use - to read from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (\"-\" = stdout; default: input with .pdf,")
	fmt.Fprintln(w, "                            or stdout when reading stdin)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /api/generatepdf with JSON {\"htmlData\": \"...\"}.")
	fmt.Fprintln(w, "Health probes: GET /livez, GET /readyz.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printProvisionUsage prints usage for the provision command.
func printProvisionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf provision [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download or verify the pinned browser and print its path.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --flags               Print launch flags with their rationale")
	fmt.Fprintln(w, "      --no-sandbox          With --flags, include sandbox-only flags")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printEnvVars documents HTML2PDF_* overrides.
func printEnvVars(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2PDF_BROWSER_BIN      Pre-installed browser executable")
	fmt.Fprintln(w, "  HTML2PDF_NO_SANDBOX       Disable the browser sandbox (true/false)")
	fmt.Fprintln(w, "  HTML2PDF_TIMEOUT          Load and print timeout (e.g. 45s)")
	fmt.Fprintln(w, "  HTML2PDF_LOG_LEVEL        debug, info, warn, error")
	fmt.Fprintln(w, "  HTML2PDF_WORKERS          Concurrent conversions for serve")
	fmt.Fprintln(w, "  HTML2PDF_ADDR             Listen address for serve")
	fmt.Fprintln(w, "  HTML2PDF_ASSET_PATH       Directory overriding header, footer and logo")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, w io.Writer) error {
	if len(args) == 0 {
		printUsage(w)
		fmt.Fprintln(w)
		printEnvVars(w)
		return nil
	}
	switch args[0] {
	case "convert":
		printConvertUsage(w)
	case "serve":
		printServeUsage(w)
	case "provision":
		printProvisionUsage(w)
	default:
		return unknownCommand(args[0])
	}
	return nil
}
