package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	html2pdf "github.com/alnah/go-html2pdf"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrTooManyInput = errors.New("convert takes exactly one input")
	ErrReadHTML     = errors.New("failed to read HTML input")
	ErrWritePDF     = errors.New("failed to write PDF file")
)

// stdioPath selects stdin for input and stdout for output.
const stdioPath = "-"

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runConvert converts one HTML document to PDF.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printConvertUsage(env.Stdout)
		}
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputPath := resolveOutputPath(inputPath, flags.output)

	cfg, logger, closer, err := prepare(flags.common, env)
	if err != nil {
		return err
	}
	defer closer.Close()

	html, err := readInput(inputPath, env.Stdin)
	if err != nil {
		return err
	}

	svc, err := env.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.converter.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("closing converter")
		}
	}()

	start := time.Now()
	doc, err := svc.converter.Convert(ctx, html2pdf.ConversionRequest{HTML: html})
	if err != nil {
		return fmt.Errorf("converting %s: %w", displayName(inputPath), err)
	}

	if err := writeOutput(outputPath, doc.PDF, env.Stdout); err != nil {
		return err
	}

	logger.Info().
		Str("input", displayName(inputPath)).
		Str("output", displayName(outputPath)).
		Int("pages", doc.Pages).
		Int("bytes", len(doc.PDF)).
		Dur("duration", time.Since(start)).
		Msg("converted")
	return nil
}

// resolveInputPath returns the single positional argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: got %d", ErrTooManyInput, len(args))
	}
}

// resolveOutputPath picks the destination: the -o value when given, stdout
// for stdin input, otherwise the input path with a .pdf extension.
func resolveOutputPath(inputPath, flagOutput string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if inputPath == stdioPath {
		return stdioPath
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".pdf"
}

// readInput reads the HTML document from a file or from stdin.
func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdioPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- input path is user-provided
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadHTML, err)
	}
	return string(data), nil
}

// writeOutput writes the PDF to a file, creating parent directories, or to
// stdout.
func writeOutput(path string, pdf []byte, stdout io.Writer) error {
	if path == stdioPath {
		if _, err := stdout.Write(pdf); err != nil {
			return fmt.Errorf("%w: %w", ErrWritePDF, err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWritePDF, err)
		}
	}
	if err := os.WriteFile(path, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}

// displayName names a path in logs and errors.
func displayName(path string) string {
	if path == stdioPath {
		return "<stdio>"
	}
	return path
}
