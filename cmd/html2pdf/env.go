package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
)

// converter is what commands need from html2pdf.Converter.
type converter interface {
	html2pdf.PDFConverter
	Close() error
}

// browserProvisioner is what commands need from html2pdf.Provisioner.
type browserProvisioner interface {
	EnsureBrowser(ctx context.Context) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ converter          = (*html2pdf.Converter)(nil)
	_ browserProvisioner = (*html2pdf.Provisioner)(nil)
)

// services are the library objects built from a loaded config.
type services struct {
	provisioner browserProvisioner
	converter   converter
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Build wires the provisioner and converter. Tests replace it to run
	// commands without a browser.
	Build func(cfg *config.Config, logger zerolog.Logger) (*services, error)

	// Listen serves app until it is shut down.
	Listen func(app listener, addr string) error
}

// listener is the part of *fiber.App that runServe drives.
type listener interface {
	Listen(addr string) error
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Build:   buildServices,
		Listen: func(app listener, addr string) error {
			return app.Listen(addr)
		},
	}
}
