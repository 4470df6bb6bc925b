package html2pdf

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-html2pdf/internal/assets"
)

// browserProvisioner resolves a runnable browser executable.
type browserProvisioner interface {
	EnsureBrowser(ctx context.Context) (string, error)
}

// PDFConverter is implemented by Converter and ConverterPool.
type PDFConverter interface {
	Convert(ctx context.Context, req ConversionRequest) (*RenderedDocument, error)
}

// Compile-time interface checks.
var (
	_ browserProvisioner = (*Provisioner)(nil)
	_ PDFConverter       = (*Converter)(nil)
	_ PDFConverter       = (*ConverterPool)(nil)
)

// Converter runs the HTML-to-PDF pipeline. Every Convert call gets its own
// browser process; the only state shared between calls is the provisioned
// binary path. A Converter is safe for concurrent use.
type Converter struct {
	cfg         converterConfig
	provisioner browserProvisioner
	opener      sessionOpener
	builder     *PrintOptionsBuilder
	verify      func([]byte) (int, error)
	logger      zerolog.Logger
	closed      atomic.Bool
}

// NewConverter creates a Converter. Use options to customize behavior.
// Returns error if the asset path is invalid or the page decorations cannot
// be rendered.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeouts: DefaultTimeouts(),
			print:    DefaultPrintConfig(),
			leakless: true,
		},
		logger: zerolog.Nop(),
		verify: verifyPDF,
	}

	for _, opt := range opts {
		opt(c)
	}

	loader := c.cfg.loader
	if loader == nil && c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("resolving asset path: %w", err)
		}
		loader = resolver
	}

	if c.builder == nil {
		builder, err := NewPrintOptionsBuilder(c.cfg.print, loader)
		if err != nil {
			return nil, err
		}
		c.builder = builder
	}

	if c.provisioner == nil {
		c.provisioner = NewProvisioner(ProvisionerConfig{Logger: c.logger})
	}

	if c.opener == nil {
		c.opener = &rodOpener{
			timeouts:  c.cfg.timeouts,
			noSandbox: c.cfg.noSandbox,
			leakless:  c.cfg.leakless,
			logger:    c.logger,
		}
	}

	return c, nil
}

// Convert renders req.HTML to PDF. It is all-or-nothing: on error no bytes
// are returned. The browser process is torn down on every exit path,
// including cancellation of ctx and internal panics.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (doc *RenderedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &RenderError{Stage: StageInternal, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	execPath, err := c.provisioner.EnsureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	opts := c.builder.Build()

	sess, err := c.opener.open(ctx, execPath)
	if err != nil {
		return nil, err
	}
	log := c.logger.With().Int("pid", sess.PID()).Logger()
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("browser teardown incomplete")
		}
	}()

	if err := sess.LoadContent(ctx, req.HTML); err != nil {
		return nil, err
	}

	data, err := sess.RenderPDF(ctx, opts)
	if err != nil {
		return nil, err
	}

	pages, err := c.verify(data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("html_bytes", len(req.HTML)).
		Int("pdf_bytes", len(data)).
		Int("pages", pages).
		Dur("elapsed", time.Since(start)).
		Msg("converted")

	return &RenderedDocument{PDF: data, Pages: pages}, nil
}

// Close marks the converter closed. Sessions are released by the calls that
// own them, so there is nothing else to free.
func (c *Converter) Close() error {
	c.closed.Store(true)
	return nil
}
