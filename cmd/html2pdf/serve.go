package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/logging"
)

// shutdownGrace bounds how long in-flight conversions may finish after a
// termination signal before they are canceled.
const shutdownGrace = 30 * time.Second

// generatePath is the HTTP trigger endpoint.
const generatePath = "/api/generatepdf"

// errorKinds labels library errors in request logs.
var errorKinds = map[error]string{
	html2pdf.ErrEmptyHTML:     "empty_html",
	html2pdf.ErrPoolWait:      "pool_wait",
	html2pdf.ErrClosed:        "closed",
	html2pdf.ErrProvisioning:  "provisioning",
	html2pdf.ErrLaunch:        "launch",
	html2pdf.ErrRenderTimeout: "render_timeout",
	html2pdf.ErrRender:        "render",
}

// generateRequest is the JSON body of POST /api/generatepdf.
type generateRequest struct {
	HTMLData string `json:"htmlData"`
}

// server handles HTTP conversion requests through a bounded pool.
type server struct {
	ctx    context.Context // canceled when the shutdown grace period ends
	pool   *html2pdf.ConverterPool
	logger zerolog.Logger
}

// runServe provisions the browser, then serves HTTP until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printServeUsage(env.Stdout)
		}
		return err
	}

	cfg, logger, closer, err := prepare(flags.common, env)
	if err != nil {
		return err
	}
	defer closer.Close()

	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.workers > 0 {
		cfg.Server.Workers = flags.workers
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

	// The browser must be usable before the listener starts.
	path, err := svc.provisioner.EnsureBrowser(ctx)
	if err != nil {
		return err
	}

	pool := html2pdf.NewConverterPool(svc.converter, html2pdf.ResolvePoolSize(cfg.Server.Workers))

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	app := newServer(baseCtx, pool, logger, cfg.Server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- env.Listen(app, cfg.Server.Addr)
	}()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("browser", path).
		Int("workers", pool.Size()).
		Msg("serving")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Int("in_flight", pool.InFlight()).Msg("shutting down")
	shutdownErr := app.ShutdownWithTimeout(shutdownGrace)
	cancelBase()
	if shutdownErr != nil {
		return fmt.Errorf("shutting down: %w", shutdownErr)
	}
	return nil
}

// newServer builds the fiber app: recover, request IDs, health probes and
// the conversion route. Readiness fails while every pool slot is busy.
func newServer(ctx context.Context, pool *html2pdf.ConverterPool, logger zerolog.Logger, cfg config.ServerConfig) *fiber.App {
	s := &server{ctx: ctx, pool: pool, logger: logger}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.MaxBodyBytes,
		ErrorHandler:          s.handleError,
	})

	app.Use(fiberrecover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(*fiber.Ctx) bool {
			return pool.TryAcquireSlot()
		},
	}))

	app.Post(generatePath, s.handleGeneratePDF)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// handleGeneratePDF converts the htmlData field of a JSON body.
func (s *server) handleGeneratePDF(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be JSON with an htmlData field")
	}

	start := time.Now()
	doc, err := s.pool.Convert(s.ctx, html2pdf.ConversionRequest{HTML: req.HTMLData})
	if err != nil {
		return s.conversionError(c, err)
	}

	s.logger.Info().
		Str("request_id", requestID(c)).
		Int("pages", doc.Pages).
		Int("bytes", len(doc.PDF)).
		Dur("duration", time.Since(start)).
		Msg("converted")

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="document.pdf"`)
	return c.Send(doc.PDF)
}

// conversionError logs err and turns it into an HTTP error.
func (s *server) conversionError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	ev := s.logger.Warn()
	if status >= fiber.StatusInternalServerError {
		ev = s.logger.Error()
	}
	ev.Err(err).
		Str("request_id", requestID(c)).
		Str("kind", logging.ErrorKind(err, errorKinds)).
		Int("status", status).
		Msg("conversion failed")
	return fiber.NewError(status, err.Error())
}

// handleError renders every error as {"error": {"code", "message"}}.
func (s *server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}

// statusFor maps conversion errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, html2pdf.ErrEmptyHTML):
		return fiber.StatusBadRequest
	case errors.Is(err, html2pdf.ErrPoolWait),
		errors.Is(err, html2pdf.ErrClosed),
		errors.Is(err, html2pdf.ErrProvisioning):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, html2pdf.ErrLaunch):
		return fiber.StatusBadGateway
	case errors.Is(err, html2pdf.ErrRenderTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, html2pdf.ErrRender):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// requestID returns the ID set by the requestid middleware.
func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
