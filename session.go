package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/alnah/go-html2pdf/internal/process"
)

// Teardown bounds. Close must finish even when the browser is wedged.
const (
	closeTimeout = 5 * time.Second
	exitWait     = 5 * time.Second
)

// renderSession is one isolated browser process with one page.
// It is owned by a single conversion and never reused.
type renderSession interface {
	LoadContent(ctx context.Context, html string) error
	RenderPDF(ctx context.Context, opts RenderOptions) ([]byte, error)
	Close() error
	PID() int
}

// sessionOpener starts render sessions. Abstracted so the pipeline can be
// tested without a browser.
type sessionOpener interface {
	open(ctx context.Context, execPath string) (renderSession, error)
}

// Compile-time interface checks.
var (
	_ renderSession = (*rodSession)(nil)
	_ sessionOpener = (*rodOpener)(nil)
)

// rodOpener launches one Chromium per session through rod's launcher.
type rodOpener struct {
	timeouts  Timeouts
	noSandbox bool
	leakless  bool
	logger    zerolog.Logger
}

// open launches a browser with a fresh profile directory, connects to it and
// opens a blank page. Any partial state is torn down on failure.
func (o *rodOpener) open(ctx context.Context, execPath string) (renderSession, error) {
	dataDir, err := os.MkdirTemp("", "html2pdf-profile-*")
	if err != nil {
		return nil, &LaunchError{Err: fmt.Errorf("creating profile dir: %w", err)}
	}

	launchCtx, cancel := context.WithTimeout(ctx, o.timeouts.Launch)
	defer cancel()

	l := launcher.New().
		Context(launchCtx).
		Bin(execPath).
		Headless(true).
		Leakless(o.leakless).
		UserDataDir(dataDir)
	l = applyLaunchFlags(l, o.noSandbox)

	sessCtx, sessCancel := context.WithCancel(context.Background())
	s := &rodSession{
		launcher: l,
		dataDir:  dataDir,
		timeouts: o.timeouts,
		cancel:   sessCancel,
		logger:   o.logger,
	}

	u, err := l.Launch()
	s.pid = l.PID()
	if err != nil {
		_ = s.Close()
		if launchCtx.Err() != nil {
			return nil, stageError(launchCtx, StageLaunch, err)
		}
		return nil, &LaunchError{Err: err}
	}

	// Connecting and opening the page still count against the launch
	// deadline; the session context itself outlives open.
	stop := context.AfterFunc(launchCtx, sessCancel)
	defer stop()

	browser := rod.New().ControlURL(u).NoDefaultDevice().Context(sessCtx)
	if err := browser.Connect(); err != nil {
		_ = s.Close()
		if launchCtx.Err() != nil {
			return nil, stageError(launchCtx, StageLaunch, err)
		}
		return nil, &LaunchError{Err: fmt.Errorf("connecting to %s: %w", u, err)}
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		if launchCtx.Err() != nil {
			return nil, stageError(launchCtx, StageLaunch, err)
		}
		return nil, &LaunchError{Err: fmt.Errorf("opening page: %w", err)}
	}
	s.page = page

	o.logger.Debug().Int("pid", s.pid).Str("profile", dataDir).Msg("browser session opened")
	return s, nil
}

// rodSession implements renderSession on a rod browser and page.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	dataDir  string
	pid      int
	timeouts Timeouts
	cancel   context.CancelFunc
	logger   zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// LoadContent replaces the blank document with html, then waits for the
// load event and for web fonts. No navigation takes place; subresources
// referenced by the document are fetched by the page itself.
func (s *rodSession) LoadContent(ctx context.Context, html string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Load)
	defer cancel()

	p := s.page.Context(ctx)
	if err := p.SetDocumentContent(html); err != nil {
		return stageError(ctx, StageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return stageError(ctx, StageLoad, err)
	}
	if _, err := p.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		return stageError(ctx, StageLoad, err)
	}
	return nil
}

// RenderPDF prints the loaded document and reads the whole stream into
// memory. Nothing is written to disk.
func (s *rodSession) RenderPDF(ctx context.Context, opts RenderOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Print)
	defer cancel()

	r, err := s.page.Context(ctx).PDF(opts.toProto())
	if err != nil {
		return nil, stageError(ctx, StagePrint, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, stageError(ctx, StagePrint, fmt.Errorf("reading PDF stream: %w", err))
	}
	return data, nil
}

// PID returns the browser process ID, or 0 if it never started.
func (s *rodSession) PID() int { return s.pid }

// Close tears the session down. It is safe to call more than once and
// from any exit path; only the first call does work.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.teardown()
	})
	return s.closeErr
}

func (s *rodSession) teardown() error {
	if s.page != nil {
		if err := s.page.Timeout(closeTimeout).Close(); err != nil {
			s.logger.Debug().Err(err).Msg("closing page")
		}
	}
	if s.browser != nil {
		if err := s.browser.Timeout(closeTimeout).Close(); err != nil {
			s.logger.Debug().Err(err).Msg("closing browser")
		}
	}
	if s.cancel != nil {
		s.cancel()
	}

	var errs []error
	if s.pid > 0 {
		// launcher.Kill sleeps a second before signaling; signal directly.
		process.KillProcessGroup(s.pid)
		if !s.waitExit() {
			errs = append(errs, fmt.Errorf("browser pid %d still running after %s", s.pid, exitWait))
		}
	}

	if err := os.RemoveAll(s.dataDir); err != nil {
		errs = append(errs, fmt.Errorf("removing profile dir: %w", err))
	}
	return errors.Join(errs...)
}

// waitExit waits for the launcher to reap the process.
func (s *rodSession) waitExit() bool {
	done := make(chan struct{})
	go func() {
		s.launcher.Cleanup()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(exitWait):
		return !process.Alive(s.pid)
	}
}
