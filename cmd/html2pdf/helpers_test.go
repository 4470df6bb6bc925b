package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
)

// fakePDF is returned by fakeConverter on success.
var fakePDF = []byte("%PDF-1.7\n% fake\n%%EOF\n")

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes for the library services
// ---------------------------------------------------------------------------

// fakeConverter records requests and returns a canned result.
type fakeConverter struct {
	mu      sync.Mutex
	calls   []string
	err     error
	block   chan struct{} // when non-nil, Convert waits on it or ctx
	closed  bool
	entered chan struct{}
}

func (f *fakeConverter) Convert(ctx context.Context, req html2pdf.ConversionRequest) (*html2pdf.RenderedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.HTML)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &html2pdf.RenderedDocument{PDF: fakePDF, Pages: 1}, nil
}

func (f *fakeConverter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConverter) getCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeConverter) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeProvisioner returns a fixed path or error.
type fakeProvisioner struct {
	path  string
	err   error
	calls int
}

func (f *fakeProvisioner) EnsureBrowser(context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	cfg    *config.Config // last config passed to Build
}

// newTestEnv returns an Environment whose Build returns conv and prov.
// vars are the visible environment variables.
func newTestEnv(t *testing.T, conv *fakeConverter, prov *fakeProvisioner, vars map[string]string) *testEnv {
	t.Helper()

	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Build: func(cfg *config.Config, _ zerolog.Logger) (*services, error) {
			te.cfg = cfg
			return &services{provisioner: prov, converter: conv}, nil
		},
		Listen: func(listener, string) error {
			t.Error("Listen called unexpectedly")
			return nil
		},
	}
	return te
}
