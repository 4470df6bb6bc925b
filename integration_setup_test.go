//go:build integration

package html2pdf

// Notes:
// - Integration test setup: one Provisioner shared by every test
// - The browser is provisioned once in TestMain, so individual tests never
//   download and their timeouts measure rendering only
// - HTML2PDF_NO_SANDBOX=1 (or CI=true) disables the Chromium sandbox
// - HTML2PDF_BROWSER_BIN points at a pre-installed Chromium

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-html2pdf/internal/process"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 60 * time.Second

// testProvisioner is shared by all integration tests.
var testProvisioner *Provisioner

// ---------------------------------------------------------------------------
// TestMain - Integration Test Setup and Teardown
// ---------------------------------------------------------------------------

func TestMain(m *testing.M) {
	testProvisioner = NewProvisioner(ProvisionerConfig{Bin: os.Getenv("HTML2PDF_BROWSER_BIN")})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	_, err := testProvisioner.EnsureBrowser(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "provisioning browser: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testNoSandbox reports whether the environment requires --no-sandbox.
func testNoSandbox() bool {
	if v, err := strconv.ParseBool(os.Getenv("HTML2PDF_NO_SANDBOX")); err == nil {
		return v
	}
	return os.Getenv("CI") == "true"
}

// recordingOpener wraps the real opener and remembers every browser PID.
type recordingOpener struct {
	inner sessionOpener
	mu    sync.Mutex
	pids  []int
}

func (r *recordingOpener) open(ctx context.Context, execPath string) (renderSession, error) {
	s, err := r.inner.open(ctx, execPath)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.pids = append(r.pids, s.PID())
	r.mu.Unlock()
	return s, nil
}

func (r *recordingOpener) recorded() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.pids...)
}

// newTestConverter creates a Converter on the shared provisioner whose
// opener records PIDs.
func newTestConverter(t *testing.T, opts ...Option) (*Converter, *recordingOpener) {
	t.Helper()

	base := []Option{WithProvisioner(testProvisioner), WithNoSandbox(testNoSandbox())}
	c, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	rec := &recordingOpener{inner: c.opener}
	c.opener = rec
	t.Cleanup(func() { _ = c.Close() })
	return c, rec
}

// assertNoLeakedProcesses fails if any recorded browser is still running.
func assertNoLeakedProcesses(t *testing.T, rec *recordingOpener) {
	t.Helper()

	pids := rec.recorded()
	if len(pids) == 0 {
		t.Fatal("no browser process was recorded")
	}
	for _, pid := range pids {
		if process.Alive(pid) {
			t.Errorf("browser pid %d still running after Convert returned", pid)
		}
	}
}
