package html2pdf

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeFetcher is a scripted browserFetcher. Download pops results from
// downloadErrs; once exhausted it succeeds. A successful download makes
// Validate pass unless validateAfter is set.
type fakeFetcher struct {
	mu            sync.Mutex
	installed     bool
	downloadErrs  []error
	downloads     int
	validateAfter error
	downloadDelay time.Duration
	path          string
}

func (f *fakeFetcher) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.installed {
		return fs.ErrNotExist
	}
	return f.validateAfter
}

func (f *fakeFetcher) Download() error {
	if f.downloadDelay > 0 {
		time.Sleep(f.downloadDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	if len(f.downloadErrs) > 0 {
		err := f.downloadErrs[0]
		f.downloadErrs = f.downloadErrs[1:]
		if err != nil {
			return err
		}
	}
	f.installed = true
	return nil
}

func (f *fakeFetcher) BinPath() string { return f.path }

func (f *fakeFetcher) downloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

// newTestProvisioner returns a Provisioner rooted in a temp dir whose
// fetcher is f and whose cached path always stats as present.
func newTestProvisioner(t *testing.T, f *fakeFetcher) *Provisioner {
	t.Helper()
	p := NewProvisioner(ProvisionerConfig{
		RootDir:      t.TempDir(),
		RetryBackoff: time.Millisecond,
		LockPort:     -1,
	})
	p.newFetcher = func(context.Context) browserFetcher { return f }
	p.stat = func(string) (os.FileInfo, error) { return nil, nil }
	return p
}

func TestProvisioner_AlreadyInstalled(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{installed: true, path: "/opt/chromium/chrome"}
	p := newTestProvisioner(t, f)

	got, err := p.EnsureBrowser(context.Background())
	if err != nil {
		t.Fatalf("EnsureBrowser() error = %v", err)
	}
	if got != f.path {
		t.Errorf("EnsureBrowser() = %q, want %q", got, f.path)
	}
	if n := f.downloadCount(); n != 0 {
		t.Errorf("downloads = %d, want 0", n)
	}
}

func TestProvisioner_DownloadsWhenMissing(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{path: "/cache/chrome"}
	p := newTestProvisioner(t, f)

	got, err := p.EnsureBrowser(context.Background())
	if err != nil {
		t.Fatalf("EnsureBrowser() error = %v", err)
	}
	if got != f.path {
		t.Errorf("EnsureBrowser() = %q, want %q", got, f.path)
	}

	// Second call is served from the cache.
	if _, err := p.EnsureBrowser(context.Background()); err != nil {
		t.Fatalf("second EnsureBrowser() error = %v", err)
	}
	if n := f.downloadCount(); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}
}

func TestProvisioner_RetriesOnce(t *testing.T) {
	t.Parallel()

	errNet := errors.New("connection reset")

	tests := []struct {
		name          string
		errs          []error
		wantErr       bool
		wantReason    ProvisioningReason
		wantDownloads int
	}{
		{
			name:          "first attempt fails, retry succeeds",
			errs:          []error{errNet},
			wantDownloads: 2,
		},
		{
			name:          "both attempts fail",
			errs:          []error{errNet, errNet},
			wantErr:       true,
			wantReason:    ReasonNetwork,
			wantDownloads: 2,
		},
		{
			name:          "disk full on retry",
			errs:          []error{errNet, &fs.PathError{Op: "write", Path: "x", Err: fs.ErrPermission}},
			wantErr:       true,
			wantReason:    ReasonDisk,
			wantDownloads: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &fakeFetcher{path: "/cache/chrome", downloadErrs: tt.errs}
			p := newTestProvisioner(t, f)

			got, err := p.EnsureBrowser(context.Background())

			if n := f.downloadCount(); n != tt.wantDownloads {
				t.Errorf("downloads = %d, want %d", n, tt.wantDownloads)
			}
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("EnsureBrowser() error = %v", err)
				}
				if got != f.path {
					t.Errorf("EnsureBrowser() = %q, want %q", got, f.path)
				}
				return
			}

			var pe *ProvisioningError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ProvisioningError", err)
			}
			if pe.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", pe.Reason, tt.wantReason)
			}
			if got != "" {
				t.Errorf("path = %q, want empty on failure", got)
			}
		})
	}
}

func TestProvisioner_VerificationFailure(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{path: "/cache/chrome", validateAfter: errors.New("exec format error")}
	p := newTestProvisioner(t, f)

	_, err := p.EnsureBrowser(context.Background())

	var pe *ProvisioningError
	if !errors.As(err, &pe) || pe.Reason != ReasonVerification {
		t.Fatalf("error = %v, want ProvisioningError{verification}", err)
	}
}

func TestProvisioner_ConcurrentCallersShareOneDownload(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{path: "/cache/chrome", downloadDelay: 50 * time.Millisecond}
	p := newTestProvisioner(t, f)

	const callers = 8
	var wg sync.WaitGroup
	var failures atomic.Int32
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.EnsureBrowser(context.Background()); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Errorf("%d callers failed", n)
	}
	if n := f.downloadCount(); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}
}

func TestProvisioner_CallerCancellation(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{path: "/cache/chrome", downloadDelay: 200 * time.Millisecond}
	p := newTestProvisioner(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.EnsureBrowser(ctx)
	if !errors.Is(err, ErrProvisioning) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want provisioning error wrapping the deadline", err)
	}

	// The shared download keeps going for other callers.
	got, err := p.EnsureBrowser(context.Background())
	if err != nil {
		t.Fatalf("EnsureBrowser() after cancel error = %v", err)
	}
	if got != f.path {
		t.Errorf("EnsureBrowser() = %q, want %q", got, f.path)
	}
	if n := f.downloadCount(); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}
}

func TestProvisioner_ReprovisionsWhenCachedPathVanishes(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{installed: true, path: "/cache/chrome"}
	p := newTestProvisioner(t, f)

	if _, err := p.EnsureBrowser(context.Background()); err != nil {
		t.Fatalf("EnsureBrowser() error = %v", err)
	}

	// Simulate the binary being deleted from the cache.
	p.stat = func(string) (os.FileInfo, error) { return nil, fs.ErrNotExist }
	f.mu.Lock()
	f.installed = false
	f.mu.Unlock()

	if _, err := p.EnsureBrowser(context.Background()); err != nil {
		t.Fatalf("EnsureBrowser() after removal error = %v", err)
	}
	if n := f.downloadCount(); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}
}

func TestProvisioner_ConfiguredBinary(t *testing.T) {
	t.Parallel()

	t.Run("existing binary is used as is", func(t *testing.T) {
		t.Parallel()

		bin := filepath.Join(t.TempDir(), "chrome")
		if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}

		p := NewProvisioner(ProvisionerConfig{Bin: bin})
		got, err := p.EnsureBrowser(context.Background())
		if err != nil {
			t.Fatalf("EnsureBrowser() error = %v", err)
		}
		if got != bin {
			t.Errorf("EnsureBrowser() = %q, want %q", got, bin)
		}
	})

	t.Run("missing binary is a disk error", func(t *testing.T) {
		t.Parallel()

		p := NewProvisioner(ProvisionerConfig{Bin: filepath.Join(t.TempDir(), "nope")})
		_, err := p.EnsureBrowser(context.Background())

		var pe *ProvisioningError
		if !errors.As(err, &pe) || pe.Reason != ReasonDisk {
			t.Fatalf("error = %v, want ProvisioningError{disk}", err)
		}
	})
}

func TestProvisioner_UnwritableRootDir(t *testing.T) {
	t.Parallel()

	// A regular file cannot be used as the install directory.
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewProvisioner(ProvisionerConfig{RootDir: filepath.Join(file, "browsers"), LockPort: -1})
	p.newFetcher = func(context.Context) browserFetcher {
		t.Error("fetcher should not be created")
		return &fakeFetcher{}
	}

	_, err := p.EnsureBrowser(context.Background())

	var pe *ProvisioningError
	if !errors.As(err, &pe) || pe.Reason != ReasonDisk {
		t.Fatalf("error = %v, want ProvisioningError{disk}", err)
	}
}

func TestHostFromPattern(t *testing.T) {
	t.Parallel()

	host := hostFromPattern("https://mirror.example/chromium/%d/chrome-linux.zip")
	if got, want := host(1321438), "https://mirror.example/chromium/1321438/chrome-linux.zip"; got != want {
		t.Errorf("host() = %q, want %q", got, want)
	}
}

func TestProvisioner_UnreachableMirror(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	p := NewProvisioner(ProvisionerConfig{
		RootDir:      t.TempDir(),
		Hosts:        []string{srv.URL + "/chromium/%d.zip"},
		RetryBackoff: time.Millisecond,
		LockPort:     -1,
	})

	path, err := p.EnsureBrowser(context.Background())

	var pe *ProvisioningError
	if !errors.As(err, &pe) || pe.Reason != ReasonNetwork {
		t.Fatalf("error = %v, want ProvisioningError{network}", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if hits.Load() < 2 {
		t.Errorf("mirror hit %d times, want at least 2 (one retry)", hits.Load())
	}
}
