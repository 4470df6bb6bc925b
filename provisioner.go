package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog"
	"github.com/ysmood/leakless"
	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-html2pdf/internal/logging"
)

// Provisioning defaults.
const (
	defaultDownloadTimeout = 5 * time.Minute
	defaultRetryBackoff    = 2 * time.Second
	defaultLockPort        = 2968
)

// browserFetcher abstracts rod's launcher.Browser so provisioning can be
// tested without network access.
type browserFetcher interface {
	Validate() error
	Download() error
	BinPath() string
}

// Compile-time interface check.
var _ browserFetcher = (*launcher.Browser)(nil)

// ProvisionerConfig configures a Provisioner. Zero values select defaults.
type ProvisionerConfig struct {
	// Bin is a pre-installed executable. When set, nothing is downloaded.
	Bin string
	// RootDir holds downloaded revisions. Defaults to rod's cache directory.
	RootDir string
	// Revision pins the Chromium snapshot. Defaults to launcher.RevisionDefault.
	Revision int
	// Hosts are download URL patterns; "%d" is replaced by the revision.
	Hosts []string
	// DownloadTimeout bounds one provisioning run including the retry.
	DownloadTimeout time.Duration
	// RetryBackoff is the wait before the single retry.
	RetryBackoff time.Duration
	// LockPort serializes downloads across processes. Negative disables it.
	LockPort int
	Logger   zerolog.Logger
}

// Provisioner guarantees a runnable Chromium binary at a pinned revision.
// The resolved path is cached; concurrent callers share one download.
type Provisioner struct {
	cfg        ProvisionerConfig
	newFetcher func(ctx context.Context) browserFetcher
	stat       func(string) (os.FileInfo, error)
	group      singleflight.Group

	mu   sync.Mutex
	path string
}

// NewProvisioner creates a Provisioner. No I/O happens until EnsureBrowser.
func NewProvisioner(cfg ProvisionerConfig) *Provisioner {
	if cfg.RootDir == "" {
		cfg.RootDir = launcher.DefaultBrowserDir
	}
	if cfg.Revision == 0 {
		cfg.Revision = launcher.RevisionDefault
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaultDownloadTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.LockPort == 0 {
		cfg.LockPort = defaultLockPort
	}

	p := &Provisioner{cfg: cfg, stat: os.Stat}
	p.newFetcher = p.rodFetcher
	return p
}

// rodFetcher builds the launcher.Browser for the configured revision.
func (p *Provisioner) rodFetcher(ctx context.Context) browserFetcher {
	b := launcher.NewBrowser()
	b.Context = ctx
	b.RootDir = p.cfg.RootDir
	b.Revision = p.cfg.Revision
	b.Logger = logging.RodLogger{Logger: p.cfg.Logger}
	if len(p.cfg.Hosts) > 0 {
		b.Hosts = make([]launcher.Host, 0, len(p.cfg.Hosts))
		for _, pattern := range p.cfg.Hosts {
			b.Hosts = append(b.Hosts, hostFromPattern(pattern))
		}
	}
	return b
}

// hostFromPattern turns "https://mirror/%d/chrome.zip" into a launcher.Host.
func hostFromPattern(pattern string) launcher.Host {
	return func(revision int) string {
		return strings.ReplaceAll(pattern, "%d", strconv.Itoa(revision))
	}
}

// EnsureBrowser returns the path of a runnable browser executable,
// downloading the pinned revision if needed. A cached path is reused as long
// as the file still exists.
//
// The download runs under its own timeout so one canceled caller does not
// abort it for the others; ctx only bounds how long this caller waits.
func (p *Provisioner) EnsureBrowser(ctx context.Context) (string, error) {
	if path := p.cached(); path != "" {
		if _, err := p.stat(path); err == nil {
			return path, nil
		}
		p.cfg.Logger.Warn().Str("path", path).Msg("cached browser missing, provisioning again")
		p.forget(path)
	}

	ch := p.group.DoChan("browser", func() (interface{}, error) {
		return p.provision()
	})

	select {
	case <-ctx.Done():
		return "", &ProvisioningError{Reason: ReasonNetwork, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (p *Provisioner) cached() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

func (p *Provisioner) store(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

// forget clears the cache if it still holds path.
func (p *Provisioner) forget(path string) {
	p.mu.Lock()
	if p.path == path {
		p.path = ""
	}
	p.mu.Unlock()
}

func (p *Provisioner) provision() (string, error) {
	if p.cfg.Bin != "" {
		if err := checkExecutable(p.cfg.Bin); err != nil {
			return "", &ProvisioningError{Reason: ReasonDisk, Err: err}
		}
		p.store(p.cfg.Bin)
		return p.cfg.Bin, nil
	}

	if err := ensureWritableDir(p.cfg.RootDir); err != nil {
		return "", &ProvisioningError{Reason: ReasonDisk, Err: err}
	}

	if p.cfg.LockPort > 0 {
		defer leakless.LockPort(p.cfg.LockPort)()
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.DownloadTimeout)
	defer cancel()

	f := p.newFetcher(ctx)
	if err := f.Validate(); err == nil {
		path := f.BinPath()
		p.store(path)
		p.cfg.Logger.Debug().Str("path", path).Msg("browser already installed")
		return path, nil
	}

	p.cfg.Logger.Info().
		Int("revision", p.cfg.Revision).
		Str("dir", p.cfg.RootDir).
		Msg("downloading browser")

	if err := p.download(ctx, f); err != nil {
		return "", err
	}

	if err := f.Validate(); err != nil {
		return "", &ProvisioningError{Reason: ReasonVerification, Err: err}
	}

	path := f.BinPath()
	p.store(path)
	p.cfg.Logger.Info().Str("path", path).Msg("browser installed")
	return path, nil
}

// download fetches the browser, retrying once after the configured backoff.
func (p *Provisioner) download(ctx context.Context, f browserFetcher) error {
	err := f.Download()
	if err == nil {
		return nil
	}

	p.cfg.Logger.Warn().Err(err).Dur("backoff", p.cfg.RetryBackoff).Msg("browser download failed, retrying")

	t := time.NewTimer(p.cfg.RetryBackoff)
	select {
	case <-ctx.Done():
		t.Stop()
		return &ProvisioningError{Reason: ReasonNetwork, Err: fmt.Errorf("%v (retry aborted: %v)", err, ctx.Err())}
	case <-t.C:
	}

	if err := f.Download(); err != nil {
		return &ProvisioningError{Reason: downloadReason(err), Err: err}
	}
	return nil
}

// downloadReason separates local filesystem failures from fetch failures.
func downloadReason(err error) ProvisioningReason {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EROFS) {
		return ReasonDisk
	}
	return ReasonNetwork
}

// checkExecutable verifies that path is an existing regular file.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// ensureWritableDir creates dir if needed and probes it with a temp file.
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
