package html2pdf

import (
	"github.com/rs/zerolog"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeouts  Timeouts
	print     PrintConfig
	loader    AssetLoader
	assetPath string
	noSandbox bool
	leakless  bool
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithProvisioner shares a Provisioner, and its cached browser path,
// between converters.
func WithProvisioner(p *Provisioner) Option {
	return func(c *Converter) {
		if p != nil {
			c.provisioner = p
		}
	}
}

// WithTimeouts sets the stage timeouts. Zero fields keep their defaults.
// Panics if any field is negative (programmer error, similar to time.NewTicker).
func WithTimeouts(t Timeouts) Option {
	if t.Launch < 0 || t.Load < 0 || t.Print < 0 {
		panic("html2pdf: WithTimeouts durations must not be negative")
	}
	return func(c *Converter) {
		c.cfg.timeouts = t.withDefaults()
	}
}

// WithPrintConfig replaces the page layout and footer text.
func WithPrintConfig(pc PrintConfig) Option {
	return func(c *Converter) {
		c.cfg.print = pc
	}
}

// WithAssetLoader sets a custom source for the header, footer and logo.
// Takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.cfg.loader = loader
	}
}

// WithAssetPath overrides embedded assets file by file from a directory
// laid out as templates/{header,footer}.html and images/footer-logo.jpg.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithNoSandbox disables the Chromium sandbox. Required when running as
// root or in most containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = noSandbox
	}
}

// WithLeakless toggles rod's guard process, which kills Chromium if this
// process dies without cleaning up. Enabled by default.
func WithLeakless(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.leakless = enabled
	}
}
