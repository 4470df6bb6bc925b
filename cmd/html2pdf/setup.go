package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/logging"
)

// prepare loads the config, applies HTML2PDF_* variables and then common
// flags (flags win), and builds the logger. The closer releases the log file.
func prepare(common commonFlags, env *Environment) (*config.Config, zerolog.Logger, io.Closer, error) {
	cfg := config.DefaultConfig()
	if common.config != "" {
		var err error
		cfg, err = config.LoadConfig(common.config)
		if err != nil {
			return nil, zerolog.Nop(), nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := applyCommonFlags(common, cfg); err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	logger, closer, err := logging.New(loggingConfig(common, cfg, env.Stderr))
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	for _, name := range config.UnknownEnvVars(env.Environ()) {
		logger.Warn().Str("var", name).Msg("unknown environment variable ignored")
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug().Msgf(format, args...)
	}))

	return cfg, logger, closer, nil
}

// applyCommonFlags merges flags shared by every command into cfg.
func applyCommonFlags(common commonFlags, cfg *config.Config) error {
	if common.timeout < 0 {
		return fmt.Errorf("%w: --timeout must not be negative, got %s", ErrInvalidFlags, common.timeout)
	}
	if common.timeout > 0 {
		cfg.Timeouts.Load = config.Duration(common.timeout)
		cfg.Timeouts.Print = config.Duration(common.timeout)
	}
	return nil
}

// loggingConfig maps the logging section, letting --verbose and --quiet
// override the level.
func loggingConfig(common commonFlags, cfg *config.Config, out io.Writer) logging.Config {
	lc := logging.Config{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Output:     out,
	}
	switch {
	case common.verbose:
		lc.Level = zerolog.LevelDebugValue
	case common.quiet:
		lc.Level = zerolog.LevelErrorValue
	}
	return lc
}

// buildServices wires the production provisioner and converter.
func buildServices(cfg *config.Config, logger zerolog.Logger) (*services, error) {
	prov := html2pdf.NewProvisioner(provisionerConfig(cfg, logger))

	conv, err := html2pdf.NewConverter(converterOptions(cfg, prov, logger)...)
	if err != nil {
		return nil, fmt.Errorf("creating converter: %w", err)
	}
	return &services{provisioner: prov, converter: conv}, nil
}

// provisionerConfig maps the browser section onto the library config.
func provisionerConfig(cfg *config.Config, logger zerolog.Logger) html2pdf.ProvisionerConfig {
	return html2pdf.ProvisionerConfig{
		Bin:             cfg.Browser.Bin,
		RootDir:         cfg.Browser.RootDir,
		Revision:        cfg.Browser.Revision,
		Hosts:           cfg.Browser.Hosts,
		DownloadTimeout: cfg.Timeouts.Download.Std(),
		RetryBackoff:    cfg.Browser.Retry.Std(),
		Logger:          logger.With().Str("component", "provisioner").Logger(),
	}
}

// converterOptions maps the config onto converter options.
func converterOptions(cfg *config.Config, prov *html2pdf.Provisioner, logger zerolog.Logger) []html2pdf.Option {
	opts := []html2pdf.Option{
		html2pdf.WithLogger(logger.With().Str("component", "converter").Logger()),
		html2pdf.WithProvisioner(prov),
		html2pdf.WithTimeouts(html2pdf.Timeouts{
			Launch: cfg.Timeouts.Launch.Std(),
			Load:   cfg.Timeouts.Load.Std(),
			Print:  cfg.Timeouts.Print.Std(),
		}),
		html2pdf.WithPrintConfig(printConfig(cfg)),
		html2pdf.WithNoSandbox(cfg.Browser.NoSandbox),
		html2pdf.WithLeakless(cfg.Browser.Leakless),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, html2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts
}

// printConfig maps the page and footer sections.
func printConfig(cfg *config.Config) html2pdf.PrintConfig {
	return html2pdf.PrintConfig{
		MarginTop:           cfg.Page.MarginTop,
		MarginRight:         cfg.Page.MarginRight,
		MarginBottom:        cfg.Page.MarginBottom,
		MarginLeft:          cfg.Page.MarginLeft,
		PreferCSSPageSize:   cfg.Page.PreferCSSPageSize,
		PrintBackground:     cfg.Page.PrintBackground,
		DisplayHeaderFooter: cfg.Page.DisplayHeaderFooter,
		Attribution:         cfg.Footer.Attribution,
		Mission:             cfg.Footer.Mission,
	}
}
