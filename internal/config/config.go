package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-html2pdf/internal/assets"
	"github.com/alnah/go-html2pdf/internal/fileutil"
	"github.com/alnah/go-html2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// MaxInputSize limits config files to prevent memory exhaustion (1MB).
const MaxInputSize = yamlutil.MaxInputSize

// Field length limits for footer business content.
const (
	MaxAttributionLength = 500
	MaxMissionLength     = 200
	MaxPathLength        = 4096
	MaxLengthLiteral     = 16 // "12.5mm"
)

// appDirName is the directory under os.UserConfigDir searched for named configs.
const appDirName = "go-html2pdf"

// Config holds all configuration for the converter and the binary.
type Config struct {
	Browser  BrowserConfig  `yaml:"browser"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Page     PageConfig     `yaml:"page"`
	Footer   FooterConfig   `yaml:"footer"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

// BrowserConfig controls provisioning and launch of Chromium.
type BrowserConfig struct {
	Bin       string   `yaml:"bin"`       // Pre-installed executable; empty = provision
	RootDir   string   `yaml:"rootDir"`   // Download root; empty = rod cache dir
	Revision  int      `yaml:"revision"`  // Pinned Chromium revision; 0 = rod default
	Hosts     []string `yaml:"hosts"`     // Download mirrors, "%d" is replaced by the revision
	NoSandbox bool     `yaml:"noSandbox"` // Required in most containers
	Leakless  bool     `yaml:"leakless"`  // Guard process that kills Chromium if we crash
	Retry     Duration `yaml:"retryBackoff"`
}

// TimeoutsConfig bounds every blocking step of a conversion.
type TimeoutsConfig struct {
	Download Duration `yaml:"download"`
	Launch   Duration `yaml:"launch"`
	Load     Duration `yaml:"load"`
	Print    Duration `yaml:"print"`
}

// PageConfig defines print options. Lengths accept in, cm, mm, px units.
type PageConfig struct {
	MarginTop           string `yaml:"marginTop"`
	MarginRight         string `yaml:"marginRight"`
	MarginBottom        string `yaml:"marginBottom"`
	MarginLeft          string `yaml:"marginLeft"`
	PreferCSSPageSize   bool   `yaml:"preferCSSPageSize"`
	PrintBackground     bool   `yaml:"printBackground"`
	DisplayHeaderFooter bool   `yaml:"displayHeaderFooter"`
}

// FooterConfig holds the fixed business text printed on every page.
type FooterConfig struct {
	Attribution string `yaml:"attribution"`
	Mission     string `yaml:"mission"`
}

// AssetsConfig defines template and image overrides.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LoggingConfig defines log level and rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Pretty     bool   `yaml:"pretty"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// ServerConfig defines the HTTP trigger.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	Workers      int    `yaml:"workers"`      // 0 = auto from GOMAXPROCS
	MaxBodyBytes int    `yaml:"maxBodyBytes"` // Request body limit
}

// Default values.
const (
	DefaultDownloadTimeout = 5 * time.Minute
	DefaultLaunchTimeout   = 30 * time.Second
	DefaultLoadTimeout     = 30 * time.Second
	DefaultPrintTimeout    = 60 * time.Second
	DefaultRetryBackoff    = 2 * time.Second
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 10 << 20
)

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Leakless: true,
			Retry:    Duration(DefaultRetryBackoff),
		},
		Timeouts: TimeoutsConfig{
			Download: Duration(DefaultDownloadTimeout),
			Launch:   Duration(DefaultLaunchTimeout),
			Load:     Duration(DefaultLoadTimeout),
			Print:    Duration(DefaultPrintTimeout),
		},
		Page: PageConfig{
			MarginTop:           "1cm",
			MarginRight:         "0cm",
			MarginBottom:        "2cm",
			MarginLeft:          "0cm",
			PreferCSSPageSize:   true,
			PrintBackground:     true,
			DisplayHeaderFooter: true,
		},
		Footer: FooterConfig{
			Attribution: assets.DefaultAttribution,
			Mission:     assets.DefaultMission,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Validate checks field values. Called by LoadConfig, but available for
// callers who construct Config manually.
func (c *Config) Validate() error {
	if c.Browser.Revision < 0 {
		return fmt.Errorf("%w: browser.revision: must be >= 0, got %d", ErrInvalidConfig, c.Browser.Revision)
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.rootDir", c.Browser.RootDir, MaxPathLength); err != nil {
		return err
	}
	for i, h := range c.Browser.Hosts {
		if !fileutil.IsURL(h) {
			return fmt.Errorf("%w: browser.hosts[%d]: must be an http(s) URL, got %q", ErrInvalidConfig, i, h)
		}
	}
	if c.Browser.Retry < 0 {
		return fmt.Errorf("%w: browser.retryBackoff: must be >= 0", ErrInvalidConfig)
	}

	timeouts := []struct {
		name  string
		value Duration
	}{
		{"timeouts.download", c.Timeouts.Download},
		{"timeouts.launch", c.Timeouts.Launch},
		{"timeouts.load", c.Timeouts.Load},
		{"timeouts.print", c.Timeouts.Print},
	}
	for _, tt := range timeouts {
		if tt.value <= 0 {
			return fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidConfig, tt.name, tt.value)
		}
	}

	margins := []struct {
		name  string
		value string
	}{
		{"page.marginTop", c.Page.MarginTop},
		{"page.marginRight", c.Page.MarginRight},
		{"page.marginBottom", c.Page.MarginBottom},
		{"page.marginLeft", c.Page.MarginLeft},
	}
	for _, m := range margins {
		if err := validateFieldLength(m.name, m.value, MaxLengthLiteral); err != nil {
			return err
		}
	}

	if err := validateFieldLength("footer.attribution", c.Footer.Attribution, MaxAttributionLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.mission", c.Footer.Mission, MaxMissionLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if c.Server.Workers < 0 {
		return fmt.Errorf("%w: server.workers: must be >= 0, got %d", ErrInvalidConfig, c.Server.Workers)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes: must be >= 0, got %d", ErrInvalidConfig, c.Server.MaxBodyBytes)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, layered
// over DefaultConfig. If nameOrPath contains a path separator it is a file
// path; otherwise it is searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, user config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
