package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvBrowserBin = "HTML2PDF_BROWSER_BIN"
	EnvNoSandbox  = "HTML2PDF_NO_SANDBOX"
	EnvTimeout    = "HTML2PDF_TIMEOUT"
	EnvLogLevel   = "HTML2PDF_LOG_LEVEL"
	EnvWorkers    = "HTML2PDF_WORKERS"
	EnvAddr       = "HTML2PDF_ADDR"
	EnvAssetPath  = "HTML2PDF_ASSET_PATH"
)

// knownEnvVars lists valid HTML2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	EnvBrowserBin: true,
	EnvNoSandbox:  true,
	EnvTimeout:    true,
	EnvLogLevel:   true,
	EnvWorkers:    true,
	EnvAddr:       true,
	EnvAssetPath:  true,
}

// ApplyEnv overrides c with HTML2PDF_* environment values read through
// getenv (os.Getenv in production). HTML2PDF_TIMEOUT sets both the load and
// print timeouts. The result is validated.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(EnvBrowserBin); v != "" {
		c.Browser.Bin = v
	}
	if v := getenv(EnvNoSandbox); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidConfig, EnvNoSandbox, v)
		}
		c.Browser.NoSandbox = b
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		c.Timeouts.Load = Duration(d)
		c.Timeouts.Print = Duration(d)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Server.Workers = n
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvAssetPath); v != "" {
		c.Assets.BasePath = v
	}

	return c.Validate()
}

// UnknownEnvVars returns HTML2PDF_* names in environ that ApplyEnv ignores.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "HTML2PDF_") && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
