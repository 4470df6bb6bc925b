package html2pdf

import (
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// LaunchFlag is one Chromium command-line switch applied to every render
// process.
type LaunchFlag struct {
	Name   flags.Flag
	Values []string
	// Rationale is shown by "html2pdf provision --flags".
	Rationale string
	// RequiresNoSandbox marks switches that are only valid, or only safe,
	// when the sandbox is disabled.
	RequiresNoSandbox bool
}

// LaunchFlags trims Chromium down to a single-document print engine.
// Features are merged into one disable-features switch since Chromium only
// honors the last occurrence.
var LaunchFlags = []LaunchFlag{
	{Name: "disable-features", Values: []string{"site-per-process", "TranslateUI", "IsolateOrigins", "AudioServiceOutOfProcess"}, Rationale: "one process tree per document, no translate bar or audio service"},
	{Name: "disable-site-isolation-trials", Rationale: "keep all frames in the render process"},
	{Name: "autoplay-policy", Values: []string{"user-gesture-required"}, Rationale: "never start media while printing"},
	{Name: "disable-background-networking", Rationale: "no update or telemetry traffic"},
	{Name: "disable-background-timer-throttling", Rationale: "timers run at full speed in a hidden page"},
	{Name: "disable-backgrounding-occluded-windows", Rationale: "headless windows count as visible"},
	{Name: "disable-breakpad", Rationale: "no crash reporter"},
	{Name: "disable-client-side-phishing-detection", Rationale: "no safe-browsing model download"},
	{Name: "disable-component-update", Rationale: "no component downloads"},
	{Name: "disable-default-apps", Rationale: "no bundled apps"},
	{Name: "disable-dev-shm-usage", Rationale: "containers ship a tiny /dev/shm"},
	{Name: "disable-domain-reliability", Rationale: "no reliability beacons"},
	{Name: "disable-extensions", Rationale: "no extension host"},
	{Name: "disable-hang-monitor", Rationale: "long layouts are not hangs"},
	{Name: "disable-ipc-flooding-protection", Rationale: "large documents send bursts of IPC"},
	{Name: "disable-notifications", Rationale: "no permission prompts"},
	{Name: "disable-offer-store-unmasked-wallet-cards", Rationale: "no payment UI"},
	{Name: "disable-popup-blocking", Rationale: "scripts cannot stall on a blocked popup"},
	{Name: "disable-print-preview", Rationale: "printing goes through DevTools only"},
	{Name: "disable-prompt-on-repost", Rationale: "no modal dialogs"},
	{Name: "disable-renderer-backgrounding", Rationale: "renderer keeps foreground priority"},
	{Name: "disable-speech-api", Rationale: "no speech service"},
	{Name: "disable-sync", Rationale: "no account sync"},
	{Name: "hide-scrollbars", Rationale: "scrollbars never reach the page"},
	{Name: "ignore-gpu-blocklist", Rationale: "software GL on every host"},
	{Name: "metrics-recording-only", Rationale: "metrics never uploaded"},
	{Name: "mute-audio", Rationale: "no audio device"},
	{Name: "no-default-browser-check", Rationale: "no first-run prompts"},
	{Name: "no-first-run", Rationale: "no first-run prompts"},
	{Name: "no-pings", Rationale: "no hyperlink auditing"},
	{Name: "password-store", Values: []string{"basic"}, Rationale: "no keyring access"},
	{Name: "use-gl", Values: []string{"angle"}, Rationale: "software rendering via ANGLE"},
	{Name: "use-angle", Values: []string{"swiftshader"}, Rationale: "software rendering via ANGLE"},
	{Name: "use-mock-keychain", Rationale: "no keychain access on macOS"},
	{Name: "disable-setuid-sandbox", Rationale: "setuid helper is absent in containers", RequiresNoSandbox: true},
	{Name: "no-zygote", Rationale: "zygote needs the sandbox", RequiresNoSandbox: true},
}

// applyLaunchFlags sets every entry of LaunchFlags on l. Entries marked
// RequiresNoSandbox are skipped unless noSandbox is set.
func applyLaunchFlags(l *launcher.Launcher, noSandbox bool) *launcher.Launcher {
	for _, f := range LaunchFlags {
		if f.RequiresNoSandbox && !noSandbox {
			continue
		}
		l = l.Set(f.Name, f.Values...)
	}
	return l.NoSandbox(noSandbox)
}
