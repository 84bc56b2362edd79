package addin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/internal/winreg"
	"github.com/wordlink/wordlink/pkg/logger"
	"github.com/wordlink/wordlink/pkg/metrics"
)

const (
	// DeveloperKey holds the sideloaded manifest registration for Office 16.
	DeveloperKey  = `Software\Microsoft\Office\16.0\WEF\Developer`
	ManifestValue = "UserDevManifests"
)

var ErrManifestNotFound = errors.New("manifest file not found")

const (
	needsInstallMessage = "Add-in needs to be installed. Would you like to install it now?"
	installFailed       = "Installation failed. Please check administrator privileges."
	installInstructions = "Add-in installed successfully. Please:\n" +
		"1. Ensure dev server is running (npm start)\n" +
		"2. Close all Word instances\n" +
		"3. Clear these caches:\n" +
		"   - %LOCALAPPDATA%\\Microsoft\\Office\\16.0\\Wef\n" +
		"   - Internet Explorer cache\n" +
		"4. Start Word\n" +
		"5. Check Insert > My Add-ins\n" +
		"6. If issues persist:\n" +
		"   - Check manifest.xml is valid\n" +
		"   - Verify localhost:3000 is accessible\n" +
		"   - Run as administrator"
)

type CheckResult struct {
	Installed         bool   `json:"installed"`
	NeedsInstallation bool   `json:"needsInstallation,omitempty"`
	Message           string `json:"message,omitempty"`
}

type InstallResult struct {
	Installed     bool   `json:"installed"`
	JustInstalled bool   `json:"justInstalled,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	Details       string `json:"details,omitempty"`
	ManifestPath  string `json:"manifestPath"`
}

type VerifyResult struct {
	Installed bool   `json:"installed"`
	Details   string `json:"details"`
}

// Installer checks for Word and the sideloaded add-in and installs the
// add-in by running an elevated PowerShell script.
type Installer struct {
	name         string
	manifestPath string
	wordPaths    []string
	reg          winreg.Registry
	runner       Runner
	tempDir      string
}

func NewInstaller(cfg config.AddinConfig, reg winreg.Registry, runner Runner) *Installer {
	manifest := cfg.ManifestPath
	if abs, err := filepath.Abs(manifest); err == nil {
		manifest = abs
	}
	return &Installer{
		name:         cfg.Name,
		manifestPath: manifest,
		wordPaths:    cfg.WordPaths,
		reg:          reg,
		runner:       runner,
		tempDir:      os.TempDir(),
	}
}

// ManifestPath is the absolute manifest location.
func (i *Installer) ManifestPath() string { return i.manifestPath }

// WordInstalled reports whether any configured WINWORD.EXE exists.
func (i *Installer) WordInstalled() bool {
	for _, p := range i.wordPaths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return true
		}
	}
	return false
}

// CheckAddin looks for the developer manifest registration. Any failure,
// including running on a platform without a registry, counts as not installed.
func (i *Installer) CheckAddin(ctx context.Context) CheckResult {
	if _, err := i.reg.GetString(DeveloperKey, ManifestValue); err != nil {
		logger.Infof("add-in not installed: %v", err)
		return CheckResult{Installed: false, NeedsInstallation: true, Message: needsInstallMessage}
	}
	logger.Infof("add-in is already installed")
	return CheckResult{Installed: true}
}

// Install runs the install script elevated. Failures are reported in the
// result rather than as an error.
func (i *Installer) Install(ctx context.Context) InstallResult {
	logger.Infof("starting add-in installation (manifest %s)", i.manifestPath)
	if err := i.install(ctx); err != nil {
		logger.Errorf("add-in installation failed: %v", err)
		metrics.AddinInstalls.WithLabelValues("failure").Inc()
		details := err.Error()
		if errors.Is(err, ErrManifestNotFound) {
			details = "Manifest file not found: " + i.manifestPath
		}
		return InstallResult{
			Installed:    false,
			Error:        installFailed,
			Details:      details,
			ManifestPath: i.manifestPath,
		}
	}
	logger.Infof("add-in installation completed")
	metrics.AddinInstalls.WithLabelValues("success").Inc()
	return InstallResult{
		Installed:     true,
		JustInstalled: true,
		Message:       installInstructions,
		ManifestPath:  i.manifestPath,
	}
}

func (i *Installer) install(ctx context.Context) error {
	if _, err := os.Stat(i.manifestPath); err != nil {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, i.manifestPath)
	}
	script, err := RenderInstallScript(i.manifestPath, i.name)
	if err != nil {
		return fmt.Errorf("render install script: %w", err)
	}

	f, err := os.CreateTemp(i.tempDir, "install-addin-*.ps1")
	if err != nil {
		return fmt.Errorf("create script file: %w", err)
	}
	scriptPath := f.Name()
	defer os.Remove(scriptPath)
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return fmt.Errorf("write script file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write script file: %w", err)
	}

	out, err := i.runner.Run(ctx, "powershell", elevatedArgs(scriptPath)...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	logger.Infof("installation output: %s", strings.TrimSpace(string(out)))
	return nil
}

// elevatedArgs starts a second, elevated PowerShell on the script and
// propagates its exit code.
func elevatedArgs(scriptPath string) []string {
	inner := fmt.Sprintf(`-ExecutionPolicy Bypass -NoProfile -File "%s"`, scriptPath)
	cmd := fmt.Sprintf("$p = Start-Process powershell -Verb RunAs -Wait -PassThru -ArgumentList %s; exit $p.ExitCode", QuotePS(inner))
	return []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", cmd}
}

// Verify runs the verification script; exit status 0 means installed.
func (i *Installer) Verify(ctx context.Context) VerifyResult {
	out, err := i.runner.Run(ctx, "powershell", "-NoProfile", "-Command", verifyScript)
	return VerifyResult{Installed: err == nil, Details: strings.TrimSpace(string(out))}
}
