package protocol

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wordlink/wordlink/internal/addin"
	"github.com/wordlink/wordlink/pkg/logger"
)

// SetupScript is looked up in a scripts directory next to the executable.
const SetupScript = "Setup-OfficeAddin.ps1"

var (
	ErrScriptNotFound = errors.New("setup script not found")
	ErrUnsafeArgument = errors.New("argument contains a double quote or control character")
)

// ScriptPath returns <exeDir>/scripts/Setup-OfficeAddin.ps1.
func ScriptPath(exeDir string) string {
	return filepath.Join(exeDir, "scripts", SetupScript)
}

// Setup runs the document setup script elevated.
type Setup struct {
	script string
	goos   string
	runner addin.Runner
}

func NewSetup(script, goos string, runner addin.Runner) *Setup {
	return &Setup{script: script, goos: goos, runner: runner}
}

func (s *Setup) Run(ctx context.Context, req *Request) error {
	logger.Infof("Document setup requested")
	logger.Infof("Script Path: %s", s.script)
	if fi, err := os.Stat(s.script); err != nil || fi.IsDir() {
		return fmt.Errorf("%w at: %s", ErrScriptNotFound, s.script)
	}

	psArgs := []string{"-documentName", req.DocumentName}
	if req.DocumentURL != "" {
		psArgs = append(psArgs, "-documentUrl", req.DocumentURL)
	}
	for _, a := range psArgs {
		if !safeArg(a) {
			return fmt.Errorf("%w: %q", ErrUnsafeArgument, a)
		}
	}

	name, args, err := elevateCommand(s.goos, s.script, psArgs)
	if err != nil {
		return err
	}
	logger.Infof("Command: %s %s", name, strings.Join(args, " "))
	logger.Infof("Requesting elevation...")

	out, err := s.runner.Run(ctx, name, args...)
	if text := strings.TrimSpace(string(out)); text != "" {
		logger.Infof("OUTPUT: %s", text)
	}
	if err != nil {
		return fmt.Errorf("run setup script: %w", err)
	}
	logger.Infof("Script completed")
	return nil
}

func safeArg(s string) bool {
	for _, r := range s {
		if r == '"' || r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
