package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wordlink/wordlink/internal/addin"
)

var ErrUnsupportedPlatform = errors.New("elevation is not supported on this platform")

// elevateCommand builds the command that runs a PowerShell script with
// administrator rights on goos. psArgs follow the -File argument.
func elevateCommand(goos, script string, psArgs []string) (string, []string, error) {
	switch goos {
	case "windows":
		inner := []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-File", `"` + script + `"`}
		for _, a := range psArgs {
			if strings.HasPrefix(a, "-") {
				inner = append(inner, a)
			} else {
				inner = append(inner, `"`+a+`"`)
			}
		}
		cmd := fmt.Sprintf("$p = Start-Process powershell -Verb RunAs -Wait -PassThru -ArgumentList %s; exit $p.ExitCode",
			addin.QuotePS(strings.Join(inner, " ")))
		return "powershell", []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", cmd}, nil
	case "linux":
		args := append([]string{"pwsh", "-ExecutionPolicy", "Bypass", "-NoProfile", "-File", script}, psArgs...)
		return "pkexec", args, nil
	case "darwin":
		words := []string{"pwsh", "-ExecutionPolicy", "Bypass", "-NoProfile", "-File", shellQuote(script)}
		for _, a := range psArgs {
			words = append(words, shellQuote(a))
		}
		as := fmt.Sprintf("do shell script %s with administrator privileges", appleScriptString(strings.Join(words, " ")))
		return "osascript", []string{"-e", as}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// shellQuote renders s as a single-quoted POSIX shell word.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
