package protocol

import (
	"errors"
	"fmt"

	"github.com/wordlink/wordlink/internal/winreg"
)

func classesKey(scheme string) string {
	return `Software\Classes\` + scheme
}

// Register associates scheme with exePath for the current user, so that
// opening scheme:... runs `"exePath" "<uri>"`.
func Register(reg winreg.Registry, scheme, exePath string) error {
	key := classesKey(scheme)
	if err := reg.SetString(key, "", "URL:"+scheme+" Protocol"); err != nil {
		return fmt.Errorf("register %s: %w", scheme, err)
	}
	if err := reg.SetString(key, "URL Protocol", ""); err != nil {
		return fmt.Errorf("register %s: %w", scheme, err)
	}
	if err := reg.SetString(key+`\shell\open\command`, "", fmt.Sprintf(`"%s" "%%1"`, exePath)); err != nil {
		return fmt.Errorf("register %s: %w", scheme, err)
	}
	return nil
}

// Unregister removes the association. A missing key is not an error.
func Unregister(reg winreg.Registry, scheme string) error {
	if err := reg.DeleteTree(classesKey(scheme)); err != nil && !errors.Is(err, winreg.ErrNotExist) {
		return fmt.Errorf("unregister %s: %w", scheme, err)
	}
	return nil
}

// Registered returns the command line registered for scheme.
func Registered(reg winreg.Registry, scheme string) (string, error) {
	return reg.GetString(classesKey(scheme)+`\shell\open\command`, "")
}
