// Package winreg reads and writes HKEY_CURRENT_USER values. Only Windows has
// a real implementation; elsewhere every call fails with ErrUnsupportedPlatform.
package winreg

import "errors"

var (
	ErrUnsupportedPlatform = errors.New("windows registry is not available on this platform")
	ErrNotExist            = errors.New("registry key or value does not exist")
)

// Registry is rooted at HKEY_CURRENT_USER. Paths use backslashes, e.g.
// `Software\Microsoft\Office\16.0\WEF\Developer`. An empty value name
// addresses the key's default value.
type Registry interface {
	GetString(path, name string) (string, error)
	SetString(path, name, value string) error
	DeleteTree(path string) error
}
