//go:build !windows

package winreg

type unsupported struct{}

// New returns a registry whose calls all fail with ErrUnsupportedPlatform.
func New() Registry { return unsupported{} }

func (unsupported) GetString(path, name string) (string, error) {
	return "", ErrUnsupportedPlatform
}

func (unsupported) SetString(path, name, value string) error {
	return ErrUnsupportedPlatform
}

func (unsupported) DeleteTree(path string) error {
	return ErrUnsupportedPlatform
}
