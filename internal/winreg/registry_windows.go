//go:build windows

package winreg

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

type currentUser struct{}

// New returns the HKEY_CURRENT_USER registry.
func New() Registry { return currentUser{} }

func (currentUser) GetString(path, name string) (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
	if err != nil {
		return "", mapErr(err)
	}
	defer k.Close()
	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", mapErr(err)
	}
	return v, nil
}

func (currentUser) SetString(path, name, value string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create key %s: %w", path, err)
	}
	defer k.Close()
	return k.SetStringValue(name, value)
}

// DeleteTree removes path and all of its subkeys.
func (r currentUser) DeleteTree(path string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return mapErr(err)
	}
	children, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := r.DeleteTree(path + `\` + c); err != nil && !errors.Is(err, ErrNotExist) {
			return err
		}
	}
	return mapErr(registry.DeleteKey(registry.CURRENT_USER, path))
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, registry.ErrNotExist) {
		return ErrNotExist
	}
	return err
}
