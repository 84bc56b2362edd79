//go:build !windows

package winreg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Unsupported(t *testing.T) {
	r := New()
	_, err := r.GetString(`Software`, "x")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
	require.ErrorIs(t, r.SetString(`Software`, "x", "y"), ErrUnsupportedPlatform)
	require.ErrorIs(t, r.DeleteTree(`Software`), ErrUnsupportedPlatform)
}
