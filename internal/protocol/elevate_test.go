package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElevateCommand(t *testing.T) {
	args := []string{"-documentName", "report.docx", "-documentUrl", "http://x/it's.docx"}

	name, argv, err := elevateCommand("windows", `C:\h\scripts\Setup-OfficeAddin.ps1`, args)
	require.NoError(t, err)
	require.Equal(t, "powershell", name)
	cmd := argv[len(argv)-1]
	require.Contains(t, cmd, "Start-Process powershell -Verb RunAs -Wait")
	require.Contains(t, cmd, `-File "C:\h\scripts\Setup-OfficeAddin.ps1" -documentName "report.docx"`)
	require.Contains(t, cmd, `"http://x/it''s.docx"`)

	name, argv, err = elevateCommand("linux", "/opt/h/scripts/Setup-OfficeAddin.ps1", args)
	require.NoError(t, err)
	require.Equal(t, "pkexec", name)
	require.Equal(t, "pwsh", argv[0])
	require.Equal(t, args, argv[len(argv)-4:])

	name, argv, err = elevateCommand("darwin", "/Applications/h/scripts/Setup-OfficeAddin.ps1", args)
	require.NoError(t, err)
	require.Equal(t, "osascript", name)
	require.Equal(t, "-e", argv[0])
	require.True(t, strings.HasSuffix(argv[1], "with administrator privileges"))
	require.Contains(t, argv[1], `'http://x/it'\\''s.docx'`)

	_, _, err = elevateCommand("plan9", "x", nil)
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}
