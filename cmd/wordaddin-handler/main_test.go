package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/internal/protocol"
	"github.com/wordlink/wordlink/internal/winreg"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls++
	return nil, f.err
}

func newTestApp(t *testing.T) (*app, *fakeRunner, *winreg.Memory) {
	t.Helper()
	dir := t.TempDir()
	r := &fakeRunner{}
	reg := winreg.NewMemory()
	return &app{
		cfg: &config.Config{Handler: config.HandlerConfig{
			Scheme:        "wordaddin",
			Port:          0,
			Timeout:       50 * time.Millisecond,
			ShutdownGrace: 50 * time.Millisecond,
			LogFile:       filepath.Join(dir, "wordaddin-log.txt"),
		}},
		reg:     reg,
		runner:  r,
		goos:    "linux",
		exePath: filepath.Join(dir, "wordaddin-handler"),
	}, r, reg
}

func TestExecute_InvalidScheme(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.Equal(t, 1, Execute(context.Background(), a, []string{"http://ping"}))

	b, err := os.ReadFile(a.cfg.Handler.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(b), "Handler started at")
	require.Contains(t, string(b), "invalid protocol scheme")
}

func TestExecute_RejectsNonPositiveTimeout(t *testing.T) {
	a, r, _ := newTestApp(t)
	require.Equal(t, 1, Execute(context.Background(), a, []string{"--timeout", "0s", "wordaddin://ping"}))
	require.Equal(t, 50*time.Millisecond, a.cfg.Handler.Timeout)
	require.Zero(t, r.calls)
}

func TestExecute_DetectionTimesOut(t *testing.T) {
	a, r, _ := newTestApp(t)
	require.Equal(t, 0, Execute(context.Background(), a, []string{"wordaddin://ping"}))
	require.Zero(t, r.calls)

	b, err := os.ReadFile(a.cfg.Handler.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(b), "Document Name: NOT PROVIDED")
	require.Contains(t, string(b), "Timeout reached")
}

func TestExecute_SetupMissingScript(t *testing.T) {
	a, r, _ := newTestApp(t)
	require.Equal(t, 1, Execute(context.Background(), a, []string{"wordaddin://open?documentName=a.docx"}))
	require.Zero(t, r.calls)
}

func TestExecute_SetupRunsScript(t *testing.T) {
	a, r, _ := newTestApp(t)
	script := protocol.ScriptPath(filepath.Dir(a.exePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0o755))
	require.NoError(t, os.WriteFile(script, []byte("param($documentName)"), 0o644))

	require.Equal(t, 0, Execute(context.Background(), a, []string{"wordaddin://open?documentName=a.docx&documentUrl=http%3A%2F%2Fh%2Fa.docx"}))
	require.Equal(t, 1, r.calls)
}

func TestExecute_RegisterUnregister(t *testing.T) {
	a, _, reg := newTestApp(t)
	require.Equal(t, 0, Execute(context.Background(), a, []string{"register"}))
	cmd, err := protocol.Registered(reg, "wordaddin")
	require.NoError(t, err)
	require.Contains(t, cmd, a.exePath)

	require.Equal(t, 0, Execute(context.Background(), a, []string{"unregister"}))
	_, err = protocol.Registered(reg, "wordaddin")
	require.ErrorIs(t, err, winreg.ErrNotExist)
}
