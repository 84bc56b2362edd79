package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/wordlink/wordlink/internal/addin"
	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/internal/protocol"
	"github.com/wordlink/wordlink/internal/winreg"
	"github.com/wordlink/wordlink/pkg/logger"
)

type app struct {
	cfg     *config.Config
	reg     winreg.Registry
	runner  addin.Runner
	goos    string
	exePath string
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(err error) error { return &exitError{code: 1, err: err} }

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	_ = logger.Sync()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	var logFile string
	var port int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:           "wordaddin-handler <uri>",
		Short:         "Handle " + a.cfg.Handler.Scheme + ": protocol invocations",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-file") {
				a.cfg.Handler.LogFile = logFile
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Handler.Port = port
			}
			if cmd.Flags().Changed("timeout") {
				if timeout <= 0 {
					return fail(fmt.Errorf("--timeout must be positive, got %s", timeout))
				}
				a.cfg.Handler.Timeout = timeout
			}
			if err := logger.InitFile("info", a.cfg.Handler.LogFile); err != nil {
				fmt.Fprintf(os.Stderr, "log file unavailable, logging to stdout only: %v\n", err)
			}
			logger.Infof("Handler started at %s", time.Now().Format(time.RFC1123Z))
			logger.Infof("Arguments: %q", os.Args)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.handle(cmd.Context(), args[0])
		},
	}
	cmd.PersistentFlags().StringVar(&logFile, "log-file", a.cfg.Handler.LogFile, "append log output to this file")
	cmd.Flags().IntVar(&port, "port", a.cfg.Handler.Port, "loopback port for the detection server")
	cmd.Flags().DurationVar(&timeout, "timeout", a.cfg.Handler.Timeout, "maximum lifetime of the detection server")

	cmd.AddCommand(newRegisterCmd(a), newUnregisterCmd(a), newVersionCmd())
	return cmd
}

func (a *app) handle(ctx context.Context, raw string) error {
	logger.Infof("Parsing URI: %s", raw)
	req, err := protocol.ParseURI(raw, a.cfg.Handler.Scheme)
	if err != nil {
		logger.Errorf("ERROR: %v", err)
		return fail(err)
	}
	logger.Infof("Action: %s, Pathname: %s", req.Action, req.Path)
	logger.Infof("Document Name: %s", orNotProvided(req.DocumentName))
	logger.Infof("Document URL: %s", orNotProvided(req.DocumentURL))

	if !req.SetupRequested() {
		return a.detect(ctx)
	}
	return a.setup(ctx, req)
}

func (a *app) detect(ctx context.Context) error {
	logger.Infof("No document name - Starting HTTP server for detection")
	gin.SetMode(gin.ReleaseMode)
	d := protocol.NewDetector(a.cfg.Handler.Port, a.cfg.Handler.Timeout, a.cfg.Handler.ShutdownGrace)
	err := d.Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, protocol.ErrAlreadyRunning):
		logger.Infof("Port %d in use - another instance running", a.cfg.Handler.Port)
		return nil
	default:
		logger.Errorf("Server error: %v", err)
		return fail(err)
	}
}

func (a *app) setup(ctx context.Context, req *protocol.Request) error {
	script := protocol.ScriptPath(filepath.Dir(a.exePath))
	s := protocol.NewSetup(script, a.goos, a.runner)
	err := s.Run(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, protocol.ErrScriptNotFound),
		errors.Is(err, protocol.ErrUnsafeArgument),
		errors.Is(err, protocol.ErrUnsupportedPlatform):
		logger.Errorf("ERROR: %v", err)
		return fail(err)
	default:
		// the user may have declined elevation; nothing left to do
		logger.Errorf("ERROR: %v", err)
		return nil
	}
}

func orNotProvided(s string) string {
	if s == "" {
		return "NOT PROVIDED"
	}
	return s
}
