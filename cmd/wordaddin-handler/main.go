// Command wordaddin-handler is registered as the handler for wordaddin: URIs.
// Invoked without a documentName it answers a one-shot detection ping on a
// loopback port; with one it runs the add-in setup script elevated.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/wordlink/wordlink/internal/addin"
	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/internal/winreg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{
		cfg:     cfg,
		reg:     winreg.New(),
		runner:  addin.ExecRunner{},
		goos:    runtime.GOOS,
		exePath: exe,
	}
	code := Execute(ctx, a, os.Args[1:])
	stop()
	os.Exit(code)
}
