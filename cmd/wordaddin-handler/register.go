package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wordlink/wordlink/internal/protocol"
	"github.com/wordlink/wordlink/pkg/logger"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register this executable as the " + a.cfg.Handler.Scheme + ": handler for the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := protocol.Register(a.reg, a.cfg.Handler.Scheme, a.exePath); err != nil {
				logger.Errorf("register: %v", err)
				return fail(err)
			}
			logger.Infof("Registered %s: -> %s", a.cfg.Handler.Scheme, a.exePath)
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s: handler %s\n", a.cfg.Handler.Scheme, a.exePath)
			return nil
		},
	}
}

func newUnregisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Remove the " + a.cfg.Handler.Scheme + ": handler registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := protocol.Unregister(a.reg, a.cfg.Handler.Scheme); err != nil {
				logger.Errorf("unregister: %v", err)
				return fail(err)
			}
			logger.Infof("Unregistered %s:", a.cfg.Handler.Scheme)
			fmt.Fprintf(cmd.OutOrStdout(), "unregistered %s: handler\n", a.cfg.Handler.Scheme)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the handler version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wordaddin-handler v%s\n", protocol.Version)
		},
	}
}
