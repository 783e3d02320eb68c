// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/hpe-storage/vsphere-san-datastore/internal/cli"
	pkglog "github.com/hpe-storage/vsphere-san-datastore/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := newRootCommand()
	if err := command.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "vsphere-san-datastore [flags] [options]",
		Short: "Manage SAN-backed VMFS datastores on ESXi hosts.",
		// Failures are reported as machine-readable JSON by the
		// subcommands; keep cobra quiet.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := pkglog.New(logLevel)
			if err != nil {
				return err
			}
			pkglog.SetDefault(logger)
			cmd.SetContext(logr.NewContext(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log verbosity: debug, info, warn, or error.")

	cmd.AddCommand(cli.NewCmdReconcile())
	cmd.AddCommand(cli.NewCmdFacts())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
