// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/buildinfo"
)

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("vsphere-san-datastore %s", buildinfo.BuildVersion)
			if buildinfo.BuildCommit != "" {
				fmt.Printf(" (%s)", buildinfo.BuildCommit)
			}
			fmt.Println()
			return nil
		},
	}
}
