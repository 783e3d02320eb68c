// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/datastore"
	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

type FactsOptions struct {
	GlobalOptions

	DatastoreName string
	EsxiHostname  string
}

func DefaultFactsOptions() *FactsOptions {
	return &FactsOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdFacts() *cobra.Command {
	o := DefaultFactsOptions()
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Gather facts about SAN-backed VMFS datastores.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.DatastoreName, "datastore-name", o.DatastoreName,
		"Limit facts to the named datastore.")
	fs.StringVar(&o.EsxiHostname, "esxi-hostname", o.EsxiHostname,
		"Limit facts to datastores mounted on this host.")

	return cmd
}

// factsOutput is the read-only result shape; Changed is always false.
type factsOutput struct {
	Changed    bool             `json:"changed"`
	Datastores []datastore.Fact `json:"datastores"`
}

func (o *FactsOptions) Run(ctx context.Context) error {
	vc, err := o.Connect(ctx)
	if err != nil {
		return reportFailure(err)
	}
	defer vc.Logout(ctx)

	facts, err := datastore.GatherFacts(ctx,
		inventory.NewVim(vc.VimClient(), vc.Finder()),
		o.DatastoreName, o.EsxiHostname)
	if err != nil {
		return reportFailure(err)
	}

	return printJSON(factsOutput{Changed: false, Datastores: facts})
}
