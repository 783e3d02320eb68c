// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/datastore"
	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

type ReconcileOptions struct {
	GlobalOptions

	DatastoreName       string
	EsxiHostname        string
	VolumeDeviceName    string
	DatastoreCluster    string
	State               string
	SiblingRescanPolicy string
	DryRun              bool
}

func DefaultReconcileOptions() *ReconcileOptions {
	return &ReconcileOptions{
		GlobalOptions: DefaultGlobalOptions(),
		State:         "present",
	}
}

func NewCmdReconcile() *cobra.Command {
	o := DefaultReconcileOptions()
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a SAN-backed VMFS datastore on an ESXi host.",
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
		"Name of the datastore to add or remove.")
	fs.StringVar(&o.EsxiHostname, "esxi-hostname", o.EsxiHostname,
		"ESXi host to manage the datastore on.")
	fs.StringVar(&o.VolumeDeviceName, "volume-device-name", o.VolumeDeviceName,
		"NAA device identifier of the SAN volume backing the datastore (case-insensitive).")
	fs.StringVar(&o.DatastoreCluster, "datastore-cluster-name", o.DatastoreCluster,
		"Datastore cluster to place a newly created datastore into.")
	fs.StringVar(&o.State, "state", o.State,
		"Desired state: present or absent.")
	fs.StringVar(&o.SiblingRescanPolicy, "sibling-rescan-policy", o.SiblingRescanPolicy,
		"How to treat sibling-host rescan failures after a create or expand: fail or warn.")
	fs.BoolVar(&o.DryRun, "dry-run", o.DryRun,
		"Report the decision without applying datastore mutations.")

	_ = cmd.MarkFlagRequired("datastore-name")
	_ = cmd.MarkFlagRequired("esxi-hostname")

	return cmd
}

// reconcileOutput is the success shape.
type reconcileOutput struct {
	Changed bool   `json:"changed"`
	Result  string `json:"result"`
}

func (o *ReconcileOptions) Run(ctx context.Context) error {
	state, err := datastore.ParseState(o.State)
	if err != nil {
		return reportFailure(err)
	}

	policy, err := datastore.ParseSiblingRescanPolicy(o.SiblingRescanPolicy)
	if err != nil {
		return reportFailure(err)
	}

	vc, err := o.Connect(ctx)
	if err != nil {
		return reportFailure(err)
	}
	defer vc.Logout(ctx)

	reconciler := datastore.NewReconciler(
		inventory.NewVim(vc.VimClient(), vc.Finder()),
		datastore.WithSiblingRescanPolicy(policy),
		datastore.WithDryRun(o.DryRun),
	)

	outcome, err := reconciler.Reconcile(ctx, datastore.Spec{
		Datastore:        o.DatastoreName,
		Host:             o.EsxiHostname,
		DeviceID:         o.VolumeDeviceName,
		DatastoreCluster: o.DatastoreCluster,
		State:            state,
	})
	if err != nil {
		return reportFailure(err)
	}

	return printJSON(reconcileOutput{Changed: outcome.Changed, Result: outcome.Message})
}
