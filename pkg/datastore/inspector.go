// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"fmt"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

// Inspector determines the current state of a named datastore as seen from a
// host: absent, or present with its live extent and mount topology.
type Inspector struct {
	inv inventory.Client
}

func NewInspector(inv inventory.Client) *Inspector {
	return &Inspector{inv: inv}
}

// Inspect returns the named datastore, or nil if it is absent from the
// search scope.
//
// The target host's HBAs are rescanned first so that presence checks reflect
// live storage topology rather than a stale cache; newly attached SAN devices
// surface before we decide anything. The rescan is a real mutation of the
// host's storage stack and happens on every inspection, absence checks
// included, because removal decisions also depend on current topology.
//
// A host that does not resolve is a fatal precondition failure for the whole
// reconciliation; nothing has been mutated at that point.
func (i *Inspector) Inspect(ctx context.Context, hostName, datastoreName string) (*inventory.Datastore, error) {
	if err := i.inv.ResolveHost(ctx, hostName); err != nil {
		return nil, fmt.Errorf("failed to find ESXi host %q: %w", hostName, err)
	}

	if err := i.inv.RescanAllHBA(ctx, hostName); err != nil {
		return nil, opError("inspect", datastoreName, hostName, err)
	}

	ds, err := i.inv.FindDatastore(ctx, datastoreName)
	if err != nil {
		return nil, opError("inspect", datastoreName, hostName, err)
	}

	return ds, nil
}
