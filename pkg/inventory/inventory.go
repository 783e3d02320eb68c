// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package inventory is the narrow surface through which the reconciler talks
// to the virtualization management endpoint: name resolution, storage
// rescans, and the VMFS datastore lifecycle operations. The reconciler holds
// a Client capability; it never sees session or transport details.
package inventory

import (
	"context"
	"strings"

	vimtypes "github.com/vmware/govmomi/vim25/types"
)

// Client is the Inventory & Task API consumed by the reconciler core.
// Long-running operations (the datastore-cluster move) block until the
// underlying task completes; cancellation is the caller's context.
type Client interface {
	// ResolveHost fails if hostName does not name a live host.
	ResolveHost(ctx context.Context, hostName string) error

	// RescanAllHBA refreshes hostName's view of attached storage devices.
	RescanAllHBA(ctx context.Context, hostName string) error

	// RescanVmfs refreshes hostName's view of VMFS volumes.
	RescanVmfs(ctx context.Context, hostName string) error

	// FindDatastore returns the datastore with the given name, or
	// (nil, nil) if no such datastore exists in the search scope.
	FindDatastore(ctx context.Context, name string) (*Datastore, error)

	// ListDatastores returns every VMFS datastore mounted on hostName,
	// or every VMFS datastore in the search scope if hostName is empty.
	ListDatastores(ctx context.Context, hostName string) ([]Datastore, error)

	// ClusterHosts returns the names of all hosts in the same compute
	// cluster as hostName, including hostName itself.
	ClusterHosts(ctx context.Context, hostName string) ([]string, error)

	// QueryVmfsCreateOptions returns the candidate create specifications
	// for a new VMFS datastore on the device at devicePath.
	QueryVmfsCreateOptions(ctx context.Context, hostName, devicePath string) ([]vimtypes.VmfsDatastoreOption, error)

	// CreateVmfsDatastore creates a VMFS datastore on hostName from spec.
	CreateVmfsDatastore(ctx context.Context, hostName string, spec vimtypes.VmfsDatastoreCreateSpec) error

	// QueryVmfsExpandOptions returns the candidate expand specifications
	// for the named existing datastore.
	QueryVmfsExpandOptions(ctx context.Context, hostName, datastoreName string) ([]vimtypes.VmfsDatastoreOption, error)

	// ExpandVmfsDatastore grows the named datastore per spec.
	ExpandVmfsDatastore(ctx context.Context, hostName, datastoreName string, spec vimtypes.VmfsDatastoreExpandSpec) error

	// RemoveDatastore removes the named datastore from hostName's
	// inventory.
	RemoveDatastore(ctx context.Context, hostName, datastoreName string) error

	// UnmountVmfsVolume unmounts the VMFS volume with the given UUID from
	// hostName. The UUID, not the datastore name, is the authoritative
	// identifier for this call.
	UnmountVmfsVolume(ctx context.Context, hostName, vmfsUUID string) error

	// MoveIntoDatastoreCluster moves the named datastore into the named
	// datastore-cluster folder, waiting for the move task to complete.
	MoveIntoDatastoreCluster(ctx context.Context, clusterName, datastoreName string) error
}

// Datastore is a point-in-time projection of a datastore's live inventory
// state. It is never cached across reconciliations.
type Datastore struct {
	Name            string
	URL             string
	MaintenanceMode string

	// VmfsType and VmfsUUID are empty for non-VMFS datastores.
	VmfsType string
	VmfsUUID string

	// DatastoreCluster is the name of the owning datastore cluster, or
	// empty when the datastore sits directly in the datastore folder.
	DatastoreCluster string

	// ExtentDiskNames holds the canonical disk path tail of each backing
	// extent, e.g. "naa.600508b400105e210000900000490000".
	ExtentDiskNames []string

	// MountedHosts names every host currently mounting this datastore.
	MountedHosts []string
}

// DeviceIDs returns the device identifier of each extent: the trailing
// dot-separated segment of the disk name, lower-cased.
func (d *Datastore) DeviceIDs() []string {
	ids := make([]string, 0, len(d.ExtentDiskNames))
	for _, diskName := range d.ExtentDiskNames {
		ids = append(ids, DeviceID(diskName))
	}
	return ids
}

// HasDevice reports whether deviceID matches the device identifier of one of
// the datastore's extents. Comparison is case-insensitive; device identifiers
// are the one place in this domain where case is normalized.
func (d *Datastore) HasDevice(deviceID string) bool {
	deviceID = strings.ToLower(deviceID)
	for _, diskName := range d.ExtentDiskNames {
		if DeviceID(diskName) == deviceID {
			return true
		}
	}
	return false
}

// DeviceID extracts the canonical device identifier from a disk name, e.g.
// "naa.600508B4..." yields "600508b4...".
func DeviceID(diskName string) string {
	i := strings.LastIndex(diskName, ".")
	return strings.ToLower(diskName[i+1:])
}
