// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package datastore_test

import (
	"context"
	"fmt"

	vimtypes "github.com/vmware/govmomi/vim25/types"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

// fakeInventory is a scriptable in-memory inventory.Client. Mutating calls
// apply to its state so back-to-back reconciliations observe their own
// effects, and every call is recorded for ordering assertions.
type fakeInventory struct {
	// clusters maps a host name to every host in its cluster, itself
	// included. Hosts not present here do not resolve.
	clusters map[string][]string

	datastores map[string]*inventory.Datastore

	// createOptions is keyed by device path, expandOptions by datastore
	// name.
	createOptions map[string][]vimtypes.VmfsDatastoreOption
	expandOptions map[string][]vimtypes.VmfsDatastoreOption

	// failures maps a recorded call string to the error that call should
	// return.
	failures map[string]error

	calls []string

	createdSpecs []vimtypes.VmfsDatastoreCreateSpec
	expandSpecs  []vimtypes.VmfsDatastoreExpandSpec
}

var _ inventory.Client = &fakeInventory{}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		clusters: map[string][]string{
			"esx01": {"esx01", "esx02", "esx03"},
			"esx02": {"esx01", "esx02", "esx03"},
			"esx03": {"esx01", "esx02", "esx03"},
		},
		datastores:    map[string]*inventory.Datastore{},
		createOptions: map[string][]vimtypes.VmfsDatastoreOption{},
		expandOptions: map[string][]vimtypes.VmfsDatastoreOption{},
		failures:      map[string]error{},
	}
}

func (f *fakeInventory) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	return f.failures[call]
}

func (f *fakeInventory) callsMatching(prefix string) []string {
	var out []string
	for _, call := range f.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeInventory) ResolveHost(ctx context.Context, hostName string) error {
	if err := f.record("ResolveHost(%s)", hostName); err != nil {
		return err
	}
	if _, ok := f.clusters[hostName]; !ok {
		return fmt.Errorf("host %q not found", hostName)
	}
	return nil
}

func (f *fakeInventory) RescanAllHBA(ctx context.Context, hostName string) error {
	return f.record("RescanAllHBA(%s)", hostName)
}

func (f *fakeInventory) RescanVmfs(ctx context.Context, hostName string) error {
	return f.record("RescanVmfs(%s)", hostName)
}

func (f *fakeInventory) FindDatastore(ctx context.Context, name string) (*inventory.Datastore, error) {
	if err := f.record("FindDatastore(%s)", name); err != nil {
		return nil, err
	}
	ds, ok := f.datastores[name]
	if !ok {
		return nil, nil
	}
	cp := *ds
	return &cp, nil
}

func (f *fakeInventory) ListDatastores(ctx context.Context, hostName string) ([]inventory.Datastore, error) {
	if err := f.record("ListDatastores(%s)", hostName); err != nil {
		return nil, err
	}
	var out []inventory.Datastore
	for _, ds := range f.datastores {
		if hostName != "" && !contains(ds.MountedHosts, hostName) {
			continue
		}
		out = append(out, *ds)
	}
	return out, nil
}

func (f *fakeInventory) ClusterHosts(ctx context.Context, hostName string) ([]string, error) {
	if err := f.record("ClusterHosts(%s)", hostName); err != nil {
		return nil, err
	}
	return f.clusters[hostName], nil
}

func (f *fakeInventory) QueryVmfsCreateOptions(ctx context.Context, hostName, devicePath string) ([]vimtypes.VmfsDatastoreOption, error) {
	if err := f.record("QueryVmfsCreateOptions(%s,%s)", hostName, devicePath); err != nil {
		return nil, err
	}
	return f.createOptions[devicePath], nil
}

func (f *fakeInventory) CreateVmfsDatastore(ctx context.Context, hostName string, spec vimtypes.VmfsDatastoreCreateSpec) error {
	if err := f.record("CreateVmfsDatastore(%s,%s)", hostName, spec.Vmfs.VolumeName); err != nil {
		return err
	}
	f.createdSpecs = append(f.createdSpecs, spec)
	f.datastores[spec.Vmfs.VolumeName] = &inventory.Datastore{
		Name:            spec.Vmfs.VolumeName,
		VmfsType:        "VMFS",
		VmfsUUID:        "fake-uuid-" + spec.Vmfs.VolumeName,
		ExtentDiskNames: []string{spec.Vmfs.Extent.DiskName},
		MountedHosts:    []string{hostName},
	}
	return nil
}

func (f *fakeInventory) QueryVmfsExpandOptions(ctx context.Context, hostName, datastoreName string) ([]vimtypes.VmfsDatastoreOption, error) {
	if err := f.record("QueryVmfsExpandOptions(%s,%s)", hostName, datastoreName); err != nil {
		return nil, err
	}
	return f.expandOptions[datastoreName], nil
}

func (f *fakeInventory) ExpandVmfsDatastore(ctx context.Context, hostName, datastoreName string, spec vimtypes.VmfsDatastoreExpandSpec) error {
	if err := f.record("ExpandVmfsDatastore(%s,%s)", hostName, datastoreName); err != nil {
		return err
	}
	f.expandSpecs = append(f.expandSpecs, spec)
	if ds, ok := f.datastores[datastoreName]; ok {
		ds.ExtentDiskNames = append(ds.ExtentDiskNames, spec.Extent.DiskName)
	}
	return nil
}

func (f *fakeInventory) RemoveDatastore(ctx context.Context, hostName, datastoreName string) error {
	if err := f.record("RemoveDatastore(%s,%s)", hostName, datastoreName); err != nil {
		return err
	}
	delete(f.datastores, datastoreName)
	return nil
}

func (f *fakeInventory) UnmountVmfsVolume(ctx context.Context, hostName, vmfsUUID string) error {
	return f.record("UnmountVmfsVolume(%s,%s)", hostName, vmfsUUID)
}

func (f *fakeInventory) MoveIntoDatastoreCluster(ctx context.Context, clusterName, datastoreName string) error {
	if err := f.record("MoveIntoDatastoreCluster(%s,%s)", clusterName, datastoreName); err != nil {
		return err
	}
	if ds, ok := f.datastores[datastoreName]; ok {
		ds.DatastoreCluster = clusterName
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
