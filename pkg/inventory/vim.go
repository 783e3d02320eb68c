// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/mo"
	vimtypes "github.com/vmware/govmomi/vim25/types"
)

// Vim is the govmomi-backed Client. It lives for a single invocation; host
// handles resolved during that invocation are memoized but no inventory
// state is.
type Vim struct {
	vim    *vim25.Client
	finder *find.Finder
	pc     *property.Collector

	hosts map[string]*object.HostSystem
}

var _ Client = &Vim{}

// NewVim returns a Client backed by the given vim25 connection. The finder
// must already be scoped to the datacenter to operate in.
func NewVim(vimClient *vim25.Client, finder *find.Finder) *Vim {
	return &Vim{
		vim:    vimClient,
		finder: finder,
		pc:     property.DefaultCollector(vimClient),
		hosts:  map[string]*object.HostSystem{},
	}
}

func (v *Vim) host(ctx context.Context, hostName string) (*object.HostSystem, error) {
	if h, ok := v.hosts[hostName]; ok {
		return h, nil
	}

	h, err := v.finder.HostSystem(ctx, hostName)
	if err != nil {
		return nil, fmt.Errorf("failed to find host %q: %w", hostName, err)
	}

	v.hosts[hostName] = h
	return h, nil
}

func (v *Vim) ResolveHost(ctx context.Context, hostName string) error {
	_, err := v.host(ctx, hostName)
	return err
}

func (v *Vim) storageSystem(ctx context.Context, hostName string) (*object.HostStorageSystem, error) {
	h, err := v.host(ctx, hostName)
	if err != nil {
		return nil, err
	}
	return h.ConfigManager().StorageSystem(ctx)
}

func (v *Vim) datastoreSystem(ctx context.Context, hostName string) (*object.HostDatastoreSystem, error) {
	h, err := v.host(ctx, hostName)
	if err != nil {
		return nil, err
	}
	return h.ConfigManager().DatastoreSystem(ctx)
}

func (v *Vim) RescanAllHBA(ctx context.Context, hostName string) error {
	ss, err := v.storageSystem(ctx, hostName)
	if err != nil {
		return err
	}
	return ss.RescanAllHba(ctx)
}

func (v *Vim) RescanVmfs(ctx context.Context, hostName string) error {
	ss, err := v.storageSystem(ctx, hostName)
	if err != nil {
		return err
	}
	return ss.RescanVmfs(ctx)
}

func (v *Vim) FindDatastore(ctx context.Context, name string) (*Datastore, error) {
	ds, err := v.finder.Datastore(ctx, name)
	if err != nil {
		var notFound *find.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	return v.readDatastore(ctx, ds.Reference())
}

func (v *Vim) ListDatastores(ctx context.Context, hostName string) ([]Datastore, error) {
	var refs []vimtypes.ManagedObjectReference

	if hostName != "" {
		h, err := v.host(ctx, hostName)
		if err != nil {
			return nil, err
		}

		var moHost mo.HostSystem
		if err := h.Properties(ctx, h.Reference(), []string{"datastore"}, &moHost); err != nil {
			return nil, err
		}
		refs = moHost.Datastore
	} else {
		list, err := v.finder.DatastoreList(ctx, "*")
		if err != nil {
			var notFound *find.NotFoundError
			if errors.As(err, &notFound) {
				return nil, nil
			}
			return nil, err
		}
		for _, ds := range list {
			refs = append(refs, ds.Reference())
		}
	}

	var out []Datastore
	for _, ref := range refs {
		ds, err := v.readDatastore(ctx, ref)
		if err != nil {
			return nil, err
		}
		// Only VMFS datastores carry SAN extents; NFS and friends
		// have no place in this inventory.
		if ds.VmfsType == "" {
			continue
		}
		out = append(out, *ds)
	}

	return out, nil
}

// readDatastore projects the managed object into the domain entity.
func (v *Vim) readDatastore(ctx context.Context, ref vimtypes.ManagedObjectReference) (*Datastore, error) {
	var moDS mo.Datastore
	if err := v.pc.RetrieveOne(ctx, ref, []string{"summary", "info", "host", "parent"}, &moDS); err != nil {
		return nil, fmt.Errorf("failed to read datastore %s: %w", ref.Value, err)
	}

	ds := &Datastore{
		Name:            moDS.Summary.Name,
		URL:             moDS.Summary.Url,
		MaintenanceMode: moDS.Summary.MaintenanceMode,
	}

	if info, ok := moDS.Info.(*vimtypes.VmfsDatastoreInfo); ok && info.Vmfs != nil {
		ds.VmfsType = info.Vmfs.Type
		ds.VmfsUUID = info.Vmfs.Uuid
		for _, extent := range info.Vmfs.Extent {
			ds.ExtentDiskNames = append(ds.ExtentDiskNames, extent.DiskName)
		}
	}

	if moDS.Parent != nil && moDS.Parent.Type == "StoragePod" {
		name, err := v.entityName(ctx, *moDS.Parent)
		if err != nil {
			return nil, err
		}
		ds.DatastoreCluster = name
	}

	if len(moDS.Host) > 0 {
		hostRefs := make([]vimtypes.ManagedObjectReference, 0, len(moDS.Host))
		for _, mount := range moDS.Host {
			hostRefs = append(hostRefs, mount.Key)
		}

		names, err := v.entityNames(ctx, hostRefs)
		if err != nil {
			return nil, err
		}
		for _, mount := range moDS.Host {
			ds.MountedHosts = append(ds.MountedHosts, names[mount.Key.Value])
		}
	}

	return ds, nil
}

func (v *Vim) entityName(ctx context.Context, ref vimtypes.ManagedObjectReference) (string, error) {
	var me mo.ManagedEntity
	if err := v.pc.RetrieveOne(ctx, ref, []string{"name"}, &me); err != nil {
		return "", fmt.Errorf("failed to read name of %s: %w", ref.Value, err)
	}
	return me.Name, nil
}

func (v *Vim) entityNames(ctx context.Context, refs []vimtypes.ManagedObjectReference) (map[string]string, error) {
	var entities []mo.ManagedEntity
	if err := v.pc.Retrieve(ctx, refs, []string{"name"}, &entities); err != nil {
		return nil, fmt.Errorf("failed to read entity names: %w", err)
	}

	names := make(map[string]string, len(entities))
	for i := range entities {
		names[entities[i].Self.Value] = entities[i].Name
	}
	return names, nil
}

func (v *Vim) ClusterHosts(ctx context.Context, hostName string) ([]string, error) {
	h, err := v.host(ctx, hostName)
	if err != nil {
		return nil, err
	}

	var moHost mo.HostSystem
	if err := h.Properties(ctx, h.Reference(), []string{"parent"}, &moHost); err != nil {
		return nil, err
	}
	if moHost.Parent == nil {
		return []string{hostName}, nil
	}

	cr := object.NewComputeResource(v.vim, *moHost.Parent)
	hosts, err := cr.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts of cluster %s: %w", moHost.Parent.Value, err)
	}

	refs := make([]vimtypes.ManagedObjectReference, 0, len(hosts))
	for _, host := range hosts {
		refs = append(refs, host.Reference())
	}

	names, err := v.entityNames(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, names[ref.Value])
	}
	return out, nil
}

func (v *Vim) QueryVmfsCreateOptions(ctx context.Context, hostName, devicePath string) ([]vimtypes.VmfsDatastoreOption, error) {
	dss, err := v.datastoreSystem(ctx, hostName)
	if err != nil {
		return nil, err
	}
	return dss.QueryVmfsDatastoreCreateOptions(ctx, devicePath)
}

func (v *Vim) CreateVmfsDatastore(ctx context.Context, hostName string, spec vimtypes.VmfsDatastoreCreateSpec) error {
	dss, err := v.datastoreSystem(ctx, hostName)
	if err != nil {
		return err
	}
	_, err = dss.CreateVmfsDatastore(ctx, spec)
	return err
}

func (v *Vim) QueryVmfsExpandOptions(ctx context.Context, hostName, datastoreName string) ([]vimtypes.VmfsDatastoreOption, error) {
	dss, err := v.datastoreSystem(ctx, hostName)
	if err != nil {
		return nil, err
	}

	ds, err := v.finder.Datastore(ctx, datastoreName)
	if err != nil {
		return nil, err
	}

	// Not surfaced by object.HostDatastoreSystem, so issue the call
	// directly.
	req := vimtypes.QueryVmfsDatastoreExpandOptions{
		This:      dss.Reference(),
		Datastore: ds.Reference(),
	}

	res, err := methods.QueryVmfsDatastoreExpandOptions(ctx, v.vim, &req)
	if err != nil {
		return nil, err
	}
	return res.Returnval, nil
}

func (v *Vim) ExpandVmfsDatastore(ctx context.Context, hostName, datastoreName string, spec vimtypes.VmfsDatastoreExpandSpec) error {
	dss, err := v.datastoreSystem(ctx, hostName)
	if err != nil {
		return err
	}

	ds, err := v.finder.Datastore(ctx, datastoreName)
	if err != nil {
		return err
	}

	req := vimtypes.ExpandVmfsDatastore{
		This:      dss.Reference(),
		Datastore: ds.Reference(),
		Spec:      spec,
	}

	_, err = methods.ExpandVmfsDatastore(ctx, v.vim, &req)
	return err
}

func (v *Vim) RemoveDatastore(ctx context.Context, hostName, datastoreName string) error {
	dss, err := v.datastoreSystem(ctx, hostName)
	if err != nil {
		return err
	}

	ds, err := v.finder.Datastore(ctx, datastoreName)
	if err != nil {
		return err
	}

	return dss.Remove(ctx, ds)
}

func (v *Vim) UnmountVmfsVolume(ctx context.Context, hostName, vmfsUUID string) error {
	ss, err := v.storageSystem(ctx, hostName)
	if err != nil {
		return err
	}
	return ss.UnmountVmfsVolume(ctx, vmfsUUID)
}

func (v *Vim) MoveIntoDatastoreCluster(ctx context.Context, clusterName, datastoreName string) error {
	pod, err := v.finder.DatastoreCluster(ctx, clusterName)
	if err != nil {
		return fmt.Errorf("failed to find datastore cluster %q: %w", clusterName, err)
	}

	ds, err := v.finder.Datastore(ctx, datastoreName)
	if err != nil {
		return err
	}

	task, err := pod.MoveInto(ctx, []vimtypes.ManagedObjectReference{ds.Reference()})
	if err != nil {
		return err
	}

	return task.Wait(ctx)
}
