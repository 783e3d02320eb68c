// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package datastore reconciles the presence, capacity, and cluster placement
// of SAN-backed VMFS datastores on ESXi hosts against a declared desired
// state.
package datastore

import (
	"context"
	"fmt"
	"strings"

	vimtypes "github.com/vmware/govmomi/vim25/types"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
	pkglog "github.com/hpe-storage/vsphere-san-datastore/pkg/log"
)

// DiskDeviceDirectory is the fixed directory under which ESXi exposes SAN
// block devices.
const DiskDeviceDirectory = "/vmfs/devices/disks/"

// DevicePath returns the full device path for a NAA device identifier, e.g.
// "/vmfs/devices/disks/naa.600508b400105e210000900000490000".
func DevicePath(deviceID string) string {
	return DiskDeviceDirectory + "naa." + strings.ToLower(deviceID)
}

// State is the desired state of a datastore.
type State int

const (
	// Present means the datastore exists and consumes the target device.
	Present State = iota
	// Absent means the datastore does not exist under the target name.
	Absent
)

func (s State) String() string {
	if s == Absent {
		return "absent"
	}
	return "present"
}

// ParseState maps the wire form ("present", "absent") to a State.
func ParseState(s string) (State, error) {
	switch s {
	case "present", "":
		return Present, nil
	case "absent":
		return Absent, nil
	default:
		return Present, fmt.Errorf("invalid state %q: must be present or absent", s)
	}
}

// SiblingRescanPolicy decides how a failed storage rescan on a sibling
// cluster host is reported after a successful create or expand.
type SiblingRescanPolicy int

const (
	// RescanFail aborts the run with the rescan failure. The create or
	// expand that already succeeded stands; there is no rollback.
	RescanFail SiblingRescanPolicy = iota
	// RescanWarn logs the failure and still reports the run as changed.
	RescanWarn
)

// ParseSiblingRescanPolicy maps "fail"/"warn" to a policy.
func ParseSiblingRescanPolicy(s string) (SiblingRescanPolicy, error) {
	switch s {
	case "fail", "":
		return RescanFail, nil
	case "warn":
		return RescanWarn, nil
	default:
		return RescanFail, fmt.Errorf("invalid sibling rescan policy %q: must be fail or warn", s)
	}
}

// Spec is the desired state of one datastore on one host.
type Spec struct {
	// Datastore is the datastore name. Required.
	Datastore string
	// Host is the ESXi host to manage the datastore on. Required.
	Host string
	// DeviceID is the NAA device identifier backing the datastore.
	// Matched case-insensitively; required when State is Present.
	DeviceID string
	// DatastoreCluster, when set, names the datastore cluster a newly
	// created datastore is moved into. Placement is only attempted on
	// creation, never retroactively.
	DatastoreCluster string
	// State defaults to Present.
	State State
}

func (s *Spec) validate() error {
	if s.Datastore == "" {
		return fmt.Errorf("datastore name is required")
	}
	if s.Host == "" {
		return fmt.Errorf("ESXi hostname is required")
	}
	if s.State == Present && s.DeviceID == "" {
		return fmt.Errorf("volume device name is required when state is present")
	}
	return nil
}

// Outcome is the result of a successful reconciliation. Changed is false
// when the system was already in the desired state.
type Outcome struct {
	Changed bool
	Message string
}

// Reconciler drives a host's datastore inventory toward a Spec. One
// reconciler per target host+datastore pair at a time; concurrent runs
// against the same pair are not coordinated here.
type Reconciler struct {
	inv       inventory.Client
	inspector *Inspector

	rescanPolicy SiblingRescanPolicy
	dryRun       bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSiblingRescanPolicy sets how sibling-host rescan failures are treated.
func WithSiblingRescanPolicy(p SiblingRescanPolicy) Option {
	return func(r *Reconciler) { r.rescanPolicy = p }
}

// WithDryRun reports the decision without issuing any mutations beyond the
// inspection rescan.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

func NewReconciler(inv inventory.Client, opts ...Option) *Reconciler {
	r := &Reconciler{
		inv:       inv,
		inspector: NewInspector(inv),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile inspects live inventory and issues the minimal set of operations
// needed to reach the desired state. Re-running against an already-converged
// system reports Changed=false and mutates nothing.
func (r *Reconciler) Reconcile(ctx context.Context, spec Spec) (Outcome, error) {
	if err := spec.validate(); err != nil {
		return Outcome{}, err
	}
	spec.DeviceID = strings.ToLower(spec.DeviceID)

	current, err := r.inspector.Inspect(ctx, spec.Host, spec.Datastore)
	if err != nil {
		return Outcome{}, err
	}

	switch spec.State {
	case Present:
		return r.reconcilePresent(ctx, spec, current)
	case Absent:
		return r.reconcileAbsent(ctx, spec, current)
	default:
		return Outcome{}, fmt.Errorf("unhandled desired state %d", spec.State)
	}
}

func (r *Reconciler) reconcilePresent(ctx context.Context, spec Spec, current *inventory.Datastore) (Outcome, error) {
	if current == nil {
		return r.create(ctx, spec)
	}

	if current.HasDevice(spec.DeviceID) {
		// Folder placement and capacity are not verified on an
		// already-matching datastore.
		return Outcome{
			Changed: false,
			Message: fmt.Sprintf("Datastore %s on host %s already consumes device %s",
				spec.Datastore, spec.Host, spec.DeviceID),
		}, nil
	}

	return r.expand(ctx, spec, current)
}

// create makes a new VMFS datastore from the target device, optionally moves
// it into the requested datastore cluster, and propagates rescans to the
// sibling cluster hosts.
func (r *Reconciler) create(ctx context.Context, spec Spec) (Outcome, error) {
	if r.dryRun {
		return Outcome{
			Changed: true,
			Message: fmt.Sprintf("Would create datastore %s on host %s from device %s",
				spec.Datastore, spec.Host, spec.DeviceID),
		}, nil
	}

	devicePath := DevicePath(spec.DeviceID)

	options, err := r.inv.QueryVmfsCreateOptions(ctx, spec.Host, devicePath)
	if err != nil {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host, err)
	}
	if len(options) == 0 {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host,
			fmt.Errorf("no create options for device path %s", devicePath))
	}

	// The endpoint may offer several candidate specs differing in
	// partition layout; the first one is taken, renamed to the desired
	// datastore name.
	createSpec, ok := options[0].Spec.(*vimtypes.VmfsDatastoreCreateSpec)
	if !ok {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host,
			fmt.Errorf("unexpected create option spec type %T", options[0].Spec))
	}
	createSpec.Vmfs.VolumeName = spec.Datastore

	if err := r.inv.CreateVmfsDatastore(ctx, spec.Host, *createSpec); err != nil {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host, err)
	}

	message := fmt.Sprintf("Datastore %s on host %s", spec.Datastore, spec.Host)

	if spec.DatastoreCluster != "" {
		// Awaited to completion. If this fails the datastore remains
		// created and unplaced; the failure is reported but the side
		// effect stands.
		if err := r.inv.MoveIntoDatastoreCluster(ctx, spec.DatastoreCluster, spec.Datastore); err != nil {
			return Outcome{}, opError("mount", spec.Datastore, spec.Host, err)
		}
		message = fmt.Sprintf("Datastore %s of cluster %s on host %s",
			spec.Datastore, spec.DatastoreCluster, spec.Host)
	}

	if err := r.rescanSiblings(ctx, spec); err != nil {
		return Outcome{}, err
	}

	return Outcome{Changed: true, Message: message}, nil
}

// expand grows the existing datastore onto the target device, when the
// endpoint offers an expand option for it.
func (r *Reconciler) expand(ctx context.Context, spec Spec, current *inventory.Datastore) (Outcome, error) {
	options, err := r.inv.QueryVmfsExpandOptions(ctx, spec.Host, spec.Datastore)
	if err != nil {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host, err)
	}

	expandSpec := matchExpandOption(options, spec.DeviceID)
	if expandSpec == nil {
		// Adding a device for which no expand option exists is not
		// implemented; the run reports unchanged rather than guessing
		// at a partition layout.
		return Outcome{
			Changed: false,
			Message: fmt.Sprintf("Datastore %s does not consume device %s and no expand option matches it",
				spec.Datastore, spec.DeviceID),
		}, nil
	}

	if r.dryRun {
		return Outcome{
			Changed: true,
			Message: fmt.Sprintf("Would expand datastore %s onto device %s", spec.Datastore, spec.DeviceID),
		}, nil
	}

	if err := r.inv.ExpandVmfsDatastore(ctx, spec.Host, spec.Datastore, *expandSpec); err != nil {
		return Outcome{}, opError("mount", spec.Datastore, spec.Host, err)
	}

	if err := r.rescanSiblings(ctx, spec); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Changed: true,
		Message: fmt.Sprintf("Expanded storage on datastore %s", spec.Datastore),
	}, nil
}

// matchExpandOption returns the first expand spec whose extent disk name
// contains the lower-cased device identifier, or nil.
func matchExpandOption(options []vimtypes.VmfsDatastoreOption, deviceID string) *vimtypes.VmfsDatastoreExpandSpec {
	for i := range options {
		spec, ok := options[i].Spec.(*vimtypes.VmfsDatastoreExpandSpec)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(spec.Extent.DiskName), deviceID) {
			return spec
		}
	}
	return nil
}

// rescanSiblings tells every other host in the target host's cluster to
// rescan its HBA and VMFS layers so datastore visibility converges
// cluster-wide without the caller invoking this once per host.
func (r *Reconciler) rescanSiblings(ctx context.Context, spec Spec) error {
	log := pkglog.FromContextOrDefault(ctx)

	hosts, err := r.inv.ClusterHosts(ctx, spec.Host)
	if err != nil {
		return r.siblingFailure(ctx, spec, "", err)
	}

	for _, hostName := range hosts {
		if hostName == spec.Host {
			continue
		}

		if err := r.inv.RescanAllHBA(ctx, hostName); err != nil {
			if err := r.siblingFailure(ctx, spec, hostName, err); err != nil {
				return err
			}
			continue
		}
		if err := r.inv.RescanVmfs(ctx, hostName); err != nil {
			if err := r.siblingFailure(ctx, spec, hostName, err); err != nil {
				return err
			}
			continue
		}

		log.V(1).Info("Rescanned sibling cluster host", "host", hostName)
	}

	return nil
}

func (r *Reconciler) siblingFailure(ctx context.Context, spec Spec, hostName string, err error) error {
	if r.rescanPolicy == RescanWarn {
		pkglog.FromContextOrDefault(ctx).Error(err,
			"Sibling cluster host rescan failed", "host", hostName)
		return nil
	}
	if hostName == "" {
		hostName = spec.Host
	}
	return opError("rescan", spec.Datastore, hostName, err)
}

// reconcileAbsent unmounts the datastore from every mounting host and then
// removes the datastore object from the target host. A datastore that does
// not exist under the target name is never touched.
func (r *Reconciler) reconcileAbsent(ctx context.Context, spec Spec, current *inventory.Datastore) (Outcome, error) {
	if current == nil {
		return Outcome{
			Changed: false,
			Message: fmt.Sprintf("Datastore %s already absent", spec.Datastore),
		}, nil
	}

	if r.dryRun {
		return Outcome{
			Changed: true,
			Message: fmt.Sprintf("Would remove datastore %s from host %s", spec.Datastore, spec.Host),
		}, nil
	}

	// All unmounts must succeed before the removal is attempted. On a
	// failed unmount the datastore must be assumed still mounted
	// elsewhere; the error names the host that failed.
	for _, hostName := range current.MountedHosts {
		if err := r.inv.UnmountVmfsVolume(ctx, hostName, current.VmfsUUID); err != nil {
			return Outcome{}, opError("umount", spec.Datastore, hostName, err)
		}
	}

	if err := r.inv.RemoveDatastore(ctx, spec.Host, spec.Datastore); err != nil {
		return Outcome{}, opError("umount", spec.Datastore, spec.Host, err)
	}

	return Outcome{
		Changed: true,
		Message: fmt.Sprintf("Datastore %s on host %s", spec.Datastore, spec.Host),
	}, nil
}
