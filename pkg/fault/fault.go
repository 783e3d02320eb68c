// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package fault classifies errors returned by the vCenter endpoint into the
// categories the reconciler reports on. Structured vim faults are told apart
// from local/transport errors so a caller can distinguish "vCenter rejected
// the operation" from "we never reached vCenter".
package fault

import (
	"errors"

	"github.com/vmware/govmomi/fault"
	"github.com/vmware/govmomi/task"
	"github.com/vmware/govmomi/vim25/soap"
	vimtypes "github.com/vmware/govmomi/vim25/types"
)

// Kind is the classification of an error from the inventory endpoint.
type Kind int

const (
	// Local is anything raised on our side of the wire: transport
	// failures, TLS problems, context cancellation.
	Local Kind = iota
	// NotFound is vim.fault.NotFound.
	NotFound
	// DuplicateName is vim.fault.DuplicateName.
	DuplicateName
	// HostConfig is vim.fault.HostConfigFault.
	HostConfig
	// ResourceInUse is vim.fault.ResourceInUse.
	ResourceInUse
	// InvalidArgument is vmodl.fault.InvalidArgument.
	InvalidArgument
	// Remote is any other structured fault from the endpoint, the
	// equivalent of a generic runtime or method fault.
	Remote
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case DuplicateName:
		return "DuplicateName"
	case HostConfig:
		return "HostConfigFault"
	case ResourceInUse:
		return "ResourceInUse"
	case InvalidArgument:
		return "InvalidArgument"
	case Remote:
		return "RemoteFault"
	default:
		return "Local"
	}
}

// Classify maps err to its Kind. A nil error classifies as Local; callers are
// expected to check for nil first.
func Classify(err error) Kind {
	switch {
	case fault.Is(err, &vimtypes.NotFound{}):
		return NotFound
	case fault.Is(err, &vimtypes.DuplicateName{}):
		return DuplicateName
	case fault.Is(err, &vimtypes.HostConfigFault{}):
		return HostConfig
	case fault.Is(err, &vimtypes.ResourceInUse{}):
		return ResourceInUse
	case fault.Is(err, &vimtypes.InvalidArgument{}):
		return InvalidArgument
	case isStructured(err):
		return Remote
	default:
		return Local
	}
}

// isStructured reports whether err carries a fault generated by the endpoint
// rather than by the client.
func isStructured(err error) bool {
	var taskErr task.Error
	if errors.As(err, &taskErr) {
		return true
	}
	return soap.IsSoapFault(err) || soap.IsVimFault(err)
}
