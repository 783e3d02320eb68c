// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"fmt"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/fault"
)

// OpError is a terminal reconciliation failure. It names the operation being
// attempted and the datastore/host pair involved, carries the fault
// classification, and wraps the underlying cause. The reconciler never
// retries and never rolls back; an OpError means the run stopped here and
// any mutations already applied stand.
type OpError struct {
	// Op is the operation being attempted, e.g. "mount", "umount".
	Op        string
	Datastore string
	Host      string
	Kind      fault.Kind
	Err       error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("cannot %s datastore %s on host %s: %v",
		e.Op, e.Datastore, e.Host, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op, datastoreName, hostName string, err error) *OpError {
	return &OpError{
		Op:        op,
		Datastore: datastoreName,
		Host:      hostName,
		Kind:      fault.Classify(err),
		Err:       err,
	}
}
