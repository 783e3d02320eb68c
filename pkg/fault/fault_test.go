// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package fault_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vmware/govmomi/task"
	vimtypes "github.com/vmware/govmomi/vim25/types"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/fault"
)

func taskError(f vimtypes.BaseMethodFault, msg string) error {
	return task.Error{
		LocalizedMethodFault: &vimtypes.LocalizedMethodFault{
			Fault:            f,
			LocalizedMessage: msg,
		},
	}
}

var _ = Describe("Classify", func() {

	DescribeTable("structured vim faults",
		func(f vimtypes.BaseMethodFault, expected fault.Kind) {
			err := taskError(f, "fault from endpoint")
			Expect(fault.Classify(err)).To(Equal(expected))
		},
		Entry("NotFound", &vimtypes.NotFound{}, fault.NotFound),
		Entry("DuplicateName", &vimtypes.DuplicateName{}, fault.DuplicateName),
		Entry("HostConfigFault", &vimtypes.HostConfigFault{}, fault.HostConfig),
		Entry("ResourceInUse", &vimtypes.ResourceInUse{}, fault.ResourceInUse),
		Entry("InvalidArgument", &vimtypes.InvalidArgument{}, fault.InvalidArgument),
	)

	It("classifies any other structured fault as Remote", func() {
		err := taskError(&vimtypes.TaskInProgress{}, "task in progress")
		Expect(fault.Classify(err)).To(Equal(fault.Remote))
	})

	It("classifies plain errors as Local", func() {
		Expect(fault.Classify(errors.New("connection refused"))).To(Equal(fault.Local))
	})

	It("classifies nil as Local", func() {
		Expect(fault.Classify(nil)).To(Equal(fault.Local))
	})

	DescribeTable("Kind strings",
		func(k fault.Kind, s string) {
			Expect(k.String()).To(Equal(s))
		},
		Entry("Local", fault.Local, "Local"),
		Entry("NotFound", fault.NotFound, "NotFound"),
		Entry("DuplicateName", fault.DuplicateName, "DuplicateName"),
		Entry("HostConfig", fault.HostConfig, "HostConfigFault"),
		Entry("ResourceInUse", fault.ResourceInUse, "ResourceInUse"),
		Entry("InvalidArgument", fault.InvalidArgument, "InvalidArgument"),
		Entry("Remote", fault.Remote, "RemoteFault"),
	)
})
