// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package inventory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

var _ = Describe("DeviceID", func() {

	DescribeTable("extracts the trailing segment, lower-cased",
		func(diskName, expected string) {
			Expect(inventory.DeviceID(diskName)).To(Equal(expected))
		},
		Entry("naa disk name",
			"naa.600508b400105e210000900000490000", "600508b400105e210000900000490000"),
		Entry("mixed case",
			"naa.600508B400105E210000900000490000", "600508b400105e210000900000490000"),
		Entry("no dot", "600508b4", "600508b4"),
	)
})

var _ = Describe("Datastore", func() {

	ds := &inventory.Datastore{
		ExtentDiskNames: []string{
			"naa.600508b400105e210000900000490000",
			"naa.600508B400105E210000900000490001",
		},
	}

	Describe("HasDevice", func() {
		It("matches regardless of case on either side", func() {
			Expect(ds.HasDevice("600508B400105E210000900000490000")).To(BeTrue())
			Expect(ds.HasDevice("600508b400105e210000900000490001")).To(BeTrue())
		})

		It("does not match unknown devices", func() {
			Expect(ds.HasDevice("600508b400105e210000900000490099")).To(BeFalse())
		})
	})

	Describe("DeviceIDs", func() {
		It("returns the normalized identifier of every extent", func() {
			Expect(ds.DeviceIDs()).To(Equal([]string{
				"600508b400105e210000900000490000",
				"600508b400105e210000900000490001",
			}))
		})
	})
})
