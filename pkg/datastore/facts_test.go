// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package datastore_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/datastore"
	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

var _ = Describe("GatherFacts", func() {

	var (
		ctx context.Context
		inv *fakeInventory
	)

	BeforeEach(func() {
		ctx = context.Background()
		inv = newFakeInventory()

		inv.datastores["SAN_DS01"] = &inventory.Datastore{
			Name:            "SAN_DS01",
			URL:             "ds:///vmfs/volumes/5e2f7a8c-1b3d4e5f/",
			MaintenanceMode: "normal",
			VmfsType:        "VMFS",
			VmfsUUID:        "5e2f7a8c-1b3d4e5f",
			ExtentDiskNames: []string{"naa.600508B400105E210000900000490000"},
			MountedHosts:    []string{"esx01", "esx02"},
		}
		inv.datastores["SAN_DS02"] = &inventory.Datastore{
			Name:             "SAN_DS02",
			VmfsType:         "VMFS",
			VmfsUUID:         "6f3a8b9d-2c4e5f60",
			DatastoreCluster: "SAN_POD01",
			ExtentDiskNames:  []string{"naa.600508b400105e210000900000490001"},
			MountedHosts:     []string{"esx02"},
		}
	})

	When("a datastore name is given", func() {
		It("returns that datastore only", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "SAN_DS01", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts).To(HaveLen(1))

			Expect(facts[0].Name).To(Equal("SAN_DS01"))
			Expect(facts[0].MaintenanceMode).To(Equal("normal"))
			Expect(facts[0].URL).To(Equal("ds:///vmfs/volumes/5e2f7a8c-1b3d4e5f/"))
			Expect(facts[0].VmfsType).To(Equal("VMFS"))
		})

		It("lower-cases the reported device identifiers", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "SAN_DS01", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts[0].WWN).To(ConsistOf("600508b400105e210000900000490000"))
		})

		It("reports N/A for a datastore outside any cluster", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "SAN_DS01", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts[0].DatastoreCluster).To(Equal("N/A"))
		})

		It("reports the owning datastore cluster", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "SAN_DS02", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts[0].DatastoreCluster).To(Equal("SAN_POD01"))
		})

		It("fails for an unknown datastore", func() {
			_, err := datastore.GatherFacts(ctx, inv, "SAN_DS99", "")
			Expect(err).To(MatchError(ContainSubstring("SAN_DS99")))
		})
	})

	When("only a hostname is given", func() {
		It("returns the datastores mounted on that host", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "", "esx01")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts).To(HaveLen(1))
			Expect(facts[0].Name).To(Equal("SAN_DS01"))
		})
	})

	When("neither name nor hostname is given", func() {
		It("returns every datastore in scope", func() {
			facts, err := datastore.GatherFacts(ctx, inv, "", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(facts).To(HaveLen(2))
		})
	})
})
