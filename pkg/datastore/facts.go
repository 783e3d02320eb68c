// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"context"
	"fmt"

	"github.com/hpe-storage/vsphere-san-datastore/pkg/inventory"
)

// NoDatastoreCluster is the sentinel reported for datastores that are not
// members of a datastore cluster.
const NoDatastoreCluster = "N/A"

// Fact is the read-only projection of one datastore.
type Fact struct {
	Name             string   `json:"name"`
	MaintenanceMode  string   `json:"maintenanceMode"`
	URL              string   `json:"url"`
	DatastoreCluster string   `json:"datastore_cluster"`
	VmfsType         string   `json:"vmfs_type"`
	WWN              []string `json:"wwn"`
}

// GatherFacts reads datastore facts without mutating anything. With a
// datastore name it returns that single datastore; with only a host name it
// returns every VMFS datastore mounted on that host; with neither it returns
// every VMFS datastore in the inventory scope.
func GatherFacts(ctx context.Context, inv inventory.Client, datastoreName, hostName string) ([]Fact, error) {
	if datastoreName != "" {
		ds, err := inv.FindDatastore(ctx, datastoreName)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			return nil, fmt.Errorf("datastore %q not found", datastoreName)
		}
		return []Fact{newFact(ds)}, nil
	}

	datastores, err := inv.ListDatastores(ctx, hostName)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(datastores))
	for i := range datastores {
		facts = append(facts, newFact(&datastores[i]))
	}
	return facts, nil
}

func newFact(ds *inventory.Datastore) Fact {
	fact := Fact{
		Name:             ds.Name,
		MaintenanceMode:  ds.MaintenanceMode,
		URL:              ds.URL,
		DatastoreCluster: NoDatastoreCluster,
		VmfsType:         ds.VmfsType,
		WWN:              ds.DeviceIDs(),
	}
	if ds.DatastoreCluster != "" {
		fact.DatastoreCluster = ds.DatastoreCluster
	}
	return fact
}
