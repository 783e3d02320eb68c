// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package config loads vCenter connection settings from the environment.
// Reconciliation inputs arrive as command-line flags; credentials and
// endpoint details deliberately do not.
package config

import (
	"github.com/kelseyhightower/envconfig"

	vcclient "github.com/hpe-storage/vsphere-san-datastore/pkg/vcenter/client"
)

type VCenter struct {
	Host       string `envconfig:"VC_HOST" required:"true"`
	Port       string `envconfig:"VC_PORT" default:"443"`
	Username   string `envconfig:"VC_USERNAME" required:"true"`
	Password   string `envconfig:"VC_PASSWORD" required:"true"`
	Datacenter string `envconfig:"VC_DATACENTER" default:""`
	CAFile     string `envconfig:"VC_CA_FILE" default:""`
	Insecure   bool   `envconfig:"VC_INSECURE" default:"false"`
}

// NewVCenter reads the VC_* environment variables.
func NewVCenter() (*VCenter, error) {
	var c VCenter
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ClientConfig maps the settings onto the session client's config.
func (c *VCenter) ClientConfig() vcclient.Config {
	return vcclient.Config{
		Host:       c.Host,
		Port:       c.Port,
		Username:   c.Username,
		Password:   c.Password,
		CAFilePath: c.CAFile,
		Insecure:   c.Insecure,
		Datacenter: c.Datacenter,
	}
}
