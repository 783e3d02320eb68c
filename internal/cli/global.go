// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the reconcile and facts operations to the command line.
package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpe-storage/vsphere-san-datastore/internal/config"
	vcclient "github.com/hpe-storage/vsphere-san-datastore/pkg/vcenter/client"
)

type GlobalOptions struct{}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

// Connect builds a logged-in vCenter client from the VC_* environment. The
// caller owns the session and must call Logout on every exit path.
func (o *GlobalOptions) Connect(ctx context.Context) (*vcclient.Client, error) {
	cfg, err := config.NewVCenter()
	if err != nil {
		return nil, err
	}
	return vcclient.NewClient(ctx, cfg.ClientConfig())
}

// failedOutput is the machine-readable failure shape.
type failedOutput struct {
	Failed bool   `json:"failed"`
	Msg    string `json:"msg"`
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportFailure prints the failure shape and passes the error back up so the
// process exits nonzero.
func reportFailure(err error) error {
	_ = printJSON(failedOutput{Failed: true, Msg: err.Error()})
	return err
}
