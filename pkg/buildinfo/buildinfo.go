// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

// Package buildinfo holds build metadata injected at link time.
package buildinfo

var (
	BuildCommit string
	BuildNumber string

	// BuildVersion is injected at build-time; the default keeps version
	// output sane for plain `go build` binaries.
	BuildVersion = "v0.0.0"
)
