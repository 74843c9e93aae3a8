// Copyright 2025 The TeePals Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/ChanhaBB/teepals-search/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
