// Package app defines the small set of CLI-help types shared by the
// flamegraph and diff-folded commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
)

// Name is the name of the application executable currently running,
// used to build usage examples.
var Name = filepath.Base(os.Args[0])

// Flag represents a command-line flag with its name and help text.
type Flag struct {
	Name string
	Help string
}

// FlagGroup represents a group of related flags with a group name.
// Neither command uses Flag or FlagGroup: flamegraph's usage function
// prints a flat flag list, and diff-folded uses cobra's default help.
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}
