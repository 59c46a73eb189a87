/*
Package util includes small helper functions shared by the flamegraph
and diff-folded command-line tools.
*/
package util

// Copyright (C) 2021-2024 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FileExists checks if a file exists at the given path.
// It returns a boolean indicating whether the file exists, and an error if the
// path refers to a non-regular file, e.g., a directory.
func FileExists(path string) (exists bool, err error) {
	var fileInfo fs.FileInfo
	fileInfo, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			exists = false
			err = nil
			return
		}
		return
	}
	if !fileInfo.Mode().IsRegular() {
		err = fmt.Errorf("%s not a file", path)
		return
	}
	exists = true
	return
}

// StringInList confirms if string is in list of strings
func StringInList(s string, l []string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// StringIndexInList returns the index of the given string in the given list of
// strings and error if not found
func StringIndexInList(s string, l []string) (idx int, err error) {
	var item string
	for idx, item = range l {
		if item == s {
			return
		}
	}
	err = fmt.Errorf("%s not found in %s", s, strings.Join(l, ", "))
	return
}
