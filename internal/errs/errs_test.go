// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(MalformedInput, "bad stack line")
	assert.True(t, Is(err, MalformedInput))
	assert.False(t, Is(err, IoError))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("boom"), IoError))
}

func TestAtLineIncludesHint(t *testing.T) {
	err := AtLine(MalformedInput, 42, "unexpected token")
	assert.Contains(t, err.Error(), "line 42")
}

func TestNewOmitsLineHint(t *testing.T) {
	err := New(UnknownFormat, "no collapser matched")
	assert.NotContains(t, err.Error(), "line")
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, IoError, "writing output")
	assert.True(t, Is(err, IoError))
	assert.True(t, errors.Is(err, cause))
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, IoError, "unreachable"))
}

func TestWrapAtLinePreservesCauseAndLine(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := WrapAtLine(cause, MalformedInput, 17, "xctrace xml not well-formed")
	assert.True(t, Is(err, MalformedInput))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "line 17")
}

func TestWrapAtLineNilCauseReturnsNil(t *testing.T) {
	assert.NoError(t, WrapAtLine(nil, IoError, 1, "unreachable"))
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "UnknownError", Kind(99).String())
}
