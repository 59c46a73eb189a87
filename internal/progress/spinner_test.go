// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package progress

import "testing"

func TestSpinnerStatusChangeMarksNew(t *testing.T) {
	s := NewSpinner()
	s.isNew = false
	s.Status("collapsing")
	if !s.isNew {
		t.Fatalf("expected status change to mark spinner as new")
	}
	if s.status != "collapsing" {
		t.Fatalf("expected status 'collapsing', got %q", s.status)
	}
}

func TestSpinnerStatusSameValueNoOp(t *testing.T) {
	s := NewSpinner()
	s.Status("starting")
	s.isNew = false
	s.Status("starting")
	if s.isNew {
		t.Fatalf("expected no-op when status is unchanged")
	}
}

func TestSpinnerStartFinish(t *testing.T) {
	s := NewSpinner()
	s.Start()
	s.Finish()
	if s.spinning {
		t.Fatalf("expected spinner to be stopped after Finish")
	}
}
