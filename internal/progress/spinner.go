// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress provides a single-line terminal spinner for the
flamegraph CLI to report collapse/render phase status
while streaming a potentially large profile through stdin.
*/
package progress

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner reports phase status on stderr, redrawing in place when
// stderr is a terminal and printing one line per status change
// otherwise (e.g. when output is redirected to a file or CI log).
type Spinner struct {
	status    string
	isNew     bool
	spinIndex int
	ticker    *time.Ticker
	done      chan bool
	spinning  bool
}

// NewSpinner creates a Spinner whose initial status is "starting".
func NewSpinner() *Spinner {
	return &Spinner{done: make(chan bool), status: "starting"}
}

// Start begins redrawing the spinner every 250ms until Finish is called.
func (s *Spinner) Start() {
	s.isNew = true
	s.draw(true)
	s.ticker = time.NewTicker(250 * time.Millisecond)
	s.spinning = true
	go s.onTick()
}

// Finish stops the spinner and clears its line.
func (s *Spinner) Finish() {
	if !s.spinning {
		return
	}
	s.ticker.Stop()
	s.done <- true
	s.spinning = false
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprint(os.Stderr, "\r\x1b[2K")
	}
}

// Status updates the label shown by the spinner.
func (s *Spinner) Status(status string) {
	if status != s.status {
		s.status = status
		s.isNew = true
	}
}

func (s *Spinner) onTick() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.draw(true)
		}
	}
}

func (s *Spinner) draw(goUp bool) {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	if !isTTY && !s.isNew {
		return
	}
	fmt.Fprintf(os.Stderr, "%s  %-40s\n", spinChars[s.spinIndex], s.status)
	s.isNew = false
	s.spinIndex = (s.spinIndex + 1) % len(spinChars)
	if goUp && isTTY {
		fmt.Fprint(os.Stderr, "\x1b[1A")
	}
}
