// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Table aggregates `stack -> count` with put-or-add semantics: a
// repeat Put for an existing key sums the counts rather than
// replacing them. Iteration order is insertion-independent; Write
// sorts keys so that output is stable given identical input, which is
// what the testable properties in spec.md §8 require.
type Table struct {
	counts map[string]int64
}

// NewTable returns an empty occurrence table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int64)}
}

// Put adds count to the value stored for stack, inserting a new entry
// if stack hasn't been seen before.
func (t *Table) Put(stack string, count int64) {
	t.counts[stack] += count
}

// Get returns the count stored for stack and whether it is present.
func (t *Table) Get(stack string) (int64, bool) {
	v, ok := t.counts[stack]
	return v, ok
}

// Size returns the number of distinct stacks in the table.
func (t *Table) Size() int {
	return len(t.counts)
}

// Total returns the sum of all counts in the table.
func (t *Table) Total() int64 {
	var total int64
	for _, v := range t.counts {
		total += v
	}
	return total
}

// Keys returns the distinct stacks in the table in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn once per entry, in stable (sorted-key) order.
func (t *Table) Each(fn func(stack string, count int64)) {
	for _, k := range t.Keys() {
		fn(k, t.counts[k])
	}
}

// Write serializes the table as folded text: one `stack<SP>count<LF>`
// line per entry, in stable order.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var werr error
	t.Each(func(stack string, count int64) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, "%s %d\n", stack, count)
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}
