// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exposes Prometheus counters for the flamegraph
// command: stacks collapsed, frames rendered, and parse
// warnings encountered, optionally served over HTTP for scrape-based
// monitoring of long-running batch conversions.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flamegraph_"

var (
	// StacksCollapsed counts folded-line records a collapser emitted,
	// labeled by the input format it matched.
	StacksCollapsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "stacks_collapsed_total",
			Help: "Number of folded stack records emitted by collapsing.",
		},
		[]string{"format"},
	)

	// FramesRendered counts the rectangles a Render call emitted,
	// labeled by the palette in use.
	FramesRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "frames_rendered_total",
			Help: "Number of frame rectangles written to an SVG output.",
		},
		[]string{"palette"},
	)

	// ParseWarnings counts recoverable parse anomalies, labeled by the
	// collapser that logged them. Only the VTune collapser's
	// fractional-microsecond truncation warning increments it; skipped
	// malformed lines are not counted.
	ParseWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "parse_warnings_total",
			Help: "Number of non-fatal parse warnings logged during collapsing.",
		},
		[]string{"collapser"},
	)
)

func init() {
	prometheus.MustRegister(StacksCollapsed, FramesRendered, ParseWarnings)
}

// Serve starts a background HTTP server exposing /metrics in
// Prometheus text-exposition format, returning a shutdown function the
// caller should invoke (e.g. via defer) before the process exits.
func Serve(addr string) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	slog.Info("starting metrics server", slog.String("address", addr))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server exited", slog.String("error", err.Error()))
		}
	}()
	return server.Shutdown
}
