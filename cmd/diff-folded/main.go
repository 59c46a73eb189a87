// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Command diff-folded joins two folded stack profiles on stack
// identity and writes a three-column differential folded stream
// suitable for a differential flame graph.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"flamegraph/internal/app"
	"flamegraph/internal/diff"
	"flamegraph/internal/errs"
	"flamegraph/internal/util"
)

var rootCmd = &cobra.Command{
	Use:           app.Name + " [OPTIONS] BEFORE_FILE AFTER_FILE",
	Short:         "Merge two folded profiles into a differential folded stream",
	Example:       fmt.Sprintf("  $ %s --normalize before.folded after.folded > diff.folded", app.Name),
	Args:          validateArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCmd,
}

var (
	flagNormalize bool
	flagStripHex  bool
	flagOutput    string
	flagDebug     bool
)

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&flagNormalize, "normalize", false, "scale the before column so its total matches the after column's total")
	flags.BoolVar(&flagStripHex, "strip-hex", false, "mask 0x... hex runs in stack frames before joining, merging stacks that differ only in address")
	flags.StringVarP(&flagOutput, "output", "o", "", "write output to this file instead of standard output")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging to standard error")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errs.Newf(errs.ConfigurationError, "expected BEFORE_FILE and AFTER_FILE, got %d argument(s)", len(args))
	}
	return nil
}

func openFile(path string) (io.ReadCloser, error) {
	exists, err := util.FileExists(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.ConfigurationError, fmt.Sprintf("input %q", path))
	}
	if !exists {
		return nil, errs.Newf(errs.ConfigurationError, "input file %q does not exist", path)
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, errs.Wrap(err, errs.IoError, fmt.Sprintf("opening %q", path))
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openOutput() (io.WriteCloser, error) {
	if flagOutput == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(flagOutput) // #nosec G304
	if err != nil {
		return nil, errs.Wrap(err, errs.IoError, fmt.Sprintf("creating output %q", flagOutput))
	}
	return f, nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &logOpts)))

	before, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer before.Close()

	after, err := openFile(args[1])
	if err != nil {
		return err
	}
	defer after.Close()

	out, err := openOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	return diff.Merge(before, after, diff.Options{
		Normalize: flagNormalize,
		StripHex:  flagStripHex,
	}, out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// spec.md §6: diff-folded has only two exit codes, 0 and 2;
		// unlike flamegraph it draws no distinction among failure kinds.
		os.Exit(2)
	}
}
