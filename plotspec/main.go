// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command plotspec resolves plot specifications.
//
// Usage:
//
//	plotspec backend [-o file] [--format json|yaml] [specs...]
//	plotspec resolve [--data] [specs...]
//	plotspec check [specs...]
//
// Each spec is a file holding one YAML or JSON plot, subplots or
// ggbunch specification. "-" or no arguments reads standard input.
//
// backend computes stats and samplings and writes the specification
// a client would render, or a failure specification if resolution
// fails. resolve runs both passes and prints a summary of the
// resolved plots. check resolves every spec and exits with status 1
// if any of them fails.
//
// Flags in the PLOTSPEC_FLAGS environment variable are inserted
// before the flags on the command line. They are split like a shell
// command line.
package main

import (
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/aclements/go-plotspec/plot"
)

var (
	flagParallel   bool
	flagMaxTicks   int
	flagCPUProfile string
	flagVerbose    bool
)

func main() {
	log.SetPrefix("plotspec: ")
	log.SetFlags(0)

	root := &cobra.Command{
		Use:               "plotspec",
		Short:             "Resolve plot specifications",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if flagCPUProfile != "" {
				pprof.StopCPUProfile()
			}
		},
	}
	root.PersistentFlags().BoolVar(&flagParallel, "parallel", false, "resolve the layers of a plot concurrently")
	root.PersistentFlags().IntVar(&flagMaxTicks, "max-ticks", 0, "generate at most `n` breaks per continuous scale")
	root.PersistentFlags().StringVar(&flagCPUProfile, "cpuprofile", "", "write CPU profile to `file`")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log computation messages")
	addCommands(root)

	args, err := withEnvFlags(os.Getenv("PLOTSPEC_FLAGS"), os.Args[1:])
	if err != nil {
		log.Fatal("PLOTSPEC_FLAGS: ", err)
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setup(*cobra.Command, []string) error {
	if !flagVerbose {
		plot.Quiet()
	}
	if flagCPUProfile != "" {
		f, err := os.Create(flagCPUProfile)
		if err != nil {
			return err
		}
		return pprof.StartCPUProfile(f)
	}
	return nil
}

// withEnvFlags inserts the flags in env after the subcommand name in
// args, or at the front if args does not start with one.
func withEnvFlags(env string, args []string) ([]string, error) {
	extra, err := shellquote.Split(env)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return args, nil
	}
	out := make([]string, 0, len(args)+len(extra))
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		out = append(out, args[0])
		args = args[1:]
	}
	out = append(out, extra...)
	return append(out, args...), nil
}

func options() plot.Options {
	return plot.Options{Parallel: flagParallel, MaxTicks: flagMaxTicks}
}
