// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/aclements/go-plotspec/plot"
	"github.com/aclements/go-plotspec/spec"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "backend [specs...]",
		Short: "Compute stats and write the client specification",
		RunE:  runBackend}
	cmd.Flags().StringP("output", "o", "", "write output to `file` (default: stdout)")
	cmd.Flags().String("format", "", "output `format`, json or yaml (default: yaml on a terminal, json otherwise)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "resolve [specs...]",
		Short: "Resolve specifications and print a summary",
		RunE:  runResolve}
	cmd.Flags().Bool("data", false, "also print every layer's data")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "check [specs...]",
		Short: "Report specifications that fail to resolve",
		RunE:  runCheck}
	root.AddCommand(cmd)
}

// An input is one decoded specification file.
type input struct {
	path string
	spec spec.Node
	err  error
}

// readInputs decodes every path. "-" is standard input. No paths
// reads standard input.
func readInputs(paths []string) []input {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var ins []input
	for _, path := range paths {
		in := input{path: path}
		func() {
			f := os.Stdin
			if path != "-" {
				f, in.err = os.Open(path)
				if in.err != nil {
					return
				}
				defer f.Close()
			}
			in.spec, in.err = spec.Decode(f)
		}()
		ins = append(ins, in)
	}
	return ins
}

func runBackend(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if format == "" {
		format = "json"
		if w == os.Stdout && terminal.IsTerminal(int(os.Stdout.Fd())) {
			format = "yaml"
		}
	}
	var encode func(io.Writer, spec.Node) error
	switch format {
	case "json":
		encode = spec.EncodeJSON
	case "yaml":
		encode = spec.EncodeYAML
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	for i, in := range readInputs(args) {
		if in.err != nil {
			return fmt.Errorf("%s: %v", in.path, in.err)
		}
		if i > 0 && format == "yaml" {
			fmt.Fprintln(w, "---")
		}
		if err := encode(w, plot.Process(in.spec, options())); err != nil {
			return err
		}
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	withData, _ := cmd.Flags().GetBool("data")
	ins := readInputs(args)
	for _, in := range ins {
		if len(ins) > 1 {
			fmt.Printf("# %s\n", in.path)
		}
		if in.err != nil {
			return fmt.Errorf("%s: %v", in.path, in.err)
		}
		if err := resolve(os.Stdout, in.spec, withData); err != nil {
			return fmt.Errorf("%s: %s", in.path, plot.Classify(err).Message)
		}
	}
	return nil
}

// resolve runs both passes over n and prints the result to w.
func resolve(w io.Writer, n spec.Node, withData bool) error {
	kind, err := plot.Kind(n)
	if err != nil {
		return err
	}
	if kind != plot.KindPlot {
		out, _, err := plot.ResolveFigureBackend(n, options())
		if err != nil {
			return err
		}
		fig, err := plot.ResolveFigure(out, options())
		if err != nil {
			return err
		}
		return fig.Fprint(w)
	}

	out, _, err := plot.ResolveBackend(n, options())
	if err != nil {
		return err
	}
	m, err := plot.Resolve(out, options())
	if err != nil {
		return err
	}
	if err := m.Fprint(w); err != nil {
		return err
	}
	if withData {
		return m.FprintData(w)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ins := readInputs(args)
	failed := 0
	for _, in := range ins {
		if in.err != nil {
			log.Printf("%s: %v", in.path, in.err)
			failed++
			continue
		}
		out := plot.Process(in.spec, options())
		if plot.IsFailure(out) {
			msg, _ := out.Get(plot.ErrorMessageKey)
			s, _ := msg.AsString()
			log.Printf("%s: %s", in.path, s)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specifications failed", failed, len(ins))
	}
	return nil
}
