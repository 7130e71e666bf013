// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"github.com/pkg/errors"

	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// A Figure is a resolved composite figure.
type Figure struct {
	// Kind is KindSubplots or KindBunch.
	Kind string

	Items []*Item

	// NCol and NRow are the dimensions of a subplots grid.
	NCol, NRow int
}

// An Item is one cell of a composite figure.
type Item struct {
	// Exactly one of Plot and Figure is set, unless the item is a
	// blank subplots cell.
	Plot   *Model
	Figure *Figure

	// X, Y, Width and Height place a ggbunch item. Width and
	// Height are 0 if the item keeps its natural size.
	X, Y, Width, Height float64
}

// Blank reports whether it is an empty subplots cell.
func (it *Item) Blank() bool {
	return it.Plot == nil && it.Figure == nil
}

// Messages returns the computation messages of every plot in f, in
// item order.
func (f *Figure) Messages() []string {
	var msgs []string
	for _, it := range f.Items {
		switch {
		case it.Plot != nil:
			msgs = append(msgs, it.Plot.Messages...)
		case it.Figure != nil:
			msgs = append(msgs, it.Figure.Messages()...)
		}
	}
	return msgs
}

// plotFunc resolves one plot of a figure, returning the specification
// that replaces it.
type plotFunc func(n spec.Node) (spec.Node, *Model, error)

// ResolveFigure resolves the composite figure specification n on the
// client.
func ResolveFigure(n spec.Node, opts Options) (*Figure, error) {
	_, f, err := resolveFigure(n, func(n spec.Node) (spec.Node, *Model, error) {
		m, err := Resolve(n, opts)
		return n, m, err
	})
	return f, err
}

// ResolveFigureBackend runs ResolveBackend on every plot of the
// composite figure specification n and returns the figure
// specification with every plot replaced by its backend result.
func ResolveFigureBackend(n spec.Node, opts Options) (spec.Node, *Figure, error) {
	return resolveFigure(n, func(n spec.Node) (spec.Node, *Model, error) {
		return ResolveBackend(n, opts)
	})
}

func resolveFigure(n spec.Node, plot plotFunc) (spec.Node, *Figure, error) {
	if n.Kind() != spec.KindMap {
		return spec.Null, nil, failure.New(failure.TypeMismatch, "Not a Map: figure: %s", n.Kind())
	}
	kind, err := Kind(n)
	if err != nil {
		return spec.Null, nil, err
	}
	switch kind {
	case KindSubplots:
		return resolveSubplots(n, plot)
	case KindBunch:
		return resolveBunch(n, plot)
	}
	return spec.Null, nil, failure.New(failure.InvalidOption, "Composite figure expected but was: %s", kind)
}

func resolveSubplots(n spec.Node, plot plotFunc) (spec.Node, *Figure, error) {
	o := spec.NewOptions(n, nil)
	fig := &Figure{Kind: KindSubplots}

	figs, err := o.GetList("figures")
	if err != nil {
		return spec.Null, nil, err
	}
	if err := fig.resolveLayout(o, len(figs)); err != nil {
		return spec.Null, nil, err
	}

	out := make([]spec.Node, len(figs))
	for i, fn := range figs {
		item := &Item{}
		out[i] = fn
		if s, _ := fn.AsString(); fn.IsNull() || s == "blank" {
			fig.Items = append(fig.Items, item)
			continue
		}
		if fn.Kind() != spec.KindMap {
			return spec.Null, nil, failure.New(failure.TypeMismatch,
				"Subplots: a figure spec (a Map) expected but was: %s", fn.Kind())
		}
		kind, err := Kind(fn)
		if err != nil {
			return spec.Null, nil, err
		}
		switch kind {
		case KindPlot:
			out[i], item.Plot, err = plot(fn)
		case KindSubplots:
			out[i], item.Figure, err = resolveSubplots(fn, plot)
		case KindBunch:
			err = failure.New(failure.InvalidOption, "Subplots: GGBunch can't be a part of subplots.")
		}
		if err != nil {
			return spec.Null, nil, errors.Wrapf(err, "figure %d", i)
		}
		fig.Items = append(fig.Items, item)
	}
	if figs != nil {
		n = spec.Patch(n, "figures", out)
	}
	return n, fig, nil
}

// resolveLayout resolves the "layout" of a subplots figure with n
// cells. A missing dimension is derived from the other.
func (fig *Figure) resolveLayout(o *spec.Options, n int) error {
	if !o.Has("layout") {
		return failure.New(failure.MissingOption, "Subplots: absent required attribute: layout")
	}
	layout, err := o.GetMap("layout")
	if err != nil {
		return err
	}
	name, err := layout.GetStringSafe("name")
	if err != nil {
		return err
	}
	if name != "grid" {
		return failure.New(failure.UnknownFeatureName,
			"Unsupported subplots layout: '%s'. Expected: [grid]", name)
	}
	ncol, hasCol, err := layout.GetInt("ncol")
	if err != nil {
		return err
	}
	nrow, hasRow, err := layout.GetInt("nrow")
	if err != nil {
		return err
	}
	if (hasCol && ncol <= 0) || (hasRow && nrow <= 0) {
		return failure.New(failure.InvalidOption,
			"Subplots: grid layout dimensions must be positive but were: %d x %d", ncol, nrow)
	}
	switch {
	case !hasCol && !hasRow:
		ncol, nrow = n, 1
	case !hasRow:
		nrow = (n + ncol - 1) / ncol
	case !hasCol:
		ncol = (n + nrow - 1) / nrow
	}
	if ncol*nrow < n {
		return failure.New(failure.InvalidOption,
			"Subplots: grid layout %d x %d can't hold %d figures", ncol, nrow, n)
	}
	fig.NCol, fig.NRow = ncol, nrow
	return nil
}

func resolveBunch(n spec.Node, plot plotFunc) (spec.Node, *Figure, error) {
	o := spec.NewOptions(n, nil)
	fig := &Figure{Kind: KindBunch}

	items, err := o.GetList("items")
	if err != nil {
		return spec.Null, nil, err
	}
	out := make([]spec.Node, len(items))
	for i, in := range items {
		if in.Kind() != spec.KindMap {
			return spec.Null, nil, failure.New(failure.TypeMismatch,
				"GGBunch item: a Map expected but was: %s", in.Kind())
		}
		item, ps, err := resolveBunchItem(in, plot)
		if err != nil {
			return spec.Null, nil, errors.Wrapf(err, "item %d", i)
		}
		out[i] = spec.Patch(in, "feature_spec", ps)
		fig.Items = append(fig.Items, item)
	}
	if items != nil {
		n = spec.Patch(n, "items", out)
	}
	return n, fig, nil
}

func resolveBunchItem(n spec.Node, plot plotFunc) (*Item, spec.Node, error) {
	o := spec.NewOptions(n, nil)
	if !o.Has("feature_spec") {
		return nil, spec.Null, failure.New(failure.MissingOption,
			"GGBunch item: absent required attribute: feature_spec")
	}
	fs := o.Get("feature_spec")
	kind, err := Kind(fs)
	if err != nil {
		return nil, spec.Null, err
	}
	if kind != KindPlot {
		return nil, spec.Null, failure.New(failure.InvalidOption,
			"GGBunch item: a plot expected but was: %s", kind)
	}

	item := &Item{}
	for _, f := range []struct {
		key string
		dst *float64
	}{{"x", &item.X}, {"y", &item.Y}, {"width", &item.Width}, {"height", &item.Height}} {
		if *f.dst, err = o.GetDoubleDef(f.key, 0); err != nil {
			return nil, spec.Null, err
		}
	}
	if item.Width < 0 || item.Height < 0 {
		return nil, spec.Null, failure.New(failure.InvalidOption,
			"GGBunch item: negative size: %g x %g", item.Width, item.Height)
	}

	ps, m, err := plot(fs)
	if err != nil {
		return nil, spec.Null, err
	}
	item.Plot = m
	return item, ps, nil
}

// Process runs the backend pass on any figure specification: a plot,
// subplots or ggbunch. If resolution fails, Process returns the
// failure specification for the error instead. Internal errors are
// also logged to Warning.
func Process(n spec.Node, opts Options) spec.Node {
	var out spec.Node
	err := catch(func() error {
		kind, err := Kind(n)
		if err != nil {
			return err
		}
		if kind == KindPlot {
			out, _, err = ResolveBackend(n, opts)
		} else {
			out, _, err = ResolveFigureBackend(n, opts)
		}
		return err
	})
	if err != nil {
		if Classify(err).Internal {
			Warning.Printf("%+v", err)
		}
		return FailureSpec(err)
	}
	return out
}
