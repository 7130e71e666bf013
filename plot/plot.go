// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot resolves whole plot specifications.
//
// A plot resolves in two passes. The backend pass (ResolveBackend)
// resolves the plot before stats exist, computes every layer's stat
// and samplings, and writes the results back into the
// specification. The client pass (Resolve) resolves the written-back
// specification into a Model ready for rendering. Composite figures
// (subplots and ggbunch) resolve each of their plots the same way.
package plot

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/facet"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/layer"
	"github.com/aclements/go-plotspec/scales"
	"github.com/aclements/go-plotspec/spec"
)

// Figure kinds.
const (
	KindPlot     = "plot"
	KindSubplots = "subplots"
	KindBunch    = "ggbunch"
)

// MessagesKey is the specification option holding computation
// messages.
const MessagesKey = "computation_messages"

// A Model is a resolved plot.
type Model struct {
	// Spec is the specification the model was resolved from.
	Spec spec.Node

	// Data is the plot's shared data and Meta its data_meta.
	Data *data.Frame
	Meta *data.Meta

	Layers []*layer.Layer

	Scales  map[aes.Aes]*scales.Scale
	Mappers map[aes.Aes]scales.Mapper

	Coord feature.Coord

	// Facet is the facet partition, or nil.
	Facet facet.Partition

	Title, Subtitle, Caption string

	// Messages are advisory computation messages. They never
	// indicate failure.
	Messages []string
}

// Options control plot resolution.
type Options struct {
	// Parallel resolves the layers of a plot concurrently.
	Parallel bool

	// MaxTicks is the maximum number of generated breaks per
	// continuous scale. If 0, scales.DefaultMaxTicks is used.
	MaxTicks int
}

// Kind returns the figure kind of n: KindPlot, KindSubplots or
// KindBunch. A specification without "kind" is a plot.
func Kind(n spec.Node) (string, error) {
	v, ok := n.Get("kind")
	if !ok || v.IsNull() {
		return KindPlot, nil
	}
	s, ok := v.AsString()
	switch s {
	case KindPlot, KindSubplots, KindBunch:
		return s, nil
	}
	if !ok {
		s = v.String()
	}
	return "", failure.New(failure.UnknownFeatureName,
		"Unknown figure kind: '%s'. Expected: [%s, %s, %s]", s, KindBunch, KindPlot, KindSubplots)
}

// Resolve resolves the plot specification n on the client, after
// ResolveBackend has computed its stats.
func Resolve(n spec.Node, opts Options) (*Model, error) {
	return resolve(n, false, opts)
}

func resolve(n spec.Node, backend bool, opts Options) (*Model, error) {
	if n.Kind() != spec.KindMap {
		return nil, failure.New(failure.TypeMismatch, "Not a Map: plot: %s", n.Kind())
	}
	kind, err := Kind(n)
	if err != nil {
		return nil, err
	}
	if kind != KindPlot {
		return nil, failure.New(failure.InvalidOption, "Plot specification expected but was: %s", kind)
	}
	o := spec.NewOptions(n, nil)
	m := &Model{Spec: n}

	if m.Data, err = data.FromSpec(o.Get("data")); err != nil {
		return nil, errors.Wrap(err, "plot data")
	}
	if m.Meta, err = data.ParseMeta(o.Get("data_meta")); err != nil {
		return nil, err
	}
	layerSpecs, err := o.GetList("layers")
	if err != nil {
		return nil, err
	}
	env := &layer.Env{
		Data:    m.Data,
		Mapping: o.Get("mapping"),
		Meta:    m.Meta,
		MapPlot: isMapPlot(layerSpecs),
		Backend: backend,
	}
	if m.Layers, err = resolveLayers(layerSpecs, env, opts.Parallel); err != nil {
		return nil, err
	}

	// Scales see every layer's bindings.
	metas := []*data.Meta{m.Meta}
	var bindings []layer.VarBinding
	for _, l := range m.Layers {
		metas = append(metas, l.Meta)
		bindings = append(bindings, l.Bindings...)
	}
	scaleSpecs, err := o.GetList("scales")
	if err != nil {
		return nil, err
	}
	configs, err := scales.ParseConfigs(append(layer.ScaleSpecs(metas...), scaleSpecs...))
	if err != nil {
		return nil, err
	}
	res, err := scales.Resolve(bindings, configs, scales.Options{
		ExcludeStatVars: backend,
		MaxTicks:        opts.MaxTicks,
	})
	if err != nil {
		return nil, err
	}
	m.Scales, m.Mappers = res.Scales, res.Mappers

	var def feature.Coord = &feature.Cartesian{}
	if env.MapPlot {
		def = &feature.Map{Projection: "mercator"}
	}
	if m.Coord, err = feature.ResolveCoord(o.Get("coord"), def); err != nil {
		return nil, err
	}

	frames := make([]*data.Frame, len(m.Layers))
	for i, l := range m.Layers {
		frames[i] = l.Combined()
	}
	if m.Facet, err = facet.Resolve(o.Get("facet"), frames); err != nil {
		return nil, err
	}

	if err := m.resolveTitles(o); err != nil {
		return nil, err
	}
	for _, msg := range o.GetAsList(MessagesKey) {
		if s, ok := msg.AsString(); ok {
			m.Messages = append(m.Messages, s)
		}
	}
	return m, nil
}

func (m *Model) resolveTitles(o *spec.Options) error {
	title, err := o.GetMap("ggtitle")
	if err != nil {
		return err
	}
	if m.Title, err = title.GetStringDef("text", ""); err != nil {
		return err
	}
	if m.Subtitle, err = title.GetStringDef("subtitle", ""); err != nil {
		return err
	}
	caption, err := o.GetMap("caption")
	if err != nil {
		return err
	}
	m.Caption, err = caption.GetStringDef("text", "")
	return err
}

// isMapPlot reports whether any layer draws geographic features.
func isMapPlot(layers []spec.Node) bool {
	for _, n := range layers {
		g, _ := n.Get("geom")
		if s, _ := g.AsString(); s == "map" || s == "livemap" {
			return true
		}
	}
	return false
}

// resolveLayers resolves every layer in env. If parallel is set, the
// layers resolve concurrently. Either way, the error of the first
// failing layer in plot order is returned.
func resolveLayers(specs []spec.Node, env *layer.Env, parallel bool) ([]*layer.Layer, error) {
	layers := make([]*layer.Layer, len(specs))
	errs := make([]error, len(specs))
	one := func(i int) {
		errs[i] = catch(func() error {
			var err error
			layers[i], err = layer.Resolve(specs[i], env)
			return err
		})
	}
	if parallel {
		var wg sync.WaitGroup
		for i := range specs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				one(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range specs {
			if one(i); errs[i] != nil {
				break
			}
		}
	}
	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}
	return layers, nil
}
