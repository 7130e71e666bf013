// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layer resolves the layers of a plot specification.
//
// Resolving a layer combines the plot's shared data and mappings
// with the layer's own, picks the layer's geometry, stat and
// position, binds the aesthetics the layer consumes to variables,
// and resolves constants, grouping, tooltips and ordering.
//
// Layers resolve either on the backend, before stats are computed,
// or on the client, after the backend has replaced each layer's data
// with its stat output.
package layer

import (
	"sync"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/geo"
	"github.com/aclements/go-plotspec/geom"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/stat"
)

// A VarBinding binds an aesthetic to a variable of a frame.
type VarBinding struct {
	Aes   aes.Aes
	Var   data.Variable
	Frame *data.Frame
}

// Env holds what a layer inherits from its plot.
type Env struct {
	// Data is the plot's shared data. It may be data.Empty.
	Data *data.Frame

	// Mapping is the plot's "mapping" option.
	Mapping spec.Node

	// Meta is the plot's parsed "data_meta".
	Meta *data.Meta

	// MapPlot is set if any layer of the plot draws geographic
	// features, which keeps positional mappings from disabling
	// geographic data.
	MapPlot bool

	// Backend is set when resolving before stats are computed.
	Backend bool
}

// A Layer is a resolved layer.
type Layer struct {
	Geom geom.Kind
	Stat *stat.Desc

	// Pos is the position adjustment and PosSpec the merged
	// position node it was resolved from.
	Pos     feature.Pos
	PosSpec spec.Node

	// Mappings are the layer's aesthetic mappings, after
	// combination with the plot's and removal of constants.
	Mappings map[aes.Aes]data.Variable

	// Bindings bind the consumed aesthetics, in aesthetic order.
	Bindings []VarBinding

	// Constants are the constant aesthetic values, converted by
	// aes.Convert.
	Constants map[aes.Aes]interface{}

	// Group is the grouping variable, or "".
	Group string

	// ColorBy and FillBy are the aesthetics that supply the
	// layer's color and fill. They are Color and Fill unless
	// redirected by color_by and fill_by.
	ColorBy, FillBy aes.Aes

	// YOrientation is set if the layer is drawn along the y axis.
	YOrientation bool

	Tooltips *Tooltips
	Order    []OrderOption

	// Samplings are the samplings to apply on the backend. They
	// are nil on the client.
	Samplings []feature.Sampling

	// GeoBacked is set if the layer's data was extracted from
	// geometries.
	GeoBacked bool
	MapJoin   *[2][]string

	InheritAes bool
	ShowLegend bool
	ManualKey  spec.Node
	NAText     string

	// Marginal layers are drawn in the plot margin MarginSide
	// ("l", "r", "t" or "b") using MarginSize of the panel.
	Marginal   bool
	MarginSide string
	MarginSize float64

	// OwnData is the layer's own data, before combination.
	OwnData *data.Frame

	// Meta is the layer's parsed "data_meta".
	Meta *data.Meta

	spec     spec.Node
	shared   *data.Frame
	metas    []*data.Meta
	vars     map[aes.Aes]data.Variable
	backend  bool
	combined *lazyFrame
}

// lazyFrame is a combined frame built on first use.
type lazyFrame struct {
	once  sync.Once
	f     *data.Frame
	build func() *data.Frame
}

func (lf *lazyFrame) get() *data.Frame {
	lf.once.Do(func() {
		if lf.f == nil {
			lf.f = lf.build()
		}
	})
	return lf.f
}

// Spec returns the layer's specification node, including any data
// written back by ReplaceOwnData.
func (l *Layer) Spec() spec.Node {
	return l.spec
}

// Combined returns the layer's combined data.
func (l *Layer) Combined() *data.Frame {
	return l.combined.get()
}

// Binding returns the binding of a, if any.
func (l *Layer) Binding(a aes.Aes) (VarBinding, bool) {
	for _, b := range l.Bindings {
		if b.Aes == a {
			return b, true
		}
	}
	return VarBinding{}, false
}

// HasVarBinding reports whether any aesthetic is bound to name.
func (l *Layer) HasVarBinding(name string) bool {
	for _, b := range l.Bindings {
		if b.Var.Name == name {
			return true
		}
	}
	return false
}

// ReplaceOwnData returns a copy of l whose own data is f. The copy's
// specification carries f as its "data" option and its bindings refer
// to the copy's combined data. l is unchanged.
//
// ReplaceOwnData panics if l was resolved on the client.
func (l *Layer) ReplaceOwnData(f *data.Frame) *Layer {
	if !l.backend {
		panic("layer.ReplaceOwnData: client layers are immutable")
	}
	nl := *l
	nl.OwnData = f
	nl.spec = spec.Patch(l.spec, "data", data.ToSpec(f))
	shared, metas, vars := l.shared, l.metas, l.vars
	nl.combined = &lazyFrame{build: func() *data.Frame {
		return combineData(shared, f, metas, vars)
	}}
	if len(l.Bindings) > 0 {
		combined := nl.combined.get()
		nl.Bindings = make([]VarBinding, len(l.Bindings))
		for i, b := range l.Bindings {
			if v, ok := combined.Var(b.Var.Name); ok {
				b.Var = v
			}
			b.Frame = combined
			nl.Bindings[i] = b
		}
	}
	return &nl
}

// Resolve resolves the layer specification n in the plot
// environment env.
func Resolve(n spec.Node, env *Env) (*Layer, error) {
	if n.Kind() != spec.KindMap {
		return nil, failure.New(failure.TypeMismatch, "Not a Map: layer: %s", n.Kind())
	}
	o := spec.NewOptions(n, nil)
	if !o.HasOwn("geom") && !o.HasOwn("stat") {
		return nil, failure.New(failure.MissingOption, "Either 'geom' or 'stat' must be specified.")
	}
	l := &Layer{spec: n, backend: env.Backend, shared: env.Data}
	if l.shared == nil {
		l.shared = data.Empty
	}

	// Geometry, stat and position. A layer naming only a stat
	// draws that stat's usual geometry.
	var err error
	if o.HasOwn("geom") {
		name, err := o.GetStringSafe("geom")
		if err != nil {
			return nil, err
		}
		if l.Geom, err = geom.Lookup(name); err != nil {
			return nil, err
		}
	} else {
		name, err := o.GetStringSafe("stat")
		if err != nil {
			return nil, err
		}
		l.Geom = geom.ForStat(name)
	}
	def := l.Geom.Defaults()
	statName, err := o.GetStringDef("stat", def.Stat)
	if err != nil {
		return nil, err
	}
	if l.Stat, err = stat.Resolve(statName, o); err != nil {
		return nil, err
	}
	if l.PosSpec, err = feature.MergePos(o.Get("position"), def.Pos); err != nil {
		return nil, err
	}
	if l.Pos, err = feature.ResolvePos(l.PosSpec); err != nil {
		return nil, err
	}

	if err := l.resolveFlags(o); err != nil {
		return nil, err
	}

	// Mappings.
	if l.Meta, err = data.ParseMeta(o.Get("data_meta")); err != nil {
		return nil, err
	}
	plotMeta := env.Meta
	if plotMeta == nil {
		plotMeta = &data.Meta{}
	}
	l.metas = []*data.Meta{plotMeta, l.Meta}
	own, err := parseMapping(o.Get("mapping"))
	if err != nil {
		return nil, err
	}
	m := own
	if l.InheritAes {
		shared, err := parseMapping(env.Mapping)
		if err != nil {
			return nil, err
		}
		m = shared.over(own)
	}
	vars, err := variables(m, asDiscrete(l.metas...))
	if err != nil {
		return nil, err
	}

	// Data.
	if l.OwnData, err = data.FromSpec(o.Get("data")); err != nil {
		return nil, err
	}
	combined := combineData(l.shared, l.OwnData, l.metas, vars)

	if l.MapJoin, err = geo.ParseMapJoin(o.Get("map_join")); err != nil {
		return nil, err
	}
	dataGeometry := l.Meta.Geometry
	if dataGeometry == "" {
		dataGeometry = plotMeta.Geometry
	}
	mapMeta, err := data.ParseMeta(o.Get("map_data_meta"))
	if err != nil {
		return nil, err
	}
	if geo.Applicable(m.aesList(), env.MapPlot, dataGeometry, mapMeta.Geometry) {
		mapFrame, err := data.FromSpec(o.Get("map"))
		if err != nil {
			return nil, err
		}
		if mapMeta.Geometry == "" {
			mapFrame = nil
		}
		f, defaults, err := geo.Resolve(geo.Source{
			Geom:         l.Geom.String(),
			Data:         combined,
			DataGeometry: dataGeometry,
			Map:          mapFrame,
			MapGeometry:  mapMeta.Geometry,
			MapJoin:      l.MapJoin,
			Mapped:       len(vars) > 0,
		})
		if err != nil {
			return nil, err
		}
		for a, col := range defaults {
			if _, ok := vars[a]; !ok {
				vars[a] = data.Var(col)
			}
		}
		combined = f
		l.GeoBacked = true
	}

	// Orientation, color_by and the consumed aesthetics.
	if err := l.resolveOrientation(o, vars, combined); err != nil {
		return nil, err
	}
	if l.ColorBy, err = colorBy(o, "color_by", aes.Color); err != nil {
		return nil, err
	}
	if l.FillBy, err = colorBy(o, "fill_by", aes.Fill); err != nil {
		return nil, err
	}
	rendered, consumed := l.consumed()

	keepData := (!l.backend && !l.Stat.IsIdentity()) || l.GeoBacked
	usesData := false
	for a := range vars {
		if consumed[a] {
			usesData = true
			break
		}
	}
	if !usesData && !keepData {
		combined = data.Empty
	}

	// Stat default mappings. On the backend, the stat output does
	// not exist yet.
	if !l.backend {
		for a, v := range l.Stat.DefaultMapping() {
			if l.YOrientation {
				a = aes.Flip(a)
			}
			if _, ok := vars[a]; !ok && combined.Has(v.Name) {
				vars[a] = v
			}
		}
	}

	// Constants win over mappings.
	l.Constants = map[aes.Aes]interface{}{}
	for _, k := range o.OwnKeys() {
		a, ok := aes.Lookup(k)
		if !ok || !rendered[a] {
			continue
		}
		v, ok := aes.Convert(a, o.Get(k))
		if !ok {
			return nil, failure.New(failure.UnconvertibleConstant,
				"Can't convert to '%s' value: %s", a, o.Get(k))
		}
		l.Constants[a] = v
		delete(vars, a)
	}
	l.Mappings = vars
	l.vars = vars

	// Bindings.
	for _, a := range aes.All() {
		v, ok := vars[a]
		if !ok || !consumed[a] {
			continue
		}
		if fv, ok := combined.Var(v.Name); ok {
			v = fv
		} else if !(l.backend && v.Stat) {
			if _, err := combined.Find(v.Name); err != nil {
				return nil, err
			}
		}
		l.Bindings = append(l.Bindings, VarBinding{a, v, combined})
	}

	// Grouping.
	l.Group = m.group
	if l.Group == "" && l.GeoBacked && combined.Has("group") {
		l.Group = "group"
	}
	if l.Group != "" && !combined.IsEmpty() {
		if _, err := combined.Find(l.Group); err != nil {
			return nil, err
		}
	}

	if l.Tooltips, err = parseTooltips(o.Get("tooltips"), tooltipRefs{l, combined}); err != nil {
		return nil, err
	}

	// Ordering. Plot options only apply to variables the layer
	// maps.
	plotOrder, err := orderOptions(plotMeta, m.vars)
	if err != nil {
		return nil, err
	}
	layerOrder, err := orderOptions(l.Meta, m.vars)
	if err != nil {
		return nil, err
	}
	all := append(plotOrder, layerOrder...)
	merged, err := mergeOrderOptions(all)
	if err != nil {
		return nil, err
	}
	if l.backend {
		// The backend only needs to know which variables to keep.
		l.Order = all
	} else {
		l.Order = merged
	}

	if l.backend {
		if l.Samplings, err = feature.ResolveSamplings(o.Get("sampling")); err != nil {
			return nil, err
		}
		if l.Samplings == nil && def.Sampling != nil {
			l.Samplings = []feature.Sampling{*def.Sampling}
		}
	}

	l.combined = &lazyFrame{f: combined}
	return l, nil
}

// resolveFlags reads the layer's boolean and display options.
func (l *Layer) resolveFlags(o *spec.Options) error {
	var err error
	if l.InheritAes, err = o.GetBool("inherit_aes", true); err != nil {
		return err
	}
	if l.ShowLegend, err = o.GetBool("show_legend", true); err != nil {
		return err
	}
	l.ManualKey = o.Get("manual_key")
	if l.NAText, err = o.GetStringDef("na_text", ""); err != nil {
		return err
	}
	if l.Marginal, err = o.GetBool("marginal", false); err != nil {
		return err
	}
	if !l.Marginal {
		return nil
	}
	if l.MarginSide, err = o.GetStringDef("margin_side", "l"); err != nil {
		return err
	}
	switch l.MarginSide {
	case "l", "r", "t", "b":
	default:
		return failure.New(failure.InvalidOption, "Option 'margin_side' expected l|r|t|b but was: %s", l.MarginSide)
	}
	l.MarginSize, err = o.GetDoubleDef("margin_size", 0.1)
	return err
}

// resolveOrientation sets l.YOrientation from the "orientation"
// option. On the backend, a layer without the option is drawn along
// y when its x is continuous and either its y is discrete or it maps
// xmin or xmax.
func (l *Layer) resolveOrientation(o *spec.Options, vars map[aes.Aes]data.Variable, f *data.Frame) error {
	if o.Has("orientation") {
		s, _, err := o.GetString("orientation")
		if err != nil {
			return err
		}
		switch s {
		case "x":
		case "y":
			l.YOrientation = true
		default:
			return failure.New(failure.TypeMismatch, "orientation expected x|y but was: %s", s)
		}
		return nil
	}
	if !l.backend || !geom.OrientationApplicable(l.Geom, l.Stat.Name()) {
		return nil
	}
	discrete := func(a aes.Aes) bool {
		v, ok := vars[a]
		return ok && isDiscrete(f, v)
	}
	if discrete(aes.X) {
		return nil
	}
	_, xmin := vars[aes.XMin]
	_, xmax := vars[aes.XMax]
	l.YOrientation = discrete(aes.Y) || xmin || xmax
	return nil
}

// colorBy resolves a color_by or fill_by option. A constant for def
// cancels the redirection.
func colorBy(o *spec.Options, key string, def aes.Aes) (aes.Aes, error) {
	s, ok, err := o.GetString(key)
	if err != nil || !ok {
		return def, err
	}
	a, known := aes.Lookup(s)
	if !known || !aes.IsColor(a) {
		return def, failure.New(failure.InvalidOption, "'%s' should be an aesthetic related to color but was: %s", key, s)
	}
	if o.HasOwn(def.String()) || (def == aes.Color && o.HasOwn("colour")) {
		return def, nil
	}
	return a, nil
}

// consumed returns the aesthetics the layer renders and the
// aesthetics it consumes: the rendered ones plus, on the backend,
// those the stat consumes. Both are flipped for y orientation.
func (l *Layer) consumed() (rendered, consumed map[aes.Aes]bool) {
	rendered, consumed = map[aes.Aes]bool{}, map[aes.Aes]bool{}
	add := func(set map[aes.Aes]bool, a aes.Aes) {
		if l.YOrientation {
			a = aes.Flip(a)
		}
		set[a] = true
	}
	for _, a := range l.Geom.Renders() {
		switch a {
		case aes.Color:
			a = l.ColorBy
		case aes.Fill:
			a = l.FillBy
		}
		add(rendered, a)
		add(consumed, a)
	}
	if l.backend {
		for _, a := range l.Stat.Consumes() {
			add(consumed, a)
		}
	}
	return rendered, consumed
}
