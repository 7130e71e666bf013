// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scales resolves the transforms, scales and mappers that
// all layers of a plot share.
//
// Resolution classifies every aesthetic as discrete or continuous,
// forces every aesthetic of an axis discrete if any of them is,
// computes discrete and continuous domains from the data of all
// layers, and finally builds a mapper for each non-positional
// aesthetic. Classification completes for every aesthetic before
// any mapper is built.
package scales

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/layer"
	"github.com/aclements/go-plotspec/transform"
)

// A Scale pairs the transform of an aesthetic with its display
// metadata.
type Scale struct {
	Aes  aes.Aes
	Name string

	// Transform is shared by every aesthetic of an axis.
	Transform transform.Transform

	// Domain is the continuous domain in data space, or nil if
	// the scale is discrete or has neither data nor limits.
	Domain *[2]float64

	// Breaks are the configured breaks or, for a continuous
	// scale, generated ticks. Labels are the configured labels
	// or the formatted generated ticks.
	Breaks []interface{}
	Labels []string
	Format string
	LabLim int

	Expand   []float64
	Position string
	Guide    *feature.Guide
	DateTime bool
}

// IsDiscrete reports whether s has a discrete domain.
func (s *Scale) IsDiscrete() bool {
	return s.Transform.IsDiscrete()
}

func (s *Scale) String() string {
	return fmt.Sprintf("%s: %s %s", s.Aes, s.Name, s.Transform)
}

// Options control resolution.
type Options struct {
	// ExcludeStatVars ignores bindings to stat variables, whose
	// data does not exist until stats are computed.
	ExcludeStatVars bool

	// MaxTicks is the maximum number of generated breaks. If 0,
	// DefaultMaxTicks is used.
	MaxTicks int
}

// DefaultMaxTicks is the default maximum number of generated breaks
// of a continuous scale.
const DefaultMaxTicks = 5

// A Result holds one scale per aesthetic and one mapper per
// non-positional aesthetic.
type Result struct {
	Scales  map[aes.Aes]*Scale
	Mappers map[aes.Aes]Mapper
}

// Aesthetics returns the aesthetics of r's scales in canonical
// order.
func (r *Result) Aesthetics() []aes.Aes {
	as := make([]aes.Aes, 0, len(r.Scales))
	for a := range r.Scales {
		as = append(as, a)
	}
	aes.Sort(as)
	return as
}

// resolver holds the state of one Resolve call.
type resolver struct {
	opts     Options
	configs  map[aes.Aes]*Config
	bindings map[aes.Aes][]layer.VarBinding
	all      []aes.Aes

	discrete   map[aes.Aes]bool
	transforms map[aes.Aes]transform.Transform
	domains    map[aes.Aes]*[2]float64
}

// Resolve resolves the scales of the given bindings of all layers
// of a plot. configs are the parsed scale configurations; it may be
// nil.
func Resolve(bindings []layer.VarBinding, configs map[aes.Aes]*Config, opts Options) (*Result, error) {
	if opts.MaxTicks == 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	r := &resolver{
		opts:       opts,
		configs:    configs,
		bindings:   map[aes.Aes][]layer.VarBinding{},
		discrete:   map[aes.Aes]bool{},
		transforms: map[aes.Aes]transform.Transform{},
		domains:    map[aes.Aes]*[2]float64{},
	}

	seen := map[aes.Aes]bool{aes.X: true, aes.Y: true}
	for _, b := range bindings {
		seen[b.Aes] = true
		if opts.ExcludeStatVars && b.Var.Stat {
			continue
		}
		if b.Frame == nil || !b.Frame.Has(b.Var.Name) {
			continue
		}
		r.bindings[b.Aes] = append(r.bindings[b.Aes], b)
	}
	for a := range configs {
		seen[a] = true
	}
	for a := range seen {
		r.all = append(r.all, a)
	}
	aes.Sort(r.all)

	// Classify every aesthetic before building any domain or
	// mapper: axis sharing can reclassify an aesthetic.
	for _, a := range r.all {
		r.discrete[a] = r.classify(a)
	}
	for _, axis := range []aes.Aes{aes.X, aes.Y} {
		members := r.axisMembers(axis)
		forced := false
		for _, a := range members {
			forced = forced || r.discrete[a]
		}
		if !forced {
			continue
		}
		for _, a := range members {
			r.discrete[a] = true
		}
	}

	if err := r.resolveTransforms(); err != nil {
		return nil, err
	}

	res := &Result{Scales: map[aes.Aes]*Scale{}, Mappers: map[aes.Aes]Mapper{}}
	for _, a := range r.all {
		res.Scales[a] = r.scale(a)
	}
	for _, a := range r.all {
		if aes.IsPositional(a) {
			continue
		}
		d := domainSpec{lo: math.NaN(), hi: math.NaN()}
		switch t := r.transforms[a].(type) {
		case *transform.Discrete:
			d.discrete = t
		case *transform.Continuous:
			if dom := r.domains[a]; dom != nil {
				d.lo, d.hi = t.F(dom[0]), t.F(dom[1])
				if d.lo > d.hi {
					d.lo, d.hi = d.hi, d.lo
				}
			}
		}
		m, err := newMapper(a, r.configs[a], d)
		if err != nil {
			return nil, err
		}
		res.Mappers[a] = m
	}
	return res, nil
}

// config returns the configuration of a. Positional aesthetics
// without their own configuration use their axis'.
func (r *resolver) config(a aes.Aes) *Config {
	if c, ok := r.configs[a]; ok {
		return c
	}
	if axis, ok := aes.Axis(a); ok {
		return r.configs[axis]
	}
	return nil
}

// axisMembers returns the resolved aesthetics on axis.
func (r *resolver) axisMembers(axis aes.Aes) []aes.Aes {
	var out []aes.Aes
	for _, a := range r.all {
		if ax, ok := aes.Axis(a); ok && ax == axis {
			out = append(out, a)
		}
	}
	return out
}

// classify reports whether a is discrete, in order of precedence:
// explicit configuration, non-numeric or discrete-marked data, and
// for empty data the configuration's hint.
func (r *resolver) classify(a aes.Aes) bool {
	c := r.config(a)
	if c != nil && c.Discrete {
		return true
	}
	hasData := false
	for _, b := range r.bindings[a] {
		name := b.Var.Name
		if b.Frame.IsDiscrete(name) {
			return true
		}
		if len(b.Frame.Distinct(name)) == 0 {
			continue
		}
		hasData = true
		if !b.Frame.IsNumeric(name) {
			return true
		}
	}
	if !hasData {
		d, _ := c.discreteHint()
		return d
	}
	return false
}

// discreteOf builds the discrete transform of a alone: configured
// breaks, then factor levels, then observed values.
func (r *resolver) discreteOf(a aes.Aes) *transform.Discrete {
	c := r.config(a)
	var values, limits []interface{}
	reverse := false
	if c != nil {
		values = append(values, c.Breaks...)
		limits = c.Limits
		reverse = c.Reverse
	}
	for _, b := range r.bindings[a] {
		values = append(values, b.Frame.Levels(b.Var.Name)...)
		values = append(values, b.Frame.Distinct(b.Var.Name)...)
	}
	return transform.NewDiscrete(values, reverse, limits)
}

// continuousOf builds the continuous transform of c.
func continuousOf(c *Config) (*transform.Continuous, error) {
	t := transform.Identity()
	if c == nil {
		return t, nil
	}
	if c.Trans != "" {
		var err error
		if t, err = feature.ContinuousTransform(c.Trans); err != nil {
			return nil, err
		}
	}
	lower, upper, err := c.continuousLimits()
	if err != nil {
		return nil, err
	}
	if lower != nil || upper != nil {
		t = t.WithLimits(lower, upper)
	}
	return t, nil
}

// domainOf computes the continuous domain of the data of as under t:
// the union of the ranges of every binding, restricted to t's
// limits and to values t can transform.
func (r *resolver) domainOf(t *transform.Continuous, as ...aes.Aes) *[2]float64 {
	var xs []float64
	for _, a := range as {
		if aes.IsPositional(a) && !aes.AffectsScale(a) {
			continue
		}
		for _, b := range r.bindings[a] {
			for _, x := range b.Frame.Floats(b.Var.Name) {
				if t.InDomain(x) {
					xs = append(xs, x)
				}
			}
		}
	}
	lo, hi := math.NaN(), math.NaN()
	if len(xs) > 0 {
		lo, hi = stats.Bounds(xs)
	}
	if lo, hi, ok := t.ApplicableDomain(lo, hi); ok {
		return &[2]float64{lo, hi}
	}
	if t.Lower != nil && t.Upper != nil {
		return &[2]float64{*t.Lower, *t.Upper}
	}
	return nil
}

func (r *resolver) resolveTransforms() error {
	done := map[aes.Aes]bool{}

	// Axes share one transform among all of their aesthetics.
	for _, axis := range []aes.Aes{aes.X, aes.Y} {
		members := r.axisMembers(axis)
		if len(members) == 0 {
			continue
		}
		if r.discrete[axis] {
			parts := make([]*transform.Discrete, len(members))
			for i, a := range members {
				parts[i] = r.discreteOf(a)
			}
			shared := transform.Join(parts...)
			for _, a := range members {
				r.transforms[a] = shared
				done[a] = true
			}
			continue
		}
		t, err := continuousOf(r.configs[axis])
		if err != nil {
			return err
		}
		dom := r.domainOf(t, members...)
		for _, a := range members {
			r.transforms[a] = t
			r.domains[a] = dom
			done[a] = true
		}
	}

	for _, a := range r.all {
		if done[a] {
			continue
		}
		if r.discrete[a] {
			r.transforms[a] = r.discreteOf(a)
			continue
		}
		t, err := continuousOf(r.config(a))
		if err != nil {
			return err
		}
		r.transforms[a] = t
		r.domains[a] = r.domainOf(t, a)
	}
	return nil
}

// scale assembles the scale of a from its transform and
// configuration.
func (r *resolver) scale(a aes.Aes) *Scale {
	s := &Scale{Aes: a, Transform: r.transforms[a], Domain: r.domains[a]}
	c := r.config(a)
	if c != nil {
		s.Breaks = c.Breaks
		s.Labels = c.Labels
		s.Format = c.Format
		s.LabLim = c.LabLim
		s.Expand = c.Expand
		s.Position = c.Position
		s.Guide = c.Guide
		s.DateTime = c.DateTime
	}
	if c != nil && c.HasName {
		s.Name = c.Name
	} else {
		s.Name = r.defaultName(a)
	}
	for _, b := range r.bindings[a] {
		if b.Frame.IsDateTime(b.Var.Name) {
			s.DateTime = true
		}
	}

	t, ok := s.Transform.(*transform.Continuous)
	if ok && s.Breaks == nil && s.Domain != nil {
		s.Breaks, s.Labels = ticks(t, s.Domain, r.opts.MaxTicks, s.Format, s.Labels)
	}
	return s
}

// defaultName names a scale after the labels of its variables.
func (r *resolver) defaultName(a aes.Aes) string {
	var names []string
	seen := map[string]bool{}
	for _, b := range r.bindings[a] {
		l := b.Var.Label
		if l == "" {
			l = b.Var.Name
		}
		if !seen[l] {
			seen[l] = true
			names = append(names, l)
		}
	}
	if len(names) == 0 {
		return a.String()
	}
	return strings.Join(names, ", ")
}

// ticks generates the breaks of a continuous domain in transformed
// space and returns them in data space. Configured labels win over
// formatted ticks.
func ticks(t *transform.Continuous, dom *[2]float64, max int, format string, labels []string) ([]interface{}, []string) {
	lo, hi := t.F(dom[0]), t.F(dom[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, labels
	}
	if lo == hi {
		return []interface{}{dom[0]}, labelsOr(labels, []string{FormatNumber(format, dom[0])})
	}
	ls := scale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(scale.TickOptions{Max: max})
	breaks := make([]interface{}, len(major))
	formatted := make([]string, len(major))
	for i, x := range major {
		v := t.Inv(x)
		breaks[i] = v
		formatted[i] = FormatNumber(format, v)
	}
	return breaks, labelsOr(labels, formatted)
}

func labelsOr(labels, def []string) []string {
	if labels != nil {
		return labels
	}
	return def
}

// FormatNumber formats x with a printf verb or a bare verb such as
// ".2f", "d" or "%".
func FormatNumber(format string, x float64) string {
	switch {
	case format == "":
		return fmt.Sprintf("%.6g", x)
	case format == "d":
		return fmt.Sprintf("%d", int64(math.Round(x)))
	case strings.HasSuffix(format, "%") && !strings.HasPrefix(format, "%"):
		return fmt.Sprintf("%"+strings.TrimSuffix(format, "%")+"f%%", 100*x)
	case strings.Contains(format, "%"):
		return fmt.Sprintf(format, x)
	}
	return fmt.Sprintf("%"+format, x)
}
