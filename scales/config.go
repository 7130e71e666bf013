// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"strings"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/spec"
)

// Mapper kinds.
const (
	KindIdentity       = "identity"
	KindColorGradient  = "color_gradient"
	KindColorGradient2 = "color_gradient2"
	KindColorGradientN = "color_gradientn"
	KindColorHue       = "color_hue"
	KindColorGrey      = "color_grey"
	KindColorBrewer    = "color_brewer"
	KindColorCmap      = "color_cmap"
	KindSizeArea       = "size_area"
	KindSize           = "size"
	KindAlpha          = "alpha"
	KindShape          = "shape"
	KindLinetype       = "linetype"
)

var mapperKinds = []string{
	KindAlpha, KindColorBrewer, KindColorCmap, KindColorGradient,
	KindColorGradient2, KindColorGradientN, KindColorGrey, KindColorHue,
	KindIdentity, KindLinetype, KindShape, KindSize, KindSizeArea,
}

// discreteKinds and continuousKinds classify the aesthetics of
// mapper kinds whose data is empty.
var discreteKinds = map[string]bool{
	KindColorHue: true, KindColorGrey: true, KindShape: true, KindLinetype: true,
}

var continuousKinds = map[string]bool{
	KindColorGradient: true, KindColorGradient2: true, KindColorGradientN: true,
	KindColorCmap: true, KindSizeArea: true, KindSize: true, KindAlpha: true,
}

// A Config is the merged scale configuration of one aesthetic.
type Config struct {
	Aes aes.Aes

	Name    string
	HasName bool

	// Discrete forces a discrete domain.
	Discrete bool
	Reverse  bool

	DateTime bool

	Breaks []interface{}
	Labels []string
	Format string
	LabLim int

	// Limits holds the raw limit values. For a continuous scale
	// they are [lower, upper], either of which may be nil.
	Limits []interface{}

	// Expand is [multiplicative, additive]; either may be absent.
	Expand []float64

	Trans    string
	Position string
	Guide    *feature.Guide

	MapperKind string

	// Values are manual output values.
	Values []interface{}

	// NA is the output of missing values, or nil for the default.
	NA interface{}

	// Options holds every option, for mapper parameters.
	Options *spec.Options
}

var positions = []string{"left", "right", "top", "bottom", "both"}

// ParseConfigs parses the "scales" list of a plot. Several configs
// for one aesthetic are merged, with later options replacing earlier
// ones.
func ParseConfigs(nodes []spec.Node) (map[aes.Aes]*Config, error) {
	merged := map[aes.Aes]spec.Node{}
	var order []aes.Aes
	for _, n := range nodes {
		if n.Kind() != spec.KindMap {
			return nil, failure.New(failure.TypeMismatch, "Not a Map: scale: %s", n.Kind())
		}
		o := spec.NewOptions(n, nil)
		if !o.Has("aesthetic") {
			return nil, failure.New(failure.MissingOption, "Required parameter 'aesthetic' is missing")
		}
		name, err := o.GetStringSafe("aesthetic")
		if err != nil {
			return nil, err
		}
		a, ok := aes.Lookup(name)
		if !ok {
			return nil, failure.New(failure.UnknownFeatureName, "Unknown aes name: '%s'", name)
		}
		prev, ok := merged[a]
		if !ok {
			merged[a] = n
			order = append(order, a)
			continue
		}
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			prev = prev.With(k, v)
		}
		merged[a] = prev
	}

	out := make(map[aes.Aes]*Config, len(merged))
	for _, a := range order {
		c, err := parseConfig(a, merged[a])
		if err != nil {
			return nil, err
		}
		out[a] = c
	}
	return out, nil
}

func parseConfig(a aes.Aes, n spec.Node) (*Config, error) {
	o := spec.NewOptions(n, nil)
	c := &Config{Aes: a, Options: o}
	var err error

	if s, ok, err := o.GetString("name"); err != nil {
		return nil, err
	} else if ok {
		c.Name, c.HasName = s, true
	}
	if c.Discrete, err = o.GetBool("discrete", false); err != nil {
		return nil, err
	}
	if c.Reverse, err = o.GetBool("reverse", false); err != nil {
		return nil, err
	}
	if c.DateTime, err = o.GetBool("datetime", false); err != nil {
		return nil, err
	}

	breaks, err := o.GetList("breaks")
	if err != nil {
		return nil, err
	}
	for _, b := range breaks {
		if v := b.Scalar(); v != nil {
			c.Breaks = append(c.Breaks, v)
		}
	}
	labels, err := o.GetList("labels")
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		c.Labels = append(c.Labels, scalarString(l))
	}
	if c.Format, err = o.GetStringDef("format", ""); err != nil {
		return nil, err
	}
	if c.LabLim, err = o.GetIntDef("lablim", 0); err != nil {
		return nil, err
	}

	limits, err := o.GetList("limits")
	if err != nil {
		return nil, err
	}
	for _, l := range limits {
		c.Limits = append(c.Limits, l.Scalar())
	}
	if c.Expand, err = o.GetDoubleList("expand"); err != nil {
		return nil, err
	}

	if c.Trans, err = o.GetStringDef("trans", ""); err != nil {
		return nil, err
	}
	if c.Trans != "" {
		c.Trans = strings.ToLower(c.Trans)
		if _, err := feature.ContinuousTransform(c.Trans); err != nil {
			return nil, err
		}
	}

	if o.Has("position") && (a == aes.X || a == aes.Y) {
		p, err := o.GetStringSafe("position")
		if err != nil {
			return nil, err
		}
		p = strings.ToLower(strings.TrimSpace(p))
		if !contains(positions, p) {
			return nil, failure.New(failure.InvalidOption,
				"'position' - unexpected value: '%s'. Valid values: left|right|top|bottom|both.", p)
		}
		c.Position = p
	}

	if o.Has("guide") {
		if c.Guide, err = feature.ResolveGuide(o.Get("guide")); err != nil {
			return nil, err
		}
	}

	if c.MapperKind, err = o.GetStringDef("scale_mapper_kind", ""); err != nil {
		return nil, err
	}
	if c.MapperKind != "" && !contains(mapperKinds, c.MapperKind) {
		return nil, failure.New(failure.InvalidOption,
			"Aes '%s' - unexpected scale mapper kind: '%s'", a, c.MapperKind)
	}

	values, err := o.GetList("values")
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		x, ok := aes.Convert(a, v)
		if !ok {
			return nil, failure.New(failure.UnconvertibleConstant,
				"Can't convert to '%s' value: %s", a, v)
		}
		c.Values = append(c.Values, x)
	}
	if o.Has("na_value") {
		x, ok := aes.Convert(a, o.Get("na_value"))
		if !ok {
			return nil, failure.New(failure.UnconvertibleConstant,
				"Can't convert to '%s' value: %s", a, o.Get("na_value"))
		}
		c.NA = x
	}
	return c, nil
}

// discreteHint classifies an aesthetic whose data is empty. ok is
// false if the configuration has no opinion.
func (c *Config) discreteHint() (discrete, ok bool) {
	if c == nil {
		return false, false
	}
	if c.Discrete {
		return true, true
	}
	if len(c.Values) > 0 || discreteKinds[c.MapperKind] {
		return true, true
	}
	if continuousKinds[c.MapperKind] {
		return false, true
	}
	for _, b := range c.Breaks {
		if _, num := b.(float64); !num {
			return true, true
		}
	}
	for _, l := range c.Limits {
		if l == nil {
			continue
		}
		if _, num := l.(float64); !num {
			return true, true
		}
	}
	if len(c.Limits) > 2 {
		return true, true
	}
	return false, false
}

// continuousLimits returns the numeric limits of c.
func (c *Config) continuousLimits() (lower, upper *float64, err error) {
	if c == nil || len(c.Limits) == 0 {
		return nil, nil, nil
	}
	if len(c.Limits) != 2 {
		return nil, nil, failure.New(failure.InvalidOption,
			"Continuous scale limits should contain exactly 2 elements but was: %d", len(c.Limits))
	}
	num := func(v interface{}) (*float64, error) {
		if v == nil {
			return nil, nil
		}
		x, ok := v.(float64)
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"Continuous scale limits should be numbers but was: %v", v)
		}
		return &x, nil
	}
	if lower, err = num(c.Limits[0]); err != nil {
		return nil, nil, err
	}
	if upper, err = num(c.Limits[1]); err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

func scalarString(n spec.Node) string {
	if s, ok := n.AsString(); ok {
		return s
	}
	return n.String()
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}
