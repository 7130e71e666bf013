// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature resolves the small named features of a plot
// specification: coordinate systems, position adjustments, samplings,
// guides, arrows and continuous transforms.
//
// Every feature is given either as a bare name ("stack") or as a map
// with a "name" key and parameters ({name: "dodge", width: 0.5}).
// Unknown names fail with failure.UnknownFeatureName.
package feature

import (
	"sort"
	"strings"

	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/transform"
)

// Name is the option holding a feature's name.
const Name = "name"

// Parse splits a feature node into its name and parameters. what
// names the kind of feature in error messages.
func Parse(what string, n spec.Node) (string, *spec.Options, error) {
	switch n.Kind() {
	case spec.KindString:
		s, _ := n.AsString()
		return s, spec.NewOptions(spec.Null, nil), nil
	case spec.KindMap:
		o := spec.NewOptions(n, nil)
		name, err := o.GetStringSafe(Name)
		if err != nil {
			return "", nil, err
		}
		return name, o, nil
	}
	return "", nil, failure.New(failure.TypeMismatch,
		"%s: a name or a map with 'name' is expected but was: %s", what, n)
}

func unknown(what, name string, known []string) error {
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	return failure.New(failure.UnknownFeatureName,
		"Unknown %s name: '%s'. Expected: [%s]", what, name, strings.Join(sorted, ", "))
}

func optFloat(o *spec.Options, key string) (*float64, error) {
	x, ok, err := o.GetDouble(key)
	if err != nil || !ok {
		return nil, err
	}
	return &x, nil
}

func optInt64(o *spec.Options, key string) (*int64, error) {
	x, ok, err := o.GetDouble(key)
	if err != nil || !ok {
		return nil, err
	}
	i := int64(x)
	return &i, nil
}

// ContinuousTransform returns the named continuous transform.
func ContinuousTransform(name string) (*transform.Continuous, error) {
	f, ok := transform.Funcs[name]
	if !ok {
		return nil, unknown("continuous transform", name, transform.FuncNames())
	}
	return transform.NewContinuous(f), nil
}

// Arrow describes arrow heads drawn on path ends.
type Arrow struct {
	Angle  float64
	Length float64
	Ends   string // "first", "last" or "both"
	Type   string // "open" or "closed"
}

// ResolveArrow resolves an arrow specification.
func ResolveArrow(n spec.Node) (*Arrow, error) {
	name, o, err := Parse("arrow", n)
	if err != nil {
		return nil, err
	}
	if name != "arrow" {
		return nil, unknown("arrow", name, []string{"arrow"})
	}
	a := &Arrow{}
	if a.Angle, err = o.GetDoubleDef("angle", 30); err != nil {
		return nil, err
	}
	if a.Length, err = o.GetDoubleDef("length", 10); err != nil {
		return nil, err
	}
	if a.Ends, err = o.GetStringDef("ends", "last"); err != nil {
		return nil, err
	}
	switch a.Ends {
	case "first", "last", "both":
	default:
		return nil, failure.New(failure.InvalidOption,
			"Expected: 'first', 'last' or 'both' but was: '%s'", a.Ends)
	}
	if a.Type, err = o.GetStringDef("type", "open"); err != nil {
		return nil, err
	}
	switch a.Type {
	case "open", "closed":
	default:
		return nil, failure.New(failure.InvalidOption,
			"Expected: 'open' or 'closed' but was: '%s'", a.Type)
	}
	return a, nil
}

// Guide describes the legend or colorbar of one aesthetic.
type Guide struct {
	Name  string // "none", "legend" or "colorbar"
	Title string

	// Legend layout.
	NRow, NCol int
	ByRow      bool

	// Colorbar layout.
	BarWidth, BarHeight float64
	NBin                int
}

var guideNames = []string{"none", "legend", "colorbar"}

// ResolveGuide resolves a guide specification.
func ResolveGuide(n spec.Node) (*Guide, error) {
	name, o, err := Parse("guide", n)
	if err != nil {
		return nil, err
	}
	g := &Guide{Name: name}
	if g.Title, err = o.GetStringDef("title", ""); err != nil {
		return nil, err
	}
	switch name {
	case "none":
	case "legend":
		if g.NRow, err = o.GetIntDef("nrow", 0); err != nil {
			return nil, err
		}
		if g.NCol, err = o.GetIntDef("ncol", 0); err != nil {
			return nil, err
		}
		if g.ByRow, err = o.GetBool("byrow", false); err != nil {
			return nil, err
		}
	case "colorbar":
		if g.BarWidth, err = o.GetDoubleDef("barwidth", 0); err != nil {
			return nil, err
		}
		if g.BarHeight, err = o.GetDoubleDef("barheight", 0); err != nil {
			return nil, err
		}
		if g.NBin, err = o.GetIntDef("nbin", 0); err != nil {
			return nil, err
		}
	default:
		return nil, unknown("guide", name, guideNames)
	}
	return g, nil
}
