// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// Sampling reduces a layer's data to at most N rows (or, for vertex
// samplings, N vertices) before rendering.
type Sampling struct {
	Name string
	N    int
	Seed *int64

	// MinSubsample is the smallest per-stratum sample of
	// random_stratified.
	MinSubsample int
}

var samplingNames = []string{
	"random", "pick", "systematic",
	"group_random", "group_systematic", "random_stratified",
	"vertex_vw", "vertex_dp",
}

// IsGroupSampling reports whether s samples whole groups.
func (s Sampling) IsGroupSampling() bool {
	return s.Name == "group_random" || s.Name == "group_systematic"
}

// ResolveSamplings resolves a sampling specification: the string
// "none", a single sampling, or a list of samplings applied in order.
// "none" and null resolve to no samplings.
func ResolveSamplings(n spec.Node) ([]Sampling, error) {
	if n.IsNull() {
		return nil, nil
	}
	if s, ok := n.AsString(); ok && s == "none" {
		return []Sampling{}, nil
	}
	elems, ok := n.AsList()
	if !ok {
		elems = []spec.Node{n}
	}
	out := make([]Sampling, 0, len(elems))
	for _, e := range elems {
		s, err := resolveSampling(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func resolveSampling(n spec.Node) (Sampling, error) {
	name, o, err := Parse("sampling", n)
	if err != nil {
		return Sampling{}, err
	}
	known := false
	for _, k := range samplingNames {
		known = known || k == name
	}
	if !known {
		return Sampling{}, unknown("sampling", name, samplingNames)
	}
	s := Sampling{Name: name}
	n0, ok, err := o.GetInt("n")
	if err != nil {
		return s, err
	}
	if !ok {
		return s, failure.New(failure.MissingOption, "Sampling '%s': option 'n' is required.", name)
	}
	if n0 <= 0 {
		return s, failure.New(failure.InvalidOption, "Sampling '%s': 'n' must be positive but was %d.", name, n0)
	}
	s.N = n0
	if s.Seed, err = optInt64(o, "seed"); err != nil {
		return s, err
	}
	if name == "random_stratified" {
		if s.MinSubsample, err = o.GetIntDef("min_subsample", 0); err != nil {
			return s, err
		}
	}
	return s, nil
}
