// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transform implements the value-space transforms shared by
// the scales of a plot.
//
// A Transform is either *Continuous, which maps numbers through a
// function such as log10, or *Discrete, which maps an ordered set of
// categories to their indexes. All aesthetics on one axis share a
// single Transform value, so transforms are always handled by
// pointer.
package transform

import (
	"fmt"
	"math"
	"sort"
)

// Transform is *Continuous or *Discrete.
type Transform interface {
	// Apply transforms v. It returns false if v is outside the
	// transform's domain.
	Apply(v interface{}) (float64, bool)

	// IsDiscrete reports whether this is a *Discrete.
	IsDiscrete() bool
}

// A Func is a continuous transform function.
type Func struct {
	Name string

	// F and Inv are the transform and its inverse.
	F, Inv func(float64) float64

	// InDomain reports whether x can be transformed.
	InDomain func(float64) bool
}

func all(float64) bool { return true }

func positive(x float64) bool { return x > 0 }

func nonNegative(x float64) bool { return x >= 0 }

func symlog(x float64) float64 {
	return math.Copysign(math.Log10(1+math.Abs(x)), x)
}

func symexp(x float64) float64 {
	return math.Copysign(math.Pow(10, math.Abs(x))-1, x)
}

func ident(x float64) float64 { return x }

func neg(x float64) float64 { return -x }

// Funcs are the continuous transform functions by name.
var Funcs = map[string]*Func{
	"identity": {"identity", ident, ident, all},
	"log10":    {"log10", math.Log10, func(x float64) float64 { return math.Pow(10, x) }, positive},
	"log2":     {"log2", math.Log2, math.Exp2, positive},
	"symlog":   {"symlog", symlog, symexp, all},
	"sqrt":     {"sqrt", math.Sqrt, func(x float64) float64 { return x * x }, nonNegative},
	"reverse":  {"reverse", neg, neg, all},
}

// FuncNames returns the names of Funcs in sorted order.
func FuncNames() []string {
	names := make([]string, 0, len(Funcs))
	for n := range Funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Continuous is a continuous transform with optional domain limits.
type Continuous struct {
	*Func

	// Lower and Upper, if not nil, limit the data domain. They
	// are in data space.
	Lower, Upper *float64
}

// NewContinuous returns a continuous transform using f with no
// limits.
func NewContinuous(f *Func) *Continuous {
	return &Continuous{Func: f}
}

// Identity returns a new identity transform.
func Identity() *Continuous {
	return NewContinuous(Funcs["identity"])
}

func (t *Continuous) IsDiscrete() bool { return false }

func (t *Continuous) Apply(v interface{}) (float64, bool) {
	x, ok := v.(float64)
	if !ok || !t.InDomain(x) {
		return math.NaN(), false
	}
	return t.F(x), true
}

// WithLimits returns a copy of t with the given limits. Limits that
// are outside the transform's domain are dropped, and the remaining
// limits are ordered so Lower <= Upper.
func (t *Continuous) WithLimits(lower, upper *float64) *Continuous {
	var ls []float64
	for _, l := range []*float64{lower, upper} {
		if l != nil && t.InDomain(*l) {
			ls = append(ls, *l)
		}
	}
	nt := &Continuous{Func: t.Func}
	switch len(ls) {
	case 2:
		if ls[0] > ls[1] {
			ls[0], ls[1] = ls[1], ls[0]
		}
		nt.Lower, nt.Upper = &ls[0], &ls[1]
	case 1:
		// Keep the surviving limit on its original side.
		if lower != nil && t.InDomain(*lower) {
			nt.Lower = &ls[0]
		} else {
			nt.Upper = &ls[0]
		}
	}
	return nt
}

// ApplicableDomain intersects the data range [lo, hi] with t's
// limits and then widens it just enough for every value to be in the
// transform's domain. If the intersection is empty, the limits alone
// are used. It returns false if no applicable domain remains.
func (t *Continuous) ApplicableDomain(lo, hi float64) (float64, float64, bool) {
	ilo, ihi := lo, hi
	if t.Lower != nil {
		ilo = math.Max(ilo, *t.Lower)
	}
	if t.Upper != nil {
		ihi = math.Min(ihi, *t.Upper)
	}
	if ilo > ihi && t.Lower != nil && t.Upper != nil {
		ilo, ihi = *t.Lower, *t.Upper
	}
	lo, hi = ilo, ihi
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	if !t.InDomain(lo) {
		switch t.Name {
		case "log10", "log2":
			lo = math.SmallestNonzeroFloat64
		case "sqrt":
			lo = 0
		}
		hi = math.Max(hi, lo)
	}
	return lo, hi, true
}

func (t *Continuous) String() string {
	s := t.Name
	if t.Lower != nil || t.Upper != nil {
		f := func(p *float64) string {
			if p == nil {
				return "_"
			}
			return fmt.Sprint(*p)
		}
		s += fmt.Sprintf("[%s, %s]", f(t.Lower), f(t.Upper))
	}
	return s
}
