// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"fmt"

	"github.com/aclements/go-plotspec/spec"
)

// Lim is an axis limit. Either end may be nil.
type Lim struct {
	Lo, Hi *float64
}

func (l Lim) String() string {
	f := func(p *float64) string {
		if p == nil {
			return "_"
		}
		return fmt.Sprint(*p)
	}
	return "[" + f(l.Lo) + ", " + f(l.Hi) + "]"
}

// A Coord is a coordinate system provider.
type Coord interface {
	// Name returns the coordinate system's option name.
	Name() string

	// Limits returns the x and y limits.
	Limits() (x, y Lim)

	// Flipped reports whether x and y are swapped.
	Flipped() bool
}

// CoordLimits holds the limits common to every coordinate system.
type CoordLimits struct {
	XLim, YLim Lim
}

func (c CoordLimits) Limits() (x, y Lim) { return c.XLim, c.YLim }

// Cartesian is the default coordinate system.
type Cartesian struct {
	CoordLimits
}

func (*Cartesian) Name() string  { return "cartesian" }
func (*Cartesian) Flipped() bool { return false }

// Fixed is a cartesian coordinate system with a fixed aspect ratio.
type Fixed struct {
	CoordLimits
	Ratio float64
}

func (*Fixed) Name() string  { return "fixed" }
func (*Fixed) Flipped() bool { return false }

// Map is a geographic coordinate system. It is the default for plots
// with map layers.
type Map struct {
	CoordLimits
	Projection string
}

func (*Map) Name() string  { return "map" }
func (*Map) Flipped() bool { return false }

// Flip swaps the x and y axes of another coordinate system.
type Flip struct {
	Inner Coord
}

func (*Flip) Name() string { return "flip" }

func (f *Flip) Limits() (x, y Lim) { return f.Inner.Limits() }

func (*Flip) Flipped() bool { return true }

var coordNames = []string{"cartesian", "fixed", "map", "flip"}

// ResolveCoord resolves a coordinate system specification. def is the
// coordinate system to use when n is null and the one "flip" wraps.
// Limits given with "flip" replace those of def. Any other coordinate
// system with "flip: true" is wrapped in a Flip.
func ResolveCoord(n spec.Node, def Coord) (Coord, error) {
	if n.IsNull() {
		return def, nil
	}
	name, o, err := Parse("coord", n)
	if err != nil {
		return nil, err
	}
	c, err := resolveCoord(name, o, def)
	if err != nil {
		return nil, err
	}
	flip, err := o.GetBool("flip", false)
	if err != nil {
		return nil, err
	}
	if _, ok := c.(*Flip); flip && !ok {
		c = &Flip{c}
	}
	return c, nil
}

func resolveCoord(name string, o *spec.Options, def Coord) (Coord, error) {
	lims, err := coordLimits(o)
	if err != nil {
		return nil, err
	}
	switch name {
	case "cartesian":
		return &Cartesian{lims}, nil
	case "fixed":
		ratio, err := o.GetDoubleDef("ratio", 1)
		if err != nil {
			return nil, err
		}
		return &Fixed{lims, ratio}, nil
	case "map":
		proj, err := o.GetStringDef("projection", "mercator")
		if err != nil {
			return nil, err
		}
		return &Map{lims, proj}, nil
	case "flip":
		inner := def
		if o.Has("xlim") || o.Has("ylim") {
			inner = withLimits(def, lims)
		}
		return &Flip{inner}, nil
	}
	return nil, unknown("coord", name, coordNames)
}

func coordLimits(o *spec.Options) (CoordLimits, error) {
	var c CoordLimits
	for _, l := range []struct {
		key string
		lim *Lim
	}{{"xlim", &c.XLim}, {"ylim", &c.YLim}} {
		if !o.Has(l.key) {
			continue
		}
		lo, hi, err := o.GetNumberPair(l.key)
		if err != nil {
			return c, err
		}
		*l.lim = Lim{lo, hi}
	}
	return c, nil
}

func withLimits(c Coord, lims CoordLimits) Coord {
	switch c := c.(type) {
	case *Cartesian:
		return &Cartesian{lims}
	case *Fixed:
		return &Fixed{lims, c.Ratio}
	case *Map:
		return &Map{lims, c.Projection}
	case *Flip:
		return &Flip{withLimits(c.Inner, lims)}
	}
	return c
}
