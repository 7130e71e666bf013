// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aes enumerates the aesthetics a plot layer can bind data
// or constants to.
package aes

import "sort"

// Aes is a visual channel such as position, color or size.
type Aes int

const (
	X Aes = iota
	Y
	Z
	Color
	Fill
	PaintA
	PaintB
	PaintC
	Alpha
	Shape
	Linetype
	Size
	Stroke
	Linewidth
	Stacksize
	Width
	Height
	Binwidth
	Violinwidth
	Weight
	Intercept
	Slope
	XIntercept
	YIntercept
	Lower
	Middle
	Upper
	XLower
	XMiddle
	XUpper
	Sample
	Quantile
	XMin
	XMax
	YMin
	YMax
	XEnd
	YEnd
	MapID
	Frame
	Speed
	Flow
	Label
	Family
	Fontface
	Lineheight
	HJust
	VJust
	Angle
	Radius
	Slice
	Explode

	numAes
)

var names = [numAes]string{
	"x", "y", "z",
	"color", "fill", "paint_a", "paint_b", "paint_c",
	"alpha", "shape", "linetype",
	"size", "stroke", "linewidth", "stacksize",
	"width", "height", "binwidth", "violinwidth", "weight",
	"intercept", "slope", "xintercept", "yintercept",
	"lower", "middle", "upper", "xlower", "xmiddle", "xupper",
	"sample", "quantile",
	"xmin", "xmax", "ymin", "ymax", "xend", "yend",
	"map_id", "frame", "speed", "flow",
	"label", "family", "fontface", "lineheight", "hjust", "vjust",
	"angle", "radius", "slice", "explode",
}

var byName = func() map[string]Aes {
	m := make(map[string]Aes, numAes+1)
	for a, n := range names {
		m[n] = Aes(a)
	}
	// Accepted spelling.
	m["colour"] = Color
	return m
}()

func (a Aes) String() string {
	if a >= 0 && a < numAes {
		return names[a]
	}
	return "Aes(?)"
}

// Lookup returns the aesthetic with the given option name.
func Lookup(name string) (Aes, bool) {
	a, ok := byName[name]
	return a, ok
}

// All returns every aesthetic in declaration order.
func All() []Aes {
	all := make([]Aes, numAes)
	for i := range all {
		all[i] = Aes(i)
	}
	return all
}

// Sort sorts aesthetics in declaration order.
func Sort(as []Aes) {
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
}

// IsPositionalX reports whether a is positioned on the x axis.
func IsPositionalX(a Aes) bool {
	switch a {
	case X, XIntercept, XLower, XMiddle, XUpper, XMin, XMax, XEnd:
		return true
	}
	return false
}

// IsPositionalY reports whether a is positioned on the y axis.
func IsPositionalY(a Aes) bool {
	switch a {
	case Y, YMin, YMax, Intercept, YIntercept, Lower, Middle, Upper, Sample, YEnd:
		return true
	}
	return false
}

// IsPositionalXY reports whether a is positioned on either axis.
func IsPositionalXY(a Aes) bool {
	return IsPositionalX(a) || IsPositionalY(a)
}

// IsPositional is like IsPositionalXY but also includes Slope, which
// shares the y mapper so that a constant slope draws the same line
// as a slope with intercept 0.
func IsPositional(a Aes) bool {
	return IsPositionalXY(a) || a == Slope
}

// Axis returns X or Y for a positional aesthetic.
func Axis(a Aes) (Aes, bool) {
	switch {
	case IsPositionalX(a):
		return X, true
	case IsPositionalY(a):
		return Y, true
	}
	return a, false
}

// AffectsScale reports whether a's data contributes to its axis'
// domain. Intercept shares the y mapper but not the y domain.
func AffectsScale(a Aes) bool {
	return IsPositionalXY(a) && a != Intercept
}

// IsColor reports whether a takes color values.
func IsColor(a Aes) bool {
	switch a {
	case Color, Fill, PaintA, PaintB, PaintC:
		return true
	}
	return false
}

// IsNumeric reports whether a takes numeric values.
func IsNumeric(a Aes) bool {
	switch a {
	case Color, Fill, PaintA, PaintB, PaintC, Shape, Linetype,
		MapID, Frame, Label, Family, Fontface, HJust, VJust:
		return false
	}
	return true
}

// NoGuide reports whether a never needs a legend or colorbar.
func NoGuide(a Aes) bool {
	switch a {
	case MapID, Frame, Speed, Flow, Label, Slope, Stacksize, Width,
		Height, Binwidth, Violinwidth, Quantile, HJust, VJust, Angle,
		Radius, Family, Fontface, Lineheight, Slice, Explode:
		return true
	}
	return IsPositional(a)
}

// Flip returns the aesthetic a maps to when x and y are swapped.
func Flip(a Aes) Aes {
	switch a {
	case X:
		return Y
	case Y:
		return X
	case XMin:
		return YMin
	case XMax:
		return YMax
	case YMin:
		return XMin
	case YMax:
		return XMax
	case XEnd:
		return YEnd
	case YEnd:
		return XEnd
	case XIntercept:
		return YIntercept
	case YIntercept:
		return XIntercept
	case XLower:
		return Lower
	case XMiddle:
		return Middle
	case XUpper:
		return Upper
	case Lower:
		return XLower
	case Middle:
		return XMiddle
	case Upper:
		return XUpper
	case Width:
		return Height
	case Height:
		return Width
	}
	return a
}
