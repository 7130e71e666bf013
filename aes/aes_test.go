// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aes

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/aclements/go-plotspec/spec"
)

func TestLookup(t *testing.T) {
	for _, a := range All() {
		b, ok := Lookup(a.String())
		if !ok || a != b {
			t.Errorf("Lookup(%q) = %v, %v; want %v", a.String(), b, ok, a)
		}
	}
	if a, ok := Lookup("colour"); !ok || a != Color {
		t.Errorf("Lookup(colour) = %v, %v", a, ok)
	}
	if _, ok := Lookup("bogus"); ok {
		t.Errorf("Lookup(bogus) succeeded")
	}
}

func TestAxis(t *testing.T) {
	for _, test := range []struct {
		a    Aes
		axis Aes
		ok   bool
	}{
		{X, X, true},
		{XEnd, X, true},
		{XIntercept, X, true},
		{YMin, Y, true},
		{Sample, Y, true},
		{Middle, Y, true},
		{Color, Color, false},
		{Slope, Slope, false},
	} {
		axis, ok := Axis(test.a)
		if axis != test.axis || ok != test.ok {
			t.Errorf("Axis(%v) = %v, %v; want %v, %v", test.a, axis, ok, test.axis, test.ok)
		}
	}
	if !IsPositional(Slope) || IsPositionalXY(Slope) {
		t.Errorf("slope should be positional but not on an axis")
	}
	if AffectsScale(Intercept) {
		t.Errorf("intercept should not affect the y scale")
	}
}

func TestFlip(t *testing.T) {
	for _, a := range All() {
		if Flip(Flip(a)) != a {
			t.Errorf("Flip is not an involution on %v", a)
		}
		if IsPositionalX(a) && !IsPositionalY(Flip(a)) {
			t.Errorf("Flip(%v) = %v is not positional y", a, Flip(a))
		}
	}
}

func TestConvert(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	for _, test := range []struct {
		a    Aes
		v    spec.Node
		want interface{}
	}{
		{Color, spec.String("red"), red},
		{Fill, spec.String("#f00"), red},
		{Color, spec.String("#FF000080"), color.RGBA{255, 0, 0, 128}},
		{Color, spec.String("rgb(255, 0, 0)"), red},
		{Color, spec.String("dark_blue"), color.RGBA{0x00, 0x00, 0x8b, 0xff}},
		{Color, spec.String("gray"), color.RGBA{0x80, 0x80, 0x80, 0xff}},
		{Color, spec.String("no such color"), nil},
		{Color, spec.Number(1), nil},
		{Shape, spec.Number(21), 21},
		{Shape, spec.Number(26), nil},
		{Linetype, spec.Number(2), "dashed"},
		{Linetype, spec.String("dotdash"), "dotdash"},
		{Linetype, spec.String("44"), "44"},
		{Linetype, spec.String("wavy"), nil},
		{Size, spec.Number(3), 3.0},
		{Size, spec.String("3"), nil},
		{Label, spec.Number(3), 3.0},
		{HJust, spec.String("center"), 0.5},
		{VJust, spec.String("inward"), "inward"},
	} {
		got, ok := Convert(test.a, test.v)
		if test.want == nil {
			if ok {
				t.Errorf("Convert(%v, %v) = %v; want failure", test.a, test.v, got)
			}
			continue
		}
		if !ok || !reflect.DeepEqual(got, test.want) {
			t.Errorf("Convert(%v, %v) = %v, %v; want %v", test.a, test.v, got, ok, test.want)
		}
	}
}
