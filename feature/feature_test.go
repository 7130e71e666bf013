// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func fp(x float64) *float64 { return &x }

func TestResolvePos(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Pos
	}{
		{`identity`, Identity{}},
		{`stack`, &Stack{nil, "groups"}},
		{`{name: fill, vjust: 0.5, mode: all}`, &FillPos{fp(0.5), "all"}},
		{`{name: dodge, width: 0.9}`, &Dodge{fp(0.9)}},
		{`{name: jitter, width: 0.1}`, &Jitter{Width: fp(0.1)}},
		{`{name: nudge, y: 2}`, &Nudge{0, 2}},
		{`{name: jitterdodge, dodge_width: 0.5}`, &JitterDodge{DodgeWidth: fp(0.5)}},
	} {
		got, err := ResolvePos(spec.MustDecode(test.in))
		if err != nil {
			t.Errorf("%s: %v", test.in, err)
			continue
		}
		if !de(got, test.want) {
			t.Errorf("%s: want %#v; got %#v", test.in, test.want, got)
		}
	}

	_, err := ResolvePos(spec.String("spiral"))
	if !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}
	if !strings.Contains(err.Error(), "[dodge, fill, identity, jitter, jitterdodge, nudge, stack]") {
		t.Fatalf("error should list accepted names: %v", err)
	}
	_, err = ResolvePos(spec.MustDecode(`{width: 1}`))
	if !failure.Is(err, failure.MissingOption) {
		t.Fatalf("want MissingOption for map without name; got %v", err)
	}
}

func TestMergePos(t *testing.T) {
	for _, test := range []struct {
		own, pref string
		want      string
	}{
		// No own options: preferred wins.
		{`null`, `{name: dodge, width: 0.95}`, `{"name": "dodge", "width": 0.95}`},
		// Same name: preferred parameters, own overrides.
		{`dodge`, `{name: dodge, width: 0.95}`, `{"name": "dodge", "width": 0.95}`},
		{`{name: dodge, width: 0.5}`, `{name: dodge, width: 0.95}`, `{"name": "dodge", "width": 0.5}`},
		{`{name: jitter, seed: 1}`, `{name: jitter, width: 0.4, height: 0.4}`,
			`{"name": "jitter", "width": 0.4, "height": 0.4, "seed": 1}`},
		// Different name: own only.
		{`{name: stack}`, `{name: dodge, width: 0.95}`, `{"name": "stack"}`},
		{`identity`, `null`, `"identity"`},
	} {
		got, err := MergePos(spec.MustDecode(test.own), spec.MustDecode(test.pref))
		if err != nil {
			t.Errorf("%s + %s: %v", test.own, test.pref, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("%s + %s: want %s; got %s", test.own, test.pref, test.want, got)
		}
	}
}

func TestResolveCoord(t *testing.T) {
	def := &Cartesian{}
	c, err := ResolveCoord(spec.Null, def)
	if err != nil || c != Coord(def) {
		t.Fatalf("null coord should give default; got %v, %v", c, err)
	}

	c, err = ResolveCoord(spec.MustDecode(`{name: fixed, ratio: 2, xlim: [null, 5]}`), def)
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := c.(*Fixed); !ok || f.Ratio != 2 || f.XLim.Lo != nil || *f.XLim.Hi != 5 {
		t.Fatalf("unexpected fixed coord %#v", c)
	}

	for _, in := range []string{`{name: fixed, ratio: 2, flip: true}`, `{name: cartesian, flip: true}`, `{name: flip, flip: true}`} {
		c, err := ResolveCoord(spec.MustDecode(in), def)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		f, ok := c.(*Flip)
		if !ok || !c.Flipped() {
			t.Fatalf("%s: want flipped coord; got %#v", in, c)
		}
		if _, ok := f.Inner.(*Flip); ok {
			t.Fatalf("%s: flip wrapped twice", in)
		}
		if in == `{name: fixed, ratio: 2, flip: true}` {
			if fx, ok := f.Inner.(*Fixed); !ok || fx.Ratio != 2 {
				t.Fatalf("%s: want fixed inner coord; got %#v", in, f.Inner)
			}
		}
	}
	if c, err := ResolveCoord(spec.MustDecode(`{name: fixed, flip: false}`), def); err != nil || c.Flipped() {
		t.Fatalf("flip: false should not flip; got %#v, %v", c, err)
	}
	if _, err := ResolveCoord(spec.MustDecode(`{name: fixed, flip: 3}`), def); !failure.Is(err, failure.TypeMismatch) {
		t.Fatalf("want TypeMismatch for non-boolean flip; got %v", err)
	}

	m := &Map{Projection: "mercator"}
	c, err = ResolveCoord(spec.MustDecode(`{name: flip, ylim: [0, 1]}`), m)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := c.(*Flip)
	if !ok || !f.Flipped() {
		t.Fatalf("want flipped coord; got %#v", c)
	}
	inner, ok := f.Inner.(*Map)
	if !ok || inner.Projection != "mercator" || *inner.YLim.Hi != 1 {
		t.Fatalf("flip should wrap the default map coord with new limits; got %#v", f.Inner)
	}
	if m.YLim.Hi != nil {
		t.Fatalf("flip modified the default coord")
	}

	if _, err := ResolveCoord(spec.String("polar"), def); !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}
}

func TestResolveSamplings(t *testing.T) {
	ss, err := ResolveSamplings(spec.MustDecode(`[{name: random, n: 10, seed: 3}, {name: vertex_dp, n: 100}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 2 || ss[0].N != 10 || *ss[0].Seed != 3 || ss[1].Name != "vertex_dp" {
		t.Fatalf("unexpected samplings %+v", ss)
	}
	if ss, err := ResolveSamplings(spec.String("none")); err != nil || ss == nil || len(ss) != 0 {
		t.Fatalf("none: want empty non-nil list; got %v, %v", ss, err)
	}
	if _, err := ResolveSamplings(spec.MustDecode(`{name: random}`)); !failure.Is(err, failure.MissingOption) {
		t.Fatalf("want MissingOption; got %v", err)
	}
	if _, err := ResolveSamplings(spec.MustDecode(`{name: best, n: 1}`)); !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}
}

func TestGuideArrowTransform(t *testing.T) {
	g, err := ResolveGuide(spec.MustDecode(`{name: legend, nrow: 2, byrow: true}`))
	if err != nil || g.NRow != 2 || !g.ByRow {
		t.Fatalf("unexpected guide %+v, %v", g, err)
	}
	if _, err := ResolveGuide(spec.String("bar")); !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}

	a, err := ResolveArrow(spec.MustDecode(`{name: arrow, ends: both}`))
	if err != nil || a.Angle != 30 || a.Ends != "both" || a.Type != "open" {
		t.Fatalf("unexpected arrow %+v, %v", a, err)
	}
	if _, err := ResolveArrow(spec.MustDecode(`{name: arrow, type: barbed}`)); !failure.Is(err, failure.InvalidOption) {
		t.Fatalf("want InvalidOption; got %v", err)
	}

	tr, err := ContinuousTransform("log10")
	if err != nil || tr.Name != "log10" {
		t.Fatalf("unexpected transform %v, %v", tr, err)
	}
	if _, err := ContinuousTransform("log"); !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}
}
