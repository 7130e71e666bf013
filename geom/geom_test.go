// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/failure"
)

func TestLookup(t *testing.T) {
	for k := Kind(0); k < numKinds; k++ {
		got, err := Lookup(k.String())
		if err != nil || got != k {
			t.Errorf("Lookup(%q): want %v; got %v, %v", k.String(), k, got, err)
		}
		if renders[k] == nil {
			t.Errorf("%v renders no aesthetics", k)
		}
	}
	_, err := Lookup("pizza")
	if !failure.Is(err, failure.UnknownFeatureName) {
		t.Fatalf("want UnknownFeatureName; got %v", err)
	}
}

func TestBarDefaults(t *testing.T) {
	d := Bar.Defaults()
	if d.Stat != "count" {
		t.Errorf("want stat count; got %s", d.Stat)
	}
	if s, _ := d.Pos.AsString(); s != "stack" {
		t.Errorf("want position stack; got %v", d.Pos)
	}
	if d := Point.Defaults(); d.Stat != "identity" || d.Sampling == nil || d.Sampling.Name != "random" {
		t.Errorf("unexpected point defaults %+v", d)
	}
	if d := BoxPlot.Defaults(); d.Pos.String() != `{"name": "dodge", "width": 0.95}` {
		t.Errorf("unexpected boxplot position %v", d.Pos)
	}
	if d := HLine.Defaults(); d.Sampling != nil {
		t.Errorf("hline should not be sampled; got %+v", d.Sampling)
	}
}

func TestRenders(t *testing.T) {
	has := func(k Kind, a aes.Aes) bool {
		for _, r := range k.Renders() {
			if r == a {
				return true
			}
		}
		return false
	}
	if !has(Label, aes.Fill) || has(Text, aes.Fill) {
		t.Errorf("label draws fill and text does not")
	}
	if !has(CrossBar, aes.Fill) || has(ErrorBar, aes.Fill) {
		t.Errorf("crossbar draws fill and errorbar does not")
	}
}

func TestOrientationApplicable(t *testing.T) {
	for _, test := range []struct {
		k    Kind
		stat string
		want bool
	}{
		{Bar, "count", true},
		{Point, "identity", false},
		{Point, "summary", true},
		{Violin, "ydensity", true},
		{Line, "identity", false},
	} {
		if got := OrientationApplicable(test.k, test.stat); got != test.want {
			t.Errorf("%v/%s: want %v; got %v", test.k, test.stat, test.want, got)
		}
	}
}

func TestForStat(t *testing.T) {
	for _, test := range []struct {
		stat string
		want Kind
	}{
		{"count", Bar},
		{"bin", Histogram},
		{"ecdf", Step},
		{"ydensity", Violin},
		{"identity", Point},
		{"sum", Point},
	} {
		if got := ForStat(test.stat); got != test.want {
			t.Errorf("ForStat(%s): want %v; got %v", test.stat, test.want, got)
		}
	}
}
