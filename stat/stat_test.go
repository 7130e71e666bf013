// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stat

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func shouldPanic(t *testing.T, re string, f func()) {
	t.Helper()
	defer func() {
		err := recover()
		if err == nil {
			t.Fatalf("want panic matching %q", re)
		}
		if !strings.Contains(err.(string), re) {
			t.Fatalf("want panic matching %q; got %v", re, err)
		}
	}()
	f()
}

func opts(s string) *spec.Options {
	return spec.NewOptions(spec.MustDecode(s), nil)
}

func TestResolve(t *testing.T) {
	d, err := Resolve("bin", opts(`{bins: 10, binwidth: 0.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Params.Bins != 10 || *d.Params.BinWidth != 0.5 {
		t.Errorf("unexpected bin params %+v", d.Params)
	}

	d, err = Resolve("smooth", opts(`{method: LOESS}`))
	if err != nil || d.Params.Method != "loess" || d.Params.N != 80 || d.Params.Level != 0.95 {
		t.Errorf("unexpected smooth params %+v, %v", d, err)
	}

	_, err = Resolve("smooth", opts(`{method: spline}`))
	if !failure.Is(err, failure.InvalidOption) {
		t.Fatalf("want InvalidOption; got %v", err)
	}
	if want := "Unsupported smoother method: 'spline'\nUse one of: lm, loess, lowess, glm, gam, rlm."; err.Error() != want {
		t.Errorf("want %q; got %q", want, err.Error())
	}

	d, err = Resolve("density", opts(`{bw: nrd, kernel: cosine}`))
	if err != nil || d.Params.BandwidthMethod != "nrd" || d.Params.Kernel != "cosine" || d.Params.N != 512 {
		t.Errorf("unexpected density params %+v, %v", d, err)
	}
	if _, err := Resolve("density", opts(`{bw: wide}`)); !failure.Is(err, failure.InvalidOption) {
		t.Errorf("want InvalidOption for bw; got %v", err)
	}
	if _, err := Resolve("density", opts(`{kernel: box}`)); !failure.Is(err, failure.InvalidOption) {
		t.Errorf("want InvalidOption for kernel; got %v", err)
	}
	if _, err := Resolve("bin", opts(`{bins: 0}`)); !failure.Is(err, failure.InvalidOption) {
		t.Errorf("want InvalidOption for bins; got %v", err)
	}
	if _, err := Resolve("median", opts(`{}`)); !failure.Is(err, failure.UnknownFeatureName) {
		t.Errorf("want UnknownFeatureName; got %v", err)
	}
}

func TestDefaultMapping(t *testing.T) {
	d, err := Resolve("count", opts(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: CountVar}
	if got := d.DefaultMapping(); !de(want, got) {
		t.Errorf("want %v; got %v", want, got)
	}
	// The result is a copy.
	d.DefaultMapping()[aes.Fill] = CountVar
	if _, ok := d.DefaultMapping()[aes.Fill]; ok {
		t.Errorf("DefaultMapping returned shared map")
	}
	if !de(d.Consumes(), []aes.Aes{aes.X, aes.Weight}) {
		t.Errorf("unexpected consumed aesthetics %v", d.Consumes())
	}
	if v, ok := Var("..density.."); !ok || v != DensityVar {
		t.Errorf("Var(..density..): got %v, %v", v, ok)
	}
}

func frame(t *testing.T, s string) *data.Frame {
	f, err := data.FromSpec(spec.MustDecode(s))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestApplyCount(t *testing.T) {
	f := frame(t, `{x: [a, b, a], c: [red, red, red]}`)
	d, _ := Resolve("count", opts(`{}`))
	out, err := Apply(d, f, map[aes.Aes]string{aes.X: "x"}, "")
	if err != nil {
		t.Fatal(err)
	}
	counts := map[interface{}]float64{}
	for i, x := range out.Column(XVar.Name) {
		counts[x] = out.Column(CountVar.Name)[i].(float64)
	}
	if want := map[interface{}]float64{"a": 2, "b": 1}; !de(want, counts) {
		t.Errorf("want %v; got %v", want, counts)
	}
	// Constant columns are carried over.
	if got := out.Column("c"); len(got) != 2 || got[0] != "red" {
		t.Errorf("want constant column c; got %v", got)
	}
}

func TestApplyECDF(t *testing.T) {
	f := frame(t, `{v: [2, 1, 3, 2, null]}`)
	d, _ := Resolve("ecdf", opts(`{padded: false}`))
	out, err := Apply(d, f, map[aes.Aes]string{aes.X: "v"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{1.0, 2.0, 3.0}; !de(want, out.Column(XVar.Name)) {
		t.Errorf("x: want %v; got %v", want, out.Column(XVar.Name))
	}
	if want := []interface{}{0.25, 0.75, 1.0}; !de(want, out.Column(YVar.Name)) {
		t.Errorf("y: want %v; got %v", want, out.Column(YVar.Name))
	}
}

func TestApplySmooth(t *testing.T) {
	f := frame(t, `{x: [1, 2, 3, 4, 1, 2, 3, 4], y: [2, 4, 6, 8, 1, 2, 3, 4], g: [a, a, a, a, b, b, b, b]}`)
	d, _ := Resolve("smooth", opts(`{n: 5}`))
	out, err := Apply(d, f, map[aes.Aes]string{aes.X: "x", aes.Y: "y"}, "g")
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 10 {
		t.Fatalf("want 5 points per group; got %d rows", out.Len())
	}
	for i := 0; i < out.Len(); i++ {
		x := out.Column(XVar.Name)[i].(float64)
		y := out.Column(YVar.Name)[i].(float64)
		slope := 2.0
		if out.Column("g")[i] == "b" {
			slope = 1
		}
		if math.Abs(y-slope*x) > 1e-9 {
			t.Errorf("row %d: want y=%gx at x=%g; got %g", i, slope, x, y)
		}
		// A perfect fit has a zero-width band.
		if lo := out.Column(YMinVar.Name)[i].(float64); math.Abs(lo-y) > 1e-9 {
			t.Errorf("row %d: want ymin %g; got %g", i, y, lo)
		}
	}
}

func TestApplyDensity(t *testing.T) {
	f := frame(t, `{x: [1, 2, 2, 3, 3, 3, 4]}`)
	d, _ := Resolve("density", opts(`{n: 64}`))
	out, err := Apply(d, f, map[aes.Aes]string{aes.X: "x"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 64 {
		t.Fatalf("want 64 points; got %d", out.Len())
	}
	for _, v := range out.Column(DensityVar.Name) {
		if y := v.(float64); y < 0 || math.IsNaN(y) {
			t.Fatalf("bad density %g", y)
		}
	}
}

func TestApplyUnsupported(t *testing.T) {
	d, _ := Resolve("boxplot", opts(`{}`))
	shouldPanic(t, "not computed", func() {
		Apply(d, data.Empty, nil, "")
	})
	d, _ = Resolve("identity", opts(`{}`))
	f := frame(t, `{x: [1]}`)
	if out, err := Apply(d, f, nil, ""); out != f || err != nil {
		t.Errorf("identity should return its input")
	}
}
