// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/layer"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/transform"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func frame(t *testing.T, s string) *data.Frame {
	t.Helper()
	f, err := data.FromSpec(spec.MustDecode(s))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func bind(a aes.Aes, name string, f *data.Frame) layer.VarBinding {
	return layer.VarBinding{Aes: a, Var: data.Var(name), Frame: f}
}

func configs(t *testing.T, s string) map[aes.Aes]*Config {
	t.Helper()
	l, _ := spec.MustDecode(s).AsList()
	cs, err := ParseConfigs(l)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func mustResolve(t *testing.T, bs []layer.VarBinding, cs map[aes.Aes]*Config) *Result {
	t.Helper()
	r, err := Resolve(bs, cs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDiscreteAndContinuous(t *testing.T) {
	f := frame(t, `{x: [a, b, a], y: [1, 2, 3]}`)
	r := mustResolve(t, []layer.VarBinding{bind(aes.X, "x", f), bind(aes.Y, "y", f)}, nil)

	x := r.Scales[aes.X]
	if !x.IsDiscrete() {
		t.Fatalf("want discrete x; got %v", x)
	}
	if got, want := x.Transform.(*transform.Discrete).Domain(), []interface{}{"a", "b"}; !de(want, got) {
		t.Errorf("want x domain %v; got %v", want, got)
	}
	y := r.Scales[aes.Y]
	if y.IsDiscrete() {
		t.Fatalf("want continuous y; got %v", y)
	}
	if y.Domain == nil || *y.Domain != [2]float64{1, 3} {
		t.Errorf("want y domain [1 3]; got %v", y.Domain)
	}
	if x.Name != "x" || y.Name != "y" {
		t.Errorf("want scales named after variables; got %q, %q", x.Name, y.Name)
	}
	if len(r.Mappers) != 0 {
		t.Errorf("positional aesthetics should have no mappers; got %v", r.Mappers)
	}
}

func TestAxisSharing(t *testing.T) {
	f1 := frame(t, `{x: [a, b], y: [1, 2]}`)
	f2 := frame(t, `{lo: [1, 2], name: [c, a]}`)
	r := mustResolve(t, []layer.VarBinding{
		bind(aes.X, "x", f1),
		bind(aes.Y, "y", f1),
		bind(aes.XMin, "lo", f2),
		bind(aes.XEnd, "name", f2),
	}, nil)

	x, xmin, xend := r.Scales[aes.X], r.Scales[aes.XMin], r.Scales[aes.XEnd]
	if !xmin.IsDiscrete() {
		t.Fatalf("xmin should be forced discrete")
	}
	if x.Transform != xmin.Transform || x.Transform != xend.Transform {
		t.Errorf("x axis aesthetics should share one transform")
	}
	want := []interface{}{"a", "b", 1.0, 2.0, "c"}
	if got := x.Transform.(*transform.Discrete).Domain(); !de(want, got) {
		t.Errorf("want joined domain %v; got %v", want, got)
	}
	if r.Scales[aes.Y].IsDiscrete() {
		t.Errorf("y axis should stay continuous")
	}
}

func TestContinuousDomain(t *testing.T) {
	f1 := frame(t, `{v: [1, 2]}`)
	f2 := frame(t, `{w: [5, 10, null]}`)
	bs := []layer.VarBinding{bind(aes.Y, "v", f1), bind(aes.Y, "w", f2)}

	for _, test := range []struct {
		configs string
		want    *[2]float64
	}{
		{`[]`, &[2]float64{1, 10}},
		{`[{aesthetic: y, limits: [0, 4]}]`, &[2]float64{1, 4}},
		{`[{aesthetic: y, limits: [null, 4]}]`, &[2]float64{1, 4}},
		{`[{aesthetic: y, limits: [20, 30]}]`, &[2]float64{20, 30}},
		{`[{aesthetic: y, trans: log10}]`, &[2]float64{1, 10}},
	} {
		r := mustResolve(t, bs, configs(t, test.configs))
		if got := r.Scales[aes.Y].Domain; got == nil || *got != *test.want {
			t.Errorf("%s: want domain %v; got %v", test.configs, *test.want, got)
		}
	}
}

func TestLogDomain(t *testing.T) {
	f := frame(t, `{v: [-1, 0, 10, 100]}`)
	r := mustResolve(t, []layer.VarBinding{bind(aes.X, "v", f)},
		configs(t, `[{aesthetic: x, trans: log10}]`))
	if got := r.Scales[aes.X].Domain; got == nil || *got != [2]float64{10, 100} {
		t.Errorf("want non-positive values dropped; got %v", got)
	}
}

func TestEmptyData(t *testing.T) {
	empty := frame(t, `{v: []}`)
	bs := []layer.VarBinding{bind(aes.Color, "v", empty)}
	for _, test := range []struct {
		configs  string
		discrete bool
	}{
		{`[]`, false},
		{`[{aesthetic: color, discrete: true}]`, true},
		{`[{aesthetic: color, scale_mapper_kind: color_hue}]`, true},
		{`[{aesthetic: color, scale_mapper_kind: color_gradient, breaks: [a]}]`, false},
		{`[{aesthetic: color, breaks: [a, b]}]`, true},
		{`[{aesthetic: color, limits: [1, 2, 3]}]`, true},
		{`[{aesthetic: color, limits: [1, 2]}]`, false},
	} {
		r := mustResolve(t, bs, configs(t, test.configs))
		if got := r.Scales[aes.Color].IsDiscrete(); got != test.discrete {
			t.Errorf("%s: want discrete %v; got %v", test.configs, test.discrete, got)
		}
	}
}

func TestDiscreteOptions(t *testing.T) {
	f := frame(t, `{c: [x, y, z]}`)
	leveled := data.NewBuilder(f).Levels("c", []interface{}{"z", "y"}).Done()
	for _, test := range []struct {
		f       *data.Frame
		configs string
		want    []interface{}
	}{
		{f, `[{aesthetic: fill, reverse: true}]`, []interface{}{"z", "y", "x"}},
		{f, `[{aesthetic: fill, breaks: [w]}]`, []interface{}{"w", "x", "y", "z"}},
		{f, `[{aesthetic: fill, limits: [y, x]}]`, []interface{}{"y", "x"}},
		{leveled, `[]`, []interface{}{"z", "y", "x"}},
	} {
		r := mustResolve(t, []layer.VarBinding{bind(aes.Fill, "c", test.f)}, configs(t, test.configs))
		got := r.Scales[aes.Fill].Transform.(*transform.Discrete).Domain()
		if !de(test.want, got) {
			t.Errorf("%s: want %v; got %v", test.configs, test.want, got)
		}
	}
}

func TestExcludeStatVars(t *testing.T) {
	f := frame(t, `{..count..: [1, 5]}`)
	b := layer.VarBinding{Aes: aes.Y, Var: data.StatVar("count", "count"), Frame: f}
	r, err := Resolve([]layer.VarBinding{b}, nil, Options{ExcludeStatVars: true})
	if err != nil {
		t.Fatal(err)
	}
	if d := r.Scales[aes.Y].Domain; d != nil {
		t.Errorf("stat variables should not contribute; got %v", d)
	}
	r = mustResolve(t, []layer.VarBinding{b}, nil)
	if d := r.Scales[aes.Y].Domain; d == nil || *d != [2]float64{1, 5} {
		t.Errorf("want [1 5]; got %v", d)
	}
}

func TestMappers(t *testing.T) {
	f := frame(t, `{g: [a, b], v: [0, 10]}`)
	r := mustResolve(t, []layer.VarBinding{
		bind(aes.Color, "g", f),
		bind(aes.Fill, "v", f),
		bind(aes.Size, "v", f),
	}, nil)

	// Discrete colors default to the Set1 brewer palette.
	c := r.Mappers[aes.Color]
	if c.IsContinuous() {
		t.Fatalf("discrete color mapper should not interpolate")
	}
	if got, want := rgba(c.Map(0).(color.Color)), (color.RGBA{0xe4, 0x1a, 0x1c, 0xff}); got != want {
		t.Errorf("want first Set1 color %v; got %v", want, got)
	}
	if got := c.Map(math.NaN()); got != naColor {
		t.Errorf("want NA color; got %v", got)
	}

	fill := r.Mappers[aes.Fill]
	if got := rgba(fill.Map(0).(color.Color)); got != gradientLow {
		t.Errorf("want gradient low %v; got %v", gradientLow, got)
	}
	if got := rgba(fill.Map(10).(color.Color)); got != gradientHigh {
		t.Errorf("want gradient high %v; got %v", gradientHigh, got)
	}

	size := r.Mappers[aes.Size]
	if got := size.Map(0); got != 2.0 {
		t.Errorf("want smallest size 2; got %v", got)
	}
	if got := size.Map(10); got != 5.5 {
		t.Errorf("want largest size 5.5; got %v", got)
	}
}

func TestMapperKinds(t *testing.T) {
	f := frame(t, `{g: [a, b, c], v: [1, 4, 2], c: [red, blue, nope]}`)
	for _, test := range []struct {
		a       aes.Aes
		v       string
		configs string
		check   func(m Mapper) bool
	}{
		{aes.Color, "g", `[{aesthetic: color, values: [red, blue]}]`, func(m Mapper) bool {
			return m.Map(1) == color.RGBA{0, 0, 0xff, 0xff} && m.Map(2) == naColor
		}},
		{aes.Color, "g", `[{aesthetic: color, scale_mapper_kind: color_hue}]`, func(m Mapper) bool {
			return m.Map(0) != m.Map(1) && m.Map(1) != m.Map(2)
		}},
		{aes.Fill, "g", `[{aesthetic: fill, scale_mapper_kind: color_grey, start: 0, end: 1}]`, func(m Mapper) bool {
			return m.Map(0) == color.RGBA{0, 0, 0, 0xff} && m.Map(2) == color.RGBA{0xff, 0xff, 0xff, 0xff}
		}},
		{aes.Fill, "v", `[{aesthetic: fill, scale_mapper_kind: color_gradient, low: red, high: blue}]`, func(m Mapper) bool {
			return rgba(m.Map(1).(color.Color)) == color.RGBA{0xff, 0, 0, 0xff}
		}},
		{aes.Fill, "v", `[{aesthetic: fill, scale_mapper_kind: color_brewer, type: seq, palette: Greens}]`, func(m Mapper) bool {
			return m.IsContinuous() && m.Map(1) != m.Map(4)
		}},
		{aes.Fill, "v", `[{aesthetic: fill, scale_mapper_kind: color_cmap}]`, func(m Mapper) bool {
			return m.IsContinuous() && m.Map(1) != nil
		}},
		{aes.Size, "v", `[{aesthetic: size, scale_mapper_kind: size_area, max_size: 10}]`, func(m Mapper) bool {
			return m.Map(4) == 10.0
		}},
		{aes.Alpha, "v", `[{aesthetic: alpha, range: [0.5, 1]}]`, func(m Mapper) bool {
			return m.Map(1) == 0.5 && m.Map(4) == 1.0
		}},
		{aes.Shape, "g", `[{aesthetic: shape, solid: false}]`, func(m Mapper) bool {
			return m.Map(0) == 1 && m.Map(1) == 2
		}},
		{aes.Linetype, "g", `[]`, func(m Mapper) bool {
			return m.Map(0) == "solid" && m.Map(2) == "dotted"
		}},
		{aes.Color, "c", `[{aesthetic: color, scale_mapper_kind: identity}]`, func(m Mapper) bool {
			return m.Map(0) == color.RGBA{0xff, 0, 0, 0xff} && m.Map(2) == naColor && m.Map(5) == naColor
		}},
		{aes.Width, "v", `[]`, func(m Mapper) bool {
			return m.Map(3) == 3.0
		}},
	} {
		r := mustResolve(t, []layer.VarBinding{bind(test.a, test.v, f)}, configs(t, test.configs))
		m := r.Mappers[test.a]
		if m == nil {
			t.Errorf("%s: no mapper", test.configs)
			continue
		}
		if !test.check(m) {
			t.Errorf("%s: unexpected mapper output %v, %v", test.configs, m.Map(0), m.Map(1))
		}
	}
}

func TestMapperErrors(t *testing.T) {
	f := frame(t, `{v: [1, 2]}`)
	for _, test := range []struct {
		a       aes.Aes
		configs string
		kind    failure.Kind
	}{
		{aes.Shape, `[]`, failure.InvalidOption},
		{aes.Color, `[{aesthetic: color, scale_mapper_kind: color_brewer, palette: Nope}]`, failure.UnknownFeatureName},
		{aes.Color, `[{aesthetic: color, scale_mapper_kind: color_brewer, type: odd}]`, failure.InvalidOption},
		{aes.Color, `[{aesthetic: color, scale_mapper_kind: color_cmap, option: magma}]`, failure.UnknownFeatureName},
		{aes.Color, `[{aesthetic: color, scale_mapper_kind: color_gradient, low: notacolor}]`, failure.UnconvertibleConstant},
	} {
		_, err := Resolve([]layer.VarBinding{bind(test.a, "v", f)}, configs(t, test.configs), Options{})
		if !failure.Is(err, test.kind) {
			t.Errorf("%s: want %v; got %v", test.configs, test.kind, err)
		}
	}
}

func TestParseConfigs(t *testing.T) {
	cs := configs(t, `[
    {aesthetic: x, name: First, breaks: [1, 2]},
    {aesthetic: colour, discrete: true},
    {aesthetic: x, name: Second, position: top, expand: [0.1, 2]}]`)
	x := cs[aes.X]
	if x.Name != "Second" || !de(x.Breaks, []interface{}{1.0, 2.0}) || x.Position != "top" {
		t.Errorf("later options should override earlier ones; got %+v", x)
	}
	if !de(x.Expand, []float64{0.1, 2}) {
		t.Errorf("want expand [0.1 2]; got %v", x.Expand)
	}
	if c := cs[aes.Color]; c == nil || !c.Discrete {
		t.Errorf("want discrete color config; got %+v", c)
	}

	for _, test := range []struct {
		configs string
		kind    failure.Kind
	}{
		{`[{name: foo}]`, failure.MissingOption},
		{`[{aesthetic: colr}]`, failure.UnknownFeatureName},
		{`[{aesthetic: x, trans: cube}]`, failure.UnknownFeatureName},
		{`[{aesthetic: fill, scale_mapper_kind: rainbow}]`, failure.InvalidOption},
		{`[{aesthetic: x, position: middle}]`, failure.InvalidOption},
		{`[{aesthetic: color, values: [red, 12]}]`, failure.UnconvertibleConstant},
		{`[[x]]`, failure.TypeMismatch},
	} {
		l, _ := spec.MustDecode(test.configs).AsList()
		if _, err := ParseConfigs(l); !failure.Is(err, test.kind) {
			t.Errorf("%s: want %v; got %v", test.configs, test.kind, err)
		}
	}
}

func TestTicks(t *testing.T) {
	f := frame(t, `{v: [0, 10]}`)
	r := mustResolve(t, []layer.VarBinding{bind(aes.Y, "v", f)}, nil)
	y := r.Scales[aes.Y]
	if len(y.Breaks) == 0 || len(y.Breaks) > DefaultMaxTicks {
		t.Fatalf("want 1 to %d breaks; got %v", DefaultMaxTicks, y.Breaks)
	}
	if len(y.Labels) != len(y.Breaks) {
		t.Fatalf("want a label per break; got %v for %v", y.Labels, y.Breaks)
	}
	prev := math.Inf(-1)
	for _, b := range y.Breaks {
		x := b.(float64)
		if x < 0 || x > 10 || x <= prev {
			t.Errorf("breaks should increase inside the domain; got %v", y.Breaks)
			break
		}
		prev = x
	}

	r = mustResolve(t, []layer.VarBinding{bind(aes.Y, "v", f)},
		configs(t, `[{aesthetic: y, breaks: [5], labels: [five]}]`))
	if y := r.Scales[aes.Y]; !de(y.Breaks, []interface{}{5.0}) || !de(y.Labels, []string{"five"}) {
		t.Errorf("configured breaks should win; got %v %v", y.Breaks, y.Labels)
	}
}

func TestFormatNumber(t *testing.T) {
	for _, test := range []struct {
		format string
		x      float64
		want   string
	}{
		{"", 2.5, "2.5"},
		{".1f", 2.25, "2.2"},
		{"d", 2.6, "3"},
		{".0%", 0.25, "25%"},
		{"%05.1f", 2.5, "002.5"},
	} {
		if got := FormatNumber(test.format, test.x); got != test.want {
			t.Errorf("FormatNumber(%q, %v): want %q; got %q", test.format, test.x, test.want, got)
		}
	}
}
