// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/stat"
	"github.com/aclements/go-plotspec/transform"
)

func TestMain(m *testing.M) {
	Quiet()
	os.Exit(m.Run())
}

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func resolveClient(t *testing.T, s string) *Model {
	t.Helper()
	m, err := Resolve(spec.MustDecode(s), Options{})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// roundTrip runs the backend pass over s and resolves the result on
// the client.
func roundTrip(t *testing.T, s string) (spec.Node, *Model) {
	t.Helper()
	out, _, err := ResolveBackend(spec.MustDecode(s), Options{})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	m, err := Resolve(out, Options{})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return out, m
}

// counts returns the stat count of every value of the key columns.
func counts(f *data.Frame, keys ...string) map[string]float64 {
	out := map[string]float64{}
	n := f.Column(stat.CountVar.Name)
	for row := 0; row < f.Len(); row++ {
		var parts []string
		for _, k := range keys {
			parts = append(parts, fmt.Sprint(f.Column(k)[row]))
		}
		out[strings.Join(parts, "/")] = n[row].(float64)
	}
	return out
}

func TestPointScenario(t *testing.T) {
	m := resolveClient(t, `{data: {x: [a, b, a], y: [1, 2, 3]}, mapping: {x: x, y: y}, layers: [{geom: point}]}`)

	x := m.Scales[aes.X]
	if !x.IsDiscrete() {
		t.Fatalf("want discrete x scale; got %v", x)
	}
	if want, got := []interface{}{"a", "b"}, x.Transform.(*transform.Discrete).Domain(); !de(want, got) {
		t.Errorf("want x domain %v; got %v", want, got)
	}
	y := m.Scales[aes.Y]
	if y.IsDiscrete() {
		t.Fatalf("want continuous y scale; got %v", y)
	}
	if want := (&[2]float64{1, 3}); !de(want, y.Domain) {
		t.Errorf("want y domain %v; got %v", want, y.Domain)
	}
	if _, ok := m.Coord.(*feature.Cartesian); !ok {
		t.Errorf("want cartesian coord; got %T", m.Coord)
	}
}

func TestBarCount(t *testing.T) {
	const s = `{data: {x: [a, b, a]}, mapping: {x: x}, layers: [{geom: bar}]}`
	out, bm, err := ResolveBackend(spec.MustDecode(s), Options{})
	if err != nil {
		t.Fatal(err)
	}
	l := bm.Layers[0]
	if l.Stat.Kind != stat.Count || l.Pos.Name() != "stack" {
		t.Fatalf("want count/stack; got %s/%s", l.Stat.Name(), l.Pos.Name())
	}

	// Everything the client needs moved into the layer.
	if d, _ := out.Get("data"); d.Len() != 0 {
		t.Errorf("want shared data dropped; got %v", d)
	}

	m, err := Resolve(out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cl := m.Layers[0]
	if b, ok := cl.Binding(aes.Y); !ok || b.Var.Name != stat.CountVar.Name {
		t.Errorf("want y bound to %s; got %+v", stat.CountVar.Name, b)
	}
	if want, got := map[string]float64{"a": 2, "b": 1}, counts(cl.Combined(), "x"); !de(want, got) {
		t.Errorf("want counts %v; got %v", want, got)
	}
	if len(m.Messages) != 0 {
		t.Errorf("want no messages; got %v", m.Messages)
	}
}

func TestColorByConstant(t *testing.T) {
	m := resolveClient(t, `{
		data: {x: [1, 2], y: [1, 2], group: [a, b]},
		mapping: {x: x, y: y, fill: group},
		layers: [{geom: point, color: red, color_by: fill}]}`)
	l := m.Layers[0]
	if l.ColorBy != aes.Color {
		t.Errorf("want color by color; got %v", l.ColorBy)
	}
	if want := (color.RGBA{0xff, 0, 0, 0xff}); l.Constants[aes.Color] != want {
		t.Errorf("want constant %v; got %v", want, l.Constants[aes.Color])
	}
	if b, ok := l.Binding(aes.Color); ok {
		t.Errorf("want color unbound; got %+v", b)
	}
}

func TestFacetedStat(t *testing.T) {
	_, m := roundTrip(t, `{
		data: {x: [a, b, a, a], f: [p, p, q, q]},
		mapping: {x: x},
		facet: {name: grid, x: f},
		layers: [{geom: bar}]}`)
	want := map[string]float64{"p/a": 1, "p/b": 1, "q/a": 2}
	if got := counts(m.Layers[0].Combined(), "f", "x"); !de(want, got) {
		t.Errorf("want counts %v; got %v", want, got)
	}
	if g, ok := m.Facet.(interface{ Cols() int }); !ok || g.Cols() != 2 {
		t.Errorf("want 2 facet columns; got %v", m.Facet)
	}
}

func TestStatGroups(t *testing.T) {
	_, m := roundTrip(t, `{
		data: {x: [a, a, b, b], g: [u, v, u, u]},
		mapping: {x: x, fill: g},
		layers: [{geom: bar}]}`)
	want := map[string]float64{"a/u": 1, "a/v": 1, "b/u": 2}
	if got := counts(m.Layers[0].Combined(), "x", "g"); !de(want, got) {
		t.Errorf("want counts %v; got %v", want, got)
	}
	if m.Layers[0].Combined().Has(stat.GroupVar.Name) {
		t.Errorf("synthesized group column leaked into the layer data")
	}
}

func TestOrientationWriteBack(t *testing.T) {
	out, m := roundTrip(t, `{data: {c: [a, b, a]}, mapping: {y: c}, layers: [{geom: bar}]}`)
	layers, _ := out.Get("layers")
	ls, _ := layers.AsList()
	if o, _ := ls[0].Get("orientation"); o.String() != `"y"` {
		t.Errorf("want orientation y written back; got %v", o)
	}
	l := m.Layers[0]
	if !l.YOrientation {
		t.Fatalf("want y orientation on the client")
	}
	if b, ok := l.Binding(aes.X); !ok || b.Var.Name != stat.CountVar.Name {
		t.Errorf("want x bound to %s; got %+v", stat.CountVar.Name, b)
	}
	if want, got := map[string]float64{"a": 2, "b": 1}, counts(l.Combined(), "c"); !de(want, got) {
		t.Errorf("want counts %v; got %v", want, got)
	}
}

func TestDropUnused(t *testing.T) {
	out, m := roundTrip(t, `{
		data: {x: [1, 2], y: [3, 4], unused: [5, 6], tip: [t, u]},
		mapping: {x: x, y: y},
		layers: [{geom: point, tooltips: {lines: ['@tip']}}]}`)
	d, _ := out.Get("data")
	if want, got := []string{"x", "y", "tip"}, d.Keys(); !de(want, got) {
		t.Errorf("want data columns %v; got %v", want, got)
	}
	if m.Data.Has("unused") {
		t.Errorf("unused column survived")
	}
}

func TestUnsupportedStat(t *testing.T) {
	_, m := roundTrip(t, `{data: {x: [1, 2, 3]}, mapping: {x: x}, layers: [{geom: histogram}]}`)
	if len(m.Messages) != 1 || !strings.Contains(m.Messages[0], "bin stat is not computed") {
		t.Errorf("want one message about the bin stat; got %v", m.Messages)
	}
}

func TestMessagesAccumulate(t *testing.T) {
	_, m := roundTrip(t, `{
		data: {x: [1, 2, 3, 4], y: [1, 2, 3, 4]},
		mapping: {x: x, y: y},
		computation_messages: [earlier],
		layers: [{geom: point, sampling: {name: pick, n: 2}}]}`)
	want := []string{"earlier", "sampling_pick(n=2) was applied to [point/identity] layer"}
	if !de(want, m.Messages) {
		t.Errorf("want messages %v; got %v", want, m.Messages)
	}
}

func TestParallel(t *testing.T) {
	const s = `{
		data: {x: [1, 2, 3], y: [3, 1, 2], g: [a, b, a]},
		mapping: {x: x, y: y},
		layers: [{geom: point}, {geom: line, mapping: {color: g}}, {geom: text, label: hi}]}`
	print := func(opts Options) string {
		m, err := Resolve(spec.MustDecode(s), opts)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := m.Fprint(&buf); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}
	if serial, parallel := print(Options{}), print(Options{Parallel: true}); serial != parallel {
		t.Errorf("parallel resolution differs:\n%s\nvs\n%s", serial, parallel)
	}

	// The first failing layer wins regardless of scheduling.
	bad := spec.MustDecode(`{layers: [{geom: point}, {geom: pizza}, {geom: 3}]}`)
	for i := 0; i < 10; i++ {
		_, err := Resolve(bad, Options{Parallel: true})
		if !failure.Is(err, failure.UnknownFeatureName) || !strings.HasPrefix(err.Error(), "layer 1: ") {
			t.Fatalf("want layer 1 UnknownFeatureName; got %v", err)
		}
	}
}

func TestKind(t *testing.T) {
	for _, test := range []struct {
		spec string
		want string
	}{
		{`{}`, KindPlot},
		{`{kind: plot}`, KindPlot},
		{`{kind: subplots}`, KindSubplots},
		{`{kind: ggbunch}`, KindBunch},
	} {
		got, err := Kind(spec.MustDecode(test.spec))
		if err != nil || got != test.want {
			t.Errorf("Kind(%s): want %s; got %s, %v", test.spec, test.want, got, err)
		}
	}
	_, err := Kind(spec.MustDecode(`{kind: poster}`))
	if want := "Unknown figure kind: 'poster'. Expected: [ggbunch, plot, subplots]"; err == nil || err.Error() != want {
		t.Errorf("want %q; got %v", want, err)
	}
}

func TestResolveErrors(t *testing.T) {
	for _, test := range []struct {
		spec string
		kind failure.Kind
	}{
		{`[1, 2]`, failure.TypeMismatch},
		{`{kind: subplots}`, failure.InvalidOption},
		{`{data: [1, 2]}`, failure.TypeMismatch},
		{`{layers: {geom: point}}`, failure.TypeMismatch},
		{`{layers: [{geom: point}], coord: {name: polar2}}`, failure.UnknownFeatureName},
		{`{data: {x: [a]}, layers: [{geom: point}], facet: {name: grid, x: nope}}`, failure.UndefinedVariable},
	} {
		_, err := Resolve(spec.MustDecode(test.spec), Options{})
		if !failure.Is(err, test.kind) {
			t.Errorf("%s: want %v; got %v", test.spec, test.kind, err)
		}
	}
}

func TestClassify(t *testing.T) {
	user := errors.Wrap(failure.New(failure.MissingOption, "Missing 'x'."), "layer 0")
	if want, got := (FailureInfo{Message: "Missing 'x'."}), Classify(user); got != want {
		t.Errorf("want %+v; got %+v", want, got)
	}

	if want, got := (FailureInfo{"Internal error: *errors.errorString: boom", true}), Classify(fmt.Errorf("boom")); got != want {
		t.Errorf("want %+v; got %+v", want, got)
	}

	err := catch(func() error { panic("oops") })
	if want, got := (FailureInfo{"Internal error: string: oops", true}), Classify(err); got != want {
		t.Errorf("want %+v; got %+v", want, got)
	}

	err = catch(func() error { panic(failure.New(failure.InvalidOption, "Bad.")) })
	if want, got := (FailureInfo{Message: "Bad."}), Classify(err); got != want {
		t.Errorf("want %+v; got %+v", want, got)
	}
}

func TestProcess(t *testing.T) {
	out := Process(spec.MustDecode(`{layers: [{geom: pizza}]}`), Options{})
	if !IsFailure(out) {
		t.Fatalf("want failure spec; got %v", out)
	}
	msg, _ := out.Get(ErrorMessageKey)
	if s, _ := msg.AsString(); !strings.HasPrefix(s, "Unknown geom") {
		t.Errorf("want unknown geom message; got %q", s)
	}

	out = Process(spec.MustDecode(`{data: {x: [a, a]}, mapping: {x: x}, layers: [{geom: bar}]}`), Options{})
	if IsFailure(out) {
		t.Fatalf("unexpected failure %v", out)
	}
	if _, err := Resolve(out, Options{}); err != nil {
		t.Errorf("processed plot does not resolve: %v", err)
	}
}
