// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/aclements/go-plotspec/failure"
)

func de(x, y interface{}) bool {
	return reflect.DeepEqual(x, y)
}

func shouldPanic(t *testing.T, re string, f func()) {
	r := regexp.MustCompile(re)
	defer func() {
		err := recover()
		if err == nil {
			t.Fatalf("want panic matching %q; got no panic", re)
		} else if !r.MatchString(fmt.Sprintf("%s", err)) {
			t.Fatalf("panic %q does not match %q", err, re)
		}
	}()
	f()
}

func TestDecodeKeepsOrder(t *testing.T) {
	n, err := DecodeString(`{"b": 1, "a": [true, null, "s"], "c": {"z": 1.5, "y": 2}}`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n.Keys(), []string{"b", "a", "c"}; !de(got, want) {
		t.Fatalf("want keys %v; got %v", want, got)
	}
	if got, want := n.String(), `{"b": 1, "a": [true, null, "s"], "c": {"z": 1.5, "y": 2}}`; got != want {
		t.Fatalf("want %s; got %s", want, got)
	}

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, n); err != nil {
		t.Fatal(err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != n.String() {
		t.Fatalf("JSON round trip changed %s to %s", n, back)
	}

	buf.Reset()
	if err := EncodeYAML(&buf, n); err != nil {
		t.Fatal(err)
	}
	back, err = Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != n.String() {
		t.Fatalf("YAML round trip changed %s to %s", n, back)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := DecodeString(""); err == nil {
		t.Fatal("want error for empty document")
	}
}

func TestPatch(t *testing.T) {
	n := Map("a", 1, "b", "x")
	p := Patch(n, "a", []int{1, 2})
	if got := n.String(); got != `{"a": 1, "b": "x"}` {
		t.Fatalf("Patch modified its input: %s", got)
	}
	if got := p.String(); got != `{"a": [1, 2], "b": "x"}` {
		t.Fatalf("want patched {a: [1, 2], b: x}; got %s", got)
	}
	p = Patch(p, "c", nil)
	if got, want := p.Keys(), []string{"a", "b", "c"}; !de(got, want) {
		t.Fatalf("want keys %v; got %v", want, got)
	}
	if got := p.Without("b").String(); got != `{"a": [1, 2], "c": null}` {
		t.Fatalf("Without: got %s", got)
	}
	shouldPanic(t, "With on list", func() {
		List(Number(1)).With("a", Null)
	})
}

func TestValue(t *testing.T) {
	n := Map("x", []string{"a", "b"}, "y", map[string]interface{}{"k": 2})
	want := map[string]interface{}{
		"x": []interface{}{"a", "b"},
		"y": map[string]interface{}{"k": 2.0},
	}
	if got := n.Value(); !de(got, want) {
		t.Fatalf("want %v; got %v", want, got)
	}
	shouldPanic(t, "unsupported type", func() {
		FromValue(struct{}{})
	})
}

func TestOptionsDefaults(t *testing.T) {
	o := NewOptions(Map("geom", "point", "size", nil), map[string]interface{}{
		"size":  3,
		"alpha": 0.5,
	})
	if !o.HasOwn("geom") || o.HasOwn("size") || o.HasOwn("alpha") {
		t.Fatalf("HasOwn wrong: geom=%v size=%v alpha=%v", o.HasOwn("geom"), o.HasOwn("size"), o.HasOwn("alpha"))
	}
	if !o.Has("size") || !o.Has("alpha") || o.Has("color") {
		t.Fatalf("Has wrong")
	}
	if x, _ := o.GetDoubleDef("size", 0); x != 3 {
		t.Fatalf("want default size 3; got %v", x)
	}
	if got, want := o.Keys(), []string{"geom", "alpha", "size"}; !de(got, want) {
		t.Fatalf("want keys %v; got %v", want, got)
	}

	o2 := o.Update("size", 7)
	if x, _ := o2.GetDoubleDef("size", 0); x != 7 {
		t.Fatalf("want updated size 7; got %v", x)
	}
	if x, _ := o.GetDoubleDef("size", 0); x != 3 {
		t.Fatalf("Update modified original options; size = %v", x)
	}
}

func TestOptionsErrors(t *testing.T) {
	o := NewOptions(MustDecode(`
name: 12
list: [1, "two", 3]
notlist: 4
range3: [1, 2, 3]
range: [5, 1]
pair: [1]
flag: "yes"
`), nil)

	for _, test := range []struct {
		name string
		f    func() error
		kind failure.Kind
		msg  string
	}{
		{"safe", func() error { _, err := o.GetStringSafe("missing"); return err },
			failure.MissingOption, "Can't get string value: option 'missing' is not present."},
		{"numbers", func() error { _, err := o.GetDoubleList("list"); return err },
			failure.TypeMismatch, `The option 'list' requires a list of numbers but element [1] is: "two"`},
		{"list", func() error { _, err := o.GetList("notlist"); return err },
			failure.TypeMismatch, "Not a List: notlist: number"},
		{"map", func() error { _, err := o.GetMap("list"); return err },
			failure.TypeMismatch, "Not a Map: list: list"},
		{"range", func() error { _, _, err := o.GetRange("range3"); return err },
			failure.TypeMismatch, "'range' value is expected in form: [min, max] but was: [1, 2, 3]"},
		{"pair", func() error { _, _, err := o.GetPair("pair"); return err },
			failure.TypeMismatch, "'pair' value is expected in form: [a, b] but was: [1]"},
		{"bool", func() error { _, err := o.GetBool("flag", false); return err },
			failure.TypeMismatch, `The option 'flag' requires a boolean but was: "yes"`},
		{"distinct", func() error { _, _, err := o.GetOrderedDistinctPair("range"); return err },
			failure.InvalidOption, "The option 'range' requires two distinct numbers in ascending order but was: [5, 1]"},
	} {
		err := test.f()
		if !failure.Is(err, test.kind) {
			t.Errorf("%s: want %v error; got %v", test.name, test.kind, err)
			continue
		}
		if err.Error() != test.msg {
			t.Errorf("%s: want message %q; got %q", test.name, test.msg, err.Error())
		}
	}

	if s, _ := o.GetStringSafe("name"); s != "12" {
		t.Fatalf("want number formatted as \"12\"; got %q", s)
	}
	lo, hi, err := o.GetRange("range")
	if err != nil || lo != 1 || hi != 5 {
		t.Fatalf("want range [1, 5]; got [%v, %v], %v", lo, hi, err)
	}
}

func TestGetAsList(t *testing.T) {
	o := NewOptions(Map("one", "a", "many", []string{"a", "b"}), nil)
	if got := o.GetAsList("one"); len(got) != 1 || got[0].String() != `"a"` {
		t.Fatalf("want [a]; got %v", got)
	}
	if got := o.GetAsList("many"); len(got) != 2 {
		t.Fatalf("want 2 elements; got %v", got)
	}
	if got := o.GetAsList("none"); got != nil {
		t.Fatalf("want nil; got %v", got)
	}
}

func TestNumberPair(t *testing.T) {
	o := NewOptions(MustDecode(`{lim: [null, 10], bad: ["a", 1]}`), nil)
	a, b, err := o.GetNumberPair("lim")
	if err != nil || a != nil || b == nil || *b != 10 {
		t.Fatalf("want (nil, 10); got (%v, %v, %v)", a, b, err)
	}
	if _, _, err := o.GetNumberPair("bad"); !failure.Is(err, failure.TypeMismatch) ||
		!strings.Contains(err.Error(), "element [0]") {
		t.Fatalf("want element [0] type mismatch; got %v", err)
	}
}
