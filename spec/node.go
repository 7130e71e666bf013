// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spec represents declarative plot specifications.
//
// A specification is a JSON-like tree of maps, lists and scalars. It
// is represented by Node, an immutable tagged union. Typed access to
// a specification goes through Options, which layers a node over a
// set of default values.
package spec

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the kind of value held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

var kindNames = [...]string{"null", "bool", "number", "string", "list", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one value in a specification tree.
//
// The zero Node is null. Nodes are immutable: operations that would
// modify a node return a new node instead, and the slices a node
// returns must not be modified by the caller.
type Node struct {
	kind Kind
	b    bool
	num  float64
	str  string
	list []Node

	// keys records the insertion order of map entries.
	keys []string
	m    map[string]Node
}

// Null is the null node.
var Null = Node{}

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, b: b} }

// Number returns a numeric node.
func Number(x float64) Node { return Node{kind: KindNumber, num: x} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, str: s} }

// List returns a list node containing elems.
func List(elems ...Node) Node {
	if elems == nil {
		elems = []Node{}
	}
	return Node{kind: KindList, list: elems}
}

// Map returns a map node from alternating key and value arguments.
// Values are converted with FromValue. Map panics if kvs has odd
// length or a key is not a string.
func Map(kvs ...interface{}) Node {
	if len(kvs)%2 != 0 {
		panic("spec.Map: odd number of arguments")
	}
	n := Node{kind: KindMap, m: make(map[string]Node, len(kvs)/2)}
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		if !ok {
			panic(fmt.Sprintf("spec.Map: key %v is not a string", kvs[i]))
		}
		n = n.with(k, FromValue(kvs[i+1]))
	}
	return n
}

// FromValue converts a decoded Go value to a Node.
//
// v may be nil, a bool, any integer or float type, a string, a
// slice of any of these, a map with string keys, or a Node. Maps
// other than Node maps have no inherent order, so their keys are
// sorted.
func FromValue(v interface{}) Node {
	switch v := v.(type) {
	case nil:
		return Null
	case Node:
		return v
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case string:
		return String(v)
	case []Node:
		return List(v...)
	case []interface{}:
		l := make([]Node, len(v))
		for i, x := range v {
			l[i] = FromValue(x)
		}
		return List(l...)
	case []string:
		l := make([]Node, len(v))
		for i, x := range v {
			l[i] = String(x)
		}
		return List(l...)
	case []float64:
		l := make([]Node, len(v))
		for i, x := range v {
			l[i] = Number(x)
		}
		return List(l...)
	case []int:
		l := make([]Node, len(v))
		for i, x := range v {
			l[i] = Number(float64(x))
		}
		return List(l...)
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := Node{kind: KindMap, m: make(map[string]Node, len(v))}
		for _, k := range keys {
			n = n.with(k, FromValue(v[k]))
		}
		return n
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, x := range v {
			m[fmt.Sprint(k)] = x
		}
		return FromValue(m)
	}
	panic(fmt.Sprintf("spec.FromValue: unsupported type %T", v))
}

// Kind returns the kind of n.
func (n Node) Kind() Kind { return n.kind }

// IsNull reports whether n is null.
func (n Node) IsNull() bool { return n.kind == KindNull }

// AsBool returns n's value if n is a bool.
func (n Node) AsBool() (bool, bool) { return n.b, n.kind == KindBool }

// AsNumber returns n's value if n is a number.
func (n Node) AsNumber() (float64, bool) { return n.num, n.kind == KindNumber }

// AsString returns n's value if n is a string.
func (n Node) AsString() (string, bool) { return n.str, n.kind == KindString }

// AsList returns n's elements if n is a list.
func (n Node) AsList() ([]Node, bool) { return n.list, n.kind == KindList }

// Keys returns the keys of a map node in insertion order, or nil if
// n is not a map.
func (n Node) Keys() []string { return n.keys }

// Get returns the value of key in a map node. It returns false if n
// is not a map or does not contain key.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindMap {
		return Null, false
	}
	v, ok := n.m[key]
	return v, ok
}

// Len returns the number of elements of a list or entries of a map.
func (n Node) Len() int {
	switch n.kind {
	case KindList:
		return len(n.list)
	case KindMap:
		return len(n.keys)
	}
	return 0
}

// With returns a copy of map node n with key set to v. If n is null,
// With treats it as an empty map. With panics on any other kind.
func (n Node) With(key string, v Node) Node {
	switch n.kind {
	case KindNull:
		n = Node{kind: KindMap}
	case KindMap:
	default:
		panic(fmt.Sprintf("spec: With on %s node", n.kind))
	}
	keys := make([]string, len(n.keys), len(n.keys)+1)
	copy(keys, n.keys)
	m := make(map[string]Node, len(n.m)+1)
	for k, x := range n.m {
		m[k] = x
	}
	nn := Node{kind: KindMap, keys: keys, m: m}
	return nn.with(key, v)
}

// with sets key in place. n must be a freshly built map.
func (n Node) with(key string, v Node) Node {
	if n.m == nil {
		n.m = make(map[string]Node)
	}
	if _, ok := n.m[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.m[key] = v
	return n
}

// Without returns a copy of map node n without key.
func (n Node) Without(key string) Node {
	if _, ok := n.Get(key); !ok {
		return n
	}
	nn := Node{kind: KindMap, m: make(map[string]Node, len(n.m))}
	for _, k := range n.keys {
		if k != key {
			nn = nn.with(k, n.m[k])
		}
	}
	return nn
}

// Patch returns a copy of map node n with key set to value. It is
// the only way resolution code writes back into a specification,
// for example to persist recomputed layer data.
func Patch(n Node, key string, value interface{}) Node {
	return n.With(key, FromValue(value))
}

// Value converts n to plain Go values: nil, bool, float64, string,
// []interface{} and map[string]interface{}.
func (n Node) Value() interface{} {
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num
	case KindString:
		return n.str
	case KindList:
		l := make([]interface{}, len(n.list))
		for i, x := range n.list {
			l[i] = x.Value()
		}
		return l
	case KindMap:
		m := make(map[string]interface{}, len(n.m))
		for k, x := range n.m {
			m[k] = x.Value()
		}
		return m
	}
	return nil
}

// Scalar returns the value of a bool, number or string node, or nil.
func (n Node) Scalar() interface{} {
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num
	case KindString:
		return n.str
	}
	return nil
}

func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// String formats n in a compact JSON-like notation.
func (n Node) String() string {
	var b strings.Builder
	n.format(&b)
	return b.String()
}

func (n Node) format(b *strings.Builder) {
	switch n.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		b.WriteString(formatNumber(n.num))
	case KindString:
		b.WriteString(strconv.Quote(n.str))
	case KindList:
		b.WriteByte('[')
		for i, x := range n.list {
			if i > 0 {
				b.WriteString(", ")
			}
			x.format(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			n.m[k].format(b)
		}
		b.WriteByte('}')
	}
}
