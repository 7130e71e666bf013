// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode reads one specification document from r. The document may
// be YAML or JSON (JSON is a subset of YAML). Map keys keep their
// document order.
func Decode(r io.Reader) (Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Null, fmt.Errorf("empty specification")
		}
		return Null, err
	}
	return fromYAML(&doc)
}

// DecodeString is like Decode but reads from a string.
func DecodeString(s string) (Node, error) {
	return Decode(bytes.NewReader([]byte(s)))
}

// MustDecode is like DecodeString but panics on error. It is meant
// for literal specifications in tests and examples.
func MustDecode(s string) Node {
	n, err := DecodeString(s)
	if err != nil {
		panic(err)
	}
	return n
}

func fromYAML(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null, nil
		}
		return fromYAML(y.Content[0])

	case yaml.AliasNode:
		return fromYAML(y.Alias)

	case yaml.SequenceNode:
		l := make([]Node, len(y.Content))
		for i, c := range y.Content {
			n, err := fromYAML(c)
			if err != nil {
				return Null, err
			}
			l[i] = n
		}
		return List(l...), nil

	case yaml.MappingNode:
		n := Node{kind: KindMap, m: make(map[string]Node, len(y.Content)/2)}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Null, fmt.Errorf("line %d: map key must be a scalar", k.Line)
			}
			vn, err := fromYAML(v)
			if err != nil {
				return Null, err
			}
			n = n.with(k.Value, vn)
		}
		return n, nil

	case yaml.ScalarNode:
		var v interface{}
		if err := y.Decode(&v); err != nil {
			return Null, fmt.Errorf("line %d: %v", y.Line, err)
		}
		switch v := v.(type) {
		case nil, bool, string, float64, int, int64, uint64:
			return FromValue(v), nil
		}
		// Timestamps and other tagged scalars keep their
		// source text.
		return String(y.Value), nil
	}
	return Null, fmt.Errorf("line %d: unsupported YAML node kind %v", y.Line, y.Kind)
}

// MarshalJSON encodes n as JSON, keeping map keys in insertion order.
// Non-finite numbers are encoded as null.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		if math.IsNaN(n.num) || math.IsInf(n.num, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(formatNumber(n.num))
		}
	case KindString:
		b, err := json.Marshal(n.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, x := range n.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := x.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := n.m[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// EncodeJSON writes n to w as indented JSON.
func EncodeJSON(w io.Writer, n Node) error {
	b, err := n.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// EncodeYAML writes n to w as a YAML document.
func EncodeYAML(w io.Writer, n Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(n)); err != nil {
		return err
	}
	return enc.Close()
}

func toYAML(n Node) *yaml.Node {
	switch n.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.b)}
	case KindNumber:
		switch {
		case math.IsNaN(n.num):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}
		case math.IsInf(n.num, 1):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
		case math.IsInf(n.num, -1):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
		case n.num == math.Trunc(n.num) && math.Abs(n.num) < 1e15:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: formatNumber(n.num)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatNumber(n.num)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.str}
	case KindList:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, x := range n.list {
			y.Content = append(y.Content, toYAML(x))
		}
		return y
	case KindMap:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.keys {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAML(n.m[k]))
		}
		return y
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
