// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/stat"
)

// A mapping is a parsed "mapping" option.
type mapping struct {
	vars  map[aes.Aes]string
	group string
}

// parseMapping parses a mapping node. Keys other than aesthetic
// names and "group" are ignored.
func parseMapping(n spec.Node) (mapping, error) {
	m := mapping{vars: map[aes.Aes]string{}}
	if n.IsNull() {
		return m, nil
	}
	if n.Kind() != spec.KindMap {
		return m, failure.New(failure.TypeMismatch, "Not a Map: mapping: %s", n.Kind())
	}
	for _, k := range n.Keys() {
		v, _ := n.Get(k)
		if v.IsNull() {
			continue
		}
		name, ok := v.AsString()
		if !ok {
			return m, failure.New(failure.TypeMismatch,
				"The mapping of '%s' requires a variable name but was: %s", k, v)
		}
		if k == "group" {
			m.group = name
			continue
		}
		if a, ok := aes.Lookup(k); ok {
			m.vars[a] = name
		}
	}
	return m, nil
}

// over returns m overlaid with o. o's entries win.
func (m mapping) over(o mapping) mapping {
	out := mapping{vars: make(map[aes.Aes]string, len(m.vars)+len(o.vars)), group: m.group}
	for a, v := range m.vars {
		out.vars[a] = v
	}
	for a, v := range o.vars {
		out.vars[a] = v
	}
	if o.group != "" {
		out.group = o.group
	}
	return out
}

// aesList returns the mapped aesthetics in canonical order.
func (m mapping) aesList() []aes.Aes {
	as := make([]aes.Aes, 0, len(m.vars))
	for a := range m.vars {
		as = append(as, a)
	}
	aes.Sort(as)
	return as
}

// variable returns the variable a mapping names. If discrete is set,
// it is the discrete-marked variable.
func variable(name string, discrete bool) (data.Variable, error) {
	if discrete {
		marked, err := data.ToDiscrete(name)
		if err != nil {
			return data.Variable{}, err
		}
		return data.Variable{Name: marked, Label: name}, nil
	}
	if data.IsStatName(name) {
		if v, ok := stat.Var(name); ok {
			return v, nil
		}
		return data.Variable{Name: name, Label: name, Stat: true}, nil
	}
	return data.Var(name), nil
}

// asDiscrete returns the aesthetics annotated as_discrete by any of
// metas.
func asDiscrete(metas ...*data.Meta) map[aes.Aes]bool {
	out := map[aes.Aes]bool{}
	for _, m := range metas {
		for a := range m.AsDiscrete() {
			out[a] = true
		}
	}
	return out
}

// variables resolves the variables of m, marking those of discrete
// aesthetics.
func variables(m mapping, discrete map[aes.Aes]bool) (map[aes.Aes]data.Variable, error) {
	vars := make(map[aes.Aes]data.Variable, len(m.vars))
	for a, name := range m.vars {
		v, err := variable(name, discrete[a])
		if err != nil {
			return nil, err
		}
		vars[a] = v
	}
	return vars, nil
}

// combineData merges the shared and own frames, applies the series
// annotations of metas, and adds a discrete-marked copy of every
// column a discrete variable of vars refers to.
func combineData(shared, own *data.Frame, metas []*data.Meta, vars map[aes.Aes]data.Variable) *data.Frame {
	f := data.Merge(shared, own)
	for _, m := range metas {
		f = m.Annotate(f)
	}
	return addDiscrete(f, vars)
}

func addDiscrete(f *data.Frame, vars map[aes.Aes]data.Variable) *data.Frame {
	var b *data.Builder
	for _, a := range aes.All() {
		v, ok := vars[a]
		if !ok || !data.IsDiscreteName(v.Name) || f.Has(v.Name) {
			continue
		}
		raw := data.Unmarked(v.Name)
		if !f.Has(raw) || (b != nil && b.Has(v.Name)) {
			continue
		}
		if b == nil {
			b = data.NewBuilder(f)
		}
		b.Put(v, f.Column(raw)).Discrete(v.Name)
		if l := f.Levels(raw); l != nil {
			b.Levels(v.Name, l)
		}
	}
	if b == nil {
		return f
	}
	return b.Done()
}

// isDiscrete reports whether v holds categories in f.
func isDiscrete(f *data.Frame, v data.Variable) bool {
	return f.IsDiscrete(v.Name) || (f.Has(v.Name) && !f.IsNumeric(v.Name))
}
