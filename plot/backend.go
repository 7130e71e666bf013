// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/facet"
	"github.com/aclements/go-plotspec/layer"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/stat"
)

// ResolveBackend resolves the plot specification n before stats are
// computed, computes every layer's stat and samplings, and returns
// the specification to resolve on the client along with the backend
// model.
//
// In the returned specification, every layer whose data changed
// carries the computed data as its own data, columns the client does
// not need are dropped, and computation messages are appended to
// "computation_messages". n is unchanged.
func ResolveBackend(n spec.Node, opts Options) (spec.Node, *Model, error) {
	m, err := resolve(n, true, opts)
	if err != nil {
		return spec.Null, nil, err
	}
	facetVars := facetVariables(m.Facet)

	var msgs []string
	for i, l := range m.Layers {
		f, changed, lmsgs, err := computeLayer(l, facetVars)
		if err != nil {
			return spec.Null, nil, errors.Wrapf(err, "layer %d", i)
		}
		if changed {
			m.Layers[i] = l.ReplaceOwnData(f)
		}
		msgs = append(msgs, lmsgs...)
	}
	sharedPruned := m.dropUnused(facetVars)

	out := n
	if len(m.Layers) > 0 {
		specs := make([]spec.Node, len(m.Layers))
		for i, l := range m.Layers {
			specs[i] = l.Spec()
			if _, ok := specs[i].Get("orientation"); l.YOrientation && !ok {
				// The client does not detect orientation.
				specs[i] = spec.Patch(specs[i], "orientation", "y")
			}
		}
		out = spec.Patch(out, "layers", specs)
	}
	if sharedPruned {
		out = spec.Patch(out, "data", data.ToSpec(m.Data))
	}
	if len(msgs) > 0 {
		for _, msg := range msgs {
			Warning.Print(msg)
		}
		m.Messages = append(m.Messages, msgs...)
		out = spec.Patch(out, MessagesKey, m.Messages)
	}
	m.Spec = out
	return out, m, nil
}

// facetVariables returns the variables p partitions by.
func facetVariables(p facet.Partition) []string {
	switch p := p.(type) {
	case *facet.Grid:
		var vs []string
		for _, v := range []string{p.X, p.Y} {
			if v != "" {
				vs = append(vs, v)
			}
		}
		return vs
	case *facet.Wrap:
		return p.Facets
	}
	return nil
}

// computeLayer computes l's stat and samplings separately in every
// facet panel. It returns the resulting data and whether it differs
// from l's combined data.
func computeLayer(l *layer.Layer, facetVars []string) (*data.Frame, bool, []string, error) {
	var msgs []string
	applied := func(expr string) {
		msgs = append(msgs, fmt.Sprintf("%s was applied to [%s/%s] layer", expr, l.Geom, l.Stat.Name()))
	}

	f := l.Combined()
	changed := false
	if !l.Stat.IsIdentity() {
		if !stat.Supported(l.Stat.Kind) {
			msgs = append(msgs, fmt.Sprintf("%s stat is not computed: [%s/%s] layer keeps its data", l.Stat.Name(), l.Geom, l.Stat.Name()))
		} else {
			var err error
			f, changed, err = eachTile(f, facetVars, func(t *data.Frame) (*data.Frame, bool, error) {
				out, err := applyStat(l, t)
				return out, true, err
			})
			if err != nil {
				return nil, false, nil, errors.Wrapf(err, "%s stat", l.Stat.Name())
			}
		}
	}

	if len(l.Samplings) > 0 {
		x, y := boundName(l, aes.X), boundName(l, aes.Y)
		used := make([]bool, len(l.Samplings))
		sf, sampled, err := eachTile(f, facetVars, func(t *data.Frame) (*data.Frame, bool, error) {
			any := false
			for i, s := range l.Samplings {
				if st, ok := sample(s, t, groupKeys(l, t), x, y); ok {
					t, used[i], any = st, true, true
				}
			}
			return t, any, nil
		})
		if err != nil {
			return nil, false, nil, err
		}
		if sampled {
			f, changed = sf, true
		}
		for i, s := range l.Samplings {
			if used[i] {
				applied(samplingExpr(s))
			}
		}
	}
	return f, changed, msgs, nil
}

func boundName(l *layer.Layer, a aes.Aes) string {
	if b, ok := l.Binding(a); ok {
		return b.Var.Name
	}
	return ""
}

// eachTile applies fn to the rows of every distinct combination of
// the facet variables of f and stacks the results. It reports
// whether any call changed its rows.
func eachTile(f *data.Frame, facetVars []string, fn func(*data.Frame) (*data.Frame, bool, error)) (*data.Frame, bool, error) {
	var cols [][]interface{}
	for _, v := range facetVars {
		if f.Has(v) {
			cols = append(cols, f.Column(v))
		}
	}
	if len(cols) == 0 {
		return fn(f)
	}
	keys, byKey := groupRows(rowKeys(f.Len(), cols))
	if len(keys) <= 1 {
		return fn(f)
	}
	outs := make([]*data.Frame, 0, len(keys))
	changed := false
	for _, k := range keys {
		out, ok, err := fn(f.Select(byKey[k]))
		if err != nil {
			return nil, false, err
		}
		outs = append(outs, out)
		changed = changed || ok
	}
	if !changed {
		return f, false, nil
	}
	return concat(outs), true, nil
}

// rowKeys joins the values of cols in every row into one key.
func rowKeys(n int, cols [][]interface{}) []string {
	keys := make([]string, n)
	parts := make([]string, len(cols))
	for row := range keys {
		for i, c := range cols {
			parts[i] = fmt.Sprint(c[row])
		}
		keys[row] = strings.Join(parts, "\x00")
	}
	return keys
}

// groupKeys returns the group of every row of f: the layer's group
// variable or, without one, the combination of its discrete
// non-positional variables.
func groupKeys(l *layer.Layer, f *data.Frame) []string {
	var cols [][]interface{}
	if l.Group != "" && f.Has(l.Group) {
		cols = append(cols, f.Column(l.Group))
	} else {
		for _, b := range l.Bindings {
			name := b.Var.Name
			if aes.IsPositional(b.Aes) || !f.Has(name) {
				continue
			}
			if f.IsDiscrete(name) || !f.IsNumeric(name) {
				cols = append(cols, f.Column(name))
			}
		}
	}
	return rowKeys(f.Len(), cols)
}

// applyStat computes l's stat over f. Columns bound to aesthetics the
// stat maps by default receive the corresponding stat output, so the
// layer's explicit mappings stay valid on the client.
func applyStat(l *layer.Layer, f *data.Frame) (*data.Frame, error) {
	bindings := map[aes.Aes]string{}
	for _, b := range l.Bindings {
		if b.Var.Stat {
			continue
		}
		a := b.Aes
		if l.YOrientation {
			a = aes.Flip(a)
		}
		bindings[a] = b.Var.Name
	}

	group, synthesized := "", false
	if l.Group != "" && f.Has(l.Group) {
		group = l.Group
	} else if keys := groupKeys(l, f); len(keys) > 0 && keys[0] != "" {
		col := make([]interface{}, len(keys))
		for i, k := range keys {
			col[i] = k
		}
		f = data.NewBuilder(f).Put(stat.GroupVar, col).Done()
		group, synthesized = stat.GroupVar.Name, true
	}

	out, err := stat.Apply(l.Stat, f, bindings, group)
	if err != nil {
		return nil, err
	}
	if synthesized {
		out = data.NewBuilder(out).Remove(stat.GroupVar.Name).Done()
	}

	defaults := l.Stat.DefaultMapping()
	var b *data.Builder
	for _, vb := range l.Bindings {
		if vb.Var.Stat || out.Has(vb.Var.Name) {
			continue
		}
		a := vb.Aes
		if l.YOrientation {
			a = aes.Flip(a)
		}
		sv, ok := defaults[a]
		if !ok || !out.Has(sv.Name) {
			continue
		}
		if b == nil {
			b = data.NewBuilder(out)
		}
		b.Put(vb.Var, out.Column(sv.Name))
		if data.IsDiscreteName(vb.Var.Name) {
			b.Discrete(vb.Var.Name)
		}
	}
	if b != nil {
		out = b.Done()
	}
	return out, nil
}

// concat stacks frames. A column missing from some frame is missing
// in that frame's rows.
func concat(fs []*data.Frame) *data.Frame {
	var vars []data.Variable
	seen := map[string]bool{}
	for _, f := range fs {
		for _, v := range f.Variables() {
			if !seen[v.Name] {
				seen[v.Name] = true
				vars = append(vars, v)
			}
		}
	}
	b := data.NewBuilder(nil)
	for _, v := range vars {
		col := []interface{}{}
		dateTime := false
		for _, f := range fs {
			if f.Has(v.Name) {
				col = append(col, f.Column(v.Name)...)
				dateTime = dateTime || f.IsDateTime(v.Name)
			} else {
				col = append(col, make([]interface{}, f.Len())...)
			}
		}
		b.Put(v, col)
		if dateTime {
			b.DateTime(v.Name)
		}
	}
	return b.Done()
}

// dropUnused removes the columns no layer needs on the client from
// every layer's own data and from the shared data. It reports
// whether the shared data changed.
func (m *Model) dropUnused(facetVars []string) bool {
	keeps := make([]map[string]bool, len(m.Layers))
	for i, l := range m.Layers {
		keeps[i] = keepVars(l, facetVars)
		if f, ok := prune(l.OwnData, keeps[i]); ok {
			m.Layers[i] = l.ReplaceOwnData(f)
		}
	}

	// A shared column is needed by a layer that uses it and does
	// not have its own copy.
	keep := map[string]bool{}
	for _, name := range m.Data.Names() {
		for i, l := range m.Layers {
			if keeps[i][name] && !l.OwnData.Has(name) {
				keep[name] = true
				break
			}
		}
	}
	f, ok := prune(m.Data, keep)
	m.Data = f
	return ok
}

// keepVars returns the columns l needs on the client.
func keepVars(l *layer.Layer, facetVars []string) map[string]bool {
	keep := map[string]bool{}
	add := func(names ...string) {
		for _, n := range names {
			if n != "" {
				keep[n] = true
			}
		}
	}

	rendered := map[aes.Aes]bool{l.ColorBy: true, l.FillBy: true}
	for _, a := range l.Geom.Renders() {
		if l.YOrientation {
			a = aes.Flip(a)
		}
		rendered[a] = true
	}
	for _, b := range l.Bindings {
		if rendered[b.Aes] {
			add(b.Var.Name)
		}
	}
	// The client maps stat output through the stat's defaults.
	for _, name := range l.OwnData.Names() {
		if data.IsStatName(name) {
			add(name)
		}
	}

	add(l.Group, l.Meta.Geometry)
	if l.MapJoin != nil {
		add(l.MapJoin[0]...)
	}
	add(facetVars...)
	if t := l.Tooltips; t != nil {
		lines := t.Lines
		if t.Title != nil {
			lines = append(lines[:len(lines):len(lines)], *t.Title)
		}
		for _, line := range lines {
			for _, tok := range line.Tokens {
				if tok.Kind == layer.VarRef {
					add(tok.Text)
				}
			}
		}
		for _, f := range t.Formats {
			if !f.IsAes {
				add(f.Field)
			}
		}
	}
	for _, o := range l.Order {
		add(o.Var, o.ByVariable())
	}
	return keep
}

// prune removes the columns of f not in keep. It reports whether any
// column was removed.
func prune(f *data.Frame, keep map[string]bool) (*data.Frame, bool) {
	var b *data.Builder
	for _, name := range f.Names() {
		if keep[name] {
			continue
		}
		if b == nil {
			b = data.NewBuilder(f)
		}
		b.Remove(name)
	}
	if b == nil {
		return f, false
	}
	return b.Done(), true
}
