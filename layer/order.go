// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// An OrderOption orders the categories of a discrete variable.
type OrderOption struct {
	// Var is the discrete-marked variable being ordered.
	Var string

	// By is the variable whose values order Var, or "" to order
	// Var by its own values.
	By string

	// Dir is 1 for ascending, -1 for descending, or 0 if
	// unspecified.
	Dir int
}

// ByVariable returns the variable that orders o.Var.
func (o OrderOption) ByVariable() string {
	if o.By == "" {
		return o.Var
	}
	return o.By
}

// OrderDir returns the direction of o. Unspecified is descending.
func (o OrderOption) OrderDir() int {
	if o.Dir == 0 {
		return -1
	}
	return o.Dir
}

// orderOptions returns the order options of the as-discrete
// annotations in m whose aesthetics are mapped by vars. Annotations
// with neither order_by nor order produce no option.
func orderOptions(m *data.Meta, vars map[aes.Aes]string) ([]OrderOption, error) {
	var opts []OrderOption
	for _, ma := range m.Mappings {
		if ma.Annotation != data.AsDiscrete {
			continue
		}
		name, ok := vars[ma.Aes]
		if !ok || (ma.OrderBy == "" && ma.Order == 0) {
			continue
		}
		v, err := data.ToDiscrete(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, OrderOption{Var: v, By: ma.OrderBy, Dir: ma.Order})
	}
	return opts, nil
}

// mergeOrderOptions folds options for the same variable together,
// keeping the first-seen variable order. Later fields fill in fields
// left empty by earlier options; two different non-empty values for
// one field are a conflict.
func mergeOrderOptions(opts []OrderOption) ([]OrderOption, error) {
	var out []OrderOption
	index := map[string]int{}
	for _, o := range opts {
		i, ok := index[o.Var]
		if !ok {
			index[o.Var] = len(out)
			out = append(out, o)
			continue
		}
		prev := &out[i]
		if o.By != "" {
			if prev.By != "" && prev.By != o.By {
				return nil, failure.New(failure.InvalidOption,
					"Multiple ordering options for the variable '%s' with different non-empty 'order_by' fields: '%s' and '%s'",
					o.Var, prev.By, o.By)
			}
			prev.By = o.By
		}
		if o.Dir != 0 {
			if prev.Dir != 0 && prev.Dir != o.Dir {
				return nil, failure.New(failure.InvalidOption,
					"Multiple ordering options for the variable '%s' with different order direction: '%d' and '%d'",
					o.Var, prev.Dir, o.Dir)
			}
			prev.Dir = o.Dir
		}
	}
	return out, nil
}

// ScaleSpecs returns the scale specifications implied by the
// as-discrete annotations of metas: one discrete scale per annotated
// aesthetic, named by the last non-empty label given for it.
func ScaleSpecs(metas ...*data.Meta) []spec.Node {
	var order []aes.Aes
	labels := map[aes.Aes]string{}
	for _, m := range metas {
		if m == nil {
			continue
		}
		for _, ma := range m.Mappings {
			if ma.Annotation != data.AsDiscrete {
				continue
			}
			if _, ok := labels[ma.Aes]; !ok {
				order = append(order, ma.Aes)
				labels[ma.Aes] = ""
			}
			if ma.Label != "" {
				labels[ma.Aes] = ma.Label
			}
		}
	}
	specs := make([]spec.Node, 0, len(order))
	for _, a := range order {
		n := spec.Map("aesthetic", a.String(), "discrete", true)
		if l := labels[a]; l != "" {
			n = n.With("name", spec.String(l))
		}
		specs = append(specs, n)
	}
	return specs
}
