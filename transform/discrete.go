// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"

	"github.com/aclements/go-gg/generic/slice"
)

// Discrete maps an ordered set of categories to their indexes.
type Discrete struct {
	values  []interface{}
	limits  []interface{}
	reverse bool

	domain []interface{}
	index  map[interface{}]int
}

// NewDiscrete returns a discrete transform over the distinct
// elements of values in first-seen order. If limits is not empty, it
// replaces the domain: only the limit values are mapped, in limit
// order. If reverse is set, the effective domain is reversed.
func NewDiscrete(values []interface{}, reverse bool, limits []interface{}) *Discrete {
	t := &Discrete{
		values:  distinct(values),
		limits:  distinct(limits),
		reverse: reverse,
	}
	t.init()
	return t
}

func distinct(vs []interface{}) []interface{} {
	out := make([]interface{}, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	return slice.Nub(out).([]interface{})
}

func (t *Discrete) init() {
	src := t.values
	if len(t.limits) > 0 {
		src = t.limits
	}
	t.domain = make([]interface{}, len(src))
	copy(t.domain, src)
	if t.reverse {
		for i, j := 0, len(t.domain)-1; i < j; i, j = i+1, j-1 {
			t.domain[i], t.domain[j] = t.domain[j], t.domain[i]
		}
	}
	t.index = make(map[interface{}]int, len(t.domain))
	for i, v := range t.domain {
		t.index[v] = i
	}
}

func (t *Discrete) IsDiscrete() bool { return true }

// Apply returns the index of v in the effective domain.
func (t *Discrete) Apply(v interface{}) (float64, bool) {
	i, ok := t.index[v]
	if !ok {
		return 0, false
	}
	return float64(i), true
}

// Domain returns the effective domain in mapping order. The caller
// must not modify the result.
func (t *Discrete) Domain() []interface{} {
	return t.domain
}

// Values returns the observed values in first-seen order, before
// limits and reversal.
func (t *Discrete) Values() []interface{} {
	return t.values
}

// Limits returns the explicit limits, if any.
func (t *Discrete) Limits() []interface{} {
	return t.limits
}

// Reversed reports whether the domain is reversed.
func (t *Discrete) Reversed() bool {
	return t.reverse
}

// WithMoreValues returns a transform whose observed values are t's
// values followed by any new values in vs.
func (t *Discrete) WithMoreValues(vs []interface{}) *Discrete {
	return NewDiscrete(append(append([]interface{}{}, t.values...), vs...), t.reverse, t.limits)
}

// Join combines the transforms of several aesthetics sharing an axis
// into one. Values and limits are concatenated preserving first-seen
// order; the result is reversed if any input is reversed.
func Join(ts ...*Discrete) *Discrete {
	var values, limits []interface{}
	reverse := false
	for _, t := range ts {
		values = append(values, t.values...)
		limits = append(limits, t.limits...)
		reverse = reverse || t.reverse
	}
	return NewDiscrete(values, reverse, limits)
}

func (t *Discrete) String() string {
	s := fmt.Sprintf("discrete%v", t.domain)
	if t.reverse {
		s += " reversed"
	}
	return s
}
