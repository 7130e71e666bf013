// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// A Pos is a position adjustment provider.
type Pos interface {
	Name() string
}

// Identity leaves positions unchanged.
type Identity struct{}

// Stack stacks objects on top of each other.
type Stack struct {
	VJust *float64
	Mode  string // "groups" or "all"
}

// FillPos stacks objects and normalizes each stack to height 1.
type FillPos struct {
	VJust *float64
	Mode  string
}

// Dodge places objects side by side.
type Dodge struct {
	Width *float64
}

// Jitter adds random noise to positions.
type Jitter struct {
	Width, Height *float64
	Seed          *int64
}

// Nudge shifts positions by a constant offset.
type Nudge struct {
	X, Y float64
}

// JitterDodge dodges and then jitters objects.
type JitterDodge struct {
	DodgeWidth, JitterWidth, JitterHeight *float64
	Seed                                  *int64
}

func (Identity) Name() string     { return "identity" }
func (*Stack) Name() string       { return "stack" }
func (*FillPos) Name() string     { return "fill" }
func (*Dodge) Name() string       { return "dodge" }
func (*Jitter) Name() string      { return "jitter" }
func (*Nudge) Name() string       { return "nudge" }
func (*JitterDodge) Name() string { return "jitterdodge" }

var posNames = []string{"identity", "stack", "fill", "dodge", "jitter", "nudge", "jitterdodge"}

// ResolvePos resolves a position adjustment specification.
func ResolvePos(n spec.Node) (Pos, error) {
	name, o, err := Parse("position", n)
	if err != nil {
		return nil, err
	}
	switch name {
	case "identity":
		return Identity{}, nil

	case "stack", "fill":
		vjust, err := optFloat(o, "vjust")
		if err != nil {
			return nil, err
		}
		mode, err := o.GetStringDef("mode", "groups")
		if err != nil {
			return nil, err
		}
		if mode != "groups" && mode != "all" {
			return nil, failure.New(failure.InvalidOption,
				"Unsupported value in 'mode' parameter: '%s'. Use one of: groups, all.", mode)
		}
		if name == "fill" {
			return &FillPos{vjust, mode}, nil
		}
		return &Stack{vjust, mode}, nil

	case "dodge":
		w, err := optFloat(o, "width")
		if err != nil {
			return nil, err
		}
		return &Dodge{w}, nil

	case "jitter":
		p := &Jitter{}
		if p.Width, err = optFloat(o, "width"); err != nil {
			return nil, err
		}
		if p.Height, err = optFloat(o, "height"); err != nil {
			return nil, err
		}
		if p.Seed, err = optInt64(o, "seed"); err != nil {
			return nil, err
		}
		return p, nil

	case "nudge":
		p := &Nudge{}
		if p.X, err = o.GetDoubleDef("x", 0); err != nil {
			return nil, err
		}
		if p.Y, err = o.GetDoubleDef("y", 0); err != nil {
			return nil, err
		}
		return p, nil

	case "jitterdodge":
		p := &JitterDodge{}
		if p.DodgeWidth, err = optFloat(o, "dodge_width"); err != nil {
			return nil, err
		}
		if p.JitterWidth, err = optFloat(o, "jitter_width"); err != nil {
			return nil, err
		}
		if p.JitterHeight, err = optFloat(o, "jitter_height"); err != nil {
			return nil, err
		}
		if p.Seed, err = optInt64(o, "seed"); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, unknown("position", name, posNames)
}

// MergePos combines a layer's own position options with the
// geometry's preferred position options.
//
// With no own options, the preferred options are used. If the own
// options name the same position as the preferred ones, the
// preferred parameters are kept and the own parameters override
// them. Otherwise only the own options are used. own and preferred
// may be bare names or maps.
func MergePos(own, preferred spec.Node) (spec.Node, error) {
	if own.IsNull() {
		return preferred, nil
	}
	ownName, ownOpts, err := Parse("position", own)
	if err != nil {
		return spec.Null, err
	}
	if preferred.IsNull() {
		return own, nil
	}
	prefName, prefOpts, err := Parse("position", preferred)
	if err != nil {
		return spec.Null, err
	}
	if ownName != prefName {
		return own, nil
	}
	merged := spec.Map(Name, ownName)
	for _, k := range prefOpts.OwnKeys() {
		merged = merged.With(k, prefOpts.Get(k))
	}
	for _, k := range ownOpts.OwnKeys() {
		merged = merged.With(k, ownOpts.Get(k))
	}
	return merged, nil
}
