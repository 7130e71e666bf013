// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"image/color"
	"math"
	"reflect"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
	"github.com/aclements/go-plotspec/transform"
)

// A Mapper maps transformed data values to visual values.
type Mapper interface {
	// Map returns the visual value of the transformed value x.
	// Values that cannot be mapped produce the mapper's NA value.
	Map(x float64) interface{}

	// IsContinuous reports whether the mapper interpolates
	// between outputs.
	IsContinuous() bool
}

// Default NA values.
var (
	naColor = color.RGBA{0x99, 0x99, 0x99, 0xff}
	naShape = 1 // hollow circle
	naLine  = "dotted"
)

// Default gradient ends.
var (
	gradientLow  = color.RGBA{0x13, 0x2b, 0x43, 0xff}
	gradientHigh = color.RGBA{0x56, 0xb1, 0xf7, 0xff}
	gradientMid  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

var (
	allShapes    = []interface{}{16, 17, 15, 18, 3, 4, 8, 1, 2, 0, 5, 6}
	hollowShapes = []interface{}{1, 2, 0, 5, 6, 4, 3, 8}
	allLinetypes = []interface{}{"solid", "dashed", "dotted", "dotdash", "longdash", "twodash"}
)

// continuousMapper maps a continuous domain through a gg linear
// scaler.
type continuousMapper struct {
	s  gg.ContinuousScaler
	na interface{}
}

func newContinuousMapper(lo, hi float64, r gg.ContinuousRanger, na interface{}) *continuousMapper {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	} else if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	s := gg.NewLinearScaler().SetMin(lo).SetMax(hi)
	s.Ranger(r)
	return &continuousMapper{s, na}
}

func (m *continuousMapper) Map(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return m.na
	}
	return m.s.Map(x)
}

func (m *continuousMapper) IsContinuous() bool { return true }

// discreteMapper maps level indexes through a gg ordinal scaler.
type discreteMapper struct {
	s  gg.Scaler
	n  int
	na interface{}
}

func newDiscreteMapper(n int, r gg.Ranger, na interface{}) *discreteMapper {
	s := gg.NewOrdinalScale()
	levels := make([]int, n)
	for i := range levels {
		levels[i] = i
	}
	s.ExpandDomain(levels)
	s.Ranger(r)
	return &discreteMapper{s, n, na}
}

func (m *discreteMapper) Map(x float64) interface{} {
	i := int(x)
	if math.IsNaN(x) || i < 0 || i >= m.n {
		return m.na
	}
	return m.s.Map(i)
}

func (m *discreteMapper) IsContinuous() bool { return false }

// identityMapper returns discrete domain values converted to the
// aesthetic's type, or continuous values unchanged.
type identityMapper struct {
	a      aes.Aes
	domain []interface{}
	na     interface{}
}

func (m *identityMapper) Map(x float64) interface{} {
	if m.domain == nil {
		if math.IsNaN(x) || !aes.IsNumeric(m.a) {
			return m.na
		}
		return x
	}
	i := int(x)
	if math.IsNaN(x) || i < 0 || i >= len(m.domain) {
		return m.na
	}
	if v, ok := aes.Convert(m.a, spec.FromValue(m.domain[i])); ok {
		return v
	}
	return m.na
}

func (m *identityMapper) IsContinuous() bool { return m.domain == nil }

// valuesMapper maps level i to the ith manual value.
type valuesMapper struct {
	values []interface{}
	na     interface{}
}

func (m *valuesMapper) Map(x float64) interface{} {
	i := int(x)
	if math.IsNaN(x) || i < 0 || i >= len(m.values) {
		return m.na
	}
	return m.values[i]
}

func (m *valuesMapper) IsContinuous() bool { return false }

// numericIdentity passes transformed values through.
type numericIdentity struct{}

func (numericIdentity) Map(x float64) interface{} { return x }

func (numericIdentity) IsContinuous() bool { return true }

// A domainSpec describes the domain a mapper is built over.
type domainSpec struct {
	// discrete is set for a discrete domain.
	discrete *transform.Discrete

	// lo and hi bound a continuous domain in transformed space.
	lo, hi float64
}

func (d domainSpec) levels() int {
	return len(d.discrete.Domain())
}

// newMapper builds the mapper of the non-positional aesthetic a.
func newMapper(a aes.Aes, c *Config, d domainSpec) (Mapper, error) {
	o := spec.NewOptions(spec.Null, nil)
	kind := ""
	if c != nil {
		o = c.Options
		kind = c.MapperKind
	}
	na := defaultNA(a)
	if c != nil && c.NA != nil {
		na = c.NA
	}

	if c != nil && len(c.Values) > 0 && kind == "" {
		if d.discrete != nil {
			return &valuesMapper{c.Values, na}, nil
		}
		// Continuous data with manual values interpolates
		// between them when they are colors.
		if aes.IsColor(a) {
			cs := make([]color.Color, len(c.Values))
			for i, v := range c.Values {
				cs[i] = v.(color.Color)
			}
			return colorMapper(gradient(cs...), d, na), nil
		}
		return &valuesMapper{c.Values, na}, nil
	}

	if kind == "" {
		kind = defaultKind(a, d.discrete != nil)
	}

	switch kind {
	case KindIdentity:
		if d.discrete != nil {
			return &identityMapper{a, d.discrete.Domain(), na}, nil
		}
		return &identityMapper{a: a, na: na}, nil

	case KindColorGradient:
		low, err := colorOpt(a, o, "low", gradientLow)
		if err != nil {
			return nil, err
		}
		high, err := colorOpt(a, o, "high", gradientHigh)
		if err != nil {
			return nil, err
		}
		return colorMapper(gradient(low, high), d, na), nil

	case KindColorGradient2:
		low, err := colorOpt(a, o, "low", gradientLow)
		if err != nil {
			return nil, err
		}
		mid, err := colorOpt(a, o, "mid", gradientMid)
		if err != nil {
			return nil, err
		}
		high, err := colorOpt(a, o, "high", gradientHigh)
		if err != nil {
			return nil, err
		}
		midpoint, err := o.GetDoubleDef("midpoint", 0)
		if err != nil {
			return nil, err
		}
		m := 0.5
		if d.discrete == nil && d.hi > d.lo {
			m = (midpoint - d.lo) / (d.hi - d.lo)
		}
		return colorMapper(diverging{gradient(low, mid), gradient(mid, high), m}, d, na), nil

	case KindColorGradientN:
		var cs []color.Color
		for _, n := range o.GetAsList("colors") {
			c, ok := aes.Convert(a, n)
			if !ok {
				return nil, failure.New(failure.UnconvertibleConstant, "Can't convert to '%s' value: %s", a, n)
			}
			cs = append(cs, c.(color.Color))
		}
		if len(cs) == 0 {
			cs = []color.Color{gradientLow, gradientHigh}
		}
		return colorMapper(gradient(cs...), d, na), nil

	case KindColorHue:
		lo, hi := 15.0, 375.0
		if r, err := o.GetRangeOrNull("h"); err != nil {
			return nil, err
		} else if r != nil {
			lo, hi = r[0], r[1]
		}
		chroma, err := o.GetDoubleDef("c", 100)
		if err != nil {
			return nil, err
		}
		lum, err := o.GetDoubleDef("l", 65)
		if err != nil {
			return nil, err
		}
		start, err := o.GetDoubleDef("h_start", 0)
		if err != nil {
			return nil, err
		}
		dir, err := o.GetDoubleDef("direction", 1)
		if err != nil {
			return nil, err
		}
		f := hues(lo, hi, chroma, lum, start, dir < 0)
		if d.discrete != nil {
			return newDiscreteMapper(d.levels(), &levelFunc{f, colorType}, na), nil
		}
		const steps = 16
		cs := make([]color.Color, steps)
		for i := range cs {
			cs[i] = f(i, steps)
		}
		return colorMapper(gradient(cs...), d, na), nil

	case KindColorGrey:
		start, err := o.GetDoubleDef("start", 0.2)
		if err != nil {
			return nil, err
		}
		end, err := o.GetDoubleDef("end", 0.8)
		if err != nil {
			return nil, err
		}
		f := greys(start, end)
		if d.discrete != nil {
			return newDiscreteMapper(d.levels(), &levelFunc{f, colorType}, na), nil
		}
		return colorMapper(gradient(f(0, 2), f(1, 2)), d, na), nil

	case KindColorBrewer:
		p, err := brewerOpt(o, d.discrete != nil)
		if err != nil {
			return nil, err
		}
		if d.discrete != nil {
			return newDiscreteMapper(d.levels(), p, na), nil
		}
		return colorMapper(p.gradient(), d, na), nil

	case KindColorCmap:
		name, err := o.GetStringDef("option", "viridis")
		if err != nil {
			return nil, err
		}
		switch name {
		case "viridis", "D":
		default:
			return nil, failure.New(failure.UnknownFeatureName,
				"Unknown colormap name: '%s'. Expected: [viridis]", name)
		}
		cm := cmap{p: palette.Viridis, begin: 0, end: 1, alpha: 1}
		if cm.alpha, err = o.GetDoubleDef("alpha", 1); err != nil {
			return nil, err
		}
		if cm.begin, err = o.GetDoubleDef("begin", 0); err != nil {
			return nil, err
		}
		if cm.end, err = o.GetDoubleDef("end", 1); err != nil {
			return nil, err
		}
		dir, err := o.GetDoubleDef("direction", 1)
		if err != nil {
			return nil, err
		}
		cm.reverse = dir < 0
		return colorMapper(cm, d, na), nil

	case KindSizeArea:
		max, err := o.GetDoubleDef("max_size", 6)
		if err != nil {
			return nil, err
		}
		area := funcRanger(func(x float64) float64 {
			return max * math.Sqrt(math.Max(0, math.Min(1, x)))
		})
		if d.discrete != nil {
			return newDiscreteMapper(d.levels(), area, na), nil
		}
		return newContinuousMapper(math.Min(0, d.lo), d.hi, area, na), nil

	case KindSize, KindAlpha:
		lo, hi := defaultRange(a)
		if r, err := o.GetRangeOrNull("range"); err != nil {
			return nil, err
		} else if r != nil {
			lo, hi = r[0], r[1]
		}
		fr := gg.NewFloatRanger(lo, hi)
		if d.discrete != nil {
			return newDiscreteMapper(d.levels(), fr, na), nil
		}
		return newContinuousMapper(d.lo, d.hi, fr, na), nil

	case KindShape:
		shapes := allShapes
		if solid, err := o.GetBool("solid", true); err != nil {
			return nil, err
		} else if !solid {
			shapes = hollowShapes
		}
		r := &levelRanger{shapes, reflect.TypeOf(0)}
		if d.discrete == nil {
			return nil, failure.New(failure.InvalidOption,
				"A continuous variable can not be mapped to a shape.")
		}
		return newDiscreteMapper(d.levels(), r, na), nil

	case KindLinetype:
		if d.discrete == nil {
			return nil, failure.New(failure.InvalidOption,
				"A continuous variable can not be mapped to a linetype.")
		}
		r := &levelRanger{allLinetypes, reflect.TypeOf("")}
		return newDiscreteMapper(d.levels(), r, na), nil
	}
	return numericIdentity{}, nil
}

// colorMapper maps d through the continuous palette p.
func colorMapper(p palette.Continuous, d domainSpec, na interface{}) Mapper {
	r := paletteRanger{p}
	if d.discrete != nil {
		return newDiscreteMapper(d.levels(), r, na)
	}
	return newContinuousMapper(d.lo, d.hi, r, na)
}

// defaultKind returns the mapper kind of an aesthetic with no
// configured kind.
func defaultKind(a aes.Aes, discrete bool) string {
	switch {
	case aes.IsColor(a):
		if discrete {
			return KindColorBrewer
		}
		return KindColorGradient
	case a == aes.Size || a == aes.Linewidth:
		return KindSize
	case a == aes.Alpha:
		return KindAlpha
	case a == aes.Shape:
		return KindShape
	case a == aes.Linetype:
		return KindLinetype
	case !aes.IsNumeric(a):
		return KindIdentity
	}
	return ""
}

func defaultRange(a aes.Aes) (lo, hi float64) {
	switch a {
	case aes.Alpha:
		return 0.1, 1
	case aes.Linewidth:
		return 0.2, 2
	}
	return 2, 5.5
}

func defaultNA(a aes.Aes) interface{} {
	switch {
	case aes.IsColor(a):
		return naColor
	case a == aes.Shape:
		return naShape
	case a == aes.Linetype:
		return naLine
	case !aes.IsNumeric(a):
		return nil
	}
	return math.NaN()
}

func colorOpt(a aes.Aes, o *spec.Options, key string, def color.Color) (color.Color, error) {
	if !o.Has(key) {
		return def, nil
	}
	c, ok := aes.Convert(a, o.Get(key))
	if !ok {
		return nil, failure.New(failure.UnconvertibleConstant,
			"Can't convert to '%s' value: %s", a, o.Get(key))
	}
	return c.(color.Color), nil
}

// brewerOpt resolves the brewer palette options. A palette may be
// named or given as an index into the palettes of its type. The
// default is Set1 for discrete data.
func brewerOpt(o *spec.Options, discrete bool) (*brewerPalette, error) {
	typ, err := o.GetStringDef("type", "")
	if err != nil {
		return nil, err
	}
	if typ != "" && brewerTypes[typ] == nil {
		return nil, failure.New(failure.InvalidOption,
			"Palette type expected one of 'seq' (sequential), 'div' (diverging) or 'qual' (qualitative) but was: '%s'", typ)
	}
	dir, err := o.GetDoubleDef("direction", 1)
	if err != nil {
		return nil, err
	}

	var name string
	pn := o.Get("palette")
	switch {
	case pn.IsNull():
		switch {
		case typ != "":
			name = brewerDefaults[typ]
		case discrete:
			name = "Set1"
		default:
			name = brewerDefaults["seq"]
		}
	case pn.Kind() == spec.KindNumber:
		if typ == "" {
			typ = "seq"
		}
		x, _ := pn.AsNumber()
		names := brewerTypes[typ]
		i := int(x) - 1
		if i < 0 {
			i = 0
		}
		name = names[i%len(names)]
	default:
		s, ok := pn.AsString()
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"Palette: string or number is expected but was: %s", pn)
		}
		name = s
	}
	p, ok := lookupBrewer(name, dir < 0)
	if !ok {
		return nil, failure.New(failure.UnknownFeatureName, "Unknown brewer palette name: '%s'", name)
	}
	return p, nil
}
