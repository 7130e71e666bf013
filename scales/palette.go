// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scales

import (
	"image/color"
	"math"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
)

var (
	colorType   = reflect.TypeOf((*color.Color)(nil)).Elem()
	float64Type = reflect.TypeOf(float64(0))
)

// paletteRanger is a gg.ContinuousRanger over a continuous palette.
type paletteRanger struct {
	p palette.Continuous
}

func (r paletteRanger) RangeType() reflect.Type { return colorType }

func (r paletteRanger) Map(x float64) interface{} { return r.p.Map(x) }

func (r paletteRanger) Unmap(y interface{}) (float64, bool) { return 0, false }

// funcRanger is a gg.ContinuousRanger over a numeric function.
type funcRanger func(x float64) float64

func (r funcRanger) RangeType() reflect.Type { return float64Type }

func (r funcRanger) Map(x float64) interface{} { return r(x) }

func (r funcRanger) Unmap(y interface{}) (float64, bool) { return 0, false }

// levelRanger is a gg.DiscreteRanger that cycles through a fixed list
// of outputs.
type levelRanger struct {
	values []interface{}
	rt     reflect.Type
}

func (r *levelRanger) RangeType() reflect.Type { return r.rt }

func (r *levelRanger) Levels() (min, max int) { return len(r.values), len(r.values) }

func (r *levelRanger) MapLevel(i, j int) interface{} {
	return r.values[i%len(r.values)]
}

// levelFunc is a gg.DiscreteRanger that computes j evenly spaced
// outputs.
type levelFunc struct {
	f  func(i, j int) color.Color
	rt reflect.Type
}

func (r *levelFunc) RangeType() reflect.Type { return r.rt }

func (r *levelFunc) Levels() (min, max int) { return 1, math.MaxInt32 }

func (r *levelFunc) MapLevel(i, j int) interface{} { return r.f(i, j) }

var (
	_ gg.ContinuousRanger = paletteRanger{}
	_ gg.ContinuousRanger = funcRanger(nil)
	_ gg.DiscreteRanger   = (*levelRanger)(nil)
	_ gg.DiscreteRanger   = (*levelFunc)(nil)
)

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// gradient returns an evenly spaced RGB gradient through cs.
func gradient(cs ...color.Color) palette.RGBGradient {
	g := palette.RGBGradient{Colors: make([]color.RGBA, len(cs))}
	for i, c := range cs {
		g.Colors[i] = rgba(c)
	}
	return g
}

// diverging interpolates low to mid on [0, mid] and mid to high on
// [mid, 1].
type diverging struct {
	lo, hi palette.RGBGradient
	mid    float64
}

func (d diverging) Map(x float64) color.Color {
	if x <= d.mid {
		if d.mid <= 0 {
			return d.lo.Map(1)
		}
		return d.lo.Map(x / d.mid)
	}
	if d.mid >= 1 {
		return d.hi.Map(0)
	}
	return d.hi.Map((x - d.mid) / (1 - d.mid))
}

// cmap restricts a palette to [begin, end], optionally reversed, and
// applies a constant alpha.
type cmap struct {
	p          palette.Continuous
	begin, end float64
	reverse    bool
	alpha      float64
}

func (c cmap) Map(x float64) color.Color {
	if c.reverse {
		x = 1 - x
	}
	col := rgba(c.p.Map(c.begin + x*(c.end-c.begin)))
	if c.alpha >= 1 {
		return col
	}
	return color.NRGBA{col.R, col.G, col.B, uint8(math.Round(c.alpha * 255))}
}

// hcl converts a polar CIE-Luv color to sRGB.
func hcl(h, c, l float64) color.RGBA {
	if l <= 0 {
		return color.RGBA{0, 0, 0, 0xff}
	}
	const un, vn = 0.1978398, 0.4683363 // D65 white point
	hr := h * math.Pi / 180
	u, v := c*math.Cos(hr), c*math.Sin(hr)
	var y float64
	if l > 8 {
		y = math.Pow((l+16)/116, 3)
	} else {
		y = l / 903.3
	}
	up, vp := u/(13*l)+un, v/(13*l)+vn
	x := y * 9 * up / (4 * vp)
	z := y * (12 - 3*up - 20*vp) / (4 * vp)

	r := 3.2404542*x - 1.5371385*y - 0.4985314*z
	g := -0.9692660*x + 1.8760108*y + 0.0415560*z
	b := 0.0556434*x - 0.2040259*y + 1.0572252*z
	return color.RGBA{gammaByte(r), gammaByte(g), gammaByte(b), 0xff}
}

func gammaByte(c float64) uint8 {
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return uint8(math.Round(255 * math.Max(0, math.Min(1, c))))
}

// hues returns a level function producing j evenly spaced hues.
func hues(lo, hi, chroma, lum, start float64, reverse bool) func(i, j int) color.Color {
	return func(i, j int) color.Color {
		h1, h2 := lo, hi
		if math.Mod(h2-h1, 360) < 1 {
			h2 -= 360 / float64(j)
		}
		if reverse {
			i = j - 1 - i
		}
		h := h1
		if j > 1 {
			h = h1 + (h2-h1)*float64(i)/float64(j-1)
		}
		return hcl(math.Mod(h+start, 360), chroma, lum)
	}
}

// greys returns a level function producing j gamma-corrected greys
// from start to end.
func greys(start, end float64) func(i, j int) color.Color {
	const gamma = 2.2
	return func(i, j int) color.Color {
		t := 0.0
		if j > 1 {
			t = float64(i) / float64(j-1)
		}
		s, e := math.Pow(start, gamma), math.Pow(end, gamma)
		v := math.Pow(s+(e-s)*t, 1/gamma)
		g := uint8(math.Round(255 * v))
		return color.RGBA{g, g, g, 0xff}
	}
}

// Brewer palette names by type.
var brewerTypes = map[string][]string{
	"seq": {"Blues", "BuGn", "BuPu", "GnBu", "Greens", "Greys", "Oranges",
		"OrRd", "PuBu", "PuBuGn", "PuRd", "Purples", "RdPu", "Reds",
		"YlGn", "YlGnBu", "YlOrBr", "YlOrRd"},
	"div":  {"BrBG", "PiYG", "PRGn", "PuOr", "RdBu", "RdGy", "RdYlBu", "RdYlGn", "Spectral"},
	"qual": {"Accent", "Dark2", "Paired", "Pastel1", "Pastel2", "Set1", "Set2", "Set3"},
}

var brewerDefaults = map[string]string{"seq": "Blues", "div": "RdBu", "qual": "Set2"}

// brewerPalette is a family of brewer palette variants by number of
// levels.
type brewerPalette struct {
	name     string
	variants map[int][]color.Color
	reverse  bool
}

// sizes returns the available numbers of levels in ascending order.
func (p *brewerPalette) sizes() []int {
	ns := make([]int, 0, len(p.variants))
	for n := range p.variants {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// colors returns the variant with the fewest levels that is at least
// n, or the largest variant.
func (p *brewerPalette) colors(n int) []color.Color {
	ns := p.sizes()
	pick := ns[len(ns)-1]
	for _, k := range ns {
		if k >= n {
			pick = k
			break
		}
	}
	cs := append([]color.Color(nil), p.variants[pick]...)
	if p.reverse {
		for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
			cs[i], cs[j] = cs[j], cs[i]
		}
	}
	return cs
}

func (p *brewerPalette) RangeType() reflect.Type { return colorType }

func (p *brewerPalette) Levels() (min, max int) {
	ns := p.sizes()
	return ns[0], ns[len(ns)-1]
}

func (p *brewerPalette) MapLevel(i, j int) interface{} {
	cs := p.colors(j)
	return cs[i%len(cs)]
}

// gradient returns a continuous palette through p's largest variant.
func (p *brewerPalette) gradient() palette.Continuous {
	ns := p.sizes()
	return gradient(p.colors(ns[len(ns)-1])...)
}

func lookupBrewer(name string, reverse bool) (*brewerPalette, bool) {
	v, ok := brewer.ByName[name]
	if !ok || len(v) == 0 {
		return nil, false
	}
	return &brewerPalette{name, v, reverse}, true
}
