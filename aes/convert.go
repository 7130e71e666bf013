// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aes

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-plotspec/spec"
	"golang.org/x/image/colornames"
)

// Linetypes are the named line types, indexed by their numeric code.
var Linetypes = []string{"blank", "solid", "dashed", "dotted", "dotdash", "longdash", "twodash"}

// MaxShape is the largest numeric point shape code.
const MaxShape = 25

// Convert converts a constant option value to a value of a's type.
// It returns false if v cannot be converted.
//
// Color aesthetics produce color.RGBA values from color names
// ("dark_blue" and "darkblue" are equivalent), "#rgb", "#rrggbb",
// "#rrggbbaa" or "rgb(r, g, b)" strings. Shape produces an int code.
// Linetype produces a line type name. Text aesthetics produce
// strings and other aesthetics produce float64.
func Convert(a Aes, v spec.Node) (interface{}, bool) {
	switch {
	case IsColor(a):
		s, ok := v.AsString()
		if !ok {
			return nil, false
		}
		c, ok := ParseColor(s)
		if !ok {
			return nil, false
		}
		return c, true

	case a == Shape:
		if x, ok := v.AsNumber(); ok && x == math.Trunc(x) && x >= 0 && x <= MaxShape {
			return int(x), true
		}
		return nil, false

	case a == Linetype:
		if x, ok := v.AsNumber(); ok && x == math.Trunc(x) && x >= 0 && int(x) < len(Linetypes) {
			return Linetypes[int(x)], true
		}
		if s, ok := v.AsString(); ok {
			for _, lt := range Linetypes {
				if s == lt {
					return s, true
				}
			}
			// Hex dash patterns like "44" or "1343".
			if len(s)%2 == 0 && len(s) > 0 && len(s) <= 8 {
				if _, err := strconv.ParseUint(s, 16, 32); err == nil {
					return s, true
				}
			}
		}
		return nil, false

	case a == Label:
		switch v.Kind() {
		case spec.KindString, spec.KindNumber, spec.KindBool:
			return v.Scalar(), true
		}
		return nil, false

	case a == Family || a == Fontface:
		if s, ok := v.AsString(); ok {
			return s, true
		}
		return nil, false

	case a == HJust || a == VJust:
		if x, ok := v.AsNumber(); ok {
			return x, true
		}
		if s, ok := v.AsString(); ok {
			switch s {
			case "left", "bottom":
				return 0.0, true
			case "middle", "center":
				return 0.5, true
			case "right", "top":
				return 1.0, true
			case "inward", "outward":
				return s, true
			}
		}
		return nil, false

	case a == MapID || a == Frame:
		if s := v.Scalar(); s != nil {
			return s, true
		}
		return nil, false
	}

	if x, ok := v.AsNumber(); ok {
		return x, true
	}
	return nil, false
}

// ParseColor parses a color name or CSS-style color string.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFunc(s)
	}
	name := strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
	if name == "transparent" {
		return color.RGBA{}, true
	}
	if c, ok := colornames.Map[name]; ok {
		return c, true
	}
	if c, ok := colornames.Map[strings.Replace(name, "gray", "grey", -1)]; ok {
		return c, true
	}
	if c, ok := colornames.Map[strings.Replace(name, "grey", "gray", -1)]; ok {
		return c, true
	}
	return color.RGBA{}, false
}

func parseHex(h string) (color.RGBA, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		fallthrough
	case 6:
		h += "ff"
	case 8:
	default:
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

func parseFunc(s string) (color.RGBA, bool) {
	i, j := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if j < i {
		return color.RGBA{}, false
	}
	parts := strings.Split(s[i+1:j], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, false
	}
	var cs [4]uint8
	cs[3] = 255
	for k, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return color.RGBA{}, false
		}
		if k == 3 {
			// Alpha is in [0, 1].
			x *= 255
		}
		if x < 0 || x > 255 {
			return color.RGBA{}, false
		}
		cs[k] = uint8(math.Round(x))
	}
	return color.RGBA{cs[0], cs[1], cs[2], cs[3]}, true
}
