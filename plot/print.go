// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/aclements/go-gg/table"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/facet"
)

// Fprint prints a summary of m to w: its layers with their bindings,
// constants and row counts, then its scales, coordinate system,
// facets, titles and messages.
func (m *Model) Fprint(w io.Writer) error {
	p := &printer{w: w}
	for i, l := range m.Layers {
		p.printf("layer %d: %s/%s %s\n", i, l.Geom, l.Stat.Name(), l.Pos.Name())
		for _, b := range l.Bindings {
			p.printf("\t%s: %s\n", b.Aes, b.Var.Name)
		}
		var consts []aes.Aes
		for a := range l.Constants {
			consts = append(consts, a)
		}
		aes.Sort(consts)
		for _, a := range consts {
			p.printf("\t%s = %s\n", a, constString(l.Constants[a]))
		}
		if l.Group != "" {
			p.printf("\tgroup: %s\n", l.Group)
		}
		if l.YOrientation {
			p.printf("\torientation: y\n")
		}
		f := l.Combined()
		p.printf("\tdata: %d rows [%s]\n", f.Len(), strings.Join(f.Names(), " "))
	}

	var as []aes.Aes
	for a := range m.Scales {
		as = append(as, a)
	}
	aes.Sort(as)
	for _, a := range as {
		s := m.Scales[a]
		p.printf("scale %s", s)
		if s.Domain != nil {
			p.printf(" [%g, %g]", s.Domain[0], s.Domain[1])
		}
		p.printf("\n")
	}

	if m.Coord != nil {
		x, y := m.Coord.Limits()
		p.printf("coord: %s x%s y%s\n", m.Coord.Name(), x, y)
	}
	switch f := m.Facet.(type) {
	case *facet.Grid:
		p.printf("facet: grid x=%s y=%s %dx%d\n", f.X, f.Y, f.Cols(), f.Rows())
	case *facet.Wrap:
		p.printf("facet: wrap %v %dx%d, %d panels\n", f.Facets, f.NCol, f.NRow, f.Panels())
	}
	for _, t := range []struct{ name, text string }{
		{"title", m.Title}, {"subtitle", m.Subtitle}, {"caption", m.Caption},
	} {
		if t.text != "" {
			p.printf("%s: %s\n", t.name, t.text)
		}
	}
	for _, msg := range m.Messages {
		p.printf("message: %s\n", msg)
	}
	return p.err
}

// FprintData prints every layer's combined data to w as a table.
func (m *Model) FprintData(w io.Writer) error {
	for i, l := range m.Layers {
		if _, err := fmt.Fprintf(w, "layer %d:\n", i); err != nil {
			return err
		}
		if err := table.Fprint(w, l.Combined().Table()); err != nil {
			return err
		}
	}
	return nil
}

// Fprint prints a summary of f and of every plot in it to w.
func (f *Figure) Fprint(w io.Writer) error {
	return f.fprint(w, "")
}

func (f *Figure) fprint(w io.Writer, prefix string) error {
	p := &printer{w: w}
	if f.Kind == KindSubplots {
		p.printf("%s%s %dx%d\n", prefix, f.Kind, f.NCol, f.NRow)
	} else {
		p.printf("%s%s\n", prefix, f.Kind)
	}
	for i, it := range f.Items {
		if p.err != nil {
			break
		}
		name := fmt.Sprintf("%sitem %d", prefix, i)
		switch {
		case it.Blank():
			p.printf("%s: blank\n", name)
		case it.Figure != nil:
			p.err = it.Figure.fprint(w, name+"/")
		default:
			if f.Kind == KindBunch {
				p.printf("%s: at (%g, %g) size %gx%g\n", name, it.X, it.Y, it.Width, it.Height)
			} else {
				p.printf("%s:\n", name)
			}
			if p.err == nil {
				p.err = it.Plot.Fprint(w)
			}
		}
	}
	return p.err
}

// printer writes formatted output, remembering the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func constString(v interface{}) string {
	if c, ok := v.(color.RGBA); ok {
		if c.A == 0xff {
			return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		}
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprint(v)
}
