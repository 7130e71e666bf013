// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facet resolves the facet partition of a plot from the
// combined data of its layers.
package facet

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/scales"
	"github.com/aclements/go-plotspec/spec"
)

// Scales sharing modes.
const (
	Fixed = "fixed"
	Free  = "free"
	FreeX = "free_x"
	FreeY = "free_y"
)

// A Partition is a *Grid or a *Wrap.
type Partition interface {
	// Name returns "grid" or "wrap".
	Name() string

	// Panels returns the number of panels.
	Panels() int
}

// A Grid lays panels out by the levels of a column variable X and a
// row variable Y. Either may be "", in which case it has one level.
type Grid struct {
	X, Y             string
	XLevels, YLevels []interface{}
	XFormat, YFormat string
	Scales           string
}

func (*Grid) Name() string { return "grid" }

func (g *Grid) Panels() int { return g.Cols() * g.Rows() }

// Cols returns the number of panel columns.
func (g *Grid) Cols() int {
	if g.X == "" {
		return 1
	}
	return len(g.XLevels)
}

// Rows returns the number of panel rows.
func (g *Grid) Rows() int {
	if g.Y == "" {
		return 1
	}
	return len(g.YLevels)
}

// XLabel formats a level of X.
func (g *Grid) XLabel(v interface{}) string { return Label(g.XFormat, v) }

// YLabel formats a level of Y.
func (g *Grid) YLabel(v interface{}) string { return Label(g.YFormat, v) }

// A Wrap lays out one panel per used combination of the levels of
// its facet variables, filling rows first (Dir "h") or columns first
// (Dir "v").
type Wrap struct {
	Facets  []string
	Levels  [][]interface{}
	Formats []string

	// Tiles holds the level of every facet variable for each
	// panel, in layout order.
	Tiles [][]interface{}

	NCol, NRow int
	Dir        string
	Scales     string
}

func (*Wrap) Name() string { return "wrap" }

func (w *Wrap) Panels() int { return len(w.Tiles) }

// Position returns the row and column of panel i.
func (w *Wrap) Position(i int) (row, col int) {
	if w.Dir == "v" {
		return i % w.NRow, i / w.NRow
	}
	return i / w.NCol, i % w.NCol
}

// TileLabel formats the levels of panel i.
func (w *Wrap) TileLabel(i int) []string {
	out := make([]string, len(w.Facets))
	for j, v := range w.Tiles[i] {
		out[j] = Label(w.Formats[j], v)
	}
	return out
}

// Resolve resolves the facet node n over the combined data frames of
// a plot's layers. A null node has no partition.
func Resolve(n spec.Node, frames []*data.Frame) (Partition, error) {
	if n.IsNull() {
		return nil, nil
	}
	name, o, err := feature.Parse("facet", n)
	if err != nil {
		return nil, err
	}
	switch name {
	case "grid":
		return resolveGrid(o, frames)
	case "wrap":
		return resolveWrap(o, frames)
	}
	return nil, failure.New(failure.UnknownFeatureName,
		"Facet 'grid' or 'wrap' expected but was: `%s`", name)
}

func resolveGrid(o *spec.Options, frames []*data.Frame) (*Grid, error) {
	g := &Grid{}
	var err error
	if g.Scales, err = scalesOpt(o); err != nil {
		return nil, err
	}
	for _, axis := range []struct {
		name, order, format string
		v                   *string
		levels              *[]interface{}
		fmt                 *string
	}{
		{"x", "x_order", "x_format", &g.X, &g.XLevels, &g.XFormat},
		{"y", "y_order", "y_format", &g.Y, &g.YLevels, &g.YFormat},
	} {
		if !o.Has(axis.name) {
			continue
		}
		if *axis.v, err = o.GetStringSafe(axis.name); err != nil {
			return nil, err
		}
		ls, err := levels(*axis.v, frames)
		if err != nil {
			return nil, err
		}
		order, err := orderVal(o.Get(axis.order))
		if err != nil {
			return nil, err
		}
		*axis.levels = reorder(ls, order)
		if *axis.fmt, err = o.GetStringDef(axis.format, ""); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func resolveWrap(o *spec.Options, frames []*data.Frame) (*Wrap, error) {
	w := &Wrap{}
	for _, f := range o.GetAsList("facets") {
		s, ok := f.AsString()
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"'facets' expected a variable name or a list of names but was: %s", f)
		}
		w.Facets = append(w.Facets, s)
	}
	if len(w.Facets) == 0 {
		return nil, failure.New(failure.MissingOption,
			"Can't get string value: option 'facets' is not present.")
	}

	orders := o.GetAsList("order")
	formats := o.GetAsList("format")
	for i, name := range w.Facets {
		ls, err := levels(name, frames)
		if err != nil {
			return nil, err
		}
		order := 0
		if i < len(orders) {
			if order, err = orderVal(orders[i]); err != nil {
				return nil, err
			}
		}
		w.Levels = append(w.Levels, reorder(ls, order))
		format := ""
		if i < len(formats) {
			format, _ = formats[i].AsString()
		}
		w.Formats = append(w.Formats, format)
	}

	var err error
	if w.Scales, err = scalesOpt(o); err != nil {
		return nil, err
	}
	dir, err := o.GetStringDef("dir", "h")
	if err != nil {
		return nil, err
	}
	switch w.Dir = strings.ToLower(dir); w.Dir {
	case "h", "v":
	default:
		return nil, failure.New(failure.InvalidOption,
			"Unsupported `dir` value: %s. Use: 'H' (horizontal) or 'V' (vertical).", dir)
	}

	drop, err := o.GetBool("drop", true)
	if err != nil {
		return nil, err
	}
	w.Tiles = tiles(w.Levels)
	if drop {
		w.Tiles = usedTiles(w.Facets, w.Tiles, frames)
	}

	ncol, hasCol, err := o.GetInt("ncol")
	if err != nil {
		return nil, err
	}
	nrow, hasRow, err := o.GetInt("nrow")
	if err != nil {
		return nil, err
	}
	w.NCol, w.NRow = layout(len(w.Tiles), ncol, hasCol, nrow, hasRow)
	return w, nil
}

// layout derives the panel columns and rows of n wrapped panels. A
// given ncol or nrow takes precedence; otherwise nrow is the ceiling
// of the square root of n.
func layout(n, ncol int, hasCol bool, nrow int, hasRow bool) (int, int) {
	if n == 0 {
		return 0, 0
	}
	ceilDiv := func(a, b int) int { return (a + b - 1) / b }
	switch {
	case hasCol && ncol > 0 && hasRow && nrow > 0:
		if ncol*nrow < n {
			nrow = ceilDiv(n, ncol)
		}
	case hasCol && ncol > 0:
		nrow = ceilDiv(n, ncol)
	case hasRow && nrow > 0:
		ncol = ceilDiv(n, nrow)
	default:
		nrow = int(math.Ceil(math.Sqrt(float64(n))))
		ncol = ceilDiv(n, nrow)
	}
	return ncol, nrow
}

// levels collects the distinct values of name across frames in
// first-seen order. Frames without name are skipped, but name must
// exist in at least one frame.
func levels(name string, frames []*data.Frame) ([]interface{}, error) {
	var out []interface{}
	seen := map[interface{}]bool{}
	found := len(frames) == 0
	for _, f := range frames {
		if !f.Has(name) {
			continue
		}
		found = true
		for _, v := range f.Distinct(name) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	if !found {
		var msgs []string
		for _, f := range frames {
			_, err := f.Find(name)
			msgs = append(msgs, err.Error())
		}
		return nil, failure.New(failure.UndefinedVariable, "%s", strings.Join(msgs, "\n"))
	}
	return out, nil
}

func orderVal(n spec.Node) (int, error) {
	if n.IsNull() {
		return 0, nil
	}
	x, ok := n.AsNumber()
	if !ok {
		return 0, failure.New(failure.InvalidOption,
			"Unsupported `order` value: %s. Use: 1 (natural), -1 (descending) or 0 (no ordering).", n)
	}
	return int(x), nil
}

// reorder sorts levels ascending for order >= 1, descending for
// order <= -1, and leaves them in first-seen order otherwise.
// Numbers sort before strings.
func reorder(levels []interface{}, order int) []interface{} {
	if order == 0 {
		return levels
	}
	out := append([]interface{}(nil), levels...)
	sort.SliceStable(out, func(i, j int) bool {
		if order < 0 {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func less(a, b interface{}) bool {
	switch a := a.(type) {
	case float64:
		if b, ok := b.(float64); ok {
			return a < b
		}
		return true
	case string:
		if b, ok := b.(string); ok {
			return a < b
		}
		_, num := b.(float64)
		return !num && fmt.Sprint(a) < fmt.Sprint(b)
	}
	if _, ok := b.(float64); ok {
		return false
	}
	if _, ok := b.(string); ok {
		return false
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// tiles returns the cartesian product of levels. The first variable
// varies slowest.
func tiles(levels [][]interface{}) [][]interface{} {
	out := [][]interface{}{{}}
	for _, ls := range levels {
		var next [][]interface{}
		for _, t := range out {
			for _, v := range ls {
				tile := append(append([]interface{}(nil), t...), v)
				next = append(next, tile)
			}
		}
		out = next
	}
	return out
}

// usedTiles drops tiles that no row of any frame falls in. A frame
// without some facet variable falls in every tile of that variable.
func usedTiles(facets []string, ts [][]interface{}, frames []*data.Frame) [][]interface{} {
	var out [][]interface{}
	for _, t := range ts {
		for _, f := range frames {
			if inTile(f, facets, t) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func inTile(f *data.Frame, facets []string, t []interface{}) bool {
	for row := 0; row < f.Len(); row++ {
		match := true
		for i, name := range facets {
			if !f.Has(name) {
				continue
			}
			if f.Column(name)[row] != t[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func scalesOpt(o *spec.Options) (string, error) {
	s, err := o.GetStringDef("scales", Fixed)
	if err != nil {
		return "", err
	}
	switch s = strings.ToLower(s); s {
	case Fixed, Free, FreeX, FreeY:
		return s, nil
	}
	return "", failure.New(failure.InvalidOption,
		"Unsupported `scales` value: %s. Use: fixed, free, free_x or free_y", s)
}

// Label formats a facet level. Numbers use format as
// scales.FormatNumber does.
func Label(format string, v interface{}) string {
	if x, ok := v.(float64); ok {
		if format == "" && x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return fmt.Sprintf("%d", int64(x))
		}
		return scales.FormatNumber(format, x)
	}
	if format != "" && strings.Contains(format, "%") {
		return fmt.Sprintf(format, v)
	}
	return fmt.Sprint(v)
}
