// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"math"
	"sort"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
)

// Names of the columns produced by Extract.
const (
	ID = "__geo_id__"

	Lon = "lon"
	Lat = "lat"

	LonMin = "lonmin"
	LatMin = "latmin"
	LonMax = "lonmax"
	LatMax = "latmax"
)

// A Target is the kind of coordinate tuples a geom consumes.
type Target int

const (
	// PointTarget emits one (lon, lat) tuple per point.
	PointTarget Target = iota

	// PathTarget emits every vertex of every line.
	PathTarget

	// BoundaryTarget emits every vertex of every polygon ring,
	// holes included.
	BoundaryTarget

	// BBoxTarget emits the bounding box of each geometry, split
	// at the anti-meridian if it crosses it.
	BBoxTarget
)

var targetSupported = [...]string{
	PointTarget:    "Point, MultiPoint",
	PathTarget:     "LineString, MultiLineString",
	BoundaryTarget: "Polygon, MultiPolygon",
	BBoxTarget:     "MultiPoint, LineString, MultiLineString, Polygon, MultiPolygon",
}

// TargetFor returns the target consumed by the named geom.
func TargetFor(geom string) (Target, error) {
	switch geom {
	case "map", "polygon":
		return BoundaryTarget, nil
	case "livemap", "point", "text", "label", "pie":
		return PointTarget, nil
	case "rect":
		return BBoxTarget, nil
	case "path":
		return PathTarget, nil
	}
	return 0, failure.New(failure.UnsupportedGeometryForTarget, "Unsupported geom: %s", geom)
}

// Columns returns the names of the coordinate columns t produces.
func (t Target) Columns() []string {
	if t == BBoxTarget {
		return []string{LonMin, LatMin, LonMax, LatMax}
	}
	return []string{Lon, Lat}
}

// Mappings returns the default aesthetic mappings onto the coordinate
// columns of t.
func (t Target) Mappings() map[aes.Aes]string {
	if t == BBoxTarget {
		return map[aes.Aes]string{
			aes.XMin: LonMin,
			aes.YMin: LatMin,
			aes.XMax: LonMax,
			aes.YMax: LatMax,
		}
	}
	return map[aes.Aes]string{aes.X: Lon, aes.Y: Lat}
}

// collector accumulates coordinate columns.
type collector struct {
	cols map[string][]interface{}
	n    int
}

func (c *collector) point(p LonLat) {
	c.cols[Lon] = append(c.cols[Lon], p.Lon)
	c.cols[Lat] = append(c.cols[Lat], p.Lat)
	c.n++
}

func (c *collector) points(ps []LonLat) {
	for _, p := range ps {
		c.point(p)
	}
}

func (c *collector) rect(r rect) {
	c.cols[LonMin] = append(c.cols[LonMin], r.lonMin)
	c.cols[LatMin] = append(c.cols[LatMin], r.latMin)
	c.cols[LonMax] = append(c.cols[LonMax], r.lonMax)
	c.cols[LatMax] = append(c.cols[LatMax], r.latMax)
	c.n++
}

// emit adds the tuples of g for target t. Geometry types t does not
// support emit nothing.
func (c *collector) emit(t Target, g *Geometry) {
	switch t {
	case PointTarget:
		switch g.Type {
		case Point, MultiPoint:
			c.points(g.Points)
		}

	case PathTarget:
		switch g.Type {
		case LineString:
			c.points(g.Points)
		case MultiLineString:
			for _, l := range g.Lines {
				c.points(l)
			}
		}

	case BoundaryTarget:
		switch g.Type {
		case Polygon:
			for _, r := range g.Lines {
				c.points(r)
			}
		case MultiPolygon:
			for _, poly := range g.Polygons {
				for _, r := range poly {
					c.points(r)
				}
			}
		}

	case BBoxTarget:
		var parts []rect
		switch g.Type {
		case MultiPoint, LineString:
			parts = appendBounds(parts, g.Points)
		case MultiLineString:
			var all []LonLat
			for _, l := range g.Lines {
				all = append(all, l...)
			}
			parts = appendBounds(parts, all)
		case Polygon:
			if len(g.Lines) > 0 {
				parts = appendBounds(parts, g.Lines[0])
			}
		case MultiPolygon:
			for _, poly := range g.Polygons {
				if len(poly) > 0 {
					parts = appendBounds(parts, poly[0])
				}
			}
		}
		if len(parts) == 0 {
			return
		}
		for _, r := range union(parts).splitAntiMeridian() {
			c.rect(r)
		}
	}
}

// Extract flattens the GeoJSON geometries in column geomCol of f into
// coordinate tuples for target t.
//
// Every other column of a source row is repeated once for each tuple
// emitted for that row, so every output column has as many values as
// there are tuples. The ID column holds the index of each tuple's
// source row. The geometry column is dropped. Missing geometries emit
// no tuples.
func Extract(f *data.Frame, geomCol string, t Target) (*data.Frame, error) {
	if _, err := f.Find(geomCol); err != nil {
		return nil, err
	}
	c := &collector{cols: map[string][]interface{}{}}
	var src []int
	for row, v := range f.MustColumn(geomCol) {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"Geometry column '%s' must hold GeoJSON strings but row %d is: %v", geomCol, row, v)
		}
		g, err := Parse(s)
		if err != nil {
			return nil, err
		}
		before := c.n
		c.emit(t, g)
		for i := before; i < c.n; i++ {
			src = append(src, row)
		}
	}
	if c.n == 0 {
		return nil, failure.New(failure.EmptyGeometryResult,
			"Geometries are empty or no matching types. Expected: [%s]", targetSupported[t])
	}

	b := data.NewBuilder(f.Select(src)).Remove(geomCol)
	for _, name := range t.Columns() {
		b.Put(data.Var(name), c.cols[name])
	}
	ids := make([]interface{}, len(src))
	for i, row := range src {
		ids[i] = float64(row)
	}
	b.Put(data.Var(ID), ids)
	return b.Done(), nil
}

type rect struct {
	lonMin, latMin, lonMax, latMax float64
}

func appendBounds(parts []rect, ps []LonLat) []rect {
	if len(ps) == 0 {
		return parts
	}
	r := rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range ps {
		r.lonMin = math.Min(r.lonMin, p.Lon)
		r.lonMax = math.Max(r.lonMax, p.Lon)
		r.latMin = math.Min(r.latMin, p.Lat)
		r.latMax = math.Max(r.latMax, p.Lat)
	}
	return append(parts, r)
}

// union returns the smallest box covering parts, treating longitude
// as circular. If the box crosses the anti-meridian, lonMax exceeds
// 180.
func union(parts []rect) rect {
	out := rect{latMin: math.Inf(1), latMax: math.Inf(-1)}
	spans := make([][2]float64, 0, len(parts))
	for _, p := range parts {
		out.latMin = math.Min(out.latMin, p.latMin)
		out.latMax = math.Max(out.latMax, p.latMax)
		spans = append(spans, [2]float64{p.lonMin, p.lonMax})
	}

	// Merge overlapping longitude spans.
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s[0] <= last[1] {
			last[1] = math.Max(last[1], s[1])
		} else {
			merged = append(merged, s)
		}
	}

	// The box is the complement of the widest gap between spans.
	// The gap that wraps around the anti-meridian wins ties, which
	// keeps ordinary boxes from being split.
	n := len(merged)
	out.lonMin, out.lonMax = merged[0][0], merged[n-1][1]
	widest := merged[0][0] + 360 - merged[n-1][1]
	for i := 0; i+1 < n; i++ {
		if gap := merged[i+1][0] - merged[i][1]; gap > widest {
			widest = gap
			out.lonMin, out.lonMax = merged[i+1][0], merged[i][1]+360
		}
	}
	return out
}

// splitAntiMeridian splits r into boxes that do not cross longitude
// 180.
func (r rect) splitAntiMeridian() []rect {
	if r.lonMax <= 180 {
		return []rect{r}
	}
	return []rect{
		{r.lonMin, r.latMin, 180, r.latMax},
		{-180, r.latMin, r.lonMax - 360, r.latMax},
	}
}
