// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geo flattens GeoJSON geometries bound to data rows into
// plain coordinate columns.
package geo

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/aclements/go-plotspec/failure"
)

// Type is a GeoJSON geometry type.
type Type int

const (
	Point Type = iota
	MultiPoint
	LineString
	MultiLineString
	Polygon
	MultiPolygon
)

var typeNames = [...]string{"Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon"}

func (t Type) String() string {
	return typeNames[t]
}

// LonLat is one geographic coordinate, in degrees.
type LonLat struct {
	Lon, Lat float64
}

// A Geometry is a decoded GeoJSON geometry.
//
// Point, MultiPoint and LineString store their coordinates in Points.
// MultiLineString stores its lines and Polygon its rings in Lines.
// MultiPolygon stores the rings of each polygon in Polygons.
type Geometry struct {
	Type     Type
	Points   []LonLat
	Lines    [][]LonLat
	Polygons [][][]LonLat
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Parse decodes a GeoJSON geometry object.
func Parse(s string) (*Geometry, error) {
	var raw rawGeometry
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, failure.New(failure.TypeMismatch, "Can't parse geometry %q: %v", s, err)
	}
	g := &Geometry{}
	var err error
	switch raw.Type {
	case "Point":
		g.Type = Point
		var p []float64
		if err = json.Unmarshal(raw.Coordinates, &p); err == nil {
			var ll LonLat
			if ll, err = lonLat(p); err == nil {
				g.Points = []LonLat{ll}
			}
		}
	case "MultiPoint", "LineString":
		g.Type = MultiPoint
		if raw.Type == "LineString" {
			g.Type = LineString
		}
		var ps [][]float64
		if err = json.Unmarshal(raw.Coordinates, &ps); err == nil {
			g.Points, err = lonLats(ps)
		}
	case "MultiLineString", "Polygon":
		g.Type = MultiLineString
		if raw.Type == "Polygon" {
			g.Type = Polygon
		}
		var ls [][][]float64
		if err = json.Unmarshal(raw.Coordinates, &ls); err == nil {
			g.Lines, err = lines(ls)
		}
	case "MultiPolygon":
		g.Type = MultiPolygon
		var pss [][][][]float64
		if err = json.Unmarshal(raw.Coordinates, &pss); err == nil {
			for _, ls := range pss {
				var rings [][]LonLat
				if rings, err = lines(ls); err != nil {
					break
				}
				g.Polygons = append(g.Polygons, rings)
			}
		}
	default:
		return nil, failure.New(failure.TypeMismatch, "Unsupported geometry type: '%s'", raw.Type)
	}
	if err != nil {
		return nil, failure.New(failure.TypeMismatch, "Invalid %s coordinates: %v", raw.Type, err)
	}
	return g, nil
}

func lonLat(p []float64) (LonLat, error) {
	if len(p) < 2 {
		return LonLat{}, fmt.Errorf("position %v has fewer than 2 elements", p)
	}
	return LonLat{p[0], p[1]}, nil
}

func lonLats(ps [][]float64) ([]LonLat, error) {
	out := make([]LonLat, len(ps))
	for i, p := range ps {
		ll, err := lonLat(p)
		if err != nil {
			return nil, err
		}
		out[i] = ll
	}
	return out, nil
}

func lines(ls [][][]float64) ([][]LonLat, error) {
	out := make([][]LonLat, len(ls))
	for i, l := range ls {
		ll, err := lonLats(l)
		if err != nil {
			return nil, err
		}
		out[i] = ll
	}
	return out, nil
}
