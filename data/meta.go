// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// Annotation types accepted in data meta.
const (
	AsDiscrete = "as_discrete"

	TypeDateTime = "datetime"
	TypeDate     = "date"
	TypeTime     = "time"
)

// A MappingAnnotation adjusts how one mapped aesthetic treats its
// variable. The only annotation is AsDiscrete.
type MappingAnnotation struct {
	Aes        aes.Aes
	Annotation string

	// Label overrides the scale name. Empty means no label.
	Label string

	// OrderBy names the variable that orders the categories, or
	// is empty. Order is 1 for ascending, -1 for descending and 0
	// if unspecified.
	OrderBy string
	Order   int
}

// A SeriesAnnotation describes one column of the data.
type SeriesAnnotation struct {
	Column       string
	Type         string
	FactorLevels []interface{}
	Order        int
	TimeZone     string
}

// Meta is the parsed "data_meta" option of a plot or layer.
type Meta struct {
	Mappings []MappingAnnotation
	Series   []SeriesAnnotation

	// Geometry is the name of the GeoJSON geometry column, if the
	// data is a geodataframe.
	Geometry string
}

// ParseMeta parses a data meta node. A null node gives empty Meta.
func ParseMeta(n spec.Node) (*Meta, error) {
	m := &Meta{}
	if n.IsNull() {
		return m, nil
	}
	if n.Kind() != spec.KindMap {
		return nil, failure.New(failure.TypeMismatch, "Not a Map: data_meta: %s", n.Kind())
	}
	o := spec.NewOptions(n, nil)

	anns, err := o.GetList("mapping_annotations")
	if err != nil {
		return nil, err
	}
	for _, an := range anns {
		ao, err := mapOptions("mapping_annotations", an)
		if err != nil {
			return nil, err
		}
		name, err := ao.GetStringSafe("aes")
		if err != nil {
			return nil, err
		}
		a, ok := aes.Lookup(name)
		if !ok {
			return nil, failure.New(failure.UnknownFeatureName, "Unknown aesthetic name: '%s'", name)
		}
		kind, err := ao.GetStringSafe("annotation")
		if err != nil {
			return nil, err
		}
		params, err := ao.GetMap("parameters")
		if err != nil {
			return nil, err
		}
		ma := MappingAnnotation{Aes: a, Annotation: kind}
		if ma.Label, err = params.GetStringDef("label", ""); err != nil {
			return nil, err
		}
		if ma.OrderBy, err = params.GetStringDef("order_by", ""); err != nil {
			return nil, err
		}
		if ma.Order, err = orderDir(params, "order"); err != nil {
			return nil, err
		}
		m.Mappings = append(m.Mappings, ma)
	}

	series, err := o.GetList("series_annotations")
	if err != nil {
		return nil, err
	}
	for _, sn := range series {
		so, err := mapOptions("series_annotations", sn)
		if err != nil {
			return nil, err
		}
		var sa SeriesAnnotation
		if sa.Column, err = so.GetStringSafe("column"); err != nil {
			return nil, err
		}
		if sa.Type, err = so.GetStringDef("type", ""); err != nil {
			return nil, err
		}
		if sa.TimeZone, err = so.GetStringDef("time_zone", ""); err != nil {
			return nil, err
		}
		levels, err := so.GetList("factor_levels")
		if err != nil {
			return nil, err
		}
		for _, l := range levels {
			sa.FactorLevels = append(sa.FactorLevels, l.Scalar())
		}
		if sa.Order, err = orderDir(so, "order"); err != nil {
			return nil, err
		}
		m.Series = append(m.Series, sa)
	}

	gdf, err := o.GetMap("geodataframe")
	if err != nil {
		return nil, err
	}
	if m.Geometry, err = gdf.GetStringDef("geometry", ""); err != nil {
		return nil, err
	}
	return m, nil
}

func mapOptions(key string, n spec.Node) (*spec.Options, error) {
	if n.Kind() != spec.KindMap {
		return nil, failure.New(failure.TypeMismatch, "Not a Map: %s element: %s", key, n.Kind())
	}
	return spec.NewOptions(n, nil), nil
}

func orderDir(o *spec.Options, key string) (int, error) {
	d, ok, err := o.GetInt(key)
	if err != nil || !ok {
		return 0, err
	}
	switch d {
	case 1, -1, 0:
		return d, nil
	}
	return 0, failure.New(failure.InvalidOption, "Unsupported '%s' value: %d. Use 1 (ascending) or -1 (descending).", key, d)
}

// AsDiscrete returns the aesthetics marked as_discrete.
func (m *Meta) AsDiscrete() map[aes.Aes]MappingAnnotation {
	out := map[aes.Aes]MappingAnnotation{}
	for _, ma := range m.Mappings {
		if ma.Annotation == AsDiscrete {
			out[ma.Aes] = ma
		}
	}
	return out
}

// DateTimeColumns returns the columns annotated with a date or time
// type.
func (m *Meta) DateTimeColumns() []string {
	var cols []string
	for _, s := range m.Series {
		switch s.Type {
		case TypeDateTime, TypeDate, TypeTime:
			cols = append(cols, s.Column)
		}
	}
	return cols
}

// Annotate returns f with the series annotations of m applied:
// date-time columns are tagged and factor levels are recorded.
// Annotations of columns that are not in f are ignored.
func (m *Meta) Annotate(f *Frame) *Frame {
	if len(m.Series) == 0 {
		return f
	}
	b := NewBuilder(f)
	for _, s := range m.Series {
		if !f.Has(s.Column) {
			continue
		}
		switch s.Type {
		case TypeDateTime, TypeDate, TypeTime:
			b.DateTime(s.Column)
		}
		if s.FactorLevels != nil {
			b.Levels(s.Column, s.FactorLevels)
		}
	}
	return b.Done()
}
