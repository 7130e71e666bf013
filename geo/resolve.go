// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"fmt"
	"strings"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// MapJoinRequired is the message of the failure returned when a layer
// maps data and supplies a map without saying how to join them.
const MapJoinRequired = "map_join is required when both data and map parameters used"

// A Source describes where a layer's geometries come from.
type Source struct {
	// Geom is the layer's geom name.
	Geom string

	// Data is the layer's combined data. DataGeometry names its
	// geometry column if the data itself is a geodataframe.
	Data         *data.Frame
	DataGeometry string

	// Map is the layer's "map" option. MapGeometry names its
	// geometry column.
	Map         *data.Frame
	MapGeometry string

	// MapJoin holds the data and map key columns, or nil.
	MapJoin *[2][]string

	// Mapped reports whether the layer maps any aesthetics.
	Mapped bool
}

// Applicable reports whether a layer with the given mapped aesthetics
// and geodataframe columns is geography-backed. Outside map plots, a
// layer that maps a positional aesthetic uses its own coordinates.
func Applicable(mapped []aes.Aes, isMapPlot bool, dataGeometry, mapGeometry string) bool {
	if !isMapPlot {
		for _, a := range mapped {
			if aes.IsPositional(a) {
				return false
			}
		}
	}
	return dataGeometry != "" || mapGeometry != ""
}

// ParseMapJoin parses a map_join option: a pair of a data key and a
// map key, each either one column name or a list of names.
func ParseMapJoin(n spec.Node) (*[2][]string, error) {
	if n.IsNull() {
		return nil, nil
	}
	l, ok := n.AsList()
	if !ok || len(l) != 2 {
		return nil, failure.New(failure.TypeMismatch,
			"'map_join' value is expected in form: [data_key, map_key] but was: %s", n)
	}
	var keys [2][]string
	for i, k := range l {
		switch k.Kind() {
		case spec.KindString:
			s, _ := k.AsString()
			keys[i] = []string{s}
		case spec.KindList:
			ks, _ := k.AsList()
			for _, x := range ks {
				s, ok := x.AsString()
				if !ok {
					return nil, failure.New(failure.TypeMismatch,
						"'map_join' keys must be column names but was: %s", x)
				}
				keys[i] = append(keys[i], s)
			}
		default:
			return nil, failure.New(failure.TypeMismatch,
				"'map_join' keys must be column names but was: %s", k)
		}
	}
	if len(keys[0]) != len(keys[1]) || len(keys[0]) == 0 {
		return nil, failure.New(failure.InvalidOption,
			"'map_join' requires the same number of data and map keys but was: %s", n)
	}
	return &keys, nil
}

// Resolve extracts the coordinates of a geography-backed layer. It
// returns the layer's new data and the default mappings of the
// layer's target onto the coordinate columns.
//
// If the map is a geodataframe and map_join is given, data rows are
// joined to map rows. If only the map is given, the map is the data.
// Otherwise the data must itself be a geodataframe.
func Resolve(s Source) (*data.Frame, map[aes.Aes]string, error) {
	t, err := TargetFor(s.Geom)
	if err != nil {
		return nil, nil, err
	}
	dataEmpty := s.Data == nil || s.Data.IsEmpty()

	var f *data.Frame
	var geomCol string
	switch {
	case s.MapGeometry != "" && s.MapJoin == nil && !dataEmpty && s.Mapped:
		return nil, nil, failure.New(failure.MissingOption, MapJoinRequired)

	case s.MapGeometry != "" && s.MapJoin != nil:
		if s.Map == nil {
			return nil, nil, failure.New(failure.MissingOption, "'map' parameter is mandatory with map_data_meta")
		}
		if dataEmpty {
			f = s.Map
		} else if f, err = join(s.Data, s.MapJoin[0], s.Map, s.MapJoin[1]); err != nil {
			return nil, nil, err
		}
		geomCol = s.MapGeometry

	case s.MapGeometry != "":
		if s.Map == nil {
			return nil, nil, failure.New(failure.MissingOption, "'map' parameter is mandatory with map_data_meta")
		}
		f, geomCol = s.Map, s.MapGeometry

	case s.DataGeometry != "" && s.Map == nil:
		if dataEmpty {
			return nil, nil, failure.New(failure.MissingOption, "'data' parameter is mandatory with data_meta")
		}
		f, geomCol = s.Data, s.DataGeometry

	default:
		return nil, nil, failure.New(failure.MissingOption, "GeoDataFrame not found in data or map")
	}

	out, err := Extract(f, geomCol, t)
	if err != nil {
		return nil, nil, err
	}
	return out, t.Mappings(), nil
}

// join matches every map row with the data rows whose key columns
// equal its key columns. Map rows without matching data are kept
// with missing data values, and data rows without a matching map row
// are dropped. Data columns come first, followed by the map columns
// the data does not have. Where a map row has no data, a data column
// takes the value of the map column of the same name.
func join(d *data.Frame, dataKeys []string, m *data.Frame, mapKeys []string) (*data.Frame, error) {
	for _, k := range dataKeys {
		if _, err := d.Find(k); err != nil {
			return nil, err
		}
	}
	for _, k := range mapKeys {
		if _, err := m.Find(k); err != nil {
			return nil, err
		}
	}

	byKey := map[string][]int{}
	for row := 0; row < d.Len(); row++ {
		k := rowKey(d, dataKeys, row)
		byKey[k] = append(byKey[k], row)
	}
	var dataRows, mapRows []int
	for row := 0; row < m.Len(); row++ {
		matches := byKey[rowKey(m, mapKeys, row)]
		if len(matches) == 0 {
			dataRows = append(dataRows, -1)
			mapRows = append(mapRows, row)
			continue
		}
		for _, dr := range matches {
			dataRows = append(dataRows, dr)
			mapRows = append(mapRows, row)
		}
	}

	b := data.NewBuilder(nil)
	for _, v := range d.Variables() {
		col := gather(d.Column(v.Name), dataRows)
		if m.Has(v.Name) {
			mcol := m.Column(v.Name)
			for i, r := range dataRows {
				if r < 0 {
					col[i] = mcol[mapRows[i]]
				}
			}
		}
		b.Put(v, col)
		if d.IsDateTime(v.Name) {
			b.DateTime(v.Name)
		}
	}
	for _, v := range m.Variables() {
		if d.Has(v.Name) {
			continue
		}
		b.Put(v, gather(m.Column(v.Name), mapRows))
	}
	return b.Done(), nil
}

func rowKey(f *data.Frame, keys []string, row int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", f.Column(k)[row])
	}
	return strings.Join(parts, "\x00")
}

// gather returns col[rows[i]] for each i, or nil where rows[i] < 0.
func gather(col []interface{}, rows []int) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		if r >= 0 {
			out[i] = col[r]
		}
	}
	return out
}
