// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

var shapes = []interface{}{
	`{"type": "Point", "coordinates": [1.0, 2.0]}`,
	`{"type": "MultiPoint", "coordinates": [[3.0, 4.0], [5.0, 6.0]]}`,
	`{"type": "LineString", "coordinates": [[7.0, 8.0], [9.0, 10.0]]}`,
	`{"type": "MultiLineString", "coordinates": [[[11.0, 12.0], [13.0, 14.0]], [[15.0, 16.0], [17.0, 18.0]]]}`,
	`{"type": "Polygon", "coordinates": [[[21.0, 21.0], [21.0, 29.0], [29.0, 29.0], [29.0, 21.0], [21.0, 21.0]],
	  [[22.0, 22.0], [23.0, 22.0], [23.0, 23.0], [22.0, 23.0], [22.0, 22.0]],
	  [[24.0, 24.0], [26.0, 24.0], [26.0, 26.0], [24.0, 26.0], [24.0, 24.0]]]}`,
	`{"type": "MultiPolygon", "coordinates": [[[[11.0, 12.0], [13.0, 14.0], [15.0, 13.0], [11.0, 12.0]]]]}`,
}

func gdf(t *testing.T) *data.Frame {
	f, err := data.FromMap(map[string][]interface{}{
		"kind":  {"Point", "MPoint", "Line", "MLine", "Polygon", "MPolygon"},
		"coord": shapes,
		"value": {1.0, 2.0, 3.0, 4.0, 5.0, 6.0},
	})
	require.NoError(t, err)
	return f
}

func TestExtractRowCount(t *testing.T) {
	f := gdf(t)
	for _, test := range []struct {
		target Target
		counts []int // tuples per source row
	}{
		{PointTarget, []int{1, 2, 0, 0, 0, 0}},
		{PathTarget, []int{0, 0, 2, 4, 0, 0}},
		{BoundaryTarget, []int{0, 0, 0, 0, 15, 4}},
		{BBoxTarget, []int{0, 1, 1, 1, 1, 1}},
	} {
		out, err := Extract(f, "coord", test.target)
		require.NoError(t, err)

		total := 0
		var wantIDs, wantKinds []interface{}
		for row, n := range test.counts {
			total += n
			for i := 0; i < n; i++ {
				wantIDs = append(wantIDs, float64(row))
				wantKinds = append(wantKinds, f.Column("kind")[row])
			}
		}
		require.Equal(t, total, out.Len(), "target %d", test.target)
		for _, name := range out.Names() {
			require.Len(t, out.Column(name), total, "column %s", name)
		}
		require.False(t, out.Has("coord"), "geometry column should be dropped")
		require.Equal(t, wantIDs, out.Column(ID))
		require.Equal(t, wantKinds, out.Column("kind"))
		for _, c := range test.target.Columns() {
			require.True(t, out.Has(c), "missing %s", c)
		}
	}
}

func TestExtractCoordinates(t *testing.T) {
	out, err := Extract(gdf(t), "coord", PointTarget)
	require.NoError(t, err)
	require.Equal(t, []interface{}{1.0, 3.0, 5.0}, out.Column(Lon))
	require.Equal(t, []interface{}{2.0, 4.0, 6.0}, out.Column(Lat))

	out, err = Extract(gdf(t), "coord", BBoxTarget)
	require.NoError(t, err)
	// Polygon box is the box of its outer ring.
	require.Equal(t, 21.0, out.Column(LonMin)[3])
	require.Equal(t, 29.0, out.Column(LatMax)[3])
}

func TestExtractEmpty(t *testing.T) {
	f, err := data.FromMap(map[string][]interface{}{
		"coord": {`{"type": "Point", "coordinates": [1, 2]}`, nil},
	})
	require.NoError(t, err)
	_, err = Extract(f, "coord", BoundaryTarget)
	require.True(t, failure.Is(err, failure.EmptyGeometryResult), "got %v", err)
	require.Contains(t, err.Error(), "Polygon, MultiPolygon")

	_, err = Extract(f, "geometry", PointTarget)
	require.True(t, failure.Is(err, failure.UndefinedVariable), "got %v", err)
}

func TestAntiMeridian(t *testing.T) {
	f, err := data.FromMap(map[string][]interface{}{
		"coord": {`{"type": "MultiPolygon", "coordinates": [
			[[[170, 10], [175, 10], [175, 20], [170, 10]]],
			[[[-175, 15], [-170, 15], [-170, 25], [-175, 15]]]]}`},
		"name": {"fiji"},
	})
	require.NoError(t, err)
	out, err := Extract(f, "coord", BBoxTarget)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	require.Equal(t, []interface{}{170.0, -180.0}, out.Column(LonMin))
	require.Equal(t, []interface{}{180.0, -170.0}, out.Column(LonMax))
	require.Equal(t, []interface{}{10.0, 10.0}, out.Column(LatMin))
	require.Equal(t, []interface{}{25.0, 25.0}, out.Column(LatMax))
	require.Equal(t, []interface{}{"fiji", "fiji"}, out.Column("name"))
	require.Equal(t, []interface{}{0.0, 0.0}, out.Column(ID))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(`{"type": "GeometryCollection", "geometries": []}`)
	require.True(t, failure.Is(err, failure.TypeMismatch))
	_, err = Parse(`{"type": "Point", "coordinates": [1]}`)
	require.True(t, failure.Is(err, failure.TypeMismatch))
	_, err = Parse(`not json`)
	require.True(t, failure.Is(err, failure.TypeMismatch))
}

func TestTargetFor(t *testing.T) {
	tg, err := TargetFor("rect")
	require.NoError(t, err)
	require.Equal(t, BBoxTarget, tg)
	require.Equal(t, map[aes.Aes]string{aes.XMin: LonMin, aes.YMin: LatMin, aes.XMax: LonMax, aes.YMax: LatMax}, tg.Mappings())

	_, err = TargetFor("histogram")
	require.True(t, failure.Is(err, failure.UnsupportedGeometryForTarget))
	require.EqualError(t, err, "Unsupported geom: histogram")
}

func TestApplicable(t *testing.T) {
	require.False(t, Applicable([]aes.Aes{aes.X}, false, "coord", ""))
	require.True(t, Applicable([]aes.Aes{aes.X}, true, "coord", ""))
	require.True(t, Applicable([]aes.Aes{aes.Color}, false, "", "coord"))
	require.False(t, Applicable(nil, false, "", ""))
}

func TestResolveMapJoin(t *testing.T) {
	d, err := data.FromSpec(spec.MustDecode(`{fig: [Polygon, MPolygon, Missing], value: [42, 23, 66]}`))
	require.NoError(t, err)
	join, err := ParseMapJoin(spec.MustDecode(`[[fig], [kind]]`))
	require.NoError(t, err)

	out, mappings, err := Resolve(Source{
		Geom:        "polygon",
		Data:        d,
		Map:         gdf(t),
		MapGeometry: "coord",
		MapJoin:     join,
		Mapped:      true,
	})
	require.NoError(t, err)
	require.Equal(t, map[aes.Aes]string{aes.X: Lon, aes.Y: Lat}, mappings)
	require.Equal(t, 19, out.Len())
	require.Equal(t, []string{"fig", "value", "kind", Lon, Lat, ID}, out.Names())

	// Point and line map rows have no data and no polygon tuples.
	// The missing data key is dropped.
	require.Equal(t, 42.0, out.Column("value")[0])
	require.Equal(t, 23.0, out.Column("value")[18])
}

func TestResolveRightJoin(t *testing.T) {
	d, err := data.FromSpec(spec.MustDecode(`{continent: [Europe, Asia], temp: [8.6, 16.6]}`))
	require.NoError(t, err)
	poly := `{"type": "Polygon", "coordinates": [[[1, 2], [3, 4], [5, 3], [1, 2]]]}`
	m, err := data.FromSpec(spec.Map(
		"country", []string{"Germany", "France", "China"},
		"cont", []string{"Europe", "Europe", "Asia"},
		"coord", []string{poly, poly, poly},
	))
	require.NoError(t, err)
	join, err := ParseMapJoin(spec.MustDecode(`[continent, cont]`))
	require.NoError(t, err)

	out, _, err := Resolve(Source{Geom: "rect", Data: d, Map: m, MapGeometry: "coord", MapJoin: join, Mapped: true})
	require.NoError(t, err)
	require.Equal(t, []interface{}{"Europe", "Europe", "Asia"}, out.Column("continent"))
	require.Equal(t, []interface{}{"Germany", "France", "China"}, out.Column("country"))
}

func TestResolveSharedKey(t *testing.T) {
	d, err := data.FromSpec(spec.MustDecode(`{name: [A], temp: [8.6]}`))
	require.NoError(t, err)
	pt := func(x int) string {
		return fmt.Sprintf(`{"type": "Point", "coordinates": [%d, 0]}`, x)
	}
	m, err := data.FromSpec(spec.Map(
		"name", []string{"A", "B"},
		"coord", []string{pt(1), pt(2)},
	))
	require.NoError(t, err)
	join, err := ParseMapJoin(spec.MustDecode(`[name, name]`))
	require.NoError(t, err)

	out, _, err := Resolve(Source{Geom: "point", Data: d, Map: m, MapGeometry: "coord", MapJoin: join, Mapped: true})
	require.NoError(t, err)
	// The map row without data keeps its key.
	require.Equal(t, []interface{}{"A", "B"}, out.Column("name"))
	require.Equal(t, []interface{}{8.6, nil}, out.Column("temp"))
}

func TestResolveErrors(t *testing.T) {
	d, err := data.FromSpec(spec.MustDecode(`{fig: [a, b, c]}`))
	require.NoError(t, err)
	_, _, err = Resolve(Source{Geom: "polygon", Data: d, Map: gdf(t), MapGeometry: "coord", Mapped: true})
	require.True(t, failure.Is(err, failure.MissingOption))
	require.EqualError(t, err, MapJoinRequired)

	_, err = ParseMapJoin(spec.MustDecode(`[[a, b], [c]]`))
	require.True(t, failure.Is(err, failure.InvalidOption))
	_, err = ParseMapJoin(spec.MustDecode(`[a]`))
	require.True(t, failure.Is(err, failure.TypeMismatch))
}
