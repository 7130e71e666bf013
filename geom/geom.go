// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom describes the geometries a layer can draw: the
// aesthetics each one renders and the stat, position and sampling it
// uses unless the layer says otherwise.
package geom

import (
	"sort"
	"strings"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/feature"
	"github.com/aclements/go-plotspec/spec"
)

// Kind is a geometry.
type Kind int

const (
	Point Kind = iota
	Path
	Line
	Smooth
	Bar
	Histogram
	DotPlot
	Tile
	Bin2D
	ErrorBar
	CrossBar
	LineRange
	PointRange
	Contour
	Contourf
	Polygon
	Map
	ABLine
	HLine
	VLine
	Band
	BoxPlot
	AreaRidges
	Violin
	YDotPlot
	Ribbon
	Area
	Density
	Density2D
	Density2DF
	Jitter
	QQ
	QQ2
	QQLine
	QQ2Line
	Freqpoly
	Step
	Rect
	Segment
	Curve
	Spoke
	Text
	Label
	LiveMap
	Raster
	Image
	Pie
	Lollipop
	Blank

	numKinds
)

var names = [numKinds]string{
	"point", "path", "line", "smooth", "bar", "histogram", "dotplot",
	"tile", "bin2d", "errorbar", "crossbar", "linerange", "pointrange",
	"contour", "contourf", "polygon", "map", "abline", "hline", "vline",
	"band", "boxplot", "area_ridges", "violin", "ydotplot", "ribbon",
	"area", "density", "density2d", "density2df", "jitter",
	"qq", "qq2", "qq_line", "qq2_line", "freqpoly", "step", "rect",
	"segment", "curve", "spoke", "text", "label", "livemap", "raster",
	"image", "pie", "lollipop", "blank",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return names[k]
	}
	return "Kind(?)"
}

// Lookup returns the geometry with the given name. It fails with
// failure.UnknownFeatureName for unknown names.
func Lookup(name string) (Kind, error) {
	for k, n := range names {
		if n == name {
			return Kind(k), nil
		}
	}
	sorted := append([]string(nil), names[:]...)
	sort.Strings(sorted)
	return 0, failure.New(failure.UnknownFeatureName,
		"Unknown geom name: '%s'. Expected: [%s]", name, strings.Join(sorted, ", "))
}

var (
	pointAes   = []aes.Aes{aes.X, aes.Y, aes.Size, aes.Stroke, aes.Color, aes.Fill, aes.Alpha, aes.Shape, aes.Angle, aes.MapID}
	pathAes    = []aes.Aes{aes.X, aes.Y, aes.Size, aes.Linetype, aes.Color, aes.Alpha, aes.Speed, aes.Flow}
	polygonAes = []aes.Aes{aes.X, aes.Y, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha, aes.MapID}
	areaAes    = []aes.Aes{aes.X, aes.Y, aes.Quantile, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha}
	barAes     = []aes.Aes{aes.X, aes.Y, aes.Color, aes.Fill, aes.Alpha, aes.Width, aes.Size}
	tileAes    = []aes.Aes{aes.X, aes.Y, aes.Width, aes.Height, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Size}
	errorBar   = []aes.Aes{aes.X, aes.YMin, aes.YMax, aes.Width, aes.Y, aes.XMin, aes.XMax, aes.Height, aes.Alpha, aes.Color, aes.Linetype, aes.Size}
	textAes    = []aes.Aes{aes.X, aes.Y, aes.Size, aes.Color, aes.Alpha, aes.Label, aes.Family, aes.Fontface, aes.HJust, aes.VJust, aes.Angle, aes.Lineheight}
)

// renders lists the aesthetics each geometry draws.
var renders = [numKinds][]aes.Aes{
	Point:      pointAes,
	Path:       pathAes,
	Line:       pathAes,
	Smooth:     {aes.X, aes.Y, aes.YMin, aes.YMax, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha},
	Bar:        barAes,
	Histogram:  barAes,
	DotPlot:    {aes.X, aes.Binwidth, aes.Stacksize, aes.Color, aes.Fill, aes.Alpha, aes.Stroke},
	Tile:       tileAes,
	Bin2D:      tileAes,
	ErrorBar:   errorBar,
	CrossBar:   append(append([]aes.Aes(nil), errorBar...), aes.Fill),
	LineRange:  {aes.X, aes.YMin, aes.YMax, aes.Y, aes.XMin, aes.XMax, aes.Alpha, aes.Color, aes.Linetype, aes.Size},
	PointRange: {aes.X, aes.Y, aes.YMin, aes.YMax, aes.XMin, aes.XMax, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Shape, aes.Size, aes.Stroke, aes.Linewidth},
	Contour:    pathAes,
	Contourf:   polygonAes,
	Polygon:    polygonAes,
	Map:        {aes.X, aes.Y, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha},
	ABLine:     {aes.Intercept, aes.Slope, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	HLine:      {aes.YIntercept, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	VLine:      {aes.XIntercept, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	Band:       {aes.XMin, aes.XMax, aes.YMin, aes.YMax, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Size},
	BoxPlot:    {aes.Lower, aes.Middle, aes.Upper, aes.X, aes.YMax, aes.YMin, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Shape, aes.Size, aes.Width},
	AreaRidges: {aes.X, aes.Y, aes.Height, aes.Quantile, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Size},
	Violin:     {aes.X, aes.Y, aes.Violinwidth, aes.Quantile, aes.Alpha, aes.Color, aes.Fill, aes.Linetype, aes.Size, aes.Width},
	YDotPlot:   {aes.X, aes.Y, aes.Binwidth, aes.Stacksize, aes.Color, aes.Fill, aes.Alpha, aes.Stroke},
	Ribbon:     {aes.X, aes.YMin, aes.YMax, aes.Y, aes.XMin, aes.XMax, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha},
	Area:       areaAes,
	Density:    areaAes,
	Density2D:  pathAes,
	Density2DF: polygonAes,
	Jitter:     pointAes,
	QQ:         {aes.X, aes.Y, aes.Sample, aes.Size, aes.Stroke, aes.Color, aes.Fill, aes.Alpha, aes.Shape},
	QQ2:        {aes.X, aes.Y, aes.Size, aes.Stroke, aes.Color, aes.Fill, aes.Alpha, aes.Shape},
	QQLine:     {aes.X, aes.Y, aes.Sample, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	QQ2Line:    {aes.X, aes.Y, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	Freqpoly:   pathAes,
	Step:       pathAes,
	Rect:       {aes.XMin, aes.XMax, aes.YMin, aes.YMax, aes.Size, aes.Linetype, aes.Color, aes.Fill, aes.Alpha},
	Segment:    {aes.X, aes.Y, aes.XEnd, aes.YEnd, aes.Size, aes.Linetype, aes.Color, aes.Alpha, aes.Speed, aes.Flow},
	Curve:      {aes.X, aes.Y, aes.XEnd, aes.YEnd, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	Spoke:      {aes.X, aes.Y, aes.Angle, aes.Radius, aes.Size, aes.Linetype, aes.Color, aes.Alpha},
	Text:       textAes,
	Label:      append(append([]aes.Aes(nil), textAes...), aes.Fill),
	LiveMap:    {aes.Alpha, aes.Color, aes.Fill, aes.Size, aes.Shape, aes.Frame, aes.X, aes.Y},
	Raster:     {aes.X, aes.Y, aes.Width, aes.Height, aes.Fill, aes.Alpha},
	Image:      {aes.XMin, aes.XMax, aes.YMin, aes.YMax, aes.Color},
	Pie:        {aes.X, aes.Y, aes.Slice, aes.Explode, aes.Size, aes.Fill, aes.Alpha, aes.Color, aes.Stroke},
	Lollipop:   {aes.X, aes.Y, aes.Size, aes.Stroke, aes.Linewidth, aes.Color, aes.Fill, aes.Alpha, aes.Shape, aes.Linetype},
	Blank:      {aes.X, aes.Y},
}

// Renders returns the aesthetics drawn by k. The caller must not
// modify the result.
func (k Kind) Renders() []aes.Aes {
	return renders[k]
}

// HandlesGroups reports whether k draws each group as one connected
// mark, so that samplings apply per group.
func (k Kind) HandlesGroups() bool {
	switch k {
	case Path, Line, Smooth, Contour, Contourf, Polygon, Map, Ribbon,
		Area, Density, Density2D, Density2DF, Freqpoly, Step, AreaRidges, Violin:
		return true
	}
	return false
}

// A Default holds the stat, position and sampling a geometry uses
// unless a layer overrides them.
type Default struct {
	// Stat is the stat name.
	Stat string

	// Pos is the preferred position node. It is a bare name or a
	// map with parameters, to be merged with the layer's own
	// position options by feature.MergePos.
	Pos spec.Node

	// Sampling is applied on the server side when a layer gives no
	// sampling. It is nil if the geometry is not sampled by
	// default.
	Sampling *feature.Sampling
}

func sampling(name string, n int) *feature.Sampling {
	return &feature.Sampling{Name: name, N: n}
}

var (
	identity = spec.String("identity")
	stack    = spec.String("stack")
	dodge    = spec.Map("name", "dodge", "width", 0.95)
	jitter   = spec.Map("name", "jitter", "width", 0.4, "height", 0.4)
)

var defaults = func() [numKinds]Default {
	var d [numKinds]Default
	for k := range d {
		d[k] = Default{Stat: "identity", Pos: identity}
	}
	set := func(k Kind, stat string, pos spec.Node, s *feature.Sampling) {
		d[k] = Default{Stat: stat, Pos: pos, Sampling: s}
	}

	set(Point, "identity", identity, sampling("random", 50000))
	set(Jitter, "identity", jitter, sampling("random", 50000))
	set(Path, "identity", identity, sampling("vertex_dp", 20000))
	set(Line, "identity", identity, sampling("systematic", 5000))
	set(Smooth, "smooth", identity, sampling("group_systematic", 200))
	set(Bar, "count", stack, sampling("pick", 50))
	set(Histogram, "bin", stack, sampling("systematic", 500))
	set(DotPlot, "dotplot", identity, sampling("systematic", 500))
	set(Tile, "identity", identity, sampling("random", 50000))
	set(Bin2D, "bin2d", identity, sampling("random", 50000))
	set(ErrorBar, "identity", identity, sampling("systematic", 500))
	set(CrossBar, "identity", identity, sampling("systematic", 500))
	set(LineRange, "identity", identity, sampling("systematic", 500))
	set(PointRange, "identity", identity, sampling("systematic", 500))
	set(Contour, "contour", identity, sampling("group_systematic", 200))
	set(Contourf, "contourf", identity, sampling("group_systematic", 200))
	set(Polygon, "identity", identity, sampling("random", 5000))
	set(Map, "identity", identity, sampling("random", 5000))
	set(BoxPlot, "boxplot", dodge, nil)
	set(AreaRidges, "densityridges", identity, nil)
	set(Violin, "ydensity", dodge, nil)
	set(YDotPlot, "ydotplot", dodge, nil)
	set(Ribbon, "identity", identity, sampling("systematic", 5000))
	set(Area, "identity", stack, sampling("systematic", 5000))
	set(Density, "density", identity, sampling("systematic", 5000))
	set(Density2D, "density2d", identity, sampling("group_systematic", 200))
	set(Density2DF, "density2df", identity, sampling("group_systematic", 200))
	set(QQ, "qq", identity, sampling("random", 50000))
	set(QQ2, "qq2", identity, sampling("random", 50000))
	set(QQLine, "qq_line", identity, nil)
	set(QQ2Line, "qq2_line", identity, nil)
	set(Freqpoly, "bin", identity, sampling("systematic", 5000))
	set(Step, "identity", identity, sampling("systematic", 5000))
	set(Rect, "identity", identity, sampling("random", 5000))
	set(Segment, "identity", identity, sampling("random", 5000))
	set(Curve, "identity", identity, sampling("random", 5000))
	set(Spoke, "identity", identity, sampling("random", 5000))
	set(Text, "identity", identity, sampling("random", 500))
	set(Label, "identity", identity, sampling("random", 500))
	set(Raster, "identity", identity, sampling("random", 10000))
	set(Pie, "count2d", identity, sampling("random", 5000))
	set(Lollipop, "identity", identity, sampling("random", 5000))
	return d
}()

// Defaults returns the default stat, position and sampling of k.
func (k Kind) Defaults() Default {
	return defaults[k]
}

// statGeoms maps stats to the geometry a layer draws when it names
// only a stat.
var statGeoms = map[string]Kind{
	"count":         Bar,
	"count2d":       Pie,
	"bin":           Histogram,
	"bin2d":         Bin2D,
	"dotplot":       DotPlot,
	"ydotplot":      YDotPlot,
	"smooth":        Smooth,
	"contour":       Contour,
	"contourf":      Contourf,
	"boxplot":       BoxPlot,
	"density":       Density,
	"ydensity":      Violin,
	"densityridges": AreaRidges,
	"density2d":     Density2D,
	"density2df":    Density2DF,
	"qq":            QQ,
	"qq2":           QQ2,
	"qq_line":       QQLine,
	"qq2_line":      QQ2Line,
	"ecdf":          Step,
	"summary":       PointRange,
	"summarybin":    PointRange,
}

// ForStat returns the geometry drawn by a layer that names only the
// given stat. Other stats are drawn as points.
func ForStat(stat string) Kind {
	if k, ok := statGeoms[stat]; ok {
		return k
	}
	return Point
}

// OrientationApplicable reports whether a layer with geometry k and
// the named stat can be drawn along the y axis. Only these layers are
// considered for automatic y orientation.
func OrientationApplicable(k Kind, stat string) bool {
	switch k {
	case Bar, BoxPlot, Violin, Lollipop, YDotPlot, CrossBar, ErrorBar, LineRange, PointRange:
		return true
	}
	switch stat {
	case "count", "summary", "boxplot", "ydensity", "ydotplot":
		return true
	}
	return false
}
