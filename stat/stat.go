// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stat describes the statistical transformations a layer
// applies to its data before drawing it.
//
// A Stat names the aesthetics it reads and the stat variables it
// maps to aesthetics by default. Resolve validates a layer's stat
// options. Apply, in exec.go, computes some stats with go-gg's ggstat.
package stat

import (
	"sort"
	"strings"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// A Stat is a statistical transformation of a layer's data.
type Stat interface {
	// Name returns the stat's option name, such as "count".
	Name() string

	// Consumes returns the aesthetics whose data the stat reads.
	Consumes() []aes.Aes

	// DefaultMapping returns the stat variables the stat maps to
	// aesthetics when the layer does not map them itself.
	DefaultMapping() map[aes.Aes]data.Variable
}

// Kind is a stat.
type Kind int

const (
	Identity Kind = iota
	Count
	Count2D
	Bin
	Bin2D
	DotPlot
	YDotPlot
	Smooth
	Contour
	Contourf
	BoxPlot
	BoxPlotOutlier
	Density
	YDensity
	DensityRidges
	Density2D
	Density2DF
	QQ
	QQ2
	QQLine
	QQ2Line
	ECDF
	Sum
	Summary
	SummaryBin

	numKinds
)

var kindNames = [numKinds]string{
	"identity", "count", "count2d", "bin", "bin2d", "dotplot", "ydotplot",
	"smooth", "contour", "contourf", "boxplot", "boxplot_outlier",
	"density", "ydensity", "densityridges", "density2d", "density2df",
	"qq", "qq2", "qq_line", "qq2_line", "ecdf", "sum", "summary", "summarybin",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return "Kind(?)"
}

// LookupKind returns the stat with the given name.
func LookupKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	sorted := append([]string(nil), kindNames[:]...)
	sort.Strings(sorted)
	return 0, failure.New(failure.UnknownFeatureName,
		"Unknown stat name: '%s'. Expected: [%s]", name, strings.Join(sorted, ", "))
}

// Stat variables.
var (
	XVar           = data.StatVar("x", "x")
	YVar           = data.StatVar("y", "y")
	CountVar       = data.StatVar("count", "count")
	DensityVar     = data.StatVar("density", "density")
	YMinVar        = data.StatVar("ymin", "y min")
	YMaxVar        = data.StatVar("ymax", "y max")
	SEVar          = data.StatVar("se", "standard error")
	LevelVar       = data.StatVar("level", "level")
	LowerVar       = data.StatVar("lower", "lower")
	MiddleVar      = data.StatVar("middle", "middle")
	UpperVar       = data.StatVar("upper", "upper")
	WidthVar       = data.StatVar("width", "width")
	HeightVar      = data.StatVar("height", "height")
	BinwidthVar    = data.StatVar("binwidth", "binwidth")
	ViolinWidthVar = data.StatVar("violinwidth", "violinwidth")
	QuantileVar    = data.StatVar("quantile", "quantile")
	ScaledVar      = data.StatVar("scaled", "scaled")
	TheoreticalVar = data.StatVar("theoretical", "theoretical")
	SampleVar      = data.StatVar("sample", "sample")
	NVar           = data.StatVar("n", "n")
	GroupVar       = data.StatVar("group", "group")
)

var statVars = func() map[string]data.Variable {
	m := map[string]data.Variable{}
	for _, v := range []data.Variable{
		XVar, YVar, CountVar, DensityVar, YMinVar, YMaxVar, SEVar, LevelVar, LowerVar, MiddleVar,
		UpperVar, WidthVar, HeightVar, BinwidthVar, ViolinWidthVar, QuantileVar, ScaledVar,
		TheoreticalVar, SampleVar, NVar, GroupVar,
	} {
		m[v.Name] = v
	}
	return m
}()

// Var returns the stat variable with the given name, such as
// "..count..".
func Var(name string) (data.Variable, bool) {
	v, ok := statVars[name]
	return v, ok
}

type proto struct {
	consumes []aes.Aes
	mapping  map[aes.Aes]data.Variable
}

var protos = [numKinds]proto{
	Identity: {},
	Count: {
		[]aes.Aes{aes.X, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: CountVar},
	},
	Count2D: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Slice: CountVar},
	},
	Bin: {
		[]aes.Aes{aes.X, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: CountVar},
	},
	Bin2D: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Fill: CountVar, aes.Width: WidthVar, aes.Height: HeightVar},
	},
	DotPlot: {
		[]aes.Aes{aes.X},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Stacksize: CountVar, aes.Binwidth: BinwidthVar},
	},
	YDotPlot: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Stacksize: CountVar, aes.Binwidth: BinwidthVar},
	},
	Smooth: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.YMin: YMinVar, aes.YMax: YMaxVar},
	},
	Contour: {
		[]aes.Aes{aes.X, aes.Y, aes.Z},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Color: LevelVar},
	},
	Contourf: {
		[]aes.Aes{aes.X, aes.Y, aes.Z},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Fill: LevelVar},
	},
	BoxPlot: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{
			aes.X: XVar, aes.YMin: YMinVar, aes.YMax: YMaxVar,
			aes.Lower: LowerVar, aes.Middle: MiddleVar, aes.Upper: UpperVar, aes.Width: WidthVar,
		},
	},
	BoxPlotOutlier: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar},
	},
	Density: {
		[]aes.Aes{aes.X, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: DensityVar},
	},
	YDensity: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Violinwidth: ViolinWidthVar, aes.Quantile: QuantileVar},
	},
	DensityRidges: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Height: DensityVar, aes.Quantile: QuantileVar},
	},
	Density2D: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Color: LevelVar},
	},
	Density2DF: {
		[]aes.Aes{aes.X, aes.Y, aes.Weight},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Fill: LevelVar},
	},
	QQ: {
		[]aes.Aes{aes.Sample},
		map[aes.Aes]data.Variable{aes.X: TheoreticalVar, aes.Y: SampleVar},
	},
	QQ2: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar},
	},
	QQLine: {
		[]aes.Aes{aes.Sample},
		map[aes.Aes]data.Variable{aes.X: TheoreticalVar, aes.Y: SampleVar},
	},
	QQ2Line: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar},
	},
	ECDF: {
		[]aes.Aes{aes.X},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar},
	},
	Sum: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.Size: NVar},
	},
	Summary: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.YMin: YMinVar, aes.YMax: YMaxVar},
	},
	SummaryBin: {
		[]aes.Aes{aes.X, aes.Y},
		map[aes.Aes]data.Variable{aes.X: XVar, aes.Y: YVar, aes.YMin: YMinVar, aes.YMax: YMaxVar},
	},
}

// Desc is a resolved stat: its kind and validated parameters.
type Desc struct {
	Kind Kind

	// Params are the stat parameters taken from the layer options.
	Params Params
}

// Params holds the stat parameters understood by the executor. Zero
// values mean the stat's default.
type Params struct {
	// Bins and BinWidth configure binning stats.
	Bins     int
	BinWidth *float64

	// Method is the smoothing method, Level the confidence level and
	// Span and Degree the LOESS parameters.
	Method string
	Level  float64
	SE     bool
	Span   float64
	Degree int

	// N is the number of evaluation points.
	N int

	// Bandwidth is a fixed bandwidth, or 0 to use BandwidthMethod.
	Bandwidth       float64
	BandwidthMethod string
	Kernel          string
	Adjust          float64

	// Coef is the boxplot whisker IQR ratio.
	Coef float64

	// Padded pads ECDFs to the 0 and 1 levels.
	Padded bool
}

var _ Stat = (*Desc)(nil)

func (d *Desc) Name() string { return d.Kind.String() }

func (d *Desc) Consumes() []aes.Aes { return protos[d.Kind].consumes }

func (d *Desc) DefaultMapping() map[aes.Aes]data.Variable {
	m := make(map[aes.Aes]data.Variable, len(protos[d.Kind].mapping))
	for a, v := range protos[d.Kind].mapping {
		m[a] = v
	}
	return m
}

// IsIdentity reports whether d leaves data unchanged.
func (d *Desc) IsIdentity() bool {
	return d.Kind == Identity
}

// Smoothing methods.
var smoothMethods = []string{"lm", "loess", "lowess", "glm", "gam", "rlm"}

var kernels = map[string]bool{
	"gaussian": true, "rectangular": true, "uniform": true,
	"triangular": true, "biweight": true, "quartic": true,
	"epanechikov": true, "parabolic": true, "optcosine": true, "cosine": true,
}

// Resolve returns the named stat with parameters read from the layer
// options o.
func Resolve(name string, o *spec.Options) (*Desc, error) {
	k, err := LookupKind(name)
	if err != nil {
		return nil, err
	}
	d := &Desc{Kind: k}
	p := &d.Params
	switch k {
	case Bin, DotPlot, YDotPlot, Contour, Contourf:
		def := 30
		if k == Contour || k == Contourf {
			def = 10
		}
		if p.Bins, err = o.GetIntDef("bins", def); err != nil {
			return nil, err
		}
		if p.Bins <= 0 {
			return nil, failure.New(failure.InvalidOption, "'bins' must be positive but was: %d", p.Bins)
		}
		if p.BinWidth, err = optFloat(o, "binwidth"); err != nil {
			return nil, err
		}

	case Smooth:
		p.Method = "lm"
		if m, ok, err := o.GetString("method"); err != nil {
			return nil, err
		} else if ok {
			p.Method = strings.ToLower(m)
			found := false
			for _, sm := range smoothMethods {
				found = found || sm == p.Method
			}
			if !found {
				return nil, failure.New(failure.InvalidOption,
					"Unsupported smoother method: '%s'\nUse one of: lm, loess, lowess, glm, gam, rlm.", m)
			}
		}
		if p.N, err = o.GetIntDef("n", 80); err != nil {
			return nil, err
		}
		if p.Level, err = o.GetDoubleDef("level", 0.95); err != nil {
			return nil, err
		}
		if p.SE, err = o.GetBool("se", true); err != nil {
			return nil, err
		}
		if p.Span, err = o.GetDoubleDef("span", 0.5); err != nil {
			return nil, err
		}
		if p.Degree, err = o.GetIntDef("deg", 1); err != nil {
			return nil, err
		}

	case BoxPlot, BoxPlotOutlier:
		if p.Coef, err = o.GetDoubleDef("coef", 1.5); err != nil {
			return nil, err
		}

	case Density, YDensity, DensityRidges, Density2D, Density2DF:
		p.BandwidthMethod = "nrd0"
		switch bw := o.Get("bw"); bw.Kind() {
		case spec.KindNull:
		case spec.KindNumber:
			p.Bandwidth, _ = bw.AsNumber()
		case spec.KindString:
			s, _ := bw.AsString()
			if s != "nrd0" && s != "nrd" {
				return nil, failure.New(failure.InvalidOption,
					"Unsupported bandwidth method: '%s'.\nUse one of: nrd0, nrd.", s)
			}
			p.BandwidthMethod = s
		case spec.KindList:
			// Per-axis bandwidths of the 2D densities. The
			// executor does not run these stats.
		default:
			return nil, failure.New(failure.TypeMismatch, "'bw' must be a number or a method name but was: %s", bw)
		}
		p.Kernel = "gaussian"
		if s, ok, err := o.GetString("kernel"); err != nil {
			return nil, err
		} else if ok {
			if !kernels[s] {
				return nil, failure.New(failure.InvalidOption,
					"Unsupported kernel method: '%s'.\nUse one of: gaussian, rectangular, triangular, biweight, epanechikov, optcosine, cos.", s)
			}
			p.Kernel = s
		}
		if p.Adjust, err = o.GetDoubleDef("adjust", 1); err != nil {
			return nil, err
		}
		if o.Get("n").Kind() != spec.KindList {
			if p.N, err = o.GetIntDef("n", 512); err != nil {
				return nil, err
			}
		}

	case ECDF:
		if p.N, err = o.GetIntDef("n", 0); err != nil {
			return nil, err
		}
		if p.Padded, err = o.GetBool("padded", true); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func optFloat(o *spec.Options, key string) (*float64, error) {
	x, ok, err := o.GetDouble(key)
	if err != nil || !ok {
		return nil, err
	}
	return &x, nil
}
