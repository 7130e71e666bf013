// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stat

import (
	"fmt"
	"math"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
)

// Supported reports whether Apply can compute stats of kind k.
func Supported(k Kind) bool {
	switch k {
	case Identity, Count, Density, ECDF, Smooth:
		return true
	}
	return false
}

// Column names of the intermediate go-gg tables.
const (
	colX      = "x"
	colY      = "y"
	colWeight = "weight"
	colGroup  = "group"
)

// Apply computes d over f. bindings maps the aesthetics d consumes to
// their columns in f, and group names f's grouping column or is "".
//
// The result has one column for each stat variable d computes. Every
// other column of f that is constant within each group, including the
// grouping column, is carried over. Rows with missing or non-finite
// inputs are ignored. Apply panics if Supported(d.Kind) is false.
func Apply(d *Desc, f *data.Frame, bindings map[aes.Aes]string, group string) (*data.Frame, error) {
	if d.Kind == Identity {
		return f, nil
	}
	if !Supported(d.Kind) {
		panic(fmt.Sprintf("stat.Apply: %s stat is not computed by the executor", d.Kind))
	}

	in, err := newInput(d, f, bindings, group)
	if err != nil {
		return nil, err
	}
	g := table.GroupBy(in.t, colGroup)

	var out table.Grouping
	var cols []outCol
	p := d.Params
	switch d.Kind {
	case Count:
		// go-gg drops the length of tables whose columns are all
		// grouping constants, so counts are tallied here.
		return in.count(f), nil

	case Density:
		ds := ggstat.Density{X: colX, N: p.N, Kernel: stats.GaussianKernel}
		if in.weighted {
			ds.W = colWeight
		}
		ds.Bandwidth = p.Bandwidth
		if ds.Bandwidth == 0 {
			sample := stats.Sample{Xs: in.xs}
			switch p.BandwidthMethod {
			case "nrd":
				ds.Bandwidth = stats.BandwidthScott(sample)
			default:
				ds.Bandwidth = stats.BandwidthSilverman(sample)
			}
		}
		if p.Adjust > 0 {
			ds.Bandwidth *= p.Adjust
		}
		out = ds.F(g)
		cols = []outCol{{colX, XVar}, {"probability density", DensityVar}}

	case ECDF:
		out = ggstat.ECDF{X: colX}.F(g)
		if !p.Padded {
			out = in.unpad(out)
		}
		cols = []outCol{{colX, XVar}, {"cumulative density", YVar}}

	case Smooth:
		switch p.Method {
		case "loess", "lowess":
			out = ggstat.LOESS{X: colX, Y: colY, N: p.N, Span: p.Span, Degree: p.Degree}.F(g)
		default:
			// Other methods are fitted by least squares.
			out = ggstat.LeastSquares{X: colX, Y: colY, N: p.N, Degree: p.Degree}.F(g)
		}
		cols = []outCol{{colX, XVar}, {colY, YVar}}
	}

	b := &output{names: cols, cols: map[string][]interface{}{}}
	for _, gid := range out.Tables() {
		t := out.Table(gid)
		key := gid.Label()
		b.add(t, key)
		if d.Kind == Smooth {
			lo, hi := in.band(t, key, p)
			b.cols[YMinVar.Name] = append(b.cols[YMinVar.Name], lo...)
			b.cols[YMaxVar.Name] = append(b.cols[YMaxVar.Name], hi...)
		}
	}
	if d.Kind == Smooth {
		b.names = append(b.names, outCol{v: YMinVar}, outCol{v: YMaxVar})
	}
	return b.done(f, in), nil
}

// count tallies the rows, or their weights, of each distinct x in
// each group. Groups and x values appear in first-seen order.
func (in *input) count(f *data.Frame) *data.Frame {
	b := &output{names: []outCol{{colX, XVar}, {"count", CountVar}}, cols: map[string][]interface{}{}}
	var labels []string
	seen := map[string]bool{}
	for _, l := range in.labels {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	for _, label := range labels {
		var xs []interface{}
		tally := map[interface{}]float64{}
		for i, l := range in.labels {
			if l != label {
				continue
			}
			x := in.xv[i]
			if _, ok := tally[x]; !ok {
				xs = append(xs, x)
			}
			tally[x] += in.ws[i]
		}
		for _, x := range xs {
			b.cols[XVar.Name] = append(b.cols[XVar.Name], x)
			b.cols[CountVar.Name] = append(b.cols[CountVar.Name], tally[x])
			b.keys = append(b.keys, label)
		}
	}
	return b.done(f, in)
}

// unpad drops the points go-gg adds beyond the samples of each group
// so an ECDF steps only at sample values.
func (in *input) unpad(g table.Grouping) table.Grouping {
	samples := map[interface{}]map[float64]bool{}
	for i, l := range in.labels {
		if samples[l] == nil {
			samples[l] = map[float64]bool{}
		}
		samples[l][in.xs[i]] = true
	}
	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		var xs, ds []float64
		slice.Convert(&xs, t.MustColumn(colX))
		slice.Convert(&ds, t.MustColumn("cumulative density"))
		var keep []int
		for i, x := range xs {
			if ds[i] == 0 || !samples[gid.Label()][x] {
				continue
			}
			if i+1 < len(xs) && xs[i+1] == x {
				continue
			}
			keep = append(keep, i)
		}
		nb := table.NewBuilder(nil)
		for _, name := range t.Columns() {
			if cv, ok := t.Const(name); ok {
				nb.AddConst(name, cv)
				continue
			}
			nb.Add(name, slice.Select(t.MustColumn(name), keep))
		}
		return nb.Done()
	})
}

// input is the numeric part of a frame in go-gg form.
type input struct {
	t        *table.Table
	xs, ys   []float64
	weighted bool

	// rows are the frame rows kept in t and labels their group
	// labels.
	rows   []int
	labels []string

	// xv and ws are the x value and weight of every kept row.
	xv []interface{}
	ws []float64

	// groupRows lists the kept rows of each group label.
	groupRows map[interface{}][]int
}

func newInput(d *Desc, f *data.Frame, bindings map[aes.Aes]string, group string) (*input, error) {
	in := &input{groupRows: map[interface{}][]int{}}

	col := func(a aes.Aes) ([]interface{}, error) {
		name, ok := bindings[a]
		if !ok {
			return nil, nil
		}
		if _, err := f.Find(name); err != nil {
			return nil, err
		}
		return f.Column(name), nil
	}
	xcol, err := col(aes.X)
	if err != nil {
		return nil, err
	}
	ycol, err := col(aes.Y)
	if err != nil {
		return nil, err
	}
	wcol, err := col(aes.Weight)
	if err != nil {
		return nil, err
	}
	in.weighted = wcol != nil

	// Count accepts discrete x values. Every other stat needs
	// numbers.
	discreteX := d.Kind == Count
	needY := d.Kind == Smooth

	var xv []interface{}
	var ws []float64
	var gs []string
	for row := 0; row < f.Len(); row++ {
		var x interface{}
		if xcol != nil {
			x = xcol[row]
		} else if d.Kind == Count {
			x = 0.0
		}
		if x == nil || (!discreteX && !finite(x)) {
			continue
		}
		if needY && (ycol == nil || !finite(ycol[row])) {
			continue
		}
		w := 1.0
		if wcol != nil {
			if !finite(wcol[row]) {
				continue
			}
			w = wcol[row].(float64)
		}

		var gv interface{}
		if group != "" {
			gv = f.Column(group)[row]
		}
		label := fmt.Sprint(gv)
		in.groupRows[label] = append(in.groupRows[label], row)

		in.rows = append(in.rows, row)
		in.labels = append(in.labels, label)
		xv = append(xv, x)
		if xf, ok := x.(float64); ok {
			in.xs = append(in.xs, xf)
		}
		if needY {
			in.ys = append(in.ys, ycol[row].(float64))
		}
		ws = append(ws, w)
		gs = append(gs, label)
	}

	in.xv, in.ws = xv, ws

	tb := table.NewBuilder(nil)
	if discreteX {
		tb.Add(colX, xv)
	} else {
		tb.Add(colX, in.xs)
	}
	if needY {
		tb.Add(colY, in.ys)
	}
	if in.weighted {
		tb.Add(colWeight, ws)
	}
	if gs == nil {
		gs = []string{}
	}
	tb.Add(colGroup, gs)
	in.t = tb.Done()
	return in, nil
}

func finite(v interface{}) bool {
	x, ok := v.(float64)
	return ok && !math.IsNaN(x) && !math.IsInf(x, 0)
}

// band returns the confidence band of a least squares line fitted to
// the rows of group key, evaluated at the x values of t. LOESS fits
// and higher degree fits get an empty band.
func (in *input) band(t *table.Table, key interface{}, p Params) (lo, hi []interface{}) {
	var xe, ye []float64
	slice.Convert(&xe, t.MustColumn(colX))
	slice.Convert(&ye, t.MustColumn(colY))
	lo, hi = make([]interface{}, len(ye)), make([]interface{}, len(ye))
	for i, y := range ye {
		lo[i], hi[i] = y, y
	}
	if !p.SE || (p.Method != "lm" && p.Method != "glm" && p.Method != "rlm" && p.Method != "gam") || p.Degree > 1 {
		return
	}

	// Gather the group's points.
	var xs, ys []float64
	for i := range in.rows {
		if in.labels[i] == key {
			xs = append(xs, in.xs[i])
			ys = append(ys, in.ys[i])
		}
	}
	n := float64(len(xs))
	if n < 3 {
		return
	}
	mx, my := stats.Mean(xs), stats.Mean(ys)
	var sxx, sxy float64
	for i := range xs {
		sxx += (xs[i] - mx) * (xs[i] - mx)
		sxy += (xs[i] - mx) * (ys[i] - my)
	}
	if sxx == 0 {
		return
	}
	slope := sxy / sxx
	var rss float64
	for i := range xs {
		r := ys[i] - (my + slope*(xs[i]-mx))
		rss += r * r
	}
	s := math.Sqrt(rss / (n - 2))
	z := stats.NormalDist{Mu: 0, Sigma: 1}.InvCDF(0.5 + p.Level/2)
	for i, x := range xe {
		se := s * math.Sqrt(1/n+(x-mx)*(x-mx)/sxx)
		lo[i], hi[i] = ye[i]-z*se, ye[i]+z*se
	}
	return
}

// An outCol maps a go-gg result column to a stat variable.
type outCol struct {
	name string
	v    data.Variable
}

// output accumulates the stat columns of every group.
type output struct {
	names []outCol
	cols  map[string][]interface{}
	keys  []interface{}
}

func (o *output) add(t *table.Table, key interface{}) {
	for _, c := range o.names {
		o.cols[c.v.Name] = append(o.cols[c.v.Name], boxed(t.MustColumn(c.name))...)
	}
	for i := 0; i < t.Len(); i++ {
		o.keys = append(o.keys, key)
	}
}

// done builds the result frame, carrying over the columns of f that
// are constant within each group.
func (o *output) done(f *data.Frame, in *input) *data.Frame {
	b := data.NewBuilder(nil)
	for _, c := range o.names {
		b.Put(c.v, o.cols[c.v.Name])
	}
	for _, v := range f.Variables() {
		if b.Has(v.Name) {
			continue
		}
		vals, ok := constPerGroup(f.Column(v.Name), in.groupRows)
		if !ok {
			continue
		}
		col := make([]interface{}, len(o.keys))
		for i, k := range o.keys {
			col[i] = vals[k]
		}
		b.Put(v, col)
		if f.IsDateTime(v.Name) {
			b.DateTime(v.Name)
		}
	}
	return b.Done()
}

func constPerGroup(col []interface{}, groupRows map[interface{}][]int) (map[interface{}]interface{}, bool) {
	vals := make(map[interface{}]interface{}, len(groupRows))
	for label, rows := range groupRows {
		first := col[rows[0]]
		for _, r := range rows[1:] {
			if col[r] != first {
				return nil, false
			}
		}
		vals[label] = first
	}
	return vals, true
}

// boxed converts a go-gg column to a frame column. Integers become
// float64.
func boxed(col slice.T) []interface{} {
	rv := reflect.ValueOf(col)
	out := make([]interface{}, rv.Len())
	for i := range out {
		switch v := rv.Index(i).Interface().(type) {
		case int:
			out[i] = float64(v)
		case int64:
			out[i] = float64(v)
		default:
			out[i] = v
		}
	}
	return out
}
