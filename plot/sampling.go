// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/feature"
)

// defaultSeed seeds samplings that do not give a seed, which keeps
// resolution deterministic.
const defaultSeed = 1

// samplingExpr formats s the way it is written in a specification.
func samplingExpr(s feature.Sampling) string {
	e := fmt.Sprintf("sampling_%s(n=%d", s.Name, s.N)
	if s.Seed != nil {
		e += fmt.Sprintf(", seed=%d", *s.Seed)
	}
	if s.MinSubsample > 0 {
		e += fmt.Sprintf(", min_subsample=%d", s.MinSubsample)
	}
	return e + ")"
}

// sample applies s to f. groups holds the group key of every row of
// f, and x and y name the columns vertex samplings simplify. It
// returns f and false if f is already small enough for s.
func sample(s feature.Sampling, f *data.Frame, groups []string, x, y string) (*data.Frame, bool) {
	seed := int64(defaultSeed)
	if s.Seed != nil {
		seed = *s.Seed
	}
	rng := rand.New(rand.NewSource(seed))
	total := f.Len()

	var rows []int
	switch s.Name {
	case "random":
		if total <= s.N {
			return f, false
		}
		rows = randomRows(rng, total, s.N)

	case "pick":
		if total <= s.N {
			return f, false
		}
		for i := 0; i < s.N; i++ {
			rows = append(rows, i)
		}

	case "systematic":
		if total <= s.N {
			return f, false
		}
		rows = systematicRows(total, s.N)

	case "group_random", "group_systematic":
		keys, byKey := groupRows(groups)
		if len(keys) <= s.N {
			return f, false
		}
		var pick []int
		if s.Name == "group_random" {
			pick = randomRows(rng, len(keys), s.N)
		} else {
			pick = systematicRows(len(keys), s.N)
		}
		for _, i := range pick {
			rows = append(rows, byKey[keys[i]]...)
		}

	case "random_stratified":
		if total <= s.N {
			return f, false
		}
		keys, byKey := groupRows(groups)
		for _, k := range keys {
			g := byKey[k]
			n := int(math.Round(float64(s.N) * float64(len(g)) / float64(total)))
			if n < s.MinSubsample {
				n = s.MinSubsample
			}
			if n >= len(g) {
				rows = append(rows, g...)
				continue
			}
			for _, i := range randomRows(rng, len(g), n) {
				rows = append(rows, g[i])
			}
		}

	case "vertex_vw", "vertex_dp":
		if total <= s.N || !f.Has(x) || !f.Has(y) {
			return f, false
		}
		xs, ys := f.Column(x), f.Column(y)
		keys, byKey := groupRows(groups)
		for _, k := range keys {
			g := byKey[k]
			n := (s.N*len(g) + total - 1) / total
			if n < 2 {
				n = 2
			}
			rows = append(rows, simplify(g, xs, ys, n, s.Name == "vertex_dp")...)
		}

	default:
		return f, false
	}
	sort.Ints(rows)
	if len(rows) == total {
		return f, false
	}
	return f.Select(rows), true
}

// randomRows returns n distinct indexes below total in ascending
// order.
func randomRows(rng *rand.Rand, total, n int) []int {
	rows := rng.Perm(total)[:n]
	sort.Ints(rows)
	return rows
}

// systematicRows returns every k'th index below total, with k chosen
// so at most n are returned.
func systematicRows(total, n int) []int {
	step := (total + n - 1) / n
	var rows []int
	for i := 0; i < total; i += step {
		rows = append(rows, i)
	}
	return rows
}

// groupRows returns the distinct group keys in first-seen order and
// the rows of each.
func groupRows(groups []string) ([]string, map[string][]int) {
	var keys []string
	byKey := map[string][]int{}
	for row, k := range groups {
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], row)
	}
	return keys, byKey
}

// simplify drops interior vertices of the path through rows, least
// important first, until n remain. The endpoints are always kept.
// A vertex's importance is the area of the triangle it forms with
// its neighbors or, if dist is set, its distance from the segment
// joining them. Vertices without finite coordinates are never
// dropped.
func simplify(rows []int, xs, ys []interface{}, n int, dist bool) []int {
	pt := func(r int) (float64, float64, bool) {
		x, ok1 := xs[r].(float64)
		y, ok2 := ys[r].(float64)
		return x, y, ok1 && ok2 && !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
	}
	importance := func(a, b, c int) float64 {
		ax, ay, ok1 := pt(a)
		bx, by, ok2 := pt(b)
		cx, cy, ok3 := pt(c)
		if !ok1 || !ok2 || !ok3 {
			return math.Inf(1)
		}
		area2 := math.Abs((bx-ax)*(cy-ay) - (cx-ax)*(by-ay))
		if !dist {
			return area2 / 2
		}
		base := math.Hypot(cx-ax, cy-ay)
		if base == 0 {
			return math.Hypot(bx-ax, by-ay)
		}
		return area2 / base
	}

	keep := append([]int(nil), rows...)
	for len(keep) > n && len(keep) > 2 {
		best, bestV := -1, math.Inf(1)
		for i := 1; i < len(keep)-1; i++ {
			if v := importance(keep[i-1], keep[i], keep[i+1]); v < bestV {
				best, bestV = i, v
			}
		}
		if best < 0 {
			break
		}
		keep = append(keep[:best], keep[best+1:]...)
	}
	return keep
}
