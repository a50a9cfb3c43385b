// seehuhn.de/go/figcanvas - draw figures onto an off-screen raster canvas
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Coverage is computed exactly from the signed area each edge contributes
// to a pixel, so there is no super-sampling.  Curves are flattened into
// line segments first.  The output is delivered one scanline at a time.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const (
	defaultFlatness   = 0.25
	defaultMiterLimit = 10.0

	// Edges with a smaller vertical extent do not contribute to coverage.
	horizontalEdgeThreshold = 1e-10
)

// EmitFunc receives the coverage of one scanline.  coverage[i] is the
// fraction of pixel (xMin+i, y) covered by the shape, in the range [0, 1].
// The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// subpath is a flattened subpath, stored as a range of Rasterizer.pts.
type subpath struct {
	start, end int
	closed     bool
}

// Rasterizer converts vector paths to pixel coverage values.
// One instance can be reused for many paths; internal buffers grow as
// needed and are kept between calls.
type Rasterizer struct {
	// CTM maps user space to device space.
	CTM matrix.Matrix

	// Clip is the output region in device coordinates.  The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in device pixels.
	Flatness float64

	// Width is the stroke line width in user space.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash is the dash pattern in user space.  An empty pattern, or one
	// without a positive entry, draws solid lines.
	Dash      []float64
	DashPhase float64

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	pts      []vec.Vec2
	subpaths []subpath

	outline      []vec.Vec2
	outlineStart []int
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// an identity CTM and default stroke parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// FillNonZero fills the path using the nonzero winding rule.
// Open subpaths are closed implicitly.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.fill(p, fillNonZero, emit)
}

// FillEvenOdd fills the path using the even-odd rule.
// Open subpaths are closed implicitly.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.fill(p, fillEvenOdd, emit)
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

func (r *Rasterizer) fill(p *path.Data, rule fillRule, emit EmitFunc) {
	r.flatten(p)
	r.edges = r.edges[:0]
	for _, sp := range r.subpaths {
		r.addPolygon(r.pts[sp.start:sp.end])
	}
	r.scan(rule, emit)
}

// addPolygon adds the edges of the closed polygon through pts.
func (r *Rasterizer) addPolygon(pts []vec.Vec2) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		r.addEdge(pts[i-1], pts[i])
	}
	r.addEdge(pts[len(pts)-1], pts[0])
}

// addEdge transforms a user space segment to device space and adds it to
// the edge list.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	m := r.CTM
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold || math.IsNaN(dy) {
		return
	}
	r.edges = append(r.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
	})
}

// scan converts the current edge list into coverage, using an active edge
// list and one scanline worth of accumulation buffers.
func (r *Rasterizer) scan(rule fillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	devXMin, devXMax := math.Inf(1), math.Inf(-1)
	devYMin, devYMax := math.Inf(1), math.Inf(-1)
	for i := range r.edges {
		e := &r.edges[i]
		devXMin = min(devXMin, e.x0, e.x1)
		devXMax = max(devXMax, e.x0, e.x1)
		devYMin = min(devYMin, e.y0, e.y1)
		devYMax = max(devYMax, e.y0, e.y1)
	}

	// Edges left of the clip region still contribute to the winding
	// number, so xMin is not derived from devXMin alone.
	xMin := max(int(math.Floor(devXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(devXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(devYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	width := xMax - xMin
	if cap(r.cover) < width {
		r.cover = make([]float32, width)
		r.area = make([]float32, width)
	}
	cover := r.cover[:width]
	area := r.area[:width]

	next := 0
	r.active = r.active[:0]
	for y := yMin; y < yMax; y++ {
		fy := float64(y)

		// retire edges which end above this scanline
		k := 0
		for _, idx := range r.active {
			if r.edges[idx].yMax() > fy {
				r.active[k] = idx
				k++
			}
		}
		r.active = r.active[:k]

		for next < len(r.edges) && r.edges[next].yMin() < fy+1 {
			if r.edges[next].yMax() > fy {
				r.active = append(r.active, next)
			}
			next++
		}

		if len(r.active) == 0 {
			if next >= len(r.edges) {
				break
			}
			continue
		}

		clear(cover)
		clear(area)
		for _, idx := range r.active {
			r.accumulate(&r.edges[idx], y, cover, area, xMin, xMax)
		}

		if rule == fillEvenOdd {
			integrateEvenOdd(cover, area)
		} else {
			integrateNonZero(cover, area)
		}

		row, offset := trimZeros(cover)
		if len(row) > 0 {
			emit(y, xMin+offset, row)
		}
	}
}

// accumulate adds the contribution of e to scanline y.
//
// For every pixel column the edge passes through, cover receives the
// signed height of the edge inside that column and area receives the part
// of that height lying to the right of the edge.  Integrating cover from
// the left and adding area yields the winding-weighted coverage.
func (r *Rasterizer) accumulate(e *edge, y int, cover, area []float32, xMin, xMax int) {
	top := max(float64(y), e.yMin())
	bot := min(float64(y+1), e.yMax())
	if bot <= top {
		return
	}

	var dir float32 = 1
	if e.y1 < e.y0 {
		dir = -1
	}

	xt := e.x0 + e.dxdy*(top-e.y0)
	xb := e.x0 + e.dxdy*(bot-e.y0)
	lo, hi := min(xt, xb), max(xt, xb)

	c0 := int(math.Floor(lo))
	c1 := int(math.Floor(hi))
	if c0 == c1 || e.dxdy == 0 {
		deposit(cover, area, c0, dir*float32(bot-top), (lo+hi)/2, xMin, xMax)
		return
	}

	// The edge crosses pixel columns: split it at every integer x.
	dydx := math.Abs(1 / e.dxdy)
	for c := c0; c <= c1; c++ {
		xa := max(lo, float64(c))
		xe := min(hi, float64(c+1))
		if xe <= xa {
			continue
		}
		deposit(cover, area, c, dir*float32((xe-xa)*dydx), (xa+xe)/2, xMin, xMax)
	}
}

// deposit records a piece of an edge with vertical extent h whose mid-point
// lies at x-coordinate xMid inside pixel column c.
func deposit(cover, area []float32, c int, h float32, xMid float64, xMin, xMax int) {
	switch {
	case c < xMin:
		// Left of the output region, the piece covers every pixel we emit.
		cover[0] += h
		area[0] += h
	case c >= xMax:
		// Right of the output region, nothing visible is affected.
	default:
		i := c - xMin
		frac := float32(xMid - float64(c))
		cover[i] += h
		area[i] += h * (1 - frac)
	}
}

// integrateNonZero turns accumulated cover/area values into coverage, in
// place in cover, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

// integrateEvenOdd is like integrateNonZero but for the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		v := float32(math.Mod(float64(abs32(raw)), 2))
		cover[i] = 1 - abs32(1-v)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips zero coverage from both ends of a scanline.
func trimZeros(coverage []float32) (trimmed []float32, offset int) {
	start := 0
	for start < len(coverage) && coverage[start] == 0 {
		start++
	}
	end := len(coverage)
	for end > start && coverage[end-1] == 0 {
		end--
	}
	return coverage[start:end], start
}
