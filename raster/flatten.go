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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// maxCurveSegments bounds the work spent on a single curve whose control
// points lie far outside the visible area.
const maxCurveSegments = 4096

// flatten converts p into polylines in user space.  The result is stored
// in r.pts and r.subpaths.
//
// A LineTo or curve without a current point starts a new subpath, the way
// an HTML canvas does.  After ClosePath the next segment starts a new
// subpath at the start of the closed one.
func (r *Rasterizer) flatten(p *path.Data) {
	r.pts = r.pts[:0]
	r.subpaths = r.subpaths[:0]

	open := false
	var start, current vec.Vec2
	haveCurrent := false

	begin := func(at vec.Vec2) {
		r.subpaths = append(r.subpaths, subpath{start: len(r.pts)})
		r.pts = append(r.pts, at)
		start, current = at, at
		open, haveCurrent = true, true
	}
	finish := func(closed bool) {
		if !open {
			return
		}
		sp := &r.subpaths[len(r.subpaths)-1]
		sp.end = len(r.pts)
		sp.closed = closed
		open = false
	}
	ensureOpen := func(fallback vec.Vec2) {
		if open {
			return
		}
		if haveCurrent {
			begin(current)
		} else {
			begin(fallback)
		}
	}
	appendPt := func(pt vec.Vec2) {
		r.pts = append(r.pts, pt)
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			begin(p.Coords[k])
			k++

		case path.CmdLineTo:
			pt := p.Coords[k]
			k++
			ensureOpen(pt)
			r.pts = append(r.pts, pt)
			current = pt

		case path.CmdQuadTo:
			c, pt := p.Coords[k], p.Coords[k+1]
			k += 2
			ensureOpen(c)
			r.flattenQuadratic(current, c, pt, appendPt)
			current = pt

		case path.CmdCubeTo:
			c1, c2, pt := p.Coords[k], p.Coords[k+1], p.Coords[k+2]
			k += 3
			ensureOpen(c1)
			r.flattenCubic(current, c1, c2, pt, appendPt)
			current = pt

		case path.CmdClose:
			if open {
				finish(true)
				current = start
			}
		}
	}
	finish(false)
}

// transformLinear applies the linear part of the CTM to v.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// deviceScale returns the largest factor by which the CTM stretches a
// user space length.
func (r *Rasterizer) deviceScale() float64 {
	a := r.transformLinear(vec.Vec2{X: 1}).Length()
	b := r.transformLinear(vec.Vec2{Y: 1}).Length()
	return max(a, b)
}

// flattenQuadratic emits the points of a polyline approximating the
// quadratic Bézier curve p0, p1, p2, excluding p0.  The number of segments
// is chosen so that the device space error stays below r.Flatness.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(vec.Vec2)) {
	e := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))

	n := 1
	if errDev := e.Length(); errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}
	n = min(n, maxCurveSegments)

	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		emit(p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t)))
	}
	emit(p2)
}

// flattenCubic is like flattenQuadratic for the cubic Bézier curve
// p0, p1, p2, p3.  The segment count follows Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	n = min(n, maxCurveSegments)

	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		emit(p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t)))
	}
	emit(p3)
}
