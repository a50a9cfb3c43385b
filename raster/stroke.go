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
	"seehuhn.de/go/pdf/graphics"
)

// Stroke rasterises the outline of a line of width r.Width drawn along p,
// with caps, joins and dashes taken from the Rasterizer fields.
//
// The stroke is built as a union of convex pieces: one quadrilateral per
// segment, plus polygons for the joins and caps.  All pieces are given the
// same orientation and are filled with the nonzero rule, so overlaps do
// not show.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	if !(r.Width > 0) {
		return
	}
	r.flatten(p)

	r.outline = r.outline[:0]
	r.outlineStart = r.outlineStart[:0]

	d := r.Width / 2
	dashed := r.dashActive()
	for _, sp := range r.subpaths {
		if sp.end-sp.start < 2 {
			continue // a lone MoveTo draws nothing
		}
		pts := dedup(r.pts[sp.start:sp.end])
		if len(pts) == 1 {
			r.dot(pts[0], d)
			continue
		}
		if dashed {
			r.strokeDashed(pts, sp.closed, d)
		} else {
			r.strokePolyline(pts, sp.closed, d)
		}
	}

	r.edges = r.edges[:0]
	for i, start := range r.outlineStart {
		end := len(r.outline)
		if i+1 < len(r.outlineStart) {
			end = r.outlineStart[i+1]
		}
		r.addPolygon(r.outline[start:end])
	}
	r.scan(fillNonZero, emit)
}

// dedup removes consecutive duplicate points, in place.
func dedup(pts []vec.Vec2) []vec.Vec2 {
	if len(pts) == 0 {
		return pts
	}
	k := 1
	for i := 1; i < len(pts); i++ {
		if pts[i] != pts[k-1] {
			pts[k] = pts[i]
			k++
		}
	}
	return pts[:k]
}

// strokePolyline adds the outline pieces for a polyline with at least two
// distinct points.  If closed is set, the segment from the last point
// back to the first one is included and every vertex gets a join.
func (r *Rasterizer) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	n := len(pts)
	if closed && pts[n-1] == pts[0] {
		n--
		pts = pts[:n]
		if n < 2 {
			r.dot(pts[0], d)
			return
		}
	}

	segCount := n - 1
	if closed {
		segCount = n
	}
	for i := range segCount {
		a, b := pts[i], pts[(i+1)%n]
		nrm := normal(b.Sub(a)).Mul(d)
		r.addPiece(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}

	for i := range n {
		if !closed && (i == 0 || i == n-1) {
			continue
		}
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		r.join(pts[i], unit(pts[i].Sub(prev)), unit(next.Sub(pts[i])), d)
	}

	if !closed {
		r.capAt(pts[0], unit(pts[0].Sub(pts[1])), d)
		r.capAt(pts[n-1], unit(pts[n-1].Sub(pts[n-2])), d)
	}
}

// join adds the polygon filling the outer corner at p, where the line
// arrives in direction t1 and leaves in direction t2.
func (r *Rasterizer) join(p, t1, t2 vec.Vec2, d float64) {
	cosTheta := t1.Dot(t2)
	cross := t1.X*t2.Y - t1.Y*t2.X

	if cosTheta > 1-1e-9 {
		return // collinear
	}
	if cosTheta < -1+1e-9 {
		// The line reverses: treat both sides as line ends.
		r.capAt(p, t1, d)
		r.capAt(p, t2.Mul(-1), d)
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.circle(p, d)
		return
	}

	// The outer side of the corner is to the right of a left turn.
	side := 1.0
	if cross > 0 {
		side = -1
	}
	n1 := normal(t1).Mul(side * d)
	n2 := normal(t2).Mul(side * d)
	a := p.Add(n1)
	b := p.Add(n2)

	if r.Join == graphics.LineJoinMiter {
		// The miter length relative to the line width is 1/sin(φ/2),
		// where φ is the angle between the two segments.
		sinHalf := math.Sqrt((1 + cosTheta) / 2)
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit {
			bis := unit(n1.Add(n2))
			tip := p.Add(bis.Mul(d / sinHalf))
			r.addPiece(p, a, tip, b)
			return
		}
	}
	r.addPiece(p, a, b)
}

// capAt adds the line cap at end point p, where t is the unit vector
// pointing away from the line.
func (r *Rasterizer) capAt(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.circle(p, d)
	case graphics.LineCapSquare:
		nrm := normal(t).Mul(d)
		ext := p.Add(t.Mul(d))
		r.addPiece(p.Add(nrm), ext.Add(nrm), ext.Sub(nrm), p.Sub(nrm))
	}
}

// dot handles a subpath of length zero.  Only round caps draw anything,
// since the direction of a square cap is undefined.
func (r *Rasterizer) dot(p vec.Vec2, d float64) {
	if r.Cap == graphics.LineCapRound {
		r.circle(p, d)
	}
}

// circle adds a polygon approximating the circle of radius d around c.
func (r *Rasterizer) circle(c vec.Vec2, d float64) {
	n := 8
	if devR := d * r.deviceScale(); devR > r.Flatness {
		// A chord subtending angle θ deviates by devR·(1-cos(θ/2)).
		step := 2 * math.Acos(1-r.Flatness/devR)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}
	n = min(n, maxCurveSegments)

	// Place the vertices so that the polygon has the area of the circle.
	step := 2 * math.Pi / float64(n)
	rr := d * math.Sqrt(step/math.Sin(step))

	r.outlineStart = append(r.outlineStart, len(r.outline))
	for i := range n {
		phi := step * float64(i)
		r.outline = append(r.outline, vec.Vec2{
			X: c.X + rr*math.Cos(phi),
			Y: c.Y + rr*math.Sin(phi),
		})
	}
}

// addPiece adds a convex polygon to the stroke outline, oriented
// counter-clockwise in user space.
func (r *Rasterizer) addPiece(pts ...vec.Vec2) {
	var area float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area == 0 || math.IsNaN(area) {
		return
	}

	r.outlineStart = append(r.outlineStart, len(r.outline))
	if area > 0 {
		r.outline = append(r.outline, pts...)
		return
	}
	for i := len(pts) - 1; i >= 0; i-- {
		r.outline = append(r.outline, pts[i])
	}
}

// normal returns the unit normal of v, rotated 90° counter-clockwise.
func normal(v vec.Vec2) vec.Vec2 {
	u := unit(v)
	return vec.Vec2{X: -u.Y, Y: u.X}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
