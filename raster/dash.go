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

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// dashActive reports whether r.Dash describes a usable dash pattern.
func (r *Rasterizer) dashActive() bool {
	if len(r.Dash) == 0 {
		return false
	}
	total := 0.0
	for _, l := range r.Dash {
		if l < 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return false
		}
		total += l
	}
	return total > 0
}

// dashState walks through the dash pattern.  A pattern with an odd number
// of entries is repeated twice per period, so that the entries alternate
// between dashes and gaps.
type dashState struct {
	pattern []float64
	idx     int     // counts entries since the start of the period
	left    float64 // remaining length of the current entry
}

func (r *Rasterizer) newDashState() dashState {
	period := 0.0
	for _, l := range r.Dash {
		period += l
	}
	if len(r.Dash)%2 == 1 {
		period *= 2
	}

	phase := math.Mod(r.DashPhase, period)
	if phase < 0 {
		phase += period
	}

	s := dashState{pattern: r.Dash, left: r.Dash[0]}
	for phase > 0 {
		if phase < s.left {
			s.left -= phase
			break
		}
		phase -= s.left
		s.advance()
	}
	return s
}

func (s *dashState) on() bool {
	return s.idx%2 == 0
}

func (s *dashState) advance() {
	s.idx = (s.idx + 1) % (2 * len(s.pattern))
	s.left = s.pattern[s.idx%len(s.pattern)]
}

// strokeDashed splits the polyline into dashes and strokes each dash as an
// open polyline.  On closed paths, a dash running through the start point
// is joined with the one it continues.
func (r *Rasterizer) strokeDashed(pts []vec.Vec2, closed bool, d float64) {
	if closed && pts[len(pts)-1] != pts[0] {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}

	s := r.newDashState()
	startsOn := s.on()
	broken := false

	var dashes [][]vec.Vec2
	var cur []vec.Vec2
	if startsOn {
		cur = append(cur, pts[0])
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := b.Sub(a)
		segLen := seg.Length()
		dir := seg.Mul(1 / segLen)

		pos := 0.0
		for s.left <= segLen-pos {
			// the current entry ends inside this segment
			broken = true
			pos += s.left
			at := a.Add(dir.Mul(pos))
			if s.on() {
				r.finishDash(append(cur, at), dir, d, &dashes)
				cur = nil
			} else {
				cur = []vec.Vec2{at}
			}
			s.advance()
		}
		s.left -= segLen - pos
		if s.on() {
			cur = append(cur, b)
		}
	}

	if !broken {
		if startsOn {
			r.strokePolyline(pts, closed, d)
		}
		return
	}

	if s.on() && len(cur) > 1 {
		if closed && startsOn && len(dashes) > 0 && dashes[0][0] == pts[0] {
			// The last dash continues into the first one.
			dashes[0] = append(cur, dashes[0][1:]...)
		} else {
			dashes = append(dashes, dedup(cur))
		}
	}

	for _, dash := range dashes {
		if dash = dedup(dash); len(dash) > 1 {
			r.strokePolyline(dash, false, d)
		}
	}
}

// finishDash records a completed dash.  A dash of zero length is drawn
// immediately as a cap pair, oriented along dir.
func (r *Rasterizer) finishDash(dash []vec.Vec2, dir vec.Vec2, d float64, dashes *[][]vec.Vec2) {
	dash = dedup(dash)
	if len(dash) > 1 {
		*dashes = append(*dashes, dash)
		return
	}
	switch r.Cap {
	case graphics.LineCapRound:
		r.circle(dash[0], d)
	case graphics.LineCapSquare:
		r.capAt(dash[0], dir, d)
		r.capAt(dash[0], dir.Mul(-1), d)
	}
}
