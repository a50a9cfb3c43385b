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

package figcanvas

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Flip returns the transformation from vector space (origin bottom-left,
// y up) to the space of a surface with the given height (origin top-left,
// y down).  This is scale(1, -1) followed by translate(0, height).
func Flip(height float64) matrix.Matrix {
	return matrix.Matrix{1, 0, 0, -1, 0, height}
}

// deviceTransform maps vector space to surface space.  Values are only
// created by toDevice, so every point passed to the drawing context is
// flipped exactly once.
type deviceTransform struct {
	m matrix.Matrix
}

// toDevice composes m with the flip for a surface of the given height.
// The zero matrix stands for the identity.
func toDevice(m matrix.Matrix, height float64) deviceTransform {
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}
	return deviceTransform{m: m.Mul(Flip(height))}
}

func (t deviceTransform) apply(v vec.Vec2) vec.Vec2 {
	return applyTo(t.m, v)
}

func applyTo(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	x, y := m.Apply(v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}

// emitPath starts a new path on ctx and adds the segments of p, mapped by t.
//
// Segments with a NaN or infinite coordinate are dropped.  The path is
// broken there, and the next valid segment starts a new subpath at its
// end point.
func emitPath(ctx DrawingContext, p *path.Data, t deviceTransform) {
	ctx.BeginPath()
	if p == nil {
		return
	}

	var pts [3]vec.Vec2
	broken := false
	k := 0
	for _, cmd := range p.Cmds {
		n := 0
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			n = 1
		case path.CmdQuadTo:
			n = 2
		case path.CmdCubeTo:
			n = 3
		}
		valid := true
		for i := range n {
			pts[i] = t.apply(p.Coords[k+i])
			valid = valid && finite(pts[i])
		}
		k += n

		if !valid {
			broken = true
			continue
		}
		if broken {
			if cmd == path.CmdClose {
				continue
			}
			ctx.MoveTo(pts[n-1].X, pts[n-1].Y)
			broken = false
			continue
		}

		switch cmd {
		case path.CmdMoveTo:
			ctx.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			ctx.LineTo(pts[0].X, pts[0].Y)
		case path.CmdQuadTo:
			ctx.QuadraticCurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case path.CmdCubeTo:
			ctx.BezierCurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			ctx.ClosePath()
		}
	}
}

// vertices calls yield with the end point of every segment of p, mapped by
// m.  Points with NaN or infinite coordinates are skipped.
func vertices(p *path.Data, m matrix.Matrix, yield func(vec.Vec2)) {
	if p == nil {
		return
	}
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}
	k := 0
	for _, cmd := range p.Cmds {
		n := 0
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			n = 1
		case path.CmdQuadTo:
			n = 2
		case path.CmdCubeTo:
			n = 3
		}
		k += n
		if n == 0 {
			continue
		}
		v := applyTo(m, p.Coords[k-1])
		if finite(v) {
			yield(v)
		}
	}
}

func finite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
