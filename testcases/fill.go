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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
)

// kappa for cubic Bezier approximation of a quarter circle
const kappa = 0.5522847498307936

var fillCases = []TestCase{
	{
		Name:   "square_marker",
		Path:   Rectangle(10, 10, 44, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   34 * 34,
	},
	{
		Name:   "triangle_marker",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   44 * 40 / 2,
	},
	{
		Name:   "star_nonzero",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "star_evenodd",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "circle_marker",
		Path:   Circle(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   math.Pi * 25 * 25,
	},
	{
		Name:   "frame_evenodd",
		Path:   frame(8, 8, 56, 56, 12),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		Area:   48*48 - 24*24,
	},
	{
		Name:   "frame_nonzero_same_direction",
		Path:   frame(8, 8, 56, 56, 12),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   48 * 48,
	},
	{
		Name:   "open_area_under_curve",
		Path:   areaUnderCurve(4, 60, 60),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "partially_clipped",
		Path:   Rectangle(-20, 40, 30, 100),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   30 * 24,
	},
}

// Rectangle builds a closed axis-aligned rectangle.
func Rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// Circle builds an approximate circle from four cubic Bezier curves.
func Circle(cx, cy, r float64) *path.Data {
	k := r * kappa
	return (&path.Data{}).
		MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy-k), pt(cx+k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx-k, cy-r), pt(cx-r, cy-k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy+k), pt(cx-k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx+k, cy+r), pt(cx+r, cy+k), pt(cx+r, cy)).
		Close()
}

func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// fivePointStar builds a self-intersecting five-pointed star.
func fivePointStar(cx, cy, r float64) *path.Data {
	p := &path.Data{}
	for k, i := range []int{0, 2, 4, 1, 3} {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		v := pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		if k == 0 {
			p.MoveTo(v)
		} else {
			p.LineTo(v)
		}
	}
	return p.Close()
}

// frame builds two nested squares with the same orientation, so that the
// fill rule decides whether the inner square is a hole.
func frame(x1, y1, x2, y2, inset float64) *path.Data {
	p := Rectangle(x1, y1, x2, y2)
	p.MoveTo(pt(x1+inset, y1+inset)).
		LineTo(pt(x2-inset, y1+inset)).
		LineTo(pt(x2-inset, y2-inset)).
		LineTo(pt(x1+inset, y2-inset)).
		Close()
	return p
}

// areaUnderCurve is an open path, as used by fill_between plots.  Filling
// closes it implicitly.
func areaUnderCurve(x1, x2, base float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, base)).
		LineTo(pt(x1, base-20)).
		CubeTo(pt(x1+20, base-60), pt(x2-20, base), pt(x2, base-40)).
		LineTo(pt(x2, base))
}
