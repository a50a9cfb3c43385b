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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"
)

var ctmCases = []TestCase{
	{
		// y-up figure coordinates on a y-down canvas
		Name:   "flipped",
		Path:   triangle(10, 10, 32, 50, 54, 10),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{1, 0, 0, -1, 0, 64},
		Area:   44 * 40 / 2,
	},
	{
		// logical pixels on a canvas with device pixel ratio 2
		Name:   "ratio_two",
		Path:   Rectangle(5, 5, 22, 22),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 2),
		Area:   34 * 34,
	},
	{
		Name:   "rotated_label_box",
		Path:   Rectangle(-10, -5, 10, 5),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.RotateDeg(30).Translate(32, 32),
		Area:   200,
	},
	{
		Name:   "ratio_two_stroke",
		Path:   HorizontalLine(5, 16, 27),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      2,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		CTM:  matrix.Scale(2, 2),
		Area: 44 * 4,
	},
}
