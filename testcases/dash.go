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
	"seehuhn.de/go/pdf/graphics"
)

// dashed returns butt-capped stroke parameters with the given dash
// pattern, as used for grid lines.
func dashed(width, phase float64, pattern ...float64) Stroke {
	return Stroke{
		Width:      width,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: 10,
		Dash:       pattern,
		DashPhase:  phase,
	}
}

var dashCases = []TestCase{
	{
		// dashes at 5-13, 17-25, 29-37, 41-49, 53-59
		Name:   "grid_dashed",
		Path:   HorizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, 0, 8, 4),
		Area:   38 * 4,
	},
	{
		// [5, 3, 8] behaves like [5, 3, 8, 5, 3, 8]:
		// dashes at 5-10, 13-21, 26-29, 37-42, 45-53, 58-59
		Name:   "three_element",
		Path:   HorizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, 0, 5, 3, 8),
		Area:   (5 + 8 + 3 + 5 + 8 + 1) * 4,
	},
	{
		// the phase skips the first dash
		Name:   "phase_dash_len",
		Path:   HorizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, 8, 8, 4),
		Area:   (4*8 + 2) * 4,
	},
	{
		// a negative phase is equivalent to phase+period
		Name:   "phase_negative",
		Path:   HorizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, -4, 8, 4),
		Area:   (4*8 + 2) * 4,
	},
	{
		Name:   "zero_length_round",
		Path:   HorizontalLine(8, 32, 56),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
			Dash:       []float64{0, 12},
		},
	},
	{
		Name:   "dashed_closed_frame",
		Path:   Rectangle(12, 12, 52, 52),
		Width:  64,
		Height: 64,
		Op:     dashed(2, 3, 10, 6),
	},
	{
		Name:   "dashed_curve",
		Path:   Circle(32, 32, 24),
		Width:  64,
		Height: 64,
		Op:     dashed(2, 0, 6, 3),
	},
}
