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
	"fmt"
	"math"

	"seehuhn.de/go/figcanvas/canvas"
)

// Color is a colour with channels in the range [0, 1].  A is only
// meaningful if HasAlpha is set.
type Color struct {
	R, G, B, A float64
	HasAlpha   bool
}

// RGB returns an opaque colour without alpha channel.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// RGBA returns a colour with alpha channel.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a, HasAlpha: true}
}

// ParseColor converts a hex string like "#1f77b4" or "#1f77b480", a CSS
// colour function, or a colour name like "tab:blue" or "darkgreen" into
// a Color.  The result has an alpha channel only if the input
// specifies a translucent colour.
func ParseColor(s string) (Color, error) {
	if hex, ok := tableau[s]; ok {
		s = hex
	}
	nc, err := canvas.ParseColor(s)
	if err != nil {
		return Color{}, &ValidationError{Field: "colour", Value: s}
	}
	c := RGB(float64(nc.R)/255, float64(nc.G)/255, float64(nc.B)/255)
	if nc.A != 255 {
		c.A = float64(nc.A) / 255
		c.HasAlpha = true
	}
	return c, nil
}

// tableau holds the colours of the default plotting colour cycle.
var tableau = map[string]string{
	"tab:blue":   "#1f77b4",
	"tab:orange": "#ff7f0e",
	"tab:green":  "#2ca02c",
	"tab:red":    "#d62728",
	"tab:purple": "#9467bd",
	"tab:brown":  "#8c564b",
	"tab:pink":   "#e377c2",
	"tab:gray":   "#7f7f7f",
	"tab:grey":   "#7f7f7f",
	"tab:olive":  "#bcbd22",
	"tab:cyan":   "#17becf",
}

// Alpha is an optional opacity value.  The zero value means "unset".
type Alpha struct {
	value float64
	set   bool
}

// Opacity returns an Alpha which is set to a.
func Opacity(a float64) Alpha {
	return Alpha{value: a, set: true}
}

// Value returns the opacity and whether it is set.
func (a Alpha) Value() (float64, bool) {
	return a.value, a.set
}

// CSSColor converts c into a CSS colour string.
//
// If alpha is unset and c has an alpha channel, that channel is used as
// alpha.  If there is still no alpha, the result is a hex string
// "#rrggbb".  Otherwise the result has the form "rgba(R, G, B, A)" with
// integer channels and three significant digits for A.  A is the explicit
// alpha if c has no alpha channel or if overrides is set, and the alpha
// channel of c otherwise.
func CSSColor(c Color, alpha Alpha, overrides bool) string {
	if !alpha.set && c.HasAlpha {
		alpha = Opacity(c.A)
	}
	if !alpha.set {
		return fmt.Sprintf("#%02x%02x%02x", hexChannel(c.R), hexChannel(c.G), hexChannel(c.B))
	}

	a := alpha.value
	if c.HasAlpha && !overrides {
		a = c.A
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)",
		intChannel(c.R), intChannel(c.G), intChannel(c.B), a)
}

// hexChannel rounds half to even, like the hex conversion of the plotting
// library.
func hexChannel(v float64) uint8 {
	return uint8(math.RoundToEven(clamp01(v) * 255))
}

// intChannel truncates.
func intChannel(v float64) int {
	return int(clamp01(v) * 255)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return min(v, 1)
}
