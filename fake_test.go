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
	"image"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// recorder is a DrawingContext which logs every call.
type recorder struct {
	calls []string

	depth      int
	dash       []float64
	dashOffset float64
	lineWidth  float64
	fillStyle  string

	text   string
	textX  float64
	textY  float64
	images []image.Image
}

var _ DrawingContext = (*recorder)(nil)

func (f *recorder) rec(op string, args ...any) {
	f.calls = append(f.calls, strings.TrimSpace(fmt.Sprintln(append([]any{op}, args...)...)))
}

// ops returns the names of the recorded calls.
func (f *recorder) ops() []string {
	res := make([]string, len(f.calls))
	for i, c := range f.calls {
		res[i], _, _ = strings.Cut(c, " ")
	}
	return res
}

func (f *recorder) count(op string) int {
	n := 0
	for _, o := range f.ops() {
		if o == op {
			n++
		}
	}
	return n
}

func (f *recorder) reset() {
	f.calls = nil
}

func (f *recorder) Save() {
	f.depth++
	f.rec("save")
}

func (f *recorder) Restore() {
	f.depth--
	f.rec("restore")
}

func (f *recorder) Translate(x, y float64) { f.rec("translate", x, y) }
func (f *recorder) Rotate(angle float64)   { f.rec("rotate", angle) }

func (f *recorder) BeginPath()          { f.rec("beginPath") }
func (f *recorder) MoveTo(x, y float64) { f.rec("moveTo", x, y) }
func (f *recorder) LineTo(x, y float64) { f.rec("lineTo", x, y) }
func (f *recorder) ClosePath()          { f.rec("closePath") }
func (f *recorder) Clip()               { f.rec("clip") }
func (f *recorder) Fill()               { f.rec("fill") }
func (f *recorder) Stroke()             { f.rec("stroke") }

func (f *recorder) QuadraticCurveTo(cpx, cpy, x, y float64) {
	f.rec("quadraticCurveTo", cpx, cpy, x, y)
}

func (f *recorder) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	f.rec("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (f *recorder) Rect(x, y, w, h float64) {
	f.rec("rect", x, y, w, h)
}

func (f *recorder) SetStrokeStyle(style string) { f.rec("strokeStyle", style) }
func (f *recorder) SetLineCap(name string)      { f.rec("lineCap", name) }
func (f *recorder) SetLineJoin(name string)     { f.rec("lineJoin", name) }
func (f *recorder) SetFont(font string)         { f.rec("font", font) }

func (f *recorder) SetFillStyle(style string) {
	f.fillStyle = style
	f.rec("fillStyle", style)
}

func (f *recorder) SetLineWidth(w float64) {
	f.lineWidth = w
	f.rec("lineWidth", w)
}

func (f *recorder) SetLineDashOffset(offset float64) {
	f.dashOffset = offset
	f.rec("lineDashOffset", offset)
}

func (f *recorder) SetLineDash(pattern []float64) {
	f.dash = slices.Clone(pattern)
	f.rec("setLineDash", len(pattern))
}

func (f *recorder) FillText(text string, x, y float64) error {
	f.text, f.textX, f.textY = text, x, y
	f.rec("fillText", text)
	return nil
}

func (f *recorder) DrawImage(src image.Image, dx, dy, dw, dh float64) {
	f.images = append(f.images, src)
	f.rec("drawImage", dx, dy, dw, dh)
}

// newTestRenderer returns a renderer for a 200x100 pixel surface.
func newTestRenderer(t *testing.T, dpi float64, opts ...Option) (*Renderer, *recorder) {
	t.Helper()
	f := &recorder{}
	r, err := NewRenderer(f, 200, 100, dpi, opts...)
	require.NoError(t, err)
	return r, f
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func square(x, y, size float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x, y)).
		LineTo(pt(x+size, y)).
		LineTo(pt(x+size, y+size)).
		LineTo(pt(x, y+size)).
		Close()
}
