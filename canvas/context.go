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

package canvas

import (
	"image"
	"image/color"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/figcanvas/internal/logging"
	"seehuhn.de/go/figcanvas/raster"
)

// state is the part of the context saved by Save and restored by Restore.
type state struct {
	ctm matrix.Matrix

	fillStyle, strokeStyle string
	fill, stroke           color.RGBA // premultiplied

	lineWidth  float64
	cap        graphics.LineCapStyle
	join       graphics.LineJoinStyle
	miterLimit float64
	dash       []float64 // never modified in place
	dashOffset float64

	font     string
	fontSpec *fontSpec

	// clip is nil if drawing is not clipped.  A new mask is allocated
	// every time the clip changes, so saved states can share masks.
	clip *image.Alpha

	smoothing bool
}

// Context is the immediate-mode 2D drawing context of a [Canvas].
//
// The current path is stored in surface coordinates: every point is
// transformed by the current transformation matrix when it is added.
type Context struct {
	canvas *Canvas
	state  state
	stack  []state

	path path.Data
	r    *raster.Rasterizer
}

func newContext(c *Canvas) *Context {
	ctx := &Context{canvas: c}
	ctx.state = defaultState()
	return ctx
}

func defaultState() state {
	black := color.RGBA{A: 255}
	return state{
		ctm:         matrix.Identity,
		fillStyle:   "#000000",
		strokeStyle: "#000000",
		fill:        black,
		stroke:      black,
		lineWidth:   1,
		cap:         graphics.LineCapButt,
		join:        graphics.LineJoinMiter,
		miterLimit:  10,
		font:        "10px sans-serif",
		fontSpec:    &fontSpec{weight: 400, px: 10, families: []string{"sans-serif"}},
		smoothing:   true,
	}
}

// Canvas returns the canvas the context draws on.
func (c *Context) Canvas() *Canvas {
	return c.canvas
}

// Save pushes the current drawing state onto the state stack.  The
// current path is not part of the drawing state.
func (c *Context) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the most recently saved drawing state.  If the stack is
// empty, Restore does nothing.
func (c *Context) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.state = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// SaveDepth returns the number of states on the state stack.
func (c *Context) SaveDepth() int {
	return len(c.stack)
}

// Translate moves the origin of user space by (x, y).
func (c *Context) Translate(x, y float64) {
	c.state.ctm = matrix.Matrix{1, 0, 0, 1, x, y}.Mul(c.state.ctm)
}

// Rotate rotates user space clockwise by angle radians, as seen on the
// y-down surface.
func (c *Context) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	c.state.ctm = matrix.Matrix{cos, sin, -sin, cos, 0, 0}.Mul(c.state.ctm)
}

// Scale scales user space by sx horizontally and sy vertically.
func (c *Context) Scale(sx, sy float64) {
	c.state.ctm = matrix.Scale(sx, sy).Mul(c.state.ctm)
}

// Transform multiplies the current transformation by the matrix
// [a c e; b d f].
func (c *Context) Transform(a, b, cc, d, e, f float64) {
	c.state.ctm = matrix.Matrix{a, b, cc, d, e, f}.Mul(c.state.ctm)
}

// SetTransform replaces the current transformation by [a c e; b d f].
func (c *Context) SetTransform(a, b, cc, d, e, f float64) {
	c.state.ctm = matrix.Matrix{a, b, cc, d, e, f}
}

// ResetTransform sets the current transformation to the identity.
func (c *Context) ResetTransform() {
	c.state.ctm = matrix.Identity
}

// GetTransform returns the current transformation matrix.
func (c *Context) GetTransform() matrix.Matrix {
	return c.state.ctm
}

func (c *Context) toDevice(x, y float64) vec.Vec2 {
	return apply(c.state.ctm, vec.Vec2{X: x, Y: y})
}

func apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	x, y := m.Apply(v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}

// BeginPath discards the current path.
func (c *Context) BeginPath() {
	c.path.Cmds = c.path.Cmds[:0]
	c.path.Coords = c.path.Coords[:0]
}

// MoveTo starts a new subpath at (x, y).
func (c *Context) MoveTo(x, y float64) {
	c.path.MoveTo(c.toDevice(x, y))
}

// LineTo adds a straight line to (x, y).  Without a current point,
// LineTo behaves like MoveTo.
func (c *Context) LineTo(x, y float64) {
	c.path.LineTo(c.toDevice(x, y))
}

// QuadraticCurveTo adds a quadratic Bézier curve with control point
// (cpx, cpy) ending at (x, y).
func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.path.QuadTo(c.toDevice(cpx, cpy), c.toDevice(x, y))
}

// BezierCurveTo adds a cubic Bézier curve ending at (x, y).
func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.path.CubeTo(c.toDevice(cp1x, cp1y), c.toDevice(cp2x, cp2y), c.toDevice(x, y))
}

// ClosePath closes the current subpath.
func (c *Context) ClosePath() {
	c.path.Close()
}

// Rect adds a closed rectangle to the path.
func (c *Context) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.ClosePath()
	c.MoveTo(x, y)
}

func (c *Context) rasterizer() *raster.Rasterizer {
	if c.r == nil {
		b := c.canvas.img.Rect
		c.r = raster.NewRasterizer(rect.Rect{
			LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
			URx: float64(b.Max.X), URy: float64(b.Max.Y),
		})
	}
	c.r.CTM = matrix.Identity
	c.r.Dash = nil
	c.r.DashPhase = 0
	return c.r
}

// Fill fills the current path with the fill style, using the nonzero
// winding rule.
func (c *Context) Fill() {
	c.rasterizer().FillNonZero(&c.path, c.painter(c.state.fill))
}

// FillEvenOdd fills the current path with the fill style, using the
// even-odd rule.
func (c *Context) FillEvenOdd() {
	c.rasterizer().FillEvenOdd(&c.path, c.painter(c.state.fill))
}

// FillRect fills a rectangle without changing the current path.
func (c *Context) FillRect(x, y, w, h float64) {
	saved := c.path
	c.path = path.Data{}
	c.Rect(x, y, w, h)
	c.Fill()
	c.path = saved
}

// Stroke strokes the current path with the stroke style.
//
// Line width and dash lengths are measured in user space.  The path is
// mapped back into the user space of the current transformation for
// stroking, so that a non-uniform scaling distorts the pen the way it
// does in a browser.
func (c *Context) Stroke() {
	s := &c.state
	inv, ok := invert(s.ctm)
	if !ok {
		return
	}

	r := c.rasterizer()
	r.CTM = s.ctm
	r.Width = s.lineWidth
	r.Cap = s.cap
	r.Join = s.join
	r.MiterLimit = s.miterLimit
	r.Dash = s.dash
	r.DashPhase = s.dashOffset
	r.Stroke(transformPath(&c.path, inv), c.painter(s.stroke))
}

// Clip intersects the clipping region with the current path, using the
// nonzero winding rule.
func (c *Context) Clip() {
	img := c.canvas.img
	old := c.state.clip
	mask := image.NewAlpha(img.Rect)
	c.rasterizer().FillNonZero(&c.path, func(y, xMin int, coverage []float32) {
		off := mask.PixOffset(xMin, y)
		for i, a := range coverage {
			if old != nil {
				a *= float32(old.Pix[off+i]) / 255
			}
			mask.Pix[off+i] = uint8(a*255 + 0.5)
		}
	})
	c.state.clip = mask
}

// painter returns an emit function which composites col onto the canvas
// with the source-over operator, attenuated by the clip mask.
func (c *Context) painter(col color.RGBA) raster.EmitFunc {
	img := c.canvas.img
	clip := c.state.clip
	sr, sg, sb, sa := float32(col.R), float32(col.G), float32(col.B), float32(col.A)
	return func(y, xMin int, coverage []float32) {
		off := img.PixOffset(xMin, y)
		moff := 0
		if clip != nil {
			moff = clip.PixOffset(xMin, y)
		}
		for i, a := range coverage {
			if clip != nil {
				a *= float32(clip.Pix[moff+i]) / 255
			}
			if a > 0 {
				p := img.Pix[off : off+4 : off+4]
				k := 1 - sa*a/255
				p[0] = uint8(sr*a + float32(p[0])*k + 0.5)
				p[1] = uint8(sg*a + float32(p[1])*k + 0.5)
				p[2] = uint8(sb*a + float32(p[2])*k + 0.5)
				p[3] = uint8(sa*a + float32(p[3])*k + 0.5)
			}
			off += 4
		}
	}
}

// SetFillStyle sets the colour used by Fill and FillText.
func (c *Context) SetFillStyle(style string) {
	col, ok := c.parseStyle("fillStyle", style)
	if !ok {
		return
	}
	c.state.fillStyle = style
	c.state.fill = col
}

// FillStyle returns the current fill style.
func (c *Context) FillStyle() string {
	return c.state.fillStyle
}

// SetStrokeStyle sets the colour used by Stroke.
func (c *Context) SetStrokeStyle(style string) {
	col, ok := c.parseStyle("strokeStyle", style)
	if !ok {
		return
	}
	c.state.strokeStyle = style
	c.state.stroke = col
}

// StrokeStyle returns the current stroke style.
func (c *Context) StrokeStyle() string {
	return c.state.strokeStyle
}

func (c *Context) parseStyle(attr, style string) (color.RGBA, bool) {
	nc, err := ParseColor(style)
	if err != nil {
		logging.Logger().Warn("ignoring invalid style", "attr", attr, "value", style)
		return color.RGBA{}, false
	}
	return color.RGBAModel.Convert(nc).(color.RGBA), true
}

// SetLineWidth sets the line width in user space units.  Values which
// are not positive and finite are ignored.
func (c *Context) SetLineWidth(w float64) {
	if !(w > 0) || math.IsInf(w, 0) {
		return
	}
	c.state.lineWidth = w
}

// LineWidth returns the current line width.
func (c *Context) LineWidth() float64 {
	return c.state.lineWidth
}

var (
	capNames = map[string]graphics.LineCapStyle{
		"butt":   graphics.LineCapButt,
		"round":  graphics.LineCapRound,
		"square": graphics.LineCapSquare,
	}
	joinNames = map[string]graphics.LineJoinStyle{
		"miter": graphics.LineJoinMiter,
		"round": graphics.LineJoinRound,
		"bevel": graphics.LineJoinBevel,
	}
)

// SetLineCap sets the line cap to "butt", "round" or "square".
func (c *Context) SetLineCap(name string) {
	lc, ok := capNames[name]
	if !ok {
		logging.Logger().Warn("ignoring invalid style", "attr", "lineCap", "value", name)
		return
	}
	c.state.cap = lc
}

// LineCap returns the name of the current line cap.
func (c *Context) LineCap() string {
	for name, lc := range capNames {
		if lc == c.state.cap {
			return name
		}
	}
	return ""
}

// SetLineJoin sets the line join to "miter", "round" or "bevel".
func (c *Context) SetLineJoin(name string) {
	lj, ok := joinNames[name]
	if !ok {
		logging.Logger().Warn("ignoring invalid style", "attr", "lineJoin", "value", name)
		return
	}
	c.state.join = lj
}

// LineJoin returns the name of the current line join.
func (c *Context) LineJoin() string {
	for name, lj := range joinNames {
		if lj == c.state.join {
			return name
		}
	}
	return ""
}

// SetMiterLimit sets the miter limit.  Values which are not positive and
// finite are ignored.
func (c *Context) SetMiterLimit(limit float64) {
	if !(limit > 0) || math.IsInf(limit, 0) {
		return
	}
	c.state.miterLimit = limit
}

// SetLineDash sets the dash pattern, in user space units.  An empty
// pattern gives solid lines.  Patterns with an odd number of entries are
// repeated to make the length even.  Patterns containing negative or
// non-finite values are ignored.
func (c *Context) SetLineDash(pattern []float64) {
	for _, v := range pattern {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	dash := slices.Clone(pattern)
	if len(dash)%2 == 1 {
		dash = append(dash, dash...)
	}
	c.state.dash = dash
}

// LineDash returns a copy of the current dash pattern.
func (c *Context) LineDash() []float64 {
	return slices.Clone(c.state.dash)
}

// SetLineDashOffset sets the phase of the dash pattern.
func (c *Context) SetLineDashOffset(offset float64) {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return
	}
	c.state.dashOffset = offset
}

// LineDashOffset returns the phase of the dash pattern.
func (c *Context) LineDashOffset() float64 {
	return c.state.dashOffset
}

// SetImageSmoothing selects bilinear (true) or nearest neighbour (false)
// interpolation for DrawImage.
func (c *Context) SetImageSmoothing(enabled bool) {
	c.state.smoothing = enabled
}

// invert returns the inverse of m.  The second return value is false if m
// is singular.
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	cc := -m[2] / det
	d := m[0] / det
	return matrix.Matrix{
		a, b, cc, d,
		-(m[4]*a + m[5]*cc),
		-(m[4]*b + m[5]*d),
	}, true
}

// transformPath returns a copy of p with all points mapped by m.
func transformPath(p *path.Data, m matrix.Matrix) *path.Data {
	res := &path.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: make([]vec.Vec2, len(p.Coords)),
	}
	for i, v := range p.Coords {
		res.Coords[i] = apply(m, v)
	}
	return res
}
