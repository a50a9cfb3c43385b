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
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// CapStyle is the shape of the end points of stroked lines.
type CapStyle int

const (
	CapButt CapStyle = iota
	CapRound
	CapProjecting
)

var capNames = [...]string{"butt", "round", "projecting"}

func (c CapStyle) String() string {
	if c < 0 || int(c) >= len(capNames) {
		return fmt.Sprintf("CapStyle(%d)", int(c))
	}
	return capNames[c]
}

// token returns the name the drawing context uses for c.
func (c CapStyle) token() string {
	if c == CapProjecting {
		return "square"
	}
	return c.String()
}

// ParseCapStyle converts "butt", "round" or "projecting" into a CapStyle.
func ParseCapStyle(s string) (CapStyle, error) {
	for i, name := range capNames {
		if s == name {
			return CapStyle(i), nil
		}
	}
	return 0, &ValidationError{Field: "cap style", Value: s}
}

// JoinStyle is the shape of the corners of stroked lines.
type JoinStyle int

const (
	JoinMiter JoinStyle = iota
	JoinRound
	JoinBevel
)

var joinNames = [...]string{"miter", "round", "bevel"}

func (j JoinStyle) String() string {
	if j < 0 || int(j) >= len(joinNames) {
		return fmt.Sprintf("JoinStyle(%d)", int(j))
	}
	return joinNames[j]
}

// ParseJoinStyle converts "miter", "round" or "bevel" into a JoinStyle.
func ParseJoinStyle(s string) (JoinStyle, error) {
	for i, name := range joinNames {
		if s == name {
			return JoinStyle(i), nil
		}
	}
	return 0, &ValidationError{Field: "join style", Value: s}
}

// ClipPath is a path used to clip drawing, together with the
// transformation from path coordinates to vector space.
type ClipPath struct {
	Path      *path.Data
	Transform matrix.Matrix // zero value means identity
}

// GraphicsContext holds the style state for a group of drawing calls.
//
// Setters for line properties and clipping act on the drawing context
// immediately.  The clip setters start a save/restore bracket on the
// drawing context, which is closed by [GraphicsContext.Restore].
type GraphicsContext struct {
	r *Renderer

	lineWidth  float64 // points
	stroke     bool
	capStyle   CapStyle
	joinStyle  JoinStyle
	dashOffset float64
	dashes     []float64 // points

	rgb         Color // always has an alpha channel
	alpha       float64
	forcedAlpha bool
	hatch       string

	clipRect *rect.Rect
	clipPath *ClipPath
}

// NewGC returns a graphics context with the default style: one point
// wide solid black lines with butt caps and round joins.
func (r *Renderer) NewGC() *GraphicsContext {
	return &GraphicsContext{
		r:         r,
		lineWidth: 1,
		stroke:    true,
		capStyle:  CapButt,
		joinStyle: JoinRound,
		rgb:       RGBA(0, 0, 0, 1),
		alpha:     1,
	}
}

// Restore closes the save/restore bracket opened by a clip setter.
func (gc *GraphicsContext) Restore() {
	gc.r.ctx.Restore()
}

// SetCapStyle sets the cap style.
func (gc *GraphicsContext) SetCapStyle(c CapStyle) error {
	if c < 0 || int(c) >= len(capNames) {
		return &ValidationError{Field: "cap style", Value: c.String()}
	}
	gc.capStyle = c
	gc.r.ctx.SetLineCap(c.token())
	return nil
}

// CapStyle returns the current cap style.
func (gc *GraphicsContext) CapStyle() CapStyle {
	return gc.capStyle
}

// SetJoinStyle sets the join style.
func (gc *GraphicsContext) SetJoinStyle(j JoinStyle) error {
	if j < 0 || int(j) >= len(joinNames) {
		return &ValidationError{Field: "join style", Value: j.String()}
	}
	gc.joinStyle = j
	gc.r.ctx.SetLineJoin(j.String())
	return nil
}

// JoinStyle returns the current join style.
func (gc *GraphicsContext) JoinStyle() JoinStyle {
	return gc.joinStyle
}

// SetLineWidth sets the line width in points.  A width of zero disables
// stroking.
func (gc *GraphicsContext) SetLineWidth(w float64) {
	gc.stroke = w != 0
	gc.lineWidth = w
	gc.r.ctx.SetLineWidth(gc.r.PointsToPixels(w))
}

// LineWidth returns the line width in points.
func (gc *GraphicsContext) LineWidth() float64 {
	return gc.lineWidth
}

// StrokeEnabled reports whether paths are stroked.
func (gc *GraphicsContext) StrokeEnabled() bool {
	return gc.stroke
}

// SetDashes sets the dash pattern, given in points.  The pattern is
// converted to pixels for the drawing context; the offset is passed
// through unchanged.  A nil pattern gives solid lines.
func (gc *GraphicsContext) SetDashes(offset float64, pattern []float64) {
	gc.dashOffset = offset
	gc.dashes = slices.Clone(pattern)
	gc.r.ctx.SetLineDashOffset(offset)

	px := make([]float64, len(pattern))
	for i, v := range pattern {
		px[i] = gc.r.PointsToPixels(v)
	}
	gc.r.ctx.SetLineDash(px)
}

// Dashes returns the dash offset and the dash pattern in points.
func (gc *GraphicsContext) Dashes() (offset float64, pattern []float64) {
	return gc.dashOffset, slices.Clone(gc.dashes)
}

// SetClipRectangle restricts drawing to r, given in vector space.  The
// bounds are rounded to whole pixels.  A nil rectangle leaves the clip
// unchanged; the save issued first is then restored at once.
func (gc *GraphicsContext) SetClipRectangle(r *rect.Rect) {
	ctx := gc.r.ctx
	ctx.Save()
	if r == nil {
		ctx.Restore()
		gc.clipRect = nil
		return
	}
	clip := *r
	gc.clipRect = &clip

	x := math.RoundToEven(r.LLx)
	y := math.RoundToEven(r.LLy)
	w := math.RoundToEven(r.URx - r.LLx)
	h := math.RoundToEven(r.URy - r.LLy)
	ctx.BeginPath()
	ctx.Rect(x, gc.r.height-y-h, w, h)
	ctx.Clip()
}

// ClipRectangle returns the clip rectangle, or nil if there is none.
func (gc *GraphicsContext) ClipRectangle() *rect.Rect {
	return gc.clipRect
}

// SetClipPath restricts drawing to the inside of cp.  A nil clip path
// leaves the clip unchanged; the save issued first is then restored at
// once.
func (gc *GraphicsContext) SetClipPath(cp *ClipPath) {
	ctx := gc.r.ctx
	ctx.Save()
	if cp == nil || cp.Path == nil {
		ctx.Restore()
		gc.clipPath = nil
		return
	}
	gc.clipPath = cp
	emitPath(ctx, cp.Path, toDevice(cp.Transform, gc.r.height))
	ctx.Clip()
}

// ClipPath returns the clip path, or nil if there is none.
func (gc *GraphicsContext) ClipPath() *ClipPath {
	return gc.clipPath
}

// SetForeground sets the colour for strokes and text.  If an alpha value
// has been set with SetAlpha, it replaces the alpha channel of c.
func (gc *GraphicsContext) SetForeground(c Color) {
	switch {
	case gc.forcedAlpha:
		c.A = gc.alpha
	case !c.HasAlpha:
		c.A = 1
	}
	c.HasAlpha = true
	gc.rgb = c
}

// Foreground returns the colour for strokes and text.
func (gc *GraphicsContext) Foreground() Color {
	return gc.rgb
}

// SetAlpha sets an alpha value which overrides the alpha channel of all
// colours used with this context.
func (gc *GraphicsContext) SetAlpha(a float64) {
	gc.alpha = a
	gc.forcedAlpha = true
	gc.SetForeground(gc.rgb)
}

// ClearAlpha removes an alpha value set by SetAlpha.  Colours use their
// own alpha channel again.
func (gc *GraphicsContext) ClearAlpha() {
	gc.alpha = 1
	gc.forcedAlpha = false
}

// Alpha returns the alpha value, and whether it overrides the alpha
// channel of colours.
func (gc *GraphicsContext) Alpha() (alpha float64, forced bool) {
	return gc.alpha, gc.forcedAlpha
}

// SetHatch records the hatch pattern name.  The empty string means no
// hatch.  Hatch patterns are not drawn; the name is only kept so that it
// can be read back with [GraphicsContext.Hatch].
func (gc *GraphicsContext) SetHatch(h string) {
	gc.hatch = h
}

// Hatch returns the hatch pattern name.
func (gc *GraphicsContext) Hatch() string {
	return gc.hatch
}

// css returns the CSS form of c under the alpha settings of gc.
func (gc *GraphicsContext) css(c Color) string {
	return CSSColor(c, Opacity(gc.alpha), gc.forcedAlpha)
}
