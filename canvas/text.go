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
	"golang.org/x/image/font/sfnt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/figcanvas/fonts"
	"seehuhn.de/go/figcanvas/internal/logging"
)

// SetFont sets the font from a CSS font shorthand, for example
// "italic bold 12px Go, sans-serif".  Families are tried in order when
// text is drawn.
func (c *Context) SetFont(font string) {
	spec, err := parseFont(font)
	if err != nil {
		logging.Logger().Warn("ignoring invalid style", "attr", "font", "value", font)
		return
	}
	c.state.font = font
	c.state.fontSpec = spec
}

// Font returns the current font string.
func (c *Context) Font() string {
	return c.state.font
}

// handle returns the font handle for the first family of the current font
// which can be resolved.
func (c *Context) handle() (*fonts.Handle, error) {
	spec := c.state.fontSpec
	var firstErr error
	for _, family := range spec.families {
		p := fonts.Properties{
			Family: family,
			Style:  spec.style,
			Weight: spec.weight,
			Size:   spec.px,
		}
		// 72 dpi makes a point equal to a pixel
		h, err := c.canvas.fonts.Get(p, 72)
		if err == nil {
			return h, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// TextMetrics describes the extent of a text run, in pixels.
type TextMetrics struct {
	// Width is the advance width.
	Width float64

	// ActualBoundingBoxAscent and ActualBoundingBoxDescent are the
	// distances from the baseline to the top and bottom of the ink.
	ActualBoundingBoxAscent  float64
	ActualBoundingBoxDescent float64
}

// MeasureText measures text in the current font.
func (c *Context) MeasureText(text string) (TextMetrics, error) {
	h, err := c.handle()
	if err != nil {
		return TextMetrics{}, err
	}
	h.SetText(text)
	_, ht := h.WidthHeight()
	d := h.Descent()
	return TextMetrics{
		Width:                    float64(h.Advance()) / 64,
		ActualBoundingBoxAscent:  float64(ht-d) / 64,
		ActualBoundingBoxDescent: float64(d) / 64,
	}, nil
}

// FillText draws text with the fill style.  The start of the baseline is
// placed at (x, y).  The current path is not changed.
func (c *Context) FillText(text string, x, y float64) error {
	h, err := c.handle()
	if err != nil {
		return err
	}
	h.SetText(text)

	outline := &path.Data{}
	for _, g := range h.Glyphs() {
		segs, err := h.Outline(g.ID)
		if err != nil {
			return err
		}
		ox, oy := x+g.X, y+g.Y
		for _, seg := range segs {
			a := seg.Args
			at := func(i int) vec.Vec2 {
				return c.toDevice(ox+float64(a[i].X)/64, oy+float64(a[i].Y)/64)
			}
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				outline.MoveTo(at(0))
			case sfnt.SegmentOpLineTo:
				outline.LineTo(at(0))
			case sfnt.SegmentOpQuadTo:
				outline.QuadTo(at(0), at(1))
			case sfnt.SegmentOpCubeTo:
				outline.CubeTo(at(0), at(1), at(2))
			}
		}
	}
	c.rasterizer().FillNonZero(outline, c.painter(c.state.fill))
	return nil
}
