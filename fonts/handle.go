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

package fonts

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Glyph is a shaped glyph, positioned relative to the start of the
// baseline.  Coordinates are in pixels, with y growing downwards.
type Glyph struct {
	ID   sfnt.GlyphIndex
	X, Y float64
}

// Handle is a loaded font file which can shape and measure one string at a
// time.  The typical sequence of calls is Clear, SetSize, SetText and
// then the metric methods.
//
// A Handle is not safe for concurrent use.
type Handle struct {
	id   string
	name string

	face   *font.Face
	outl   *sfnt.Font
	buf    sfnt.Buffer
	shaper shaping.HarfbuzzShaper

	px  float64 // font size in pixels
	out shaping.Output
}

// NewHandle parses the font file data.  The id is the identifier the data
// was loaded under.
func NewHandle(id string, data []byte) (*Handle, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parsing %s: %w", id, err)
	}
	outl, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: parsing %s: %w", id, err)
	}

	h := &Handle{
		id:   id,
		face: face,
		outl: outl,
	}
	h.name, err = outl.Name(&h.buf, sfnt.NameIDFamily)
	if err != nil || h.name == "" {
		h.name = id
	}
	return h, nil
}

// FileName returns the identifier the font was loaded under.
func (h *Handle) FileName() string {
	return h.id
}

// Name returns the family name stored in the font file.
func (h *Handle) Name() string {
	return h.name
}

// SetSize sets the font size to the given number of points, for output at
// the given resolution in dots per inch.
func (h *Handle) SetSize(points, dpi float64) {
	h.px = points * dpi / 72
	h.out = shaping.Output{}
}

// Size returns the font size in pixels.
func (h *Handle) Size() float64 {
	return h.px
}

// Clear discards the shaped text.
func (h *Handle) Clear() {
	h.out = shaping.Output{}
}

// SetText shapes s at the current size.  The text is normalised to NFC
// first, so that precomposed and decomposed input measure the same.
func (h *Handle) SetText(s string) {
	runes := []rune(norm.NFC.String(s))
	if len(runes) == 0 {
		h.out = shaping.Output{}
		return
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      h.face,
		Size:      fixed.Int26_6(h.px * 64),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}
	h.out = h.shaper.Shape(input)
	h.out.RecalculateAll()
}

// WidthHeight returns the size of the ink bounding box of the shaped text,
// in units of 1/64 pixel.  Blank glyphs add to the pen position but not to
// the box, so leading and trailing spaces do not change the width.
func (h *Handle) WidthHeight() (width, height int) {
	b := h.out.GlyphBounds
	return int(h.inkWidth()), int(b.Ascent - b.Descent)
}

// Advance returns the distance the pen moves when drawing the shaped
// text, in units of 1/64 pixel.
func (h *Handle) Advance() int {
	return int(h.out.Advance)
}

func (h *Handle) inkWidth() fixed.Int26_6 {
	var pen, left, right fixed.Int26_6
	inked := false
	for _, g := range h.out.Glyphs {
		if g.Width != 0 {
			x0 := pen + g.XOffset + g.XBearing
			x1 := x0 + g.Width
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			if !inked || x0 < left {
				left = x0
			}
			if !inked || x1 > right {
				right = x1
			}
			inked = true
		}
		pen += g.Advance
	}
	return right - left
}

// Descent returns the distance of the lowest point of the shaped text below
// the baseline, in units of 1/64 pixel.
func (h *Handle) Descent() int {
	return int(-h.out.GlyphBounds.Descent)
}

// Glyphs returns the positioned glyphs of the shaped text.
func (h *Handle) Glyphs() []Glyph {
	res := make([]Glyph, 0, len(h.out.Glyphs))
	var x fixed.Int26_6
	for _, g := range h.out.Glyphs {
		res = append(res, Glyph{
			ID: sfnt.GlyphIndex(g.GlyphID),
			X:  float64(x+g.XOffset) / 64,
			Y:  -float64(g.YOffset) / 64,
		})
		x += g.Advance
	}
	return res
}

// Outline returns the outline of glyph gid at the current size, in 26.6
// pixel coordinates with y growing downwards.  The returned segments are
// only valid until the next call to Outline.
func (h *Handle) Outline(gid sfnt.GlyphIndex) (sfnt.Segments, error) {
	return h.outl.LoadGlyph(&h.buf, gid, fixed.Int26_6(h.px*64), nil)
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
