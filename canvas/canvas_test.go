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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/figcanvas/fonts"
)

var (
	transparent = color.RGBA{}
	black       = color.RGBA{A: 255}
	red         = color.RGBA{R: 255, A: 255}
)

func newCanvas(t *testing.T, w, h int) (*Canvas, *Context) {
	t.Helper()
	c, err := New(w, h)
	require.NoError(t, err)
	return c, c.Context2D()
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// inked counts the pixels with non-zero alpha.
func inked(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestNewInvalidSize(t *testing.T) {
	_, err := New(-1, 10)
	assert.Error(t, err)
}

func TestFillRect(t *testing.T) {
	c, ctx := newCanvas(t, 10, 10)
	ctx.SetFillStyle("#ff0000")
	ctx.FillRect(2, 2, 4, 4)

	assert.Equal(t, red, pixel(c, 2, 2))
	assert.Equal(t, red, pixel(c, 5, 5))
	assert.Equal(t, transparent, pixel(c, 6, 6))
	assert.Equal(t, transparent, pixel(c, 1, 3))
	assert.Equal(t, 16, inked(c.img))
}

func TestFillComposites(t *testing.T) {
	c, ctx := newCanvas(t, 4, 4)
	ctx.SetFillStyle("white")
	ctx.FillRect(0, 0, 4, 4)
	ctx.SetFillStyle("rgba(0, 0, 0, 0.5)")
	ctx.FillRect(0, 0, 2, 4)

	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, pixel(c, 3, 0))
	p := pixel(c, 0, 0)
	assert.InDelta(t, 127, int(p.R), 1)
	assert.Equal(t, uint8(255), p.A)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#abc", color.NRGBA{0xaa, 0xbb, 0xcc, 0xff}},
		{"#ABCD", color.NRGBA{0xaa, 0xbb, 0xcc, 0xdd}},
		{"#1f77b4", color.NRGBA{0x1f, 0x77, 0xb4, 0xff}},
		{"#1f77b480", color.NRGBA{0x1f, 0x77, 0xb4, 0x80}},
		{"rgb(255, 0, 0)", color.NRGBA{255, 0, 0, 255}},
		{"rgba(0, 0, 255, 0.5)", color.NRGBA{0, 0, 255, 128}},
		{"rgba(31, 119, 180, 0.4)", color.NRGBA{31, 119, 180, 102}},
		{"rgb(100%, 50%, 0%)", color.NRGBA{255, 128, 0, 255}},
		{"rgba(0,0,0,150%)", color.NRGBA{0, 0, 0, 255}},
		{"  Red ", color.NRGBA{255, 0, 0, 255}},
		{"darkgreen", color.NRGBA{0x00, 0x64, 0x00, 0xff}},
		{"transparent", color.NRGBA{}},
	}
	for _, test := range tests {
		got, err := ParseColor(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}

	for _, bad := range []string{"", "#12", "#12345", "#gg0000", "rgb(1, 2)", "rgb(1, 2, x)", "rgb(1, 2, 3", "reddish"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestInvalidStylesAreIgnored(t *testing.T) {
	_, ctx := newCanvas(t, 1, 1)

	ctx.SetFillStyle("#00ff00")
	ctx.SetFillStyle("not a colour")
	assert.Equal(t, "#00ff00", ctx.FillStyle())

	ctx.SetStrokeStyle("#zzz")
	assert.Equal(t, "#000000", ctx.StrokeStyle())

	ctx.SetLineCap("square")
	ctx.SetLineCap("projecting")
	assert.Equal(t, "square", ctx.LineCap())

	ctx.SetLineJoin("bevel")
	ctx.SetLineJoin("sharp")
	assert.Equal(t, "bevel", ctx.LineJoin())

	ctx.SetLineWidth(3)
	ctx.SetLineWidth(0)
	ctx.SetLineWidth(math.NaN())
	assert.Equal(t, 3.0, ctx.LineWidth())

	ctx.SetFont("bold 12px serif")
	ctx.SetFont("bold serif")
	assert.Equal(t, "bold 12px serif", ctx.Font())
}

func TestSaveRestore(t *testing.T) {
	_, ctx := newCanvas(t, 1, 1)
	ctx.Restore() // empty stack
	assert.Equal(t, 0, ctx.SaveDepth())

	ctx.SetFillStyle("red")
	ctx.Save()
	ctx.Translate(5, 5)
	ctx.SetFillStyle("blue")
	ctx.SetLineDash([]float64{1, 2})
	assert.Equal(t, 1, ctx.SaveDepth())

	ctx.Restore()
	assert.Equal(t, 0, ctx.SaveDepth())
	assert.Equal(t, "red", ctx.FillStyle())
	assert.Equal(t, matrix.Identity, ctx.GetTransform())
	assert.Empty(t, ctx.LineDash())
}

func TestTransforms(t *testing.T) {
	c, ctx := newCanvas(t, 20, 20)
	ctx.Translate(10, 0)
	ctx.Scale(2, 2)
	ctx.FillRect(0, 0, 1, 1)

	assert.Equal(t, black, pixel(c, 10, 0))
	assert.Equal(t, black, pixel(c, 11, 1))
	assert.Equal(t, transparent, pixel(c, 12, 0))
	assert.Equal(t, 4, inked(c.img))

	// a quarter turn maps the x-axis onto the y-axis
	ctx.ResetTransform()
	ctx.Rotate(math.Pi / 2)
	m := ctx.GetTransform()
	p := apply(m, pt(1, 0))
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
}

func TestInvert(t *testing.T) {
	m := matrix.Matrix{2, 1, -1, 3, 5, -7}
	inv, ok := invert(m)
	require.True(t, ok)
	for _, v := range []struct{ x, y float64 }{{0, 0}, {1, 2}, {-3, 0.5}} {
		q := apply(inv, apply(m, pt(v.x, v.y)))
		assert.InDelta(t, v.x, q.X, 1e-12)
		assert.InDelta(t, v.y, q.Y, 1e-12)
	}

	_, ok = invert(matrix.Matrix{1, 2, 2, 4, 0, 0})
	assert.False(t, ok)
}

func TestStroke(t *testing.T) {
	c, ctx := newCanvas(t, 10, 10)
	ctx.SetLineWidth(2)
	ctx.BeginPath()
	ctx.MoveTo(1, 5)
	ctx.LineTo(9, 5)
	ctx.Stroke()

	assert.Equal(t, black, pixel(c, 5, 4))
	assert.Equal(t, black, pixel(c, 5, 5))
	assert.Equal(t, transparent, pixel(c, 5, 3))
	assert.Equal(t, transparent, pixel(c, 5, 6))
	assert.Equal(t, transparent, pixel(c, 0, 5))
	assert.Equal(t, 16, inked(c.img))
}

func TestStrokeWidthFollowsTransform(t *testing.T) {
	c, ctx := newCanvas(t, 20, 20)
	ctx.Scale(2, 2)
	ctx.SetLineWidth(1)
	ctx.BeginPath()
	ctx.MoveTo(1, 5)
	ctx.LineTo(9, 5)
	ctx.Stroke()

	// device space: from (2, 10) to (18, 10), two pixels wide
	assert.Equal(t, black, pixel(c, 10, 9))
	assert.Equal(t, black, pixel(c, 10, 10))
	assert.Equal(t, transparent, pixel(c, 10, 11))
	assert.Equal(t, 32, inked(c.img))
}

func TestDashedStroke(t *testing.T) {
	c, ctx := newCanvas(t, 20, 4)
	ctx.SetLineWidth(2)
	ctx.SetLineDash([]float64{2})
	assert.Equal(t, []float64{2, 2}, ctx.LineDash())

	ctx.SetLineDash([]float64{1, -1})
	assert.Equal(t, []float64{2, 2}, ctx.LineDash())

	ctx.BeginPath()
	ctx.MoveTo(0, 2)
	ctx.LineTo(20, 2)
	ctx.Stroke()

	assert.Equal(t, black, pixel(c, 0, 2))
	assert.Equal(t, black, pixel(c, 1, 1))
	assert.Equal(t, transparent, pixel(c, 2, 2))
	assert.Equal(t, transparent, pixel(c, 3, 1))
	assert.Equal(t, black, pixel(c, 4, 2))
	assert.Equal(t, 20, inked(c.img))
}

func TestClip(t *testing.T) {
	c, ctx := newCanvas(t, 10, 10)
	ctx.Save()
	ctx.BeginPath()
	ctx.Rect(0, 0, 5, 10)
	ctx.Clip()
	ctx.FillRect(0, 0, 10, 10)
	ctx.Restore()

	assert.Equal(t, black, pixel(c, 2, 5))
	assert.Equal(t, transparent, pixel(c, 7, 5))
	assert.Equal(t, 50, inked(c.img))

	// nested clips intersect
	ctx.Save()
	ctx.BeginPath()
	ctx.Rect(0, 0, 5, 10)
	ctx.Clip()
	ctx.BeginPath()
	ctx.Rect(0, 0, 10, 5)
	ctx.Clip()
	ctx.SetFillStyle("red")
	ctx.FillRect(0, 0, 10, 10)
	ctx.Restore()
	assert.Equal(t, red, pixel(c, 2, 2))
	assert.Equal(t, black, pixel(c, 2, 7))

	// the clip is gone after Restore
	ctx.SetFillStyle("red")
	ctx.FillRect(9, 9, 1, 1)
	assert.Equal(t, red, pixel(c, 9, 9))
}

func TestFillTextAndMeasure(t *testing.T) {
	c, ctx := newCanvas(t, 60, 20)
	ctx.SetFont("normal 400 12px Go, sans-serif")

	m, err := ctx.MeasureText("Hg")
	require.NoError(t, err)
	assert.Greater(t, m.Width, 6.0)
	assert.Less(t, m.Width, 24.0)
	assert.Greater(t, m.ActualBoundingBoxAscent, 5.0)
	assert.Greater(t, m.ActualBoundingBoxDescent, 0.0)

	// the width is the advance, so trailing blanks count
	spaced, err := ctx.MeasureText("Hg  ")
	require.NoError(t, err)
	assert.Greater(t, spaced.Width, m.Width)

	require.NoError(t, ctx.FillText("Hg", 2, 14))
	assert.Positive(t, inked(c.img))

	// all ink lies within the measured box
	top := 14 - int(math.Ceil(m.ActualBoundingBoxAscent)) - 1
	bottom := 14 + int(math.Ceil(m.ActualBoundingBoxDescent)) + 1
	right := 2 + int(math.Ceil(m.Width)) + 1
	for y := range 20 {
		for x := range 60 {
			if pixel(c, x, y).A == 0 {
				continue
			}
			assert.True(t, y >= top && y <= bottom && x <= right, "ink at (%d, %d)", x, y)
		}
	}
}

func TestParseFont(t *testing.T) {
	spec, err := parseFont(`italic bold 12px Go, "DejaVu Sans"`)
	require.NoError(t, err)
	assert.Equal(t, &fontSpec{
		style:    fonts.StyleItalic,
		weight:   700,
		px:       12,
		families: []string{"Go", "DejaVu Sans"},
	}, spec)

	spec, err = parseFont("normal 400 26.7px Go, sans-serif")
	require.NoError(t, err)
	assert.Equal(t, 400, spec.weight)
	assert.Equal(t, 26.7, spec.px)

	spec, err = parseFont("oblique 300 12pt/1.5 serif")
	require.NoError(t, err)
	assert.Equal(t, 300, spec.weight)
	assert.InDelta(t, 16, spec.px, 1e-12)

	for _, bad := range []string{"", "bold Go", "12px", "bold 0px serif", "wide 12px serif"} {
		_, err := parseFont(bad)
		assert.Error(t, err, bad)
	}
}

func TestPixelBuffers(t *testing.T) {
	n := PinnedBuffers()
	b := AcquirePixels(16)
	assert.Len(t, b.Bytes(), 16)
	assert.Equal(t, n+1, PinnedBuffers())

	require.NoError(t, b.Release())
	assert.Equal(t, n, PinnedBuffers())
	assert.Nil(t, b.Bytes())
	assert.ErrorIs(t, b.Release(), ErrReleased)
	assert.Equal(t, n, PinnedBuffers())
}

func TestNewImageData(t *testing.T) {
	_, err := NewImageData(make([]byte, 15), 2, 2)
	assert.ErrorIs(t, err, ErrImageDataSize)
	_, err = NewImageData(nil, 0, 0)
	assert.ErrorIs(t, err, ErrImageDataSize)

	img, err := NewImageData(make([]byte, 16), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
}

func TestPutImageData(t *testing.T) {
	c, ctx := newCanvas(t, 3, 3)
	ctx.FillRect(0, 0, 3, 3)

	img, err := NewImageData([]byte{
		255, 0, 0, 255, 0, 0, 0, 0,
		255, 255, 255, 128, 0, 255, 0, 255,
	}, 2, 2)
	require.NoError(t, err)

	// clipping and transformation do not apply
	ctx.BeginPath()
	ctx.Rect(0, 0, 1, 1)
	ctx.Clip()
	ctx.Translate(5, 5)
	ctx.PutImageData(img, 1, 1)

	assert.Equal(t, red, pixel(c, 1, 1))
	assert.Equal(t, transparent, pixel(c, 2, 1))
	assert.Equal(t, color.RGBA{128, 128, 128, 128}, pixel(c, 1, 2))
	assert.Equal(t, black, pixel(c, 0, 0))

	// partially outside
	ctx.PutImageData(img, -1, -1)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, pixel(c, 0, 0))
}

func TestDrawImage(t *testing.T) {
	src, sctx := newCanvas(t, 2, 2)
	sctx.SetFillStyle("red")
	sctx.FillRect(0, 0, 2, 1)

	c, ctx := newCanvas(t, 10, 10)
	ctx.DrawImage(src, 3, 4, 2, 2)
	assert.Equal(t, red, pixel(c, 3, 4))
	assert.Equal(t, red, pixel(c, 4, 4))
	assert.Equal(t, transparent, pixel(c, 3, 5))
	assert.Equal(t, 2, inked(c.img))

	// scaled, nearest neighbour
	c, ctx = newCanvas(t, 10, 10)
	ctx.SetImageSmoothing(false)
	ctx.DrawImage(src, 0, 0, 8, 8)
	assert.Equal(t, red, pixel(c, 0, 0))
	assert.Equal(t, red, pixel(c, 7, 3))
	assert.Equal(t, transparent, pixel(c, 7, 4))
	assert.Equal(t, transparent, pixel(c, 8, 0))
	assert.Equal(t, 32, inked(c.img))
}

func TestDrawImageClipped(t *testing.T) {
	src, sctx := newCanvas(t, 4, 4)
	sctx.FillRect(0, 0, 4, 4)

	c, ctx := newCanvas(t, 4, 4)
	ctx.BeginPath()
	ctx.Rect(0, 0, 2, 4)
	ctx.Clip()
	ctx.DrawImage(src, 0, 0, 4, 4)
	assert.Equal(t, black, pixel(c, 1, 1))
	assert.Equal(t, transparent, pixel(c, 2, 1))
}

func TestTransferToImageBitmap(t *testing.T) {
	c, ctx := newCanvas(t, 4, 3)
	ctx.SetFillStyle("red")
	ctx.FillRect(0, 0, 4, 3)

	bm := c.TransferToImageBitmap()
	assert.Equal(t, 4, bm.Width())
	assert.Equal(t, 3, bm.Height())
	img, err := bm.Image()
	require.NoError(t, err)
	assert.Equal(t, red, img.RGBAAt(1, 1))

	// the canvas starts afresh, but keeps its drawing state
	assert.Equal(t, 0, inked(c.img))
	assert.Equal(t, "red", ctx.FillStyle())
	ctx.FillRect(0, 0, 1, 1)
	assert.Equal(t, red, img.RGBAAt(1, 1))
	assert.Equal(t, 1, inked(c.img))

	bm.Close()
	bm.Close()
	assert.True(t, bm.Closed())
	assert.Zero(t, bm.Width())
	_, err = bm.Image()
	assert.ErrorIs(t, err, ErrClosed)
}
