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
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/figcanvas/canvas"
	"seehuhn.de/go/figcanvas/fonts"
)

// DrawingContext is the immediate-mode 2D surface a [Renderer] draws on.
// Coordinates have the origin in the top-left corner, with y growing
// downwards.  [*canvas.Context] implements this interface.
type DrawingContext interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64) // radians, clockwise on screen

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	ClosePath()
	Rect(x, y, w, h float64)
	Clip()
	Fill()
	Stroke()

	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(w float64)
	SetLineCap(name string)
	SetLineJoin(name string)
	SetLineDashOffset(offset float64)
	SetLineDash(pattern []float64)
	SetFont(font string)

	FillText(text string, x, y float64) error
	DrawImage(src image.Image, dx, dy, dw, dh float64)
}

var _ DrawingContext = (*canvas.Context)(nil)

// RasterImage is a block of non-premultiplied RGBA pixels.  Rows are
// stored from the bottom of the image upwards, as in vector space.
type RasterImage struct {
	Width, Height int

	// Stride is the distance in bytes between two rows.  Zero means
	// 4·Width.
	Stride int

	Pix []byte
}

func (img *RasterImage) stride() int {
	if img.Stride == 0 {
		return 4 * img.Width
	}
	return img.Stride
}

func (img *RasterImage) validate() error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errors.New("figcanvas: empty image")
	}
	s := img.stride()
	if s < 4*img.Width || len(img.Pix) < s*(img.Height-1)+4*img.Width {
		return fmt.Errorf("figcanvas: %d bytes too short for %dx%d image with stride %d",
			len(img.Pix), img.Width, img.Height, s)
	}
	return nil
}

// MathRenderer turns math expressions into images.
type MathRenderer interface {
	// RenderMath rasterises s at the given resolution in the colour c.
	// The result uses the row order of [RasterImage].  The descent is the
	// distance in pixels from the bottom of the image to the baseline.
	RenderMath(s string, dpi float64, prop fonts.Properties, c Color) (*RasterImage, float64, error)
}

// Renderer translates the drawing calls of a figure into calls on a
// [DrawingContext].  The input uses vector space: the origin is in the
// bottom-left corner of the surface and y grows upwards.  Lengths given
// in points are converted to pixels using the resolution of the renderer.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	ctx    DrawingContext
	width  float64
	height float64
	dpi    float64

	fonts *fonts.Cache
	math  MathRenderer
}

// NewRenderer returns a renderer for a surface of the given size in
// pixels, at the given resolution in dots per inch.
func NewRenderer(ctx DrawingContext, width, height, dpi float64, opts ...Option) (*Renderer, error) {
	cfg := newConfig(opts)
	fc, err := cfg.fonts()
	if err != nil {
		return nil, err
	}
	return newRenderer(ctx, width, height, dpi, fc, cfg.math), nil
}

func newRenderer(ctx DrawingContext, width, height, dpi float64, fc *fonts.Cache, m MathRenderer) *Renderer {
	return &Renderer{
		ctx:    ctx,
		width:  width,
		height: height,
		dpi:    dpi,
		fonts:  fc,
		math:   m,
	}
}

// DPI returns the resolution of the renderer in dots per inch.
func (r *Renderer) DPI() float64 {
	return r.dpi
}

// Width returns the width of the surface in pixels.
func (r *Renderer) Width() float64 {
	return r.width
}

// Height returns the height of the surface in pixels.
func (r *Renderer) Height() float64 {
	return r.height
}

// PointsToPixels converts a length in points into pixels.
func (r *Renderer) PointsToPixels(points float64) float64 {
	return points * r.dpi / 72
}

// setStyle transfers the style of gc to the drawing context.
func (r *Renderer) setStyle(gc *GraphicsContext, fill *Color) {
	if fill != nil {
		r.ctx.SetFillStyle(gc.css(*fill))
	}
	r.ctx.SetLineCap(gc.capStyle.token())
	r.ctx.SetStrokeStyle(gc.css(gc.rgb))
	r.ctx.SetLineWidth(r.PointsToPixels(gc.lineWidth))
}

// DrawPath draws p, mapped to vector space by m.  If fill is not nil, the
// path is filled with this colour first.  The outline is stroked unless
// the line width of gc is zero.
func (r *Renderer) DrawPath(gc *GraphicsContext, p *path.Data, m matrix.Matrix, fill *Color) {
	r.setStyle(gc, fill)
	emitPath(r.ctx, p, toDevice(m, r.height))
	if fill != nil {
		r.ctx.Fill()
		r.ctx.SetFillStyle("#000000")
	}
	if gc.stroke {
		r.ctx.Stroke()
	}
}

// DrawMarkers draws a copy of marker at every vertex of p.  The marker is
// mapped by markerTrans and then moved to the vertex, which is mapped to
// vector space by trans.
func (r *Renderer) DrawMarkers(gc *GraphicsContext, marker *path.Data, markerTrans matrix.Matrix,
	p *path.Data, trans matrix.Matrix, fill *Color) {
	if markerTrans == (matrix.Matrix{}) {
		markerTrans = matrix.Identity
	}
	vertices(p, trans, func(v vec.Vec2) {
		m := markerTrans.Mul(matrix.Matrix{1, 0, 0, 1, v.X, v.Y})
		r.DrawPath(gc, marker, m, fill)
	})
}

// DrawText draws s with the start of its baseline near (x, y), rotated
// counter-clockwise by angle degrees.  The text is shifted so that its
// descent ends at (x, y).  Math text is drawn by the math renderer.
func (r *Renderer) DrawText(gc *GraphicsContext, x, y float64, s string, prop fonts.Properties, angle float64, isMath bool) error {
	if isMath {
		return r.drawMath(gc, x, y, s, prop, angle)
	}

	fh, err := r.fonts.Get(prop, r.dpi)
	if err != nil {
		return err
	}
	_, _, d := measure(fh, s)

	theta := angle * math.Pi / 180
	bx := x - d*math.Sin(theta)
	by := r.height - y - d*math.Cos(theta)

	px := strconv.FormatFloat(r.PointsToPixels(prop.Size), 'f', -1, 64)
	font := fmt.Sprintf("%s %s %spx %s, %s", prop.Style, prop.WeightName(), px, fh.Name(), prop.Family)

	if theta != 0 {
		r.rotateAbout(bx, by, theta)
	}
	r.ctx.SetFont(font)
	r.ctx.SetFillStyle(gc.css(gc.rgb))
	err = r.ctx.FillText(s, bx, by)
	r.ctx.SetFillStyle("#000000")
	if theta != 0 {
		r.ctx.Restore()
	}
	return err
}

// rotateAbout saves the context and rotates it counter-clockwise on screen
// by theta radians about (x, y).
func (r *Renderer) rotateAbout(x, y, theta float64) {
	r.ctx.Save()
	r.ctx.Translate(x, y)
	r.ctx.Rotate(-theta)
	r.ctx.Translate(-x, -y)
}

func (r *Renderer) drawMath(gc *GraphicsContext, x, y float64, s string, prop fonts.Properties, angle float64) error {
	if r.math == nil {
		return ErrNoMathRenderer
	}
	// the bottom of the image is the lowest point of the ink, like the
	// descent of plain text
	img, _, err := r.math.RenderMath(s, r.dpi, prop, gc.rgb)
	if err != nil {
		return err
	}

	theta := angle * math.Pi / 180
	if theta != 0 {
		r.rotateAbout(x, r.height-y, theta)
		defer r.ctx.Restore()
	}
	return r.DrawImage(gc, x, y, img)
}

// DrawImage draws img with its bottom-left corner at (x, y), one image
// pixel per surface pixel.
//
// The pixels are copied into a pinned buffer in top-down row order and
// drawn by way of a scratch surface.  The buffer is released before
// DrawImage returns, also when drawing fails.
func (r *Renderer) DrawImage(gc *GraphicsContext, x, y float64, img *RasterImage) (err error) {
	if err := img.validate(); err != nil {
		return err
	}
	w, h := img.Width, img.Height
	rowLen := 4 * w
	stride := img.stride()

	buf := canvas.AcquirePixels(rowLen * h)
	defer func() {
		if relErr := buf.Release(); relErr != nil && err == nil {
			err = &ResourceError{Op: "release pixel buffer", Err: relErr}
		}
	}()

	pix := buf.Bytes()
	for row := range h {
		src := img.Pix[(h-1-row)*stride:]
		copy(pix[row*rowLen:(row+1)*rowLen], src[:rowLen])
	}
	data, err := canvas.NewImageData(pix, w, h)
	if err != nil {
		return err
	}

	scratch, err := canvas.New(w, h, canvas.WithFontCache(r.fonts))
	if err != nil {
		return &ResourceError{Op: "allocate scratch surface", Err: err}
	}
	scratch.Context2D().PutImageData(data, 0, 0)

	r.ctx.Save()
	r.ctx.DrawImage(scratch, x, r.height-y-float64(h), float64(w), float64(h))
	r.ctx.Restore()
	return nil
}

// TextWidthHeightDescent measures s.  For plain text the values are the
// width and height of the ink bounding box and the depth of the ink below
// the baseline, in pixels.  Leading and trailing blanks carry no ink.  For math text they are the size of the rendered
// image and its descent.
func (r *Renderer) TextWidthHeightDescent(s string, prop fonts.Properties, isMath bool) (w, h, d float64, err error) {
	if isMath {
		if r.math == nil {
			return 0, 0, 0, ErrNoMathRenderer
		}
		img, descent, err := r.math.RenderMath(s, r.dpi, prop, RGB(0, 0, 0))
		if err != nil {
			return 0, 0, 0, err
		}
		return float64(img.Width), float64(img.Height), descent, nil
	}

	fh, err := r.fonts.Get(prop, r.dpi)
	if err != nil {
		return 0, 0, 0, err
	}
	w, h, d = measure(fh, s)
	return w, h, d, nil
}

// measure shapes s with fh and returns the size of its ink bounding box
// and the depth below the baseline, in pixels.
func measure(fh *fonts.Handle, s string) (w, h, d float64) {
	fh.SetText(s)
	iw, ih := fh.WidthHeight()
	return float64(iw) / 64, float64(ih) / 64, float64(fh.Descent()) / 64
}
