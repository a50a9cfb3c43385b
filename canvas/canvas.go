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

// Package canvas implements an off-screen raster surface with an
// immediate-mode 2D drawing context, following the model of the HTML
// OffscreenCanvas.
//
// Surface coordinates have their origin in the top-left corner, with y
// growing downwards.  Pixels are stored as premultiplied 8-bit RGBA.
// Style values (colours, fonts, cap and join names) are given as CSS
// strings; invalid values are ignored, the way a browser does.
//
// A Canvas is not safe for concurrent use.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/figcanvas/fonts"
	"seehuhn.de/go/figcanvas/internal/logging"
)

var (
	// ErrClosed is returned when the pixels of a closed [ImageBitmap] are
	// requested.
	ErrClosed = errors.New("canvas: image bitmap is closed")

	// ErrReleased is returned when a [PixelBuffer] is released twice.
	ErrReleased = errors.New("canvas: pixel buffer already released")

	// ErrImageDataSize is returned when the length of a pixel buffer does
	// not match the image dimensions.
	ErrImageDataSize = errors.New("canvas: pixel buffer size does not match image size")
)

// Canvas is an off-screen raster surface.
type Canvas struct {
	img   *image.RGBA
	ctx   *Context
	fonts *fonts.Cache
}

// Option configures a [Canvas].
type Option func(*config)

type config struct {
	resolver fonts.Resolver
	cache    *fonts.Cache
}

// WithFontResolver sets the resolver used to find the fonts named in
// font strings.  The default is [fonts.GoFonts].
func WithFontResolver(r fonts.Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithFontCache makes the canvas share an existing font cache.  This
// takes precedence over [WithFontResolver].
func WithFontCache(fc *fonts.Cache) Option {
	return func(c *config) {
		c.cache = fc
	}
}

// New allocates a transparent canvas of the given size in pixels.
func New(width, height int, opts ...Option) (*Canvas, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("canvas: invalid size %dx%d", width, height)
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	fc := cfg.cache
	if fc == nil {
		var err error
		fc, err = fonts.NewCache(cfg.resolver, fonts.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
	}

	c := &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts: fc,
	}
	c.ctx = newContext(c)
	return c, nil
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int {
	return c.img.Rect.Dy()
}

// Context2D returns the drawing context of the canvas.  Every call
// returns the same context.
func (c *Canvas) Context2D() *Context {
	return c.ctx
}

// ColorModel implements the [image.Image] interface.
func (c *Canvas) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the [image.Image] interface.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// At implements the [image.Image] interface.
func (c *Canvas) At(x, y int) color.Color {
	return c.img.At(x, y)
}

// TransferToImageBitmap moves the current pixels of the canvas into a new
// [ImageBitmap].  The canvas is left fully transparent; the state of the
// drawing context is kept.
func (c *Canvas) TransferToImageBitmap() *ImageBitmap {
	bm := &ImageBitmap{img: c.img}
	c.img = image.NewRGBA(bm.img.Rect)
	logging.Logger().Debug("image bitmap transferred",
		"width", bm.img.Rect.Dx(), "height", bm.img.Rect.Dy())
	return bm
}

// ImageBitmap holds pixels moved out of a canvas.  Once closed, the pixels
// are gone for good.
type ImageBitmap struct {
	img *image.RGBA
}

// Width returns the width of the bitmap in pixels, or 0 after Close.
func (b *ImageBitmap) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dx()
}

// Height returns the height of the bitmap in pixels, or 0 after Close.
func (b *ImageBitmap) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dy()
}

// Image returns the pixels of the bitmap.  The image must not be modified.
func (b *ImageBitmap) Image() (*image.RGBA, error) {
	if b.img == nil {
		return nil, ErrClosed
	}
	return b.img, nil
}

// Closed reports whether Close has been called.
func (b *ImageBitmap) Closed() bool {
	return b.img == nil
}

// Close frees the pixels.  Closing a closed bitmap has no effect.
func (b *ImageBitmap) Close() {
	b.img = nil
}
