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
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/matrix"
)

var (
	pixelPool sync.Pool
	pinned    atomic.Int64
)

// PixelBuffer is a block of memory pinned for building an [ImageData].
// Every buffer obtained from [AcquirePixels] must be released exactly
// once.
type PixelBuffer struct {
	data     []byte
	released atomic.Bool
}

// AcquirePixels returns a pinned buffer of n bytes.  The contents of the
// buffer are unspecified.
func AcquirePixels(n int) *PixelBuffer {
	var data []byte
	if p, ok := pixelPool.Get().(*[]byte); ok && cap(*p) >= n {
		data = (*p)[:n]
	} else {
		data = make([]byte, n)
	}
	pinned.Add(1)
	return &PixelBuffer{data: data}
}

// Bytes returns the memory of the buffer, or nil after Release.
func (b *PixelBuffer) Bytes() []byte {
	if b.released.Load() {
		return nil
	}
	return b.data
}

// Release unpins the buffer.  Releasing a buffer twice returns
// [ErrReleased].
func (b *PixelBuffer) Release() error {
	if b.released.Swap(true) {
		return ErrReleased
	}
	data := b.data
	b.data = nil
	pixelPool.Put(&data)
	pinned.Add(-1)
	return nil
}

// PinnedBuffers returns the number of pixel buffers which have been
// acquired but not yet released.
func PinnedBuffers() int {
	return int(pinned.Load())
}

// ImageData is a rectangle of non-premultiplied RGBA pixels, stored row by
// row from the top.
type ImageData struct {
	Data          []byte
	Width, Height int
}

// NewImageData wraps data as an image of the given size.  The length of
// data must be exactly 4·width·height.
func NewImageData(data []byte, width, height int) (*ImageData, error) {
	if width <= 0 || height <= 0 || len(data) != 4*width*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels",
			ErrImageDataSize, len(data), width, height)
	}
	return &ImageData{Data: data, Width: width, Height: height}, nil
}

// PutImageData copies the pixels of img onto the canvas with the top-left
// corner at (dx, dy).  The current transformation, the clipping region
// and compositing are all bypassed; the destination pixels are replaced.
func (c *Context) PutImageData(img *ImageData, dx, dy int) {
	dst := c.canvas.img
	r := image.Rect(dx, dy, dx+img.Width, dy+img.Height).Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.Data[4*((y-dy)*img.Width+(r.Min.X-dx)):]
		out := dst.Pix[dst.PixOffset(r.Min.X, y):]
		for i := range r.Dx() {
			s := src[4*i : 4*i+4 : 4*i+4]
			d := out[4*i : 4*i+4 : 4*i+4]
			a := uint32(s[3])
			d[0] = uint8((uint32(s[0])*a + 127) / 255)
			d[1] = uint8((uint32(s[1])*a + 127) / 255)
			d[2] = uint8((uint32(s[2])*a + 127) / 255)
			d[3] = s[3]
		}
	}
}

// DrawImage draws src scaled into the rectangle (dx, dy, dw, dh) of user
// space, composited with the source-over operator and clipped by the
// current clipping region.
func (c *Context) DrawImage(src image.Image, dx, dy, dw, dh float64) {
	if cv, ok := src.(*Canvas); ok {
		src = cv.img
	}
	sr := src.Bounds()
	if sr.Empty() || dw == 0 || dh == 0 {
		return
	}

	sx := dw / float64(sr.Dx())
	sy := dh / float64(sr.Dy())
	m := matrix.Matrix{
		sx, 0, 0, sy,
		dx - float64(sr.Min.X)*sx,
		dy - float64(sr.Min.Y)*sy,
	}.Mul(c.state.ctm)

	dst := c.canvas.img
	var mask image.Image
	if c.state.clip != nil {
		mask = c.state.clip
	}

	// pixel aligned copies need no resampling
	if m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 &&
		m[4] == math.Trunc(m[4]) && m[5] == math.Trunc(m[5]) {
		dp := image.Pt(int(m[4]), int(m[5])).Add(sr.Min)
		r := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
		draw.DrawMask(dst, r, src, sr.Min, mask, r.Min, draw.Over)
		return
	}

	var interp draw.Interpolator = draw.BiLinear
	if !c.state.smoothing {
		interp = draw.NearestNeighbor
	}
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	interp.Transform(dst, aff, src, sr, draw.Over, &draw.Options{DstMask: mask})
}
