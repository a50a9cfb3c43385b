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
	"bytes"
	"context"
	"errors"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/figcanvas/canvas"
	"seehuhn.de/go/figcanvas/display"
	"seehuhn.de/go/figcanvas/fonts"
)

// testFigure is a figure which calls a function to draw itself.
type testFigure struct {
	dpi  float64
	w, h float64
	draw func(r *Renderer) error

	calls   int
	seenDPI float64
}

func (f *testFigure) DPI() float64 {
	return f.dpi
}

func (f *testFigure) WidthHeight() (float64, float64) {
	return f.w, f.h
}

func (f *testFigure) Draw(r *Renderer) error {
	f.calls++
	f.seenDPI = r.DPI()
	if f.draw == nil {
		return nil
	}
	return f.draw(r)
}

// redSquare fills the bottom-left 10x10 points of the figure in red.
func redSquare(r *Renderer) error {
	gc := r.NewGC()
	gc.SetLineWidth(0)
	red := RGB(1, 0, 0)
	r.DrawPath(gc, square(0, 0, 10), matrix.Scale(r.DPI()/72, r.DPI()/72), &red)
	return nil
}

func TestNewFigureCanvas(t *testing.T) {
	fig := &testFigure{dpi: 100, w: 50.2, h: 30}
	fc, err := NewFigureCanvas(fig)
	require.NoError(t, err)
	assert.Equal(t, 101, fc.Canvas().Width())
	assert.Equal(t, 60, fc.Canvas().Height())
	assert.Equal(t, float64(DefaultRatio), fc.Ratio())
	assert.Equal(t, StateReady, fc.State())

	for _, ratio := range []float64{0, -1} {
		_, err = NewFigureCanvas(fig, WithRatio(ratio))
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	}
}

func TestDrawUsesEffectiveDPI(t *testing.T) {
	fig := &testFigure{dpi: 100, w: 10, h: 10}
	fc, err := NewFigureCanvas(fig, WithRatio(3))
	require.NoError(t, err)

	require.NoError(t, fc.Draw())
	assert.Equal(t, 300.0, fig.seenDPI)
	assert.Equal(t, 100.0, fig.dpi)
	assert.Equal(t, StateDrawn, fc.State())

	require.NoError(t, fc.Draw())
	assert.Equal(t, 300.0, fig.seenDPI)
}

func TestDrawErrors(t *testing.T) {
	cause := errors.New("broken axis")
	tests := []struct {
		name string
		draw func(r *Renderer) error
		want string
	}{
		{"error", func(*Renderer) error { return cause }, "broken axis"},
		{"panic with error", func(*Renderer) error { panic(cause) }, "broken axis"},
		{"panic with value", func(*Renderer) error { panic("boom") }, "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fig := &testFigure{dpi: 72, w: 10, h: 10, draw: tc.draw}
			fc, err := NewFigureCanvas(fig)
			require.NoError(t, err)

			err = fc.Draw()
			var rerr *RenderingError
			require.True(t, errors.As(err, &rerr))
			assert.Contains(t, err.Error(), "rendering failed")
			assert.Contains(t, err.Error(), tc.want)
			assert.Equal(t, StateReady, fc.State())
			assert.Equal(t, 72.0, fig.dpi)
		})
	}

	fig := &testFigure{dpi: 72, w: 10, h: 10, draw: func(*Renderer) error { panic(cause) }}
	fc, err := NewFigureCanvas(fig)
	require.NoError(t, err)
	assert.ErrorIs(t, fc.Draw(), cause)
}

func TestDrawRestoresUnbalancedSave(t *testing.T) {
	fig := &testFigure{dpi: 72, w: 10, h: 10, draw: func(r *Renderer) error {
		clip := &rect.Rect{URx: 5, URy: 5}
		r.NewGC().SetClipRectangle(clip)
		r.NewGC().SetClipRectangle(clip)
		return nil
	}}
	fc, err := NewFigureCanvas(fig)
	require.NoError(t, err)

	require.NoError(t, fc.Draw())
	assert.Equal(t, 0, fc.Canvas().Context2D().SaveDepth())
}

func TestShowTwice(t *testing.T) {
	rec := &display.Recorder{}
	fig := &testFigure{dpi: 72, w: 20, h: 20, draw: redSquare}
	fc, err := NewFigureCanvas(fig, WithDisplay(rec), WithRatio(1), WithTitle("scatter"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fc.Show(ctx))
	assert.Equal(t, StateSnapshotted, fc.State())
	require.NoError(t, fc.Show(ctx))
	assert.Equal(t, 2, fig.calls)

	entries := rec.Entries()
	require.Len(t, entries, 2)
	first := display.Bitmap(entries[0].Bundle)
	second := display.Bitmap(entries[1].Bundle)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "scatter", entries[1].Metadata.Title())

	// the first snapshot was released before the second was taken
	assert.True(t, first.Closed())
	_, err = first.Image()
	assert.ErrorIs(t, err, canvas.ErrClosed)

	img, err := second.Image()
	require.NoError(t, err)
	assert.Same(t, second, fc.Bitmap())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(5, 15))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))

	// the canvas was handed over in full, so it is blank now
	assert.Equal(t, color.RGBA{}, fc.Canvas().At(5, 15))
}

func TestShowDisplayError(t *testing.T) {
	rec := &display.Recorder{}
	fc, err := NewFigureCanvas(&testFigure{dpi: 72, w: 4, h: 4}, WithDisplay(rec))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = fc.Show(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Entries())

	bm := fc.Bitmap()
	require.NotNil(t, bm)
	fc.Close()
	assert.True(t, bm.Closed())
}

func TestShowWithoutDisplay(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	fc, err := NewFigureCanvas(&testFigure{dpi: 72, w: 4, h: 4}, WithTitle("lost"))
	require.NoError(t, err)
	require.NoError(t, fc.Show(context.Background()))

	assert.Contains(t, buf.String(), "no display channel")
	assert.Contains(t, buf.String(), "title=lost")
	assert.NotNil(t, fc.Bitmap())
}

func TestCloseAndDestroy(t *testing.T) {
	fc, err := NewFigureCanvas(&testFigure{dpi: 72, w: 4, h: 4})
	require.NoError(t, err)

	fc.Close()
	fc.Close()
	assert.Equal(t, StateReady, fc.State())

	require.NoError(t, fc.Show(context.Background()))
	bm := fc.Bitmap()
	fc.Destroy()
	fc.Destroy()
	assert.True(t, bm.Closed())
	assert.Nil(t, fc.Bitmap())
	assert.Equal(t, StateClosed, fc.State())

	assert.ErrorIs(t, fc.Show(context.Background()), ErrDestroyed)
	assert.ErrorIs(t, fc.Draw(), ErrDestroyed)
}

func TestResizeIsNoop(t *testing.T) {
	fc, err := NewFigureCanvas(&testFigure{dpi: 72, w: 4, h: 6})
	require.NoError(t, err)
	fc.Resize(100, 100)
	assert.Equal(t, 8, fc.Canvas().Width())
	assert.Equal(t, 12, fc.Canvas().Height())
}

func TestManager(t *testing.T) {
	rec := &display.Recorder{}
	fc, err := NewFigureCanvas(&testFigure{dpi: 72, w: 4, h: 4}, WithDisplay(rec))
	require.NoError(t, err)

	m := NewManager(fc, 3)
	assert.Equal(t, "Figure 3", fc.Title())
	assert.Equal(t, 3, m.Num())
	assert.Same(t, fc, m.Canvas())

	m.Resize(1, 1)
	assert.Equal(t, 8, fc.Canvas().Width())

	require.NoError(t, m.Show(context.Background()))
	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Figure 3", entries[0].Metadata.Title())

	m.SetWindowTitle("renamed")
	assert.Equal(t, "renamed", fc.Title())

	m.Destroy()
	assert.Equal(t, StateClosed, fc.State())
}

func TestRichOutput(t *testing.T) {
	cv, err := canvas.New(2, 2)
	require.NoError(t, err)
	bm := cv.TransferToImageBitmap()

	out := &RichOutput{Bitmap: bm, Title: "Figure 1"}
	b, md := out.MimeBundle()
	assert.Same(t, bm, b[display.MimeImageBitmap])
	assert.Len(t, b, 1)
	assert.Equal(t, "Figure 1", md.Title())
}

func TestFiguresShareFontCache(t *testing.T) {
	fc, err := fonts.NewCache(nil, 10)
	require.NoError(t, err)

	label := func(r *Renderer) error {
		return r.DrawText(r.NewGC(), 2, 2, "Ag", fonts.Properties{Family: "sans-serif", Size: 8}, 0, false)
	}
	for range 2 {
		f, err := NewFigureCanvas(&testFigure{dpi: 72, w: 40, h: 20, draw: label}, WithFontCache(fc))
		require.NoError(t, err)
		require.NoError(t, f.Draw())
	}
	assert.Equal(t, 1, fc.Stats().Loads)
}

func TestTextOnCanvas(t *testing.T) {
	fig := &testFigure{dpi: 72, w: 60, h: 30, draw: func(r *Renderer) error {
		return r.DrawText(r.NewGC(), 4, 4, "Hg", fonts.Properties{Family: "sans-serif", Size: 10}, 0, false)
	}}
	fc, err := NewFigureCanvas(fig)
	require.NoError(t, err)
	require.NoError(t, fc.Draw())

	inked := 0
	img := fc.Canvas()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				inked++
			}
		}
	}
	assert.Greater(t, inked, 20)
}
