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

// Package figcanvas draws figures onto an off-screen raster canvas and
// hands snapshots of the result to a display channel.
//
// A figure describes itself through calls on a [Renderer]: paths, markers,
// text and images, in a coordinate system with the origin in the
// bottom-left corner.  The renderer translates these calls into calls on
// a [DrawingContext] with the origin in the top-left corner, normally the
// 2D context of a [canvas.Canvas].
//
// [FigureCanvas] owns the canvas of one figure.  Each call to
// [FigureCanvas.Show] redraws the figure at a multiple of its logical
// size, moves the pixels into an [canvas.ImageBitmap] and sends this to
// the configured [display.Channel].
package figcanvas

import (
	"context"
	"fmt"
	"math"

	"seehuhn.de/go/figcanvas/canvas"
	"seehuhn.de/go/figcanvas/display"
	"seehuhn.de/go/figcanvas/fonts"
	"seehuhn.de/go/figcanvas/internal/logging"
)

// Figure is a drawable figure.
type Figure interface {
	// DPI returns the nominal resolution of the figure.
	DPI() float64

	// WidthHeight returns the logical size of the figure in pixels.
	WidthHeight() (width, height float64)

	// Draw draws the figure using r.  The resolution of r may differ
	// from the nominal resolution of the figure.
	Draw(r *Renderer) error
}

// State is the life cycle stage of a [FigureCanvas].
type State int

const (
	StateReady State = iota
	StateDrawn
	StateSnapshotted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDrawn:
		return "drawn"
	case StateSnapshotted:
		return "snapshotted"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FigureCanvas renders a figure onto an off-screen canvas.  The canvas has
// the logical size of the figure times the ratio, and its size never
// changes.
//
// A FigureCanvas is not safe for concurrent use.
type FigureCanvas struct {
	fig   Figure
	ratio float64

	canvas *canvas.Canvas
	fonts  *fonts.Cache
	math   MathRenderer

	display display.Channel
	title   string

	bitmap *canvas.ImageBitmap
	state  State
}

// NewFigureCanvas allocates the canvas for fig.
func NewFigureCanvas(fig Figure, opts ...Option) (*FigureCanvas, error) {
	cfg := newConfig(opts)
	if !(cfg.ratio > 0) || math.IsInf(cfg.ratio, 0) {
		return nil, &ValidationError{Field: "ratio", Value: fmt.Sprint(cfg.ratio)}
	}
	fc, err := cfg.fonts()
	if err != nil {
		return nil, err
	}

	w, h := fig.WidthHeight()
	cv, err := canvas.New(int(math.Ceil(w*cfg.ratio)), int(math.Ceil(h*cfg.ratio)),
		canvas.WithFontCache(fc))
	if err != nil {
		return nil, err
	}

	return &FigureCanvas{
		fig:     fig,
		ratio:   cfg.ratio,
		canvas:  cv,
		fonts:   fc,
		math:    cfg.math,
		display: cfg.display,
		title:   cfg.title,
	}, nil
}

// Canvas returns the off-screen canvas.
func (f *FigureCanvas) Canvas() *canvas.Canvas {
	return f.canvas
}

// State returns the life cycle stage of f.
func (f *FigureCanvas) State() State {
	return f.state
}

// Ratio returns the number of canvas pixels per logical pixel.
func (f *FigureCanvas) Ratio() float64 {
	return f.ratio
}

// Draw renders the figure onto the canvas, at the resolution of the
// figure times the ratio.  Any failure of the figure, including a panic,
// is returned as a [*RenderingError].
func (f *FigureCanvas) Draw() (err error) {
	if f.state == StateClosed {
		return ErrDestroyed
	}
	ctx := f.canvas.Context2D()
	depth := ctx.SaveDepth()
	dpi := f.fig.DPI() * f.ratio
	w, h := f.canvas.Width(), f.canvas.Height()

	logging.Logger().Debug("drawing figure", "title", f.title, "width", w, "height", h, "dpi", dpi)

	defer func() {
		if p := recover(); p != nil {
			perr, ok := p.(error)
			if !ok {
				perr = fmt.Errorf("%v", p)
			}
			err = &RenderingError{Err: perr}
		}
		if extra := ctx.SaveDepth() - depth; extra > 0 {
			logging.Logger().Warn("unbalanced save in figure", "title", f.title, "count", extra)
			for range extra {
				ctx.Restore()
			}
		}
		if err == nil {
			f.state = StateDrawn
		}
	}()

	r := newRenderer(ctx, float64(w), float64(h), dpi, f.fonts, f.math)
	if err := f.fig.Draw(r); err != nil {
		return &RenderingError{Err: err}
	}
	return nil
}

// Show draws the figure and sends a snapshot of the canvas to the display
// channel.  The snapshot of the previous call is closed first.  Ownership
// of the new snapshot passes to the channel.
//
// Without a display channel the snapshot is discarded.
func (f *FigureCanvas) Show(ctx context.Context) error {
	f.Close()
	if err := f.Draw(); err != nil {
		return err
	}

	f.bitmap = f.canvas.TransferToImageBitmap()
	f.state = StateSnapshotted
	out := &RichOutput{Bitmap: f.bitmap, Title: f.title}

	if f.display == nil {
		logging.Logger().Warn("no display channel, discarding figure", "title", f.title)
		return nil
	}
	b, md := out.MimeBundle()
	if err := f.display.Display(ctx, b, md); err != nil {
		return fmt.Errorf("figcanvas: display %q: %w", f.title, err)
	}
	return nil
}

// Bitmap returns the snapshot taken by the last call to Show, or nil if it
// has been closed.
func (f *FigureCanvas) Bitmap() *canvas.ImageBitmap {
	return f.bitmap
}

// Close releases the snapshot of the last call to Show.  Closing a
// canvas without a snapshot does nothing.
func (f *FigureCanvas) Close() {
	if f.bitmap == nil {
		return
	}
	f.bitmap.Close()
	f.bitmap = nil
	f.state = StateReady
}

// Destroy releases all resources of the canvas.  Further calls to Draw
// and Show return [ErrDestroyed].  Destroy can be called more than once.
func (f *FigureCanvas) Destroy() {
	f.Close()
	f.state = StateClosed
}

// Resize does nothing: the size of the canvas is fixed when it is created.
func (f *FigureCanvas) Resize(width, height float64) {}

// SetWindowTitle sets the title sent along with the snapshots.
func (f *FigureCanvas) SetWindowTitle(title string) {
	f.title = title
}

// Title returns the window title.
func (f *FigureCanvas) Title() string {
	return f.title
}

// Manager manages the window of a numbered figure.
type Manager struct {
	canvas *FigureCanvas
	num    int
}

// NewManager returns the manager for figure number num.  The window title
// is set to "Figure num".
func NewManager(fc *FigureCanvas, num int) *Manager {
	m := &Manager{canvas: fc, num: num}
	m.SetWindowTitle(fmt.Sprintf("Figure %d", num))
	return m
}

// Canvas returns the figure canvas.
func (m *Manager) Canvas() *FigureCanvas {
	return m.canvas
}

// Num returns the figure number.
func (m *Manager) Num() int {
	return m.num
}

// Show draws the figure and displays it.
func (m *Manager) Show(ctx context.Context) error {
	return m.canvas.Show(ctx)
}

// Destroy releases the resources of the figure.
func (m *Manager) Destroy() {
	m.canvas.Destroy()
}

// Resize does nothing.
func (m *Manager) Resize(width, height float64) {}

// SetWindowTitle sets the window title.
func (m *Manager) SetWindowTitle(title string) {
	m.canvas.SetWindowTitle(title)
}
