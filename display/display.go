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

// Package display defines the channel through which rendered figures are
// presented.
//
// A figure is handed over as a mime bundle, mapping mime types to
// payloads, together with a metadata map.  Rendered figures use the mime
// type [MimeImageBitmap] with a *canvas.ImageBitmap payload.  Ownership of
// the payload passes to the channel.
package display

import (
	"context"
	"sync"

	"seehuhn.de/go/figcanvas/canvas"
)

// MimeImageBitmap is the mime type of an image bitmap payload.
const MimeImageBitmap = "application/html-imagebitmap"

// Bundle maps mime types to payloads.
type Bundle map[string]any

// Metadata holds additional information about a displayed object.  The
// key "title" holds the title of the figure.
type Metadata map[string]any

// Title returns the title stored in md, or "" if there is none.
func (md Metadata) Title() string {
	title, _ := md["title"].(string)
	return title
}

// Channel presents mime bundles.
type Channel interface {
	Display(ctx context.Context, b Bundle, md Metadata) error
}

// ChannelFunc adapts a function to the [Channel] interface.
type ChannelFunc func(ctx context.Context, b Bundle, md Metadata) error

// Display implements [Channel].
func (f ChannelFunc) Display(ctx context.Context, b Bundle, md Metadata) error {
	return f(ctx, b, md)
}

// Bitmap returns the image bitmap payload of b, or nil if there is none.
func Bitmap(b Bundle) *canvas.ImageBitmap {
	bm, _ := b[MimeImageBitmap].(*canvas.ImageBitmap)
	return bm
}

// Entry is a bundle received by a [Recorder].
type Entry struct {
	Bundle   Bundle
	Metadata Metadata
}

// Recorder is a channel which keeps everything it is given.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Display implements [Channel].
func (r *Recorder) Display(ctx context.Context, b Bundle, md Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Bundle: b, Metadata: md})
	return nil
}

// Entries returns the recorded entries, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Entry, len(r.entries))
	copy(res, r.entries)
	return res
}
