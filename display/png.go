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

package display

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"seehuhn.de/go/figcanvas/internal/logging"
)

// ErrNoBitmap is returned by [PNGWriter] for bundles without an image
// bitmap payload.
var ErrNoBitmap = errors.New("display: bundle has no image bitmap")

// PNGWriter is a channel which writes every figure it receives to a PNG
// file in Dir.  Files are named after the figure title and a sequence
// number, for example "Figure_1-003.png".
type PNGWriter struct {
	Dir string

	mu  sync.Mutex
	seq int
}

// Display implements [Channel].
func (w *PNGWriter) Display(ctx context.Context, b Bundle, md Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bm := Bitmap(b)
	if bm == nil {
		return ErrNoBitmap
	}
	img, err := bm.Image()
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.mu.Lock()
	w.seq++
	name := fmt.Sprintf("%s-%03d.png", fileStem(md.Title()), w.seq)
	w.mu.Unlock()

	fname := filepath.Join(w.Dir, name)
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = png.Encode(fd, img)
	if err != nil {
		fd.Close()
		return err
	}
	err = fd.Close()
	if err != nil {
		return err
	}
	logging.Logger().Debug("figure written", "file", fname)
	return nil
}

// fileStem turns a title into something usable as part of a file name.
func fileStem(title string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, strings.TrimSpace(title))
	if stem == "" {
		stem = "figure"
	}
	return stem
}
