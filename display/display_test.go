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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/figcanvas/canvas"
)

func redBitmap(t *testing.T) *canvas.ImageBitmap {
	t.Helper()
	c, err := canvas.New(3, 2)
	require.NoError(t, err)
	ctx := c.Context2D()
	ctx.SetFillStyle("red")
	ctx.FillRect(0, 0, 3, 2)
	return c.TransferToImageBitmap()
}

func TestMetadataTitle(t *testing.T) {
	assert.Equal(t, "Figure 2", Metadata{"title": "Figure 2"}.Title())
	assert.Equal(t, "", Metadata{"title": 7}.Title())
	assert.Equal(t, "", Metadata(nil).Title())
}

func TestChannelFunc(t *testing.T) {
	var got Metadata
	var ch Channel = ChannelFunc(func(ctx context.Context, b Bundle, md Metadata) error {
		got = md
		return nil
	})
	require.NoError(t, ch.Display(context.Background(), Bundle{}, Metadata{"title": "x"}))
	assert.Equal(t, "x", got.Title())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	bm := redBitmap(t)
	require.NoError(t, r.Display(context.Background(), Bundle{MimeImageBitmap: bm}, Metadata{"title": "one"}))

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Same(t, bm, Bitmap(entries[0].Bundle))
	assert.Equal(t, "one", entries[0].Metadata.Title())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Display(ctx, Bundle{}, nil), context.Canceled)
	assert.Len(t, r.Entries(), 1)
}

func TestPNGWriter(t *testing.T) {
	dir := t.TempDir()
	w := &PNGWriter{Dir: dir}
	ctx := context.Background()

	require.NoError(t, w.Display(ctx, Bundle{MimeImageBitmap: redBitmap(t)}, Metadata{"title": "Figure 1"}))
	require.NoError(t, w.Display(ctx, Bundle{MimeImageBitmap: redBitmap(t)}, nil))

	fd, err := os.Open(filepath.Join(dir, "Figure_1-001.png"))
	require.NoError(t, err)
	defer fd.Close()
	img, err := png.Decode(fd)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})

	_, err = os.Stat(filepath.Join(dir, "figure-002.png"))
	assert.NoError(t, err)
}

func TestPNGWriterErrors(t *testing.T) {
	w := &PNGWriter{Dir: t.TempDir()}
	ctx := context.Background()

	err := w.Display(ctx, Bundle{"text/plain": "hello"}, nil)
	assert.ErrorIs(t, err, ErrNoBitmap)

	bm := redBitmap(t)
	bm.Close()
	err = w.Display(ctx, Bundle{MimeImageBitmap: bm}, nil)
	assert.ErrorIs(t, err, canvas.ErrClosed)

	w.Dir = filepath.Join(w.Dir, "missing")
	err = w.Display(ctx, Bundle{MimeImageBitmap: redBitmap(t)}, nil)
	assert.Error(t, err)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "Figure_1", fileStem("Figure 1"))
	assert.Equal(t, "a_b-c", fileStem(" a/b-c "))
	assert.Equal(t, "figure", fileStem(""))
}
