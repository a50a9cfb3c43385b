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
	"seehuhn.de/go/figcanvas/canvas"
	"seehuhn.de/go/figcanvas/display"
)

// RichOutput is a rendered figure, ready to be handed to a display
// channel.
type RichOutput struct {
	Bitmap *canvas.ImageBitmap
	Title  string
}

// MimeBundle returns the mime bundle and metadata for the figure.
func (o *RichOutput) MimeBundle() (display.Bundle, display.Metadata) {
	return display.Bundle{display.MimeImageBitmap: o.Bitmap},
		display.Metadata{"title": o.Title}
}
