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
)

// ErrNoMathRenderer is returned when math text is drawn or measured
// without a [MathRenderer].
var ErrNoMathRenderer = errors.New("figcanvas: no math renderer configured")

// ErrDestroyed is returned when a destroyed [FigureCanvas] is drawn.
var ErrDestroyed = errors.New("figcanvas: figure canvas destroyed")

// ValidationError reports a style value outside its enumeration.
type ValidationError struct {
	Field string // for example "cap style"
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("figcanvas: invalid %s %q", e.Field, e.Value)
}

// RenderingError reports a failure while drawing a whole figure.
type RenderingError struct {
	Err error
}

func (e *RenderingError) Error() string {
	return "figcanvas: rendering failed: " + e.Err.Error()
}

func (e *RenderingError) Unwrap() error {
	return e.Err
}

// ResourceError reports a failure to acquire or release a pixel buffer or
// a snapshot.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("figcanvas: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
