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

package fonts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrNotFound is returned by a Resolver if no font matches a descriptor or
// an identifier.
var ErrNotFound = errors.New("fonts: font not found")

// Resolver locates font files.  Find maps a descriptor to a short file
// identifier and Load returns the contents of the identified file.
// Different descriptors may map to the same identifier.
type Resolver interface {
	Find(p Properties) (id string, err error)
	Load(id string) ([]byte, error)
}

// GoFonts resolves every descriptor to one of the Go fonts bundled with
// golang.org/x/image.  Monospace families map to Go Mono, everything else
// to the proportional Go fonts.
type GoFonts struct{}

var goFontData = map[string][]byte{
	"Go-Regular.ttf":          goregular.TTF,
	"Go-Bold.ttf":             gobold.TTF,
	"Go-Italic.ttf":           goitalic.TTF,
	"Go-Bold-Italic.ttf":      gobolditalic.TTF,
	"Go-Medium.ttf":           gomedium.TTF,
	"Go-Medium-Italic.ttf":    gomediumitalic.TTF,
	"Go-Mono.ttf":             gomono.TTF,
	"Go-Mono-Bold.ttf":        gomonobold.TTF,
	"Go-Mono-Italic.ttf":      gomonoitalic.TTF,
	"Go-Mono-Bold-Italic.ttf": gomonobolditalic.TTF,
}

// Find implements [Resolver].
func (GoFonts) Find(p Properties) (string, error) {
	name := "Go"
	mono := isMonospace(p.Family)
	if mono {
		name += "-Mono"
	}

	italic := p.Style != StyleNormal
	switch {
	case p.bold():
		name += "-Bold"
	case p.Weight >= 500 && !mono:
		name += "-Medium"
	case !italic && !mono:
		name += "-Regular"
	}
	if italic {
		name += "-Italic"
	}
	return name + ".ttf", nil
}

// Load implements [Resolver].
func (GoFonts) Load(id string) ([]byte, error) {
	data, ok := goFontData[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return data, nil
}

func isMonospace(family string) bool {
	f := strings.ToLower(family)
	return f == "monospace" || strings.Contains(f, "mono") ||
		strings.Contains(f, "courier") || strings.Contains(f, "typewriter")
}
