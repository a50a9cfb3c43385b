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

// Package fonts resolves font descriptors to font files and provides
// shaped text metrics for them.
//
// A [Cache] maps font descriptors ([Properties]) to [Handle] values, using
// a [Resolver] to locate and load the underlying font files.  Handles are
// mutable and measure one string at a time.
package fonts

import (
	"fmt"
	"strconv"
	"strings"
)

// Style is the slant of a font.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle converts a style name into a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "normal", "":
		return StyleNormal, nil
	case "italic":
		return StyleItalic, nil
	case "oblique":
		return StyleOblique, nil
	}
	return 0, fmt.Errorf("fonts: unknown font style %q", s)
}

// Standard font weights.
const (
	WeightNormal = 400
	WeightBold   = 700
)

var weightNames = map[string]int{
	"ultralight": 100,
	"light":      200,
	"normal":     400,
	"regular":    400,
	"book":       400,
	"medium":     500,
	"roman":      500,
	"semibold":   600,
	"demibold":   600,
	"demi":       600,
	"bold":       700,
	"heavy":      800,
	"extra bold": 800,
	"black":      900,
}

// ParseWeight converts a weight name or a number in the range 1 to 1000
// into a numeric font weight.
func ParseWeight(s string) (int, error) {
	if w, ok := weightNames[strings.ToLower(s)]; ok {
		return w, nil
	}
	w, err := strconv.Atoi(s)
	if err != nil || w < 1 || w > 1000 {
		return 0, fmt.Errorf("fonts: unknown font weight %q", s)
	}
	return w, nil
}

// Properties describes a font configuration.  Two descriptors with equal
// fields denote the same font, so Properties can be used as a map key.
type Properties struct {
	// Family is the font family name, or one of the generic families
	// "serif", "sans-serif" and "monospace".
	Family string

	Style Style

	// Weight is the numeric font weight, where 400 is normal and
	// 700 is bold.  The zero value is treated as normal.
	Weight int

	// Size is the font size in points.
	Size float64
}

// WeightName returns the weight in the form used by CSS font strings.
func (p Properties) WeightName() string {
	switch p.Weight {
	case 0, WeightNormal:
		return "normal"
	case WeightBold:
		return "bold"
	}
	return strconv.Itoa(p.Weight)
}

func (p Properties) bold() bool {
	return p.Weight >= 600
}

func (p Properties) String() string {
	return fmt.Sprintf("%s %s %s %gpt", p.Style, p.WeightName(), p.Family, p.Size)
}
