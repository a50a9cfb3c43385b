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
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"seehuhn.de/go/figcanvas/fonts"
)

var errSyntax = errors.New("invalid syntax")

// ParseColor parses a CSS colour value.  Supported forms are hex colours
// (#rgb, #rgba, #rrggbb, #rrggbbaa), the functional forms rgb() and
// rgba(), the keyword "transparent" and the CSS named colours.
func ParseColor(s string) (color.NRGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	switch {
	case str == "":
		// not a colour
	case str == "transparent":
		return color.NRGBA{}, nil
	case str[0] == '#':
		if c, ok := parseHex(str[1:]); ok {
			return c, nil
		}
	case strings.HasPrefix(str, "rgb(") || strings.HasPrefix(str, "rgba("):
		if c, ok := parseRGBFunc(str); ok {
			return c, nil
		}
	default:
		if c, ok := colornames.Map[str]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
	}
	return color.NRGBA{}, fmt.Errorf("canvas: colour %q: %w", s, errSyntax)
}

func parseHex(hex string) (color.NRGBA, bool) {
	var digits [8]uint8
	for i := range len(hex) {
		if i >= len(digits) {
			return color.NRGBA{}, false
		}
		d, ok := hexDigit(hex[i])
		if !ok {
			return color.NRGBA{}, false
		}
		digits[i] = d
	}

	switch len(hex) {
	case 3, 4:
		c := color.NRGBA{R: digits[0] * 17, G: digits[1] * 17, B: digits[2] * 17, A: 255}
		if len(hex) == 4 {
			c.A = digits[3] * 17
		}
		return c, true
	case 6, 8:
		c := color.NRGBA{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: 255,
		}
		if len(hex) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
		return c, true
	}
	return color.NRGBA{}, false
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

// parseRGBFunc parses "rgb(r, g, b)" and "rgba(r, g, b, a)".  Both names
// accept an optional alpha value, as in CSS Color Level 4.
func parseRGBFunc(s string) (color.NRGBA, bool) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, false
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, false
	}

	var ch [4]uint8
	ch[3] = 255
	for i, arg := range args {
		arg = strings.TrimSpace(arg)

		pct, isPct := strings.CutSuffix(arg, "%")
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || math.IsNaN(v) {
			return color.NRGBA{}, false
		}
		// channels range over 0-255, alpha over 0-1
		switch {
		case isPct:
			v = v / 100 * 255
		case i == 3:
			v *= 255
		}
		ch[i] = uint8(math.Round(min(max(v, 0), 255)))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
}

// fontSpec is a parsed CSS font shorthand.
type fontSpec struct {
	style    fonts.Style
	weight   int
	px       float64
	families []string
}

// parseFont parses a CSS font shorthand like "italic bold 12px Go, serif".
// The size is mandatory and must be given in px or pt.  A line height
// after the size is accepted and ignored.
func parseFont(s string) (*fontSpec, error) {
	spec := &fontSpec{weight: fonts.WeightNormal}

	rest := strings.TrimSpace(s)
	for {
		tok, tail, _ := strings.Cut(rest, " ")
		rest = strings.TrimSpace(tail)
		if tok == "" {
			return nil, fmt.Errorf("canvas: font %q: missing size: %w", s, errSyntax)
		}

		lower := strings.ToLower(tok)
		if lower == "normal" || lower == "small-caps" {
			continue
		}
		if st, err := fonts.ParseStyle(lower); err == nil {
			spec.style = st
			continue
		}
		if w, err := fonts.ParseWeight(lower); err == nil {
			spec.weight = w
			continue
		}

		px, ok := parseFontSize(lower)
		if !ok {
			return nil, fmt.Errorf("canvas: font %q: unexpected %q: %w", s, tok, errSyntax)
		}
		spec.px = px
		break
	}

	for _, fam := range strings.Split(rest, ",") {
		fam = strings.Trim(strings.TrimSpace(fam), `"'`)
		if fam != "" {
			spec.families = append(spec.families, fam)
		}
	}
	if len(spec.families) == 0 {
		return nil, fmt.Errorf("canvas: font %q: missing family: %w", s, errSyntax)
	}
	return spec, nil
}

func parseFontSize(tok string) (float64, bool) {
	tok, _, _ = strings.Cut(tok, "/")
	factor := 1.0
	switch {
	case strings.HasSuffix(tok, "px"):
		tok = tok[:len(tok)-2]
	case strings.HasSuffix(tok, "pt"):
		tok = tok[:len(tok)-2]
		factor = 96.0 / 72.0
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || !(v > 0) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * factor, true
}
