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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSColor(t *testing.T) {
	tests := []struct {
		name      string
		c         Color
		alpha     Alpha
		overrides bool
		want      string
	}{
		{"opaque hex", RGB(1, 0, 0), Alpha{}, false, "#ff0000"},
		{"hex rounds half to even", RGB(0.5, 0.5, 0.5), Alpha{}, false, "#808080"},
		{"hex clamps", RGB(-0.5, 2, 0), Alpha{}, false, "#00ff00"},
		{"explicit alpha", RGB(1, 0, 0), Opacity(0.5), false, "rgba(255, 0, 0, 0.5)"},
		{"rgba truncates", RGB(0.5, 0.5, 0.5), Opacity(1), false, "rgba(127, 127, 127, 1)"},
		{"colour alpha", RGBA(0, 0, 1, 0.25), Alpha{}, false, "rgba(0, 0, 255, 0.25)"},
		{"colour alpha wins", RGBA(0, 0, 1, 0.25), Opacity(0.5), false, "rgba(0, 0, 255, 0.25)"},
		{"override wins", RGBA(0, 0, 1, 0.25), Opacity(0.5), true, "rgba(0, 0, 255, 0.5)"},
		{"three digits", RGB(0, 0, 0), Opacity(1.0 / 3), false, "rgba(0, 0, 0, 0.333)"},
		{"zero alpha", RGBA(1, 1, 1, 0), Alpha{}, false, "rgba(255, 255, 255, 0)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CSSColor(tc.c, tc.alpha, tc.overrides))
		})
	}
}

func TestAlphaValue(t *testing.T) {
	_, ok := Alpha{}.Value()
	assert.False(t, ok)

	a, ok := Opacity(0).Value()
	assert.True(t, ok)
	assert.Equal(t, 0.0, a)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("tab:blue")
	require.NoError(t, err)
	assert.False(t, c.HasAlpha)
	assert.Equal(t, "#1f77b4", CSSColor(c, Alpha{}, false))

	c, err = ParseColor("#ff000080")
	require.NoError(t, err)
	assert.True(t, c.HasAlpha)
	assert.InDelta(t, 128.0/255, c.A, 1e-9)

	c, err = ParseColor("darkgreen")
	require.NoError(t, err)
	assert.Equal(t, "#006400", CSSColor(c, Alpha{}, false))

	_, err = ParseColor("no-such-colour")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "colour", verr.Field)
}
