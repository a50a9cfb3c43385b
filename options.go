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
	"seehuhn.de/go/figcanvas/display"
	"seehuhn.de/go/figcanvas/fonts"
)

// DefaultRatio is the number of device pixels per logical pixel.
const DefaultRatio = 2

// Option configures a [FigureCanvas] or a [Renderer].
type Option func(*config)

type config struct {
	ratio     float64
	fontCache *fonts.Cache
	resolver  fonts.Resolver
	cacheSize int
	math      MathRenderer
	display   display.Channel
	title     string
}

func newConfig(opts []Option) config {
	cfg := config{
		ratio:     DefaultRatio,
		cacheSize: fonts.DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// fonts returns the configured font cache, or a new one.
func (cfg *config) fonts() (*fonts.Cache, error) {
	if cfg.fontCache != nil {
		return cfg.fontCache, nil
	}
	return fonts.NewCache(cfg.resolver, cfg.cacheSize)
}

// WithRatio sets the number of device pixels per logical pixel.  The
// default is [DefaultRatio].
func WithRatio(ratio float64) Option {
	return func(c *config) {
		c.ratio = ratio
	}
}

// WithFontCache sets the font cache used for text.  Sharing one cache
// between figures avoids loading the same fonts repeatedly.
func WithFontCache(fc *fonts.Cache) Option {
	return func(c *config) {
		c.fontCache = fc
	}
}

// WithFontResolver sets the resolver for a new font cache.  It has no
// effect together with [WithFontCache].
func WithFontResolver(r fonts.Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithFontCacheSize sets the capacity of a new font cache.  It has no
// effect together with [WithFontCache].
func WithFontCacheSize(size int) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}

// WithMathRenderer sets the renderer used for math text.
func WithMathRenderer(m MathRenderer) Option {
	return func(c *config) {
		c.math = m
	}
}

// WithDisplay sets the channel which receives the rendered figures.
func WithDisplay(ch display.Channel) Option {
	return func(c *config) {
		c.display = ch
	}
}

// WithTitle sets the initial window title of a figure.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}
