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
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"seehuhn.de/go/figcanvas/internal/logging"
)

// DefaultCacheSize is the default number of entries kept on each level of
// a [Cache].
const DefaultCacheSize = 50

// Cache maps font descriptors to font handles.
//
// The first level is keyed by the descriptor.  On a miss, the descriptor
// is resolved to a file identifier, which is the key of the second level;
// descriptors resolving to the same file share one handle, and the file is
// loaded only once.  Both levels evict the least recently used entry when
// full.  Evicted handles stay usable by callers which still hold them.
//
// Handles are shared between callers and must only be used by one
// caller at a time.
type Cache struct {
	resolver Resolver
	byProps  *lru.Cache[Properties, *Handle]
	byFile   *lru.Cache[string, *Handle]

	stats Stats
}

// Stats counts the work done by a [Cache].
type Stats struct {
	Hits     int // lookups answered by the first level
	Resolves int // calls to Resolver.Find
	Loads    int // calls to Resolver.Load
}

// NewCache returns a cache holding up to size entries on each level.
func NewCache(r Resolver, size int) (*Cache, error) {
	if r == nil {
		r = GoFonts{}
	}
	byProps, err := lru.NewWithEvict(size, func(p Properties, _ *Handle) {
		logging.Logger().Debug("font cache eviction", "font", p.String())
	})
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	byFile, err := lru.New[string, *Handle](size)
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	return &Cache{
		resolver: r,
		byProps:  byProps,
		byFile:   byFile,
	}, nil
}

// Get returns the handle for p, with the shaping state cleared and the size
// set to p.Size points at the given resolution.
func (c *Cache) Get(p Properties, dpi float64) (*Handle, error) {
	h, ok := c.byProps.Get(p)
	if ok {
		c.stats.Hits++
	} else {
		var err error
		h, err = c.load(p)
		if err != nil {
			return nil, err
		}
		c.byProps.Add(p, h)
	}

	h.Clear()
	h.SetSize(p.Size, dpi)
	return h, nil
}

func (c *Cache) load(p Properties) (*Handle, error) {
	id, err := c.resolver.Find(p)
	c.stats.Resolves++
	if err != nil {
		return nil, fmt.Errorf("fonts: resolving %s: %w", p, err)
	}
	if h, ok := c.byFile.Get(id); ok {
		return h, nil
	}

	logging.Logger().Debug("loading font", "font", p.String(), "file", id)
	data, err := c.resolver.Load(id)
	c.stats.Loads++
	if err != nil {
		return nil, fmt.Errorf("fonts: loading %s: %w", id, err)
	}
	h, err := NewHandle(id, data)
	if err != nil {
		return nil, err
	}
	c.byFile.Add(id, h)
	return h, nil
}

// Len returns the number of descriptors in the cache.
func (c *Cache) Len() int {
	return c.byProps.Len()
}

// Stats returns the counters of the cache.
func (c *Cache) Stats() Stats {
	return c.stats
}
