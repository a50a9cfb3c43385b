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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"seehuhn.de/go/figcanvas/internal/logging"
)

// DirResolver finds fonts in a directory tree of TrueType and OpenType
// files.  Descriptors without a matching family are passed on to Fallback.
//
// The directory is scanned once, on first use.  Identifiers are file
// names relative to Dir, with forward slashes.
type DirResolver struct {
	Dir      string
	Fallback Resolver

	once    sync.Once
	scanErr error
	entries []dirEntry
	known   map[string]bool
}

type dirEntry struct {
	id     string
	family string // lower case
	bold   bool
	italic bool
}

// NewDirResolver returns a resolver for the font files below dir, which
// uses [GoFonts] for all families not found there.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{Dir: dir, Fallback: GoFonts{}}
}

func (d *DirResolver) scan() {
	d.known = make(map[string]bool)
	fsys := os.DirFS(d.Dir)
	d.scanErr = fs.WalkDir(fsys, ".", func(name string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(name))
		if de.IsDir() || (ext != ".ttf" && ext != ".otf") {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		f, err := opentype.Parse(data)
		if err != nil {
			logging.Logger().Warn("skipping unreadable font file", "file", name, "error", err)
			return nil
		}
		family, err := f.Name(nil, sfnt.NameIDTypographicFamily)
		if err != nil || family == "" {
			family, _ = f.Name(nil, sfnt.NameIDFamily)
		}
		sub, _ := f.Name(nil, sfnt.NameIDSubfamily)
		sub = strings.ToLower(sub)

		d.entries = append(d.entries, dirEntry{
			id:     name,
			family: strings.ToLower(family),
			bold:   strings.Contains(sub, "bold") || strings.Contains(sub, "black"),
			italic: strings.Contains(sub, "italic") || strings.Contains(sub, "oblique"),
		})
		d.known[name] = true
		return nil
	})
}

// Find implements [Resolver].  Among the files of the requested family,
// the one with the closest style and weight is chosen.
func (d *DirResolver) Find(p Properties) (string, error) {
	d.once.Do(d.scan)
	if d.scanErr != nil {
		return "", fmt.Errorf("fonts: scanning %s: %w", d.Dir, d.scanErr)
	}

	family := strings.ToLower(p.Family)
	best, bestScore := "", -1
	for _, e := range d.entries {
		if e.family != family {
			continue
		}
		score := 0
		if e.bold == p.bold() {
			score += 2
		}
		if e.italic == (p.Style != StyleNormal) {
			score++
		}
		if score > bestScore {
			best, bestScore = e.id, score
		}
	}
	if best != "" {
		return best, nil
	}

	if d.Fallback == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return d.Fallback.Find(p)
}

// Load implements [Resolver].
func (d *DirResolver) Load(id string) ([]byte, error) {
	d.once.Do(d.scan)
	if d.known[id] {
		return fs.ReadFile(os.DirFS(d.Dir), id)
	}
	if d.Fallback == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return d.Fallback.Load(id)
}
