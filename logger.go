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
	"log/slog"

	"seehuhn.de/go/figcanvas/internal/logging"
)

// SetLogger installs the logger used by all packages of this module.
// By default nothing is logged; passing nil restores this.
//
// Figure lifecycle events and font cache activity are logged at debug
// level.  Ignored style values and failed cleanups are logged as
// warnings.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the logger used by this module.
func Logger() *slog.Logger {
	return logging.Logger()
}
