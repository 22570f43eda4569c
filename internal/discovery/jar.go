// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cardinalhq/enginehost/internal/logctx"
)

// JarPath finds the directory holding the marker file by walking upward from
// the directory of the running module. The first ancestor containing the
// marker wins. This covers both flat deployments and build trees with
// per-configuration sub-folders. When nothing is found it returns ".".
func (d *Discoverer) JarPath(ctx context.Context) string {
	ctx = logctx.With(ctx, slog.String("discovery", "jar"))
	ll := logctx.FromContext(ctx)

	module, err := d.modulePath()
	if err != nil || module == "" {
		ll.Warn("Couldn't determine module path", slog.Any("error", err))
		return "."
	}
	ll.Debug("Module path", slog.String("path", module))

	if dir, ok := d.findMarker(ctx, filepath.Dir(module)); ok {
		ll.Info("Found path containing client library",
			slog.String("path", dir),
			slog.String("marker", d.markerFile))
		return dir
	}

	ll.Warn("Couldn't find client library on module path",
		slog.String("module", module),
		slog.String("marker", d.markerFile))
	return "."
}

func (d *Discoverer) findMarker(ctx context.Context, dir string) (string, bool) {
	ll := logctx.FromContext(ctx)

	for {
		ll.Debug("Testing path", slog.String("path", dir))
		candidate := filepath.Join(dir, d.markerFile)
		info, err := d.fs.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			recordProbe(ctx, kindMarker, outcomeFound)
			return dir, true
		case err == nil, isNotExist(err):
			recordProbe(ctx, kindMarker, outcomeMissing)
		default:
			recordProbe(ctx, kindMarker, outcomeError)
			ll.Warn("Couldn't scan for client library",
				slog.String("path", candidate),
				slog.Any("error", err))
			return "", false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// CheckJarPath reports whether dir holds the marker file.
func (d *Discoverer) CheckJarPath(dir string) error {
	candidate := filepath.Join(dir, d.markerFile)
	info, err := d.fs.Stat(candidate)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", candidate)
	}
	return nil
}
