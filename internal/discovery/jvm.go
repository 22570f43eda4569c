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
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"syscall"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cardinalhq/enginehost/internal/helpers"
	"github.com/cardinalhq/enginehost/internal/logctx"
)

type probeResult int

const (
	probeMiss probeResult = iota
	probeFound
	probeAbort
)

// JvmLibrary finds an engine library loadable by this process. It tries the
// install root named by the home variable, then every directory on the
// search path holding the launcher, and finally falls back to the bare
// platform library name.
func (d *Discoverer) JvmLibrary(ctx context.Context) string {
	ctx = logctx.With(ctx, slog.String("discovery", "jvm"))
	ll := logctx.FromContext(ctx)

	path, res := d.libraryFromHome(ctx)
	if res == probeFound {
		return path
	}
	if res != probeAbort {
		path, res = d.libraryFromSearchPath(ctx)
		if res == probeFound {
			return path
		}
	}

	ll.Debug("No default JVM libraries found on home or search path",
		slog.String("homeVariable", d.platform.HomeVariable),
		slog.String("pathVariable", d.platform.PathVariable),
		slog.String("fallback", d.platform.LibraryName))
	return d.platform.LibraryName
}

func (d *Discoverer) libraryFromHome(ctx context.Context) (string, probeResult) {
	ll := logctx.FromContext(ctx)

	home, ok := helpers.LookupEnvBounded(d.env, d.platform.HomeVariable)
	if !ok {
		ll.Debug("Home variable not set", slog.String("variable", d.platform.HomeVariable))
		return "", probeMiss
	}

	for _, dir := range d.platform.HomeDirs {
		candidate := filepath.Join(home, dir, d.platform.LibraryName)
		switch d.probeLibrary(ctx, candidate, kindHome) {
		case probeFound:
			ll.Info("Default JVM library found from home variable",
				slog.String("path", candidate),
				slog.String("variable", d.platform.HomeVariable))
			return candidate, probeFound
		case probeAbort:
			return "", probeAbort
		}
	}

	ll.Warn("Home variable set but no loadable library found beneath it",
		slog.String("variable", d.platform.HomeVariable),
		slog.String("home", home),
		slog.Any("dirs", d.platform.HomeDirs))
	return "", probeMiss
}

func (d *Discoverer) libraryFromSearchPath(ctx context.Context) (string, probeResult) {
	ll := logctx.FromContext(ctx)

	searchPath, ok := helpers.LookupEnvBounded(d.env, d.platform.PathVariable)
	if !ok {
		ll.Debug("Search path not set", slog.String("variable", d.platform.PathVariable))
		return "", probeMiss
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, dir := range strings.Split(searchPath, d.platform.ListSeparator) {
		dir = strings.Trim(strings.TrimSpace(dir), `"`)
		if dir == "" || !seen.Add(dir) {
			continue
		}

		launcher := filepath.Join(dir, d.platform.LauncherName)
		ll.Debug("Looking for launcher", slog.String("path", launcher))
		switch d.statCandidate(ctx, launcher, kindLauncher) {
		case probeMiss:
			continue
		case probeAbort:
			return "", probeAbort
		}
		ll.Debug("Launcher found on search path", slog.String("path", launcher))

		binDir := d.launcherDir(ctx, launcher)
		for _, rel := range d.platform.LauncherDirs {
			candidate := filepath.Join(binDir, rel, d.platform.LibraryName)
			switch d.probeLibrary(ctx, candidate, kindPath) {
			case probeFound:
				ll.Info("Default JVM library found from search path",
					slog.String("path", candidate),
					slog.String("launcher", launcher))
				return candidate, probeFound
			case probeAbort:
				return "", probeAbort
			}
		}
		ll.Info("Launcher found but no loadable library next to it",
			slog.String("launcher", launcher),
			slog.Any("dirs", d.platform.LauncherDirs))
	}
	return "", probeMiss
}

// launcherDir returns the directory holding the launcher after resolving
// symlinks such as /usr/bin/java -> /usr/lib/jvm/.../bin/java.
func (d *Discoverer) launcherDir(ctx context.Context, launcher string) string {
	dir := filepath.Dir(launcher)
	if d.evalSymlinks == nil {
		return dir
	}
	resolved, err := d.evalSymlinks(launcher)
	if err != nil {
		logctx.FromContext(ctx).Debug("Cannot resolve launcher symlinks",
			slog.String("path", launcher),
			slog.Any("error", err))
		return dir
	}
	if resolvedDir := filepath.Dir(resolved); resolvedDir != dir {
		logctx.FromContext(ctx).Debug("Launcher resolves to another directory",
			slog.String("path", launcher),
			slog.String("resolved", resolved))
		return resolvedDir
	}
	return dir
}

// statCandidate reports whether path exists as a regular file. Errors other
// than not-found abort the current heuristic.
func (d *Discoverer) statCandidate(ctx context.Context, path, kind string) probeResult {
	ll := logctx.FromContext(ctx)

	info, err := d.fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			recordProbe(ctx, kind, outcomeMissing)
			return probeMiss
		}
		recordProbe(ctx, kind, outcomeError)
		ll.Warn("Couldn't check candidate, abandoning search",
			slog.String("path", path),
			slog.Any("error", err))
		return probeAbort
	}
	if info.IsDir() {
		recordProbe(ctx, kind, outcomeMissing)
		return probeMiss
	}
	return probeFound
}

// isNotExist also treats a non-directory path prefix, such as a search path
// entry naming a file, as absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// probeLibrary checks that path exists and test-loads it.
func (d *Discoverer) probeLibrary(ctx context.Context, path, kind string) probeResult {
	ll := logctx.FromContext(ctx)
	ll.Debug("Looking for library", slog.String("path", path))

	if res := d.statCandidate(ctx, path, kind); res != probeFound {
		return res
	}

	err := d.loader.Probe(path)
	switch {
	case err == nil:
		recordProbe(ctx, kind, outcomeFound)
		return probeFound
	case errors.Is(err, ErrArchMismatch):
		recordProbe(ctx, kind, outcomeMismatch)
		ll.Warn("Found library but it is not a "+bitness()+" module for this process",
			slog.String("path", path),
			slog.Any("error", err))
	default:
		recordProbe(ctx, kind, outcomeUnloadable)
		ll.Warn("Found library but couldn't load it",
			slog.String("path", path),
			slog.Any("error", err))
	}
	return probeMiss
}

// ValidateLibrary test-loads an explicitly configured library. A bare file
// name is left to the OS loader and not checked.
func (d *Discoverer) ValidateLibrary(path string) error {
	if path == "" {
		return errors.New("library path is empty")
	}
	if filepath.Base(path) == path {
		return nil
	}
	if _, err := d.fs.Stat(path); err != nil {
		return err
	}
	return d.loader.Probe(path)
}
