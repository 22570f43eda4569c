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
	"errors"
	"runtime"
	"strconv"
)

var (
	// ErrArchMismatch reports a library built for a different architecture
	// or word size than the running process.
	ErrArchMismatch = errors.New("library architecture does not match this process")

	// ErrNotLibrary reports a file that is not a loadable image at all.
	ErrNotLibrary = errors.New("file is not a loadable library image")
)

// Loader checks whether a library image can be loaded into this process.
// A successful probe must leave nothing loaded.
type Loader interface {
	Probe(path string) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) error

func (f LoaderFunc) Probe(path string) error {
	return f(path)
}

// Platform describes where an execution engine is conventionally installed
// on one operating system.
type Platform struct {
	// LibraryName is the engine library file name, also used as the final
	// fallback so the OS loader can apply its own search rules.
	LibraryName string
	// LauncherName is the engine's command line launcher.
	LauncherName string
	// HomeVariable names the environment variable holding the install root.
	HomeVariable string
	// PathVariable names the executable search path variable.
	PathVariable string
	// ListSeparator splits PathVariable into directories.
	ListSeparator string
	// HomeDirs are library directories relative to the install root.
	HomeDirs []string
	// LauncherDirs are library directories relative to the directory
	// holding the launcher.
	LauncherDirs []string
}

// archDir is the directory name legacy JRE layouts use under jre/lib.
func archDir() string {
	switch runtime.GOARCH {
	case "386":
		return "i386"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}

// bitness returns the pointer width of this process, used in log messages.
func bitness() string {
	return strconv.Itoa(strconv.IntSize) + "-bit"
}
