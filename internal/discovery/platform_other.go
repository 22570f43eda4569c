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

//go:build !windows

package discovery

import "runtime"

// DefaultPlatform returns the install conventions for Unix-like systems.
func DefaultPlatform() *Platform {
	library := "libjvm.so"
	if runtime.GOOS == "darwin" {
		library = "libjvm.dylib"
	}
	arch := archDir()
	return &Platform{
		LibraryName:   library,
		LauncherName:  "java",
		HomeVariable:  "JAVA_HOME",
		PathVariable:  "PATH",
		ListSeparator: ":",
		HomeDirs: []string{
			"lib/server",
			"lib/client",
			"jre/lib/" + arch + "/server",
			"jre/lib/" + arch + "/client",
		},
		LauncherDirs: []string{
			"../lib/server",
			"../lib/client",
			"../jre/lib/" + arch + "/server",
			"../jre/lib/" + arch + "/client",
		},
	}
}
