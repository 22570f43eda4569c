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

// Package discovery locates an execution engine library and the client
// resource bundle when no explicit configuration names them.
package discovery

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/cardinalhq/enginehost/internal/helpers"
)

// DefaultMarkerFile is the resource bundle whose directory JarPath finds.
const DefaultMarkerFile = "client.jar"

// Options configures a Discoverer. Zero fields take the defaults for the
// running process.
type Options struct {
	Fs           afero.Fs
	Env          helpers.Environment
	Platform     *Platform
	Loader       Loader
	ModulePath   func() (string, error)
	EvalSymlinks func(string) (string, error)
	MarkerFile   string
}

// Discoverer runs the discovery heuristics. It does not memoise results;
// callers wrap each heuristic in a settings.Computed to run it once.
type Discoverer struct {
	fs           afero.Fs
	env          helpers.Environment
	platform     *Platform
	loader       Loader
	modulePath   func() (string, error)
	evalSymlinks func(string) (string, error)
	markerFile   string
}

func New(opts Options) *Discoverer {
	d := &Discoverer{
		fs:           opts.Fs,
		env:          opts.Env,
		platform:     opts.Platform,
		loader:       opts.Loader,
		modulePath:   opts.ModulePath,
		evalSymlinks: opts.EvalSymlinks,
		markerFile:   opts.MarkerFile,
	}
	if d.fs == nil {
		d.fs = afero.NewOsFs()
		if d.evalSymlinks == nil {
			d.evalSymlinks = filepath.EvalSymlinks
		}
	}
	if d.env == nil {
		d.env = helpers.OSEnvironment{}
	}
	if d.platform == nil {
		d.platform = DefaultPlatform()
	}
	if d.loader == nil {
		d.loader = NewLoader()
	}
	if d.modulePath == nil {
		d.modulePath = os.Executable
	}
	if d.markerFile == "" {
		d.markerFile = DefaultMarkerFile
	}
	return d
}

// Platform returns the install conventions in use.
func (d *Discoverer) Platform() *Platform {
	return d.platform
}

// MarkerFile returns the file name JarPath searches for.
func (d *Discoverer) MarkerFile() string {
	return d.markerFile
}
