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

package settingsstore

import (
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/enginehost/config"
)

// OverlayFileEnv names the variable pointing at an optional YAML overlay,
// consulted after the main settings file and environment.
const OverlayFileEnv = "ENGINEHOST_SETTINGS_OVERLAY"

// Options selects the persisted backings opened by Open.
type Options struct {
	// ConfigFile is an explicit settings file for viper; empty searches
	// the default locations.
	ConfigFile string
	// OverlayFile is a YAML document (or "env:NAME") consulted after
	// viper. Empty uses $ENGINEHOST_SETTINGS_OVERLAY when set.
	OverlayFile string
	// SkipNative leaves out platform stores such as the registry.
	SkipNative bool
}

// Open builds the store chain: viper (environment and settings file), then
// the overlay file, then native platform stores. An explicitly named
// settings file that cannot be read fails Open. Any other backing that fails
// to open is reported, and the stores that did open are still returned.
// Callers close the returned chain.
func Open(opts Options) (Chain, error) {
	var errs *multierror.Error
	var chain Chain

	v, err := config.Load(opts.ConfigFile)
	if err != nil {
		if opts.ConfigFile != "" {
			return nil, err
		}
		errs = multierror.Append(errs, err)
	} else {
		chain = append(chain, NewViperStore(v))
	}

	overlay := opts.OverlayFile
	if overlay == "" {
		overlay = os.Getenv(OverlayFileEnv)
	}
	if overlay != "" {
		fs, err := NewFileStore(overlay)
		if err != nil {
			errs = multierror.Append(errs, err)
		} else {
			slog.Debug("Using settings overlay", slog.String("path", overlay), slog.Int("settings", fs.Len()))
			chain = append(chain, fs)
		}
	}

	if !opts.SkipNative {
		native, err := nativeStores()
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		chain = append(chain, native...)
	}

	return chain, errs.ErrorOrNil()
}
