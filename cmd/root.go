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

package cmd

import (
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/cardinalhq/enginehost/internal/servicesettings"
	"github.com/cardinalhq/enginehost/internal/settingsstore"
)

var (
	configFile  string
	overlayFile string
	skipNative  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "enginehost",
	Short: "Configure and locate the embedded execution engine",
	Long: `Resolve the settings used to start the embedded JVM: connection pipe,
timeouts, the engine library and the client resource bundle. Values come from
the settings file, ENGINEHOST_* environment variables, the Windows registry, or
are discovered from JAVA_HOME, PATH and the install layout.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the settings file (default: search for enginehost.yaml)")
	rootCmd.PersistentFlags().StringVar(&overlayFile, "overlay", "", "YAML settings overlay file, or env:NAME to read it from a variable")
	rootCmd.PersistentFlags().BoolVar(&skipNative, "skip-native", false, "Do not consult platform stores such as the registry")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openSettings opens the persisted stores, configures logging from the
// resolved log configuration and returns the service settings. An explicit
// --config file that cannot be read is an error; other stores that fail to
// open are logged and skipped. The returned function closes the stores and
// flushes telemetry.
func openSettings() (*servicesettings.Settings, func() error, error) {
	store, storeErr := settingsstore.Open(settingsstore.Options{
		ConfigFile:  configFile,
		OverlayFile: overlayFile,
		SkipNative:  skipNative,
	})
	if storeErr != nil && configFile != "" && store == nil {
		return nil, nil, storeErr
	}

	s := servicesettings.New(store, nil)

	logConfig, _ := s.LogConfiguration()
	shutdownTelemetry, err := setupTelemetry(s.ServiceName(), logConfig)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if storeErr != nil {
		slog.Warn("Some settings stores could not be opened", slog.Any("error", storeErr))
	}
	if loc, ok := s.Location(); ok {
		slog.Debug("Settings location", slog.String("location", loc))
	}

	shutdown := func() error {
		var errs *multierror.Error
		if err := store.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := shutdownTelemetry(); err != nil {
			errs = multierror.Append(errs, err)
		}
		return errs.ErrorOrNil()
	}
	return s, shutdown, nil
}
