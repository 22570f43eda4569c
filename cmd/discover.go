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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/enginehost/internal/servicesettings"
)

func init() {
	DiscoverCmd.AddCommand(discoverJvmCmd, discoverJarCmd)
	rootCmd.AddCommand(DiscoverCmd)
}

var DiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the discovery heuristics, ignoring persisted settings",
}

var discoverJvmCmd = &cobra.Command{
	Use:   "jvm",
	Short: "Locate the JVM library from JAVA_HOME, the search path and the module directory",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, _ []string) error {
		d := s.Discoverer()
		lib := d.JvmLibrary(cmd.Context())
		if lib == d.Platform().LibraryName {
			slog.Info("No JVM library found, leaving the search to the system loader",
				slog.String("homeVariable", d.Platform().HomeVariable),
				slog.String("library", lib))
		} else if err := d.ValidateLibrary(lib); err != nil {
			slog.Warn("Discovered JVM library is not loadable", slog.String("path", lib), slog.Any("error", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), lib)
		return nil
	}),
}

var discoverJarCmd = &cobra.Command{
	Use:   "jar",
	Short: "Locate the directory holding the client resource bundle",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, _ []string) error {
		d := s.Discoverer()
		dir := d.JarPath(cmd.Context())
		if err := d.CheckJarPath(dir); err != nil {
			slog.Warn("Discovered jar path has no client library",
				slog.String("path", dir),
				slog.String("marker", d.MarkerFile()),
				slog.Any("error", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	}),
}
