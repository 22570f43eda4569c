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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/enginehost/internal/servicesettings"
)

var showUnset bool

func init() {
	settingsShowCmd.Flags().BoolVar(&showUnset, "all", false, "Also list settings that have no value")

	SettingsCmd.AddCommand(settingsShowCmd, settingsGetCmd, settingsLocationCmd, settingsValidateCmd)
	rootCmd.AddCommand(SettingsCmd)
}

var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect the resolved engine host settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every resolved setting",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, setting := range s.Snapshot() {
			if !setting.Set {
				if !showUnset {
					continue
				}
				setting.Value = "<unset>"
			}
			fmt.Fprintf(w, "%s\t%s\n", setting.Key, setting.Value)
		}
		slog.Debug("Resolved settings", slog.Int("cached", len(s.CachedKeys())))
		return w.Flush()
	}),
}

var settingsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the resolved value of one setting",
	Args:  cobra.ExactArgs(1),
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, args []string) error {
		key := strings.ToLower(args[0])
		setting, ok := s.Get(key)
		if !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		if !setting.Set {
			return fmt.Errorf("setting %q has no value", key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), setting.Value)
		return nil
	}),
}

var settingsLocationCmd = &cobra.Command{
	Use:   "location",
	Short: "Print where the persisted settings live",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, _ []string) error {
		loc, ok := s.Location()
		if !ok {
			return fmt.Errorf("no persisted settings location")
		}
		fmt.Fprintln(cmd.OutOrStdout(), loc)
		return nil
	}),
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the resolved settings can start the engine",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, s *servicesettings.Settings, _ []string) error {
		if err := s.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "settings OK")
		return nil
	}),
}

// withSettings opens the settings for the duration of fn.
func withSettings(fn func(*cobra.Command, *servicesettings.Settings, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, shutdown, err := openSettings()
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(); err != nil {
				slog.Error("Error shutting down telemetry", slog.Any("error", err))
			}
		}()
		return fn(cmd, s, args)
	}
}
