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
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSettings = `service_name: Alpha
connection_timeout: 4000
jvm_library: /opt/jdk/lib/server/libjvm.so
jar_path: /opt/enginehost/lib
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("ENGINEHOST_SETTINGS_OVERLAY", "")

	prevDefault, prevOutput := slog.Default(), logOutput
	logOutput = io.Discard
	t.Cleanup(func() {
		slog.SetDefault(prevDefault)
		logOutput = prevOutput
	})

	configFile, overlayFile, skipNative, showUnset = "", "", false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--skip-native"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSettingsGet(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)

	out, err := runCommand(t, "settings", "get", "service_name", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Alpha\n", out)

	out, err = runCommand(t, "settings", "get", "CONNECTION_TIMEOUT", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "4000\n", out)

	out, err = runCommand(t, "settings", "get", "busy_timeout", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "2000\n", out)
}

func TestSettingsGetEnvironmentOverride(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)
	t.Setenv("ENGINEHOST_CONNECTION_TIMEOUT", "1500")

	out, err := runCommand(t, "settings", "get", "connection_timeout", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "1500\n", out)
}

func TestSettingsGetOverlay(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)
	overlay := writeFile(t, "overlay.yaml", "idle_timeout: 60000\nservice_name: Beta\n")

	out, err := runCommand(t, "settings", "get", "idle_timeout", "--config", cfg, "--overlay", overlay)
	require.NoError(t, err)
	assert.Equal(t, "60000\n", out)

	out, err = runCommand(t, "settings", "get", "service_name", "--config", cfg, "--overlay", overlay)
	require.NoError(t, err)
	assert.Equal(t, "Alpha\n", out)
}

func TestSettingsGetErrors(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)

	_, err := runCommand(t, "settings", "get", "no_such_key", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")

	_, err = runCommand(t, "settings", "get", "log_configuration", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no value")
}

func TestSettingsMissingConfigFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "typo.yaml")

	out, err := runCommand(t, "settings", "validate", "--config", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
	assert.Empty(t, out)
}

func TestSettingsWithoutConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("ENGINEHOST_SERVICE_NAME", "")

	out, err := runCommand(t, "settings", "get", "service_name")
	require.NoError(t, err)
	assert.Equal(t, "EngineHost\n", out)
}

func TestSettingsLocation(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)

	out, err := runCommand(t, "settings", "location", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)
}

func TestSettingsShow(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings)

	out, err := runCommand(t, "settings", "show", "--config", cfg)
	require.NoError(t, err)

	values := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		values[fields[0]] = fields[1]
	}
	assert.Equal(t, "Alpha", values["service_name"])
	assert.Equal(t, "4000", values["connection_timeout"])
	assert.Equal(t, "/opt/jdk/lib/server/libjvm.so", values["jvm_library"])
	assert.Equal(t, "/opt/enginehost/lib", values["jar_path"])
	assert.Equal(t, "/opt/enginehost/lib", values["annotation_cache"])
	assert.NotContains(t, values, "log_configuration")

	out, err = runCommand(t, "settings", "show", "--all", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "<unset>")
}

func TestSettingsValidateReportsProblems(t *testing.T) {
	cfg := writeFile(t, "enginehost.yaml", testSettings+"busy_timeout: 0\n")

	_, err := runCommand(t, "settings", "validate", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy_timeout must be positive")
	assert.Contains(t, err.Error(), "jar_path")
}
