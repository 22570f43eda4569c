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

package servicesettings

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/enginehost/config"
	"github.com/cardinalhq/enginehost/internal/discovery"
	"github.com/cardinalhq/enginehost/internal/helpers"
)

type mapStore map[string]string

func (m mapStore) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) Location() (string, bool) {
	return "memory", true
}

var testPlatform = &discovery.Platform{
	LibraryName:   "libjvm.so",
	LauncherName:  "java",
	HomeVariable:  "JAVA_HOME",
	PathVariable:  "PATH",
	ListSeparator: ":",
	HomeDirs:      []string{"lib/server", "lib/client"},
	LauncherDirs:  []string{"../lib/server"},
}

type countingLoader struct {
	calls int
	err   error
}

func (c *countingLoader) Probe(string) error {
	c.calls++
	return c.err
}

type fixture struct {
	fs         afero.Fs
	loader     *countingLoader
	moduleRuns int
	env        helpers.MapEnvironment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fs:     afero.NewMemMapFs(),
		loader: &countingLoader{},
		env:    helpers.MapEnvironment{"JAVA_HOME": "/opt/jdk"},
	}
	for _, p := range []string{
		"/opt/jdk/lib/server/libjvm.so",
		"/opt/enginehost/bin/enginehost",
		"/opt/enginehost/client.jar",
	} {
		require.NoError(t, f.fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(f.fs, p, []byte("x"), 0o644))
	}
	return f
}

func (f *fixture) discoverer() *discovery.Discoverer {
	return discovery.New(discovery.Options{
		Fs:       f.fs,
		Env:      f.env,
		Platform: testPlatform,
		Loader:   f.loader,
		ModulePath: func() (string, error) {
			f.moduleRuns++
			return "/opt/enginehost/bin/enginehost", nil
		},
	})
}

func TestDefaults(t *testing.T) {
	f := newFixture(t)
	s := New(mapStore{}, f.discoverer())

	assert.Equal(t, DefaultConnectionPipe(), s.ConnectionPipe())
	assert.Equal(t, 3*time.Second, s.ConnectionTimeout())
	assert.Equal(t, 2*time.Second, s.BusyTimeout())
	assert.Equal(t, 5*time.Minute, s.IdleTimeout())
	assert.Equal(t, "/opt/jdk/lib/server/libjvm.so", s.JvmLibrary())
	assert.Equal(t, "/opt/enginehost", s.JarPath())
	assert.Equal(t, "/opt/enginehost", s.AnnotationCache())
	assert.Equal(t, config.DefaultServiceName, s.ServiceName())

	_, ok := s.LogConfiguration()
	assert.False(t, ok)

	loc, ok := s.Location()
	require.True(t, ok)
	assert.Equal(t, "memory", loc)
}

func TestPersistedValuesWin(t *testing.T) {
	f := newFixture(t)
	store := mapStore{
		config.KeyConnectionPipe:    "/tmp/engine.sock",
		config.KeyConnectionTimeout: "100",
		config.KeyBusyTimeout:       "oops",
		config.KeyJvmLibrary:        "/custom/libjvm.so",
		config.KeyJarPath:           "/custom/jars",
		config.KeyLogConfiguration:  "/etc/enginehost/logging.yaml",
		config.KeyServiceName:       "Custom",
	}
	s := New(store, f.discoverer())

	assert.Equal(t, "/tmp/engine.sock", s.ConnectionPipe())
	assert.Equal(t, 100*time.Millisecond, s.ConnectionTimeout())
	assert.Equal(t, 2*time.Second, s.BusyTimeout(), "non-numeric value falls back to the default")
	assert.Equal(t, "/custom/libjvm.so", s.JvmLibrary())
	assert.Equal(t, "/custom/jars", s.JarPath())
	assert.Equal(t, "/custom/jars", s.AnnotationCache())
	assert.Equal(t, "Custom", s.ServiceName())

	lc, ok := s.LogConfiguration()
	require.True(t, ok)
	assert.Equal(t, "/etc/enginehost/logging.yaml", lc)

	assert.Equal(t, 0, f.loader.calls, "configured library must not trigger discovery")
	assert.Equal(t, 0, f.moduleRuns, "configured jar path must not trigger discovery")
}

func TestDiscoveryRunsOnce(t *testing.T) {
	f := newFixture(t)
	s := New(mapStore{}, f.discoverer())

	for range 3 {
		s.JvmLibrary()
		s.JarPath()
		s.AnnotationCache()
	}
	assert.Equal(t, 1, f.loader.calls)
	assert.Equal(t, 1, f.moduleRuns)
}

func TestDiscoveryFallback(t *testing.T) {
	f := newFixture(t)
	f.loader.err = discovery.ErrArchMismatch
	f.env = helpers.MapEnvironment{"JAVA_HOME": "/opt/jdk", "PATH": "/usr/bin"}
	s := New(mapStore{}, f.discoverer())

	assert.Equal(t, "libjvm.so", s.JvmLibrary())
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t)
	s := New(mapStore{config.KeyIdleTimeout: "60000"}, f.discoverer())

	snap := s.Snapshot()
	keys := make([]string, 0, len(snap))
	for _, setting := range snap {
		keys = append(keys, setting.Key)
	}
	assert.Subset(t, config.Keys(), keys)

	idle, ok := s.Get(config.KeyIdleTimeout)
	require.True(t, ok)
	assert.Equal(t, "60000", idle.Value)

	logConfig, ok := s.Get(config.KeyLogConfiguration)
	require.True(t, ok)
	assert.False(t, logConfig.Set)

	_, ok = s.Get("nonexistent")
	assert.False(t, ok)
}

func TestGetResolvesOnlyThatSetting(t *testing.T) {
	f := newFixture(t)
	s := New(mapStore{}, f.discoverer())

	name, ok := s.Get("Service_Name")
	require.True(t, ok)
	assert.Equal(t, config.KeyServiceName, name.Key)
	assert.Equal(t, config.DefaultServiceName, name.Value)

	busy, ok := s.Get(config.KeyBusyTimeout)
	require.True(t, ok)
	assert.Equal(t, "2000", busy.Value)

	assert.Equal(t, 0, f.loader.calls)
	assert.Equal(t, 0, f.moduleRuns)
	assert.Equal(t, []string{config.KeyBusyTimeout, config.KeyServiceName}, s.CachedKeys())

	lib, ok := s.Get(config.KeyJvmLibrary)
	require.True(t, ok)
	assert.Equal(t, "/opt/jdk/lib/server/libjvm.so", lib.Value)
	assert.Equal(t, 1, f.loader.calls)
	assert.Equal(t, 0, f.moduleRuns)
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	s := New(mapStore{}, f.discoverer())
	assert.NoError(t, s.Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	f := newFixture(t)
	f.loader.err = errors.New("cannot load")
	store := mapStore{
		config.KeyConnectionTimeout: "0",
		config.KeyIdleTimeout:       "-5",
		config.KeyJvmLibrary:        "/opt/jdk/lib/server/libjvm.so",
		config.KeyJarPath:           "/nowhere",
		config.KeyLogConfiguration:  filepath.Join(t.TempDir(), "missing-logging.yaml"),
	}
	s := New(store, f.discoverer())

	err := s.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "connection_timeout must be positive")
	assert.Contains(t, msg, "idle_timeout must be positive")
	assert.Contains(t, msg, "cannot load")
	assert.Contains(t, msg, "jar_path")
	assert.Contains(t, msg, "log_configuration")
	assert.NotContains(t, msg, "busy_timeout")
}
