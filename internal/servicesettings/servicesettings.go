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

// Package servicesettings exposes the host service's configuration as typed
// accessors. Each accessor resolves one persisted key, falling back to a
// literal default or to a discovered one.
package servicesettings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/enginehost/config"
	"github.com/cardinalhq/enginehost/internal/discovery"
	"github.com/cardinalhq/enginehost/internal/logctx"
	"github.com/cardinalhq/enginehost/internal/settings"
)

// Settings resolves the service configuration. Discovered defaults are
// computed at most once per Settings value, and only when no persisted
// value exists for their key.
type Settings struct {
	resolver   *settings.Resolver
	discoverer *discovery.Discoverer
	logger     *slog.Logger

	defaultJvmLibrary      *settings.Computed[string]
	defaultJarPath         *settings.Computed[string]
	defaultAnnotationCache *settings.Computed[string]
}

type Option func(*Settings)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Settings) {
		s.logger = logger
	}
}

// New returns Settings reading from store. A nil discoverer uses the
// conventions of the running platform.
func New(store settings.Store, discoverer *discovery.Discoverer, opts ...Option) *Settings {
	s := &Settings{
		discoverer: discoverer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.discoverer == nil {
		s.discoverer = discovery.New(discovery.Options{})
	}
	var ropts []settings.Option
	if s.logger != nil {
		ropts = append(ropts, settings.WithLogger(s.logger))
	}
	s.resolver = settings.NewResolver(store, ropts...)

	s.defaultJvmLibrary = settings.NewComputed(func() string {
		return s.discoverer.JvmLibrary(s.context())
	})
	s.defaultJarPath = settings.NewComputed(func() string {
		return s.discoverer.JarPath(s.context())
	})
	s.defaultAnnotationCache = settings.NewComputed(s.JarPath)
	return s
}

func (s *Settings) context() context.Context {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}
	return logctx.WithLogger(context.Background(), logger)
}

// ConnectionPipe is the pipe or socket clients connect to.
func (s *Settings) ConnectionPipe() string {
	return s.resolver.String(config.KeyConnectionPipe, DefaultConnectionPipe())
}

func (s *Settings) ConnectionTimeout() time.Duration {
	return millis(s.resolver.Int(config.KeyConnectionTimeout, config.DefaultConnectionTimeout))
}

func (s *Settings) BusyTimeout() time.Duration {
	return millis(s.resolver.Int(config.KeyBusyTimeout, config.DefaultBusyTimeout))
}

func (s *Settings) IdleTimeout() time.Duration {
	return millis(s.resolver.Int(config.KeyIdleTimeout, config.DefaultIdleTimeout))
}

// JvmLibrary is the engine library to load.
func (s *Settings) JvmLibrary() string {
	return s.resolver.StringFrom(config.KeyJvmLibrary, s.defaultJvmLibrary)
}

// JarPath is the directory holding the client resource bundle.
func (s *Settings) JarPath() string {
	return s.resolver.StringFrom(config.KeyJarPath, s.defaultJarPath)
}

// AnnotationCache defaults to JarPath.
func (s *Settings) AnnotationCache() string {
	return s.resolver.StringFrom(config.KeyAnnotationCache, s.defaultAnnotationCache)
}

// LogConfiguration names the logging configuration document, if one is set.
func (s *Settings) LogConfiguration() (string, bool) {
	return s.resolver.Lookup(config.KeyLogConfiguration)
}

func (s *Settings) ServiceName() string {
	return s.resolver.String(config.KeyServiceName, config.DefaultServiceName)
}

// Location reports where the persisted settings live.
func (s *Settings) Location() (string, bool) {
	return s.resolver.Location()
}

// Discoverer returns the discoverer used for discovered defaults.
func (s *Settings) Discoverer() *discovery.Discoverer {
	return s.discoverer
}

// CachedKeys lists the keys resolved so far.
func (s *Settings) CachedKeys() []string {
	return s.resolver.CachedKeys()
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Setting is one resolved value, as shown by diagnostics.
type Setting struct {
	Key   string
	Value string
	Set   bool
}

// entry resolves one setting on demand.
type entry struct {
	key     string
	resolve func() (string, bool)
}

func always(f func() string) func() (string, bool) {
	return func() (string, bool) { return f(), true }
}

func inMillis(f func() time.Duration) func() string {
	return func() string { return strconv.FormatInt(f().Milliseconds(), 10) }
}

// entries lists every setting in key order without resolving any of them.
func (s *Settings) entries() []entry {
	out := []entry{
		{config.KeyConnectionPipe, always(s.ConnectionPipe)},
		{config.KeyConnectionTimeout, always(inMillis(s.ConnectionTimeout))},
		{config.KeyBusyTimeout, always(inMillis(s.BusyTimeout))},
		{config.KeyIdleTimeout, always(inMillis(s.IdleTimeout))},
		{config.KeyJvmLibrary, always(s.JvmLibrary)},
		{config.KeyJarPath, always(s.JarPath)},
		{config.KeyAnnotationCache, always(s.AnnotationCache)},
		{config.KeyLogConfiguration, s.LogConfiguration},
		{config.KeyServiceName, always(s.ServiceName)},
	}
	return append(out, s.platformEntries()...)
}

// Snapshot resolves every setting in key order.
func (s *Settings) Snapshot() []Setting {
	var out []Setting
	for _, e := range s.entries() {
		v, ok := e.resolve()
		out = append(out, Setting{Key: e.key, Value: v, Set: ok})
	}
	return out
}

// Get resolves a single setting by key. Only that setting's default is
// computed, so asking for a literal setting never runs discovery.
func (s *Settings) Get(key string) (Setting, bool) {
	key = strings.ToLower(key)
	for _, e := range s.entries() {
		if e.key == key {
			v, ok := e.resolve()
			return Setting{Key: key, Value: v, Set: ok}, true
		}
	}
	return Setting{}, false
}

// Validate checks the resolved settings and reports every problem found.
func (s *Settings) Validate() error {
	var errs *multierror.Error

	for _, t := range []struct {
		key string
		d   time.Duration
	}{
		{config.KeyConnectionTimeout, s.ConnectionTimeout()},
		{config.KeyBusyTimeout, s.BusyTimeout()},
		{config.KeyIdleTimeout, s.IdleTimeout()},
	} {
		if t.d <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s must be positive, got %dms", t.key, t.d.Milliseconds()))
		}
	}

	if lib := s.JvmLibrary(); lib == "" {
		errs = multierror.Append(errs, fmt.Errorf("%s is empty", config.KeyJvmLibrary))
	} else if err := s.discoverer.ValidateLibrary(lib); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("%s %s: %w", config.KeyJvmLibrary, lib, err))
	}

	if err := s.discoverer.CheckJarPath(s.JarPath()); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", config.KeyJarPath, err))
	}

	if path, ok := s.LogConfiguration(); ok {
		if _, err := os.Stat(path); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", config.KeyLogConfiguration, err))
		}
	}

	if s.ServiceName() == "" {
		errs = multierror.Append(errs, fmt.Errorf("%s is empty", config.KeyServiceName))
	}

	return errs.ErrorOrNil()
}
