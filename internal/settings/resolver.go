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

package settings

import (
	"log/slog"
	"strconv"
	"strings"
)

// Store is the persisted settings backing consulted before any default.
type Store interface {
	// Lookup returns the persisted value for key.
	Lookup(key string) (string, bool)
	// Location describes where the persisted values live, such as a file
	// path or a registry key.
	Location() (string, bool)
}

// Resolver answers typed setting lookups. Each key is resolved once: the
// first answer, whether it came from the store or from a default, is cached
// and returned for every later lookup of that key.
type Resolver struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
}

func (r *Resolver) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store: store,
		cache: NewCache(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

func (r *Resolver) persisted(key string) (string, bool) {
	if r.store == nil {
		return "", false
	}
	return r.store.Lookup(key)
}

// Lookup resolves key from the cache or the store only. It is used for
// settings which have no default.
func (r *Resolver) Lookup(key string) (string, bool) {
	key = normalizeKey(key)
	if v, ok := r.cache.Get(key); ok {
		return v, true
	}
	if v, ok := r.persisted(key); ok {
		r.log().Debug("Using persisted setting", slog.String("key", key))
		return r.cache.Put(key, v), true
	}
	return "", false
}

func (r *Resolver) String(key, def string) string {
	return r.StringFrom(key, Static[string]{V: def})
}

// StringFrom resolves key, asking def for a value only when neither the
// cache nor the store has one.
func (r *Resolver) StringFrom(key string, def Provider[string]) string {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return r.cache.Put(normalizeKey(key), providerValue(def))
}

func (r *Resolver) Int(key string, def int) int {
	return r.IntFrom(key, Static[int]{V: def})
}

// IntFrom resolves an integer setting. Persisted values are decimal; leading
// zeros do not select another base. A persisted value which is not a decimal
// integer is ignored in favour of def.
func (r *Resolver) IntFrom(key string, def Provider[int]) int {
	key = normalizeKey(key)
	if raw, ok := r.cache.Get(key); ok {
		if n, err := parseInt(raw); err == nil {
			return n
		}
		r.log().Warn("Cached setting is not an integer",
			slog.String("key", key),
			slog.String("value", raw))
		return providerValue(def)
	}
	if v, ok := r.persisted(key); ok {
		v = strings.TrimSpace(v)
		if n, err := parseInt(v); err == nil {
			r.cache.Put(key, v)
			return n
		}
		r.log().Warn("Ignoring non-integer persisted setting",
			slog.String("key", key),
			slog.String("value", v))
	}
	value := providerValue(def)
	r.cache.Put(key, strconv.Itoa(value))
	return value
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func providerValue[T any](p Provider[T]) T {
	var zero T
	if p == nil {
		return zero
	}
	return p.Value()
}

// Location reports where the persisted store lives.
func (r *Resolver) Location() (string, bool) {
	if r.store == nil {
		return "", false
	}
	return r.store.Location()
}

// Cached returns the cached value for key without consulting the store.
func (r *Resolver) Cached(key string) (string, bool) {
	return r.cache.Get(normalizeKey(key))
}

// CachedKeys lists every key resolved so far.
func (r *Resolver) CachedKeys() []string {
	return r.cache.Keys()
}
