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
	"sort"

	"github.com/jellydator/ttlcache/v3"
)

// Cache holds resolved setting values. A key, once stored, keeps its first
// value for the lifetime of the cache.
type Cache struct {
	items *ttlcache.Cache[string, string]
}

func NewCache() *Cache {
	return &Cache{
		items: ttlcache.New(
			ttlcache.WithTTL[string, string](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (string, bool) {
	item := c.items.Get(key)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// Put stores value under key unless the key is already present, in which
// case the existing value is returned and value is discarded.
func (c *Cache) Put(key, value string) string {
	item, _ := c.items.GetOrSet(key, value)
	return item.Value()
}

func (c *Cache) Len() int {
	return c.items.Len()
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	keys := c.items.Keys()
	sort.Strings(keys)
	return keys
}
