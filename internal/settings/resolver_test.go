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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	values   map[string]string
	location string
	lookups  int
}

func (m *mapStore) Lookup(key string) (string, bool) {
	m.lookups++
	v, ok := m.values[key]
	return v, ok
}

func (m *mapStore) Location() (string, bool) {
	return m.location, m.location != ""
}

func TestResolver_StringLiteralDefault(t *testing.T) {
	r := NewResolver(&mapStore{})
	assert.Equal(t, "Bar", r.String("test", "Bar"))
}

func TestResolver_StringProviderDefault(t *testing.T) {
	r := NewResolver(&mapStore{})
	p := NewComputed(func() string { return "Foo" })
	assert.Equal(t, "Foo", r.StringFrom("test", p))
}

func TestResolver_IntLiteralDefault(t *testing.T) {
	r := NewResolver(&mapStore{})
	assert.Equal(t, 42, r.Int("test", 42))
}

func TestResolver_PersistedWinsOverDefault(t *testing.T) {
	store := &mapStore{values: map[string]string{"test": "P"}}
	r := NewResolver(store)
	assert.Equal(t, "P", r.String("test", "D"))
	assert.Equal(t, "P", r.String("test", "other"))
}

func TestResolver_DefaultIsCached(t *testing.T) {
	store := &mapStore{}
	r := NewResolver(store)

	assert.Equal(t, "D", r.String("test", "D"))
	assert.Equal(t, "D", r.String("test", "E"))
	assert.Equal(t, "D", r.StringFrom("test", NewComputed(func() string { return "F" })))
	assert.Equal(t, 1, store.lookups)
}

func TestResolver_ProviderNotCalledWhenPersisted(t *testing.T) {
	store := &mapStore{values: map[string]string{"test": "P"}}
	r := NewResolver(store)
	called := false
	p := NewComputed(func() string {
		called = true
		return "Foo"
	})

	assert.Equal(t, "P", r.StringFrom("test", p))
	assert.False(t, called)
}

func TestResolver_KeysAreCaseInsensitive(t *testing.T) {
	store := &mapStore{values: map[string]string{"jvm_library": "/opt/jvm/libjvm.so"}}
	r := NewResolver(store)

	assert.Equal(t, "/opt/jvm/libjvm.so", r.String("JVM_Library", "x"))
	v, ok := r.Cached("jvm_library")
	require.True(t, ok)
	assert.Equal(t, "/opt/jvm/libjvm.so", v)
}

func TestResolver_IntPersisted(t *testing.T) {
	store := &mapStore{values: map[string]string{"timeout": " 1500 "}}
	r := NewResolver(store)
	assert.Equal(t, 1500, r.Int("timeout", 3000))
	assert.Equal(t, 1500, r.Int("timeout", 10))
}

func TestResolver_IntPersistedNotNumeric(t *testing.T) {
	store := &mapStore{values: map[string]string{"timeout": "soon"}}
	r := NewResolver(store)
	assert.Equal(t, 3000, r.Int("timeout", 3000))
	assert.Equal(t, 3000, r.Int("timeout", 10))
}

func TestResolver_IntPersistedIsDecimal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"0300000", 300000},
		{"08", 8},
		{"+250", 250},
		{"-5", -5},
		{"0x10", 7},
		{"1e3", 7},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := NewResolver(&mapStore{values: map[string]string{"idle_timeout": tt.raw}})
			assert.Equal(t, tt.want, r.Int("idle_timeout", 7))
		})
	}
}

func TestResolver_IntProvider(t *testing.T) {
	r := NewResolver(&mapStore{})
	calls := 0
	p := NewComputed(func() int {
		calls++
		return 9
	})
	assert.Equal(t, 9, r.IntFrom("n", p))
	assert.Equal(t, 9, r.IntFrom("n", p))
	assert.Equal(t, 1, calls)
}

func TestResolver_Lookup(t *testing.T) {
	store := &mapStore{values: map[string]string{"present": "yes"}}
	r := NewResolver(store)

	v, ok := r.Lookup("present")
	require.True(t, ok)
	assert.Equal(t, "yes", v)

	_, ok = r.Lookup("absent")
	assert.False(t, ok)
	_, ok = r.Cached("absent")
	assert.False(t, ok)
}

func TestResolver_NilStore(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, "Bar", r.String("test", "Bar"))
	_, ok := r.Location()
	assert.False(t, ok)
}

func TestResolver_Location(t *testing.T) {
	r := NewResolver(&mapStore{location: "/etc/enginehost/enginehost.yaml"})
	loc, ok := r.Location()
	require.True(t, ok)
	assert.Equal(t, "/etc/enginehost/enginehost.yaml", loc)
}

func TestResolver_CachedKeys(t *testing.T) {
	r := NewResolver(&mapStore{})
	r.String("b", "1")
	r.Int("a", 2)
	assert.Equal(t, []string{"a", "b"}, r.CachedKeys())
}
