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

//go:build windows

package settingsstore

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"

	"github.com/cardinalhq/enginehost/internal/settings"
)

// DefaultRegistryPath is the key, under HKEY_LOCAL_MACHINE, holding the
// service settings.
const DefaultRegistryPath = `Software\EngineHost`

// RegistryStore reads string and DWORD values from a registry key.
type RegistryStore struct {
	key  registry.Key
	path string
}

var _ settings.Store = (*RegistryStore)(nil)

// NewRegistryStore opens HKEY_LOCAL_MACHINE\path for reading. A key which
// does not exist gives an empty store.
func NewRegistryStore(path string) (*RegistryStore, error) {
	if path == "" {
		path = DefaultRegistryPath
	}
	s := &RegistryStore{path: `HKEY_LOCAL_MACHINE\` + path}
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to open registry key %s: %w", s.path, err)
	}
	s.key = k
	return s, nil
}

func (s *RegistryStore) Lookup(key string) (string, bool) {
	if s.key == 0 {
		return "", false
	}
	_, valType, err := s.key.GetValue(key, nil)
	if err != nil {
		return "", false
	}
	switch valType {
	case registry.DWORD, registry.QWORD:
		n, _, err := s.key.GetIntegerValue(key)
		if err != nil {
			return "", false
		}
		return strconv.FormatUint(n, 10), true
	case registry.SZ, registry.EXPAND_SZ:
		v, _, err := s.key.GetStringValue(key)
		if err != nil {
			return "", false
		}
		if valType == registry.EXPAND_SZ {
			if expanded, err := registry.ExpandString(v); err == nil {
				v = expanded
			}
		}
		return v, true
	default:
		return "", false
	}
}

func (s *RegistryStore) Location() (string, bool) {
	return s.path, true
}

func (s *RegistryStore) Close() error {
	if s.key == 0 {
		return nil
	}
	return s.key.Close()
}

func nativeStores() ([]settings.Store, error) {
	s, err := NewRegistryStore(DefaultRegistryPath)
	if err != nil {
		return nil, err
	}
	return []settings.Store{s}, nil
}
