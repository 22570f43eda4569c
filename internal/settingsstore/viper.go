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

// Package settingsstore provides the persisted backings consulted by the
// settings resolver: viper (configuration file plus environment), plain YAML
// documents, and on Windows the registry.
package settingsstore

import (
	"github.com/spf13/viper"

	"github.com/cardinalhq/enginehost/internal/settings"
)

// ViperStore adapts a *viper.Viper to settings.Store.
type ViperStore struct {
	v *viper.Viper
}

var _ settings.Store = (*ViperStore)(nil)

func NewViperStore(v *viper.Viper) *ViperStore {
	return &ViperStore{v: v}
}

func (s *ViperStore) Lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// Location returns the configuration file viper read, if any.
func (s *ViperStore) Location() (string, bool) {
	f := s.v.ConfigFileUsed()
	return f, f != ""
}
