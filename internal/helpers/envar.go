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

package helpers

import (
	"os"
	"strings"
)

// MaxEnvLen bounds environment values read during discovery. Longer values
// are treated as unset.
const MaxEnvLen = 32767

// Environment reads process environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is an Environment backed by a map.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LookupEnvBounded returns the value of key when it is set, non-empty and
// no longer than MaxEnvLen.
func LookupEnvBounded(env Environment, key string) (string, bool) {
	if env == nil {
		env = OSEnvironment{}
	}
	v, ok := env.LookupEnv(key)
	if !ok || v == "" || len(v) > MaxEnvLen {
		return "", false
	}
	return v, true
}

func GetBoolEnv(envVar string, defaultValue bool) bool {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(envVar)))

	switch env {
	case "true", "1", "yes", "on", "enable", "enabled":
		return true
	case "false", "0", "no", "off", "disable", "disabled":
		return false
	case "":
		return defaultValue
	default:
		// Any other non-empty value counts as set.
		return true
	}
}
