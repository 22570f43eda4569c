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

package config

import "strings"

// Persisted setting keys. These names are part of the on-disk and
// environment contract.
const (
	KeyConnectionPipe    = "connection_pipe"
	KeyConnectionTimeout = "connection_timeout"
	KeyBusyTimeout       = "busy_timeout"
	KeyIdleTimeout       = "idle_timeout"
	KeyJvmLibrary        = "jvm_library"
	KeyJarPath           = "jar_path"
	KeyAnnotationCache   = "annotation_cache"
	KeyLogConfiguration  = "log_configuration"
	KeyServiceName       = "service_name"
	KeyServiceSDDL       = "service_sddl"
)

const (
	// Timeout defaults, in milliseconds.
	DefaultConnectionTimeout = 3000   // 3s
	DefaultBusyTimeout       = 2000   // 2s
	DefaultIdleTimeout       = 300000 // 5m

	DefaultServiceName = "EngineHost"
	DefaultPipeName    = "Connection"
	DefaultPipeFolder  = "/var/run/enginehost/"
)

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
