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

package servicesettings

import "github.com/cardinalhq/enginehost/config"

// DefaultConnectionPipe is the named pipe clients connect to by default.
func DefaultConnectionPipe() string {
	return `\\.\pipe\` + config.DefaultServiceName + "-" + config.DefaultPipeName
}

// ServiceSDDL is the security descriptor applied to the service's pipe, if
// one is set.
func (s *Settings) ServiceSDDL() (string, bool) {
	return s.resolver.Lookup(config.KeyServiceSDDL)
}

func (s *Settings) platformEntries() []entry {
	return []entry{{config.KeyServiceSDDL, s.ServiceSDDL}}
}
