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

//go:build darwin || linux

package discovery

import (
	"fmt"
	"strings"

	"github.com/ebitengine/purego"
)

type dlopenLoader struct{}

// NewLoader returns a Loader which validates the object header and then
// dlopens and immediately dlcloses the library.
func NewLoader() Loader {
	return dlopenLoader{}
}

func (dlopenLoader) Probe(path string) error {
	if err := checkImage(path); err != nil {
		return err
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		if isArchError(err.Error()) {
			return fmt.Errorf("dlopen %s: %w: %v", path, ErrArchMismatch, err)
		}
		return fmt.Errorf("dlopen %s: %w", path, err)
	}
	if err := purego.Dlclose(handle); err != nil {
		return fmt.Errorf("dlclose %s: %w", path, err)
	}
	return nil
}

func isArchError(msg string) bool {
	msg = strings.ToLower(msg)
	for _, s := range []string{"wrong elf class", "incompatible architecture", "mach-o file, but is an incompatible", "elfclass"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
