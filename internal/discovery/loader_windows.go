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

package discovery

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

type windowsLoader struct{}

// NewLoader returns a Loader which loads and immediately frees the DLL.
func NewLoader() Loader {
	return windowsLoader{}
}

func (windowsLoader) Probe(path string) error {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		if errors.Is(err, windows.ERROR_BAD_EXE_FORMAT) {
			return fmt.Errorf("LoadLibrary %s: %w: %v", path, ErrArchMismatch, err)
		}
		return fmt.Errorf("LoadLibrary %s: %w", path, err)
	}
	if err := windows.FreeLibrary(h); err != nil {
		return fmt.Errorf("FreeLibrary %s: %w", path, err)
	}
	return nil
}
