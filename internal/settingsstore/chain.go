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

package settingsstore

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/enginehost/internal/settings"
)

// Chain consults stores in order; the first store holding a key wins.
type Chain []settings.Store

var _ settings.Store = Chain(nil)

func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Location reports the location of the first store that has one.
func (c Chain) Location() (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if loc, ok := s.Location(); ok {
			return loc, true
		}
	}
	return "", false
}

// Close closes every store that holds resources, such as an open registry
// key, and reports all failures.
func (c Chain) Close() error {
	var errs *multierror.Error
	for _, s := range c {
		if closer, ok := s.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs.ErrorOrNil()
}
