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

import "sync"

// Provider supplies a default value for a setting.
type Provider[T any] interface {
	Value() T
}

// Computed is a Provider that runs its compute function on the first call to
// Value and returns that result on every later call, including when the
// result is the zero value.
type Computed[T any] struct {
	once    sync.Once
	compute func() T
	value   T
}

var _ Provider[string] = (*Computed[string])(nil)

func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{compute: compute}
}

func (c *Computed[T]) Value() T {
	c.once.Do(func() {
		if c.compute != nil {
			c.value = c.compute()
		}
	})
	return c.value
}

// Static is a Provider returning a fixed value.
type Static[T any] struct {
	V T
}

func (s Static[T]) Value() T {
	return s.V
}
