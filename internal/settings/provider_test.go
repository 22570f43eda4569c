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
)

func TestComputed_ReturnsComputedValue(t *testing.T) {
	p := NewComputed(func() string { return "Foo" })
	assert.Equal(t, "Foo", p.Value())
}

func TestComputed_ComputesOnce(t *testing.T) {
	calls := 0
	p := NewComputed(func() string {
		calls++
		return "Foo"
	})

	for range 5 {
		assert.Equal(t, "Foo", p.Value())
	}
	assert.Equal(t, 1, calls)
}

func TestComputed_ComputesOnceWhenEmpty(t *testing.T) {
	calls := 0
	p := NewComputed(func() string {
		calls++
		return ""
	})

	assert.Equal(t, "", p.Value())
	assert.Equal(t, "", p.Value())
	assert.Equal(t, 1, calls)
}

func TestComputed_InstancesAreIndependent(t *testing.T) {
	calls := 0
	compute := func() int {
		calls++
		return calls
	}
	a := NewComputed(compute)
	b := NewComputed(compute)

	assert.Equal(t, 1, a.Value())
	assert.Equal(t, 2, b.Value())
	assert.Equal(t, 1, a.Value())
	assert.Equal(t, 2, calls)
}

func TestComputed_NilFunction(t *testing.T) {
	p := NewComputed[string](nil)
	assert.Equal(t, "", p.Value())
}

func TestStatic(t *testing.T) {
	var p Provider[int] = Static[int]{V: 7}
	assert.Equal(t, 7, p.Value())
}
