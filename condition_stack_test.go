// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConditionStackBasic(t *testing.T) {
	t.Parallel()

	c := newConditionStack()
	require.True(t, c.empty())
	require.True(t, c.allTrue())

	c.pushBack(true)
	require.False(t, c.empty())
	require.True(t, c.allTrue())

	c.pushBack(false)
	require.False(t, c.allTrue())

	c.popBack()
	require.True(t, c.allTrue())

	c.popBack()
	require.True(t, c.empty())
}

func TestConditionStackToggleTop(t *testing.T) {
	t.Parallel()

	c := newConditionStack()
	c.pushBack(true)
	c.toggleTop()
	require.False(t, c.allTrue())
	c.toggleTop()
	require.True(t, c.allTrue())
}

func TestConditionStackNestedFalseUnaffectedByInnerToggle(t *testing.T) {
	t.Parallel()

	c := newConditionStack()
	c.pushBack(false) // outer frame false: everything below is already skipped
	c.pushBack(true)  // inner frame, itself true, but still skipped overall
	require.False(t, c.allTrue())

	// Toggling the (skipped) inner frame changes nothing observable: the
	// outer false entry still dominates.
	c.toggleTop()
	require.False(t, c.allTrue())

	c.popBack()
	require.False(t, c.allTrue()) // outer frame is still false
	c.toggleTop()
	require.True(t, c.allTrue())
}

func TestConditionStackCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := newConditionStack()
	c.pushBack(true)

	clone := c.clone()
	clone.pushBack(false)

	require.True(t, c.allTrue())
	require.False(t, clone.allTrue())
}
