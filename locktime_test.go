// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocktimeIsTimeBasedBoundary(t *testing.T) {
	t.Parallel()

	require.False(t, locktimeIsTimeBased(locktimeThreshold-1))
	require.True(t, locktimeIsTimeBased(locktimeThreshold))
}

func TestSequenceIsTimeBasedFlag(t *testing.T) {
	t.Parallel()

	require.False(t, sequenceIsTimeBased(100))
	require.True(t, sequenceIsTimeBased(100|sequenceLocktimeTypeFlag))
}
