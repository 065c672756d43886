// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnforcesMinimalIf(t *testing.T) {
	t.Parallel()

	require.True(t, enforcesMinimalIf(VersionTapscript, ConsensusOnly))
	require.True(t, enforcesMinimalIf(VersionTapscript, ConsensusAndPolicy))

	require.False(t, enforcesMinimalIf(VersionSegwitV0, ConsensusOnly))
	require.True(t, enforcesMinimalIf(VersionSegwitV0, ConsensusAndPolicy))

	require.False(t, enforcesMinimalIf(VersionLegacy, ConsensusOnly))
	require.False(t, enforcesMinimalIf(VersionLegacy, ConsensusAndPolicy))
}

func TestEnforcesMinimalPush(t *testing.T) {
	t.Parallel()

	require.True(t, enforcesMinimalPush(VersionTapscript, ConsensusOnly))
	require.True(t, enforcesMinimalPush(VersionSegwitV0, ConsensusAndPolicy))
	require.False(t, enforcesMinimalPush(VersionSegwitV0, ConsensusOnly))
	require.False(t, enforcesMinimalPush(VersionLegacy, ConsensusOnly))
}

func TestRuleSetEnforcesPolicy(t *testing.T) {
	t.Parallel()

	require.False(t, ConsensusOnly.enforcesPolicy())
	require.True(t, ConsensusAndPolicy.enforcesPolicy())
}

func TestScriptVersionAndRuleSetStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "legacy", VersionLegacy.String())
	require.Equal(t, "segwit-v0", VersionSegwitV0.String())
	require.Equal(t, "tapscript", VersionTapscript.String())
	require.Equal(t, "consensus-only", ConsensusOnly.String())
	require.Equal(t, "consensus-and-policy", ConsensusAndPolicy.String())
}
