// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicateForTrueRecognizesSignatureValid(t *testing.T) {
	t.Parallel()

	pubkey := newWitnessRefValue(0)
	sig := newWitnessRefValue(1)
	v := newSigValidValue(pubkey, sig, sigHashAll)

	p := predicateForTrue(v)
	require.Equal(t, predSignatureValid, p.kind)
	require.Equal(t, byte(sigHashAll), p.sighashFlag)
}

func TestPredicateForTrueRecognizesHashPreimage(t *testing.T) {
	t.Parallel()

	preimage := newWitnessRefValue(0)
	digest := newBytesValue(make([]byte, 20))
	hashed := newDerivedValue(opHash160, preimage)

	v := newDerivedValue(opEqual, hashed, digest)
	p := predicateForTrue(v)
	require.Equal(t, predHashPreimage, p.kind)
	require.Equal(t, opHash160, p.hashOp)
}

func TestPredicateForTrueFallsBackToIsTrue(t *testing.T) {
	t.Parallel()

	v := newDerivedValue(opAdd, newWitnessRefValue(0), newWitnessRefValue(1))
	p := predicateForTrue(v)
	require.Equal(t, predIsTrue, p.kind)
}

func TestPredicateNegate(t *testing.T) {
	t.Parallel()

	v := newWitnessRefValue(0)
	require.Equal(t, newIsFalse(v), newIsTrue(v).negate())
	require.Equal(t, newIsTrue(v), newIsFalse(v).negate())
}

func TestConjunctionAddDropsTautology(t *testing.T) {
	t.Parallel()

	v := newBytesValue([]byte{1, 2, 3})
	c, ok := conjunction(nil).add(newEqual(v, v))
	require.True(t, ok)
	require.Empty(t, c)
}

func TestConjunctionAddDeduplicates(t *testing.T) {
	t.Parallel()

	w := newWitnessRefValue(0)
	c, ok := conjunction(nil).add(newIsTrue(w))
	require.True(t, ok)
	c, ok = c.add(newIsTrue(w))
	require.True(t, ok)
	require.Len(t, c, 1)
}

func TestConjunctionAddDetectsContradiction(t *testing.T) {
	t.Parallel()

	w := newWitnessRefValue(0)
	c, ok := conjunction(nil).add(newIsTrue(w))
	require.True(t, ok)
	_, ok = c.add(newIsFalse(w))
	require.False(t, ok)
}

func TestConjunctionKeyStableUnderInsertOrder(t *testing.T) {
	t.Parallel()

	a := newIsTrue(newWitnessRefValue(0))
	b := newIsTrue(newWitnessRefValue(1))

	c1, _ := conjunction(nil).add(a)
	c1, _ = c1.add(b)

	c2, _ := conjunction(nil).add(b)
	c2, _ = c2.add(a)

	require.Equal(t, c1.key(), c2.key())
}

func TestConjunctionSubsumes(t *testing.T) {
	t.Parallel()

	a := newIsTrue(newWitnessRefValue(0))
	b := newIsTrue(newWitnessRefValue(1))

	small, _ := conjunction(nil).add(a)
	big, _ := conjunction(nil).add(a)
	big, _ = big.add(b)

	require.True(t, big.subsumes(small))
	require.False(t, small.subsumes(big))
	require.False(t, small.subsumes(small))
}

func TestMergeLocktimeRequirementKeepsStrictest(t *testing.T) {
	t.Parallel()

	c, ok := conjunction(nil).add(newLockTime(100))
	require.True(t, ok)
	c, ok = c.add(newLockTime(200))
	require.True(t, ok)
	require.Len(t, c, 1)
	require.Equal(t, int64(200), c[0].n)
}

func TestMergeLocktimeRequirementRejectsMixedTypes(t *testing.T) {
	t.Parallel()

	c, ok := conjunction(nil).add(newLockTime(100)) // block height
	require.True(t, ok)
	_, ok = c.add(newLockTime(locktimeThreshold + 1)) // calendar time
	require.False(t, ok)
}

func TestMergeSequenceRequirementIndependentOfLockTime(t *testing.T) {
	t.Parallel()

	c, ok := conjunction(nil).add(newLockTime(100))
	require.True(t, ok)
	c, ok = c.add(newSequence(5))
	require.True(t, ok)
	require.Len(t, c, 2)
}
