// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDerivedValueConstantFolds(t *testing.T) {
	t.Parallel()

	v := newDerivedValue(opAdd, newIntValue(2, defaultMaxNumSize), newIntValue(3, defaultMaxNumSize))
	require.True(t, v.isConcrete())
	n, ok := v.asInt(defaultMaxNumSize)
	require.True(t, ok)
	require.Equal(t, int64(5), n)
}

func TestNewDerivedValueStaysSymbolicWithWitnessOperand(t *testing.T) {
	t.Parallel()

	w := newWitnessRefValue(0)
	v := newDerivedValue(opAdd, w, newIntValue(3, defaultMaxNumSize))
	require.False(t, v.isConcrete())
	require.Equal(t, kindDerived, v.kind)
	require.Equal(t, opAdd, v.op)
}

func TestNewDerivedValueNeverFoldsSigValid(t *testing.T) {
	t.Parallel()

	// Even with fully concrete (but bogus) arguments, CHECKSIG results are
	// never statically decided - the analyzer never verifies signatures.
	v := newDerivedValue(opSigValid, newBytesValue([]byte{1}), newBytesValue([]byte{2}), newIntValue(1, defaultMaxNumSize))
	require.False(t, v.isConcrete())
	require.Equal(t, opSigValid, v.op)
}

func TestFoldConstantHashes(t *testing.T) {
	t.Parallel()

	input := newBytesValue([]byte("abc"))

	sha256Val := newDerivedValue(opSha256, input)
	require.True(t, sha256Val.isConcrete())
	require.Len(t, sha256Val.toBytes(), 32)

	hash160Val := newDerivedValue(opHash160, input)
	require.True(t, hash160Val.isConcrete())
	require.Len(t, hash160Val.toBytes(), 20)

	hash256Val := newDerivedValue(opHash256, input)
	require.True(t, hash256Val.isConcrete())
	require.Len(t, hash256Val.toBytes(), 32)
	require.Equal(t, hash256(input.toBytes()), hash256Val.toBytes())
}

func TestEqualValuesConcrete(t *testing.T) {
	t.Parallel()

	a := newBytesValue([]byte{1, 2, 3})
	b := newBytesValue([]byte{1, 2, 3})
	c := newBytesValue([]byte{1, 2, 4})

	eq, ok := equalValues(a, b)
	require.True(t, ok)
	require.True(t, eq)

	eq, ok = equalValues(a, c)
	require.True(t, ok)
	require.False(t, eq)
}

func TestEqualValuesSameWitnessRef(t *testing.T) {
	t.Parallel()

	w0 := newWitnessRefValue(0)
	w0again := newWitnessRefValue(0)
	w1 := newWitnessRefValue(1)

	eq, ok := equalValues(w0, w0again)
	require.True(t, ok)
	require.True(t, eq)

	_, ok = equalValues(w0, w1)
	require.False(t, ok)
}

func TestCommutativeDerivedCanonicalizesOperandOrder(t *testing.T) {
	t.Parallel()

	w0 := newWitnessRefValue(0)
	w1 := newWitnessRefValue(1)

	ab := newDerivedValue(opAdd, w0, w1)
	ba := newDerivedValue(opAdd, w1, w0)

	require.True(t, sameStructure(ab, ba))
}

func TestNonCommutativeDerivedOrderMatters(t *testing.T) {
	t.Parallel()

	w0 := newWitnessRefValue(0)
	w1 := newWitnessRefValue(1)

	ab := newDerivedValue(opSub, w0, w1)
	ba := newDerivedValue(opSub, w1, w0)

	require.False(t, sameStructure(ab, ba))
}

func TestAsBoolNegativeZeroIsFalse(t *testing.T) {
	t.Parallel()

	v := newBytesValue([]byte{0x00, 0x00, 0x80})
	b, ok := v.asBool()
	require.True(t, ok)
	require.False(t, b)
}

func TestAsIntRejectsOversizedEncoding(t *testing.T) {
	t.Parallel()

	v := newBytesValue([]byte{0x00, 0x00, 0x00, 0x00, 0x01})
	_, ok := v.asInt(defaultMaxNumSize)
	require.False(t, ok)

	n, ok := v.asInt(5)
	require.True(t, ok)
	require.Equal(t, int64(0x0100000000), n)
}
