// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func hexToBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestEncodeNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num        int64
		serialized string
	}{
		{0, ""},
		{1, "01"},
		{-1, "81"},
		{127, "7f"},
		{-127, "ff"},
		{128, "8000"},
		{-128, "8080"},
		{129, "8100"},
		{-129, "8180"},
		{256, "0001"},
		{-256, "0081"},
		{32767, "ff7f"},
		{-32767, "ffff"},
		{32768, "008000"},
		{2147483647, "ffffff7f"},
		{-2147483647, "ffffffff"},
	}

	for _, tt := range tests {
		got := encodeNum(tt.num)
		want := hexToBytes(t, tt.serialized)
		require.Equalf(t, want, got, "encodeNum(%d)", tt.num)
	}
}

func TestDecodeNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		serialized string
		maxSize    int
		want       int64
		ok         bool
	}{
		{"", defaultMaxNumSize, 0, true},
		{"01", defaultMaxNumSize, 1, true},
		{"81", defaultMaxNumSize, -1, true},
		{"ffffff7f", defaultMaxNumSize, 2147483647, true},
		{"ffffffff", defaultMaxNumSize, -2147483647, true},
		// Five bytes exceeds the default 4-byte cap.
		{"ffffffffff", defaultMaxNumSize, 0, false},
		{"ffffffffff", 5, -549755813887, true},
	}

	for _, tt := range tests {
		got, ok := decodeNum(hexToBytes(t, tt.serialized), tt.maxSize)
		require.Equal(t, tt.ok, ok, tt.serialized)
		if ok {
			require.Equal(t, tt.want, got, tt.serialized)
		}
	}
}

func TestEncodeDecodeNumRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 1, -1, 42, -42, 1000000, -1000000, 2147483647, -2147483647} {
		b := encodeNum(n)
		got, ok := decodeNum(b, 8)
		require.True(t, ok)
		require.Equal(t, n, got)
	}
}

func TestDecodeBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    []byte
		want bool
	}{
		{"empty", nil, false},
		{"single zero", []byte{0x00}, false},
		{"negative zero", []byte{0x80}, false},
		{"multi zero with sign", []byte{0x00, 0x00, 0x80}, false},
		{"one", []byte{0x01}, true},
		{"nonzero then sign", []byte{0x01, 0x80}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, decodeBool(tt.b))
		})
	}
}

func TestEncodeBool(t *testing.T) {
	t.Parallel()

	require.Equal(t, []byte{}, encodeBool(false))
	require.Equal(t, []byte{0x01}, encodeBool(true))
}
