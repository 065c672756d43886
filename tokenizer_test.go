// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeScriptPushes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  []byte
		wantOps []ParsedOp
	}{
		{
			name:   "direct push",
			script: []byte{0x01, 0xaa},
			wantOps: []ParsedOp{
				{Op: Opcode(0x01), Data: []byte{0xaa}, Minimal: true, Offset: 0},
			},
		},
		{
			name:   "OP_0",
			script: []byte{byte(OP_0)},
			wantOps: []ParsedOp{
				{Op: OP_0, Data: nil, Minimal: true, Offset: 0},
			},
		},
		{
			name:   "pushdata1",
			script: append([]byte{byte(OP_PUSHDATA1), 76}, make([]byte, 76)...),
			wantOps: []ParsedOp{
				{Op: OP_PUSHDATA1, Data: make([]byte, 76), Minimal: true, Offset: 0},
			},
		},
		{
			name:   "non-push opcode",
			script: []byte{byte(OP_DUP), byte(OP_HASH160)},
			wantOps: []ParsedOp{
				{Op: OP_DUP, Minimal: true, Offset: 0},
				{Op: OP_HASH160, Minimal: true, Offset: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := decodeScript(tt.script, VersionSegwitV0)
			require.NoError(t, err)
			require.Equal(t, tt.wantOps, ops)
		})
	}
}

func TestDecodeScriptTruncatedPush(t *testing.T) {
	t.Parallel()

	_, err := decodeScript([]byte{0x04, 0xaa, 0xbb}, VersionSegwitV0)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, ErrUnexpectedEnd, de.Kind)
}

func TestDecodeScriptTruncatedPushdataLength(t *testing.T) {
	t.Parallel()

	_, err := decodeScript([]byte{byte(OP_PUSHDATA2), 0x01}, VersionSegwitV0)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, ErrInvalidPushLength, de.Kind)
}

func TestDecodeScriptTooLong(t *testing.T) {
	t.Parallel()

	script := make([]byte, maxScriptSize+1)
	for i := range script {
		script[i] = byte(OP_NOP)
	}
	_, err := decodeScript(script, VersionSegwitV0)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, ErrScriptTooLong, de.Kind)
}

func TestDecodeScriptTapscriptIgnoresLengthLimit(t *testing.T) {
	t.Parallel()

	script := make([]byte, maxScriptSize+1)
	for i := range script {
		script[i] = byte(OP_NOP)
	}
	ops, err := decodeScript(script, VersionTapscript)
	require.NoError(t, err)
	require.Len(t, ops, maxScriptSize+1)
}

func TestIsMinimalPush(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   Opcode
		data []byte
		want bool
	}{
		{"empty uses OP_0", OP_0, nil, true},
		{"empty via PUSHDATA1 is not minimal", OP_PUSHDATA1, nil, false},
		{"single byte 1 via OP_1", OP_1, []byte{0x01}, true},
		{"single byte 1 via direct push is not minimal", Opcode(0x01), []byte{0x01}, false},
		{"negative one via OP_1NEGATE", OP_1NEGATE, []byte{0x81}, true},
		{"75-byte direct push", Opcode(75), make([]byte, 75), true},
		{"76-byte must use PUSHDATA1", OP_PUSHDATA1, make([]byte, 76), true},
		{"76-byte via PUSHDATA2 is not minimal", OP_PUSHDATA2, make([]byte, 76), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isMinimalPush(tt.op, tt.data))
		})
	}
}

func TestParsedOpIsPush(t *testing.T) {
	t.Parallel()

	require.True(t, ParsedOp{Op: Opcode(0x01)}.isPush())
	require.True(t, ParsedOp{Op: OP_0}.isPush())
	require.True(t, ParsedOp{Op: OP_PUSHDATA4}.isPush())
	require.False(t, ParsedOp{Op: OP_RESERVED}.isPush())
	require.False(t, ParsedOp{Op: OP_DUP}.isPush())
}
