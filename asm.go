// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AsmErrorKind classifies a failure to parse the asm dialect into raw script
// bytes.
type AsmErrorKind int

const (
	// ErrAsmIntegerOutOfRange is raised when a bare decimal token does not
	// fit the range a script number push can encode.
	ErrAsmIntegerOutOfRange AsmErrorKind = iota
	// ErrAsmDataPushTooLarge is raised when a <hex> token's byte length
	// exceeds maxScriptElementSize.
	ErrAsmDataPushTooLarge
	// ErrAsmInvalidHex is raised when a <hex> token's interior is not a
	// well-formed, even-length hex string.
	ErrAsmInvalidHex
	// ErrAsmExplicitPushdata is raised when the bare mnemonic of a
	// PUSHDATA opcode appears directly: asm scripts always spell pushes
	// as either a decimal literal or a <hex> token, never by naming the
	// pushdata opcode.
	ErrAsmExplicitPushdata
	// ErrAsmUnknownOpcode is raised when a token is neither a decimal
	// literal, a <hex> token, nor a recognized opcode mnemonic.
	ErrAsmUnknownOpcode
)

func (k AsmErrorKind) String() string {
	switch k {
	case ErrAsmIntegerOutOfRange:
		return "integer out of range"
	case ErrAsmDataPushTooLarge:
		return "data push too large"
	case ErrAsmInvalidHex:
		return "invalid hex data"
	case ErrAsmExplicitPushdata:
		return "explicit pushdata opcode not allowed in asm"
	case ErrAsmUnknownOpcode:
		return "unknown opcode"
	default:
		return "unknown asm error"
	}
}

// AsmError is returned by ParseASM when a token cannot be translated into
// script bytes.
type AsmError struct {
	Kind  AsmErrorKind
	Token string
}

func (e *AsmError) Error() string {
	tok := e.Token
	if len(tok) > 50 {
		tok = tok[:50] + "..."
	}
	return fmt.Sprintf("asm: %s: %q", e.Kind, tok)
}

// ParseASM translates the whitespace-separated asm dialect into raw script
// bytes: bare OP_NAME tokens resolve through opcodeFromName, <hex> tokens
// push the given bytes using the minimal push opcode for their length,
// decimal integers push the minimal script-encoded number, and a token
// beginning with '#' runs to the end of its line as a comment.
func ParseASM(asm string) ([]byte, error) {
	var out []byte

	for _, line := range strings.Split(asm, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			b, err := asmToken(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// asmToken translates one already-isolated token into the bytes it appends
// to the script.
func asmToken(tok string) ([]byte, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return asmPushNum(n, tok)
	}

	if rest, ok := strings.CutPrefix(tok, "<"); ok {
		if hexPart, ok := strings.CutSuffix(rest, ">"); ok {
			return asmPushHex(hexPart, tok)
		}
	}

	if op, ok := opcodeFromName(tok); ok {
		if _, isPushdata := op.pushDataLength(); isPushdata {
			return nil, &AsmError{Kind: ErrAsmExplicitPushdata, Token: tok}
		}
		return []byte{byte(op)}, nil
	}

	return nil, &AsmError{Kind: ErrAsmUnknownOpcode, Token: tok}
}

// asmPushNum encodes a decimal literal as the minimal opcode sequence that
// pushes it: OP_0, OP_1NEGATE/OP_1..OP_16 for the values those opcodes
// cover directly, otherwise a length-prefixed minimal script number.
func asmPushNum(n int64, tok string) ([]byte, error) {
	switch {
	case n == 0:
		return []byte{byte(OP_0)}, nil
	case n == -1:
		return []byte{byte(OP_1NEGATE)}, nil
	case n >= 1 && n <= 16:
		return []byte{byte(OP_1) + byte(n-1)}, nil
	case n < -0x7fffffff || n > 0x7fffffff:
		return nil, &AsmError{Kind: ErrAsmIntegerOutOfRange, Token: tok}
	}

	b := encodeNum(n)
	return append([]byte{byte(len(b))}, b...), nil
}

// asmPushHex encodes a hex-data token's payload using the shortest push
// opcode that fits its length.
func asmPushHex(hexPart, tok string) ([]byte, error) {
	data, err := hex.DecodeString(hexPart)
	if err != nil {
		return nil, &AsmError{Kind: ErrAsmInvalidHex, Token: tok}
	}

	n := len(data)
	var prefix []byte
	switch {
	case n <= 75:
		prefix = []byte{byte(n)}
	case n <= 255:
		prefix = []byte{byte(OP_PUSHDATA1), byte(n)}
	case n <= maxScriptElementSize:
		prefix = []byte{byte(OP_PUSHDATA2), byte(n), byte(n >> 8)}
	default:
		return nil, &AsmError{Kind: ErrAsmDataPushTooLarge, Token: tok}
	}

	return append(prefix, data...), nil
}

// Disassemble decodes script under version and renders it as asm text, for
// callers that want a human-readable echo of what they passed in (e.g. the
// CLI, when fed hex).
func Disassemble(script []byte, version ScriptVersion) (string, error) {
	ops, err := decodeScript(script, version)
	if err != nil {
		return "", err
	}
	return FormatASM(ops), nil
}

// FormatASM renders a decoded opcode stream back into the asm dialect: the
// small-integer opcodes (OP_0, OP_1NEGATE, OP_1..OP_16) print as their
// decimal value, every other push prints as a <hex> token (even when its
// payload is a small integer), and every other opcode prints its canonical
// OP_ mnemonic.
func FormatASM(ops []ParsedOp) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatAsmOp(op))
	}
	return b.String()
}

func formatAsmOp(op ParsedOp) string {
	switch {
	case op.Op == OP_1NEGATE:
		return "-1"
	case op.Op >= OP_1 && op.Op <= OP_16:
		return strconv.Itoa(int(op.Op) - int(OP_1) + 1)
	case op.Op == OP_0:
		return "0"
	case op.isPush():
		return "<" + hex.EncodeToString(op.Data) + ">"
	default:
		return op.Op.String()
	}
}
