// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Signature hash type values. The recognized types are ALL, NONE and
// SINGLE, each optionally combined with ANYONECANPAY (0x80); see
// isValidSigHashType.
const (
	sigHashAll          byte = 0x01
	sigHashNone         byte = 0x02
	sigHashSingle       byte = 0x03
	sigHashAnyOneCanPay byte = 0x80
	sigHashOutputMask   byte = 0x1f
)

// isValidSigHashType reports whether b names a recognized signature hash
// flag combination.
func isValidSigHashType(b byte) bool {
	base := b &^ sigHashAnyOneCanPay
	return base == sigHashAll || base == sigHashNone || base == sigHashSingle
}

// isValidSignatureEncoding reports whether sig (including its trailing
// sighash-type byte) is a strict DER-encoded ECDSA signature, ported
// byte-for-byte from Bitcoin Core's IsValidSignatureEncoding /
// script/interpreter.cpp.
func isValidSignatureEncoding(sig []byte) bool {
	// Format: 0x30 [total-length] 0x02 [R-length] [R] 0x02 [S-length] [S] [sighash]
	if len(sig) < 9 || len(sig) > 73 {
		return false
	}
	if sig[0] != 0x30 {
		return false
	}
	if int(sig[1]) != len(sig)-3 {
		return false
	}
	lenR := int(sig[3])
	if 5+lenR >= len(sig) {
		return false
	}
	lenS := int(sig[5+lenR])
	if lenR+lenS+7 != len(sig) {
		return false
	}
	if sig[2] != 0x02 {
		return false
	}
	if lenR == 0 {
		return false
	}
	if sig[4]&0x80 != 0 {
		return false
	}
	if lenR > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		return false
	}
	if sig[lenR+4] != 0x02 {
		return false
	}
	if lenS == 0 {
		return false
	}
	if sig[lenR+6]&0x80 != 0 {
		return false
	}
	if lenS > 1 && sig[lenR+6] == 0x00 && sig[lenR+7]&0x80 == 0 {
		return false
	}
	return true
}

// isValidPubKeyEncoding reports whether pk is a well-formed (un)compressed
// SEC1 public key: 33 bytes starting with 0x02/0x03, or 65 bytes starting
// with 0x04. It additionally confirms the encoded point actually lies on
// secp256k1 via btcec, matching Bitcoin Core's fSuccessfullyParsed step.
func isValidPubKeyEncoding(pk []byte) bool {
	switch {
	case len(pk) == 33 && (pk[0] == 0x02 || pk[0] == 0x03):
	case len(pk) == 65 && pk[0] == 0x04:
	default:
		return false
	}
	_, err := btcec.ParsePubKey(pk)
	return err == nil
}

// isValidXOnlyPubKeyEncoding reports whether pk is a well-formed 32-byte
// x-only public key as used by tapscript CHECKSIG/CHECKSIGADD (BIP340).
// Bitcoin consensus does not require the x-coordinate to correspond to a
// point on the curve at script-validation time (that failure surfaces only
// during actual signature verification), so this only checks length.
func isValidXOnlyPubKeyEncoding(pk []byte) bool {
	return len(pk) == 32
}

// isLowS reports whether the S component of a strictly DER-encoded
// signature sig is at most half the group order, as required by BIP62/
// ScriptVerifyLowS policy.
func isLowS(sig []byte) bool {
	if !isValidSignatureEncoding(sig) {
		return false
	}
	lenR := int(sig[3])
	sStart := 6 + lenR
	lenS := int(sig[5+lenR])
	s := new(big.Int).SetBytes(sig[sStart : sStart+lenS])

	halfOrder := new(big.Int).Rsh(btcec.S256().N, 1)
	return s.Cmp(halfOrder) <= 0
}
