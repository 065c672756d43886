// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

// ScriptVersion selects which opcode set, numeric policy, and signature
// policy a script is analyzed under. Bitcoin Script has evolved three
// distinct dialects and each opcode's availability and exact semantics can
// depend on which one is in effect.
type ScriptVersion uint8

const (
	// VersionLegacy is the original pre-segwit scripting dialect (P2PK,
	// P2PKH, bare multisig, P2SH redeem scripts).
	VersionLegacy ScriptVersion = iota

	// VersionSegwitV0 is the v0 witness program dialect introduced by
	// BIP141/BIP143 (P2WPKH, P2WSH).
	VersionSegwitV0

	// VersionTapscript is the v1 witness program "tapscript" dialect
	// introduced by BIP341/BIP342, reachable through a taproot script
	// path spend.
	VersionTapscript
)

// String implements fmt.Stringer.
func (v ScriptVersion) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case VersionSegwitV0:
		return "segwit-v0"
	case VersionTapscript:
		return "tapscript"
	default:
		return "unknown"
	}
}

// RuleSet selects how strictly a script is checked: against the bare
// consensus rules a full node enforces, or additionally against the
// non-consensus policy rules standard relay/mempool nodes enforce on top
// (minimal push/IF encoding, NULLDUMMY, low-S, strict DER/pubkey encoding).
type RuleSet uint8

const (
	// ConsensusOnly checks only the rules that make a script invalid at
	// the consensus level.
	ConsensusOnly RuleSet = iota

	// ConsensusAndPolicy additionally enforces the non-consensus
	// standardness policy rules.
	ConsensusAndPolicy
)

// String implements fmt.Stringer.
func (r RuleSet) String() string {
	switch r {
	case ConsensusOnly:
		return "consensus-only"
	case ConsensusAndPolicy:
		return "consensus-and-policy"
	default:
		return "unknown"
	}
}

// enforcesPolicy reports whether r includes the standardness policy layer.
func (r RuleSet) enforcesPolicy() bool {
	return r == ConsensusAndPolicy
}

// enforcesMinimalIf reports whether the minimal-IF push encoding rule is
// enforced for version v under ruleset r. Tapscript enforces it
// unconditionally as a consensus rule (BIP342); segwit v0 only enforces it
// as a policy rule; legacy scripts never enforce it.
func enforcesMinimalIf(v ScriptVersion, r RuleSet) bool {
	switch v {
	case VersionTapscript:
		return true
	case VersionSegwitV0:
		return r.enforcesPolicy()
	default:
		return false
	}
}

// enforcesMinimalPush reports whether a push opcode must use the shortest
// possible encoding for its payload. BIP342 makes this a consensus rule for
// tapscript; elsewhere it is only the ScriptVerifyMinimalData policy rule.
func enforcesMinimalPush(v ScriptVersion, r RuleSet) bool {
	return v == VersionTapscript || r.enforcesPolicy()
}
