// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

const (
	// maxOpsPerScript is the consensus cap on non-push opcodes for
	// legacy and segwit v0 scripts.
	maxOpsPerScript = 201

	// maxStackSize is the consensus cap on the combined main+alt stack
	// depth at any point during execution.
	maxStackSize = 1000

	// maxScriptElementSize is the consensus cap on the size of a single
	// pushed value.
	maxScriptElementSize = 520

	// maxPubKeysPerMultiSig is the consensus cap on the number of public
	// keys an OP_CHECKMULTISIG(VERIFY) may reference.
	maxPubKeysPerMultiSig = 20

	// maxConditionalNesting bounds the depth of nested OP_IF/OP_NOTIF
	// frames the analyzer will track; exceeding it is treated as a
	// static error rather than let the condition stack grow without
	// bound.
	maxConditionalNesting = 1000

	// tapscriptSigOpBudgetBase and tapscriptSigOpBudgetPerByte implement
	// BIP342's sigops budget: 50 plus one per serialized byte of the
	// script, consumed by each executed CHECKSIG/CHECKSIGADD and (were
	// it not disabled) CHECKMULTISIG.
	tapscriptSigOpBudgetBase    = 50
	tapscriptSigOpBudgetPerByte = 1
)
