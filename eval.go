// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

// evalOp executes one non-control-flow opcode against p's stack, folding
// symbolically wherever possible. A nil return means p may continue to the
// next opcode. A *pathFailure return means this path alone is pruned - the
// caller in runPath detects the type and discards it silently, exploring no
// further. Any other error (*StaticError, *ResourceError) aborts the whole
// analysis.
func (e *explorer) evalOp(p *pathState, op ParsedOp) error {
	if op.isPush() {
		return e.evalPush(p, op)
	}

	switch op.Op {
	case OP_1NEGATE:
		p.stack.push(newIntValue(-1, 1))
		return nil
	case OP_1, OP_2, OP_3, OP_4, OP_5, OP_6, OP_7, OP_8, OP_9, OP_10,
		OP_11, OP_12, OP_13, OP_14, OP_15, OP_16:
		n := int64(op.Op) - int64(OP_1) + 1
		p.stack.push(newIntValue(n, 1))
		return nil

	case OP_NOP, OP_CODESEPARATOR,
		OP_NOP1, OP_NOP4, OP_NOP5, OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:
		return nil

	case OP_RESERVED, OP_VER, OP_VERIF, OP_VERNOTIF, OP_RESERVED1, OP_RESERVED2:
		return &pathFailure{kind: ErrInvalidOpcode}

	case OP_VERIFY:
		return e.requireTrue(p, p.stack.pop())
	case OP_RETURN:
		return &pathFailure{kind: ErrExplicitReturn}

	case OP_TOALTSTACK:
		p.stack.toAlt()
		return nil
	case OP_FROMALTSTACK:
		if !p.stack.fromAlt() {
			return &pathFailure{kind: ErrAltStackUnderflow}
		}
		return nil
	case OP_2DROP:
		p.stack.popN(2)
		return nil
	case OP_2DUP:
		vs := p.stack.popN(2)
		p.stack.push(vs[0])
		p.stack.push(vs[1])
		p.stack.push(vs[0])
		p.stack.push(vs[1])
		return nil
	case OP_3DUP:
		vs := p.stack.popN(3)
		for _, v := range vs {
			p.stack.push(v)
		}
		for _, v := range vs {
			p.stack.push(v)
		}
		return nil
	case OP_2OVER:
		vs := p.stack.popN(4)
		for _, v := range vs {
			p.stack.push(v)
		}
		p.stack.push(vs[0])
		p.stack.push(vs[1])
		return nil
	case OP_2ROT:
		vs := p.stack.popN(6)
		p.stack.push(vs[2])
		p.stack.push(vs[3])
		p.stack.push(vs[4])
		p.stack.push(vs[5])
		p.stack.push(vs[0])
		p.stack.push(vs[1])
		return nil
	case OP_2SWAP:
		vs := p.stack.popN(4)
		p.stack.push(vs[2])
		p.stack.push(vs[3])
		p.stack.push(vs[0])
		p.stack.push(vs[1])
		return nil
	case OP_DEPTH:
		p.stack.push(newIntValue(int64(p.stack.depth()), defaultMaxNumSize))
		return nil
	case OP_DROP:
		p.stack.pop()
		return nil
	case OP_DUP:
		p.stack.push(p.stack.peek(0))
		return nil
	case OP_NIP:
		p.stack.removeAt(1)
		return nil
	case OP_OVER:
		p.stack.push(p.stack.peek(1))
		return nil
	case OP_PICK, OP_ROLL:
		return e.evalPickRoll(p, op)
	case OP_ROT:
		vs := p.stack.popN(3)
		p.stack.push(vs[1])
		p.stack.push(vs[2])
		p.stack.push(vs[0])
		return nil
	case OP_SWAP:
		p.stack.swap(0, 1)
		return nil
	case OP_TUCK:
		p.stack.insertAt(2, p.stack.peek(0))
		return nil

	case OP_SIZE:
		p.stack.push(newDerivedValue(opSize, p.stack.peek(0)))
		return nil

	case OP_EQUAL:
		b, a := p.stack.pop(), p.stack.pop()
		p.stack.push(newDerivedValue(opEqual, a, b))
		return nil
	case OP_EQUALVERIFY:
		b, a := p.stack.pop(), p.stack.pop()
		return e.requireTrue(p, newDerivedValue(opEqual, a, b))

	case OP_1ADD:
		return e.unary(p, op1Add)
	case OP_1SUB:
		return e.unary(p, op1Sub)
	case OP_NEGATE:
		return e.unary(p, opNegate)
	case OP_ABS:
		return e.unary(p, opAbs)
	case OP_NOT:
		return e.unary(p, opNot)
	case OP_0NOTEQUAL:
		return e.unary(p, op0NotEqual)
	case OP_ADD:
		return e.binary(p, opAdd)
	case OP_SUB:
		return e.binary(p, opSub)
	case OP_BOOLAND:
		return e.binary(p, opBoolAnd)
	case OP_BOOLOR:
		return e.binary(p, opBoolOr)
	case OP_NUMEQUAL:
		return e.binary(p, opNumEqual)
	case OP_NUMEQUALVERIFY:
		b, a := p.stack.pop(), p.stack.pop()
		return e.requireTrue(p, newDerivedValue(opNumEqual, a, b))
	case OP_NUMNOTEQUAL:
		b, a := p.stack.pop(), p.stack.pop()
		eq := newDerivedValue(opNumEqual, a, b)
		p.stack.push(newDerivedValue(opNot, eq))
		return nil
	case OP_LESSTHAN:
		return e.binary(p, opLessThan)
	case OP_GREATERTHAN:
		return e.binary(p, opGreaterThan)
	case OP_LESSTHANOREQUAL:
		return e.binary(p, opLessThanOrEqual)
	case OP_GREATERTHANOREQUAL:
		return e.binary(p, opGreaterThanOrEqual)
	case OP_MIN:
		return e.binary(p, opMin)
	case OP_MAX:
		return e.binary(p, opMax)
	case OP_WITHIN:
		args := p.stack.popN(3)
		p.stack.push(newDerivedValue(opWithin, args[0], args[1], args[2]))
		return nil

	case OP_RIPEMD160:
		return e.unary(p, opRipemd160)
	case OP_SHA1:
		return e.unary(p, opSha1)
	case OP_SHA256:
		return e.unary(p, opSha256)
	case OP_HASH160:
		return e.unary(p, opHash160)
	case OP_HASH256:
		return e.unary(p, opHash256)

	case OP_CHECKSIG:
		return e.evalCheckSig(p, op, false)
	case OP_CHECKSIGVERIFY:
		return e.evalCheckSig(p, op, true)
	case OP_CHECKMULTISIG:
		return e.evalCheckMultisig(p, op, false)
	case OP_CHECKMULTISIGVERIFY:
		return e.evalCheckMultisig(p, op, true)
	case OP_CHECKSIGADD:
		if e.version != VersionTapscript {
			return &pathFailure{kind: ErrInvalidOpcode}
		}
		return e.evalCheckSigAdd(p, op)

	case OP_CHECKLOCKTIMEVERIFY:
		return e.evalCheckLockTimeVerify(p, op)
	case OP_CHECKSEQUENCEVERIFY:
		return e.evalCheckSequenceVerify(p, op)

	default:
		return &pathFailure{kind: ErrInvalidOpcode}
	}
}

// evalPush pushes a literal byte-string operand, enforcing the minimal-push
// encoding rule when the version/ruleset combination requires it.
func (e *explorer) evalPush(p *pathState, op ParsedOp) error {
	if !op.Minimal && enforcesMinimalPush(e.version, e.ruleset) {
		return &pathFailure{kind: ErrNonMinimalPush}
	}
	p.stack.push(newBytesValue(op.Data))
	return nil
}

// unary pops one operand and pushes the symbolic result of applying op to
// it, constant-folding when possible.
func (e *explorer) unary(p *pathState, op exprOp) error {
	v := p.stack.pop()
	p.stack.push(newDerivedValue(op, v))
	return nil
}

// binary pops two operands (deepest first, matching push order) and pushes
// the symbolic result of applying op to them.
func (e *explorer) binary(p *pathState, op exprOp) error {
	args := p.stack.popN(2)
	p.stack.push(newDerivedValue(op, args[0], args[1]))
	return nil
}

// requireTrue consumes v as a *VERIFY-style condition: a statically false
// value prunes the path, a statically true value is silently satisfied, and
// an undecidable value is folded into the path's conjunction (pruning the
// path instead if doing so would contradict an existing predicate).
func (e *explorer) requireTrue(p *pathState, v Value) error {
	if b, ok := v.asBool(); ok {
		if !b {
			return &pathFailure{kind: ErrVerifyFailedStatically}
		}
		return nil
	}
	conj, ok := p.conj.add(predicateForTrue(v))
	if !ok {
		return &pathFailure{kind: ErrUnsatisfiablePredicateSet}
	}
	p.conj = conj
	return nil
}

// evalPickRoll handles OP_PICK (copy) and OP_ROLL (move) of the item n
// positions from the top, where n must be a concrete non-negative index:
// unlike every other stack mover, consensus requires it to be known at
// execution time, and the analyzer has no way to fork over the unbounded
// range of indices a symbolic n could take.
func (e *explorer) evalPickRoll(p *pathState, op ParsedOp) error {
	n := p.stack.pop()
	idx, ok := n.asInt(defaultMaxNumSize)
	if !ok {
		return &StaticError{Kind: ErrNonConcreteRequired, Offset: op.Offset}
	}
	if idx < 0 {
		return &pathFailure{kind: ErrInvalidStackAccess}
	}
	if idx >= maxStackSize {
		return &StaticError{Kind: ErrStackSizeExceeded, Offset: op.Offset}
	}

	if op.Op == OP_PICK {
		p.stack.push(p.stack.peek(int(idx)))
	} else {
		p.stack.push(p.stack.removeAt(int(idx)))
	}
	return nil
}

// consumeSigOpBudget charges one unit against the tapscript sigop budget
// (BIP342: 50 plus one per serialized script byte) for each executed
// CHECKSIG/CHECKSIGADD. Outside tapscript the budget does not apply; the
// legacy/segwit v0 201-opcode cap already governs those versions.
func (e *explorer) consumeSigOpBudget(p *pathState, op ParsedOp) error {
	if e.version != VersionTapscript {
		return nil
	}
	p.stack.sigOpBudget++
	budget := tapscriptSigOpBudgetBase + tapscriptSigOpBudgetPerByte*e.scriptLen
	if p.stack.sigOpBudget > budget {
		return &StaticError{Kind: ErrSigOpBudgetExceeded, Offset: op.Offset}
	}
	return nil
}

// evalCheckSig handles OP_CHECKSIG and, when verify is set,
// OP_CHECKSIGVERIFY.
func (e *explorer) evalCheckSig(p *pathState, op ParsedOp, verify bool) error {
	pubkey := p.stack.pop()
	sig := p.stack.pop()

	if err := e.consumeSigOpBudget(p, op); err != nil {
		return err
	}

	result, err := e.checkSigResult(pubkey, sig)
	if err != nil {
		return err
	}
	if verify {
		return e.requireTrue(p, result)
	}
	p.stack.push(result)
	return nil
}

// evalCheckSigAdd handles the tapscript-only OP_CHECKSIGADD: pubkey, then
// accumulator, then signature are popped (top to bottom), and the
// accumulator is incremented by one iff the signature check succeeds.
func (e *explorer) evalCheckSigAdd(p *pathState, op ParsedOp) error {
	pubkey := p.stack.pop()
	num := p.stack.pop()
	sig := p.stack.pop()

	if err := e.consumeSigOpBudget(p, op); err != nil {
		return err
	}

	result, err := e.checkSigResult(pubkey, sig)
	if err != nil {
		return err
	}
	p.stack.push(newDerivedValue(opAdd, num, result))
	return nil
}

// checkSigResult computes the symbolic boolean a single signature check
// leaves behind, applying the static encoding checks Bitcoin Core performs
// before it ever reaches actual cryptographic verification. An empty
// signature always fails; a tapscript signature of the wrong length or with
// an unrecognized sighash byte can never be satisfied by any witness and
// prunes the path outright, since BIP342 makes those checks part of
// consensus. Outside tapscript, strict DER encoding, sighash-type, and
// low-S are only policy rules (grounded on the original analyzer's
// checksig.rs, which gates them on the "all rules" tier), so under
// ConsensusOnly a malformed legacy/segwit-v0 signature is left as an
// ordinary unresolved signature check rather than pruned - just as a
// concretely malformed pubkey fails the check without aborting, matching
// Bitcoin Core's tolerant (non-fatal) treatment of bad pubkeys - except in
// tapscript, where BIP342 defines any pubkey other than the current
// 32-byte x-only encoding as an unrecognized future type that makes the
// check trivially succeed, for forward compatibility.
func (e *explorer) checkSigResult(pubkey, sig Value) (Value, error) {
	if pubkey.isConcrete() {
		pk := pubkey.toBytes()
		if e.version == VersionTapscript {
			if len(pk) != 32 {
				if sig.isConcrete() && len(sig.toBytes()) == 0 {
					return newBoolValue(false), nil
				}
				return newBoolValue(true), nil
			}
		} else if !isValidPubKeyEncoding(pk) {
			if e.ruleset.enforcesPolicy() {
				return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
			}
			return newBoolValue(false), nil
		}
	}

	sighash := byte(sigHashAll)
	if sig.isConcrete() {
		sb := sig.toBytes()
		switch {
		case len(sb) == 0:
			return newBoolValue(false), nil
		case e.version == VersionTapscript:
			if len(sb) != 64 && len(sb) != 65 {
				return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
			}
			if len(sb) == 65 {
				if !isValidSigHashType(sb[64]) {
					return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
				}
				sighash = sb[64]
			}
		default:
			// Strict DER encoding (BIP66) and low-S are only enforced here
			// as the standardness policy layer, matching the original
			// analyzer: under ConsensusOnly a malformed legacy/segwit-v0
			// signature is never provably invalid, so the path stays open
			// with a generic sighash-all assumption rather than being
			// pruned.
			sighash = sb[len(sb)-1]
			if e.ruleset.enforcesPolicy() {
				if !isValidSignatureEncoding(sb) {
					return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
				}
				if !isValidSigHashType(sighash) {
					return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
				}
				if !isLowS(sb) {
					return Value{}, &pathFailure{kind: ErrVerifyFailedStatically}
				}
			}
		}
	}

	return newSigValidValue(pubkey, sig, sighash), nil
}

// evalCheckMultisig handles OP_CHECKMULTISIG and, when verify is set,
// OP_CHECKMULTISIGVERIFY. Tapscript disables the opcode outright (BIP342);
// elsewhere the pubkey and signature counts must both be concrete, since
// they determine how many stack items the opcode consumes.
func (e *explorer) evalCheckMultisig(p *pathState, op ParsedOp, verify bool) error {
	if e.version == VersionTapscript {
		return &StaticError{Kind: ErrInvalidMultisigCount, Offset: op.Offset}
	}

	nVal := p.stack.pop()
	n, ok := nVal.asInt(defaultMaxNumSize)
	if !ok {
		return &StaticError{Kind: ErrNonConcreteRequired, Offset: op.Offset}
	}
	if n < 0 || n > maxPubKeysPerMultiSig {
		return &StaticError{Kind: ErrInvalidMultisigCount, Offset: op.Offset}
	}
	pubkeys := p.stack.popN(int(n))

	mVal := p.stack.pop()
	m, ok := mVal.asInt(defaultMaxNumSize)
	if !ok {
		return &StaticError{Kind: ErrNonConcreteRequired, Offset: op.Offset}
	}
	if m < 0 || m > n {
		return &StaticError{Kind: ErrInvalidMultisigCount, Offset: op.Offset}
	}
	sigs := p.stack.popN(int(m))

	// CHECKMULTISIG's longstanding off-by-one bug pops one extra, unused
	// element that policy (NULLDUMMY) requires to be empty.
	dummy := p.stack.pop()
	if e.ruleset.enforcesPolicy() {
		if dummy.isConcrete() && len(dummy.toBytes()) != 0 {
			return &pathFailure{kind: ErrVerifyFailedStatically}
		}
	}

	p.stack.opCount += int(n)
	if p.stack.opCount > maxOpsPerScript {
		return &StaticError{Kind: ErrOpcodeCountExceeded, Offset: op.Offset}
	}

	result := newMultisigValidValue(pubkeys, sigs)
	if verify {
		return e.requireTrue(p, result)
	}
	p.stack.push(result)
	return nil
}

// evalCheckLockTimeVerify handles OP_CHECKLOCKTIMEVERIFY. Unlike most
// opcodes it does not pop its argument.
func (e *explorer) evalCheckLockTimeVerify(p *pathState, op ParsedOp) error {
	top := p.stack.peek(0)
	n, ok := top.asInt(5)
	if !ok {
		return &StaticError{Kind: ErrNonConcreteRequired, Offset: op.Offset}
	}
	if n < 0 {
		return &pathFailure{kind: ErrVerifyFailedStatically}
	}
	conj, ok := p.conj.add(newLockTime(n))
	if !ok {
		return &pathFailure{kind: ErrUnsatisfiablePredicateSet}
	}
	p.conj = conj
	return nil
}

// evalCheckSequenceVerify handles OP_CHECKSEQUENCEVERIFY. Like CLTV it does
// not pop its argument; unlike CLTV, the BIP68 disable flag (bit 31) turns
// it into a pure no-op regardless of the rest of the value.
func (e *explorer) evalCheckSequenceVerify(p *pathState, op ParsedOp) error {
	top := p.stack.peek(0)
	n, ok := top.asInt(5)
	if !ok {
		return &StaticError{Kind: ErrNonConcreteRequired, Offset: op.Offset}
	}
	if n < 0 {
		return &pathFailure{kind: ErrVerifyFailedStatically}
	}
	if n&sequenceLocktimeDisableFlag != 0 {
		return nil
	}
	conj, ok := p.conj.add(newSequence(n))
	if !ok {
		return &pathFailure{kind: ErrUnsatisfiablePredicateSet}
	}
	p.conj = conj
	return nil
}
