// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import "fmt"

// cmpOp is the comparison used by a LockTime/Sequence predicate.
type cmpOp uint8

const (
	cmpGreaterOrEqual cmpOp = iota
)

func (c cmpOp) String() string {
	switch c {
	case cmpGreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// predicateKind tags the variant of an atomic spending-condition assertion.
type predicateKind uint8

const (
	predIsTrue predicateKind = iota
	predIsFalse
	predEqual
	predSignatureValid
	predHashPreimage
	predLockTime
	predSequence
)

// Predicate is an atomic assertion about witness contents that a spending
// path's success depends on. A Path's accumulated spending condition is a
// conjunction (AND) of Predicates; the Analysis as a whole reports the
// disjunction (OR) of each path's conjunction.
type Predicate struct {
	kind predicateKind

	// IsTrue / IsFalse
	value Value

	// Equal
	lhs, rhs Value

	// SignatureValid
	pubkey, sig Value
	sighashFlag byte

	// HashPreimage
	hashOp      exprOp
	digest      Value
	preimageRef Value

	// LockTime / Sequence
	cmp cmpOp
	n   int64
}

func newIsTrue(v Value) Predicate   { return Predicate{kind: predIsTrue, value: v} }
func newIsFalse(v Value) Predicate  { return Predicate{kind: predIsFalse, value: v} }
func newEqual(a, b Value) Predicate { return Predicate{kind: predEqual, lhs: a, rhs: b} }

func newSignatureValid(pubkey, sig Value, sighashFlag byte) Predicate {
	return Predicate{kind: predSignatureValid, pubkey: pubkey, sig: sig, sighashFlag: sighashFlag}
}

func newHashPreimage(op exprOp, digest, preimageRef Value) Predicate {
	return Predicate{kind: predHashPreimage, hashOp: op, digest: digest, preimageRef: preimageRef}
}

func newLockTime(n int64) Predicate {
	return Predicate{kind: predLockTime, cmp: cmpGreaterOrEqual, n: n}
}

func newSequence(n int64) Predicate {
	return Predicate{kind: predSequence, cmp: cmpGreaterOrEqual, n: n}
}

// newSigValidValue builds the symbolic boolean result of a CHECKSIG-family
// check. It is never constant-folded (see foldConstant), so it always
// reaches a branch point or the end of script as a Derived node.
func newSigValidValue(pubkey, sig Value, sighashFlag byte) Value {
	return newDerivedValue(opSigValid, pubkey, sig, newIntValue(int64(sighashFlag), 1))
}

// newMultisigValidValue builds the symbolic boolean result of a
// CHECKMULTISIG-family check over a concrete count of pubkeys and
// signatures. Like newSigValidValue it never constant-folds.
func newMultisigValidValue(pubkeys, sigs []Value) Value {
	args := make([]Value, 0, len(pubkeys)+len(sigs)+1)
	args = append(args, newIntValue(int64(len(pubkeys)), defaultMaxNumSize))
	args = append(args, pubkeys...)
	args = append(args, sigs...)
	return newDerivedValue(opMultisigValid, args...)
}

// predicateForTrue builds the predicate asserting that v is truthy,
// recognizing two shapes that have a more specific named predicate than
// the generic IsTrue: a CHECKSIG-family result becomes SignatureValid, and
// an equality between a hash expression and a concrete digest becomes
// HashPreimage.
func predicateForTrue(v Value) Predicate {
	if v.kind != kindDerived {
		return newIsTrue(v)
	}
	switch v.op {
	case opSigValid:
		sighash, _ := v.args[2].asInt(1)
		return newSignatureValid(v.args[0], v.args[1], byte(sighash))
	case opEqual:
		if hp, ok := asHashPreimage(v.args[0], v.args[1]); ok {
			return hp
		}
	}
	return newIsTrue(v)
}

// predicateForFalse is predicateForTrue's counterpart for a value that must
// be false. There is no specific named predicate for "signature check
// fails" or "hash does not match" in the spec's predicate taxonomy, so
// these remain generic IsFalse assertions.
func predicateForFalse(v Value) Predicate {
	return newIsFalse(v)
}

// asHashPreimage recognizes an equality between a Derived hash-operator
// expression over an opaque argument and a concrete target digest, and
// reshapes it into a HashPreimage predicate, per the design note that such
// constraints are only emitted at the point of comparison.
func asHashPreimage(a, b Value) (Predicate, bool) {
	if h, target, ok := splitHashEquality(a, b); ok {
		return newHashPreimage(h.op, target, h.args[0]), true
	}
	if h, target, ok := splitHashEquality(b, a); ok {
		return newHashPreimage(h.op, target, h.args[0]), true
	}
	return Predicate{}, false
}

func splitHashEquality(maybeHash, maybeTarget Value) (Value, Value, bool) {
	if maybeHash.kind != kindDerived || !maybeTarget.isConcrete() {
		return Value{}, Value{}, false
	}
	switch maybeHash.op {
	case opHash160, opHash256, opSha256, opSha1, opRipemd160:
		return maybeHash, maybeTarget, true
	default:
		return Value{}, Value{}, false
	}
}

// negate returns the logical negation of p, used when a fork's "else"
// branch needs the complementary predicate (IsFalse for IsTrue and vice
// versa). Only defined for the boolean-branch predicate kinds; other kinds
// are never negated by the path explorer.
func (p Predicate) negate() Predicate {
	switch p.kind {
	case predIsTrue:
		return newIsFalse(p.value)
	case predIsFalse:
		return newIsTrue(p.value)
	default:
		return p
	}
}

// canonicalKey returns a value that totally orders Predicates and is stable
// across runs, used both for conjunction sorting and for contradiction/
// tautology detection.
func (p Predicate) canonicalKey() string {
	switch p.kind {
	case predIsTrue:
		return "T:" + p.value.String()
	case predIsFalse:
		return "F:" + p.value.String()
	case predEqual:
		a, b := p.lhs, p.rhs
		if valueLess(b, a) {
			a, b = b, a
		}
		return "E:" + a.String() + "=" + b.String()
	case predSignatureValid:
		return fmt.Sprintf("S:%s:%s:%d", p.pubkey, p.sig, p.sighashFlag)
	case predHashPreimage:
		return fmt.Sprintf("H:%d:%s:%s", p.hashOp, p.digest, p.preimageRef)
	case predLockTime:
		return fmt.Sprintf("L:%s:%d", p.cmp, p.n)
	case predSequence:
		return fmt.Sprintf("Q:%s:%d", p.cmp, p.n)
	default:
		return "?"
	}
}

func (p Predicate) String() string {
	switch p.kind {
	case predIsTrue:
		return fmt.Sprintf("IsTrue(%s)", p.value)
	case predIsFalse:
		return fmt.Sprintf("IsFalse(%s)", p.value)
	case predEqual:
		return fmt.Sprintf("Equal(%s, %s)", p.lhs, p.rhs)
	case predSignatureValid:
		return fmt.Sprintf("SignatureValid(pubkey=%s, sig=%s, sighash=0x%02x)", p.pubkey, p.sig, p.sighashFlag)
	case predHashPreimage:
		return fmt.Sprintf("HashPreimage(%s, digest=%s, preimage=%s)", exprOpNames[p.hashOp], p.digest, p.preimageRef)
	case predLockTime:
		return fmt.Sprintf("LockTime(%s %d)", p.cmp, p.n)
	case predSequence:
		return fmt.Sprintf("Sequence(%s %d)", p.cmp, p.n)
	default:
		return "?"
	}
}

// isTautological reports whether p is trivially always true and can be
// dropped from a conjunction without changing its meaning: Equal(x, y)
// where x and y are statically equal, i.e. byte-equal concrete values or
// structurally identical symbolic ones.
func (p Predicate) isTautological() bool {
	if p.kind != predEqual {
		return false
	}
	eq, ok := equalValues(p.lhs, p.rhs)
	return ok && eq
}

// conjunction is an ordered, deduplicated set of Predicates that must all
// hold for a path to succeed.
type conjunction []Predicate

// add appends p to the conjunction unless it is tautological or already
// present (by canonical key), returning the extended conjunction and
// whether it is still potentially satisfiable (false if p contradicts an
// existing member).
func (c conjunction) add(p Predicate) (conjunction, bool) {
	if p.isTautological() {
		return c, true
	}
	if p.kind == predLockTime || p.kind == predSequence {
		return mergeLocktimeRequirement(c, p)
	}
	key := p.canonicalKey()
	for _, existing := range c {
		if existing.canonicalKey() == key {
			return c, true
		}
		if contradicts(existing, p) {
			return c, false
		}
	}
	return append(c, p), true
}

// contradicts reports whether a and b cannot both hold: the canonical
// IsTrue/IsFalse-on-identical-value case from §3's invariants.
func contradicts(a, b Predicate) bool {
	if a.kind == predIsTrue && b.kind == predIsFalse && sameStructure(a.value, b.value) {
		return true
	}
	if a.kind == predIsFalse && b.kind == predIsTrue && sameStructure(a.value, b.value) {
		return true
	}
	return false
}

// sorted returns a copy of c ordered by canonical key, for stable output.
func (c conjunction) sorted() conjunction {
	out := make(conjunction, len(c))
	copy(out, c)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].canonicalKey() > out[j].canonicalKey(); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// key returns a string uniquely identifying this conjunction's predicate
// set, used to merge and deduplicate paths in the result normalizer.
func (c conjunction) key() string {
	s := ""
	for _, p := range c.sorted() {
		s += p.canonicalKey() + "|"
	}
	return s
}

// subsumes reports whether c's predicate set is a strict superset of
// other's, meaning a path requiring c is strictly harder to satisfy than
// one requiring other and can be dropped as redundant.
func (c conjunction) subsumes(other conjunction) bool {
	if len(c) <= len(other) {
		return false
	}
	set := make(map[string]bool, len(c))
	for _, p := range c {
		set[p.canonicalKey()] = true
	}
	for _, p := range other {
		if !set[p.canonicalKey()] {
			return false
		}
	}
	return true
}
