// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chainhash/v2"
	"golang.org/x/crypto/ripemd160"
)

// valueKind tags the variant held by a Value.
type valueKind uint8

const (
	kindBytes valueKind = iota
	kindInt
	kindBool
	kindWitnessRef
	kindDerived
)

// exprOp names the operator of a Derived expression node.
type exprOp uint8

const (
	opHash160 exprOp = iota
	opHash256
	opSha256
	opSha1
	opRipemd160
	opEqual
	opAdd
	opSub
	opNegate
	opAbs
	op1Add
	op1Sub
	opSize
	opBoolAnd
	opBoolOr
	opNot
	op0NotEqual
	opNumEqual
	opLessThan
	opGreaterThan
	opLessThanOrEqual
	opGreaterThanOrEqual
	opMin
	opMax
	opWithin

	// opSigValid represents the result of a CHECKSIG-family check: args
	// are [pubkey, sig, sighashFlag]. It never constant-folds - the
	// analyzer never performs real cryptographic verification - so it
	// always surfaces as a Derived node until consumed, at which point
	// predicateForTrue/predicateForFalse turn it into a SignatureValid
	// predicate instead of a generic IsTrue/IsFalse.
	opSigValid

	// opMultisigValid is opSigValid's CHECKMULTISIG-family counterpart:
	// args are all candidate pubkeys followed by all supplied signatures,
	// with no fixed arity. There is no predicate kind in the taxonomy
	// specific enough to describe "these m of n signatures verify", so it
	// surfaces through predicateForTrue/predicateForFalse as a generic
	// IsTrue/IsFalse over the Derived node rather than a named predicate.
	opMultisigValid
)

var exprOpNames = map[exprOp]string{
	opHash160: "HASH160", opHash256: "HASH256", opSha256: "SHA256", opSha1: "SHA1",
	opRipemd160: "RIPEMD160", opEqual: "EQUAL", opAdd: "ADD", opSub: "SUB",
	opNegate: "NEGATE", opAbs: "ABS", op1Add: "1ADD", op1Sub: "1SUB", opSize: "SIZE",
	opBoolAnd: "BOOLAND", opBoolOr: "BOOLOR", opNot: "NOT", op0NotEqual: "0NOTEQUAL",
	opNumEqual: "NUMEQUAL", opLessThan: "LESSTHAN", opGreaterThan: "GREATERTHAN",
	opLessThanOrEqual: "LESSTHANOREQUAL", opGreaterThanOrEqual: "GREATERTHANOREQUAL",
	opMin: "MIN", opMax: "MAX", opWithin: "WITHIN", opSigValid: "CHECKSIG",
	opMultisigValid: "CHECKMULTISIG",
}

// commutative reports whether swapping op's first two arguments leaves its
// result unchanged, used by the symbolic expression canonicalizer to put
// commutative operands into a stable sort order.
func (op exprOp) commutative() bool {
	switch op {
	case opAdd, opEqual, opBoolAnd, opBoolOr, opNumEqual, opMin, opMax:
		return true
	default:
		return false
	}
}

// Value is a symbolic stack element: a sealed sum type over the variants a
// script operand can take during abstract interpretation. The zero Value is
// not meaningful; construct one with newBytesValue, newIntValue,
// newBoolValue, newWitnessRefValue, or newDerivedValue.
type Value struct {
	kind     valueKind
	bytes    []byte
	intVal   int64
	intWidth int
	boolVal  bool
	witness  int
	op       exprOp
	args     []Value
}

func newBytesValue(b []byte) Value {
	return Value{kind: kindBytes, bytes: b}
}

func newIntValue(n int64, width int) Value {
	return Value{kind: kindInt, intVal: n, intWidth: width}
}

func newBoolValue(b bool) Value {
	return Value{kind: kindBool, boolVal: b}
}

func newWitnessRefValue(i int) Value {
	return Value{kind: kindWitnessRef, witness: i}
}

// isConcrete reports whether v's exact bytes are known without reference to
// any witness element.
func (v Value) isConcrete() bool {
	return v.kind == kindBytes || v.kind == kindInt || v.kind == kindBool
}

// toBytes renders a concrete Value the way it would appear on the real
// stack. It panics if v is not concrete; callers must check isConcrete
// first.
func (v Value) toBytes() []byte {
	switch v.kind {
	case kindBytes:
		return v.bytes
	case kindInt:
		return encodeNum(v.intVal)
	case kindBool:
		return encodeBool(v.boolVal)
	default:
		panic("toBytes on non-concrete Value")
	}
}

// asBool attempts to statically reduce v to a boolean. The second return
// value reports whether the reduction was possible; when false, the
// evaluator must branch on an IsTrue/IsFalse predicate instead.
func (v Value) asBool() (result bool, ok bool) {
	switch v.kind {
	case kindBool:
		return v.boolVal, true
	case kindBytes:
		return decodeBool(v.bytes), true
	case kindInt:
		return v.intVal != 0, true
	default:
		return false, false
	}
}

// asInt attempts to statically decode v as a script number of at most
// maxSize bytes.
func (v Value) asInt(maxSize int) (n int64, ok bool) {
	switch v.kind {
	case kindInt:
		if v.intWidth > maxSize {
			return 0, false
		}
		return v.intVal, true
	case kindBool:
		if v.boolVal {
			return 1, true
		}
		return 0, true
	case kindBytes:
		return decodeNum(v.bytes, maxSize)
	default:
		return 0, false
	}
}

// equalValues reports whether a and b are statically known to be equal.
// Both must be concrete for a definite "true"; either side being
// non-concrete but structurally identical (same Derived tree or same
// WitnessRef) also counts, matching the spec's "statically equal iff
// byte-equal when concrete" rule extended to structural identity for
// non-concrete values used by the predicate canonicalizer.
func equalValues(a, b Value) (result bool, ok bool) {
	if a.isConcrete() && b.isConcrete() {
		return bytes.Equal(a.toBytes(), b.toBytes()), true
	}
	if sameStructure(a, b) {
		return true, true
	}
	if a.isConcrete() != b.isConcrete() {
		// One concrete, one symbolic: could still be equal at runtime,
		// but not statically decidable either way.
		return false, false
	}
	return false, false
}

// sameStructure reports whether a and b are built from identical
// constructors all the way down (same WitnessRef index, or same Derived
// operator applied to structurally-identical canonicalized arguments).
func sameStructure(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case kindWitnessRef:
		return a.witness == b.witness
	case kindDerived:
		if a.op != b.op || len(a.args) != len(b.args) {
			return false
		}
		ca, cb := canonicalizeDerived(a.op, a.args), canonicalizeDerived(b.op, b.args)
		for i := range ca {
			if !sameStructure(ca[i], cb[i]) {
				return false
			}
		}
		return true
	case kindBytes:
		return bytes.Equal(a.bytes, b.bytes)
	case kindInt:
		return a.intVal == b.intVal
	case kindBool:
		return a.boolVal == b.boolVal
	default:
		return false
	}
}

// canonicalizeDerived returns args sorted into a stable total order when op
// is commutative, otherwise returns args unchanged. This is what makes
// structural equality of Derived trees insensitive to operand order for
// operators where Bitcoin Script semantics permit it (ADD, EQUAL, BOOLAND,
// BOOLOR, NUMEQUAL, MIN, MAX).
func canonicalizeDerived(op exprOp, args []Value) []Value {
	if !op.commutative() {
		return args
	}
	sorted := make([]Value, len(args))
	copy(sorted, args)
	sort.SliceStable(sorted, func(i, j int) bool {
		return valueLess(sorted[i], sorted[j])
	})
	return sorted
}

// valueLess defines the total order used to sort commutative operands and
// to order predicates/conjunctions for stable output: first by kind, then
// by kind-specific payload.
func valueLess(a, b Value) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	switch a.kind {
	case kindBytes:
		return bytes.Compare(a.bytes, b.bytes) < 0
	case kindInt:
		return a.intVal < b.intVal
	case kindBool:
		return !a.boolVal && b.boolVal
	case kindWitnessRef:
		return a.witness < b.witness
	case kindDerived:
		if a.op != b.op {
			return a.op < b.op
		}
		ca, cb := canonicalizeDerived(a.op, a.args), canonicalizeDerived(b.op, b.args)
		for i := 0; i < len(ca) && i < len(cb); i++ {
			if valueLess(ca[i], cb[i]) {
				return true
			}
			if valueLess(cb[i], ca[i]) {
				return false
			}
		}
		return len(ca) < len(cb)
	default:
		return false
	}
}

// String renders v for diagnostics and for the human-readable report,
// recursing into Derived trees.
func (v Value) String() string {
	switch v.kind {
	case kindBytes:
		return fmt.Sprintf("%x", v.bytes)
	case kindInt:
		return fmt.Sprintf("%d", v.intVal)
	case kindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case kindWitnessRef:
		return fmt.Sprintf("witness[%d]", v.witness)
	case kindDerived:
		args := make([]string, len(v.args))
		for i, a := range v.args {
			args[i] = a.String()
		}
		name := exprOpNames[v.op]
		s := name + "("
		for i, a := range args {
			if i > 0 {
				s += ", "
			}
			s += a
		}
		return s + ")"
	default:
		return "?"
	}
}

// newDerivedValue is the single smart constructor for Derived nodes. It
// constant-folds eagerly whenever every argument is concrete, so a Derived
// value is only ever observed with at least one non-concrete child -
// matching the invariant in §3 of keeping the symbolic tree minimal.
func newDerivedValue(op exprOp, args ...Value) Value {
	if folded, ok := foldConstant(op, args); ok {
		return folded
	}
	return Value{kind: kindDerived, op: op, args: canonicalizeDerived(op, args)}
}

// foldConstant evaluates op over args when every argument is concrete,
// reproducing exactly the byte-level semantics of the corresponding Bitcoin
// Script opcode.
func foldConstant(op exprOp, args []Value) (Value, bool) {
	if op == opSigValid || op == opMultisigValid {
		return Value{}, false
	}
	for _, a := range args {
		if !a.isConcrete() {
			return Value{}, false
		}
	}
	switch op {
	case opHash160:
		return newBytesValue(hash160(args[0].toBytes())), true
	case opHash256:
		return newBytesValue(hash256(args[0].toBytes())), true
	case opSha256:
		h := sha256.Sum256(args[0].toBytes())
		return newBytesValue(h[:]), true
	case opSha1:
		h := sha1.Sum(args[0].toBytes())
		return newBytesValue(h[:]), true
	case opRipemd160:
		return newBytesValue(ripemd160Sum(args[0].toBytes())), true
	case opEqual:
		eq, _ := equalValues(args[0], args[1])
		return newBoolValue(eq), true
	case opSize:
		return newIntValue(int64(len(args[0].toBytes())), defaultMaxNumSize), true
	}

	a, aok := args[0].asInt(defaultMaxNumSize)
	if !aok {
		return Value{}, false
	}
	switch op {
	case opNegate:
		return newIntValue(-a, defaultMaxNumSize), true
	case opAbs:
		if a < 0 {
			a = -a
		}
		return newIntValue(a, defaultMaxNumSize), true
	case op1Add:
		return newIntValue(a+1, defaultMaxNumSize), true
	case op1Sub:
		return newIntValue(a-1, defaultMaxNumSize), true
	case opNot:
		return newBoolValue(a == 0), true
	case op0NotEqual:
		return newBoolValue(a != 0), true
	}

	if len(args) < 2 {
		return Value{}, false
	}
	b, bok := args[1].asInt(defaultMaxNumSize)
	if !bok {
		return Value{}, false
	}
	switch op {
	case opAdd:
		return newIntValue(a+b, defaultMaxNumSize), true
	case opSub:
		return newIntValue(a-b, defaultMaxNumSize), true
	case opBoolAnd:
		return newBoolValue(a != 0 && b != 0), true
	case opBoolOr:
		return newBoolValue(a != 0 || b != 0), true
	case opNumEqual:
		return newBoolValue(a == b), true
	case opLessThan:
		return newBoolValue(a < b), true
	case opGreaterThan:
		return newBoolValue(a > b), true
	case opLessThanOrEqual:
		return newBoolValue(a <= b), true
	case opGreaterThanOrEqual:
		return newBoolValue(a >= b), true
	case opMin:
		if a < b {
			return newIntValue(a, defaultMaxNumSize), true
		}
		return newIntValue(b, defaultMaxNumSize), true
	case opMax:
		if a > b {
			return newIntValue(a, defaultMaxNumSize), true
		}
		return newIntValue(b, defaultMaxNumSize), true
	case opWithin:
		if len(args) < 3 {
			return Value{}, false
		}
		c, cok := args[2].asInt(defaultMaxNumSize)
		if !cok {
			return Value{}, false
		}
		return newBoolValue(a >= b && a < c), true
	}
	return Value{}, false
}

func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	return ripemd160Sum(sha[:])
}

func hash256(b []byte) []byte {
	return chainhash.DoubleHashB(b)
}

func ripemd160Sum(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)
}
