// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"fmt"
)

// DecodeErrorKind classifies a failure to parse raw script bytes into an
// opcode stream.
type DecodeErrorKind int

const (
	// ErrUnexpectedEnd is returned when a push opcode's declared length
	// runs past the end of the script.
	ErrUnexpectedEnd DecodeErrorKind = iota
	// ErrScriptTooLong is returned when the script exceeds the byte
	// limit for its ScriptVersion.
	ErrScriptTooLong
	// ErrInvalidPushLength is returned when an OP_PUSHDATAn's declared
	// length is itself malformed (e.g. cannot be read within the
	// remaining bytes).
	ErrInvalidPushLength
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ErrUnexpectedEnd:
		return "unexpected end of script"
	case ErrScriptTooLong:
		return "script exceeds maximum length"
	case ErrInvalidPushLength:
		return "invalid push length"
	default:
		return "unknown decode error"
	}
}

// DecodeError is returned when the raw script bytes cannot be parsed into
// an opcode stream at all.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at offset %d: %s", e.Offset, e.Kind)
}

// StaticErrorKind classifies a failure discovered during symbolic execution
// that is true regardless of which witness values are supplied, and so
// aborts analysis of the whole script rather than pruning a single path.
type StaticErrorKind int

const (
	// ErrDisabledOpcode is raised when a disabled opcode (CVE-2010-5137)
	// appears anywhere in the script, including unreachable branches.
	ErrDisabledOpcode StaticErrorKind = iota
	// ErrUnbalancedConditional is raised when ELSE/ENDIF appear without
	// a matching IF/NOTIF, or when IF/NOTIF nesting exceeds
	// maxConditionalNesting. An IF/NOTIF left open at end of script only
	// fails the path that reaches the end, and raises no error.
	ErrUnbalancedConditional
	// ErrNonConcreteRequired is raised when an opcode that consensus
	// requires a concrete small integer for (PICK, ROLL, multisig
	// counts) instead sees a symbolic value.
	ErrNonConcreteRequired
	// ErrOpcodeCountExceeded is raised when the non-push opcode budget
	// for the script version is exceeded.
	ErrOpcodeCountExceeded
	// ErrStackSizeExceeded is raised when the combined main+alt stack
	// depth exceeds the consensus limit on any path.
	ErrStackSizeExceeded
	// ErrInvalidMultisigCount is raised when a CHECKMULTISIG's pubkey or
	// signature count is out of range, or when CHECKMULTISIG appears at
	// all under tapscript (where it is disabled).
	ErrInvalidMultisigCount
	// ErrSigOpBudgetExceeded is raised when a tapscript's executed
	// CHECKSIG/CHECKSIGADD operations exceed the BIP342 sigop budget
	// (50 plus one per serialized script byte).
	ErrSigOpBudgetExceeded
)

func (k StaticErrorKind) String() string {
	switch k {
	case ErrDisabledOpcode:
		return "disabled opcode"
	case ErrUnbalancedConditional:
		return "unbalanced conditional"
	case ErrNonConcreteRequired:
		return "concrete value required"
	case ErrOpcodeCountExceeded:
		return "opcode count exceeded"
	case ErrStackSizeExceeded:
		return "stack size exceeded"
	case ErrInvalidMultisigCount:
		return "invalid multisig count"
	case ErrSigOpBudgetExceeded:
		return "tapscript sigop budget exceeded"
	default:
		return "unknown static error"
	}
}

// StaticError is returned when symbolic execution discovers a failure that
// holds independent of witness contents. It aborts the entire analysis.
type StaticError struct {
	Kind   StaticErrorKind
	Offset int
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("static error at offset %d: %s", e.Offset, e.Kind)
}

// PathFailureKind classifies why a single symbolic-execution path was
// pruned. Path failures never abort analysis of the other paths.
type PathFailureKind int

const (
	// ErrExplicitReturn is raised when OP_RETURN executes on a path.
	ErrExplicitReturn PathFailureKind = iota
	// ErrVerifyFailedStatically is raised when a *VERIFY opcode's
	// condition is statically false.
	ErrVerifyFailedStatically
	// ErrEmptyStackOnEnd is raised when the main stack is empty at the
	// end of the script.
	ErrEmptyStackOnEnd
	// ErrFalseTopOnEnd is raised when the top of stack is statically
	// false at the end of the script.
	ErrFalseTopOnEnd
	// ErrUnsatisfiablePredicateSet is raised when a path's accumulated
	// conjunction contains a canonical contradiction (IsTrue(x) and
	// IsFalse(x) for the same x).
	ErrUnsatisfiablePredicateSet
	// ErrAltStackUnderflow is raised when OP_FROMALTSTACK executes
	// against an empty altstack. Unlike the main stack, the altstack has
	// no witness region to grow into: Bitcoin Core treats this as a
	// hard script failure, so it prunes the path rather than aborting
	// analysis.
	ErrAltStackUnderflow
	// ErrNonMinimalPush is raised when a push opcode did not use the
	// shortest possible encoding for its payload, under a version/
	// ruleset combination that enforces minimal pushes.
	ErrNonMinimalPush
	// ErrInvalidStackAccess is raised when OP_PICK/OP_ROLL is given a
	// negative or out-of-range (but concrete) index.
	ErrInvalidStackAccess
	// ErrInvalidOpcode is raised when a path actually executes an
	// opcode that is unconditionally invalid wherever it is reached:
	// OP_RESERVED and its siblings, or an opcode unassigned for the
	// script's version (e.g. OP_CHECKSIGADD outside tapscript). Unlike
	// ErrDisabledOpcode, Bitcoin Core only rejects these at the moment
	// of execution, so an unreached branch containing one is harmless.
	ErrInvalidOpcode
)

func (k PathFailureKind) String() string {
	switch k {
	case ErrExplicitReturn:
		return "explicit OP_RETURN"
	case ErrVerifyFailedStatically:
		return "verify failed statically"
	case ErrEmptyStackOnEnd:
		return "empty stack at end of script"
	case ErrFalseTopOnEnd:
		return "false top of stack at end of script"
	case ErrUnsatisfiablePredicateSet:
		return "unsatisfiable predicate set"
	case ErrAltStackUnderflow:
		return "altstack underflow"
	case ErrNonMinimalPush:
		return "non-minimal push"
	case ErrInvalidStackAccess:
		return "invalid stack access index"
	case ErrInvalidOpcode:
		return "invalid opcode executed"
	default:
		return "unknown path failure"
	}
}

// pathFailure is the internal, never-exported-past-the-explorer error a
// path's evaluation terminates with. It prunes exactly that path.
type pathFailure struct {
	kind PathFailureKind
}

func (f *pathFailure) Error() string {
	return f.kind.String()
}

// ResourceErrorKind classifies an abort driven by resource exhaustion or
// caller-requested cancellation rather than the script's own semantics.
type ResourceErrorKind int

const (
	// ErrPathExplosion is raised when the number of forked paths exceeds
	// the analyzer's explicit budget.
	ErrPathExplosion ResourceErrorKind = iota
	// ErrCancelled is raised when the caller's cancellation signal fires
	// mid-analysis.
	ErrCancelled
)

func (k ResourceErrorKind) String() string {
	switch k {
	case ErrPathExplosion:
		return "path explosion"
	case ErrCancelled:
		return "cancelled"
	default:
		return "unknown resource error"
	}
}

// ResourceError is returned when analysis is aborted for reasons unrelated
// to the script's semantics: the path budget was exhausted, or the caller
// cancelled the run.
type ResourceError struct {
	Kind ResourceErrorKind
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error: %s", e.Kind)
}

// AnalyzeError is the error type returned by Analyze. It is always one of
// *DecodeError, *StaticError, or *ResourceError; use errors.As to recover
// the concrete kind and, where applicable, the byte offset.
type AnalyzeError = error
