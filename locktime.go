// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

// sequenceLocktimeDisableFlag, set on bit 31 of a sequence number, disables
// BIP68 relative-locktime semantics for that input entirely.
const sequenceLocktimeDisableFlag = 1 << 31

// sequenceLocktimeTypeFlag, set on bit 22, selects time-based (512-second
// units) rather than block-based relative locktime.
const sequenceLocktimeTypeFlag = 1 << 22

// sequenceLocktimeMask extracts the magnitude from a sequence number once
// the disable/type flag bits are stripped.
const sequenceLocktimeMask = 0x0000ffff

// locktimeThreshold is the boundary between block-height and
// Unix-timestamp interpretations of an absolute locktime/CLTV argument.
const locktimeThreshold = 500000000

// locktimeIsTimeBased reports whether n, interpreted as a CHECKLOCKTIMEVERIFY
// argument, denotes a calendar time rather than a block height.
func locktimeIsTimeBased(n int64) bool {
	return n >= locktimeThreshold
}

// sequenceIsTimeBased reports whether n, interpreted as a
// CHECKSEQUENCEVERIFY argument, denotes a 512-second time interval rather
// than a block count.
func sequenceIsTimeBased(n int64) bool {
	return n&sequenceLocktimeTypeFlag != 0
}

// mergeLocktimeRequirement folds a newly observed LockTime/Sequence
// predicate into an existing conjunction. A script may contain more than
// one CLTV or CSV check on the same path; Bitcoin Core requires all of them
// to agree on type (height vs. time) and the strictest (largest) threshold
// then subsumes the rest. Ported from the original analyzer's
// calculate_locktime_requirements, which performs the same reconciliation
// once per path rather than opcode-by-opcode.
func mergeLocktimeRequirement(existing conjunction, p Predicate) (conjunction, bool) {
	isTimeBased := func(k predicateKind, n int64) bool {
		if k == predLockTime {
			return locktimeIsTimeBased(n)
		}
		return sequenceIsTimeBased(n)
	}

	out := make(conjunction, 0, len(existing)+1)
	merged := false
	newIsTime := isTimeBased(p.kind, p.n)
	for _, e := range existing {
		if e.kind != p.kind {
			out = append(out, e)
			continue
		}
		if isTimeBased(e.kind, e.n) != newIsTime {
			// Same opcode family, one argument implies a block
			// height and the other a calendar time: no witness can
			// satisfy both, so the whole path is unsatisfiable.
			return nil, false
		}
		if e.n >= p.n {
			out = append(out, e)
		} else {
			out = append(out, p)
		}
		merged = true
	}
	if !merged {
		out = append(out, p)
	}
	return out, true
}
