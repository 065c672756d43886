// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package analyzer implements a static analyzer for Bitcoin Script.
//
// Rather than executing a script against a concrete witness stack, it
// symbolically executes it: every witness element is an opaque, unknown
// value and every opcode is evaluated over symbolic expressions instead of
// concrete bytes. Conditional branches (OP_IF/OP_NOTIF, and OP_IFDUP, since
// duplicating the top item is itself data-dependent) are explored along
// every reachable path via depth-first search over a compact condition
// stack borrowed from Bitcoin Core's interpreter.
//
// The result of analyzing a script is an Analysis: the maximum number of
// witness stack elements required to satisfy any path, and the spending
// conditions collected along every successful path, expressed as a
// disjunction of conjunctions (DNF) of predicates over the witness
// elements.
package analyzer
