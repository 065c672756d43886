// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

// stackModel is the symbolic main stack plus altstack for one path.
// Copying a stackModel (Go struct copy) is shallow; callers that fork must
// call clone to get independent backing slices.
//
// The main stack lazily materializes fresh WitnessRef values when an
// opcode reaches below the bottom of what is currently tracked - this is
// exactly how the analyzer infers the minimum number of witness elements a
// spending path requires: each such materialization is one more element
// the witness stack must supply. Ported from the teacher's pattern of
// tracking stack depth explicitly rather than over-allocating up front.
type stackModel struct {
	items       []Value
	alt         []Value
	nextWitness int

	// opCount counts non-push opcodes for the legacy/v0 201-opcode cap.
	opCount int
	// sigOpBudget is tapscript's per-CHECKSIG budget; 0 and unused
	// outside VersionTapscript.
	sigOpBudget int
}

func newStackModel() *stackModel {
	return &stackModel{}
}

// clone returns an independent copy for use by a forked path.
func (s *stackModel) clone() *stackModel {
	c := &stackModel{
		nextWitness: s.nextWitness,
		opCount:     s.opCount,
		sigOpBudget: s.sigOpBudget,
	}
	c.items = append([]Value(nil), s.items...)
	c.alt = append([]Value(nil), s.alt...)
	return c
}

// depth returns the number of items currently tracked on the main stack,
// including any lazily materialized witness references.
func (s *stackModel) depth() int {
	return len(s.items)
}

// totalDepth returns the combined main+alt stack depth, which consensus
// bounds by maxStackSize at every step.
func (s *stackModel) totalDepth() int {
	return len(s.items) + len(s.alt)
}

// witnessCount returns the number of witness elements this path has been
// forced to assume exist, i.e. its minimum witness depth so far.
func (s *stackModel) witnessCount() int {
	return s.nextWitness
}

// growTo ensures the main stack has at least n items by materializing
// fresh WitnessRef values at the bottom, oldest-first, exactly mirroring
// how consensus treats the witness stack as the scripts's initial stack.
func (s *stackModel) growTo(n int) {
	for len(s.items) < n {
		v := newWitnessRefValue(s.nextWitness)
		s.nextWitness++
		s.items = append([]Value{v}, s.items...)
	}
}

// push places v on top of the main stack.
func (s *stackModel) push(v Value) {
	s.items = append(s.items, v)
}

// pop removes and returns the top of the main stack, growing the witness
// region first if necessary.
func (s *stackModel) pop() Value {
	s.growTo(1)
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top
}

// peek returns the item i positions from the top (0 = top) without
// removing it, growing the witness region first if necessary.
func (s *stackModel) peek(i int) Value {
	s.growTo(i + 1)
	return s.items[len(s.items)-1-i]
}

// popN pops n items and returns them in the order they were pushed
// (items[0] was pushed first, i.e. deepest of the popped group).
func (s *stackModel) popN(n int) []Value {
	s.growTo(n)
	out := append([]Value(nil), s.items[len(s.items)-n:]...)
	s.items = s.items[:len(s.items)-n]
	return out
}

// removeAt deletes and returns the item i positions from the top (used by
// OP_PICK's sibling OP_ROLL, and by OP_NIP).
func (s *stackModel) removeAt(i int) Value {
	s.growTo(i + 1)
	idx := len(s.items) - 1 - i
	v := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return v
}

// insertAt inserts v at position i positions from the top, shifting
// existing items down (used by OP_TUCK), growing the witness region first
// if fewer than i items are tracked.
func (s *stackModel) insertAt(i int, v Value) {
	s.growTo(i)
	idx := len(s.items) - i
	s.items = append(s.items[:idx], append([]Value{v}, s.items[idx:]...)...)
}

// swap exchanges the items i and j positions from the top.
func (s *stackModel) swap(i, j int) {
	s.growTo(max(i, j) + 1)
	a := len(s.items) - 1 - i
	b := len(s.items) - 1 - j
	s.items[a], s.items[b] = s.items[b], s.items[a]
}

// toAlt moves the top of the main stack onto the altstack.
func (s *stackModel) toAlt() {
	s.alt = append(s.alt, s.pop())
}

// fromAlt moves the top of the altstack onto the main stack. Returns false
// if the altstack is empty: unlike the main stack, there is no witness
// region to grow into here.
func (s *stackModel) fromAlt() (ok bool) {
	if len(s.alt) == 0 {
		return false
	}
	v := s.alt[len(s.alt)-1]
	s.alt = s.alt[:len(s.alt)-1]
	s.push(v)
	return true
}
