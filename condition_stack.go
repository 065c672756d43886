// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import "math"

// noFalse is the sentinel value of firstFalsePos meaning "no false entry on
// the stack", matching Bitcoin Core's NO_FALSE sentinel.
const noFalse = math.MaxUint32

// conditionStack tracks the nesting of OP_IF/OP_NOTIF/OP_ELSE/OP_ENDIF
// without materializing a bool per nesting level. It is a direct port of
// Bitcoin Core's interpreter.cpp ConditionStack: execution only cares
// whether every level on the stack is true, so it is enough to track the
// stack depth and the position of the first false entry, if any.
type conditionStack struct {
	stackSize     uint32
	firstFalsePos uint32
}

func newConditionStack() conditionStack {
	return conditionStack{firstFalsePos: noFalse}
}

func (c *conditionStack) empty() bool {
	return c.stackSize == 0
}

// allTrue reports whether every entry currently on the stack is true, i.e.
// whether the opcodes at this nesting level are executed rather than
// skipped.
func (c *conditionStack) allTrue() bool {
	return c.firstFalsePos == noFalse
}

func (c *conditionStack) pushBack(f bool) {
	if c.firstFalsePos == noFalse && !f {
		c.firstFalsePos = c.stackSize
	}
	c.stackSize++
}

func (c *conditionStack) popBack() {
	c.stackSize--
	if c.firstFalsePos == c.stackSize {
		c.firstFalsePos = noFalse
	}
}

// toggleTop implements OP_ELSE: flip the truth value of the innermost
// nesting level.
func (c *conditionStack) toggleTop() {
	if c.firstFalsePos == noFalse {
		c.firstFalsePos = c.stackSize - 1
	} else if c.firstFalsePos == c.stackSize-1 {
		c.firstFalsePos = noFalse
	}
	// Otherwise the false entry is below the top: toggling the top,
	// which is already skipped, changes nothing observable.
}

// clone returns an independent copy, used when the path explorer forks at a
// data-dependent branch.
func (c conditionStack) clone() conditionStack {
	return c
}
