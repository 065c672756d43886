// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"context"
	"sync"
)

// DefaultPathBudget is the default cap on the number of forked paths a
// single analysis may explore before aborting with a ResourceError wrapping
// ErrPathExplosion. Callers can override it with Options.PathBudget.
const DefaultPathBudget = 1 << 20

// Options configures one call to Analyze.
type Options struct {
	// PathBudget caps the number of forks explored. Zero selects
	// DefaultPathBudget.
	PathBudget int

	// WorkerCount, when greater than one, distributes path exploration
	// across that many goroutines sharing one worklist, mirroring the
	// original analyzer's optional thread-pool mode. Zero or one keeps
	// exploration single-goroutine, which is the default and is
	// sufficient for all but the largest tapscript scripts.
	WorkerCount int
}

// pathState is the mutable state threaded through exploration of one
// candidate spending path. Forking at a data-dependent branch clones it.
type pathState struct {
	stack *stackModel
	cond  conditionStack
	conj  conjunction
	pc    int
}

func newPathState() *pathState {
	return &pathState{stack: newStackModel(), cond: newConditionStack()}
}

func (p *pathState) clone() *pathState {
	return &pathState{
		stack: p.stack.clone(),
		cond:  p.cond.clone(),
		conj:  append(conjunction(nil), p.conj...),
		pc:    p.pc,
	}
}

// pathOutcome is what a path explorer run records for each path that
// reaches the terminal success state.
type pathOutcome struct {
	conj     conjunction
	minDepth int
}

// Analyze decodes and symbolically executes script under the given version
// and ruleset, returning every spending condition it can statically
// discover. ctx is checked for cancellation at opcode boundaries and at
// every fork point.
func Analyze(ctx context.Context, script []byte, version ScriptVersion, ruleset RuleSet) (*Analysis, error) {
	return AnalyzeWithOptions(ctx, script, version, ruleset, Options{})
}

// AnalyzeWithOptions is Analyze with explicit resource limits.
func AnalyzeWithOptions(ctx context.Context, script []byte, version ScriptVersion, ruleset RuleSet, opts Options) (*Analysis, error) {
	ops, err := decodeScript(script, version)
	if err != nil {
		return nil, err
	}

	// A tapscript OP_SUCCESSx and a disabled opcode both take effect
	// wherever they sit in the script, reached by a path or not, so both
	// are settled by a scan of the whole opcode stream before exploration.
	// OP_SUCCESSx wins over a disabled opcode (in tapscript every disabled
	// opcode is itself an OP_SUCCESSx).
	if version == VersionTapscript {
		for _, op := range ops {
			if op.Op.isSuccess() {
				return normalize([]pathOutcome{{}}), nil
			}
		}
	}
	for _, op := range ops {
		if op.Op.isDisabled() {
			return nil, &StaticError{Kind: ErrDisabledOpcode, Offset: op.Offset}
		}
	}

	budget := opts.PathBudget
	if budget <= 0 {
		budget = DefaultPathBudget
	}

	e := &explorer{ops: ops, version: version, ruleset: ruleset, budget: budget, ctx: ctx, scriptLen: len(script)}

	var runErr error
	if opts.WorkerCount > 1 {
		runErr = e.runParallel(opts.WorkerCount)
	} else {
		runErr = e.run()
	}
	if runErr != nil {
		log.Debugf("analysis aborted: %v", runErr)
		return nil, runErr
	}
	log.Tracef("analysis explored %d forks, found %d spending paths", e.forkCount, len(e.outcomes))
	return normalize(e.outcomes), nil
}

// explorer drives a depth-first walk of every reachable conditional branch
// of one decoded script.
type explorer struct {
	ops       []ParsedOp
	version   ScriptVersion
	ruleset   RuleSet
	budget    int
	ctx       context.Context
	scriptLen int

	// mu guards forkCount and outcomes. run() never contends on it (there
	// is only one goroutine), but runParallel shares one explorer across
	// workerCount goroutines, so both mutation sites take it
	// unconditionally rather than forking the bookkeeping into a
	// sequential and a synchronized variant.
	mu        sync.Mutex
	forkCount int
	outcomes  []pathOutcome
}

func (e *explorer) run() error {
	worklist := []*pathState{newPathState()}

	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		forks, err := e.runPath(p)
		if err != nil {
			return err
		}
		worklist = append(worklist, forks...)
	}
	return nil
}

// runParallel is run's equivalent for workerCount > 1: the worklist is
// shared across workerCount goroutines instead of walked by one, mirroring
// the original analyzer's optional thread-pool mode (submit_job onto a
// shared job queue drained by a fixed worker count). Workers block on cond
// while the worklist is empty but other workers are still active, and wake
// either when new work is pushed or when the last active worker drains the
// list, at which point every worker observes active == 0 and returns.
func (e *explorer) runParallel(workerCount int) error {
	var (
		mu       sync.Mutex
		cond     = sync.NewCond(&mu)
		worklist = []*pathState{newPathState()}
		active   int
		firstErr error
	)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				for len(worklist) == 0 && active > 0 && firstErr == nil {
					cond.Wait()
				}
				if firstErr != nil || (len(worklist) == 0 && active == 0) {
					mu.Unlock()
					cond.Broadcast() // wake remaining idle workers
					return
				}
				p := worklist[len(worklist)-1]
				worklist = worklist[:len(worklist)-1]
				active++
				mu.Unlock()

				forks, err := e.runPath(p)

				mu.Lock()
				active--
				if err != nil && firstErr == nil {
					firstErr = err
				}
				worklist = append(worklist, forks...)
				cond.Broadcast()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// runPath advances p opcode by opcode until it terminates (success,
// failure, or a further fork). At an executed OP_IF/OP_NOTIF/OP_IFDUP it
// returns the successor states (one when the condition is statically known
// or one branch is unsatisfiable, otherwise two) for the caller to add to
// the worklist; a nil, nil return means p terminated (successfully or not)
// and needs no further exploration.
func (e *explorer) runPath(p *pathState) ([]*pathState, error) {
	for {
		select {
		case <-e.ctx.Done():
			return nil, &ResourceError{Kind: ErrCancelled}
		default:
		}

		if p.pc >= len(e.ops) {
			e.finish(p)
			return nil, nil
		}

		op := e.ops[p.pc]

		if op.Op.isDisabled() {
			return nil, &StaticError{Kind: ErrDisabledOpcode, Offset: op.Offset}
		}
		if e.version == VersionTapscript && op.Op.isSuccess() {
			e.mu.Lock()
			e.outcomes = append(e.outcomes, pathOutcome{minDepth: p.stack.witnessCount()})
			e.mu.Unlock()
			return nil, nil
		}

		// Bitcoin Core counts every opcode above OP_16 toward the
		// legacy/segwit v0 201-opcode budget unconditionally, even on a
		// branch that is never taken - so this check runs before the
		// skip determination below, and is version-independent of
		// witness contents (hence a StaticError rather than a per-path
		// failure).
		if op.Op > OP_16 {
			p.stack.opCount++
			if e.version != VersionTapscript && p.stack.opCount > maxOpsPerScript {
				return nil, &StaticError{Kind: ErrOpcodeCountExceeded, Offset: op.Offset}
			}
		}

		skip := !p.cond.allTrue()

		switch op.Op {
		case OP_IF, OP_NOTIF:
			if skip {
				if p.cond.stackSize >= maxConditionalNesting {
					return nil, &StaticError{Kind: ErrUnbalancedConditional, Offset: op.Offset}
				}
				p.cond.pushBack(false)
				p.pc++
				continue
			}
			forks, err := e.evalIf(p, op)
			if err != nil {
				return nil, err
			}
			return forks, nil
		case OP_ELSE:
			if p.cond.empty() {
				return nil, &StaticError{Kind: ErrUnbalancedConditional, Offset: op.Offset}
			}
			p.cond.toggleTop()
			p.pc++
			continue
		case OP_ENDIF:
			if p.cond.empty() {
				return nil, &StaticError{Kind: ErrUnbalancedConditional, Offset: op.Offset}
			}
			p.cond.popBack()
			p.pc++
			continue
		}

		if skip {
			p.pc++
			continue
		}

		if op.Op == OP_IFDUP {
			forks, err := e.evalIfDup(p)
			if err != nil {
				return nil, err
			}
			if forks != nil {
				return forks, nil
			}
			p.pc++
			continue
		}

		if err := e.evalOp(p, op); err != nil {
			if _, ok := err.(*pathFailure); ok {
				return nil, nil // path pruned, nothing to resume
			}
			return nil, err
		}
		if p.stack.totalDepth() > maxStackSize {
			return nil, &StaticError{Kind: ErrStackSizeExceeded, Offset: op.Offset}
		}
		p.pc++
	}
}

// finish classifies a path that ran off the end of the script with an
// empty if_stack: success iff the remaining stack has a statically- or
// predicate-provably-true top element.
func (e *explorer) finish(p *pathState) {
	if !p.cond.empty() {
		return // unbalanced conditional at end: dropped silently, matches a PathFailure
	}
	if p.stack.depth() == 0 {
		return
	}
	top := p.stack.pop()
	if b, ok := top.asBool(); ok {
		if !b {
			return
		}
		e.mu.Lock()
		e.outcomes = append(e.outcomes, pathOutcome{conj: p.conj, minDepth: p.stack.witnessCount()})
		e.mu.Unlock()
		return
	}
	conj, ok := p.conj.add(predicateForTrue(top))
	if !ok {
		return
	}
	e.mu.Lock()
	e.outcomes = append(e.outcomes, pathOutcome{conj: conj, minDepth: p.stack.witnessCount()})
	e.mu.Unlock()
}

// evalIf handles OP_IF/OP_NOTIF when the current arm is executing: pop the
// condition, and either push a single successor frame when the value is
// statically known, or fork into two successor paths each carrying the
// corresponding branch predicate.
func (e *explorer) evalIf(p *pathState, op ParsedOp) (forks []*pathState, err error) {
	v := p.stack.pop()
	notif := op.Op == OP_NOTIF

	if enforcesMinimalIf(e.version, e.ruleset) && v.isConcrete() {
		b := v.toBytes()
		if len(b) > 1 || (len(b) == 1 && b[0] != 0x01) {
			return nil, nil // path failure: prune silently (PathFailure semantics)
		}
	}

	if p.cond.stackSize >= maxConditionalNesting {
		return nil, &StaticError{Kind: ErrUnbalancedConditional, Offset: op.Offset}
	}

	if b, ok := v.asBool(); ok {
		taken := b != notif
		p.cond.pushBack(taken)
		p.pc++
		return []*pathState{p}, nil
	}

	e.mu.Lock()
	e.forkCount++
	exceeded := e.forkCount > e.budget
	e.mu.Unlock()
	if exceeded {
		return nil, &ResourceError{Kind: ErrPathExplosion}
	}

	left := p
	right := p.clone()

	leftTaken, rightTaken := !notif, notif
	leftPred, rightPred := predicateForTrue(v), predicateForFalse(v)

	var result []*pathState
	if lc, ok := left.conj.add(leftPred); ok {
		left.conj = lc
		left.cond.pushBack(leftTaken)
		left.pc++
		result = append(result, left)
	}
	if rc, ok := right.conj.add(rightPred); ok {
		right.conj = rc
		right.cond.pushBack(rightTaken)
		right.pc++
		result = append(result, right)
	}
	return result, nil
}

// evalIfDup handles OP_IFDUP: it duplicates the top of stack only if that
// value is truthy, making it - uniquely among stack-mover opcodes -
// data-dependent. A statically known value needs no fork; an unknown one
// forks exactly like OP_IF, except both branches continue past the same
// opcode rather than entering a new conditional frame.
func (e *explorer) evalIfDup(p *pathState) ([]*pathState, error) {
	top := p.stack.peek(0)
	if b, ok := top.asBool(); ok {
		if b {
			p.stack.push(top)
			if p.stack.totalDepth() > maxStackSize {
				return nil, &StaticError{Kind: ErrStackSizeExceeded}
			}
		}
		p.pc++
		return []*pathState{p}, nil
	}

	e.mu.Lock()
	e.forkCount++
	exceeded := e.forkCount > e.budget
	e.mu.Unlock()
	if exceeded {
		return nil, &ResourceError{Kind: ErrPathExplosion}
	}

	left := p
	right := p.clone()

	var result []*pathState
	if lc, ok := left.conj.add(predicateForTrue(top)); ok {
		left.conj = lc
		left.stack.push(top)
		if left.stack.totalDepth() <= maxStackSize {
			left.pc++
			result = append(result, left)
		}
	}
	if rc, ok := right.conj.add(predicateForFalse(top)); ok {
		right.conj = rc
		right.pc++
		result = append(result, right)
	}
	return result, nil
}
