// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package analyzer

import (
	"fmt"
	"strings"
)

// SpendingPath is one disjunct of the script's DNF spending condition: a
// conjunction of Predicates that, if all satisfied by the witness, brings
// this path to a successful end of script.
type SpendingPath struct {
	Conditions      []Predicate
	MinWitnessDepth int
}

// Analysis is the result of successfully analyzing a script: every way it
// can be spent, and the deepest witness stack any of them requires.
type Analysis struct {
	MaxWitnessStackDepth int
	SpendingPaths        []SpendingPath
}

// String renders a, in the same report shape the original analyzer's
// Display implementation used: overall stack depth first, then one block
// per spending path listing its predicates.
func (a *Analysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Max witness stack depth: %d\n", a.MaxWitnessStackDepth)
	if len(a.SpendingPaths) == 0 {
		b.WriteString("Spending paths: none (script is statically unspendable)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Spending paths: %d\n", len(a.SpendingPaths))
	for i, sp := range a.SpendingPaths {
		fmt.Fprintf(&b, "  [%d] min witness depth: %d\n", i, sp.MinWitnessDepth)
		if len(sp.Conditions) == 0 {
			b.WriteString("      (unconditional)\n")
			continue
		}
		for _, pred := range sp.Conditions {
			fmt.Fprintf(&b, "      %s\n", pred)
		}
	}
	return b.String()
}

// normalize turns the raw set of path outcomes the explorer collected into
// the public, deduplicated, stably-ordered Analysis the spec's result
// normalizer describes: equal-predicate-set paths are merged (keeping the
// deeper of their min-witness requirements), subsumed paths are dropped,
// and the surviving paths are ordered by canonical key for deterministic
// output.
func normalize(outcomes []pathOutcome) *Analysis {
	merged := make(map[string]*pathOutcome, len(outcomes))
	var order []string
	for _, o := range outcomes {
		key := o.conj.key()
		if existing, ok := merged[key]; ok {
			if o.minDepth > existing.minDepth {
				existing.minDepth = o.minDepth
			}
			continue
		}
		cp := o
		merged[key] = &cp
		order = append(order, key)
	}

	kept := make([]*pathOutcome, 0, len(order))
	for _, key := range order {
		kept = append(kept, merged[key])
	}

	surviving := make([]*pathOutcome, 0, len(kept))
	for i, o := range kept {
		subsumed := false
		for j, other := range kept {
			if i == j {
				continue
			}
			if o.conj.subsumes(other.conj) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			surviving = append(surviving, o)
		}
	}

	paths := make([]SpendingPath, len(surviving))
	for i, o := range surviving {
		paths[i] = SpendingPath{
			Conditions:      []Predicate(o.conj.sorted()),
			MinWitnessDepth: o.minDepth,
		}
	}
	sortSpendingPaths(paths)

	maxDepth := 0
	for _, p := range paths {
		if p.MinWitnessDepth > maxDepth {
			maxDepth = p.MinWitnessDepth
		}
	}

	return &Analysis{MaxWitnessStackDepth: maxDepth, SpendingPaths: paths}
}

// sortSpendingPaths orders paths lexicographically by their conjunction's
// canonical key, for deterministic output across runs.
func sortSpendingPaths(paths []SpendingPath) {
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0 && conjunction(paths[j-1].Conditions).key() > conjunction(paths[j].Conditions).key(); j-- {
			paths[j-1], paths[j] = paths[j], paths[j-1]
		}
	}
}
