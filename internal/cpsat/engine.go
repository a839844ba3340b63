// Package cpsat is the pluggable constraint-solving back end: a small
// capability set — new_bool_var, linear (in)equalities over 0/1 variables,
// conditional implication, minimize, solve-with-limit — that the model
// builder (internal/model) and objective builder
// (internal/objective) are written against. Any back end that can express
// indicator constraints or big-M linearization satisfies this interface;
// the concrete implementation here (SATEngine) compiles the model to CNF
// and solves it with a SAT engine.
package cpsat

import (
	"context"
	"time"
)

// BoolVar is an opaque handle to a decision variable. The zero value is
// not a valid variable; always obtain one from Engine.NewBoolVar.
type BoolVar struct {
	id int
}

// Outcome is the terminal state of a SolveWithLimit call.
type Outcome int

const (
	// Unsolved means the engine never reached a conclusion (used
	// internally; callers only ever observe the three below).
	Unsolved Outcome = iota
	Optimal
	Feasible
	Infeasible
)

// Limits bounds a single solve: a wall-clock deadline, a worker count for
// the engine's internal parallel search, and a fixed random seed so that
// identical inputs reproduce identical outputs.
type Limits struct {
	Deadline time.Duration
	Workers  int
	Seed     int64
}

// Engine is the capability set a model builder needs from a CP/SAT back
// end. Implementations must support incremental construction (variables
// and constraints added over many calls) followed by exactly one solve.
type Engine interface {
	// NewBoolVar creates a fresh 0/1 decision variable.
	NewBoolVar(name string) BoolVar

	// AddAtMostOne posts Σ vars <= 1.
	AddAtMostOne(vars []BoolVar)

	// AddAtMost posts Σ vars <= k.
	AddAtMost(vars []BoolVar, k int)

	// AddExactly posts Σ vars == k.
	AddExactly(vars []BoolVar, k int)

	// AddImplication posts a => b (equivalently a <= b).
	AddImplication(a, b BoolVar)

	// AddImpliesAtLeastOne posts a => OR(options) — a ⇒ at least one of
	// options is true. Used to link an occupancy/aggregate variable to
	// the disjunction of the terms it stands for.
	AddImpliesAtLeastOne(a BoolVar, options []BoolVar)

	// AddImpliesFalse posts a => ¬b.
	AddImpliesFalse(a, b BoolVar)

	// AddConjunctionImplies posts (a AND b) => c. Used by the gap-counting
	// objective: both neighboring timeslots occupied forces
	// the gap indicator true.
	AddConjunctionImplies(a, b, c BoolVar)

	// AddSumEqualsVar posts Σ terms == target, where terms are mutually
	// exclusive (at most one true) and target is 0/1. Used to link a
	// schedule variable to its room-choice mirrors.
	AddSumEqualsVar(terms []BoolVar, target BoolVar)

	// Minimize requests that, subject to all posted constraints, the
	// solve additionally minimize Σ terms. With no call to Minimize, any
	// feasible solution is accepted.
	Minimize(terms []BoolVar)

	// SolveWithLimit runs the solve under the given limits and returns
	// the terminal outcome. After a Feasible or Optimal outcome, Value
	// may be called to read back the assignment.
	SolveWithLimit(ctx context.Context, limits Limits) (Outcome, error)

	// Value returns the assignment of a variable after a successful
	// solve. Undefined before SolveWithLimit returns Feasible/Optimal.
	Value(v BoolVar) bool

	// ObjectiveValue returns the value of the last Minimize call's
	// objective in the returned solution, or nil if Minimize was never
	// called.
	ObjectiveValue() *int
}
