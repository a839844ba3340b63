package cpsat

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// lit is a build-time literal reference: a BoolVar id plus polarity. Clauses
// are recorded in terms of lit rather than z.Lit so that the same clause log
// can be replayed against any number of independent gini.Gini instances —
// one per search worker — each minting its own z.Lit handles.
type lit struct {
	id  int
	neg bool
}

func posLit(v BoolVar) lit { return lit{id: v.id} }
func negLit(v BoolVar) lit { return lit{id: v.id, neg: true} }
func (l lit) not() lit     { return lit{id: l.id, neg: !l.neg} }

// SATEngine implements Engine on top of a CNF/SAT solver
// (github.com/irifrance/gini). Cardinality constraints are compiled once
// into CNF: at-most-one by pairwise exclusion, at-most-k and exactly-k with
// the sequential counter encoding (Sinz 2005); everything else is a handful
// of 2-3 literal clauses. Construction only records the clause log; SolveWithLimit replays
// it onto one gini.Gini instance per worker so the search itself runs in
// parallel. Minimize performs a linear-scan branch-and-bound per worker:
// solve, record the incumbent, tighten the objective's upper bound by one,
// and resolve, stopping when the bound becomes unsatisfiable or the
// deadline passes — keeping the best incumbent that worker found.
type SATEngine struct {
	varCount int
	names    []string
	clauses  [][]lit

	objective []BoolVar
	objVal    *int
	assignment []bool
}

// NewSATEngine constructs an empty engine.
func NewSATEngine() *SATEngine {
	return &SATEngine{}
}

func (e *SATEngine) NewBoolVar(name string) BoolVar {
	id := e.varCount
	e.varCount++
	e.names = append(e.names, name)
	return BoolVar{id: id}
}

func (e *SATEngine) addClause(lits ...lit) {
	e.clauses = append(e.clauses, append([]lit(nil), lits...))
}

// AddAtMostOne posts Σ vars <= 1 via pairwise mutual exclusion — cheap and
// exact for the small per-slot groups this model ever builds (at most a
// handful of courses/labs contending for one section's timeslot).
func (e *SATEngine) AddAtMostOne(vars []BoolVar) {
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			e.addClause(negLit(vars[i]), negLit(vars[j]))
		}
	}
}

// AddAtMost posts Σ vars <= k using the sequential counter encoding.
func (e *SATEngine) AddAtMost(vars []BoolVar, k int) {
	n := len(vars)
	if k < 0 {
		k = 0
	}
	if n == 0 || k >= n {
		return
	}
	if k == 0 {
		for _, v := range vars {
			e.addClause(negLit(v))
		}
		return
	}
	if k == 1 {
		e.AddAtMostOne(vars)
		return
	}

	// s[i][j] (1<=i<=n-1, 1<=j<=k): "at least j of x_1..x_i are true".
	s := make([][]lit, n)
	for i := 1; i <= n-1; i++ {
		s[i] = make([]lit, k+1)
		for j := 1; j <= k; j++ {
			s[i][j] = posLit(e.NewBoolVar(fmt.Sprintf("amk_s%d_%d", i, j)))
		}
	}
	x := func(i int) lit { return posLit(vars[i-1]) }

	e.addClause(x(1).not(), s[1][1])
	for j := 2; j <= k; j++ {
		e.addClause(s[1][j].not())
	}
	for i := 2; i <= n-1; i++ {
		e.addClause(x(i).not(), s[i][1])
		e.addClause(s[i-1][1].not(), s[i][1])
		for j := 2; j <= k; j++ {
			e.addClause(x(i).not(), s[i-1][j-1].not(), s[i][j])
			e.addClause(s[i-1][j].not(), s[i][j])
		}
		e.addClause(x(i).not(), s[i-1][k].not())
	}
	e.addClause(x(n).not(), s[n-1][k].not())
}

// AddAtLeast posts Σ vars >= k, by De Morgan reduction to an at-most
// constraint over the negated literals: at least k of n true <=> at most
// n-k of n false.
func (e *SATEngine) AddAtLeast(vars []BoolVar, k int) {
	n := len(vars)
	if k <= 0 {
		return
	}
	if k > n {
		// Unsatisfiable: force conflict with an empty clause.
		e.addClause()
		return
	}
	negated := make([]BoolVar, n)
	for i, v := range vars {
		aux := e.NewBoolVar(fmt.Sprintf("~%d", v.id))
		e.addClause(negLit(aux), negLit(v))
		e.addClause(posLit(aux), posLit(v))
		negated[i] = aux
	}
	e.AddAtMost(negated, n-k)
}

func (e *SATEngine) AddExactly(vars []BoolVar, k int) {
	e.AddAtMost(vars, k)
	e.AddAtLeast(vars, k)
}

func (e *SATEngine) AddImplication(a, b BoolVar) {
	e.addClause(negLit(a), posLit(b))
}

func (e *SATEngine) AddImpliesFalse(a, b BoolVar) {
	e.addClause(negLit(a), negLit(b))
}

// AddConjunctionImplies posts (a AND b) => c as a single clause
// ¬a ∨ ¬b ∨ c.
func (e *SATEngine) AddConjunctionImplies(a, b, c BoolVar) {
	e.addClause(negLit(a), negLit(b), posLit(c))
}

func (e *SATEngine) AddImpliesAtLeastOne(a BoolVar, options []BoolVar) {
	lits := make([]lit, 0, len(options)+1)
	lits = append(lits, negLit(a))
	for _, o := range options {
		lits = append(lits, posLit(o))
	}
	e.addClause(lits...)
}

// AddSumEqualsVar posts Σ terms == target, assuming terms are mutually
// exclusive: target is forced true iff some term is true, and at most one
// term may be true (constraint 5's room choice is always over disjoint
// alternatives, so this is exact, not an approximation).
func (e *SATEngine) AddSumEqualsVar(terms []BoolVar, target BoolVar) {
	e.AddAtMostOne(terms)
	e.AddImpliesAtLeastOne(target, terms)
	for _, t := range terms {
		e.AddImplication(t, target)
	}
}

func (e *SATEngine) Minimize(terms []BoolVar) {
	e.objective = terms
}

func (e *SATEngine) Value(v BoolVar) bool {
	if e.assignment == nil {
		return false
	}
	return e.assignment[v.id]
}

func (e *SATEngine) ObjectiveValue() *int { return e.objVal }

// solveRun is one worker's private gini.Gini instance plus the z.Lit handle
// for every BoolVar id, replayed fresh from the engine's clause log.
type solveRun struct {
	g  *gini.Gini
	ls []z.Lit
}

func (e *SATEngine) buildRun(order []int) *solveRun {
	g := gini.New()
	ls := make([]z.Lit, e.varCount)
	for i := range ls {
		ls[i] = g.Lit()
	}
	resolve := func(l lit) z.Lit {
		zl := ls[l.id]
		if l.neg {
			return zl.Not()
		}
		return zl
	}
	for _, idx := range order {
		for _, l := range e.clauses[idx] {
			g.Add(resolve(l))
		}
		g.Add(z.LitNull)
	}
	return &solveRun{g: g, ls: ls}
}

// clauseOrder returns the clause replay order for a worker: the identity
// order when seed is 0 (so the single-worker, no-seed case is bit-for-bit
// the order clauses were built in), otherwise a seeded Fisher-Yates
// permutation. Replaying the same clauses in a different order changes
// nothing about satisfiability but does change the search trajectory, which
// is what gives distinct workers distinct attempts and gives a given seed a
// reproducible one.
func clauseOrder(n int, seed int64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if seed == 0 {
		return order
	}
	rand.New(rand.NewSource(seed)).Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// attemptResult is one worker's outcome: its terminal status, the
// assignment behind it (nil if infeasible), and the objective value it
// reached (nil if no objective was posted or the worker never found a
// feasible solution).
type attemptResult struct {
	outcome    Outcome
	assignment []bool
	objVal     *int
}

// runAttempt solves run to the deadline and, when an objective is posted,
// performs branch-and-bound tightening entirely within this worker's own
// gini instance: the tightening clauses are never recorded on the engine,
// since each worker's bound-tightening is private to its own attempt.
func (e *SATEngine) runAttempt(run *solveRun, deadline time.Time) attemptResult {
	res := tryWithin(run.g, time.Until(deadline))
	if res <= 0 {
		return attemptResult{outcome: Infeasible}
	}
	if len(e.objective) == 0 {
		return attemptResult{outcome: Feasible, assignment: snapshot(run)}
	}

	best := sumTrue(run, e.objective)
	bestAssign := snapshot(run)
	optimal := false

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if best == 0 {
			optimal = true
			break
		}
		bound := best - 1
		addAtMostRaw(run.g, run.ls, objectiveLits(e.objective), bound)
		res := tryWithin(run.g, time.Until(deadline))
		if res < 0 {
			optimal = true // tightening further made it unsatisfiable: previous incumbent is optimal
			break
		}
		if res == 0 {
			break // deadline reached before the tighter bound was decided: incumbent stays Feasible
		}
		best = sumTrue(run, e.objective)
		bestAssign = snapshot(run)
	}

	status := Feasible
	if optimal {
		status = Optimal
	}
	return attemptResult{outcome: status, assignment: bestAssign, objVal: &best}
}

func objectiveLits(vars []BoolVar) []lit {
	out := make([]lit, len(vars))
	for i, v := range vars {
		out[i] = posLit(v)
	}
	return out
}

func tryWithin(g *gini.Gini, budget time.Duration) int {
	if budget <= 0 {
		return 0
	}
	return g.Try(budget)
}

func snapshot(run *solveRun) []bool {
	out := make([]bool, len(run.ls))
	for i, l := range run.ls {
		out[i] = run.g.Value(l)
	}
	return out
}

func sumTrue(run *solveRun, vars []BoolVar) int {
	n := 0
	for _, v := range vars {
		if run.g.Value(run.ls[v.id]) {
			n++
		}
	}
	return n
}

// addAtMostRaw posts Σ vars <= k directly against a worker's own (g, ls)
// pair, the same sequential counter encoding AddAtMost uses, but without
// touching the engine's permanent clause log — these tightening clauses
// belong to one worker's branch-and-bound attempt only.
func addAtMostRaw(g *gini.Gini, ls []z.Lit, vars []lit, k int) {
	n := len(vars)
	if k < 0 {
		k = 0
	}
	if n == 0 || k >= n {
		return
	}
	resolve := func(l lit) z.Lit {
		zl := ls[l.id]
		if l.neg {
			return zl.Not()
		}
		return zl
	}
	add := func(lits ...z.Lit) {
		for _, zl := range lits {
			g.Add(zl)
		}
		g.Add(z.LitNull)
	}
	if k == 0 {
		for _, v := range vars {
			add(resolve(v).Not())
		}
		return
	}
	if k == 1 {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				add(resolve(vars[i]).Not(), resolve(vars[j]).Not())
			}
		}
		return
	}

	s := make([][]z.Lit, n)
	for i := 1; i <= n-1; i++ {
		s[i] = make([]z.Lit, k+1)
		for j := 1; j <= k; j++ {
			s[i][j] = g.Lit()
		}
	}
	x := func(i int) z.Lit { return resolve(vars[i-1]) }

	add(x(1).Not(), s[1][1])
	for j := 2; j <= k; j++ {
		add(s[1][j].Not())
	}
	for i := 2; i <= n-1; i++ {
		add(x(i).Not(), s[i][1])
		add(s[i-1][1].Not(), s[i][1])
		for j := 2; j <= k; j++ {
			add(x(i).Not(), s[i-1][j-1].Not(), s[i][j])
			add(s[i-1][j].Not(), s[i][j])
		}
		add(x(i).Not(), s[i-1][k].Not())
	}
	add(x(n).Not(), s[n-1][k].Not())
}

// SolveWithLimit runs limits.Workers independent search attempts in
// parallel — each replaying this engine's full clause log onto its own
// gini.Gini instance in a worker-and-seed-specific order — and keeps
// whichever attempt reached the best terminal status (Optimal beats
// Feasible beats Infeasible; among equal statuses with an objective posted,
// the lower objective value wins). Worker 0 under seed 0 always replays in
// the order clauses were built, so the common case (no seed, no extra
// workers) is unchanged from a single direct solve.
func (e *SATEngine) SolveWithLimit(ctx context.Context, limits Limits) (Outcome, error) {
	deadline := time.Now().Add(limits.Deadline)
	workers := limits.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]attemptResult, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			var workerSeed int64
			if limits.Seed != 0 || w > 0 {
				workerSeed = limits.Seed*1_000003 + int64(w) + 1
			}
			run := e.buildRun(clauseOrder(len(e.clauses), workerSeed))
			results[w] = e.runAttempt(run, deadline)
		}()
	}
	wg.Wait()

	best := pickBestAttempt(results)
	e.assignment = best.assignment
	e.objVal = best.objVal
	return best.outcome, nil
}

func pickBestAttempt(results []attemptResult) attemptResult {
	best := results[0]
	for _, r := range results[1:] {
		if outcomeRank(r.outcome) > outcomeRank(best.outcome) {
			best = r
			continue
		}
		if outcomeRank(r.outcome) == outcomeRank(best.outcome) &&
			r.objVal != nil && best.objVal != nil && *r.objVal < *best.objVal {
			best = r
		}
	}
	return best
}

func outcomeRank(o Outcome) int {
	switch o {
	case Optimal:
		return 2
	case Feasible:
		return 1
	default:
		return 0
	}
}
