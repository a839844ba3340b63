package cpsat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/cpsat"
)

func solveNow(t *testing.T, e *cpsat.SATEngine) cpsat.Outcome {
	t.Helper()
	outcome, err := e.SolveWithLimit(context.Background(), cpsat.Limits{Deadline: 2 * time.Second})
	require.NoError(t, err)
	return outcome
}

func TestAddAtMostOneForbidsTwoSimultaneousTrue(t *testing.T) {
	e := cpsat.NewSATEngine()
	a := e.NewBoolVar("a")
	b := e.NewBoolVar("b")
	e.AddAtMostOne([]cpsat.BoolVar{a, b})
	e.AddExactly([]cpsat.BoolVar{a, b}, 2) // force both true: contradicts at-most-one

	outcome := solveNow(t, e)
	assert.Equal(t, cpsat.Infeasible, outcome)
}

func TestAddExactlyPinsTheCount(t *testing.T) {
	e := cpsat.NewSATEngine()
	vars := []cpsat.BoolVar{e.NewBoolVar("a"), e.NewBoolVar("b"), e.NewBoolVar("c")}
	e.AddExactly(vars, 2)

	outcome := solveNow(t, e)
	require.NotEqual(t, cpsat.Infeasible, outcome)

	count := 0
	for _, v := range vars {
		if e.Value(v) {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestAddImplicationForcesConsequent(t *testing.T) {
	e := cpsat.NewSATEngine()
	a := e.NewBoolVar("a")
	b := e.NewBoolVar("b")
	e.AddImplication(a, b)
	e.AddExactly([]cpsat.BoolVar{a}, 1) // force a true

	outcome := solveNow(t, e)
	require.NotEqual(t, cpsat.Infeasible, outcome)
	assert.True(t, e.Value(b))
}

func TestAddConjunctionImpliesRequiresBothOperands(t *testing.T) {
	e := cpsat.NewSATEngine()
	a := e.NewBoolVar("a")
	b := e.NewBoolVar("b")
	c := e.NewBoolVar("c")
	e.AddConjunctionImplies(a, b, c)
	e.AddExactly([]cpsat.BoolVar{a}, 1)
	e.AddAtMost([]cpsat.BoolVar{b}, 0) // b forced false
	e.AddAtMost([]cpsat.BoolVar{c}, 0) // c forced false: should stay satisfiable since b is false

	outcome := solveNow(t, e)
	assert.NotEqual(t, cpsat.Infeasible, outcome)
}

func TestMinimizeFindsTheSmallestTrueCount(t *testing.T) {
	e := cpsat.NewSATEngine()
	vars := []cpsat.BoolVar{e.NewBoolVar("a"), e.NewBoolVar("b"), e.NewBoolVar("c")}
	e.AddAtLeast(vars, 1) // at least one must be true
	e.Minimize(vars)

	outcome, err := e.SolveWithLimit(context.Background(), cpsat.Limits{Deadline: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, cpsat.Optimal, outcome)
	require.NotNil(t, e.ObjectiveValue())
	assert.Equal(t, 1, *e.ObjectiveValue())
}
