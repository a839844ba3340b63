// Package solve orchestrates a single request end to end: derive
// timeslots, run the feasibility pre-check, build the model, optionally
// post the gap objective, solve under a deadline, and decode the result.
package solve

import (
	"context"
	"time"

	"github.com/timetable/engine/internal/cpsat"
	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/feasibility"
	"github.com/timetable/engine/internal/model"
	"github.com/timetable/engine/internal/objective"
	"github.com/timetable/engine/internal/reconstruct"
)

// Options configures a solve.
type Options struct {
	TimeLimit    time.Duration
	OptimizeGaps bool
	Workers      int
	Seed         int64
}

// Result is the outcome of a solve, either a feasibility failure (Report
// populated, Solve nil) or a completed solve (Solve populated).
type Result struct {
	Report *feasibility.Report
	Solve  *domain.SolveResult
}

// NewEngine is overridable by tests to inject a fake cpsat.Engine; it
// defaults to the real SAT-backed engine.
var NewEngine = func() cpsat.Engine { return cpsat.NewSATEngine() }

// Run executes the full pipeline: feasibility check first (abort early on
// any hard error), then model construction, optional objective, solve, and
// decode.
func Run(ctx context.Context, problem *domain.ProblemData, opts Options) *Result {
	timeslots := domain.BuildTimeslotsFrom(problem)

	report := feasibility.Check(problem, timeslots)
	if !report.OK() {
		return &Result{Report: report}
	}

	engine := NewEngine()
	m := model.Build(problem, engine)

	if opts.OptimizeGaps {
		objective.Build(m, problem)
	}

	limits := cpsat.Limits{
		Deadline: opts.TimeLimit,
		Workers:  opts.Workers,
		Seed:     opts.Seed,
	}

	outcome, err := engine.SolveWithLimit(ctx, limits)
	if err != nil {
		return &Result{
			Report: report,
			Solve: &domain.SolveResult{
				Status:    domain.StatusInfeasible,
				Timeslots: timeslots,
			},
		}
	}

	if outcome == cpsat.Infeasible {
		return &Result{
			Report: report,
			Solve: &domain.SolveResult{
				Status:    domain.StatusInfeasible,
				Timeslots: timeslots,
			},
		}
	}

	bySection, byFaculty := reconstruct.Decode(m, problem)
	nonBreak := domain.NonBreak(timeslots)
	availableRooms, availableFaculty := reconstruct.Availability(problem, nonBreak, bySection, byFaculty)

	status := domain.StatusFeasible
	if outcome == cpsat.Optimal {
		status = domain.StatusOptimal
	}

	return &Result{
		Report: report,
		Solve: &domain.SolveResult{
			Status:            status,
			ScheduleBySection: bySection,
			ScheduleByFaculty: byFaculty,
			Timeslots:         timeslots,
			ObjectiveValue:    engine.ObjectiveValue(),
			AvailableRooms:    availableRooms,
			AvailableFaculty:  availableFaculty,
		},
	}
}
