package model_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/cpsat"
	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/model"
)

func trivialWeek() []domain.DayPeriod {
	var days []domain.DayPeriod
	for _, day := range []string{"Monday", "Tuesday"} {
		for p := 1; p <= 4; p++ {
			days = append(days, domain.DayPeriod{DayName: day, PeriodIndex: p})
		}
	}
	return days
}

func TestBuildCreatesOneLectureVariablePerNonBreakTimeslot(t *testing.T) {
	problem := &domain.ProblemData{
		DayPeriods: trivialWeek(),
		Sections:   []domain.Section{{ID: "S1", NumStudents: 10}},
		Faculty:    []domain.Faculty{{ID: "F1"}},
		Courses:    []domain.Course{{ID: "C1", LecturePeriodsWeek: 2}},
		Assignments: []domain.FacultyCourseAssignment{
			{FacultyID: "F1", CourseID: "C1", SectionID: "S1"},
		},
	}

	engine := cpsat.NewSATEngine()
	m := model.Build(problem, engine)

	key := model.SectionCourse{Section: "S1", Course: "C1"}
	require.Contains(t, m.Lec, key)
	assert.Len(t, m.Lec[key], 8) // 2 days * 4 periods, no breaks
	assert.Empty(t, m.LabStart[key])
}

func TestBuildOmitsVariablesForACourseWithNoRequirement(t *testing.T) {
	problem := &domain.ProblemData{
		DayPeriods: trivialWeek(),
		Sections:   []domain.Section{{ID: "S1", NumStudents: 10}},
		Faculty:    []domain.Faculty{{ID: "F1"}},
		Courses:    []domain.Course{{ID: "C1", LecturePeriodsWeek: 0}},
	}

	engine := cpsat.NewSATEngine()
	m := model.Build(problem, engine)

	key := model.SectionCourse{Section: "S1", Course: "C1"}
	assert.Empty(t, m.Lec[key])
	assert.Empty(t, m.LabStart[key])
}

func TestBuildProducesASolvableModelRespectingFacultyClash(t *testing.T) {
	problem := &domain.ProblemData{
		DayPeriods: trivialWeek(),
		Sections:   []domain.Section{{ID: "S1", NumStudents: 10}, {ID: "S2", NumStudents: 10}},
		Faculty:    []domain.Faculty{{ID: "F1"}},
		Courses:    []domain.Course{{ID: "C1", LecturePeriodsWeek: 2}, {ID: "C2", LecturePeriodsWeek: 2}},
		Assignments: []domain.FacultyCourseAssignment{
			{FacultyID: "F1", CourseID: "C1", SectionID: "S1"},
			{FacultyID: "F1", CourseID: "C2", SectionID: "S2"},
		},
	}

	engine := cpsat.NewSATEngine()
	m := model.Build(problem, engine)

	outcome, err := engine.SolveWithLimit(context.Background(), cpsat.Limits{Deadline: 5 * time.Second})
	require.NoError(t, err)
	require.Contains(t, []cpsat.Outcome{cpsat.Optimal, cpsat.Feasible}, outcome)

	keyC1 := model.SectionCourse{Section: "S1", Course: "C1"}
	keyC2 := model.SectionCourse{Section: "S2", Course: "C2"}
	for tid, v1 := range m.Lec[keyC1] {
		v2, ok := m.Lec[keyC2][tid]
		if !ok {
			continue
		}
		if engine.Value(v1) && engine.Value(v2) {
			t.Fatalf("faculty F1 double-booked at timeslot %d", tid)
		}
	}
}
