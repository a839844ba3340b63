package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/domain"
)

func TestOrderDayNamesWeekdaysFirst(t *testing.T) {
	names := map[string]struct{}{
		"Wednesday": {}, "Monday": {}, "Friday": {},
	}
	ordered := domain.OrderDayNames(names)
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, ordered)
}

func TestOrderDayNamesUnknownNamesSortAfterAlphabetically(t *testing.T) {
	names := map[string]struct{}{
		"Tuesday": {}, "Zeta": {}, "Alpha": {},
	}
	ordered := domain.OrderDayNames(names)
	assert.Equal(t, []string{"Tuesday", "Alpha", "Zeta"}, ordered)
}

func TestBuildTimeslotsFromAssignsDenseSequentialIDs(t *testing.T) {
	problem := &domain.ProblemData{
		DayPeriods: []domain.DayPeriod{
			{DayName: "Tuesday", PeriodIndex: 2, IsBreak: false},
			{DayName: "Monday", PeriodIndex: 1, IsBreak: false},
			{DayName: "Monday", PeriodIndex: 2, IsBreak: true},
			{DayName: "Monday", PeriodIndex: 3, IsBreak: false},
		},
	}

	timeslots := domain.BuildTimeslotsFrom(problem)
	require.Len(t, timeslots, 4)

	for i, ts := range timeslots {
		assert.Equal(t, i, ts.TimeslotID)
	}
	// Monday (day_index 0) sorts before Tuesday (day_index 1), and within a
	// day periods sort ascending.
	assert.Equal(t, "Monday", timeslots[0].DayName)
	assert.Equal(t, 1, timeslots[0].PeriodIndex)
	assert.Equal(t, "Monday", timeslots[2].DayName)
	assert.True(t, timeslots[1].IsBreak)
	assert.Equal(t, "Tuesday", timeslots[3].DayName)
}

func TestNonBreakExcludesBreakPeriods(t *testing.T) {
	timeslots := []domain.Timeslot{
		{TimeslotID: 0, IsBreak: false},
		{TimeslotID: 1, IsBreak: true},
		{TimeslotID: 2, IsBreak: false},
	}
	nonBreak := domain.NonBreak(timeslots)
	require.Len(t, nonBreak, 2)
	assert.Equal(t, 0, nonBreak[0].TimeslotID)
	assert.Equal(t, 2, nonBreak[1].TimeslotID)
}
