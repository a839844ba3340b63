package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/blocks"
	"github.com/timetable/engine/internal/domain"
)

// Monday: periods 1,2 (non-break), 3 (break), 4,5,6 (non-break).
func mondayTimeslots() []domain.Timeslot {
	return []domain.Timeslot{
		{TimeslotID: 0, DayIndex: 0, PeriodIndex: 1, IsBreak: false},
		{TimeslotID: 1, DayIndex: 0, PeriodIndex: 2, IsBreak: false},
		{TimeslotID: 2, DayIndex: 0, PeriodIndex: 3, IsBreak: true},
		{TimeslotID: 3, DayIndex: 0, PeriodIndex: 4, IsBreak: false},
		{TimeslotID: 4, DayIndex: 0, PeriodIndex: 5, IsBreak: false},
		{TimeslotID: 5, DayIndex: 0, PeriodIndex: 6, IsBreak: false},
	}
}

func TestAnalyzeSplitsOnBreaks(t *testing.T) {
	out := blocks.Analyze(mondayTimeslots())
	require.Len(t, out, 2)
	assert.Equal(t, []int{0, 1}, out[0].TimeslotIDs)
	assert.Equal(t, []int{3, 4, 5}, out[1].TimeslotIDs)
}

func TestValidStartsRequiresWholeBlockWithinOneRun(t *testing.T) {
	starts := blocks.ValidStarts(mondayTimeslots(), 2)
	// The 2-period morning run can only start at timeslot 0; within the
	// 3-period afternoon run, timeslots 3 and 4 can each start a 2-period
	// block; 5 cannot (would spill past the end of the day).
	assert.ElementsMatch(t, []int{0, 3, 4}, starts[0])
}

func TestValidStartsNeverCrossesABreak(t *testing.T) {
	starts := blocks.ValidStarts(mondayTimeslots(), 2)
	// Timeslot 1 would need timeslot 2 (a break) to complete the block.
	assert.NotContains(t, starts[0], 1)
}

func TestCoverageListsEveryStartThatSpansATimeslot(t *testing.T) {
	cover := blocks.Coverage(mondayTimeslots(), 2)
	// Timeslot 4 is covered by a lab starting at 3 (spans 3-4) or at 4 itself.
	assert.ElementsMatch(t, []int{3, 4}, cover[4])
}
