package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/export"
)

func sampleResult() *domain.SolveResult {
	return &domain.SolveResult{
		Status: domain.StatusOptimal,
		Timeslots: []domain.Timeslot{
			{DayIndex: 0, DayName: "Monday", PeriodIndex: 1, TimeslotID: 0},
			{DayIndex: 0, DayName: "Monday", PeriodIndex: 2, TimeslotID: 1, IsBreak: true},
		},
		ScheduleBySection: map[string]map[int]domain.SectionEntry{
			"S1": {0: {CourseID: "C1", FacultyID: "F1", RoomID: "R1", Kind: domain.KindLecture}},
		},
		ScheduleByFaculty: map[string]map[int]domain.FacultyEntry{
			"F1": {0: {CourseID: "C1", SectionID: "S1", RoomID: "R1", Kind: domain.KindLecture}},
		},
		AvailableFaculty: map[int][]string{0: {"F2"}, 1: nil},
	}
}

func TestSectionGridsRendersTheScheduledCourseAndBreakCells(t *testing.T) {
	grid := export.SectionGrids(sampleResult())["S1"]
	require.Len(t, grid, 1)
	assert.Equal(t, "C1 (F1) [lecture] @R1", grid[0][0])
	assert.Equal(t, "BREAK", grid[0][1])
}

func TestFacultyGridsSeparatesTheRoomWithASpace(t *testing.T) {
	grid := export.FacultyGrids(sampleResult())["F1"]
	require.Len(t, grid, 1)
	assert.Equal(t, "C1 (Sec S1) [lecture] @R1", grid[0][0])
}

func TestMasterGridJoinsAllOccupyingSections(t *testing.T) {
	grid := export.MasterGrid(sampleResult())
	require.Len(t, grid, 1)
	assert.Contains(t, grid[0][0], "S1:C1")
	assert.Equal(t, "BREAK", grid[0][1])
}

func TestAvailabilityGridRendersOccupiedBreaksAndFreeResources(t *testing.T) {
	grid := export.AvailabilityGrid(sampleResult(), true)
	require.Len(t, grid, 1)
	assert.Equal(t, "F2", grid[0][0])
	assert.Equal(t, "BREAK", grid[0][1])
}

func TestToJSONRoundTripsTheStatus(t *testing.T) {
	data, err := export.ToJSON(sampleResult())
	require.NoError(t, err)

	var decoded domain.SolveResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, domain.StatusOptimal, decoded.Status)
}

func TestWriteAllProducesTheExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.WriteAll(sampleResult(), dir))

	assertExists(t, filepath.Join(dir, "sections", "section_S1.csv"))
	assertExists(t, filepath.Join(dir, "faculty", "faculty_F1.csv"))
	assertExists(t, filepath.Join(dir, "master_timetable.csv"))
	assertExists(t, filepath.Join(dir, "available_faculty.csv"))
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.NoError(t, err, "expected %s to exist", path)
}
