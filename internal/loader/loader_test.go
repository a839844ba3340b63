package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable/engine/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeMinimalInputs(t *testing.T, dir string) {
	writeFile(t, dir, "day_worksheet.csv", "day_name,period_index,is_break\nMonday,1,0\nMonday,2,0\n")
	writeFile(t, dir, "sections.csv", "section_id,section_name,num_students\nS1,Section 1,30\n")
	writeFile(t, dir, "faculty.csv", "faculty_id,faculty_name\nF1,Professor One\n")
	writeFile(t, dir, "courses.csv",
		"course_id,course_name,is_lab,lecture_periods_per_week,lab_sessions_per_week,lab_block_size\nC1,Intro,0,2,0,2\n")
	writeFile(t, dir, "section_course_requirements.csv",
		"section_id,course_id,weekly_lectures,weekly_lab_sessions,lab_block_size\nS1,C1,2,0,\n")
	writeFile(t, dir, "faculty_courses.csv", "faculty_id,course_id,section_id\nF1,C1,S1\n")
}

func TestLoadDirectoryParsesAllRequiredFiles(t *testing.T) {
	dir := t.TempDir()
	writeMinimalInputs(t, dir)

	problem, err := loader.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, problem.Sections, 1)
	assert.Equal(t, "S1", problem.Sections[0].ID)
	assert.Equal(t, 30, problem.Sections[0].NumStudents)
	require.Len(t, problem.Requirements, 1)
	assert.Equal(t, 2, problem.Requirements[0].WeeklyLectures)
}

func TestLoadDirectoryRejectsAMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := loader.LoadDirectory(dir)
	require.Error(t, err)
}

func TestLoadDirectoryRejectsAnInvalidLabBlockSize(t *testing.T) {
	dir := t.TempDir()
	writeMinimalInputs(t, dir)
	writeFile(t, dir, "courses.csv",
		"course_id,course_name,is_lab,lecture_periods_per_week,lab_sessions_per_week,lab_block_size\nC1,Intro,1,0,1,3\n")

	_, err := loader.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lab block size")
}

func TestLoadDirectoryLoadsOptionalRoomsFile(t *testing.T) {
	dir := t.TempDir()
	writeMinimalInputs(t, dir)
	writeFile(t, dir, "rooms.csv", "room_id,room_name,capacity,is_lab\nR1,Room 1,40,0\n")

	problem, err := loader.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, problem.Rooms, 1)
	assert.Equal(t, 40, problem.Rooms[0].Capacity)
}
