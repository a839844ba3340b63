// Package loader ingests the CSV input schema into a domain.ProblemData.
// Every required file is read in full before any validation error is
// raised, and lab_block_size is validated here (in addition to the
// feasibility pre-check) as a load-time rejection policy.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/timetable/engine/internal/domain"
)

const (
	dayWorksheetFile   = "day_worksheet.csv"
	sectionsFile       = "sections.csv"
	facultyFile        = "faculty.csv"
	coursesFile        = "courses.csv"
	requirementsFile   = "section_course_requirements.csv"
	facultyCoursesFile = "faculty_courses.csv"
	roomsFile          = "rooms.csv"
)

// LoadDirectory reads every required CSV from dir (and rooms.csv if
// present) into a domain.ProblemData.
func LoadDirectory(dir string) (*domain.ProblemData, error) {
	dayRows, err := readCSV(filepath.Join(dir, dayWorksheetFile))
	if err != nil {
		return nil, err
	}
	sectionRows, err := readCSV(filepath.Join(dir, sectionsFile))
	if err != nil {
		return nil, err
	}
	facultyRows, err := readCSV(filepath.Join(dir, facultyFile))
	if err != nil {
		return nil, err
	}
	courseRows, err := readCSV(filepath.Join(dir, coursesFile))
	if err != nil {
		return nil, err
	}
	reqRows, err := readCSV(filepath.Join(dir, requirementsFile))
	if err != nil {
		return nil, err
	}
	assignRows, err := readCSV(filepath.Join(dir, facultyCoursesFile))
	if err != nil {
		return nil, err
	}

	dayPeriods, err := parseDayPeriods(dayRows)
	if err != nil {
		return nil, err
	}
	sections, err := parseSections(sectionRows)
	if err != nil {
		return nil, err
	}
	faculty, err := parseFaculty(facultyRows)
	if err != nil {
		return nil, err
	}
	courses, err := parseCourses(courseRows)
	if err != nil {
		return nil, err
	}
	requirements, err := parseRequirements(reqRows)
	if err != nil {
		return nil, err
	}
	assignments, err := parseAssignments(assignRows)
	if err != nil {
		return nil, err
	}

	var rooms []domain.Room
	roomsPath := filepath.Join(dir, roomsFile)
	if _, statErr := os.Stat(roomsPath); statErr == nil {
		roomRows, err := readCSV(roomsPath)
		if err != nil {
			return nil, err
		}
		rooms, err = parseRooms(roomRows)
		if err != nil {
			return nil, err
		}
	}

	return &domain.ProblemData{
		DayPeriods:   dayPeriods,
		Sections:     sections,
		Faculty:      faculty,
		Courses:      courses,
		Requirements: requirements,
		Assignments:  assignments,
		Rooms:        rooms,
	}, nil
}

// row is one CSV record indexed by normalized (trimmed) header name.
type row map[string]string

func readCSV(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewInputError(filepath.Base(path), fmt.Sprintf("missing required CSV: %v", err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewInputError(filepath.Base(path), fmt.Sprintf("error reading CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, domain.NewInputError(filepath.Base(path), "empty file")
	}

	header := records[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		r := make(row, len(header))
		for i, h := range header {
			if i < len(rec) {
				r[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func requireColumns(file string, rows []row, cols ...string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, c := range cols {
		if _, ok := rows[0][c]; !ok {
			return domain.NewColumnError(file, c, "missing required column")
		}
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	v, err := strconv.Atoi(s)
	if err == nil {
		return v != 0
	}
	b, _ := strconv.ParseBool(s)
	return b
}

func parseInt(file, column, s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.NewColumnError(file, column, fmt.Sprintf("expected integer, got %q", s))
	}
	return v, nil
}

func parseDayPeriods(rows []row) ([]domain.DayPeriod, error) {
	if err := requireColumns(dayWorksheetFile, rows, "day_name", "period_index", "is_break"); err != nil {
		return nil, err
	}
	out := make([]domain.DayPeriod, 0, len(rows))
	for _, r := range rows {
		period, err := parseInt(dayWorksheetFile, "period_index", r["period_index"])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.DayPeriod{
			DayName:     r["day_name"],
			PeriodIndex: period,
			IsBreak:     parseBool(r["is_break"]),
		})
	}
	return out, nil
}

func parseSections(rows []row) ([]domain.Section, error) {
	if err := requireColumns(sectionsFile, rows, "section_id", "section_name", "num_students"); err != nil {
		return nil, err
	}
	out := make([]domain.Section, 0, len(rows))
	for _, r := range rows {
		n, err := parseInt(sectionsFile, "num_students", r["num_students"])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Section{ID: r["section_id"], Name: r["section_name"], NumStudents: n})
	}
	return out, nil
}

func parseFaculty(rows []row) ([]domain.Faculty, error) {
	if err := requireColumns(facultyFile, rows, "faculty_id", "faculty_name"); err != nil {
		return nil, err
	}
	out := make([]domain.Faculty, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Faculty{ID: r["faculty_id"], Name: r["faculty_name"]})
	}
	return out, nil
}

func parseCourses(rows []row) ([]domain.Course, error) {
	if err := requireColumns(coursesFile, rows,
		"course_id", "course_name", "is_lab",
		"lecture_periods_per_week", "lab_sessions_per_week", "lab_block_size"); err != nil {
		return nil, err
	}
	out := make([]domain.Course, 0, len(rows))
	for _, r := range rows {
		isLab := parseBool(r["is_lab"])
		lecPeriods, err := parseInt(coursesFile, "lecture_periods_per_week", r["lecture_periods_per_week"])
		if err != nil {
			return nil, err
		}
		labSessions, err := parseInt(coursesFile, "lab_sessions_per_week", r["lab_sessions_per_week"])
		if err != nil {
			return nil, err
		}
		blockSize := 2
		if s := strings.TrimSpace(r["lab_block_size"]); s != "" {
			blockSize, err = parseInt(coursesFile, "lab_block_size", s)
			if err != nil {
				return nil, err
			}
		}
		if isLab && labSessions > 0 && blockSize != 2 {
			return nil, domain.NewColumnError(coursesFile, "lab_block_size",
				fmt.Sprintf("course %s: lab block size must be 2 periods (found %d)", r["course_id"], blockSize))
		}
		out = append(out, domain.Course{
			ID:                 r["course_id"],
			Name:               r["course_name"],
			IsLab:              isLab,
			LecturePeriodsWeek: lecPeriods,
			LabSessionsPerWeek: labSessions,
			LabBlockSize:       blockSize,
		})
	}
	return out, nil
}

func parseRequirements(rows []row) ([]domain.SectionCourseRequirement, error) {
	if err := requireColumns(requirementsFile, rows,
		"section_id", "course_id", "weekly_lectures", "weekly_lab_sessions", "lab_block_size"); err != nil {
		return nil, err
	}
	out := make([]domain.SectionCourseRequirement, 0, len(rows))
	for _, r := range rows {
		weeklyLectures, err := parseInt(requirementsFile, "weekly_lectures", r["weekly_lectures"])
		if err != nil {
			return nil, err
		}
		weeklyLabs, err := parseInt(requirementsFile, "weekly_lab_sessions", r["weekly_lab_sessions"])
		if err != nil {
			return nil, err
		}

		var blockSize *int
		if s := strings.TrimSpace(r["lab_block_size"]); s != "" {
			v, err := parseInt(requirementsFile, "lab_block_size", s)
			if err != nil {
				return nil, err
			}
			if v > 0 {
				blockSize = &v
			}
		}

		if weeklyLabs > 0 && blockSize != nil && *blockSize != 2 {
			return nil, domain.NewColumnError(requirementsFile, "lab_block_size",
				fmt.Sprintf("section %s, course %s: lab block size override must be 2 periods (found %d)",
					r["section_id"], r["course_id"], *blockSize))
		}
		out = append(out, domain.SectionCourseRequirement{
			SectionID:         r["section_id"],
			CourseID:          r["course_id"],
			WeeklyLectures:    weeklyLectures,
			WeeklyLabSessions: weeklyLabs,
			LabBlockSize:      blockSize,
		})
	}
	return out, nil
}

func parseAssignments(rows []row) ([]domain.FacultyCourseAssignment, error) {
	if err := requireColumns(facultyCoursesFile, rows, "faculty_id", "course_id", "section_id"); err != nil {
		return nil, err
	}
	out := make([]domain.FacultyCourseAssignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FacultyCourseAssignment{
			FacultyID: r["faculty_id"],
			CourseID:  r["course_id"],
			SectionID: r["section_id"],
		})
	}
	return out, nil
}

func parseRooms(rows []row) ([]domain.Room, error) {
	if err := requireColumns(roomsFile, rows, "room_id", "room_name", "capacity", "is_lab"); err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(rows))
	for _, r := range rows {
		capacity, err := parseInt(roomsFile, "capacity", r["capacity"])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Room{
			ID:       r["room_id"],
			Name:     r["room_name"],
			Capacity: capacity,
			IsLab:    parseBool(r["is_lab"]),
		})
	}
	return out, nil
}
