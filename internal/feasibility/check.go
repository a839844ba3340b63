// Package feasibility performs a cheap proof-of-infeasibility pre-check.
// It runs before the model is ever built: any non-empty Errors abort the
// solve.
package feasibility

import (
	"fmt"

	"github.com/timetable/engine/internal/blocks"
	"github.com/timetable/engine/internal/domain"
)

// Report collects every error and warning found. All checks run to
// completion — no short-circuiting — so a user can fix every problem in one
// pass.
type Report struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether the problem may proceed to solving.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Check runs every pre-solve feasibility rule against a problem and its
// derived timeslots.
func Check(problem *domain.ProblemData, timeslots []domain.Timeslot) *Report {
	report := &Report{}

	nonBreakTotal := 0
	for _, t := range timeslots {
		if !t.IsBreak {
			nonBreakTotal++
		}
	}

	courseByID := problem.CourseByID()
	reqMap := problem.RequirementMap()
	assignMap := problem.AssignmentMap()

	requiredPeriods := make(map[string]int, len(problem.Sections))
	labBlocksNeeded := make(map[struct {
		Section   string
		BlockSize int
	}]int)

	for _, section := range problem.Sections {
		for _, course := range problem.Courses {
			req := problem.Requirement(section.ID, course.ID, courseByID, reqMap)

			requiredPeriods[section.ID] += req.WeeklyLectures
			if req.WeeklyLabSessions > 0 && req.LabBlockSize > 0 {
				requiredPeriods[section.ID] += req.WeeklyLabSessions * req.LabBlockSize
				key := struct {
					Section   string
					BlockSize int
				}{section.ID, req.LabBlockSize}
				labBlocksNeeded[key] += req.WeeklyLabSessions
			}

			// Check 4: any active lab must have block size 2.
			if req.WeeklyLabSessions > 0 && req.LabBlockSize != 2 {
				report.addError(
					"lab block size must be 2 periods for section %s, course %s (found %d)",
					section.ID, course.ID, req.LabBlockSize,
				)
			}

			// Check 3: faculty assignment coverage.
			if req.WeeklyLectures > 0 || req.WeeklyLabSessions > 0 {
				if _, ok := assignMap[domain.SectionCourseKey{SectionID: section.ID, CourseID: course.ID}]; !ok {
					report.addError("missing faculty assignment for section %s, course %s", section.ID, course.ID)
				}
			}
		}
	}

	// Check 1: total required periods per section fit in the week.
	for _, section := range problem.Sections {
		if requiredPeriods[section.ID] > nonBreakTotal {
			report.addError(
				"section %s requires %d periods but only %d non-break timeslots exist in the week",
				section.ID, requiredPeriods[section.ID], nonBreakTotal,
			)
		}
	}

	// Check 2: enough valid lab starts exist for every (section, block size).
	startsCache := make(map[int]int) // block size -> count of valid starts across the week
	for key, sessions := range labBlocksNeeded {
		count, ok := startsCache[key.BlockSize]
		if !ok {
			count = len(blocks.AllValidStarts(timeslots, key.BlockSize))
			startsCache[key.BlockSize] = count
		}
		if count < sessions {
			report.addError(
				"section %s needs %d lab blocks of size %d, but only %d valid starting positions exist in the week",
				key.Section, sessions, key.BlockSize, count,
			)
		}
	}

	// Check 5: room capacity coverage, only when rooms are modeled.
	if len(problem.Rooms) > 0 {
		checkRoomCapacity(problem, courseByID, reqMap, report)
	}

	return report
}

func checkRoomCapacity(problem *domain.ProblemData, courseByID map[string]domain.Course, reqMap map[domain.SectionCourseKey]domain.SectionCourseRequirement, report *Report) {
	var nonLabRooms, labRooms []domain.Room
	for _, r := range problem.Rooms {
		if r.IsLab {
			labRooms = append(labRooms, r)
		} else {
			nonLabRooms = append(nonLabRooms, r)
		}
	}

	for _, section := range problem.Sections {
		needsLecture, needsLab := false, false
		for _, course := range problem.Courses {
			req := problem.Requirement(section.ID, course.ID, courseByID, reqMap)
			needsLecture = needsLecture || req.WeeklyLectures > 0
			needsLab = needsLab || req.WeeklyLabSessions > 0
		}

		if needsLecture && !anyRoomFits(nonLabRooms, section.NumStudents) {
			report.addError(
				"section %s requires lecture periods but no non-lab room has capacity >= %d",
				section.ID, section.NumStudents,
			)
		}
		if needsLab && !anyRoomFits(labRooms, section.NumStudents) {
			report.addError(
				"section %s requires lab sessions but no lab room has capacity >= %d",
				section.ID, section.NumStudents,
			)
		}
	}
}

func anyRoomFits(rooms []domain.Room, students int) bool {
	for _, r := range rooms {
		if r.Capacity >= students {
			return true
		}
	}
	return false
}
