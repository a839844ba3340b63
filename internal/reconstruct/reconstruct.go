// Package reconstruct decodes a solved model.Model back into the
// per-section/per-faculty schedules and availability maps, reading
// variable assignments off the engine the model was built against.
package reconstruct

import (
	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/model"
)

// Decode reads back every true X/Y assignment in m and expands it into the
// section/faculty schedules; per-timeslot availability is computed
// separately by Availability. It must only be called after a Feasible or
// Optimal solve.
func Decode(m *model.Model, problem *domain.ProblemData) (bySection map[string]map[int]domain.SectionEntry, byFaculty map[string]map[int]domain.FacultyEntry) {
	bySection = make(map[string]map[int]domain.SectionEntry)
	byFaculty = make(map[string]map[int]domain.FacultyEntry)

	dayPeriodToTID := make(map[[2]int]int, len(m.Timeslots))
	timeslotByID := make(map[int]domain.Timeslot, len(m.Timeslots))
	for _, t := range m.Timeslots {
		dayPeriodToTID[[2]int{t.DayIndex, t.PeriodIndex}] = t.TimeslotID
		timeslotByID[t.TimeslotID] = t
	}

	assignMap := m.AssignmentMap

	for key, byT := range m.Lec {
		facultyID := assignMap[domain.SectionCourseKey{SectionID: key.Section, CourseID: key.Course}]
		for t, v := range byT {
			if !m.Engine.Value(v) {
				continue
			}
			roomID := resolveRoomLec(m, key, t)
			place(bySection, byFaculty, key.Section, key.Course, facultyID, roomID, t, domain.KindLecture)
		}
	}

	for key, byStart := range m.LabStart {
		req := m.Requirement[key]
		facultyID := assignMap[domain.SectionCourseKey{SectionID: key.Section, CourseID: key.Course}]
		for start, v := range byStart {
			if !m.Engine.Value(v) {
				continue
			}
			roomID := resolveRoomLab(m, key, start)
			startTS := timeslotByID[start]
			for k := 0; k < req.LabBlockSize; k++ {
				tid, ok := dayPeriodToTID[[2]int{startTS.DayIndex, startTS.PeriodIndex + k}]
				if !ok {
					continue
				}
				place(bySection, byFaculty, key.Section, key.Course, facultyID, roomID, tid, domain.KindLab)
			}
		}
	}

	return bySection, byFaculty
}

func resolveRoomLec(m *model.Model, key model.SectionCourse, t int) string {
	if !m.HaveRooms {
		return ""
	}
	for _, r := range m.CandidateRooms[key.Section] {
		if v, ok := m.RoomLec[key][t][r]; ok && m.Engine.Value(v) {
			return r
		}
	}
	return ""
}

func resolveRoomLab(m *model.Model, key model.SectionCourse, start int) string {
	if !m.HaveRooms {
		return ""
	}
	for _, r := range m.CandidateRooms[key.Section] {
		if v, ok := m.RoomLabStart[key][start][r]; ok && m.Engine.Value(v) {
			return r
		}
	}
	return ""
}

func place(bySection map[string]map[int]domain.SectionEntry, byFaculty map[string]map[int]domain.FacultyEntry, sectionID, courseID, facultyID, roomID string, t int, kind domain.Kind) {
	if bySection[sectionID] == nil {
		bySection[sectionID] = make(map[int]domain.SectionEntry)
	}
	bySection[sectionID][t] = domain.SectionEntry{CourseID: courseID, FacultyID: facultyID, RoomID: roomID, Kind: kind}

	if facultyID == "" {
		return
	}
	if byFaculty[facultyID] == nil {
		byFaculty[facultyID] = make(map[int]domain.FacultyEntry)
	}
	byFaculty[facultyID][t] = domain.FacultyEntry{CourseID: courseID, SectionID: sectionID, RoomID: roomID, Kind: kind}
}

// Availability computes, per non-break timeslot, the rooms and faculty not
// occupied by the decoded schedule. availableRooms is nil when the problem
// has no rooms.
func Availability(problem *domain.ProblemData, nonBreak []domain.Timeslot, bySection map[string]map[int]domain.SectionEntry, byFaculty map[string]map[int]domain.FacultyEntry) (availableRooms map[int][]string, availableFaculty map[int][]string) {
	haveRooms := len(problem.Rooms) > 0
	if haveRooms {
		availableRooms = make(map[int][]string)
	}
	availableFaculty = make(map[int][]string)

	allRoomIDs := make([]string, 0, len(problem.Rooms))
	for _, r := range problem.Rooms {
		allRoomIDs = append(allRoomIDs, r.ID)
	}
	allFacultyIDs := problem.FacultyIDs()

	for _, t := range nonBreak {
		if haveRooms {
			occupied := make(map[string]struct{})
			for _, byT := range bySection {
				if entry, ok := byT[t.TimeslotID]; ok && entry.RoomID != "" {
					occupied[entry.RoomID] = struct{}{}
				}
			}
			var free []string
			for _, r := range allRoomIDs {
				if _, busy := occupied[r]; !busy {
					free = append(free, r)
				}
			}
			availableRooms[t.TimeslotID] = free
		}

		occupiedFaculty := make(map[string]struct{})
		for f, byT := range byFaculty {
			if _, ok := byT[t.TimeslotID]; ok {
				occupiedFaculty[f] = struct{}{}
			}
		}
		var freeFaculty []string
		for _, f := range allFacultyIDs {
			if _, busy := occupiedFaculty[f]; !busy {
				freeFaculty = append(freeFaculty, f)
			}
		}
		availableFaculty[t.TimeslotID] = freeFaculty
	}

	return availableRooms, availableFaculty
}
