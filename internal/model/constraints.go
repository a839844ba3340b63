package model

import (
	"sort"

	"github.com/timetable/engine/internal/cpsat"
	"github.com/timetable/engine/internal/domain"
)

// coveringLabTerms returns the lab-start variables (across all courses)
// whose occupied span covers timeslot t for section s.
func coveringLabTerms(m *Model, problem *domain.ProblemData, sectionID string, t int) []cpsat.BoolVar {
	var terms []cpsat.BoolVar
	for _, c := range problem.Courses {
		key := SectionCourse{Section: sectionID, Course: c.ID}
		req := m.Requirement[key]
		if req.WeeklyLabSessions == 0 || req.LabBlockSize == 0 {
			continue
		}
		cover := m.CoverageByBlockSize[req.LabBlockSize]
		starts, ok := cover[t]
		if !ok {
			continue
		}
		byStart := m.LabStart[key]
		for _, start := range starts {
			if v, ok := byStart[start]; ok {
				terms = append(terms, v)
			}
		}
	}
	return terms
}

// postAtMostOnePerSectionTimeslot enforces that a section occupies at
// most one course (lecture or lab) at any given timeslot.
func postAtMostOnePerSectionTimeslot(m *Model, problem *domain.ProblemData) {
	for _, s := range problem.Sections {
		for _, t := range m.NonBreak {
			var terms []cpsat.BoolVar
			for _, c := range problem.Courses {
				key := SectionCourse{Section: s.ID, Course: c.ID}
				if v, ok := m.Lec[key][t.TimeslotID]; ok {
					terms = append(terms, v)
				}
			}
			terms = append(terms, coveringLabTerms(m, problem, s.ID, t.TimeslotID)...)
			if len(terms) > 1 {
				m.Engine.AddAtMostOne(terms)
			}
		}
	}
}

// postFacultyClash enforces that a faculty member teaches at most one
// section at any given timeslot.
func postFacultyClash(m *Model, problem *domain.ProblemData) {
	byFaculty := make(map[string][]SectionCourse)
	for key, fac := range m.AssignmentMap {
		sc := SectionCourse{Section: key.SectionID, Course: key.CourseID}
		byFaculty[fac] = append(byFaculty[fac], sc)
	}

	for _, f := range problem.Faculty {
		pairs := byFaculty[f.ID]
		for _, t := range m.NonBreak {
			var terms []cpsat.BoolVar
			for _, sc := range pairs {
				if v, ok := m.Lec[sc][t.TimeslotID]; ok {
					terms = append(terms, v)
				}
				req := m.Requirement[sc]
				if req.WeeklyLabSessions == 0 || req.LabBlockSize == 0 {
					continue
				}
				cover := m.CoverageByBlockSize[req.LabBlockSize]
				for _, start := range cover[t.TimeslotID] {
					if v, ok := m.LabStart[sc][start]; ok {
						terms = append(terms, v)
					}
				}
			}
			if len(terms) > 1 {
				m.Engine.AddAtMostOne(terms)
			}
		}
	}
}

// postFirstPeriodCap caps each faculty member at 3 period-1 assignments
// per week.
func postFirstPeriodCap(m *Model, problem *domain.ProblemData) {
	byFaculty := make(map[string][]SectionCourse)
	for key, fac := range m.AssignmentMap {
		sc := SectionCourse{Section: key.SectionID, Course: key.CourseID}
		byFaculty[fac] = append(byFaculty[fac], sc)
	}

	var p1 []domain.Timeslot
	for _, t := range m.NonBreak {
		if t.PeriodIndex == 1 {
			p1 = append(p1, t)
		}
	}

	for _, f := range problem.Faculty {
		var terms []cpsat.BoolVar
		for _, sc := range byFaculty[f.ID] {
			for _, t := range p1 {
				if v, ok := m.Lec[sc][t.TimeslotID]; ok {
					terms = append(terms, v)
				}
			}
			for _, t := range p1 {
				if v, ok := m.LabStart[sc][t.TimeslotID]; ok {
					terms = append(terms, v)
				}
			}
		}
		if len(terms) > 0 {
			m.Engine.AddAtMost(terms, 3)
		}
	}
}

// postRoomConstraints links room choice to the schedule variables, posts
// room stickiness within a block, and enforces room exclusivity. Only
// called when rooms were supplied.
func postRoomConstraints(m *Model, problem *domain.ProblemData, timeslotToBlock map[int]int) {
	// Constraint 5: room choice follows schedule, Σ_r RL = X (and RB = Y).
	for key, byT := range m.Lec {
		rooms := m.CandidateRooms[key.Section]
		if len(rooms) == 0 {
			continue
		}
		for t, x := range byT {
			roomVars := valuesOf(m.RoomLec[key][t])
			m.Engine.AddSumEqualsVar(roomVars, x)
		}
	}
	for key, byStart := range m.LabStart {
		rooms := m.CandidateRooms[key.Section]
		if len(rooms) == 0 {
			continue
		}
		for start, y := range byStart {
			roomVars := valuesOf(m.RoomLabStart[key][start])
			m.Engine.AddSumEqualsVar(roomVars, y)
		}
	}

	// Constraint 6: unified room stickiness. RL[s,c,t,r] <= BR[s,b,r] and
	// RB[s,c,start,r] <= BR[s,b,r] for the block b containing t/start.
	for key, byT := range m.RoomLec {
		for t, byRoom := range byT {
			blockID, ok := timeslotToBlock[t]
			if !ok {
				continue
			}
			brByRoom := m.BlockRoom[key.Section][blockID]
			for room, rl := range byRoom {
				if br, ok := brByRoom[room]; ok {
					m.Engine.AddImplication(rl, br)
				}
			}
		}
	}
	for key, byStart := range m.RoomLabStart {
		for start, byRoom := range byStart {
			blockID, ok := timeslotToBlock[start]
			if !ok {
				continue
			}
			brByRoom := m.BlockRoom[key.Section][blockID]
			for room, rb := range byRoom {
				if br, ok := brByRoom[room]; ok {
					m.Engine.AddImplication(rb, br)
				}
			}
		}
	}

	// Constraint 7: room exclusivity, per (room, timeslot).
	postRoomExclusivity(m, problem)
}

func postRoomExclusivity(m *Model, problem *domain.ProblemData) {
	roomIDs := make(map[string]struct{})
	for _, r := range problem.Rooms {
		roomIDs[r.ID] = struct{}{}
	}
	rooms := make([]string, 0, len(roomIDs))
	for r := range roomIDs {
		rooms = append(rooms, r)
	}
	sort.Strings(rooms)

	for _, room := range rooms {
		for _, t := range m.NonBreak {
			var terms []cpsat.BoolVar
			for key, byT := range m.RoomLec {
				if byRoom, ok := byT[t.TimeslotID]; ok {
					if v, ok := byRoom[room]; ok {
						terms = append(terms, v)
					}
				}
				_ = key
			}
			for key, byStart := range m.RoomLabStart {
				req := m.Requirement[key]
				if req.LabBlockSize == 0 {
					continue
				}
				cover := m.CoverageByBlockSize[req.LabBlockSize][t.TimeslotID]
				for _, start := range cover {
					if byRoom, ok := byStart[start]; ok {
						if v, ok := byRoom[room]; ok {
							terms = append(terms, v)
						}
					}
				}
			}
			if len(terms) > 1 {
				m.Engine.AddAtMostOne(terms)
			}
		}
	}
}
