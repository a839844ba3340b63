// Package model builds the decision variables and hard constraints of the
// timetabling problem against the pluggable cpsat.Engine abstraction. It
// never runs the solver itself — that is internal/solve's job — it only
// posts structure.
package model

import (
	"fmt"
	"sort"

	"github.com/timetable/engine/internal/blocks"
	"github.com/timetable/engine/internal/cpsat"
	"github.com/timetable/engine/internal/domain"
)

// SectionCourse keys the lecture/lab-start variable maps.
type SectionCourse struct {
	Section string
	Course  string
}

// Model holds every variable the builder created, keyed the way the
// reconstructor (internal/reconstruct) needs to read them back, plus the
// engine they were posted against.
type Model struct {
	Engine cpsat.Engine

	Timeslots   []domain.Timeslot
	NonBreak    []domain.Timeslot
	Blocks      []domain.Block
	HaveRooms   bool

	// Lec[s,c][t] = X[s,c,t]
	Lec map[SectionCourse]map[int]cpsat.BoolVar
	// LabStart[s,c][t] = Y[s,c,t], t ranges over valid starts for that
	// (section,course)'s resolved block size.
	LabStart map[SectionCourse]map[int]cpsat.BoolVar

	// RoomLec[s,c][t][room] = RL[s,c,t,r]
	RoomLec map[SectionCourse]map[int]map[string]cpsat.BoolVar
	// RoomLabStart[s,c][start][room] = RB[s,c,start,r]
	RoomLabStart map[SectionCourse]map[int]map[string]cpsat.BoolVar
	// BlockRoom[section][blockID][room] = BR[s,b,r]
	BlockRoom map[string]map[int]map[string]cpsat.BoolVar

	// CandidateRooms[section] = room ids with capacity >= section size.
	CandidateRooms map[string][]string

	// Requirement[s,c] is the resolved requirement used to build every
	// variable/constraint for that pair.
	Requirement map[SectionCourse]domain.Requirement

	// CoverageByBlockSize[blockSize][timeslotID] = covering start ids,
	// precomputed once.
	CoverageByBlockSize map[int]map[int][]int

	AssignmentMap map[domain.SectionCourseKey]string
}

// Build constructs the model: every decision variable and hard
// constraint, created only where a requirement or candidate exists.
func Build(problem *domain.ProblemData, engine cpsat.Engine) *Model {
	timeslots := domain.BuildTimeslotsFrom(problem)
	nonBreak := domain.NonBreak(timeslots)
	blockList := blocks.Analyze(timeslots)
	timeslotToBlock := blocks.TimeslotToBlock(blockList)

	courseByID := problem.CourseByID()
	reqMap := problem.RequirementMap()
	assignMap := problem.AssignmentMap()

	haveRooms := len(problem.Rooms) > 0
	candidateRooms := make(map[string][]string)
	if haveRooms {
		for _, s := range problem.Sections {
			for _, r := range problem.Rooms {
				if r.Capacity >= s.NumStudents {
					candidateRooms[s.ID] = append(candidateRooms[s.ID], r.ID)
				}
			}
			sort.Strings(candidateRooms[s.ID])
		}
	}

	m := &Model{
		Engine:              engine,
		Timeslots:           timeslots,
		NonBreak:            nonBreak,
		Blocks:              blockList,
		HaveRooms:           haveRooms,
		Lec:                 make(map[SectionCourse]map[int]cpsat.BoolVar),
		LabStart:            make(map[SectionCourse]map[int]cpsat.BoolVar),
		RoomLec:             make(map[SectionCourse]map[int]map[string]cpsat.BoolVar),
		RoomLabStart:        make(map[SectionCourse]map[int]map[string]cpsat.BoolVar),
		BlockRoom:           make(map[string]map[int]map[string]cpsat.BoolVar),
		CandidateRooms:      candidateRooms,
		Requirement:         make(map[SectionCourse]domain.Requirement),
		CoverageByBlockSize: make(map[int]map[int][]int),
		AssignmentMap:       assignMap,
	}

	// Block-level room reservation variables BR[s,b,r] and "at most one
	// room per section per block" (constraint 6, first half).
	if haveRooms {
		for _, s := range problem.Sections {
			rooms := candidateRooms[s.ID]
			if len(rooms) == 0 {
				continue
			}
			for _, b := range blockList {
				byRoom := make(map[string]cpsat.BoolVar, len(rooms))
				var vars []cpsat.BoolVar
				for _, r := range rooms {
					v := engine.NewBoolVar(fmt.Sprintf("br_s%s_b%d_r%s", s.ID, b.BlockID, r))
					byRoom[r] = v
					vars = append(vars, v)
				}
				if m.BlockRoom[s.ID] == nil {
					m.BlockRoom[s.ID] = make(map[int]map[string]cpsat.BoolVar)
				}
				m.BlockRoom[s.ID][b.BlockID] = byRoom
				engine.AddAtMostOne(vars)
			}
		}
	}

	// Variables: X[s,c,t], Y[s,c,start], and their room-choice mirrors.
	for _, s := range problem.Sections {
		for _, c := range problem.Courses {
			req := problem.Requirement(s.ID, c.ID, courseByID, reqMap)
			key := SectionCourse{Section: s.ID, Course: c.ID}
			m.Requirement[key] = req

			if req.WeeklyLectures > 0 {
				byT := make(map[int]cpsat.BoolVar, len(nonBreak))
				var roomByT map[int]map[string]cpsat.BoolVar
				if haveRooms {
					roomByT = make(map[int]map[string]cpsat.BoolVar)
				}
				for _, t := range nonBreak {
					v := engine.NewBoolVar(fmt.Sprintf("lec_s%s_c%s_t%d", s.ID, c.ID, t.TimeslotID))
					byT[t.TimeslotID] = v
					if haveRooms {
						rooms := candidateRooms[s.ID]
						byRoom := make(map[string]cpsat.BoolVar, len(rooms))
						for _, r := range rooms {
							byRoom[r] = engine.NewBoolVar(fmt.Sprintf("rlec_s%s_c%s_t%d_r%s", s.ID, c.ID, t.TimeslotID, r))
						}
						roomByT[t.TimeslotID] = byRoom
					}
				}
				m.Lec[key] = byT
				if haveRooms {
					m.RoomLec[key] = roomByT
				}
			}

			if req.WeeklyLabSessions > 0 && req.LabBlockSize > 0 {
				if _, ok := m.CoverageByBlockSize[req.LabBlockSize]; !ok {
					m.CoverageByBlockSize[req.LabBlockSize] = blocks.Coverage(timeslots, req.LabBlockSize)
				}
				starts := blocks.AllValidStarts(timeslots, req.LabBlockSize)
				byStart := make(map[int]cpsat.BoolVar, len(starts))
				var roomByStart map[int]map[string]cpsat.BoolVar
				if haveRooms {
					roomByStart = make(map[int]map[string]cpsat.BoolVar)
				}
				for _, start := range starts {
					v := engine.NewBoolVar(fmt.Sprintf("labstart_s%s_c%s_t%d_b%d", s.ID, c.ID, start, req.LabBlockSize))
					byStart[start] = v
					if haveRooms {
						rooms := candidateRooms[s.ID]
						byRoom := make(map[string]cpsat.BoolVar, len(rooms))
						for _, r := range rooms {
							byRoom[r] = engine.NewBoolVar(fmt.Sprintf("rlab_s%s_c%s_t%d_b%d_r%s", s.ID, c.ID, start, req.LabBlockSize, r))
						}
						roomByStart[start] = byRoom
					}
				}
				m.LabStart[key] = byStart
				if haveRooms {
					m.RoomLabStart[key] = roomByStart
				}
			}
		}
	}

	postWeeklyCounts(m, problem)
	postAtMostOnePerSectionTimeslot(m, problem)
	postFacultyClash(m, problem)
	postFirstPeriodCap(m, problem)
	if haveRooms {
		postRoomConstraints(m, problem, timeslotToBlock)
	}

	return m
}

// postWeeklyCounts enforces the exact weekly lecture and lab-session
// counts required for each section/course pair.
func postWeeklyCounts(m *Model, problem *domain.ProblemData) {
	for _, s := range problem.Sections {
		for _, c := range problem.Courses {
			key := SectionCourse{Section: s.ID, Course: c.ID}
			req := m.Requirement[key]
			if req.WeeklyLectures > 0 {
				m.Engine.AddExactly(valuesOf(m.Lec[key]), req.WeeklyLectures)
			}
			if req.WeeklyLabSessions > 0 && req.LabBlockSize > 0 {
				m.Engine.AddExactly(valuesOf(m.LabStart[key]), req.WeeklyLabSessions)
			}
		}
	}
}

func valuesOf(byKey map[int]cpsat.BoolVar) []cpsat.BoolVar {
	out := make([]cpsat.BoolVar, 0, len(byKey))
	for _, v := range byKey {
		out = append(out, v)
	}
	return out
}
