// Package objective builds the optional gap-minimization objective. It is
// only invoked when the caller asks for optimize_gaps; with no objective
// posted, Engine.SolveWithLimit accepts any feasible solution.
package objective

import (
	"fmt"
	"sort"

	"github.com/timetable/engine/internal/cpsat"
	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/model"
)

// Build posts occupancy variables O[s,t] (true iff section s has any
// lecture or lab period scheduled at timeslot t), gap indicators for every
// interior non-break timeslot of every day, and a Minimize(Σ gaps) call
// against the engine. It must run after model.Build has posted every hard
// constraint, since it reads back the variables model.Build created.
func Build(m *model.Model, problem *domain.ProblemData) {
	occ := buildOccupancy(m, problem)
	gaps := buildGapIndicators(m, occ)
	if len(gaps) > 0 {
		m.Engine.Minimize(gaps)
	}
}

// buildOccupancy creates O[s,t] for every section/non-break-timeslot pair
// and links it to the disjunction of every schedule variable that could
// occupy that slot: a lecture variable directly, or a lab-start variable
// whose block covers t.
func buildOccupancy(m *model.Model, problem *domain.ProblemData) map[string]map[int]cpsat.BoolVar {
	occ := make(map[string]map[int]cpsat.BoolVar, len(problem.Sections))

	for _, s := range problem.Sections {
		byT := make(map[int]cpsat.BoolVar, len(m.NonBreak))
		for _, t := range m.NonBreak {
			terms := occupancyTerms(m, problem, s.ID, t.TimeslotID)
			name := fmt.Sprintf("occ_s%s_t%d", s.ID, t.TimeslotID)
			o := m.Engine.NewBoolVar(name)
			m.Engine.AddSumEqualsVar(terms, o)
			byT[t.TimeslotID] = o
		}
		occ[s.ID] = byT
	}
	return occ
}

// occupancyTerms collects every lecture/lab-start variable (across every
// course) that would occupy timeslot t for section s.
func occupancyTerms(m *model.Model, problem *domain.ProblemData, sectionID string, t int) []cpsat.BoolVar {
	var terms []cpsat.BoolVar
	for _, c := range problem.Courses {
		key := model.SectionCourse{Section: sectionID, Course: c.ID}
		if byT, ok := m.Lec[key]; ok {
			if v, ok := byT[t]; ok {
				terms = append(terms, v)
			}
		}
	}
	terms = append(terms, coveringLabTerms(m, problem, sectionID, t)...)
	return terms
}

// coveringLabTerms is the objective package's own copy of the same lookup
// internal/model performs when posting constraint 2: every lab-start
// variable (any course) whose occupied span covers t for this section.
func coveringLabTerms(m *model.Model, problem *domain.ProblemData, sectionID string, t int) []cpsat.BoolVar {
	var terms []cpsat.BoolVar
	for _, c := range problem.Courses {
		key := model.SectionCourse{Section: sectionID, Course: c.ID}
		req, ok := m.Requirement[key]
		if !ok || req.WeeklyLabSessions == 0 || req.LabBlockSize == 0 {
			continue
		}
		cover := m.CoverageByBlockSize[req.LabBlockSize]
		starts, ok := cover[t]
		if !ok {
			continue
		}
		byStart, ok := m.LabStart[key]
		if !ok {
			continue
		}
		for _, start := range starts {
			if v, ok := byStart[start]; ok {
				terms = append(terms, v)
			}
		}
	}
	return terms
}

// buildGapIndicators posts, per section and per day, one gap variable for
// every interior non-break timeslot: it is forced true whenever the
// timeslots immediately before and after are both occupied, and a true gap
// forces the timeslot itself to be unoccupied. As a consequence, while this
// objective is posted a section never occupies three consecutive non-break
// timeslots of a day.
func buildGapIndicators(m *model.Model, occ map[string]map[int]cpsat.BoolVar) []cpsat.BoolVar {
	byDay := make(map[int][]domain.Timeslot)
	for _, t := range m.NonBreak {
		byDay[t.DayIndex] = append(byDay[t.DayIndex], t)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	var gaps []cpsat.BoolVar
	sectionIDs := make([]string, 0, len(occ))
	for s := range occ {
		sectionIDs = append(sectionIDs, s)
	}
	sort.Strings(sectionIDs)

	for _, day := range days {
		ordered := byDay[day]
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].PeriodIndex < ordered[j].PeriodIndex })
		if len(ordered) < 3 {
			continue
		}
		for _, sectionID := range sectionIDs {
			sectionOcc := occ[sectionID]
			for i := 1; i < len(ordered)-1; i++ {
				prev := sectionOcc[ordered[i-1].TimeslotID]
				mid := sectionOcc[ordered[i].TimeslotID]
				next := sectionOcc[ordered[i+1].TimeslotID]

				g := m.Engine.NewBoolVar(fmt.Sprintf("gap_s%s_d%d_i%d", sectionID, day, i))
				m.Engine.AddConjunctionImplies(prev, next, g)
				m.Engine.AddImpliesFalse(g, mid)
				gaps = append(gaps, g)
			}
		}
	}
	return gaps
}
