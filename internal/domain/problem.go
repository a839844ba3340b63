package domain

// ProblemData is everything a solve needs, loaded once and read-only for
// the duration of the solve. Rooms is optional: when empty, the model
// builder omits all room-related variables and constraints entirely.
type ProblemData struct {
	DayPeriods   []DayPeriod                `json:"day_periods"`
	Sections     []Section                  `json:"sections"`
	Faculty      []Faculty                  `json:"faculty"`
	Courses      []Course                   `json:"courses"`
	Requirements []SectionCourseRequirement `json:"requirements"`
	Assignments  []FacultyCourseAssignment  `json:"assignments"`
	Rooms        []Room                     `json:"rooms,omitempty"`
}

// SectionIDs returns section identifiers in load order.
func (p *ProblemData) SectionIDs() []string {
	ids := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		ids[i] = s.ID
	}
	return ids
}

// FacultyIDs returns faculty identifiers in load order.
func (p *ProblemData) FacultyIDs() []string {
	ids := make([]string, len(p.Faculty))
	for i, f := range p.Faculty {
		ids[i] = f.ID
	}
	return ids
}

// CourseIDs returns course identifiers in load order.
func (p *ProblemData) CourseIDs() []string {
	ids := make([]string, len(p.Courses))
	for i, c := range p.Courses {
		ids[i] = c.ID
	}
	return ids
}

// CourseByID indexes courses by ID.
func (p *ProblemData) CourseByID() map[string]Course {
	m := make(map[string]Course, len(p.Courses))
	for _, c := range p.Courses {
		m[c.ID] = c
	}
	return m
}

// RequirementMap indexes section/course requirement overrides by
// (section_id, course_id).
func (p *ProblemData) RequirementMap() map[SectionCourseKey]SectionCourseRequirement {
	m := make(map[SectionCourseKey]SectionCourseRequirement, len(p.Requirements))
	for _, r := range p.Requirements {
		m[SectionCourseKey{SectionID: r.SectionID, CourseID: r.CourseID}] = r
	}
	return m
}

// AssignmentMap indexes the single faculty teaching each (section, course)
// pair.
func (p *ProblemData) AssignmentMap() map[SectionCourseKey]string {
	m := make(map[SectionCourseKey]string, len(p.Assignments))
	for _, a := range p.Assignments {
		m[SectionCourseKey{SectionID: a.SectionID, CourseID: a.CourseID}] = a.FacultyID
	}
	return m
}

// Requirement is the resolved (weekly_lectures, weekly_lab_sessions,
// lab_block_size) triple for a (section, course) pair, after applying the
// precedence: a present SectionCourseRequirement overrides the course
// defaults; a requirement present but with a nil LabBlockSize inherits
// the course's LabBlockSize.
//
// This is the single place that precedence is implemented — every
// constraint block and the feasibility checker call it instead of
// re-deriving the rule.
type Requirement struct {
	WeeklyLectures    int
	WeeklyLabSessions int
	LabBlockSize      int
}

// ResolveRequirement resolves the effective requirement for a (section,
// course) pair given the course's defaults and an optional override.
func ResolveRequirement(course Course, override *SectionCourseRequirement) Requirement {
	if override == nil {
		labSessions := 0
		if course.IsLab {
			labSessions = course.LabSessionsPerWeek
		}
		blockSize := 0
		if course.IsLab {
			blockSize = course.LabBlockSize
		}
		return Requirement{
			WeeklyLectures:    course.LecturePeriodsWeek,
			WeeklyLabSessions: labSessions,
			LabBlockSize:      blockSize,
		}
	}

	blockSize := 0
	if override.LabBlockSize != nil {
		blockSize = *override.LabBlockSize
	} else if course.IsLab {
		blockSize = course.LabBlockSize
	}
	return Requirement{
		WeeklyLectures:    override.WeeklyLectures,
		WeeklyLabSessions: override.WeeklyLabSessions,
		LabBlockSize:      blockSize,
	}
}

// Requirement looks up the resolved requirement for a (section, course)
// pair, given precomputed course-by-id and requirement-override maps.
func (p *ProblemData) Requirement(sectionID, courseID string, courseByID map[string]Course, reqMap map[SectionCourseKey]SectionCourseRequirement) Requirement {
	course := courseByID[courseID]
	key := SectionCourseKey{SectionID: sectionID, CourseID: courseID}
	if r, ok := reqMap[key]; ok {
		return ResolveRequirement(course, &r)
	}
	return ResolveRequirement(course, nil)
}
