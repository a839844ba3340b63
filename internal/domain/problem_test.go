package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timetable/engine/internal/domain"
)

func TestResolveRequirementNoOverrideUsesCourseDefaults(t *testing.T) {
	course := domain.Course{
		ID: "CS101", IsLab: true,
		LecturePeriodsWeek: 3, LabSessionsPerWeek: 1, LabBlockSize: 2,
	}
	req := domain.ResolveRequirement(course, nil)
	assert.Equal(t, domain.Requirement{WeeklyLectures: 3, WeeklyLabSessions: 1, LabBlockSize: 2}, req)
}

func TestResolveRequirementOverrideTakesPrecedence(t *testing.T) {
	course := domain.Course{ID: "CS101", IsLab: true, LecturePeriodsWeek: 3, LabSessionsPerWeek: 1, LabBlockSize: 2}
	override := &domain.SectionCourseRequirement{
		SectionID: "A", CourseID: "CS101", WeeklyLectures: 2, WeeklyLabSessions: 1,
	}
	req := domain.ResolveRequirement(course, override)
	assert.Equal(t, 2, req.WeeklyLectures)
	// Override present but LabBlockSize nil: inherits the course default.
	assert.Equal(t, 2, req.LabBlockSize)
}

func TestResolveRequirementOverrideBlockSizeWins(t *testing.T) {
	course := domain.Course{ID: "CS101", IsLab: true, LabBlockSize: 2}
	overrideSize := 4
	override := &domain.SectionCourseRequirement{
		SectionID: "A", CourseID: "CS101", WeeklyLabSessions: 1, LabBlockSize: &overrideSize,
	}
	req := domain.ResolveRequirement(course, override)
	assert.Equal(t, 4, req.LabBlockSize)
}

func TestProblemDataIDHelpersPreserveLoadOrder(t *testing.T) {
	p := &domain.ProblemData{
		Sections: []domain.Section{{ID: "B"}, {ID: "A"}},
		Faculty:  []domain.Faculty{{ID: "F2"}, {ID: "F1"}},
		Courses:  []domain.Course{{ID: "C2"}, {ID: "C1"}},
	}
	assert.Equal(t, []string{"B", "A"}, p.SectionIDs())
	assert.Equal(t, []string{"F2", "F1"}, p.FacultyIDs())
	assert.Equal(t, []string{"C2", "C1"}, p.CourseIDs())
}
