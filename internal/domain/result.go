package domain

// Kind distinguishes a lecture entry from a lab entry in a schedule.
type Kind string

const (
	KindLecture Kind = "lecture"
	KindLab     Kind = "lab"
)

// SectionEntry is what a section is doing at one timeslot.
type SectionEntry struct {
	CourseID  string `json:"course_id"`
	FacultyID string `json:"faculty_id"`
	RoomID    string `json:"room_id,omitempty"` // empty when rooms are not modeled
	Kind      Kind   `json:"kind"`
}

// FacultyEntry is what a faculty member is doing at one timeslot.
type FacultyEntry struct {
	CourseID  string `json:"course_id"`
	SectionID string `json:"section_id"`
	RoomID    string `json:"room_id,omitempty"`
	Kind      Kind   `json:"kind"`
}

// SolveResult is the read-only outcome of a solve. Schedules and
// availability maps are only populated when Status is OPTIMAL or FEASIBLE.
type SolveResult struct {
	Status Status `json:"status"`

	ScheduleBySection map[string]map[int]SectionEntry `json:"schedule_by_section,omitempty"` // section_id -> timeslot_id -> entry
	ScheduleByFaculty map[string]map[int]FacultyEntry  `json:"schedule_by_faculty,omitempty"` // faculty_id -> timeslot_id -> entry

	Timeslots []Timeslot `json:"timeslots"`

	ObjectiveValue *int `json:"objective_value,omitempty"` // nil when gap minimization was not requested

	AvailableRooms   map[int][]string `json:"available_rooms,omitempty"` // timeslot_id -> room ids, nil when rooms are not modeled
	AvailableFaculty map[int][]string `json:"available_faculty,omitempty"` // timeslot_id -> faculty ids
}
