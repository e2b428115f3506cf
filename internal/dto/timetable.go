package dto

// CourseInput describes one course and its weekly session demand.
type CourseInput struct {
	Code                  string `json:"code" validate:"required"`
	Name                  string `json:"name"`
	Lectures              int    `json:"lectures" validate:"min=0"`
	Tutorials             int    `json:"tutorials" validate:"min=0"`
	Labs                  int    `json:"labs" validate:"min=0"`
	HoursPerSession       int    `json:"hours_per_session" validate:"omitempty,min=1,max=4"`
	TheoryBeforePractical bool   `json:"theory_before_practical"`
}

// TeacherInput lists a teacher's courses and weekly unavailability, each
// entry formatted "Weekday-HH:MM" against the fixed slot table.
type TeacherInput struct {
	Courses     []string `json:"courses" validate:"required,min=1"`
	Unavailable []string `json:"unavailable" validate:"omitempty,dive,required"`
}

// ProgramInput is a student cohort enrolled in a set of courses.
type ProgramInput struct {
	Size    int      `json:"size" validate:"required,min=1"`
	Courses []string `json:"courses" validate:"required,min=1"`
}

// MetadataInput labels the scheduling period.
type MetadataInput struct {
	Period string `json:"period" validate:"required"`
	Year   string `json:"year" validate:"required"`
	Weeks  int    `json:"weeks" validate:"required,min=1,max=20"`
}

// GenerateTimetableRequest is the full input document for a scheduling run.
type GenerateTimetableRequest struct {
	Metadata MetadataInput           `json:"metadata" validate:"required"`
	Courses  []CourseInput           `json:"courses" validate:"required,min=1,dive"`
	Teachers map[string]TeacherInput `json:"teachers" validate:"required,min=1,dive"`
	Programs map[string]ProgramInput `json:"programs" validate:"required,min=1,dive"`
}

// ValidationProblem pinpoints one invalid field or cross-reference in the
// input document.
type ValidationProblem struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlacedSessionDTO is one scheduled meeting in the output document. A
// split-time tutorial appears once with two entries in Occurrences.
type PlacedSessionDTO struct {
	Course     string       `json:"course"`
	CourseName string       `json:"course_name,omitempty"`
	Kind       string       `json:"kind"`
	Group      int          `json:"group,omitempty"`
	Programs   []string     `json:"programs"`
	Teacher    string       `json:"teacher"`
	Attendees  int          `json:"attendees"`
	SplitTime  bool         `json:"split_time,omitempty"`
	Meetings   []MeetingDTO `json:"meetings"`
}

// MeetingDTO is one (time, room) occupation of a placed session.
type MeetingDTO struct {
	Week    int      `json:"week"`
	Weekday string   `json:"weekday"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Rooms   []string `json:"rooms"`
}

// PlacementFailureDTO reports a session the engine could not place.
type PlacementFailureDTO struct {
	Session    string `json:"session"`
	Constraint string `json:"constraint"`
	Attempts   int    `json:"attempted_points"`
}

// TimetableDocument is the stored and returned schedule.
type TimetableDocument struct {
	ID       string                `json:"id"`
	Metadata MetadataInput         `json:"metadata"`
	Programs []string              `json:"programs"`
	Sessions []PlacedSessionDTO    `json:"sessions"`
	Failures []PlacementFailureDTO `json:"failures,omitempty"`
	Partial  bool                  `json:"partial"`
}
