package models

// Course describes required instruction for one course code. Immutable once
// loaded from the input document.
type Course struct {
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	Lectures              int    `json:"lectures"`
	Tutorials             int    `json:"tutorials"`
	Labs                  int    `json:"labs"`
	HoursPerSession       int    `json:"hours_per_session"`
	TheoryBeforePractical bool   `json:"theory_before_practical"`
}

// Teacher holds the courses a teacher delivers and the weekly recurring
// points at which they are unavailable.
type Teacher struct {
	Name        string
	Courses     []string
	Unavailable map[SlotRef]bool
}

// IsUnavailable reports whether the teacher blocks the point's weekly slot.
func (t *Teacher) IsUnavailable(p Point) bool {
	return t.Unavailable[SlotRef{Day: p.Day, Slot: p.Slot}]
}

// Program is a student cohort with a headcount and required courses.
// FirstYear cohorts consolidate their lectures into the large hall.
type Program struct {
	ID        string
	Size      int
	Courses   []string
	FirstYear bool
}
