package models

// ConstraintDimension names the hard constraint family that blocked a
// candidate placement.
type ConstraintDimension string

const (
	DimensionTeacher    ConstraintDimension = "TEACHER"
	DimensionProgram    ConstraintDimension = "PROGRAM"
	DimensionRoom       ConstraintDimension = "ROOM"
	DimensionPrecedence ConstraintDimension = "PRECEDENCE"
)

// PlacementFailure records a session for which no feasible point and room
// combination existed. Failures are accumulated, never fatal to the run.
type PlacementFailure struct {
	Session   *Session
	Dimension ConstraintDimension // constraint blocking the most attempted points
	Attempts  int                 // number of points attempted
}

// Metadata labels a scheduling period.
type Metadata struct {
	Period string `json:"period"`
	Year   string `json:"year"`
	Weeks  int    `json:"weeks"`
}

// Timetable is the outcome of one engine run: every committed session in
// placement order plus the failures of a partial run. Immutable once the
// run finishes and safe for concurrent reads.
type Timetable struct {
	ID       string
	Metadata Metadata
	Sessions []*Session
	Failures []PlacementFailure
}

// Partial reports whether any derived session could not be placed.
func (t *Timetable) Partial() bool {
	return len(t.Failures) > 0
}
