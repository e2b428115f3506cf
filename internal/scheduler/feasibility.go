package scheduler

import (
	"math"

	"github.com/fsp-platform/timetable-api/internal/models"
)

// CapacityRatios configure how much of a session's cohort a candidate room
// must be able to seat. Ratios below 1 allow deliberate under-provisioning,
// e.g. a 150-seat hall hosting a 300-head first-year lecture.
type CapacityRatios struct {
	Lecture  float64 // per-room share for lectures
	DualRoom float64 // per-room share when a tutorial spans two rooms
	Default  float64 // everything else
}

// DefaultCapacityRatios mirrors the catalog's sizing assumptions: lecture
// halls may seat half the cohort, dual tutorial rooms a quarter each.
func DefaultCapacityRatios() CapacityRatios {
	return CapacityRatios{Lecture: 0.5, DualRoom: 0.25, Default: 1.0}
}

// FeasibilityChecker is the pure hard-constraint predicate. It only reads
// the tracker passed to Check and never mutates anything.
type FeasibilityChecker struct {
	grid   *TimeGrid
	ratios CapacityRatios
}

// NewFeasibilityChecker builds a checker over the grid's room catalog.
func NewFeasibilityChecker(grid *TimeGrid, ratios CapacityRatios) *FeasibilityChecker {
	return &FeasibilityChecker{grid: grid, ratios: ratios}
}

// Check reports whether placing the session at the point in the candidate
// rooms violates any hard constraint. On failure it names the constraint
// dimension of the first failing check; checks run cheapest first and
// short-circuit.
func (c *FeasibilityChecker) Check(t *OccupancyTracker, s *models.Session, p models.Point, rooms []*models.Room) (bool, models.ConstraintDimension) {
	if s.Teacher.IsUnavailable(p) || t.TeacherBusy(s.Teacher.Name, p) {
		return false, models.DimensionTeacher
	}
	for _, program := range s.Programs {
		if t.ProgramBusy(program.ID, p) {
			return false, models.DimensionProgram
		}
	}
	if ok := c.roomsValid(t, s, p, rooms); !ok {
		return false, models.DimensionRoom
	}
	if s.Course.TheoryBeforePractical && s.Kind != models.KindLecture && s.Course.Lectures > 0 {
		lecture, placed := t.LectureCommitted(s.Course.Code)
		if !placed || !lecture.Before(p) {
			return false, models.DimensionPrecedence
		}
	}
	return true, ""
}

func (c *FeasibilityChecker) roomsValid(t *OccupancyTracker, s *models.Session, p models.Point, rooms []*models.Room) bool {
	required := c.requiredSeats(s)
	firstYearLecture := s.Kind == models.KindLecture && hasFirstYear(s.Programs)
	for _, room := range rooms {
		if room.Capacity < required {
			return false
		}
		if t.RoomBusy(room.ID, p) {
			return false
		}
		if firstYearLecture && !room.LargeHall {
			return false
		}
	}
	return true
}

// requiredSeats applies the configured per-room capacity ratio to the
// session's attendee count.
func (c *FeasibilityChecker) requiredSeats(s *models.Session) int {
	ratio := c.ratios.Default
	switch {
	case s.Kind == models.KindLecture:
		ratio = c.ratios.Lecture
	case s.RoomsNeeded > 1:
		ratio = c.ratios.DualRoom
	}
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return int(math.Ceil(float64(s.Attendees) * ratio))
}

func hasFirstYear(programs []*models.Program) bool {
	for _, p := range programs {
		if p.FirstYear {
			return true
		}
	}
	return false
}
