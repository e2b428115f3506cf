package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsp-platform/timetable-api/internal/models"
)

func fixtureGrid(t *testing.T) *TimeGrid {
	t.Helper()
	grid, err := NewTimeGrid(2, []*models.Room{
		{ID: "MSP", Capacity: 150, LargeHall: true},
		{ID: "R1", Capacity: 75},
		{ID: "R2", Capacity: 75},
	})
	require.NoError(t, err)
	return grid
}

func fixtureChecker(t *testing.T) (*FeasibilityChecker, *TimeGrid) {
	t.Helper()
	grid := fixtureGrid(t)
	return NewFeasibilityChecker(grid, DefaultCapacityRatios()), grid
}

func lectureSession(programs ...*models.Program) *models.Session {
	attendees := 0
	for _, p := range programs {
		attendees += p.Size
	}
	return &models.Session{
		ID:          "BCS1220/lecture/1",
		Course:      fixtureCourse("BCS1220", 1, 1, 0),
		Kind:        models.KindLecture,
		Occurrence:  1,
		Programs:    programs,
		Teacher:     fixtureTeacher("Alice", "BCS1220"),
		Attendees:   attendees,
		RoomsNeeded: 1,
	}
}

func TestCheckTeacherDimension(t *testing.T) {
	checker, grid := fixtureChecker(t)
	program := &models.Program{ID: "CS_Y2", Size: 60}
	p := models.Point{Week: 0, Day: 0, Slot: 1}

	t.Run("declared unavailability", func(t *testing.T) {
		s := lectureSession(program)
		s.Teacher.Unavailable[models.SlotRef{Day: 0, Slot: 1}] = true
		ok, dim := checker.Check(NewOccupancyTracker(), s, p, grid.Rooms()[:1])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionTeacher, dim)
	})

	t.Run("already committed elsewhere", func(t *testing.T) {
		s := lectureSession(program)
		tracker := NewOccupancyTracker()
		other := lectureSession(&models.Program{ID: "EE_Y2", Size: 30})
		other.Points = []models.Point{p}
		other.Rooms = grid.Rooms()[2:3]
		tracker.Commit(other)

		ok, dim := checker.Check(tracker, s, p, grid.Rooms()[:1])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionTeacher, dim)
	})
}

func TestCheckProgramDimension(t *testing.T) {
	checker, grid := fixtureChecker(t)
	program := &models.Program{ID: "CS_Y2", Size: 60}
	p := models.Point{Week: 0, Day: 2, Slot: 2}

	tracker := NewOccupancyTracker()
	other := lectureSession(program)
	other.Teacher = fixtureTeacher("Bob", "BCS1220")
	other.Points = []models.Point{p}
	other.Rooms = grid.Rooms()[2:3]
	tracker.Commit(other)

	s := lectureSession(program)
	ok, dim := checker.Check(tracker, s, p, grid.Rooms()[:1])
	assert.False(t, ok)
	assert.Equal(t, models.DimensionProgram, dim)
}

func TestCheckRoomDimension(t *testing.T) {
	checker, grid := fixtureChecker(t)
	p := models.Point{Week: 1, Day: 4, Slot: 3}

	t.Run("occupied room", func(t *testing.T) {
		tracker := NewOccupancyTracker()
		other := lectureSession(&models.Program{ID: "EE_Y2", Size: 30})
		other.Teacher = fixtureTeacher("Bob", "BCS1220")
		other.Points = []models.Point{p}
		other.Rooms = grid.Rooms()[1:2]
		tracker.Commit(other)

		s := lectureSession(&models.Program{ID: "CS_Y2", Size: 60})
		ok, dim := checker.Check(tracker, s, p, grid.Rooms()[1:2])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionRoom, dim)
	})

	t.Run("insufficient capacity", func(t *testing.T) {
		s := lectureSession(&models.Program{ID: "CS_Y2", Size: 200})
		// lecture ratio 0.5 requires 100 seats, R1 offers 75
		ok, dim := checker.Check(NewOccupancyTracker(), s, p, grid.Rooms()[1:2])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionRoom, dim)
	})
}

func TestCheckLectureCapacityRatio(t *testing.T) {
	checker, grid := fixtureChecker(t)
	p := models.Point{Week: 0, Day: 0, Slot: 0}

	// 300 attendees at ratio 0.5 fit the 150-seat hall exactly
	s := lectureSession(&models.Program{ID: "CS_Y1", Size: 300, FirstYear: true})
	hall := []*models.Room{grid.LargeHall()}
	ok, _ := checker.Check(NewOccupancyTracker(), s, p, hall)
	assert.True(t, ok)
}

func TestCheckFirstYearLectureRequiresHall(t *testing.T) {
	checker, grid := fixtureChecker(t)
	p := models.Point{Week: 0, Day: 1, Slot: 1}

	s := lectureSession(&models.Program{ID: "CS_Y1", Size: 100, FirstYear: true})
	ok, dim := checker.Check(NewOccupancyTracker(), s, p, grid.Rooms()[1:2])
	assert.False(t, ok)
	assert.Equal(t, models.DimensionRoom, dim)

	ok, _ = checker.Check(NewOccupancyTracker(), s, p, []*models.Room{grid.LargeHall()})
	assert.True(t, ok)

	// tutorials of a first-year program are not forced into the hall
	tut := &models.Session{
		Course:      s.Course,
		Kind:        models.KindTutorial,
		Programs:    s.Programs,
		Teacher:     s.Teacher,
		Attendees:   60,
		RoomsNeeded: 1,
	}
	ok, _ = checker.Check(NewOccupancyTracker(), tut, p, grid.Rooms()[1:2])
	assert.True(t, ok)
}

func TestCheckDualRoomCapacityRatio(t *testing.T) {
	checker, grid := fixtureChecker(t)
	p := models.Point{Week: 0, Day: 3, Slot: 2}

	s := &models.Session{
		Course:      fixtureCourse("BCS1220", 1, 1, 0),
		Kind:        models.KindTutorial,
		Programs:    []*models.Program{{ID: "CS_Y2", Size: 280}},
		Teacher:     fixtureTeacher("Alice", "BCS1220"),
		Attendees:   280,
		RoomsNeeded: 2,
	}
	// ratio 0.25 requires 70 seats per room
	ok, _ := checker.Check(NewOccupancyTracker(), s, p, grid.Rooms()[1:3])
	assert.True(t, ok)

	s.Attendees = 320 // 80 seats per room now, beyond the 75-seat rooms
	ok, dim := checker.Check(NewOccupancyTracker(), s, p, grid.Rooms()[1:3])
	assert.False(t, ok)
	assert.Equal(t, models.DimensionRoom, dim)
}

func TestCheckPrecedenceDimension(t *testing.T) {
	checker, grid := fixtureChecker(t)
	course := fixtureCourse("BCS1220", 1, 1, 0)
	course.TheoryBeforePractical = true
	program := &models.Program{ID: "CS_Y2", Size: 60}

	tutorial := &models.Session{
		Course:      course,
		Kind:        models.KindTutorial,
		Programs:    []*models.Program{program},
		Teacher:     fixtureTeacher("Alice", "BCS1220"),
		Attendees:   60,
		RoomsNeeded: 1,
	}

	t.Run("no lecture committed yet", func(t *testing.T) {
		ok, dim := checker.Check(NewOccupancyTracker(), tutorial, models.Point{Week: 0, Day: 0, Slot: 2}, grid.Rooms()[1:2])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionPrecedence, dim)
	})

	t.Run("before and after the lecture", func(t *testing.T) {
		tracker := NewOccupancyTracker()
		lecture := lectureSession(program)
		lecture.Course = course
		lecture.Points = []models.Point{{Week: 0, Day: 1, Slot: 0}}
		lecture.Rooms = []*models.Room{grid.LargeHall()}
		tracker.Commit(lecture)

		ok, dim := checker.Check(tracker, tutorial, models.Point{Week: 0, Day: 0, Slot: 2}, grid.Rooms()[1:2])
		assert.False(t, ok)
		assert.Equal(t, models.DimensionPrecedence, dim)

		ok, dim = checker.Check(tracker, tutorial, models.Point{Week: 0, Day: 1, Slot: 0}, grid.Rooms()[1:2])
		assert.False(t, ok, "same point as the lecture is not after it")
		assert.Equal(t, models.DimensionTeacher, dim, "teacher exclusivity trips first at the lecture's own point")

		ok, _ = checker.Check(tracker, tutorial, models.Point{Week: 0, Day: 1, Slot: 1}, grid.Rooms()[1:2])
		assert.True(t, ok)
	})
}
