package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsp-platform/timetable-api/internal/models"
)

func fixtureCourse(code string, lectures, tutorials, labs int) *models.Course {
	return &models.Course{
		Code:            code,
		Name:            code + " course",
		Lectures:        lectures,
		Tutorials:       tutorials,
		Labs:            labs,
		HoursPerSession: 2,
	}
}

func fixtureTeacher(name string, courses ...string) *models.Teacher {
	return &models.Teacher{Name: name, Courses: courses, Unavailable: map[models.SlotRef]bool{}}
}

func TestDeriveSessionsSplitsLargeCohort(t *testing.T) {
	course := fixtureCourse("BCS1220", 1, 1, 2)
	program := &models.Program{ID: "CS_Y1", Size: 300, Courses: []string{"BCS1220"}, FirstYear: true}
	teacher := fixtureTeacher("Alice", "BCS1220")

	sessions, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, []*models.Teacher{teacher}, 75, false)
	require.NoError(t, err)

	// 1 lecture + 4 tutorial groups + 2 lab occurrences x 4 groups
	require.Len(t, sessions, 13)

	lecture := sessions[0]
	assert.Equal(t, models.KindLecture, lecture.Kind)
	assert.Equal(t, 300, lecture.Attendees)
	assert.Zero(t, lecture.Group)

	var tutorials, labs int
	for _, s := range sessions[1:] {
		switch s.Kind {
		case models.KindTutorial:
			tutorials++
		case models.KindLab:
			labs++
		default:
			t.Fatalf("unexpected kind %s", s.Kind)
		}
		assert.Equal(t, 75, s.Attendees)
		assert.GreaterOrEqual(t, s.Group, 1)
		assert.LessOrEqual(t, s.Group, 4)
	}
	assert.Equal(t, 4, tutorials)
	assert.Equal(t, 8, labs)
}

func TestDeriveSessionsSmallCohortUnsplit(t *testing.T) {
	course := fixtureCourse("NET210", 1, 1, 0)
	program := &models.Program{ID: "NET_Y2", Size: 60, Courses: []string{"NET210"}}
	teacher := fixtureTeacher("Bob", "NET210")

	sessions, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, []*models.Teacher{teacher}, 75, false)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	tutorial := sessions[1]
	assert.Equal(t, models.KindTutorial, tutorial.Kind)
	assert.Zero(t, tutorial.Group)
	assert.Equal(t, 60, tutorial.Attendees)
}

func TestDeriveSessionsLectureUnionPracticalsPerProgram(t *testing.T) {
	course := fixtureCourse("MTH101", 1, 1, 0)
	programs := []*models.Program{
		{ID: "CS_Y1", Size: 100, Courses: []string{"MTH101"}, FirstYear: true},
		{ID: "EE_Y1", Size: 50, Courses: []string{"MTH101"}, FirstYear: true},
	}
	teacher := fixtureTeacher("Carol", "MTH101")

	sessions, err := DeriveSessions([]*models.Course{course}, programs, []*models.Teacher{teacher}, 75, false)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	lecture := sessions[0]
	assert.Equal(t, models.KindLecture, lecture.Kind)
	assert.Equal(t, 150, lecture.Attendees)
	assert.ElementsMatch(t, []string{"CS_Y1", "EE_Y1"}, lecture.ProgramIDs())

	// CS_Y1 splits into two tutorial groups, EE_Y1 keeps one
	var csGroups, eeGroups int
	for _, s := range sessions[1:] {
		require.Equal(t, models.KindTutorial, s.Kind)
		require.Len(t, s.Programs, 1)
		switch s.Programs[0].ID {
		case "CS_Y1":
			csGroups++
		case "EE_Y1":
			eeGroups++
		}
	}
	assert.Equal(t, 2, csGroups)
	assert.Equal(t, 1, eeGroups)
}

func TestDeriveSessionsDualRoomTutorials(t *testing.T) {
	course := fixtureCourse("PHY110", 0, 1, 1)
	program := &models.Program{ID: "PH_Y1", Size: 60, Courses: []string{"PHY110"}}
	teacher := fixtureTeacher("Dan", "PHY110")

	sessions, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, []*models.Teacher{teacher}, 75, true)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, models.KindTutorial, sessions[0].Kind)
	assert.Equal(t, 2, sessions[0].RoomsNeeded)
	assert.Equal(t, models.KindLab, sessions[1].Kind)
	assert.Equal(t, 1, sessions[1].RoomsNeeded)
}

func TestDeriveSessionsOrderedByCourseThenKind(t *testing.T) {
	courses := []*models.Course{
		fixtureCourse("AAA100", 1, 1, 1),
		fixtureCourse("BBB200", 1, 0, 0),
	}
	program := &models.Program{ID: "CS_Y2", Size: 40, Courses: []string{"AAA100", "BBB200"}}
	teacher := fixtureTeacher("Eve", "AAA100", "BBB200")

	sessions, err := DeriveSessions(courses, []*models.Program{program}, []*models.Teacher{teacher}, 75, false)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	assert.Equal(t, "AAA100/lecture/1", sessions[0].ID)
	assert.Equal(t, "AAA100/tutorial/1/CS_Y2", sessions[1].ID)
	assert.Equal(t, "AAA100/lab/1/CS_Y2", sessions[2].ID)
	assert.Equal(t, "BBB200/lecture/1", sessions[3].ID)
}

func TestDeriveSessionsRejectsInconsistentInput(t *testing.T) {
	course := fixtureCourse("CSE101", 1, 0, 0)
	program := &models.Program{ID: "CS_Y1", Size: 30, Courses: []string{"CSE101"}}

	t.Run("program references unknown course", func(t *testing.T) {
		bad := &models.Program{ID: "CS_Y1", Size: 30, Courses: []string{"NOPE"}}
		_, err := DeriveSessions([]*models.Course{course}, []*models.Program{bad}, []*models.Teacher{fixtureTeacher("Frank", "CSE101")}, 75, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown course NOPE")
	})

	t.Run("teacher references unknown course", func(t *testing.T) {
		_, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, []*models.Teacher{fixtureTeacher("Frank", "NOPE")}, 75, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown course NOPE")
	})

	t.Run("course without teacher", func(t *testing.T) {
		_, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, nil, 75, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no teacher")
	})

	t.Run("invalid standard capacity", func(t *testing.T) {
		_, err := DeriveSessions([]*models.Course{course}, []*models.Program{program}, []*models.Teacher{fixtureTeacher("Frank", "CSE101")}, 0, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capacity")
	})
}
