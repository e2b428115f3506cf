package scheduler

import (
	"sort"

	"github.com/fsp-platform/timetable-api/internal/models"
)

type dayKey struct {
	Week int
	Day  int
}

// OccupancyTracker holds the mutable placement state of one engine run:
// teacher, program and room occupancy per point, plus the per-course state
// consulted by the precedence check and the soft-constraint scorer. It is
// mutated exclusively through Commit; every scheduling run owns its own
// instance.
type OccupancyTracker struct {
	teacherBusy map[string]map[models.Point]bool
	programBusy map[string]map[models.Point]bool
	roomBusy    map[string]map[models.Point]bool

	lastLecture map[string]models.Point // course code -> latest committed lecture point
	lastRoom    map[string]string       // course code -> most recently used room id

	programDaySlots map[string]map[dayKey][]int // program id -> day -> occupied slots, sorted
	programDayLoad  map[string]map[dayKey]int   // program id -> day -> committed session count
	courseDaySlots  map[string]map[dayKey][]int // "course|program" -> day -> occupied slots, sorted
}

// NewOccupancyTracker returns an empty tracker.
func NewOccupancyTracker() *OccupancyTracker {
	return &OccupancyTracker{
		teacherBusy:     make(map[string]map[models.Point]bool),
		programBusy:     make(map[string]map[models.Point]bool),
		roomBusy:        make(map[string]map[models.Point]bool),
		lastLecture:     make(map[string]models.Point),
		lastRoom:        make(map[string]string),
		programDaySlots: make(map[string]map[dayKey][]int),
		programDayLoad:  make(map[string]map[dayKey]int),
		courseDaySlots:  make(map[string]map[dayKey][]int),
	}
}

// TeacherBusy reports whether the teacher already has a session at the point.
func (t *OccupancyTracker) TeacherBusy(name string, p models.Point) bool {
	return t.teacherBusy[name][p]
}

// ProgramBusy reports whether the program already has a session at the point.
func (t *OccupancyTracker) ProgramBusy(id string, p models.Point) bool {
	return t.programBusy[id][p]
}

// RoomBusy reports whether the room already hosts a session at the point.
func (t *OccupancyTracker) RoomBusy(id string, p models.Point) bool {
	return t.roomBusy[id][p]
}

// LectureCommitted returns the latest committed lecture point of the course.
func (t *OccupancyTracker) LectureCommitted(courseCode string) (models.Point, bool) {
	p, ok := t.lastLecture[courseCode]
	return p, ok
}

// LastRoom returns the room most recently committed for the course.
func (t *OccupancyTracker) LastRoom(courseCode string) (string, bool) {
	id, ok := t.lastRoom[courseCode]
	return id, ok
}

// DailyLoad counts the program's committed sessions on the point's day.
func (t *OccupancyTracker) DailyLoad(programID string, p models.Point) int {
	return t.programDayLoad[programID][dayKey{Week: p.Week, Day: p.Day}]
}

// DaySlots returns the sorted slot indices the program occupies on the
// point's day.
func (t *OccupancyTracker) DaySlots(programID string, p models.Point) []int {
	return t.programDaySlots[programID][dayKey{Week: p.Week, Day: p.Day}]
}

// CourseDaySlots returns the sorted slot indices the (course, program) pair
// occupies on the point's day, used by the continuity bonus.
func (t *OccupancyTracker) CourseDaySlots(courseCode, programID string, p models.Point) []int {
	return t.courseDaySlots[courseCode+"|"+programID][dayKey{Week: p.Week, Day: p.Day}]
}

// Commit records a session's assignment across all three occupancy grids and
// updates the per-course state. The session must already carry its points
// and rooms.
func (t *OccupancyTracker) Commit(s *models.Session) {
	for i, p := range s.Points {
		t.occupy(t.teacherBusy, s.Teacher.Name, p)
		for _, program := range s.Programs {
			t.occupy(t.programBusy, program.ID, p)
			t.addDaySlot(t.programDaySlots, program.ID, p)
			t.bumpDayLoad(program.ID, p)
			t.addDaySlot(t.courseDaySlots, s.Course.Code+"|"+program.ID, p)
		}
		if s.SplitTime {
			// one room per point on a split-time placement
			t.occupy(t.roomBusy, s.Rooms[i].ID, p)
		} else {
			for _, room := range s.Rooms {
				t.occupy(t.roomBusy, room.ID, p)
			}
		}
	}
	if len(s.Rooms) > 0 {
		t.lastRoom[s.Course.Code] = s.Rooms[len(s.Rooms)-1].ID
	}
	if s.Kind == models.KindLecture && len(s.Points) > 0 {
		last := s.Points[len(s.Points)-1]
		if prev, ok := t.lastLecture[s.Course.Code]; !ok || prev.Before(last) {
			t.lastLecture[s.Course.Code] = last
		}
	}
}

func (t *OccupancyTracker) occupy(grid map[string]map[models.Point]bool, key string, p models.Point) {
	if grid[key] == nil {
		grid[key] = make(map[models.Point]bool)
	}
	grid[key][p] = true
}

func (t *OccupancyTracker) addDaySlot(grid map[string]map[dayKey][]int, key string, p models.Point) {
	if grid[key] == nil {
		grid[key] = make(map[dayKey][]int)
	}
	day := dayKey{Week: p.Week, Day: p.Day}
	slots := append(grid[key][day], p.Slot)
	sort.Ints(slots)
	grid[key][day] = slots
}

func (t *OccupancyTracker) bumpDayLoad(programID string, p models.Point) {
	if t.programDayLoad[programID] == nil {
		t.programDayLoad[programID] = make(map[dayKey]int)
	}
	t.programDayLoad[programID][dayKey{Week: p.Week, Day: p.Day}]++
}
