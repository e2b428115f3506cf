package service

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fsp-platform/timetable-api/internal/dto"
	"github.com/fsp-platform/timetable-api/internal/models"
	"github.com/fsp-platform/timetable-api/pkg/config"
	appErrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

type memStore struct {
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}}
}

func (m *memStore) Save(id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[id] = data
	return nil
}

func (m *memStore) Load(id string, dst interface{}) error {
	return json.Unmarshal(m.docs[id], dst)
}

func (m *memStore) Exists(id string) bool {
	_, ok := m.docs[id]
	return ok
}

func newTimetableServiceFixture(store *memStore) *TimetableService {
	return NewTimetableService(store, models.DefaultRooms(), config.SchedulerConfig{}, nil, validator.New(), zap.NewNop())
}

func validRequest() *dto.GenerateTimetableRequest {
	return &dto.GenerateTimetableRequest{
		Metadata: dto.MetadataInput{Period: "Period 2", Year: "2024-2025", Weeks: 2},
		Courses: []dto.CourseInput{
			{Code: "BCS1220", Name: "Programming", Lectures: 1, Tutorials: 1, Labs: 1, HoursPerSession: 2},
		},
		Teachers: map[string]dto.TeacherInput{
			"Alice": {Courses: []string{"BCS1220"}},
		},
		Programs: map[string]dto.ProgramInput{
			"CS_Y1": {Size: 300, Courses: []string{"BCS1220"}},
		},
	}
}

func TestGenerateProducesStoredSchedule(t *testing.T) {
	store := newMemStore()
	svc := newTimetableServiceFixture(store)

	doc, problems, err := svc.Generate(validRequest())
	require.NoError(t, err)
	require.Empty(t, problems)
	require.NotNil(t, doc)

	assert.NotEmpty(t, doc.ID)
	assert.True(t, store.Exists(doc.ID), "document must be persisted")
	assert.Equal(t, []string{"CS_Y1"}, doc.Programs)
	assert.False(t, doc.Partial)

	// 1 lecture + 4 tutorial groups + 4 lab groups
	assert.Len(t, doc.Sessions, 9)

	var lectures int
	for _, s := range doc.Sessions {
		if s.Kind != "lecture" {
			continue
		}
		lectures++
		require.Len(t, s.Meetings, 1)
		assert.Equal(t, []string{"MSP"}, s.Meetings[0].Rooms, "first-year lecture belongs in the hall")
	}
	assert.Equal(t, 1, lectures)
}

func TestGenerateReportsFieldProblems(t *testing.T) {
	svc := newTimetableServiceFixture(newMemStore())

	req := validRequest()
	req.Metadata.Weeks = 0
	req.Programs["CS_Y1"] = dto.ProgramInput{Size: 0, Courses: []string{"BCS1220"}}

	doc, problems, err := svc.Generate(req)
	require.NoError(t, err)
	assert.Nil(t, doc)
	require.NotEmpty(t, problems)
}

func TestGenerateReportsCrossReferenceProblems(t *testing.T) {
	svc := newTimetableServiceFixture(newMemStore())

	tests := []struct {
		name     string
		mutate   func(req *dto.GenerateTimetableRequest)
		wantCode string
	}{
		{
			name: "program requires unknown course",
			mutate: func(req *dto.GenerateTimetableRequest) {
				req.Programs["CS_Y1"] = dto.ProgramInput{Size: 100, Courses: []string{"NOPE"}}
			},
			wantCode: "UNKNOWN_COURSE",
		},
		{
			name: "teacher lists unknown course",
			mutate: func(req *dto.GenerateTimetableRequest) {
				req.Teachers["Alice"] = dto.TeacherInput{Courses: []string{"NOPE"}}
			},
			wantCode: "UNKNOWN_COURSE",
		},
		{
			name: "course without teacher",
			mutate: func(req *dto.GenerateTimetableRequest) {
				req.Courses = append(req.Courses, dto.CourseInput{Code: "ORPHAN", Lectures: 1})
				req.Programs["CS_Y1"] = dto.ProgramInput{Size: 100, Courses: []string{"BCS1220", "ORPHAN"}}
			},
			wantCode: "NO_TEACHER",
		},
		{
			name: "malformed unavailability",
			mutate: func(req *dto.GenerateTimetableRequest) {
				req.Teachers["Alice"] = dto.TeacherInput{Courses: []string{"BCS1220"}, Unavailable: []string{"Monday 08:30"}}
			},
			wantCode: "INVALID_SLOT",
		},
		{
			name: "duplicate course code",
			mutate: func(req *dto.GenerateTimetableRequest) {
				req.Courses = append(req.Courses, req.Courses[0])
			},
			wantCode: "DUPLICATE_COURSE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			doc, problems, err := svc.Generate(req)
			require.NoError(t, err)
			assert.Nil(t, doc)
			require.NotEmpty(t, problems)
			codes := make([]string, 0, len(problems))
			for _, p := range problems {
				codes = append(codes, p.Code)
			}
			assert.Contains(t, codes, tc.wantCode)
		})
	}
}

func TestGenerateHonoursUnavailability(t *testing.T) {
	svc := newTimetableServiceFixture(newMemStore())

	req := validRequest()
	req.Teachers["Alice"] = dto.TeacherInput{
		Courses:     []string{"BCS1220"},
		Unavailable: []string{"Monday-08:30", "Monday-11:00"},
	}

	doc, problems, err := svc.Generate(req)
	require.NoError(t, err)
	require.Empty(t, problems)

	for _, s := range doc.Sessions {
		for _, m := range s.Meetings {
			if m.Weekday == "Monday" {
				assert.NotContains(t, []string{"08:30", "11:00"}, m.Start)
			}
		}
	}
}

func TestGetFiltersByProgram(t *testing.T) {
	store := newMemStore()
	svc := newTimetableServiceFixture(store)

	req := validRequest()
	req.Programs["CS_Y1"] = dto.ProgramInput{Size: 100, Courses: []string{"BCS1220"}}
	req.Programs["EE_Y1"] = dto.ProgramInput{Size: 60, Courses: []string{"BCS1220"}}

	doc, problems, err := svc.Generate(req)
	require.NoError(t, err)
	require.Empty(t, problems)

	full, err := svc.Get(doc.ID, "")
	require.NoError(t, err)
	assert.Len(t, full.Sessions, len(doc.Sessions))

	filtered, err := svc.Get(doc.ID, "EE_Y1")
	require.NoError(t, err)
	require.NotEmpty(t, filtered.Sessions)
	assert.Less(t, len(filtered.Sessions), len(full.Sessions))
	for _, s := range filtered.Sessions {
		assert.Contains(t, s.Programs, "EE_Y1")
	}
}

func TestGetUnknownScheduleOrProgram(t *testing.T) {
	store := newMemStore()
	svc := newTimetableServiceFixture(store)

	_, err := svc.Get("missing", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	doc, problems, err := svc.Generate(validRequest())
	require.NoError(t, err)
	require.Empty(t, problems)

	_, err = svc.Get(doc.ID, "NOPE")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGeneratePartialScheduleKeepsFailures(t *testing.T) {
	svc := newTimetableServiceFixture(newMemStore())

	req := validRequest()
	unavailable := make([]string, 0, 20)
	for _, day := range models.WeekdayNames {
		for _, start := range models.SlotStartTimes {
			unavailable = append(unavailable, day+"-"+start)
		}
	}
	req.Teachers["Alice"] = dto.TeacherInput{Courses: []string{"BCS1220"}, Unavailable: unavailable}

	doc, problems, err := svc.Generate(req)
	require.NoError(t, err)
	require.Empty(t, problems)
	require.NotNil(t, doc)

	assert.True(t, doc.Partial)
	assert.Empty(t, doc.Sessions)
	require.NotEmpty(t, doc.Failures)
	for _, f := range doc.Failures {
		assert.Equal(t, "TEACHER", f.Constraint)
		assert.Positive(t, f.Attempts)
	}
}
