package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fsp-platform/timetable-api/internal/dto"
	"github.com/fsp-platform/timetable-api/internal/models"
	"github.com/fsp-platform/timetable-api/internal/scheduler"
	"github.com/fsp-platform/timetable-api/pkg/config"
	apperrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

// firstYearSuffix marks cohorts whose lectures must use the large hall.
const firstYearSuffix = "_Y1"

type documentStore interface {
	Save(id string, doc interface{}) error
	Load(id string, dst interface{}) error
	Exists(id string) bool
}

// TimetableService validates input documents, runs the assignment engine
// and persists the resulting schedule documents.
type TimetableService struct {
	store     documentStore
	rooms     []*models.Room
	scheduler config.SchedulerConfig
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(store documentStore, rooms []*models.Room, cfg config.SchedulerConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(rooms) == 0 {
		rooms = models.DefaultRooms()
	}
	return &TimetableService{
		store:     store,
		rooms:     rooms,
		scheduler: cfg,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Generate runs the full pipeline for one input document: validate, derive
// sessions, place them, persist and return the schedule. Validation problems
// are returned as data, not as an error.
func (s *TimetableService) Generate(req *dto.GenerateTimetableRequest) (*dto.TimetableDocument, []dto.ValidationProblem, error) {
	problems := s.validateRequest(req)
	if len(problems) > 0 {
		return nil, problems, nil
	}

	courses, programs, teachers, err := buildCatalogs(req)
	if err != nil {
		return nil, nil, err
	}

	grid, err := scheduler.NewTimeGrid(req.Metadata.Weeks, s.rooms)
	if err != nil {
		return nil, nil, err
	}

	sessions, err := scheduler.DeriveSessions(courses, programs, teachers, grid.StandardCapacity(), s.scheduler.DualRoomTutorials)
	if err != nil {
		return nil, nil, err
	}

	engine := scheduler.NewEngine(
		grid,
		scheduler.NewFeasibilityChecker(grid, s.capacityRatios()),
		scheduler.NewScorer(s.weights()),
		scheduler.Config{AllowSplitTutorials: s.scheduler.AllowSplitTutorials},
		s.logger,
	)

	meta := models.Metadata{Period: req.Metadata.Period, Year: req.Metadata.Year, Weeks: req.Metadata.Weeks}
	timetable := engine.Run(meta, sessions)
	timetable.ID = uuid.NewString()

	doc := buildDocument(timetable, req)
	if err := s.store.Save(doc.ID, doc); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "persist schedule")
	}

	s.metrics.RecordSchedulingRun(len(doc.Sessions), len(doc.Failures))
	s.logger.Info("schedule stored",
		zap.String("id", doc.ID),
		zap.Int("sessions", len(doc.Sessions)),
		zap.Int("failures", len(doc.Failures)),
	)
	return doc, nil, nil
}

// Get loads a stored schedule, optionally narrowed to one program's view.
func (s *TimetableService) Get(id, program string) (*dto.TimetableDocument, error) {
	if !s.store.Exists(id) {
		return nil, apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("schedule %s not found", id))
	}
	doc := &dto.TimetableDocument{}
	if err := s.store.Load(id, doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "load schedule")
	}
	if program == "" {
		return doc, nil
	}
	if !lo.Contains(doc.Programs, program) {
		return nil, apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("program %s not in schedule %s", program, id))
	}
	filtered := *doc
	filtered.Sessions = lo.Filter(doc.Sessions, func(sess dto.PlacedSessionDTO, _ int) bool {
		return lo.Contains(sess.Programs, program)
	})
	return &filtered, nil
}

// validateRequest combines struct-tag validation with the cross-reference
// checks the tags cannot express.
func (s *TimetableService) validateRequest(req *dto.GenerateTimetableRequest) []dto.ValidationProblem {
	var problems []dto.ValidationProblem

	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, dto.ValidationProblem{
					Field:   fe.Namespace(),
					Code:    strings.ToUpper(fe.Tag()),
					Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				})
			}
		} else {
			problems = append(problems, dto.ValidationProblem{Field: "", Code: "INVALID", Message: err.Error()})
		}
		return problems
	}

	known := make(map[string]bool, len(req.Courses))
	taught := make(map[string]bool)
	for i, course := range req.Courses {
		if known[course.Code] {
			problems = append(problems, dto.ValidationProblem{
				Field:   fmt.Sprintf("courses[%d].code", i),
				Code:    "DUPLICATE_COURSE",
				Message: fmt.Sprintf("course %s appears more than once", course.Code),
			})
		}
		known[course.Code] = true
		if course.Lectures+course.Tutorials+course.Labs == 0 {
			problems = append(problems, dto.ValidationProblem{
				Field:   fmt.Sprintf("courses[%d]", i),
				Code:    "NO_SESSIONS",
				Message: fmt.Sprintf("course %s requires no sessions", course.Code),
			})
		}
	}

	for _, name := range sortedKeys(req.Teachers) {
		teacher := req.Teachers[name]
		for _, code := range teacher.Courses {
			if !known[code] {
				problems = append(problems, dto.ValidationProblem{
					Field:   fmt.Sprintf("teachers.%s.courses", name),
					Code:    "UNKNOWN_COURSE",
					Message: fmt.Sprintf("teacher %s lists unknown course %s", name, code),
				})
			}
			taught[code] = true
		}
		for _, raw := range teacher.Unavailable {
			if _, err := parseSlotRef(raw); err != nil {
				problems = append(problems, dto.ValidationProblem{
					Field:   fmt.Sprintf("teachers.%s.unavailable", name),
					Code:    "INVALID_SLOT",
					Message: err.Error(),
				})
			}
		}
	}

	for _, id := range sortedKeys(req.Programs) {
		program := req.Programs[id]
		for _, code := range program.Courses {
			if !known[code] {
				problems = append(problems, dto.ValidationProblem{
					Field:   fmt.Sprintf("programs.%s.courses", id),
					Code:    "UNKNOWN_COURSE",
					Message: fmt.Sprintf("program %s requires unknown course %s", id, code),
				})
			} else if !taught[code] {
				problems = append(problems, dto.ValidationProblem{
					Field:   fmt.Sprintf("programs.%s.courses", id),
					Code:    "NO_TEACHER",
					Message: fmt.Sprintf("course %s has no teacher", code),
				})
			}
		}
	}

	return problems
}

func (s *TimetableService) capacityRatios() scheduler.CapacityRatios {
	ratios := scheduler.DefaultCapacityRatios()
	if s.scheduler.LectureCapacityRatio > 0 {
		ratios.Lecture = s.scheduler.LectureCapacityRatio
	}
	if s.scheduler.DualRoomCapacityRatio > 0 {
		ratios.DualRoom = s.scheduler.DualRoomCapacityRatio
	}
	return ratios
}

func (s *TimetableService) weights() scheduler.Weights {
	weights := scheduler.DefaultWeights()
	if s.scheduler.WeightDailyLoad > 0 {
		weights.DailyLoad = s.scheduler.WeightDailyLoad
	}
	if s.scheduler.WeightGap > 0 {
		weights.Gap = s.scheduler.WeightGap
	}
	if s.scheduler.WeightEarlySlot > 0 {
		weights.EarlySlot = s.scheduler.WeightEarlySlot
	}
	if s.scheduler.WeightRoomConsistency > 0 {
		weights.RoomConsistency = s.scheduler.WeightRoomConsistency
	}
	if s.scheduler.WeightContinuity > 0 {
		weights.Continuity = s.scheduler.WeightContinuity
	}
	if s.scheduler.WeightSplitTutorial > 0 {
		weights.SplitTutorial = s.scheduler.WeightSplitTutorial
	}
	if s.scheduler.DailyLectureCap > 0 {
		weights.DailyLectureCap = s.scheduler.DailyLectureCap
	}
	return weights
}

// buildCatalogs converts the validated document into domain catalogs. Map
// entries are visited in sorted key order so runs are reproducible.
func buildCatalogs(req *dto.GenerateTimetableRequest) ([]*models.Course, []*models.Program, []*models.Teacher, error) {
	courses := make([]*models.Course, 0, len(req.Courses))
	for _, c := range req.Courses {
		hours := c.HoursPerSession
		if hours <= 0 {
			hours = 2
		}
		courses = append(courses, &models.Course{
			Code:                  c.Code,
			Name:                  c.Name,
			Lectures:              c.Lectures,
			Tutorials:             c.Tutorials,
			Labs:                  c.Labs,
			HoursPerSession:       hours,
			TheoryBeforePractical: c.TheoryBeforePractical,
		})
	}

	teachers := make([]*models.Teacher, 0, len(req.Teachers))
	for _, name := range sortedKeys(req.Teachers) {
		in := req.Teachers[name]
		unavailable := make(map[models.SlotRef]bool, len(in.Unavailable))
		for _, raw := range in.Unavailable {
			ref, err := parseSlotRef(raw)
			if err != nil {
				return nil, nil, nil, apperrors.Clone(apperrors.ErrConfiguration, err.Error())
			}
			unavailable[ref] = true
		}
		teachers = append(teachers, &models.Teacher{Name: name, Courses: in.Courses, Unavailable: unavailable})
	}

	programs := make([]*models.Program, 0, len(req.Programs))
	for _, id := range sortedKeys(req.Programs) {
		in := req.Programs[id]
		programs = append(programs, &models.Program{
			ID:        id,
			Size:      in.Size,
			Courses:   in.Courses,
			FirstYear: strings.HasSuffix(id, firstYearSuffix),
		})
	}

	return courses, programs, teachers, nil
}

// buildDocument flattens the engine output into the stored representation.
func buildDocument(t *models.Timetable, req *dto.GenerateTimetableRequest) *dto.TimetableDocument {
	doc := &dto.TimetableDocument{
		ID: t.ID,
		Metadata: dto.MetadataInput{
			Period: t.Metadata.Period,
			Year:   t.Metadata.Year,
			Weeks:  t.Metadata.Weeks,
		},
		Programs: sortedKeys(req.Programs),
		Partial:  t.Partial(),
	}

	for _, session := range t.Sessions {
		out := dto.PlacedSessionDTO{
			Course:     session.Course.Code,
			CourseName: session.Course.Name,
			Kind:       session.Kind.String(),
			Group:      session.Group,
			Programs:   session.ProgramIDs(),
			Teacher:    session.Teacher.Name,
			Attendees:  session.Attendees,
			SplitTime:  session.SplitTime,
		}
		if session.SplitTime {
			for i, point := range session.Points {
				out.Meetings = append(out.Meetings, meetingAt(point, []*models.Room{session.Rooms[i]}))
			}
		} else {
			for _, point := range session.Points {
				out.Meetings = append(out.Meetings, meetingAt(point, session.Rooms))
			}
		}
		doc.Sessions = append(doc.Sessions, out)
	}

	for _, failure := range t.Failures {
		doc.Failures = append(doc.Failures, dto.PlacementFailureDTO{
			Session:    failure.Session.Descriptor(),
			Constraint: string(failure.Dimension),
			Attempts:   failure.Attempts,
		})
	}

	return doc
}

func meetingAt(p models.Point, rooms []*models.Room) dto.MeetingDTO {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return dto.MeetingDTO{
		Week:    p.Week + 1,
		Weekday: p.WeekdayName(),
		Start:   p.StartTime(),
		End:     models.SlotEndTimes[p.Slot],
		Rooms:   ids,
	}
}

// parseSlotRef decodes "Weekday-HH:MM" against the fixed grid tables.
func parseSlotRef(raw string) (models.SlotRef, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return models.SlotRef{}, fmt.Errorf("unavailability %q is not Weekday-HH:MM", raw)
	}
	day := lo.IndexOf(models.WeekdayNames, parts[0])
	if day < 0 {
		return models.SlotRef{}, fmt.Errorf("unavailability %q names unknown weekday %s", raw, parts[0])
	}
	slot := lo.IndexOf(models.SlotStartTimes, parts[1])
	if slot < 0 {
		return models.SlotRef{}, fmt.Errorf("unavailability %q names unknown start time %s", raw, parts[1])
	}
	return models.SlotRef{Day: day, Slot: slot}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
