package scheduler

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/fsp-platform/timetable-api/internal/models"
	apperrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

// DeriveSessions expands the course and program catalogs into the ordered
// list of sessions to place: for each course in input order, lectures first,
// then tutorials, then labs. Tutorial and lab sessions are derived per
// program and split into groups whenever the program's headcount exceeds the
// standard room capacity; lectures take the union of attending programs and
// are never split.
func DeriveSessions(courses []*models.Course, programs []*models.Program, teachers []*models.Teacher, standardCapacity int, dualRoomTutorials bool) ([]*models.Session, error) {
	if standardCapacity <= 0 {
		return nil, apperrors.Clone(apperrors.ErrConfiguration, "standard room capacity must be positive")
	}

	known := make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		known[c.Code] = c
	}
	for _, p := range programs {
		for _, code := range p.Courses {
			if _, ok := known[code]; !ok {
				return nil, apperrors.Clone(apperrors.ErrConfiguration,
					fmt.Sprintf("program %s requires unknown course %s", p.ID, code))
			}
		}
	}

	teacherByCourse := make(map[string]*models.Teacher, len(courses))
	for _, t := range teachers {
		for _, code := range t.Courses {
			if _, ok := known[code]; !ok {
				return nil, apperrors.Clone(apperrors.ErrConfiguration,
					fmt.Sprintf("teacher %s lists unknown course %s", t.Name, code))
			}
			if _, taken := teacherByCourse[code]; !taken {
				teacherByCourse[code] = t
			}
		}
	}

	var sessions []*models.Session
	for _, course := range courses {
		cohort := lo.Filter(programs, func(p *models.Program, _ int) bool {
			return lo.Contains(p.Courses, course.Code)
		})
		if len(cohort) == 0 {
			continue
		}
		teacher := teacherByCourse[course.Code]
		if teacher == nil {
			return nil, apperrors.Clone(apperrors.ErrConfiguration,
				fmt.Sprintf("course %s has no teacher", course.Code))
		}

		attendees := lo.SumBy(cohort, func(p *models.Program) int { return p.Size })
		for i := 1; i <= course.Lectures; i++ {
			sessions = append(sessions, &models.Session{
				ID:          fmt.Sprintf("%s/lecture/%d", course.Code, i),
				Course:      course,
				Kind:        models.KindLecture,
				Occurrence:  i,
				Programs:    cohort,
				Teacher:     teacher,
				Attendees:   attendees,
				RoomsNeeded: 1,
			})
		}
		sessions = append(sessions, deriveGroups(course, models.KindTutorial, course.Tutorials, cohort, teacher, standardCapacity, dualRoomTutorials)...)
		sessions = append(sessions, deriveGroups(course, models.KindLab, course.Labs, cohort, teacher, standardCapacity, false)...)
	}
	return sessions, nil
}

// deriveGroups emits the per-program group sessions for one practical kind.
// Splitting increases the session count but keeps each group's share of the
// cohort, never the required instruction hours.
func deriveGroups(course *models.Course, kind models.SessionKind, count int, cohort []*models.Program, teacher *models.Teacher, standardCapacity int, dualRoom bool) []*models.Session {
	var sessions []*models.Session
	roomsNeeded := 1
	if dualRoom {
		roomsNeeded = 2
	}
	for i := 1; i <= count; i++ {
		for _, program := range cohort {
			groups := int(math.Ceil(float64(program.Size) / float64(standardCapacity)))
			if groups < 1 {
				groups = 1
			}
			headcount := int(math.Ceil(float64(program.Size) / float64(groups)))
			for g := 1; g <= groups; g++ {
				session := &models.Session{
					ID:          fmt.Sprintf("%s/%s/%d/%s", course.Code, kind, i, program.ID),
					Course:      course,
					Kind:        kind,
					Occurrence:  i,
					Programs:    []*models.Program{program},
					Teacher:     teacher,
					Attendees:   headcount,
					RoomsNeeded: roomsNeeded,
				}
				if groups > 1 {
					session.Group = g
					session.ID = fmt.Sprintf("%s/g%d", session.ID, g)
				}
				sessions = append(sessions, session)
			}
		}
	}
	return sessions
}
