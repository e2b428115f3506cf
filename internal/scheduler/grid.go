// Package scheduler implements the timetabling core: session derivation,
// occupancy tracking, hard-constraint feasibility checks, soft-constraint
// scoring and the greedy single-pass assignment engine.
package scheduler

import (
	"sort"

	"github.com/fsp-platform/timetable-api/internal/models"
	apperrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

const (
	daysPerWeek = 5
	slotsPerDay = 4
)

// TimeGrid enumerates every schedulable point of the period together with
// the fixed room catalog available at each point.
type TimeGrid struct {
	Weeks int
	rooms []*models.Room
	hall  *models.Room
}

// NewTimeGrid builds a grid for the given week count and room catalog.
// Rooms are sorted by identifier so candidate enumeration is deterministic.
func NewTimeGrid(weeks int, rooms []*models.Room) (*TimeGrid, error) {
	if weeks <= 0 {
		return nil, apperrors.Clone(apperrors.ErrConfiguration, "week count must be positive")
	}
	if len(rooms) == 0 {
		return nil, apperrors.Clone(apperrors.ErrConfiguration, "room catalog is empty")
	}
	sorted := make([]*models.Room, len(rooms))
	copy(sorted, rooms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var hall *models.Room
	for _, r := range sorted {
		if r.LargeHall {
			if hall != nil {
				return nil, apperrors.Clone(apperrors.ErrConfiguration, "room catalog defines more than one large hall")
			}
			hall = r
		}
	}
	if hall == nil {
		return nil, apperrors.Clone(apperrors.ErrConfiguration, "room catalog defines no large hall")
	}
	return &TimeGrid{Weeks: weeks, rooms: sorted, hall: hall}, nil
}

// Points returns every point of the grid in ascending (week, weekday, slot)
// order.
func (g *TimeGrid) Points() []models.Point {
	points := make([]models.Point, 0, g.TotalPoints())
	for week := 0; week < g.Weeks; week++ {
		for day := 0; day < daysPerWeek; day++ {
			for slot := 0; slot < slotsPerDay; slot++ {
				points = append(points, models.Point{Week: week, Day: day, Slot: slot})
			}
		}
	}
	return points
}

// TotalPoints is weeks x weekdays x slots.
func (g *TimeGrid) TotalPoints() int {
	return g.Weeks * daysPerWeek * slotsPerDay
}

// Rooms returns the catalog sorted by room identifier.
func (g *TimeGrid) Rooms() []*models.Room {
	return g.rooms
}

// LargeHall returns the single high-capacity hall of the catalog.
func (g *TimeGrid) LargeHall() *models.Room {
	return g.hall
}

// StandardCapacity is the seat count driving cohort splitting.
func (g *TimeGrid) StandardCapacity() int {
	return models.StandardCapacity(g.rooms)
}
