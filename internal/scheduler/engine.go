package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/fsp-platform/timetable-api/internal/models"
)

// Config holds the engine's placement policies.
type Config struct {
	// AllowSplitTutorials lets a dual-room tutorial fall back to two
	// single-room placements at different points when no same-point room
	// pair is feasible. The fallback is a soft violation, scored.
	AllowSplitTutorials bool
}

// Engine runs the greedy single-pass assignment: for each session in
// derivation order it enumerates every feasible (point, rooms) candidate,
// scores them all and commits the cheapest. Committed sessions are never
// revisited; sessions with no feasible candidate are recorded as failures
// and the run continues.
type Engine struct {
	grid    *TimeGrid
	checker *FeasibilityChecker
	scorer  *Scorer
	cfg     Config
	logger  *zap.Logger
}

// NewEngine wires the engine's collaborators.
func NewEngine(grid *TimeGrid, checker *FeasibilityChecker, scorer *Scorer, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{grid: grid, checker: checker, scorer: scorer, cfg: cfg, logger: logger}
}

type candidate struct {
	point models.Point
	rooms []*models.Room
	cost  float64
}

// attemptStats aggregates why candidates were rejected, for the best-effort
// failure diagnostic.
type attemptStats struct {
	points   int
	rejected map[models.ConstraintDimension]int
}

func newAttemptStats() *attemptStats {
	return &attemptStats{rejected: make(map[models.ConstraintDimension]int)}
}

// dominant returns the dimension that blocked the most attempts, with a
// fixed tie-break order for determinism.
func (a *attemptStats) dominant() models.ConstraintDimension {
	order := []models.ConstraintDimension{
		models.DimensionTeacher,
		models.DimensionProgram,
		models.DimensionRoom,
		models.DimensionPrecedence,
	}
	best := order[0]
	for _, dim := range order[1:] {
		if a.rejected[dim] > a.rejected[best] {
			best = dim
		}
	}
	return best
}

// Run places every session and returns the resulting timetable. The run is
// synchronous, deterministic and bounded by sessions x points x room
// combinations.
func (e *Engine) Run(meta models.Metadata, sessions []*models.Session) *models.Timetable {
	start := time.Now()
	tracker := NewOccupancyTracker()
	timetable := &models.Timetable{Metadata: meta}

	for _, session := range sessions {
		if e.place(tracker, session, timetable) {
			timetable.Sessions = append(timetable.Sessions, session)
		}
	}

	e.logger.Info("scheduling run finished",
		zap.Int("derived", len(sessions)),
		zap.Int("placed", len(timetable.Sessions)),
		zap.Int("failed", len(timetable.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return timetable
}

func (e *Engine) place(tracker *OccupancyTracker, s *models.Session, timetable *models.Timetable) bool {
	stats := newAttemptStats()
	candidates := e.enumerate(tracker, s, s.RoomsNeeded, nil, stats)

	if len(candidates) == 0 && s.RoomsNeeded > 1 && e.cfg.AllowSplitTutorials {
		if e.placeSplitTime(tracker, s, stats) {
			return true
		}
		timetable.Failures = append(timetable.Failures, models.PlacementFailure{
			Session:   s,
			Dimension: stats.dominant(),
			Attempts:  stats.points,
		})
		return false
	}

	if len(candidates) == 0 {
		timetable.Failures = append(timetable.Failures, models.PlacementFailure{
			Session:   s,
			Dimension: stats.dominant(),
			Attempts:  stats.points,
		})
		return false
	}

	best := pickBest(candidates)
	s.Placed = true
	s.Points = []models.Point{best.point}
	s.Rooms = best.rooms
	tracker.Commit(s)
	return true
}

// placeSplitTime commits a dual-room tutorial as two single-room placements
// at distinct points. Both halves must be feasible; the split itself costs a
// fixed scorer penalty on top of each half's score.
func (e *Engine) placeSplitTime(tracker *OccupancyTracker, s *models.Session, stats *attemptStats) bool {
	singles := e.enumerate(tracker, s, 1, nil, stats)
	if len(singles) == 0 {
		return false
	}
	first := pickBest(singles)
	rest := e.enumerate(tracker, s, 1, &first.point, newAttemptStats())
	if len(rest) == 0 {
		return false
	}
	second := pickBest(rest)

	s.Placed = true
	s.SplitTime = true
	if first.point.Before(second.point) {
		s.Points = []models.Point{first.point, second.point}
		s.Rooms = []*models.Room{first.rooms[0], second.rooms[0]}
	} else {
		s.Points = []models.Point{second.point, first.point}
		s.Rooms = []*models.Room{second.rooms[0], first.rooms[0]}
	}
	tracker.Commit(s)
	return true
}

// enumerate walks every point in ascending order and every room combination
// of the requested size, collecting scored feasible candidates. skip, when
// set, excludes one point (used by the split-time fallback).
func (e *Engine) enumerate(tracker *OccupancyTracker, s *models.Session, roomCount int, skip *models.Point, stats *attemptStats) []candidate {
	var candidates []candidate
	for _, point := range e.grid.Points() {
		if skip != nil && point == *skip {
			continue
		}
		stats.points++
		for _, rooms := range e.roomCombos(roomCount) {
			ok, dim := e.checker.Check(tracker, s, point, rooms)
			if !ok {
				stats.rejected[dim]++
				if dim == models.DimensionTeacher || dim == models.DimensionProgram || dim == models.DimensionPrecedence {
					// point-level failure, no room combination can recover
					break
				}
				continue
			}
			cost := e.scorer.Score(tracker, s, point, rooms)
			if roomCount < s.RoomsNeeded {
				cost += e.scorer.SplitTimePenalty()
			}
			candidates = append(candidates, candidate{point: point, rooms: rooms, cost: cost})
		}
	}
	return candidates
}

// roomCombos yields room sets of the requested size in catalog order, so
// ties resolve to the lowest room identifiers.
func (e *Engine) roomCombos(size int) [][]*models.Room {
	rooms := e.grid.Rooms()
	var combos [][]*models.Room
	if size <= 1 {
		for _, r := range rooms {
			combos = append(combos, []*models.Room{r})
		}
		return combos
	}
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			combos = append(combos, []*models.Room{rooms[i], rooms[j]})
		}
	}
	return combos
}

// pickBest selects the minimum-cost candidate. Enumeration order is
// ascending (point, rooms), so a strict comparison keeps the earliest point
// and lowest room identifiers on ties.
func pickBest(candidates []candidate) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	return best
}
