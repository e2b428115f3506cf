package scheduler

import "github.com/fsp-platform/timetable-api/internal/models"

// Weights tunes the soft-constraint cost components. Positive weights are
// penalties, bonus weights are subtracted. The defaults follow the original
// fitness tuning and are configuration, not business law.
type Weights struct {
	DailyLoad       float64
	Gap             float64
	EarlySlot       float64
	RoomConsistency float64
	Continuity      float64
	SplitTutorial   float64
	DailyLectureCap int
}

// DefaultWeights returns the tuned default weighting.
func DefaultWeights() Weights {
	return Weights{
		DailyLoad:       15,
		Gap:             5,
		EarlySlot:       3,
		RoomConsistency: 8,
		Continuity:      2,
		SplitTutorial:   10,
		DailyLectureCap: 3,
	}
}

// Scorer ranks already-feasible candidates; it never rejects one. Lower
// cost is better.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	if weights.DailyLectureCap <= 0 {
		weights.DailyLectureCap = DefaultWeights().DailyLectureCap
	}
	return &Scorer{weights: weights}
}

// Score computes the soft-constraint cost of committing the session at the
// point in the candidate rooms, given the tracker snapshot. Pure: no side
// effects on the tracker.
func (sc *Scorer) Score(t *OccupancyTracker, s *models.Session, p models.Point, rooms []*models.Room) float64 {
	var cost float64

	for _, program := range s.Programs {
		if t.DailyLoad(program.ID, p)+1 > sc.weights.DailyLectureCap {
			cost += sc.weights.DailyLoad
		}
		if gap := nearestGap(t.DaySlots(program.ID, p), p.Slot); gap > 0 {
			cost += sc.weights.Gap * float64(gap)
		}
		if adjacent(t.CourseDaySlots(s.Course.Code, program.ID, p), p.Slot) {
			cost -= sc.weights.Continuity
		}
	}

	if s.Kind == models.KindLecture && p.Slot == 0 {
		cost += sc.weights.EarlySlot
	}

	if last, ok := t.LastRoom(s.Course.Code); ok {
		for _, room := range rooms {
			if room.ID == last {
				cost -= sc.weights.RoomConsistency
				break
			}
		}
	}

	return cost
}

// SplitTimePenalty is the fixed cost added when a dual-room tutorial falls
// back to two placements at different points.
func (sc *Scorer) SplitTimePenalty() float64 {
	return sc.weights.SplitTutorial
}

// nearestGap returns the number of empty slots between the candidate slot
// and the nearest occupied slot on the same day, or 0 when the day is empty
// or the candidate is adjacent.
func nearestGap(occupied []int, slot int) int {
	nearest := -1
	for _, s := range occupied {
		d := slot - s
		if d < 0 {
			d = -d
		}
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	if nearest <= 1 {
		return 0
	}
	return nearest - 1
}

func adjacent(occupied []int, slot int) bool {
	for _, s := range occupied {
		if s == slot-1 || s == slot+1 {
			return true
		}
	}
	return false
}
