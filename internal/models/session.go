package models

import "fmt"

// SessionKind distinguishes lectures, tutorials and labs. The zero value is
// a lecture; ordering matters because lectures are always placed first.
type SessionKind int

const (
	KindLecture SessionKind = iota
	KindTutorial
	KindLab
)

func (k SessionKind) String() string {
	switch k {
	case KindLecture:
		return "lecture"
	case KindTutorial:
		return "tutorial"
	case KindLab:
		return "lab"
	default:
		return fmt.Sprintf("kind-%d", int(k))
	}
}

// ParseSessionKind maps a document string to a SessionKind.
func ParseSessionKind(s string) (SessionKind, bool) {
	switch s {
	case "lecture":
		return KindLecture, true
	case "tutorial":
		return KindTutorial, true
	case "lab":
		return KindLab, true
	default:
		return 0, false
	}
}

// Session is one concrete instructional meeting to place. Sessions are
// created by the deriver before any placement and are only mutated to record
// the committed assignment or a failure marker.
type Session struct {
	ID          string
	Course      *Course
	Kind        SessionKind
	Occurrence  int // 1-based index among sessions of the same kind
	Group       int // 1-based group number for split cohorts, 0 when unsplit
	Programs    []*Program
	Teacher     *Teacher
	Attendees   int
	RoomsNeeded int

	// Assignment outcome, written exactly once by the engine.
	Placed    bool
	Points    []Point // one point normally, two for a split-time tutorial
	Rooms     []*Room
	SplitTime bool
}

// Descriptor renders a human-readable identity for reports and failures.
func (s *Session) Descriptor() string {
	if s.Group > 0 {
		return fmt.Sprintf("%s %s #%d group %d", s.Course.Code, s.Kind, s.Occurrence, s.Group)
	}
	return fmt.Sprintf("%s %s #%d", s.Course.Code, s.Kind, s.Occurrence)
}

// ProgramIDs lists the attending program identifiers in derivation order.
func (s *Session) ProgramIDs() []string {
	ids := make([]string, 0, len(s.Programs))
	for _, p := range s.Programs {
		ids = append(ids, p.ID)
	}
	return ids
}
