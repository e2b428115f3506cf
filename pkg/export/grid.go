package export

// WeekGrid is one week of the timetable laid out for rendering: cell
// [day][slot] holds the display lines of the meetings at that point.
type WeekGrid struct {
	Week  int
	Days  []string
	Slots []string
	Cells [][][]string
}

// NewWeekGrid allocates an empty grid for the given axes.
func NewWeekGrid(week int, days, slots []string) *WeekGrid {
	cells := make([][][]string, len(days))
	for d := range cells {
		cells[d] = make([][]string, len(slots))
	}
	return &WeekGrid{Week: week, Days: days, Slots: slots, Cells: cells}
}

// Add appends display lines to the cell at (day, slot).
func (g *WeekGrid) Add(day, slot int, lines ...string) {
	if day < 0 || day >= len(g.Cells) || slot < 0 || slot >= len(g.Cells[day]) {
		return
	}
	g.Cells[day][slot] = append(g.Cells[day][slot], lines...)
}
