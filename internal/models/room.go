package models

// Room is a physical room from the fixed catalog. The catalog is static
// configuration, never part of the uploaded input document.
type Room struct {
	ID        string `csv:"room_id" json:"id"`
	Capacity  int    `csv:"capacity" json:"capacity"`
	LargeHall bool   `csv:"large_hall" json:"large_hall"`
}

// DefaultRooms returns the built-in room catalog: one large hall and ten
// standard 75-seat rooms.
func DefaultRooms() []*Room {
	return []*Room{
		{ID: "MSP", Capacity: 150, LargeHall: true},
		{ID: "B0.001", Capacity: 75},
		{ID: "B0.003", Capacity: 75},
		{ID: "C0.004", Capacity: 75},
		{ID: "C0.008", Capacity: 75},
		{ID: "C0.016", Capacity: 75},
		{ID: "C0.020", Capacity: 75},
		{ID: "C1.005", Capacity: 75},
		{ID: "C1.015", Capacity: 75},
		{ID: "C2.007", Capacity: 75},
		{ID: "C2.017", Capacity: 75},
	}
}

// StandardCapacity returns the seat count of the largest non-hall room,
// which drives cohort splitting for tutorials and labs.
func StandardCapacity(rooms []*Room) int {
	capacity := 0
	for _, r := range rooms {
		if r.LargeHall {
			continue
		}
		if r.Capacity > capacity {
			capacity = r.Capacity
		}
	}
	return capacity
}
