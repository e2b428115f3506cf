package models

import "fmt"

// Weekday names for the five teaching days, index 0 = Monday.
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// SlotStartTimes lists the fixed start time of each teaching slot.
var SlotStartTimes = []string{"08:30", "11:00", "13:30", "16:00"}

// SlotEndTimes lists the fixed end time of each teaching slot.
var SlotEndTimes = []string{"10:30", "13:00", "15:30", "18:00"}

// Point is an atomic schedulable unit: a week, a weekday and a slot index.
type Point struct {
	Week int `json:"week"`
	Day  int `json:"day"`
	Slot int `json:"slot"`
}

// Index flattens the point into a single ordinal using week-major,
// weekday-minor, slot-minor ordering.
func (p Point) Index(daysPerWeek, slotsPerDay int) int {
	return (p.Week*daysPerWeek+p.Day)*slotsPerDay + p.Slot
}

// Before reports whether p is strictly earlier than q.
func (p Point) Before(q Point) bool {
	if p.Week != q.Week {
		return p.Week < q.Week
	}
	if p.Day != q.Day {
		return p.Day < q.Day
	}
	return p.Slot < q.Slot
}

// WeekdayName returns the display name of the point's weekday.
func (p Point) WeekdayName() string {
	if p.Day >= 0 && p.Day < len(WeekdayNames) {
		return WeekdayNames[p.Day]
	}
	return fmt.Sprintf("day-%d", p.Day)
}

// StartTime returns the display start time of the point's slot.
func (p Point) StartTime() string {
	if p.Slot >= 0 && p.Slot < len(SlotStartTimes) {
		return SlotStartTimes[p.Slot]
	}
	return fmt.Sprintf("slot-%d", p.Slot)
}

func (p Point) String() string {
	return fmt.Sprintf("week %d %s %s", p.Week+1, p.WeekdayName(), p.StartTime())
}

// SlotRef identifies a weekly recurring (weekday, slot) pair, used for
// teacher unavailability which applies to every week of the period.
type SlotRef struct {
	Day  int `json:"day"`
	Slot int `json:"slot"`
}
