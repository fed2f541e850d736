package models

// Day is a teaching day code as used across constraints, locks and placements.
type Day string

const (
	DayMonday    Day = "MON"
	DayTuesday   Day = "TUE"
	DayWednesday Day = "WED"
	DayThursday  Day = "THU"
	DayFriday    Day = "FRI"
	DaySaturday  Day = "SAT"
)

// Valid reports whether the day is one of the known codes.
func (d Day) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday:
		return true
	}
	return false
}
