package plan

import "strings"

// NormalizeWorkout pins the workout week to seven Monday..Sunday entries.
// When any entry names a weekday, entries are matched by name (first match
// wins); otherwise they are assigned in order. Missing days get no exercises
// and surplus entries are dropped.
func NormalizeWorkout(days []WorkoutDay) []WorkoutDay {
	out := make([]WorkoutDay, len(Weekdays))
	for i, d := range Weekdays {
		out[i] = WorkoutDay{Day: d, Exercises: []Exercise{}}
	}

	if hasWeekdayNames(days) {
		for i, d := range Weekdays {
			for _, wd := range days {
				if strings.EqualFold(strings.TrimSpace(wd.Day), d) {
					out[i] = withDay(wd, d)
					break
				}
			}
		}
		return out
	}

	for i := 0; i < len(days) && i < len(out); i++ {
		out[i] = withDay(days[i], Weekdays[i])
	}
	return out
}

func hasWeekdayNames(days []WorkoutDay) bool {
	for _, wd := range days {
		if weekdayIndex(wd.Day) >= 0 {
			return true
		}
	}
	return false
}

// weekdayIndex returns the position of a full weekday name, or -1.
func weekdayIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, d := range Weekdays {
		if strings.EqualFold(name, d) {
			return i
		}
	}
	return -1
}

func withDay(wd WorkoutDay, day string) WorkoutDay {
	wd.Day = day
	if wd.Exercises == nil {
		wd.Exercises = []Exercise{}
	}
	return wd
}
