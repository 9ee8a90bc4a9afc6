package service

import (
	"time"

	"recurring-planner/internal/model"
)

// NextOccurrence advances current by one step of rule.
//
// Monthly and yearly steps never roll over into the following month: a day
// that does not exist in the target month is clamped to its last day.
func NextOccurrence(current time.Time, rule model.RecurrenceRule) time.Time {
	interval := rule.EffectiveInterval()

	switch rule.Type {
	case model.RecurWeekly:
		days := rule.DaysOfWeek.Normalized()
		if len(days) == 0 {
			return current.AddDate(0, 0, interval*7)
		}
		today := model.WeekdayIndex(current.Weekday())
		for _, d := range days {
			if d > today {
				return current.AddDate(0, 0, d-today)
			}
		}
		return current.AddDate(0, 0, 7-today+days[0])
	case model.RecurMonthly:
		return addMonths(current, interval, pinnedDay(current, rule.DayOfMonth))
	case model.RecurYearly:
		return addMonths(current, interval*12, pinnedDay(current, rule.DayOfMonth))
	default:
		return current.AddDate(0, 0, interval)
	}
}

func pinnedDay(current time.Time, dayOfMonth *int) int {
	if dayOfMonth == nil || *dayOfMonth < 1 {
		return current.Day()
	}
	if *dayOfMonth > 31 {
		return 31
	}
	return *dayOfMonth
}

// addMonths moves t forward by months and sets the day, clamped to the target month.
func addMonths(t time.Time, months, day int) time.Time {
	year, month, _ := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		day = last
	}
	hour, minute, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	lastOfMonth := firstOfNextMonth.AddDate(0, 0, -1)
	return lastOfMonth.Day()
}
