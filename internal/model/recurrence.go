package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurYearly  RecurrenceType = "yearly"
)

// Valid reports whether t is a known recurrence type.
func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// RecurrenceRule describes how a template task repeats.
type RecurrenceRule struct {
	ID          uint           `gorm:"primaryKey"`
	TaskID      uint           `gorm:"uniqueIndex"`
	Type        RecurrenceType `gorm:"type:varchar(16)"`
	Interval    int            `gorm:"default:1"`
	DaysOfWeek  Weekdays       `gorm:"type:varchar(32)"`
	DayOfMonth  *int
	EndDate     *time.Time
	Occurrences *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Task        Task `gorm:"foreignKey:TaskID"`
}

// EffectiveInterval returns Interval clamped to a minimum of 1.
func (r RecurrenceRule) EffectiveInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// Weekdays is a set of weekday indices with Monday = 0 and Sunday = 6.
// It is stored as a comma separated string, e.g. "0,2,4".
type Weekdays []int

// Normalized returns the distinct in-range values in ascending order.
func (w Weekdays) Normalized() Weekdays {
	seen := make(map[int]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func (w Weekdays) Value() (driver.Value, error) {
	parts := make([]string, 0, len(w))
	for _, d := range w {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ","), nil
}

func (w *Weekdays) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("weekdays: unsupported type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*w = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	days := make(Weekdays, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("weekdays: parse %q: %w", p, err)
		}
		days = append(days, d)
	}
	*w = days
	return nil
}

// WeekdayIndex converts a time.Weekday (Sunday = 0) to the Monday = 0 convention.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
