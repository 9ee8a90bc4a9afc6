package model

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task represents a single item on a project board.
//
// RecurrenceRuleID is set only on instances generated from a recurring
// template; the template itself keeps it nil.
type Task struct {
	ID               uint `gorm:"primaryKey"`
	ProjectID        uint `gorm:"index"`
	Title            string
	Description      string
	Status           TaskStatus   `gorm:"type:varchar(16);default:todo"`
	Priority         TaskPriority `gorm:"type:varchar(16);default:medium"`
	AssigneeID       *uint        `gorm:"index"`
	StartDate        *time.Time
	DueDate          *time.Time `gorm:"uniqueIndex:idx_rule_due_date"`
	StartTime        string     // HH:MM
	EndTime          string     // HH:MM
	Order            int        `gorm:"column:sort_order;default:0"`
	RecurrenceRuleID *uint      `gorm:"uniqueIndex:idx_rule_due_date"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Generated reports whether the task was created by the recurrence engine.
func (t Task) Generated() bool {
	return t.RecurrenceRuleID != nil
}
