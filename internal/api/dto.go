package api

import (
	"time"

	"recurring-planner/internal/model"
)

const dateLayout = "2006-01-02"

type TaskItem struct {
	ID               uint    `json:"id"`
	ProjectID        uint    `json:"project_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	AssigneeID       *uint   `json:"assignee_id,omitempty"`
	StartDate        *string `json:"start_date,omitempty"`
	DueDate          *string `json:"due_date,omitempty"`
	StartTime        string  `json:"start_time,omitempty"`
	EndTime          string  `json:"end_time,omitempty"`
	Order            int     `json:"order"`
	RecurrenceRuleID *uint   `json:"recurrence_rule_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=65535"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uint   `json:"assignee_id" binding:"omitempty,gt=0"`
	StartDate   *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Order       int     `json:"order" binding:"gte=0"`
}

type RuleItem struct {
	ID          uint    `json:"id"`
	TaskID      uint    `json:"task_id"`
	Type        string  `json:"type"`
	Interval    int     `json:"interval"`
	DaysOfWeek  []int   `json:"days_of_week,omitempty"`
	DayOfMonth  *int    `json:"day_of_month,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Occurrences *int    `json:"occurrences,omitempty"`
}

type CreateRuleRequest struct {
	Type        string  `json:"type" binding:"required,oneof=daily weekly monthly yearly"`
	Interval    *int    `json:"interval" binding:"omitempty,gte=1"`
	DaysOfWeek  []int   `json:"days_of_week" binding:"omitempty,dive,gte=0,lte=6"`
	DayOfMonth  *int    `json:"day_of_month" binding:"omitempty,gte=1,lte=31"`
	EndDate     *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Occurrences *int    `json:"occurrences" binding:"omitempty,gte=1"`
}

type ProjectItem struct {
	ID          uint   `json:"id"`
	WorkspaceID uint   `json:"workspace_id"`
	Name        string `json:"name"`
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type MemberItem struct {
	WorkspaceID uint   `json:"workspace_id"`
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required,gt=0"`
	Role   string `json:"role" binding:"required,oneof=admin editor viewer"`
}

func toTaskItems(tasks []model.Task) []TaskItem {
	items := make([]TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, toTaskItem(task))
	}
	return items
}

func toTaskItem(task model.Task) TaskItem {
	return TaskItem{
		ID:               task.ID,
		ProjectID:        task.ProjectID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           string(task.Status),
		Priority:         string(task.Priority),
		AssigneeID:       task.AssigneeID,
		StartDate:        formatDate(task.StartDate),
		DueDate:          formatDate(task.DueDate),
		StartTime:        task.StartTime,
		EndTime:          task.EndTime,
		Order:            task.Order,
		RecurrenceRuleID: task.RecurrenceRuleID,
		CreatedAt:        task.CreatedAt.Format(time.RFC3339),
	}
}

func toRuleItem(rule model.RecurrenceRule) RuleItem {
	return RuleItem{
		ID:          rule.ID,
		TaskID:      rule.TaskID,
		Type:        string(rule.Type),
		Interval:    rule.Interval,
		DaysOfWeek:  rule.DaysOfWeek,
		DayOfMonth:  rule.DayOfMonth,
		EndDate:     formatDate(rule.EndDate),
		Occurrences: rule.Occurrences,
	}
}

func toProjectItem(project model.Project) ProjectItem {
	return ProjectItem{ID: project.ID, WorkspaceID: project.WorkspaceID, Name: project.Name}
}

func toMemberItem(m model.Membership) MemberItem {
	return MemberItem{WorkspaceID: m.WorkspaceID, UserID: m.UserID, Role: string(m.Role)}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.Format(dateLayout)
	return &value
}

func parseDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, *raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
