package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

// RuleInput represents data required to attach a recurrence rule to a task.
type RuleInput struct {
	Type        model.RecurrenceType
	Interval    int
	DaysOfWeek  []int
	DayOfMonth  *int
	EndDate     *time.Time
	Occurrences *int
}

// RuleService creates and reads recurrence rules on behalf of a user.
type RuleService struct {
	rules  *repository.RecurrenceRepository
	tasks  *repository.TaskRepository
	access *AccessService
}

func NewRuleService(rules *repository.RecurrenceRepository, tasks *repository.TaskRepository, access *AccessService) *RuleService {
	return &RuleService{rules: rules, tasks: tasks, access: access}
}

func (s *RuleService) CreateRule(ctx context.Context, userID, taskID uint, input RuleInput) (*model.RecurrenceRule, error) {
	template, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task")
	}
	if _, err := s.access.Require(ctx, userID, template.ProjectID, model.CapManageRecurrence); err != nil {
		return nil, err
	}
	if template.Generated() {
		return nil, fmt.Errorf("%w: task is a generated instance", ErrInvalidRule)
	}
	if err := ValidateRule(input, template); err != nil {
		return nil, err
	}

	rule := &model.RecurrenceRule{
		TaskID:      template.ID,
		Type:        input.Type,
		Interval:    input.Interval,
		Occurrences: input.Occurrences,
		EndDate:     input.EndDate,
	}
	switch input.Type {
	case model.RecurWeekly:
		rule.DaysOfWeek = model.Weekdays(input.DaysOfWeek).Normalized()
	case model.RecurMonthly, model.RecurYearly:
		rule.DayOfMonth = input.DayOfMonth
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRuleExists
		}
		return nil, err
	}
	rule.Task = *template
	return rule, nil
}

func (s *RuleService) GetRule(ctx context.Context, userID, taskID uint) (*model.RecurrenceRule, error) {
	rule, template, err := s.load(ctx, userID, taskID, model.CapView)
	if err != nil {
		return nil, err
	}
	rule.Task = *template
	return rule, nil
}

func (s *RuleService) DeleteRule(ctx context.Context, userID, taskID uint) error {
	rule, _, err := s.load(ctx, userID, taskID, model.CapManageRecurrence)
	if err != nil {
		return err
	}
	return s.rules.Delete(ctx, rule)
}

func (s *RuleService) load(ctx context.Context, userID, taskID uint, c model.Capability) (*model.RecurrenceRule, *model.Task, error) {
	template, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, notFound(err, "task")
	}
	if _, err := s.access.Require(ctx, userID, template.ProjectID, c); err != nil {
		return nil, nil, err
	}
	rule, err := s.rules.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, nil, notFound(err, "recurrence rule")
	}
	return rule, template, nil
}

// ValidateRule rejects configurations the generator would otherwise have to clamp.
func ValidateRule(input RuleInput, template *model.Task) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, input.Type)
	}
	if input.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1", ErrInvalidRule)
	}
	for _, d := range input.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidRule, d)
		}
	}
	if input.DayOfMonth != nil && (*input.DayOfMonth < 1 || *input.DayOfMonth > 31) {
		return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidRule, *input.DayOfMonth)
	}
	if input.Occurrences != nil && *input.Occurrences < 1 {
		return fmt.Errorf("%w: occurrences must be at least 1", ErrInvalidRule)
	}
	if input.EndDate != nil && template != nil {
		if ref := templateDate(*template); ref != nil && input.EndDate.Before(*ref) {
			return fmt.Errorf("%w: end date is before the task date", ErrInvalidRule)
		}
	}
	return nil
}

func templateDate(t model.Task) *time.Time {
	if t.DueDate != nil {
		return t.DueDate
	}
	return t.StartDate
}
