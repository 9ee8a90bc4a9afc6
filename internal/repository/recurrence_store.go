package repository

import (
	"context"

	"recurring-planner/internal/model"
)

// RecurrenceStore is the persistence collaborator of the recurrence engine.
type RecurrenceStore struct {
	rules *RecurrenceRepository
	tasks *TaskRepository
}

func NewRecurrenceStore(rules *RecurrenceRepository, tasks *TaskRepository) *RecurrenceStore {
	return &RecurrenceStore{rules: rules, tasks: tasks}
}

func (s *RecurrenceStore) ListRules(ctx context.Context) ([]model.RecurrenceRule, error) {
	return s.rules.ListWithTemplate(ctx)
}

func (s *RecurrenceStore) LatestInstance(ctx context.Context, ruleID uint) (*model.Task, error) {
	return s.tasks.LatestInstance(ctx, ruleID)
}

func (s *RecurrenceStore) CountInstances(ctx context.Context, ruleID uint) (int64, error) {
	return s.tasks.CountInstances(ctx, ruleID)
}

func (s *RecurrenceStore) CreateInstance(ctx context.Context, task *model.Task) error {
	return s.tasks.Create(ctx, task)
}
