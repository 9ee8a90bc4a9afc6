package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).
		Order("sort_order ASC, due_date NULLS LAST, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// LatestInstance returns the generated instance with the latest due date, or nil when the rule has none yet.
func (r *TaskRepository) LatestInstance(ctx context.Context, ruleID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("recurrence_rule_id = ?", ruleID).
		Order("due_date DESC, id DESC").
		First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("latest instance: %w", err)
	}
}

func (r *TaskRepository) CountInstances(ctx context.Context, ruleID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("recurrence_rule_id = ?", ruleID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count instances: %w", err)
	}
	return n, nil
}
