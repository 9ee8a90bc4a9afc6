package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
)

// RecurrenceRepository persists recurrence rules.
type RecurrenceRepository struct {
	db *gorm.DB
}

func NewRecurrenceRepository(db *gorm.DB) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

func (r *RecurrenceRepository) Create(ctx context.Context, rule *model.RecurrenceRule) error {
	if err := r.db.WithContext(ctx).Omit("Task").Create(rule).Error; err != nil {
		return fmt.Errorf("create recurrence rule: %w", err)
	}
	return nil
}

func (r *RecurrenceRepository) FindByTaskID(ctx context.Context, taskID uint) (*model.RecurrenceRule, error) {
	var rule model.RecurrenceRule
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListWithTemplate returns every rule with its template task preloaded.
// Rules whose template was deleted are left out.
func (r *RecurrenceRepository) ListWithTemplate(ctx context.Context) ([]model.RecurrenceRule, error) {
	var rules []model.RecurrenceRule
	if err := r.db.WithContext(ctx).Preload("Task").Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("list recurrence rules: %w", err)
	}
	out := rules[:0]
	for _, rule := range rules {
		if rule.Task.ID == 0 {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// Delete removes the rule and detaches the instances it generated.
func (r *RecurrenceRepository) Delete(ctx context.Context, rule *model.RecurrenceRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("recurrence_rule_id = ?", rule.ID).
			Update("recurrence_rule_id", nil).Error; err != nil {
			return fmt.Errorf("detach instances: %w", err)
		}
		if err := tx.Delete(&model.RecurrenceRule{}, rule.ID).Error; err != nil {
			return fmt.Errorf("delete recurrence rule: %w", err)
		}
		return nil
	})
}
