package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recurring-planner/internal/model"
)

// RecurrenceStore is what the generator needs from persistence.
type RecurrenceStore interface {
	ListRules(ctx context.Context) ([]model.RecurrenceRule, error)
	// LatestInstance returns nil, nil when the rule has not generated anything yet.
	LatestInstance(ctx context.Context, ruleID uint) (*model.Task, error)
	CountInstances(ctx context.Context, ruleID uint) (int64, error)
	CreateInstance(ctx context.Context, task *model.Task) error
}

// Notifier is told about the instances created by a generation pass.
type Notifier interface {
	NotifyGenerated(ctx context.Context, created []model.Task) error
}

// GeneratorService materializes task instances for recurring templates.
type GeneratorService struct {
	store    RecurrenceStore
	notifier Notifier
	loc      *time.Location
	log      *zap.Logger
}

// NewGeneratorService builds a generator that steps dates in loc. A nil loc
// means time.Local.
func NewGeneratorService(store RecurrenceStore, notifier Notifier, loc *time.Location, log *zap.Logger) *GeneratorService {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeneratorService{store: store, notifier: notifier, loc: loc, log: log}
}

// Generate runs one pass over every rule and creates the instances whose next
// date has been reached by now. A failing rule is logged and skipped; only a
// failure to list rules is returned.
func (s *GeneratorService) Generate(ctx context.Context, now time.Time) ([]model.Task, error) {
	rules, err := s.store.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	var created []model.Task
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		task, err := s.generateOne(ctx, rule, now)
		if err != nil {
			s.log.Warn("recurrence rule skipped",
				zap.Uint("rule_id", rule.ID),
				zap.Uint("task_id", rule.TaskID),
				zap.Error(err))
			continue
		}
		if task != nil {
			created = append(created, *task)
		}
	}

	s.log.Info("generation pass finished",
		zap.Int("rules", len(rules)),
		zap.Int("created", len(created)),
		zap.Time("now", now))

	if len(created) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyGenerated(ctx, created); err != nil {
			s.log.Warn("notify generated tasks", zap.Error(err))
		}
	}
	return created, nil
}

func (s *GeneratorService) generateOne(ctx context.Context, rule model.RecurrenceRule, now time.Time) (*model.Task, error) {
	template := rule.Task

	latest, err := s.store.LatestInstance(ctx, rule.ID)
	if err != nil {
		return nil, err
	}
	// Stored times come back with a fixed offset; step in the configured zone.
	reference := referenceDate(template, latest, now).In(s.loc)

	if rule.EndDate != nil && reference.After(*rule.EndDate) {
		return nil, nil
	}

	if rule.Occurrences != nil {
		count, err := s.store.CountInstances(ctx, rule.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*rule.Occurrences) {
			return nil, nil
		}
	}

	next := NextOccurrence(reference, rule)
	if rule.EndDate != nil && next.After(*rule.EndDate) {
		return nil, nil
	}
	if next.After(now) {
		return nil, nil
	}

	instance := newInstance(template, rule.ID, next)
	if err := s.store.CreateInstance(ctx, &instance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Debug("instance already generated", zap.Uint("rule_id", rule.ID), zap.Time("due_date", next))
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

func referenceDate(template model.Task, latest *model.Task, now time.Time) time.Time {
	switch {
	case latest != nil && latest.DueDate != nil:
		return *latest.DueDate
	case template.DueDate != nil:
		return *template.DueDate
	case template.StartDate != nil:
		return *template.StartDate
	default:
		return now
	}
}

func newInstance(template model.Task, ruleID uint, due time.Time) model.Task {
	instance := model.Task{
		ProjectID:        template.ProjectID,
		Title:            template.Title,
		Description:      template.Description,
		Status:           model.TaskStatusTodo,
		Priority:         template.Priority,
		AssigneeID:       template.AssigneeID,
		DueDate:          &due,
		StartTime:        template.StartTime,
		EndTime:          template.EndTime,
		Order:            template.Order,
		RecurrenceRuleID: &ruleID,
	}
	if template.StartDate != nil && template.DueDate != nil {
		start := due.Add(-template.DueDate.Sub(*template.StartDate))
		instance.StartDate = &start
	}
	return instance
}
