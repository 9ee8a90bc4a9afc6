package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	AssigneeID  *uint
	StartDate   *time.Time
	DueDate     *time.Time
	StartTime   string
	EndTime     string
	Order       int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	access   *AccessService
}

func NewTaskService(taskRepo *repository.TaskRepository, access *AccessService) *TaskService {
	return &TaskService{taskRepo: taskRepo, access: access}
}

func (s *TaskService) CreateTask(ctx context.Context, userID, projectID uint, input TaskInput) (*model.Task, error) {
	if _, err := s.access.Require(ctx, userID, projectID, model.CapEditTasks); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if input.StartDate != nil && input.DueDate != nil && input.DueDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("%w: due date is before start date", ErrInvalidTask)
	}
	for _, clock := range []string{input.StartTime, input.EndTime} {
		if clock != "" && !clockPattern.MatchString(clock) {
			return nil, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidTask, clock)
		}
	}

	status := input.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		AssigneeID:  input.AssigneeID,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Order:       input.Order,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) ListProjectTasks(ctx context.Context, userID, projectID uint) ([]model.Task, error) {
	if _, err := s.access.Require(ctx, userID, projectID, model.CapView); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByProject(ctx, projectID)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task")
	}
	if _, err := s.access.Require(ctx, userID, task.ProjectID, model.CapView); err != nil {
		return nil, err
	}
	return task, nil
}
