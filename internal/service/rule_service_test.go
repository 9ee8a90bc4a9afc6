package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

type fixture struct {
	users    *repository.UserRepository
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	rules    *repository.RecurrenceRepository
	store    *repository.RecurrenceStore

	taskSvc      *TaskService
	ruleSvc      *RuleService
	workspaceSvc *WorkspaceService

	project *model.Project
	admin   model.User
	editor  model.User
	viewer  model.User
	outside model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		rules:    repository.NewRecurrenceRepository(db),
	}
	f.store = repository.NewRecurrenceStore(f.rules, f.tasks)
	access := NewAccessService(f.projects)
	f.taskSvc = NewTaskService(f.tasks, access)
	f.ruleSvc = NewRuleService(f.rules, f.tasks, access)
	f.workspaceSvc = NewWorkspaceService(f.users, f.projects, access)

	ws := &model.Workspace{Name: "acme"}
	require.NoError(t, f.projects.CreateWorkspace(ctx, ws))
	f.project = &model.Project{WorkspaceID: ws.ID, Name: "platform"}
	require.NoError(t, f.projects.CreateProject(ctx, f.project))

	for _, u := range []struct {
		dst  *model.User
		role model.Role
	}{
		{&f.admin, model.RoleAdmin},
		{&f.editor, model.RoleEditor},
		{&f.viewer, model.RoleViewer},
		{&f.outside, ""},
	} {
		*u.dst = model.User{Email: string(u.role) + "-" + t.Name() + "@example.com"}
		require.NoError(t, f.users.Create(ctx, u.dst))
		if u.role != "" {
			_, err := f.projects.UpsertMembership(ctx, ws.ID, u.dst.ID, u.role)
			require.NoError(t, err)
		}
	}
	return f
}

func (f *fixture) template(t *testing.T, input TaskInput) *model.Task {
	t.Helper()
	task, err := f.taskSvc.CreateTask(context.Background(), f.editor.ID, f.project.ID, input)
	require.NoError(t, err)
	return task
}

func TestRuleService_CreateRule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	template := f.template(t, TaskInput{Title: "Retro", DueDate: &due})

	rule, err := f.ruleSvc.CreateRule(ctx, f.editor.ID, template.ID, RuleInput{
		Type:       model.RecurWeekly,
		Interval:   1,
		DaysOfWeek: []int{4, 0, 2, 2},
		DayOfMonth: intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Weekdays{0, 2, 4}, rule.DaysOfWeek)
	assert.Nil(t, rule.DayOfMonth, "day of month only applies to monthly and yearly rules")
	assert.Equal(t, "Retro", rule.Task.Title)

	_, err = f.ruleSvc.CreateRule(ctx, f.admin.ID, template.ID, RuleInput{Type: model.RecurDaily, Interval: 1})
	assert.ErrorIs(t, err, ErrRuleExists)

	got, err := f.ruleSvc.GetRule(ctx, f.viewer.ID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, got.ID)
}

func TestRuleService_Permissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	template := f.template(t, TaskInput{Title: "Payroll"})
	input := RuleInput{Type: model.RecurMonthly, Interval: 1, DayOfMonth: intPtr(25)}

	_, err := f.ruleSvc.CreateRule(ctx, f.viewer.ID, template.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.ruleSvc.CreateRule(ctx, f.outside.ID, template.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.ruleSvc.CreateRule(ctx, f.admin.ID, 9999, input)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.ruleSvc.CreateRule(ctx, f.admin.ID, template.ID, input)
	require.NoError(t, err)

	_, err = f.ruleSvc.GetRule(ctx, f.outside.ID, template.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.ruleSvc.DeleteRule(ctx, f.viewer.ID, template.ID), ErrForbidden)
	require.NoError(t, f.ruleSvc.DeleteRule(ctx, f.editor.ID, template.ID))

	_, err = f.ruleSvc.GetRule(ctx, f.viewer.ID, template.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuleService_RejectsGeneratedInstance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	template := f.template(t, TaskInput{Title: "Standup", DueDate: &due})
	_, err := f.ruleSvc.CreateRule(ctx, f.editor.ID, template.ID, RuleInput{Type: model.RecurDaily, Interval: 1})
	require.NoError(t, err)

	created, err := NewGeneratorService(f.store, nil, time.UTC, nil).Generate(ctx, due.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, created, 1)

	_, err = f.ruleSvc.CreateRule(ctx, f.editor.ID, created[0].ID, RuleInput{Type: model.RecurDaily, Interval: 1})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestValidateRule(t *testing.T) {
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	template := &model.Task{DueDate: &due}
	before := due.AddDate(0, 0, -1)
	after := due.AddDate(0, 1, 0)

	cases := []struct {
		name  string
		input RuleInput
		ok    bool
	}{
		{"valid daily", RuleInput{Type: model.RecurDaily, Interval: 1}, true},
		{"valid yearly", RuleInput{Type: model.RecurYearly, Interval: 1, DayOfMonth: intPtr(31), EndDate: &after, Occurrences: intPtr(2)}, true},
		{"unknown type", RuleInput{Type: "hourly", Interval: 1}, false},
		{"zero interval", RuleInput{Type: model.RecurDaily, Interval: 0}, false},
		{"weekday out of range", RuleInput{Type: model.RecurWeekly, Interval: 1, DaysOfWeek: []int{7}}, false},
		{"day of month zero", RuleInput{Type: model.RecurMonthly, Interval: 1, DayOfMonth: intPtr(0)}, false},
		{"day of month 32", RuleInput{Type: model.RecurMonthly, Interval: 1, DayOfMonth: intPtr(32)}, false},
		{"zero occurrences", RuleInput{Type: model.RecurDaily, Interval: 1, Occurrences: intPtr(0)}, false},
		{"end before task", RuleInput{Type: model.RecurDaily, Interval: 1, EndDate: &before}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRule(tc.input, template)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidRule), "got %v", err)
		})
	}
}

func TestGenerate_EndToEndWithSQLite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	template := f.template(t, TaskInput{Title: "Deploy", StartDate: &start, DueDate: &due, Priority: model.PriorityUrgent})
	_, err := f.ruleSvc.CreateRule(ctx, f.editor.ID, template.ID, RuleInput{Type: model.RecurDaily, Interval: 1, Occurrences: intPtr(2)})
	require.NoError(t, err)

	gen := NewGeneratorService(f.store, nil, time.UTC, nil)
	now := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	created, err := gen.Generate(ctx, now)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].DueDate.Equal(now))
	assert.True(t, created[0].StartDate.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	created, err = gen.Generate(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, created)

	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err = gen.Generate(ctx, later)
		require.NoError(t, err)
	}

	tasks, err := f.taskSvc.ListProjectTasks(ctx, f.viewer.ID, f.project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3, "template plus two capped instances")
	for _, task := range tasks[1:] {
		assert.Equal(t, model.TaskStatusTodo, task.Status)
		assert.Equal(t, model.PriorityUrgent, task.Priority)
	}
}

func TestGenerate_KeepsWallClockAcrossDST(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	due := time.Date(2024, 10, 25, 0, 0, 0, 0, berlin)
	template := f.template(t, TaskInput{Title: "Night batch", DueDate: &due})
	_, err = f.ruleSvc.CreateRule(ctx, f.editor.ID, template.ID, RuleInput{Type: model.RecurDaily, Interval: 1})
	require.NoError(t, err)

	gen := NewGeneratorService(f.store, nil, berlin, nil)
	now := time.Date(2024, 10, 30, 12, 0, 0, 0, berlin)
	for i := 0; i < 4; i++ {
		created, err := gen.Generate(ctx, now)
		require.NoError(t, err)
		require.Len(t, created, 1)
	}

	tasks, err := f.taskSvc.ListProjectTasks(ctx, f.viewer.ID, f.project.ID)
	require.NoError(t, err)
	var days []int
	for _, task := range tasks {
		if !task.Generated() {
			continue
		}
		local := task.DueDate.In(berlin)
		assert.Equal(t, 0, local.Hour(), "due %s", local)
		days = append(days, local.Day())
	}
	assert.ElementsMatch(t, []int{26, 27, 28, 29}, days)
}
