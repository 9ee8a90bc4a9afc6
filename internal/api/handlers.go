package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recurring-planner/internal/model"
	"recurring-planner/internal/service"
)

const healthDBTimeout = 2 * time.Second

type TaskService interface {
	CreateTask(ctx context.Context, userID, projectID uint, input service.TaskInput) (*model.Task, error)
	ListProjectTasks(ctx context.Context, userID, projectID uint) ([]model.Task, error)
	GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error)
}

type RuleService interface {
	CreateRule(ctx context.Context, userID, taskID uint, input service.RuleInput) (*model.RecurrenceRule, error)
	GetRule(ctx context.Context, userID, taskID uint) (*model.RecurrenceRule, error)
	DeleteRule(ctx context.Context, userID, taskID uint) error
}

type WorkspaceService interface {
	AddMember(ctx context.Context, actorID, workspaceID, userID uint, role model.Role) (*model.Membership, error)
	CreateProject(ctx context.Context, actorID, workspaceID uint, name string) (*model.Project, error)
}

type Handler struct {
	tasks      TaskService
	rules      RuleService
	workspaces WorkspaceService
	db         *gorm.DB
	loc        *time.Location
}

func NewHandler(tasks TaskService, rules RuleService, workspaces WorkspaceService, db *gorm.DB, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{tasks: tasks, rules: rules, workspaces: workspaces, db: db, loc: loc}
}

func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if !h.pingDatabase(c.Request.Context()) {
		status = "down"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "time": time.Now().In(h.loc).Format(time.RFC3339)})
}

func (h *Handler) pingDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return sqlDB.PingContext(timeoutCtx) == nil
}

func (h *Handler) CreateTask(c *gin.Context) {
	projectID, ok := paramID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	startDate, err := parseDate(req.StartDate, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	dueDate, err := parseDate(req.DueDate, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), currentUserID(c), projectID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
		StartDate:   startDate,
		DueDate:     dueDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Order:       req.Order,
	})
	if err != nil {
		writeServiceError(c, "failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, toTaskItem(*task))
}

func (h *Handler) ListProjectTasks(c *gin.Context) {
	projectID, ok := paramID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListProjectTasks(c.Request.Context(), currentUserID(c), projectID)
	if err != nil {
		writeServiceError(c, "failed to list tasks", err)
		return
	}
	c.JSON(http.StatusOK, toTaskItems(tasks))
}

func (h *Handler) GetTask(c *gin.Context) {
	taskID, ok := paramID(c)
	if !ok {
		return
	}
	task, err := h.tasks.GetTask(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		writeServiceError(c, "failed to get task", err)
		return
	}
	c.JSON(http.StatusOK, toTaskItem(*task))
}

func (h *Handler) CreateRule(c *gin.Context) {
	taskID, ok := paramID(c)
	if !ok {
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	endDate, err := parseDate(req.EndDate, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	if endDate != nil {
		// The end date is inclusive.
		end := endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		endDate = &end
	}

	interval := 1
	if req.Interval != nil {
		interval = *req.Interval
	}

	rule, err := h.rules.CreateRule(c.Request.Context(), currentUserID(c), taskID, service.RuleInput{
		Type:        model.RecurrenceType(req.Type),
		Interval:    interval,
		DaysOfWeek:  req.DaysOfWeek,
		DayOfMonth:  req.DayOfMonth,
		EndDate:     endDate,
		Occurrences: req.Occurrences,
	})
	if err != nil {
		writeServiceError(c, "failed to create recurrence rule", err)
		return
	}
	c.JSON(http.StatusCreated, toRuleItem(*rule))
}

func (h *Handler) GetRule(c *gin.Context) {
	taskID, ok := paramID(c)
	if !ok {
		return
	}
	rule, err := h.rules.GetRule(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		writeServiceError(c, "failed to get recurrence rule", err)
		return
	}
	c.JSON(http.StatusOK, toRuleItem(*rule))
}

func (h *Handler) DeleteRule(c *gin.Context) {
	taskID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.rules.DeleteRule(c.Request.Context(), currentUserID(c), taskID); err != nil {
		writeServiceError(c, "failed to delete recurrence rule", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateProject(c *gin.Context) {
	workspaceID, ok := paramID(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	project, err := h.workspaces.CreateProject(c.Request.Context(), currentUserID(c), workspaceID, req.Name)
	if err != nil {
		writeServiceError(c, "failed to create project", err)
		return
	}
	c.JSON(http.StatusCreated, toProjectItem(*project))
}

func (h *Handler) AddMember(c *gin.Context) {
	workspaceID, ok := paramID(c)
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	m, err := h.workspaces.AddMember(c.Request.Context(), currentUserID(c), workspaceID, req.UserID, model.Role(req.Role))
	if err != nil {
		writeServiceError(c, "failed to add member", err)
		return
	}
	c.JSON(http.StatusOK, toMemberItem(*m))
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusBadRequest, MsgInvalidID)
		return 0, false
	}
	return uint(id), true
}
