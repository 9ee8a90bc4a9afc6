package api

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *Handler, users UserFinder) {
	r.GET("/api/health", h.Health)

	api := r.Group("/api")
	api.Use(IdentityMiddleware(users))
	{
		api.POST("/workspaces/:id/projects", h.CreateProject)
		api.POST("/workspaces/:id/members", h.AddMember)
		api.POST("/projects/:id/tasks", h.CreateTask)
		api.GET("/projects/:id/tasks", h.ListProjectTasks)
		api.GET("/tasks/:id", h.GetTask)
		api.POST("/tasks/:id/recurrence", h.CreateRule)
		api.GET("/tasks/:id/recurrence", h.GetRule)
		api.DELETE("/tasks/:id/recurrence", h.DeleteRule)
	}
}
