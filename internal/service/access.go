package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

// AccessService resolves a caller's role in a project's workspace.
type AccessService struct {
	projects *repository.ProjectRepository
}

func NewAccessService(projects *repository.ProjectRepository) *AccessService {
	return &AccessService{projects: projects}
}

// Require loads the project and fails with ErrForbidden unless userID holds capability c in its workspace.
func (s *AccessService) Require(ctx context.Context, userID, projectID uint, c model.Capability) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if err := s.check(ctx, userID, project.WorkspaceID, c); err != nil {
		return nil, err
	}
	return project, nil
}

// RequireWorkspace is Require for workspace-level operations.
func (s *AccessService) RequireWorkspace(ctx context.Context, userID, workspaceID uint, c model.Capability) (*model.Workspace, error) {
	ws, err := s.projects.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, notFound(err, "workspace")
	}
	if err := s.check(ctx, userID, ws.ID, c); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *AccessService) check(ctx context.Context, userID, workspaceID uint, c model.Capability) error {
	membership, err := s.projects.FindMembership(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("find membership: %w", err)
	}
	if !membership.Role.Can(c) {
		return ErrForbidden
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
