package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

// WorkspaceService manages users, workspaces, projects and memberships.
type WorkspaceService struct {
	users    *repository.UserRepository
	projects *repository.ProjectRepository
	access   *AccessService
}

func NewWorkspaceService(users *repository.UserRepository, projects *repository.ProjectRepository, access *AccessService) *WorkspaceService {
	return &WorkspaceService{users: users, projects: projects, access: access}
}

// CreateUser registers an account. Emails are unique.
func (s *WorkspaceService) CreateUser(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email %q", ErrInvalidInput, email)
	}
	user := model.User{Email: email, Name: strings.TrimSpace(name)}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", email, ErrUserExists)
		}
		return nil, err
	}
	return &user, nil
}

// CreateWorkspace creates a workspace owned by adminID.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name string, adminID uint) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: workspace name is required", ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, adminID); err != nil {
		return nil, notFound(err, "user")
	}
	ws := model.Workspace{Name: name}
	if err := s.projects.CreateWorkspace(ctx, &ws, adminID); err != nil {
		return nil, err
	}
	return &ws, nil
}

// SetMember grants userID the role in the workspace without checking the caller.
func (s *WorkspaceService) SetMember(ctx context.Context, workspaceID, userID uint, role model.Role) (*model.Membership, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if _, err := s.projects.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, notFound(err, "workspace")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	return s.projects.UpsertMembership(ctx, workspaceID, userID, role)
}

// AddMember is SetMember on behalf of actorID, who needs manage_members.
func (s *WorkspaceService) AddMember(ctx context.Context, actorID, workspaceID, userID uint, role model.Role) (*model.Membership, error) {
	if _, err := s.access.RequireWorkspace(ctx, actorID, workspaceID, model.CapManageMembers); err != nil {
		return nil, err
	}
	if actorID == userID && role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: admins cannot demote themselves", ErrInvalidInput)
	}
	return s.SetMember(ctx, workspaceID, userID, role)
}

func (s *WorkspaceService) CreateProject(ctx context.Context, actorID, workspaceID uint, name string) (*model.Project, error) {
	if _, err := s.access.RequireWorkspace(ctx, actorID, workspaceID, model.CapManageProjects); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	project := model.Project{WorkspaceID: workspaceID, Name: name}
	if err := s.projects.CreateProject(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
