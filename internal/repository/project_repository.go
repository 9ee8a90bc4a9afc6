package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"recurring-planner/internal/model"
)

// ProjectRepository manages workspaces, projects and memberships.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateWorkspace inserts ws and grants each of admins the admin role in it,
// in one transaction.
func (r *ProjectRepository) CreateWorkspace(ctx context.Context, ws *model.Workspace, admins ...uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return fmt.Errorf("create workspace: %w", err)
		}
		for _, userID := range admins {
			m := model.Membership{WorkspaceID: ws.ID, UserID: userID, Role: model.RoleAdmin}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("create membership: %w", err)
			}
		}
		return nil
	})
}

func (r *ProjectRepository) GetWorkspace(ctx context.Context, id uint) (*model.Workspace, error) {
	var ws model.Workspace
	if err := r.db.WithContext(ctx).First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByIDs returns projects keyed by id.
func (r *ProjectRepository) ListByIDs(ctx context.Context, ids []uint) (map[uint]model.Project, error) {
	out := make(map[uint]model.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var projects []model.Project
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		out[p.ID] = p
	}
	return out, nil
}

// UpsertMembership grants userID the given role in the workspace.
func (r *ProjectRepository) UpsertMembership(ctx context.Context, workspaceID, userID uint, role model.Role) (*model.Membership, error) {
	var m model.Membership
	db := r.db.WithContext(ctx)
	err := db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&m).Error
	switch {
	case err == nil:
		if err := db.Model(&m).Update("role", role).Error; err != nil {
			return nil, fmt.Errorf("update membership: %w", err)
		}
		m.Role = role
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = model.Membership{WorkspaceID: workspaceID, UserID: userID, Role: role}
		if err := db.Create(&m).Error; err != nil {
			return nil, fmt.Errorf("create membership: %w", err)
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("find membership: %w", err)
	}
}

// FindMembership returns gorm.ErrRecordNotFound when the user is not a member.
func (r *ProjectRepository) FindMembership(ctx context.Context, workspaceID, userID uint) (*model.Membership, error) {
	var m model.Membership
	if err := r.db.WithContext(ctx).Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
