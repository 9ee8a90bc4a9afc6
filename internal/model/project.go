package model

import "time"

// Workspace is the tenant boundary. Roles are granted per workspace.
type Workspace struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Projects  []Project `gorm:"foreignKey:WorkspaceID"`
}

// Project groups tasks inside a workspace.
type Project struct {
	ID          uint `gorm:"primaryKey"`
	WorkspaceID uint `gorm:"index"`
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tasks       []Task `gorm:"foreignKey:ProjectID"`
}

// Membership grants a user a role inside a workspace.
type Membership struct {
	ID          uint `gorm:"primaryKey"`
	WorkspaceID uint `gorm:"uniqueIndex:idx_membership_workspace_user"`
	UserID      uint `gorm:"uniqueIndex:idx_membership_workspace_user"`
	Role        Role `gorm:"type:varchar(16)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
