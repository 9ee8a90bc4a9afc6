package model

// Role is a workspace-level permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Capability is a single permission checked by services.
type Capability string

const (
	CapView             Capability = "view"
	CapEditTasks        Capability = "edit_tasks"
	CapManageRecurrence Capability = "manage_recurrence"
	CapManageMembers    Capability = "manage_members"
	CapManageProjects   Capability = "manage_projects"
)

var roleCapabilities = map[Role][]Capability{
	RoleViewer: {CapView},
	RoleEditor: {CapView, CapEditTasks, CapManageRecurrence},
	RoleAdmin:  {CapView, CapEditTasks, CapManageRecurrence, CapManageMembers, CapManageProjects},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants capability c. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
