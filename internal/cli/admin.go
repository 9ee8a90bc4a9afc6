package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recurring-planner/internal/model"
)

var (
	userEmail string
	userName  string

	workspaceName  string
	workspaceAdmin uint

	memberWorkspace uint
	memberUser      uint
	memberRole      string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user",
	RunE:  runUserAdd,
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a workspace with an initial admin",
	Long: `Create a workspace and make --admin its first admin.

Further members and projects are managed over the HTTP API by workspace admins.`,
	RunE: runWorkspaceAdd,
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage workspace members",
}

var memberSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Grant a user a role in a workspace",
	RunE:  runMemberSet,
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address (required)")
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	_ = userAddCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userAddCmd)

	workspaceAddCmd.Flags().StringVar(&workspaceName, "name", "", "workspace name (required)")
	workspaceAddCmd.Flags().UintVar(&workspaceAdmin, "admin", 0, "id of the user who administers the workspace (required)")
	_ = workspaceAddCmd.MarkFlagRequired("name")
	_ = workspaceAddCmd.MarkFlagRequired("admin")
	workspaceCmd.AddCommand(workspaceAddCmd)

	memberSetCmd.Flags().UintVar(&memberWorkspace, "workspace", 0, "workspace id (required)")
	memberSetCmd.Flags().UintVar(&memberUser, "user", 0, "user id (required)")
	memberSetCmd.Flags().StringVar(&memberRole, "role", string(model.RoleViewer), "admin, editor or viewer")
	_ = memberSetCmd.MarkFlagRequired("workspace")
	_ = memberSetCmd.MarkFlagRequired("user")
	memberCmd.AddCommand(memberSetCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.workspaces.CreateUser(cmd.Context(), userEmail, userName)
	if err != nil {
		return err
	}
	a.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	fmt.Fprintf(cmd.OutOrStdout(), "user %d %s\n", user.ID, user.Email)
	return nil
}

func runWorkspaceAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ws, err := a.workspaces.CreateWorkspace(cmd.Context(), workspaceName, workspaceAdmin)
	if err != nil {
		return err
	}
	a.log.Info("workspace created", zap.Uint("workspace_id", ws.ID), zap.Uint("admin_id", workspaceAdmin))
	fmt.Fprintf(cmd.OutOrStdout(), "workspace %d %s\n", ws.ID, ws.Name)
	return nil
}

func runMemberSet(cmd *cobra.Command, args []string) error {
	role := model.Role(memberRole)
	if !role.Valid() {
		return fmt.Errorf("--role: unknown role %q", memberRole)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.workspaces.SetMember(cmd.Context(), memberWorkspace, memberUser, role)
	if err != nil {
		return err
	}
	a.log.Info("membership set",
		zap.Uint("workspace_id", m.WorkspaceID),
		zap.Uint("user_id", m.UserID),
		zap.String("role", string(m.Role)))
	fmt.Fprintf(cmd.OutOrStdout(), "member %d %s in workspace %d\n", m.UserID, m.Role, m.WorkspaceID)
	return nil
}
