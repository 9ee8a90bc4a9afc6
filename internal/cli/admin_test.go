package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recurring-planner/internal/model"
	"recurring-planner/internal/repository"
)

func TestAdminCommands_Bootstrap(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "admin.db")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Cleanup(func() {
		userEmail, userName = "", ""
		workspaceName, workspaceAdmin = "", 0
		memberWorkspace, memberUser, memberRole = 0, 0, ""
	})

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	userEmail, userName = "ops@example.com", "Ops"
	require.NoError(t, runUserAdd(cmd, nil))
	assert.Equal(t, "user 1 ops@example.com\n", out.String())

	userEmail = "dev@example.com"
	out.Reset()
	require.NoError(t, runUserAdd(cmd, nil))
	assert.Equal(t, "user 2 dev@example.com\n", out.String())

	require.Error(t, runUserAdd(cmd, nil), "duplicate email")

	workspaceName, workspaceAdmin = "acme", 1
	out.Reset()
	require.NoError(t, runWorkspaceAdd(cmd, nil))
	assert.Equal(t, "workspace 1 acme\n", out.String())

	memberWorkspace, memberUser, memberRole = 1, 2, "owner"
	require.Error(t, runMemberSet(cmd, nil))

	memberRole = "editor"
	out.Reset()
	require.NoError(t, runMemberSet(cmd, nil))
	assert.Equal(t, "member 2 editor in workspace 1\n", out.String())

	db, err := repository.NewDB(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	projects := repository.NewProjectRepository(db)
	admin, err := projects.FindMembership(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	editor, err := projects.FindMembership(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, editor.Role)
}
