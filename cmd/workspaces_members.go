package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/devraider/dataroom/internal/core"
)

var workspacesMembersCmd = &cobra.Command{
	Use:   "members WORKSPACE_ID",
	Short: "List the members of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workspace ID %q", args[0])
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		members, err := cli.ListMembers(cmd.Context(), workspaceID)
		if err != nil {
			return fmt.Errorf("listing members: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"User ID", "Name", "Email", "Role", "Since"})

		for _, m := range members {
			role := string(m.Role)
			if m.Role == core.RoleAdmin {
				role = color.YellowString(role)
			}
			t.AppendRow(table.Row{
				m.UserID,
				m.FullName,
				m.Email,
				role,
				m.CreatedAt.Format(time.DateOnly),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

var inviteRole string

var workspacesInviteCmd = &cobra.Command{
	Use:   "invite WORKSPACE_ID EMAIL",
	Short: "Invite a user to a workspace by email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workspace ID %q", args[0])
		}
		email := args[1]

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		member, err := cli.AddMember(cmd.Context(), workspaceID, email, core.Role(inviteRole))
		if err != nil {
			return logError(err, "", "failed to invite member")
		}

		logSuccess("invited %s as %s", bold(email), member.Role)
		return nil
	},
}

func init() {
	workspacesCmd.AddCommand(workspacesMembersCmd)
	workspacesCmd.AddCommand(workspacesInviteCmd)

	workspacesInviteCmd.Flags().StringVar(&inviteRole, "role", string(core.RoleMember), "Role for the new member (admin, member)")
}
