package main

import (
	"fmt"
	"os"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/model"
	"github.com/eduhub/examcore/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "issue-token",
		Short:        "Mint an identity token for local testing",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runIssue,
	}
	f := cmd.Flags()
	f.String("sub", "", "Principal id (UUID); a random one is generated when empty")
	f.String("role", string(model.RoleStudent), "Principal role (Student, Teacher, Admin)")
	return cmd
}

func runIssue(cmd *cobra.Command, _ []string) error {
	rawSub, _ := cmd.Flags().GetString("sub")
	rawRole, _ := cmd.Flags().GetString("role")

	id := uuid.New()
	if rawSub != "" {
		parsed, err := uuid.Parse(rawSub)
		if err != nil {
			return fmt.Errorf("invalid --sub: %w", err)
		}
		id = parsed
	}

	role := model.Role(rawRole)
	if !role.Valid() {
		return fmt.Errorf("invalid --role %q", rawRole)
	}

	token, err := service.NewAuthService(config.Load()).IssueToken(model.Principal{ID: id, Role: role})
	if err != nil {
		return err
	}

	cmd.Println(token)
	return nil
}
