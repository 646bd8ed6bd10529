package token

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/auth"
	"github.com/campushub/campushub/internal/interfaces/cli/bootstrap"
	"github.com/campushub/campushub/internal/shared/config"
	"github.com/campushub/campushub/internal/shared/logger"
)

var (
	env    string
	userID string
	role   string
	asJSON bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Access token utilities",
		Long:  `Mint access tokens signed with the configured secret, for local development and scripted tests.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(newIssueCommand())

	return cmd
}

func newIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a user and role",
		Example: `  campushub token issue --user stu-1 --role student
  campushub token issue --user adm-1 --role admin --json`,
		RunE: runIssue,
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id placed in the token subject")
	cmd.Flags().StringVar(&role, "role", "", "Role claim (student, faculty, admin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the token with its expiry as JSON")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	cfg, _, err := bootstrap.Init(bootstrap.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer logger.Sync()

	return issue(cmd.OutOrStdout(), &cfg.Auth.JWT, userID, role, asJSON)
}

func issue(w io.Writer, cfg *config.JWTConfig, user, roleName string, jsonOut bool) error {
	r, err := vo.NewRole(roleName)
	if err != nil {
		return err
	}

	svc := auth.NewJWTService(cfg.Secret, cfg.Issuer, cfg.AccessExpMinutes)
	issued, err := svc.Issue(user, r)
	if err != nil {
		return err
	}

	if !jsonOut {
		_, err = fmt.Fprintln(w, issued.AccessToken)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(issued)
}
