// Package token issues operator bearer tokens for the protected endpoints.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/interfaces/cli/cliutil"
)

var (
	env        string
	configPath string
	subject    string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token",
		Long:  `Sign a bearer token for the operator endpoints (revoke, link, contacts) with the configured admin secret.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator identity recorded in the token (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, _, err := cliutil.LoadConfig(configPath, env)
	if err != nil {
		return err
	}
	if !cfg.Admin.Enabled() {
		return errors.New("admin.jwt_secret is not configured")
	}

	signed, err := auth.NewOperatorTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer).Issue(subject, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
	return err
}
