package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/oemcatalog/internal/auth"
	"github.com/smallbiznis/oemcatalog/internal/oem"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue bearer tokens for local use",
	Long: `Issue bearer tokens signed with AUTH_JWT_SECRET.

Available subcommands:
  admin - Print an ADMIN token
  oem   - Print an OEM token for --oem-number`,
}

var tokenAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Print an ADMIN token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueToken(cmd, func(ctx context.Context, svc auth.Service) (*auth.Token, error) {
			return svc.IssueAdminToken(ctx)
		})
	},
}

var tokenOEMCmd = &cobra.Command{
	Use:   "oem",
	Short: "Print an OEM token",
	RunE: func(cmd *cobra.Command, args []string) error {
		oemNumber, _ := cmd.Flags().GetString("oem-number")
		if strings.TrimSpace(oemNumber) == "" {
			return errors.New("--oem-number is required")
		}
		return issueToken(cmd, func(ctx context.Context, svc auth.Service) (*auth.Token, error) {
			return svc.IssueOEMToken(ctx, oemNumber)
		})
	},
}

func init() {
	tokenOEMCmd.Flags().String("oem-number", "", "business number of the OEM, e.g. ACM-123")
	tokenCmd.AddCommand(tokenAdminCmd, tokenOEMCmd)
}

func issueToken(cmd *cobra.Command, issue func(context.Context, auth.Service) (*auth.Token, error)) error {
	var svc auth.Service
	opts := fx.Options(
		infrastructure(),
		oem.Module,
		auth.Module,
		fx.Populate(&svc),
	)
	return runOnce(cmd.Context(), opts, func(ctx context.Context) error {
		token, err := issue(ctx, svc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
		return nil
	})
}
