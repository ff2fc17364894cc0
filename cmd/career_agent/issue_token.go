package main

import (
	"fmt"

	"github.com/jonathan/career-diagnosis/internal/server"
	"github.com/spf13/cobra"
)

var issueTokenOwner string

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a bearer token for local development",
	Long:  "Sign a token for --owner with JWT_SECRET so the API can be exercised without an identity provider.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		jwtCfg, err := cfg.JWT()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
		token, err := server.NewJWTService(jwtCfg).GenerateToken(issueTokenOwner)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().StringVar(&issueTokenOwner, "owner", "", "Owner ID to put in the token subject (required)")
	_ = issueTokenCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(issueTokenCmd)
}
