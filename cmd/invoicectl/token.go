package main

import (
	"fmt"
	"time"

	"invoice_manager/internal/middleware"
	"invoice_manager/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development access token",
	Long: `Sign an HS256 bearer token with JWT_SECRET, shaped like the tokens the
identity provider issues. Meant for local development and smoke tests.`,
	Example: `  invoicectl token --subject dev|1 --company 6f1c... --role admin`,
	Args:    cobra.NoArgs,
	RunE:    runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("subject", "", "Identity provider subject")
	tokenCmd.Flags().String("company", "", "Company id")
	tokenCmd.Flags().String("role", string(models.RoleUser), "admin or user")
	tokenCmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	tokenCmd.MarkFlagRequired("subject")
	tokenCmd.MarkFlagRequired("company")
}

func runToken(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	company, _ := cmd.Flags().GetString("company")
	role, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	companyID, err := uuid.Parse(company)
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}
	token, err := middleware.GenerateToken(subject, companyID, models.UserRole(role), cfg.JWTSecret, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
