package main

import (
	"fmt"

	"invoice_manager/internal/database"
	"invoice_manager/internal/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema and seed the first company",
	Long: `Create or update all tables. With --company the named company is created
when missing, and with --admin-subject its first administrator is linked to
the given identity provider subject. Running the command again is safe.`,
	Example: `  # Schema only
  invoicectl migrate

  # Schema plus first company and admin
  invoicectl migrate --company "Acme Oy" --iban "FI58 1017 1000 0001 22" \
    --admin-subject "auth0|123" --admin-email admin@acme.fi`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("company", "", "Name of the company to seed")
	migrateCmd.Flags().String("business-id", "", "Company business ID (Y-tunnus)")
	migrateCmd.Flags().String("iban", "", "Company bank account printed on invoices")
	migrateCmd.Flags().String("bic", "", "Company bank BIC")
	migrateCmd.Flags().String("address", "", "Company postal address")
	migrateCmd.Flags().Int("payment-days", 14, "Default days until an invoice is due")
	migrateCmd.Flags().String("admin-subject", "", "Identity provider subject of the first admin")
	migrateCmd.Flags().String("admin-email", "", "Email of the first admin")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	var seed *migrations.Seed
	if name, _ := cmd.Flags().GetString("company"); name != "" {
		seed = &migrations.Seed{CompanyName: name}
		seed.BusinessID, _ = cmd.Flags().GetString("business-id")
		seed.IBAN, _ = cmd.Flags().GetString("iban")
		seed.BIC, _ = cmd.Flags().GetString("bic")
		seed.Address, _ = cmd.Flags().GetString("address")
		seed.PaymentDays, _ = cmd.Flags().GetInt("payment-days")
		seed.AdminSubject, _ = cmd.Flags().GetString("admin-subject")
		seed.AdminEmail, _ = cmd.Flags().GetString("admin-email")
	}

	company, err := migrations.RunMigrations(cmd.Context(), db, seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database migrated")
	if company != nil {
		fmt.Fprintf(out, "Company: %s (%s)\n", company.Name, company.ID)
	}
	return nil
}
