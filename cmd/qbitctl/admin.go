package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qbit-backend/internal/models"
	"qbit-backend/internal/services/auth"
	"qbit-backend/internal/store"
)

const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin123"
)

func init() {
	var username, password, email string
	seedCmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin console account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password must not be empty")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pg, err := openPostgres(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := store.Migrate(cmd.Context(), pg.DB); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st := store.New(pg.DB)
			created, err := st.EnsureAccount(cmd.Context(), models.User{
				Username: username,
				Email:    email,
				Password: hash,
				Role:     "admin",
			})
			if err != nil {
				return err
			}
			if created {
				_, _ = fmt.Fprintf(os.Stdout, "account %q created\n", username)
				return nil
			}

			existing, err := st.FindAccount(cmd.Context(), username)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "account %q already exists with role %s\n", existing.Username, existing.Role)
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&username, "username", "u", defaultAdminUser, "Account username")
	seedCmd.Flags().StringVarP(&password, "password", "p", defaultAdminPassword, "Account password")
	seedCmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	rootCmd.AddCommand(seedCmd)
}
