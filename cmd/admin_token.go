package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/ipg-checkout/internal/auth"
	"github.com/spf13/cobra"
)

var (
	adminSubject       string
	adminTokenLifetime time.Duration
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Issue a bearer token for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Security.AdminJWTSecret == "" {
			return errors.New("security.admin_jwt_secret is not configured")
		}

		token, err := auth.NewJWTTokenGenerator(cfg.Security.AdminJWTSecret, adminTokenLifetime).GenerateAdminToken(adminSubject)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	adminTokenCmd.Flags().StringVar(&adminSubject, "subject", "ops", "subject recorded in the token")
	adminTokenCmd.Flags().DurationVar(&adminTokenLifetime, "ttl", adminTokenTTL, "token lifetime")
}
