// Command token issues a signed JWT for calling the admin endpoints.
package main

import (
	"fmt"
	"os"
	"time"

	"enrollment-sync/internal/domain/auth"
	"enrollment-sync/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the enrollment and authority APIs",
	Long: `token signs a JWT with JWT_SECRET.

Admin endpoints (withdraw corrections, resource condition toggles) require
a token carrying the admin role.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		subject, _ := cmd.Flags().GetString("sub")
		roleName, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}

		role, err := auth.NewRole(roleName)
		if err != nil {
			return fmt.Errorf("role %q: %w", roleName, err)
		}

		token, err := jwt.NewService(secret, ttl).GenerateToken(subject, role)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.Flags().String("sub", "admin", "token subject")
	rootCmd.Flags().String("role", string(auth.RoleAdmin), "viewer | operator | admin")
	rootCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
