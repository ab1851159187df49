// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookmatch/internal/auth"
	"github.com/tomtom215/bookmatch/internal/config"
)

var (
	tokenUser   string
	tokenRole   string
	tokenSecret string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the server",
	Long: `Signs an HS256 bearer token for the index rebuild and invalidate
endpoints. The secret defaults to the JWT_SECRET environment variable and must
match the server's.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleAdmin, "token role")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (default $JWT_SECRET)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := tokenSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if len(secret) < config.MinJWTSecretLength {
		return errors.New("a secret of at least 32 characters is required (--secret or JWT_SECRET)")
	}

	manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: secret, TokenTTL: tokenTTL})
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(tokenUser, tokenRole)
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, map[string]any{
			"token":      token,
			"user":       tokenUser,
			"role":       tokenRole,
			"expires_at": time.Now().Add(tokenTTL).UTC().Format(time.RFC3339),
		})
	}
	cmd.Println(token)
	return nil
}
