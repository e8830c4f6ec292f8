package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"study-app/internal/httpapi"
)

// tokenCommand mints a bearer token for local testing of authenticated mode.
func tokenCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier := httpapi.NewIdentityVerifier(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			if verifier == nil {
				return errors.New("auth.jwtSecret is not configured")
			}
			if userID == "" {
				userID = uuid.NewString()
			} else if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			token, expireAt, err := verifier.IssueToken(userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user=%s\n", userID)
			fmt.Fprintf(out, "expires=%s\n", expireAt.UTC().Format(time.RFC3339))
			fmt.Fprintln(out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (a new UUID when empty)")
	return cmd
}
