package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/spf13/cobra"
)

func (c *cli) newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored session",
	}
	cmd.AddCommand(c.newSessionSetCommand(), c.newSessionClearCommand(), c.newSessionStatusCommand())
	return cmd
}

func (c *cli) newSessionSetCommand() *cobra.Command {
	var (
		tok       dto.TokenInfo
		expiresIn time.Duration
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an access and refresh token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tok.AccessToken == "" && tok.RefreshToken == "" {
				return errors.New("--access-token or --refresh-token is required")
			}
			if expiresIn > 0 {
				tok.Expiry = time.Now().Add(expiresIn)
			}
			if err := c.app.store.Set(cmd.Context(), tok); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Fprintf(c.out, "Session stored for %s in %s\n", c.app.cfg.ClientID, c.app.store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&tok.AccessToken, "access-token", "", "Access token")
	cmd.Flags().StringVar(&tok.RefreshToken, "refresh-token", "", "Refresh token")
	cmd.Flags().StringVar(&tok.TokenType, "token-type", "", "Token type, Bearer when empty")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Access token lifetime")
	return cmd
}

func (c *cli) newSessionClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(c.out, "Session cleared")
			return nil
		},
	}
}

func (c *cli) newSessionStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := c.app.store.Get(cmd.Context())
			if errors.Is(err, dto.ErrNoSession) {
				fmt.Fprintln(c.out, "No session stored")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Access token: %s\n", mask(tok.AccessToken))
			fmt.Fprintf(c.out, "Refresh token: %s\n", mask(tok.RefreshToken))
			if !tok.Expiry.IsZero() {
				state := "valid"
				if tok.IsExpired(0) {
					state = "expired"
				}
				fmt.Fprintf(c.out, "Expires: %s (%s)\n", tok.Expiry.Format(time.RFC3339), state)
			}
			return nil
		},
	}
}

func mask(s string) string {
	switch {
	case s == "":
		return "(none)"
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}
