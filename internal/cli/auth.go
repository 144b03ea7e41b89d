package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newAuthCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain and cache a Google credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			auth := newAuthenticator(cfg)

			ctx := cmd.Context()
			var token *oauth2.Token
			if force {
				fmt.Println("Starting Google OAuth flow...")
				token, err = auth.Authorize(ctx)
			} else {
				token, err = auth.Token(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			if jsonFlag {
				summary := jsonAuth{OK: true}
				if !token.Expiry.IsZero() {
					summary.Expiry = token.Expiry.Format(time.RFC3339)
				}
				return printJSON(summary)
			}

			if token.Expiry.IsZero() {
				fmt.Println("Credential cached.")
			} else {
				fmt.Printf("Credential cached, valid until %s.\n", token.Expiry.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "rerun the browser authorization flow even if a cached credential exists")
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cached credential state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			token, err := tokenStore(cfg).Load()
			if err != nil {
				if jsonFlag {
					return printJSON(jsonAuthStatus{Storage: cfg.Auth.Storage})
				}
				fmt.Println("No cached credential. Run 'contactsheet auth' to sign in.")
				return nil
			}

			status := jsonAuthStatus{
				Authenticated: token.Valid(),
				Refreshable:   token.RefreshToken != "",
				Storage:       cfg.Auth.Storage,
			}
			if !token.Expiry.IsZero() {
				status.Expiry = token.Expiry.Format(time.RFC3339)
			}

			if jsonFlag {
				return printJSON(status)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "VALID\t%v\n", status.Authenticated)
			fmt.Fprintf(w, "EXPIRY\t%s\n", status.Expiry)
			fmt.Fprintf(w, "REFRESHABLE\t%v\n", status.Refreshable)
			fmt.Fprintf(w, "STORAGE\t%s\n", status.Storage)
			return w.Flush()
		},
	}
}
