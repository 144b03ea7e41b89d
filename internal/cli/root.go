package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wqyuan/contactsheet/internal/config"
	"github.com/wqyuan/contactsheet/internal/provider/google"
	"github.com/wqyuan/contactsheet/internal/store"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "contactsheet",
		Short:   "Export Google Contacts to CSV",
		Long:    "Exports the authenticated user's Google Contacts, including update timestamps, to a CSV file.",
		Version: version,
	}
	root.SetVersionTemplate(fmt.Sprintf("contactsheet %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newAuthCmd())
	root.AddCommand(newExportCmd())
	return root
}

// Execute is the single process-exit boundary: command errors surface here
// and terminate the run with a non-zero status.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// tokenStore selects the token cache backend from configuration.
func tokenStore(cfg *config.Config) store.TokenStore {
	if cfg.Auth.Storage == "keyring" {
		return store.NewKeyringTokenStore()
	}
	return store.NewFileTokenStore(cfg.Auth.TokenFile)
}

// clientSecret resolves OAuth client credentials using the first available
// source: config file values, then environment variables, then the
// client_secret.json file.
func clientSecret(cfg *config.Config) google.ClientSecret {
	secret := google.ClientSecret{
		ID:     cfg.Google.ClientID,
		Secret: cfg.Google.ClientSecret,
		File:   cfg.Google.ClientSecretFile,
	}
	if secret.ID == "" || secret.Secret == "" {
		id := os.Getenv("GOOGLE_CLIENT_ID")
		sec := os.Getenv("GOOGLE_CLIENT_SECRET")
		if id != "" && sec != "" {
			secret.ID = id
			secret.Secret = sec
		}
	}
	return secret
}

func newAuthenticator(cfg *config.Config) *google.Authenticator {
	return google.NewAuthenticator(clientSecret(cfg), tokenStore(cfg))
}
