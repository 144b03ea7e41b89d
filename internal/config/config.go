package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// maxPageSize is the People API cap on connections.list page size.
const maxPageSize = 1000

// Config holds all contactsheet configuration.
type Config struct {
	Google GoogleConfig `toml:"google"`
	Auth   AuthConfig   `toml:"auth"`
	Export ExportConfig `toml:"export"`
}

// GoogleConfig holds Google OAuth client credentials. Users can supply an
// explicit client ID and secret, or point at a downloaded client_secret.json.
type GoogleConfig struct {
	ClientID         string `toml:"client_id"`
	ClientSecret     string `toml:"client_secret"`
	ClientSecretFile string `toml:"client_secret_file"`
}

// AuthConfig holds token cache settings.
type AuthConfig struct {
	TokenFile string `toml:"token_file"`
	Storage   string `toml:"storage"` // "file" or "keyring"
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Output   string `toml:"output"`
	PageSize int    `toml:"page_size"`
}

func defaults() Config {
	dir := ConfigDir()
	return Config{
		Google: GoogleConfig{
			ClientSecretFile: filepath.Join(dir, "client_secret.json"),
		},
		Auth: AuthConfig{
			TokenFile: filepath.Join(dir, "token.json"),
			Storage:   "file",
		},
		Export: ExportConfig{
			Output:   "contacts.csv",
			PageSize: maxPageSize,
		},
	}
}

// Load reads config from path. If path is empty or the file does not exist,
// returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Export.PageSize < 1 {
		return nil, fmt.Errorf("invalid config: export.page_size must be positive, got %d", cfg.Export.PageSize)
	}
	if cfg.Export.PageSize > maxPageSize {
		cfg.Export.PageSize = maxPageSize
	}
	switch cfg.Auth.Storage {
	case "file", "keyring":
	default:
		return nil, fmt.Errorf("invalid config: auth.storage must be %q or %q, got %q", "file", "keyring", cfg.Auth.Storage)
	}
	return &cfg, nil
}

// ConfigDir returns the contactsheet config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contactsheet")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "contactsheet")
}
