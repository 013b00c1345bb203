package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath    = "~/.hifi-web-api/config.toml"
	defaultAddress       = "localhost:3001"
	defaultMpvSocketPath = "/tmp/mpvsocket"
)

// CatalogConfig carries the remote catalog endpoint and its credentials.
// Credentials are the hot-reloadable part of the configuration.
type CatalogConfig struct {
	Address   string
	AppID     string
	UserToken string
}

// Config carries everything the daemon needs to run.
// Path points at the file the values came from (or would come from, when the
// file does not exist yet) so that watchers know what to observe.
type Config struct {
	Address        string
	AllowedOrigins []string
	Catalog        CatalogConfig
	MpvSocketPath  string
	Path           string
	RedisAddress   string
}

type configTOML struct {
	Address        string   `toml:"address"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MpvSocketPath  string   `toml:"mpv_socket_path"`
	RedisAddress   string   `toml:"redis_address"`
	Catalog        struct {
		Address   string `toml:"address"`
		AppID     string `toml:"app_id"`
		UserToken string `toml:"user_token"`
	} `toml:"catalog"`
}

// Load parses the TOML config under the provided path, falling back to
// defaults when the file is missing. An empty path selects the default
// location under the user's home directory.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Address:       defaultAddress,
		MpvSocketPath: defaultMpvSocketPath,
		Path:          resolved,
	}

	payload, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("could not open config: %w", err)
	}

	var raw configTOML
	if err := toml.Unmarshal(payload, &raw); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}

	if address := strings.TrimSpace(raw.Address); address != "" {
		cfg.Address = address
	}

	if socketPath := strings.TrimSpace(raw.MpvSocketPath); socketPath != "" {
		cfg.MpvSocketPath = mustExpand(socketPath)
	}

	cfg.RedisAddress = strings.TrimSpace(raw.RedisAddress)
	cfg.AllowedOrigins = raw.AllowedOrigins
	cfg.Catalog = CatalogConfig{
		Address:   strings.TrimSpace(raw.Catalog.Address),
		AppID:     strings.TrimSpace(raw.Catalog.AppID),
		UserToken: strings.TrimSpace(raw.Catalog.UserToken),
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}

	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}

	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}

	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not resolve home dir: %w", err)
		}

		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}

	return filepath.Abs(trimmed)
}
