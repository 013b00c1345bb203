package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToDefaultsWhenFileIsMissing(t *testing.T) {
	// given
	home := t.TempDir()
	t.Setenv("HOME", home)

	// when
	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))

	// then
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}

	if cfg.Address != defaultAddress {
		t.Errorf("incorrect default address: %s", cfg.Address)
	}

	if cfg.MpvSocketPath != defaultMpvSocketPath {
		t.Errorf("incorrect default mpv socket path: %s", cfg.MpvSocketPath)
	}

	if cfg.RedisAddress != "" {
		t.Errorf("redis should stay disabled by default, got %s", cfg.RedisAddress)
	}
}

func TestLoadParsesAndTrimsValues(t *testing.T) {
	// given
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	payload := []byte(`
address = "  0.0.0.0:9900  "
mpv_socket_path = "~/sockets/mpv"
redis_address = "localhost:6379"
allowed_origins = ["http://localhost:5173"]

[catalog]
address = "https://catalog.example.com/v1"
app_id = "  app-123  "
user_token = "token-456"
`)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("could not write config file: %s", err)
	}

	// when
	cfg, err := Load(path)

	// then
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}

	if cfg.Address != "0.0.0.0:9900" {
		t.Errorf("incorrect address: %s", cfg.Address)
	}

	if cfg.MpvSocketPath != filepath.Join(home, "sockets/mpv") {
		t.Errorf("incorrect mpv socket path: %s", cfg.MpvSocketPath)
	}

	if cfg.RedisAddress != "localhost:6379" {
		t.Errorf("incorrect redis address: %s", cfg.RedisAddress)
	}

	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("incorrect allowed origins: %v", cfg.AllowedOrigins)
	}

	if cfg.Catalog.Address != "https://catalog.example.com/v1" {
		t.Errorf("incorrect catalog address: %s", cfg.Catalog.Address)
	}

	if cfg.Catalog.AppID != "app-123" {
		t.Errorf("catalog app id not trimmed: %q", cfg.Catalog.AppID)
	}

	if cfg.Catalog.UserToken != "token-456" {
		t.Errorf("incorrect catalog user token: %q", cfg.Catalog.UserToken)
	}
}

func TestLoadReportsInvalidTOML(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`address = [`), 0o600); err != nil {
		t.Fatalf("could not write config file: %s", err)
	}

	// when
	_, err := Load(path)

	// then
	if err == nil {
		t.Errorf("expected parse error for invalid file")
	}
}

func TestExpandPathResolvesTildeAgainstHome(t *testing.T) {
	// given
	home := t.TempDir()
	t.Setenv("HOME", home)

	// when
	got, err := expandPath("~/a/b")

	// then
	if err != nil {
		t.Fatalf("expand failed: %s", err)
	}

	if got != filepath.Join(home, "a/b") {
		t.Errorf("incorrect expanded path: %s", got)
	}
}
