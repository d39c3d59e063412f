package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				APIBaseURL:      "https://api.example.com",
				AppEnv:          "production",
				SessionDBPath:   "./session.db",
				DefaultCurrency: "VND",
			},
			wantErr: false,
		},
		{
			name: "missing API URL",
			config: Config{
				AppEnv:          "development",
				SessionDBPath:   "./session.db",
				DefaultCurrency: "VND",
			},
			wantErr:     true,
			errorString: "API_URL is required",
		},
		{
			name: "non-http scheme",
			config: Config{
				APIBaseURL:      "ftp://api.example.com",
				AppEnv:          "development",
				SessionDBPath:   "./session.db",
				DefaultCurrency: "VND",
			},
			wantErr:     true,
			errorString: "invalid API URL scheme 'ftp'",
		},
		{
			name: "invalid environment",
			config: Config{
				APIBaseURL:      "https://api.example.com",
				AppEnv:          "testing",
				SessionDBPath:   "./session.db",
				DefaultCurrency: "VND",
			},
			wantErr:     true,
			errorString: "invalid app env 'testing'",
		},
		{
			name: "empty session db path",
			config: Config{
				APIBaseURL:      "https://api.example.com",
				AppEnv:          "development",
				DefaultCurrency: "VND",
			},
			wantErr:     true,
			errorString: "session database path cannot be empty",
		},
		{
			name: "bad currency code",
			config: Config{
				APIBaseURL:      "https://api.example.com",
				AppEnv:          "development",
				SessionDBPath:   "./session.db",
				DefaultCurrency: "DONG",
			},
			wantErr:     true,
			errorString: "invalid default currency 'DONG'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesSessionDir(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		APIBaseURL:      "https://api.example.com",
		AppEnv:          "development",
		SessionDBPath:   filepath.Join(dir, "nested", "deeper", "session.db"),
		DefaultCurrency: "VND",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected directory to be created, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_DB_PATH", "")
	t.Setenv("DEFAULT_CURRENCY", "")

	cfg := Load()
	if cfg.AppEnv != "development" {
		t.Errorf("expected development default, got %q", cfg.AppEnv)
	}
	if cfg.DefaultCurrency != "VND" {
		t.Errorf("expected VND default, got %q", cfg.DefaultCurrency)
	}
	if cfg.SessionDBPath == "" {
		t.Error("expected a default session db path")
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev for development")
	}
}
