package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./riffvalley.db" {
			t.Errorf("expected database path ./riffvalley.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Server.RateLimit != 20 {
			t.Errorf("expected rate limit 20, got %v", config.Server.RateLimit)
		}

		if config.Editorial.Timezone != "Europe/Madrid" {
			t.Errorf("expected timezone Europe/Madrid, got %s", config.Editorial.Timezone)
		}

		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20

[server]
host = "0.0.0.0"
port = 8080

[editorial]
timezone = "UTC"
log_level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Database.MaxIdleConns != 2 {
			t.Errorf("expected unset max_idle_conns to keep default 2, got %d", config.Database.MaxIdleConns)
		}

		if config.Editorial.Level() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.Editorial.Level())
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Location", func(t *testing.T) {
		tc := []struct {
			name     string
			timezone string
			want     string
			wantErr  bool
		}{
			{name: "empty falls back to UTC", timezone: "", want: "UTC"},
			{name: "named zone", timezone: "UTC", want: "UTC"},
			{name: "unknown zone", timezone: "Mars/Olympus", wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				loc, err := EditorialConfig{Timezone: tt.timezone}.Location()
				if tt.wantErr {
					if !errors.Is(err, ErrInvalidConfig) {
						t.Errorf("expected ErrInvalidConfig, got %v", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if loc.String() != tt.want {
					t.Errorf("expected %s, got %s", tt.want, loc)
				}
				if time.Date(2024, 1, 1, 0, 0, 0, 0, loc).IsZero() {
					t.Error("expected usable location")
				}
			})
		}
	})
}
