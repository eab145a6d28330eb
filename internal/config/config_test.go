package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	_ "time/tzdata"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", LogLevel: "info"},
		Store:    StoreConfig{Driver: DriverMemory, SeedData: true},
		BigQuery: BigQueryConfig{Dataset: "production_planner"},
		MongoDB:  MongoDBConfig{DBName: "fairoils"},
		WhatsApp: WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		Digest:   DigestConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: "STORE_DRIVER"},
		{name: "bigquery without project", mutate: func(c *Config) { c.Store.Driver = DriverBigQuery }, wantErr: "BIGQUERY_PROJECT_ID"},
		{
			name: "bigquery with project",
			mutate: func(c *Config) {
				c.Store.Driver = DriverBigQuery
				c.BigQuery.ProjectID = "fairoils"
			},
		},
		{name: "whatsapp without phone id", mutate: func(c *Config) { c.WhatsApp.AccessToken = "token" }, wantErr: "WHATSAPP_PHONE_NUMBER_ID"},
		{
			name: "whatsapp without recipient",
			mutate: func(c *Config) {
				c.WhatsApp.AccessToken = "token"
				c.WhatsApp.PhoneNumberID = "123"
			},
			wantErr: "WHATSAPP_DIGEST_RECIPIENT",
		},
		{name: "mongo without database", mutate: func(c *Config) { c.MongoDB = MongoDBConfig{URI: "mongodb://localhost"} }, wantErr: "MONGODB_DB_NAME"},
		{name: "bad timezone", mutate: func(c *Config) { c.Digest.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
		{name: "empty schedule", mutate: func(c *Config) { c.Digest.CronSchedule = "" }, wantErr: "DIGEST_CRON_SCHEDULE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "STORE_DRIVER", "SEED_MOCK_DATA", "BIGQUERY_DATASET",
		"MONGODB_URI", "WHATSAPP_TOKEN", "DIGEST_CRON_SCHEDULE", "TIMEZONE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverMemory || !cfg.Store.SeedData {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.BigQuery.Dataset != "production_planner" {
		t.Errorf("dataset = %q", cfg.BigQuery.Dataset)
	}
	if cfg.Digest.CronSchedule != "0 20 * * 5" || cfg.Digest.Timezone != "Africa/Nairobi" {
		t.Errorf("digest = %+v", cfg.Digest)
	}
	if cfg.WhatsApp.Enabled() {
		t.Error("whatsapp should be disabled without a token")
	}
}

func TestLoadFromFile(t *testing.T) {
	for _, key := range []string{"APP_PORT", "STORE_DRIVER", "SEED_MOCK_DATA", "TIMEZONE", "WHATSAPP_TOKEN", "MONGODB_URI"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nSTORE_DRIVER=MEMORY\nSEED_MOCK_DATA=false\nTIMEZONE=UTC\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverMemory || cfg.Store.SeedData {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadRejectsBadSeedFlag(t *testing.T) {
	t.Setenv("SEED_MOCK_DATA", "sometimes")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for non-boolean SEED_MOCK_DATA")
	}
}
