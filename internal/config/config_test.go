package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		backend BackendConfig
		wantErr bool
	}{
		{"bleve in memory", BackendConfig{Driver: DriverBleve}, false},
		{"bleve on disk", BackendConfig{Driver: DriverBleve, Path: "/tmp/es"}, false},
		{"redis", BackendConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}}, false},
		{"redis without addrs", BackendConfig{Driver: DriverRedis}, true},
		{"unknown driver", BackendConfig{Driver: "elastic"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Backend: tt.backend}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 0},
		Backend: BackendConfig{Driver: DriverBleve},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_EmptyAPIKey(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Backend: BackendConfig{Driver: DriverBleve},
		Auth:    AuthConfig{APIKeys: []string{"ok", ""}},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Backend.Driver != DriverBleve {
		t.Errorf("expected Driver=%q, got %q", DriverBleve, cfg.Backend.Driver)
	}
	if cfg.Backend.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Backend.ReadinessTimeout)
	}
	if cfg.Backend.KeyPrefix != "es:" {
		t.Errorf("expected KeyPrefix='es:', got %q", cfg.Backend.KeyPrefix)
	}
	if cfg.Search.SignatureField != "entityContent" {
		t.Errorf("expected SignatureField=entityContent, got %q", cfg.Search.SignatureField)
	}
	if cfg.Search.MaxCandidates != 10000 {
		t.Errorf("expected MaxCandidates=10000, got %d", cfg.Search.MaxCandidates)
	}
	if cfg.Index.MaxBatchSize != 500 {
		t.Errorf("expected MaxBatchSize=500, got %d", cfg.Index.MaxBatchSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Backend: BackendConfig{Driver: DriverRedis, ReadinessTimeout: 15, KeyPrefix: "custom:"},
		Search:  SearchConfig{SignatureField: "title", MaxCandidates: 50},
		Index:   IndexConfig{MaxBatchSize: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Backend.Driver != DriverRedis {
		t.Errorf("expected Driver=redis, got %q", cfg.Backend.Driver)
	}
	if cfg.Backend.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Backend.KeyPrefix)
	}
	if cfg.Search.SignatureField != "title" || cfg.Search.MaxCandidates != 50 {
		t.Errorf("search config overridden: %+v", cfg.Search)
	}
	if cfg.Index.MaxBatchSize != 50 {
		t.Errorf("expected MaxBatchSize=50, got %d", cfg.Index.MaxBatchSize)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ES_TEST_ADDR", "redis:6379")

	got := string(expandEnvVars([]byte("a: ${ES_TEST_ADDR}\nb: ${ES_TEST_MISSING:-fallback}\nc: ${ES_TEST_MISSING}")))
	want := "a: redis:6379\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "http:\n  port: ${ES_TEST_PORT:-9200}\nbackend:\n  driver: bleve\nsearch:\n  signature_field: title\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9200 {
		t.Errorf("expected port 9200, got %d", cfg.HTTP.Port)
	}
	if cfg.Search.SignatureField != "title" {
		t.Errorf("expected signature field title, got %q", cfg.Search.SignatureField)
	}
	if cfg.Index.MaxBatchSize != 500 {
		t.Errorf("expected defaults applied, got MaxBatchSize=%d", cfg.Index.MaxBatchSize)
	}
}
