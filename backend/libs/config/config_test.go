package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TESTSVC_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Cache struct {
		TTL time.Duration `yaml:"ttl" env:"TESTSVC_CACHE_TTL"`
	} `yaml:"cache"`
	Workers int  `yaml:"workers"`
	Debug   bool `yaml:"debug"`
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg := &testConfig{}
	cfg.HTTP.Port = "9090"
	cfg.Workers = 4

	if err := Load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("port = %q, want default 9090", cfg.HTTP.Port)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want default 4", cfg.Workers)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TESTSVC_HTTP_PORT", "7070")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("WORKERS", "12")
	t.Setenv("DEBUG", "true")
	t.Setenv("TESTSVC_CACHE_TTL", "45s")

	cfg := &testConfig{}
	if err := Load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Port != "7070" {
		t.Errorf("port = %q, want 7070 from tagged env", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Errorf("dsn = %q, want generated PARENT_CHILD key", cfg.Database.DSN)
	}
	if cfg.Workers != 12 {
		t.Errorf("workers = %d, want 12", cfg.Workers)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Cache.TTL != 45*time.Second {
		t.Errorf("ttl = %v, want 45s", cfg.Cache.TTL)
	}
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http:\n  port: \"6060\"\ndatabase:\n  dsn: postgres://file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_DSN", "postgres://env-wins")

	cfg := &testConfig{}
	if err := Load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Port != "6060" {
		t.Errorf("port = %q, want 6060 from file", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://env-wins" {
		t.Errorf("dsn = %q, env must override file", cfg.Database.DSN)
	}
}

func TestLoadRejectsNonPointer(t *testing.T) {
	if err := Load(testConfig{}); err == nil {
		t.Error("value target must be rejected")
	}
	if err := Load(nil); err == nil {
		t.Error("nil target must be rejected")
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("WORKERS", "not-a-number")
	if err := Load(&testConfig{}); err == nil {
		t.Error("bad integer must surface a parse error")
	}
}
