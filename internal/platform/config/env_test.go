package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port   int    `env:"TEST_PORT" envDefault:"123"`
	DBPath string `env:"TEST_DB_PATH" envDefault:"data/test.db"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.DBPath != "data/test.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestParseEnvReadsPrefixedKeys(t *testing.T) {
	t.Setenv("LLZ_CAL_TEST_PORT", "9001")
	t.Setenv("TEST_DB_PATH", "ignored.db")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected prefixed port 9001, got %d", cfg.Port)
	}
	if cfg.DBPath != "data/test.db" {
		t.Fatalf("unprefixed key must be ignored, got %q", cfg.DBPath)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("LLZ_CAL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
