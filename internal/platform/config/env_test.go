package config

import "testing"

type envTestConfig struct {
	Key  string `env:"CONFIG_TEST_KEY"`
	Port int    `env:"CONFIG_TEST_PORT" envDefault:"8777"`
}

func TestParseEnvReadsValues(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "secret123")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Key != "secret123" {
		t.Fatalf("expected key secret123, got %q", cfg.Key)
	}
	if cfg.Port != 8777 {
		t.Fatalf("expected default port 8777, got %d", cfg.Port)
	}
}

func TestParseEnvOverridesDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_PORT", "9001")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
}
