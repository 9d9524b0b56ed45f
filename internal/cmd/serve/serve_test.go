package serve

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("MASTER_KEY", "secret123")

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.MasterKey != "secret123" {
		t.Fatalf("expected master key from env, got %q", cfg.MasterKey)
	}
	if cfg.ConfigPath != "config.txt" {
		t.Fatalf("expected default config path, got %q", cfg.ConfigPath)
	}
	if cfg.DBPath != "master_node.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Port != 8777 {
		t.Fatalf("expected default port 8777, got %d", cfg.Port)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SWARM_PORT", "9000")

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-db", "other.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected flag port 9001, got %d", cfg.Port)
	}
	if cfg.DBPath != "other.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
}

func TestRunRequiresMasterKey(t *testing.T) {
	if err := Run(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing master key")
	}
}
