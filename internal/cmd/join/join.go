// Package join parses join client flags and runs the one-shot join flow.
package join

import (
	"context"
	"errors"
	"flag"
	"strings"

	entrypoint "github.com/webmentordev/swarm/internal/platform/cmd"
	"github.com/webmentordev/swarm/internal/services/membership/client"
)

// Config holds join command configuration.
type Config struct {
	MasterKey  string `env:"MASTER_KEY"`
	ConfigPath string `env:"SWARM_CONFIG_PATH" envDefault:"config.txt"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to the local role config file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the join client against the target master address.
func Run(ctx context.Context, cfg Config, target string) error {
	if strings.TrimSpace(cfg.MasterKey) == "" {
		return errors.New("MASTER_KEY environment variable not set")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceJoin, func(ctx context.Context) error {
		return client.Join(ctx, client.Config{
			MasterKey:  cfg.MasterKey,
			ConfigPath: cfg.ConfigPath,
		}, target)
	})
}
