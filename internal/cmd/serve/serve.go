// Package serve parses node server flags and launches the accept loop.
package serve

import (
	"context"
	"errors"
	"flag"
	"strings"

	entrypoint "github.com/webmentordev/swarm/internal/platform/cmd"
	server "github.com/webmentordev/swarm/internal/services/membership/app"
)

// Config holds serve command configuration.
type Config struct {
	MasterKey  string `env:"MASTER_KEY"`
	ConfigPath string `env:"SWARM_CONFIG_PATH" envDefault:"config.txt"`
	DBPath     string `env:"SWARM_DB_PATH" envDefault:"master_node.db"`
	Port       int    `env:"SWARM_PORT" envDefault:"8777"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to the local role config file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the member registry database")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "preferred listen port for the master role")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the node server in its resolved role.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.MasterKey) == "" {
		return errors.New("MASTER_KEY environment variable not set")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServe, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			MasterKey:  cfg.MasterKey,
			ConfigPath: cfg.ConfigPath,
			DBPath:     cfg.DBPath,
			Port:       cfg.Port,
		})
	})
}
