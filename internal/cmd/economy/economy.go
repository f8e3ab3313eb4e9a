// Package economy parses economy service flags and launches the service.
package economy

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/ravenmoor/ravenmoor/internal/platform/cmd"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/app"
)

// Config holds economy command configuration.
type Config struct {
	StoragePath   string        `env:"RAVENMOOR_ECONOMY_DB" envDefault:"data/economy.db"`
	CatalogPath   string        `env:"RAVENMOOR_ECONOMY_CATALOG" envDefault:"data/catalog.yaml"`
	SweepInterval time.Duration `env:"RAVENMOOR_ECONOMY_SWEEP_INTERVAL" envDefault:"1h"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "Path to the economy SQLite database")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to the world catalog YAML")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "Interval between arrears sweeps")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the economy service and its background jobs.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEconomy, func(ctx context.Context) error {
		application, err := app.New(app.Config{
			StoragePath:   cfg.StoragePath,
			CatalogPath:   cfg.CatalogPath,
			SweepInterval: cfg.SweepInterval,
		})
		if err != nil {
			return err
		}
		defer application.Close()
		return application.Run(ctx)
	})
}
