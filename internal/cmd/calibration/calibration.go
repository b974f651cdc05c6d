// Package calibration parses calibration command flags and starts the gRPC service.
package calibration

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/llzcal/internal/platform/cmd"
	"github.com/louisbranch/llzcal/internal/platform/discovery"
	server "github.com/louisbranch/llzcal/internal/services/calibration/app"
)

// Config holds calibration command configuration.
type Config struct {
	Port            int     `env:"PORT"`
	Addr            string  `env:"LISTEN_ADDR"`
	DBPath          string  `env:"DB_PATH"           envDefault:"data/calibration.db"`
	MetricsAddr     string  `env:"METRICS_ADDR"`
	SectorHalfWidth float64 `env:"SECTOR_HALF_WIDTH" envDefault:"10"`
	Locale          string  `env:"LOCALE"            envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = discovery.GRPCPort(discovery.ServiceCalibration)
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The calibration server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The calibration server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (empty disables)")
	fs.Float64Var(&cfg.SectorHalfWidth, "sector-half-width", cfg.SectorHalfWidth, "Default DDM sector half-width in degrees")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Default locale for error messages")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SectorHalfWidth <= 0 {
		return Config{}, fmt.Errorf("sector half-width must be positive, got %v", cfg.SectorHalfWidth)
	}
	return cfg, nil
}

// listenAddr returns the explicit address or one built from the port.
func (c Config) listenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the calibration API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCalibration, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:            cfg.listenAddr(),
			DBPath:          cfg.DBPath,
			MetricsAddr:     cfg.MetricsAddr,
			SectorHalfWidth: cfg.SectorHalfWidth,
			Locale:          cfg.Locale,
		})
	})
}
