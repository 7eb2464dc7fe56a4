package main

import (
	"fmt"
	"os"

	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/config"
	"github.com/ManuC12/Raices-de-vida/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Raíces de Vida candle shop backend",
		Long: `storefront serves the shop API: catalog, per-browser carts,
simulated checkout, sign-in pass-through and the admin dashboard.

Settings come from the environment (HTTP_PORT, STORE_BACKEND, CATALOG_DRIVER, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(log)
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newCatalogCmd(a))
	return root
}

// openRepository connects to the configured products table and brings its
// schema up to date. It returns nil when no catalog driver is configured.
func (a *app) openRepository() (*catalog.Repository, error) {
	if a.cfg.Catalog.Driver == "" {
		return nil, nil
	}
	repo, err := catalog.NewRepository(a.cfg.Catalog.Driver, a.cfg.Catalog.DSN)
	if err != nil {
		return nil, err
	}
	if err := repo.RunMigrations(a.cfg.Catalog.MigrationsDir()); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// newCatalog serves repo when there is one and the built-in products otherwise.
func (a *app) newCatalog(repo *catalog.Repository) *catalog.Catalog {
	if repo == nil {
		return catalog.New(nil, a.log)
	}
	return catalog.New(repo, a.log)
}

func requireDriver(cfg *config.Config) error {
	if cfg.Catalog.Driver == "" {
		return fmt.Errorf("CATALOG_DRIVER is not set")
	}
	return nil
}
