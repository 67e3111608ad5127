// Command migrate copies the legacy serialized term image mapping into the
// configured association store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"termimage/backend/internal/config"
	"termimage/backend/internal/database"
	"termimage/backend/internal/logger"
	"termimage/backend/internal/store"
)

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	dir := flags.String("config", ".", "directory holding the .env file")
	purge := flags.Bool("purge", false, "delete the legacy option after every entry was copied")
	target := flags.String("to", "", "target backend (meta or redis); defaults to TERM_IMAGE_STORAGE")
	_ = flags.Parse(os.Args[1:])

	if err := run(context.Background(), *dir, *target, *purge); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dir, target string, purge bool) error {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return err
	}
	log := logger.New("termimage-migrate", cfg.LogLevel)

	if target != "" {
		cfg.TermImage.Storage = target
	}
	if cfg.TermImage.Storage == "option" || cfg.TermImage.Storage == "memory" {
		return fmt.Errorf("cannot migrate into the %q backend", cfg.TermImage.Storage)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	db, err := database.Connect(connectCtx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	dst, err := newTargetStore(cfg, db)
	if err != nil {
		return err
	}

	legacy := store.NewOptionStore(db, cfg.TermImage.OptionName)
	copied, err := store.MigrateLegacy(ctx, legacy, dst, purge)
	if err != nil {
		log.WithError(err).WithField("copied", copied).Error("migration stopped")
		return err
	}
	log.WithField("copied", copied).WithField("purged", purge).Info("legacy term images migrated")
	return nil
}

func newTargetStore(cfg *config.Config, db *gorm.DB) (store.Store, error) {
	opts := store.Options{DB: db, MetaKey: cfg.TermImage.MetaKey}
	if cfg.TermImage.Storage == "redis" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts.Redis = redis.NewClient(redisOpts)
	}
	return store.New(cfg.TermImage.Storage, opts)
}
