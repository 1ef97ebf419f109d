package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/auth"
	"ems/internal/platform/config"
)

// Seed ensures the configured bootstrap user exists. Idempotent; a concurrent
// startup losing the insert race is treated as success.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedUsername == "" {
		return nil
	}

	store := auth.NewStore(pool)
	existing, err := store.FindUserByUsername(ctx, cfg.SeedUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedPassword)
	if err != nil {
		return err
	}

	if _, err := store.CreateUser(ctx, cfg.SeedUsername, hash, cfg.SeedGroup); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}
