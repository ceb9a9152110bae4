// Package db connects to PostgreSQL and bootstraps the catalog schema.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hammamikhairi/nutricalc/internal/logger"
)

// ErrNoDSN is returned when no connection string is configured.
var ErrNoDSN = errors.New("database url not set")

// Connect opens a connection pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string, log *logger.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info("connected to postgres %s/%s", config.ConnConfig.Host, config.ConnConfig.Database)
	return pool, nil
}

// schema creates the catalog tables. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS raw_materials (
		name     TEXT PRIMARY KEY,
		calories DOUBLE PRECISION NOT NULL DEFAULT 0,
		proteins DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbs    DOUBLE PRECISION NOT NULL DEFAULT 0,
		fat      DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		name     TEXT PRIMARY KEY,
		calories DOUBLE PRECISION NOT NULL DEFAULT 0,
		proteins DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbs    DOUBLE PRECISION NOT NULL DEFAULT 0,
		fat      DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		id            SERIAL PRIMARY KEY,
		recipe_name   TEXT NOT NULL REFERENCES recipes(name) ON DELETE CASCADE,
		material_name TEXT NOT NULL REFERENCES raw_materials(name),
		grams         DOUBLE PRECISION NOT NULL CHECK (grams >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS menu_recipes (
		id          SERIAL PRIMARY KEY,
		menu_name   TEXT NOT NULL REFERENCES menus(name) ON DELETE CASCADE,
		recipe_name TEXT NOT NULL REFERENCES recipes(name),
		grams       DOUBLE PRECISION NOT NULL CHECK (grams >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_products (
		id           SERIAL PRIMARY KEY,
		menu_name    TEXT NOT NULL REFERENCES menus(name) ON DELETE CASCADE,
		product_name TEXT NOT NULL REFERENCES products(name),
		units        INTEGER NOT NULL DEFAULT 1 CHECK (units >= 1)
	)`,
}

// InitSchema creates or updates the catalog tables.
func InitSchema(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	log.Info("schema initialized")
	return nil
}
