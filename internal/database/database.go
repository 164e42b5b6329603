// Package database opens the row store selected by configuration.
package database

import (
	"context"
	"fmt"
	"neonfit/studio-tracker/internal/config"
	"neonfit/studio-tracker/internal/repository"
	"neonfit/studio-tracker/internal/repository/mongo"
	"neonfit/studio-tracker/internal/repository/sqlstore"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = sqlstore.DriverSQLite
	DriverLibSQL = sqlstore.DriverLibSQL
)

// Open connects to the configured store. Missing credentials yield an error
// wrapping repository.ErrNotConfigured that names the missing setting.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	if err := checkConfigured(cfg); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		mongo.EnsureIndexes(ctx, client.Database(cfg.Name))
		log.Infof("connected to MongoDB database %q", cfg.Name)
		return mongo.NewStore(client, cfg.Name), nil

	case DriverLibSQL, DriverSQLite:
		db, err := sqlstore.Open(ctx, cfg.Driver, cfg.URI, cfg.AccessKey)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
		}
		log.Infof("connected to %s store", cfg.Driver)
		return sqlstore.NewStore(db), nil

	default:
		return nil, fmt.Errorf("%w: unknown database.driver %q (want libsql, sqlite or mongo)",
			repository.ErrNotConfigured, cfg.Driver)
	}
}

// OpenOrUnconfigured behaves like Open but falls back to a store whose every
// operation fails with the configuration error. Connection failures are still
// returned.
func OpenOrUnconfigured(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	store, err := Open(ctx, cfg)
	if repository.IsNotConfigured(err) {
		log.Warnf("data store unavailable: %v", err)
		return repository.NewUnconfiguredStore(reason(err)), nil
	}
	return store, err
}

func checkConfigured(cfg config.DatabaseConfig) error {
	if cfg.URI == "" {
		return fmt.Errorf("%w: database.uri is empty (set DATABASE_URI)", repository.ErrNotConfigured)
	}
	if cfg.Driver == DriverLibSQL && cfg.AccessKey == "" && !isLocalLibSQL(cfg.URI) {
		return fmt.Errorf("%w: database.access_key is empty (set DATABASE_ACCESS_KEY)", repository.ErrNotConfigured)
	}
	return nil
}

// isLocalLibSQL reports whether uri points at a local file or an unauthenticated dev server.
func isLocalLibSQL(uri string) bool {
	for _, p := range []string{"file:", "http://localhost", "http://127.0.0.1", "ws://localhost", "ws://127.0.0.1"} {
		if strings.HasPrefix(uri, p) {
			return true
		}
	}
	return false
}

func reason(err error) string {
	return strings.TrimPrefix(err.Error(), repository.ErrNotConfigured.Error()+": ")
}
