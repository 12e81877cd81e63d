package main

import (
	"context"
	"fmt"
	"time"

	"fitcycle/server/internal/config"
	"fitcycle/server/internal/repository"
	"fitcycle/server/internal/repository/memory"
	"fitcycle/server/internal/repository/mongo"
	"fitcycle/server/internal/repository/postgres"

	log "github.com/sirupsen/logrus"
)

type backend struct {
	store *repository.Store
	close func() error
}

func openBackend(cfg config.DatabaseConfig) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		log.Infoln("Connected to MongoDB")
		db := client.Database(cfg.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			log.Infoln("Ensuring database indexes ...")
			mongo.EnsureIndexes(ctx, db)
			log.Infoln("Database index check finished")
		}()

		return &backend{
			store: mongo.NewStore(db),
			close: func() error { return mongo.DisconnectDB(client) },
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		log.Infoln("Connected to PostgreSQL")
		return &backend{
			store: postgres.NewStore(db),
			close: func() error { return postgres.Close(db) },
		}, nil

	case config.DriverMemory:
		log.Warnln("Using the in-memory backend, data is lost on restart")
		return &backend{
			store: memory.NewStore(),
			close: func() error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
