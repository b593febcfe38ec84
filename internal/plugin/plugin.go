// Package plugin wires the MongoDB repositories into a lifeguard process.
package plugin

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/config"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/infra/mongodb"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/observability"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/registry"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type Plugin struct {
	db     *mongo.Database
	logger *zap.Logger
	// ownsClient is set when the plugin connected the client itself and
	// must disconnect it on Close.
	ownsClient bool

	Validation   repository.ValidationRepository
	Notification repository.NotificationRepository
	History      repository.HistoryRepository
}

// Open connects to the configured deployment and builds the repositories.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Plugin, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	_, db, err := mongodb.NewMongo(ctx, cfg.MongoDBURL, cfg.MongoDBDatabase, cfg.ConnectTimeout())
	if err != nil {
		return nil, err
	}

	p := New(db, logger, metrics)
	p.ownsClient = true
	p.logger.Info("mongodb plugin opened", zap.String("database", cfg.MongoDBDatabase))
	return p, nil
}

// New builds the repositories around an existing database handle. The
// caller keeps ownership of the client.
func New(db *mongo.Database, logger *zap.Logger, metrics *observability.Metrics) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Plugin{
		db:     db,
		logger: logger,
		Validation: repository.NewInstrumentedValidationRepo(
			repository.NewMongoValidationRepo(db), metrics, logger),
		Notification: repository.NewInstrumentedNotificationRepo(
			repository.NewMongoNotificationRepo(db), metrics, logger),
		History: repository.NewInstrumentedHistoryRepo(
			repository.NewMongoHistoryRepo(db), metrics, logger),
	}
}

// Register declares all three repositories on reg.
func (p *Plugin) Register(reg *registry.Registry) {
	reg.DeclareHistory(p.History)
	reg.DeclareNotification(p.Notification)
	reg.DeclareValidation(p.Validation)
}

func (p *Plugin) Ping(ctx context.Context) error {
	if err := p.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

func (p *Plugin) Close(ctx context.Context) error {
	if !p.ownsClient {
		return nil
	}
	if err := p.db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	p.logger.Info("mongodb plugin closed")
	return nil
}
