package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ NotificationRepository = (*MongoNotificationRepo)(nil)

type MongoNotificationRepo struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepo(db *mongo.Database) *MongoNotificationRepo {
	return &MongoNotificationRepo{coll: db.Collection(notificationsCollection)}
}

// SaveLastNotification keys on the validation name alone, so closing a thread
// overwrites the open one instead of adding a second document.
func (r *MongoNotificationRepo) SaveLastNotification(ctx context.Context, status *domain.NotificationStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	return upsert(ctx, r.coll,
		bson.M{fieldValidationName: status.ValidationName},
		notificationDocumentFromDomain(status),
	)
}

// FetchLastNotification returns the most recent open thread for the
// validation, or nil when the validation has no open thread.
func (r *MongoNotificationRepo) FetchLastNotification(ctx context.Context, validationName string) (*domain.NotificationStatus, error) {
	var doc NotificationDocument
	err := r.coll.FindOne(
		ctx,
		bson.M{fieldValidationName: validationName, fieldIsOpened: true},
		options.FindOne().SetSort(bson.D{{Key: fieldLastNotification, Value: -1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification %q: %w", validationName, err)
	}
	return notificationDocumentToDomain(validationName, &doc), nil
}
