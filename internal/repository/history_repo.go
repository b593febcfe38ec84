package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ HistoryRepository = (*MongoHistoryRepo)(nil)

type MongoHistoryRepo struct {
	coll *mongo.Collection
}

func NewMongoHistoryRepo(db *mongo.Database) *MongoHistoryRepo {
	return &MongoHistoryRepo{coll: db.Collection(historyCollection)}
}

// AppendNotification always inserts; history is append-only.
func (r *MongoHistoryRepo) AppendNotification(ctx context.Context, occurrence *domain.NotificationOccurrence) error {
	if err := occurrence.Validate(); err != nil {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, historyDocumentFromDomain(occurrence)); err != nil {
		return fmt.Errorf("insert history for %q: %w", occurrence.ValidationName, err)
	}
	return nil
}

func (r *MongoHistoryRepo) CountNotifications(ctx context.Context, start, end time.Time, filters Filters) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, windowFilter(start, end, filters))
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

func (r *MongoHistoryRepo) FetchNotifications(ctx context.Context, start, end time.Time, filters Filters, page *Page) ([]domain.NotificationOccurrence, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: fieldCreatedAt, Value: -1}})
	if page != nil {
		opts.SetSkip(page.Skip()).SetLimit(int64(page.Size))
	}

	cursor, err := r.coll.Find(ctx, windowFilter(start, end, filters), opts)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	var docs []HistoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	occurrences := make([]domain.NotificationOccurrence, 0, len(docs))
	for i := range docs {
		occurrences = append(occurrences, *historyDocumentToDomain(&docs[i]))
	}

	return occurrences, nil
}

// windowFilter copies filters and bounds created_at to the closed interval
// [start, end]. The caller's map is left untouched; a created_at clause in it
// is replaced by the window.
func windowFilter(start, end time.Time, filters Filters) bson.M {
	merged := make(bson.M, len(filters)+1)
	for key, value := range filters {
		merged[key] = value
	}
	merged[fieldCreatedAt] = bson.M{"$gte": start, "$lte": end}
	return merged
}
