package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ ValidationRepository = (*MongoValidationRepo)(nil)

type MongoValidationRepo struct {
	coll *mongo.Collection
}

func NewMongoValidationRepo(db *mongo.Database) *MongoValidationRepo {
	return &MongoValidationRepo{coll: db.Collection(validationsCollection)}
}

func (r *MongoValidationRepo) SaveValidationResult(ctx context.Context, result *domain.ValidationResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	return upsert(ctx, r.coll,
		bson.M{fieldValidationName: result.ValidationName},
		validationDocumentFromDomain(result),
	)
}

func (r *MongoValidationRepo) FetchLastValidationResult(ctx context.Context, validationName string) (*domain.ValidationResult, error) {
	var doc ValidationDocument
	err := r.coll.FindOne(ctx, bson.M{fieldValidationName: validationName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find validation %q: %w", validationName, err)
	}
	return validationDocumentToDomain(&doc), nil
}

func (r *MongoValidationRepo) FetchAllValidationResults(ctx context.Context) ([]domain.ValidationResult, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find validations: %w", err)
	}

	var docs []ValidationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode validations: %w", err)
	}

	results := make([]domain.ValidationResult, 0, len(docs))
	for i := range docs {
		results = append(results, *validationDocumentToDomain(&docs[i]))
	}

	return results, nil
}

func (r *MongoValidationRepo) DeleteValidationResult(ctx context.Context, validationName string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{fieldValidationName: validationName}); err != nil {
		return fmt.Errorf("delete validation %q: %w", validationName, err)
	}
	return nil
}
