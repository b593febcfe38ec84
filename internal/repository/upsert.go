package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// upsert overwrites the fields of every document matching filter with
// document, inserting document when nothing matches. The check and the write
// happen in one server-side command.
func upsert(ctx context.Context, coll *mongo.Collection, filter bson.M, document any) error {
	_, err := coll.UpdateMany(
		ctx,
		filter,
		bson.M{"$set": document},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", coll.Name(), err)
	}
	return nil
}
