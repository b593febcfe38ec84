package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ClientOptions returns the client options shared by the process and tests.
// Embedded documents decode into maps so free-form payloads round trip as
// map[string]any instead of ordered bson.D slices.
func ClientOptions(url string) *options.ClientOptions {
	return options.Client().
		ApplyURI(url).
		SetAppName("lifeguard-mongodb").
		SetBSONOptions(&options.BSONOptions{
			DefaultDocumentM: true,
		})
}

func NewMongo(ctx context.Context, url string, database string, connectTimeout time.Duration) (*mongo.Client, *mongo.Database, error) {
	if strings.TrimSpace(database) == "" {
		return nil, nil, fmt.Errorf("mongodb database name is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, ClientOptions(url).SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(database), nil
}
