package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMT(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// decodeStartedCommand pops the oldest captured command and decodes it into out.
func decodeStartedCommand(mt *mtest.T, commandName string, out any) {
	mt.Helper()

	evt := mt.GetStartedEvent()
	if evt == nil {
		mt.Fatalf("expected %s command, none was sent", commandName)
	}
	if evt.CommandName != commandName {
		mt.Fatalf("command = %s, want %s", evt.CommandName, commandName)
	}
	if err := bson.Unmarshal(evt.Command, out); err != nil {
		mt.Fatalf("decode %s command: %v", commandName, err)
	}
}

func assertNoMoreCommands(mt *mtest.T) {
	mt.Helper()

	if evt := mt.GetStartedEvent(); evt != nil {
		mt.Fatalf("unexpected extra command %s", evt.CommandName)
	}
}

type windowClause struct {
	Gte time.Time `bson:"$gte"`
	Lte time.Time `bson:"$lte"`
}

type updateCommand struct {
	Updates []struct {
		Q      bson.Raw `bson:"q"`
		U      bson.Raw `bson:"u"`
		Upsert bool     `bson:"upsert"`
		Multi  bool     `bson:"multi"`
	} `bson:"updates"`
}

type nameFilter struct {
	ValidationName string `bson:"validation_name"`
}

func decodeRaw(mt *mtest.T, raw bson.Raw, out any) {
	mt.Helper()

	if err := bson.Unmarshal(raw, out); err != nil {
		mt.Fatalf("decode %s: %v", raw, err)
	}
}

func upsertedResponse() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 0},
		bson.E{Key: "upserted", Value: bson.A{
			bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "generated"}},
		}},
	)
}

func modifiedResponse() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 1},
	)
}
