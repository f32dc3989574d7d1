package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderCounter is the counters document backing order number generation.
const OrderCounter = "orders"

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// NextSequence atomically increments and returns the named counter. Using a
// dedicated counter document instead of counting existing orders keeps the
// sequence stable under concurrent submissions.
func NextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// SeedOrderCounter initializes the order counter from the number of existing
// orders so stores created before the counter existed keep a continuous
// sequence. A counter that is already present is left alone.
func SeedOrderCounter(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.Collection("counters").FindOne(ctx, bson.M{"_id": OrderCounter}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	count, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}

	_, err = db.Collection("counters").UpdateOne(
		ctx,
		bson.M{"_id": OrderCounter},
		bson.M{"$setOnInsert": bson.M{"seq": count}},
		options.Update().SetUpsert(true),
	)
	return err
}
