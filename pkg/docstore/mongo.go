package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore maps each collection to a MongoDB collection and each key to
// the document's _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects and pings the primary before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("docstore: mongo ping: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, key string) (Document, error) {
	var raw bson.Raw
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	_, doc, err := fromRaw(raw)
	return doc, err
}

func (s *MongoStore) Set(ctx context.Context, collection, key string, doc Document, mode WriteMode) error {
	clean, err := normalize(doc)
	if err != nil {
		return err
	}
	delete(clean, "_id")
	coll := s.db.Collection(collection)
	filter := bson.M{"_id": key}

	if mode == Replace {
		_, err := coll.ReplaceOne(ctx, filter, bson.M(clean), options.Replace().SetUpsert(true))
		return err
	}

	_, err = coll.UpdateOne(ctx, filter, mergeUpdate(key, clean), options.Update().SetUpsert(true))
	return err
}

// mergeUpdate sets top-level fields only. Dotted paths would fail on
// documents where a parent field holds an array or null.
func mergeUpdate(key string, doc Document) bson.M {
	if len(doc) == 0 {
		return bson.M{"$setOnInsert": bson.M{"_id": key}}
	}
	return bson.M{"$set": bson.M(doc)}
}

func (s *MongoStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	return s.find(ctx, collection, bson.M{field: value})
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	return s.find(ctx, collection, bson.M{})
}

func (s *MongoStore) find(ctx context.Context, collection string, filter bson.M) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Snapshot
	for cur.Next(ctx) {
		key, doc, err := fromRaw(cur.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{Key: key, Data: doc})
	}
	return out, cur.Err()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// fromRaw converts a BSON document to the driver-neutral shape via relaxed
// extended JSON and splits off its _id.
func fromRaw(raw bson.Raw) (string, Document, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return "", nil, fmt.Errorf("docstore: mongo extjson: %w", err)
	}
	doc, err := decode(data)
	if err != nil {
		return "", nil, err
	}
	key, _ := doc["_id"].(string)
	delete(doc, "_id")
	return key, doc, nil
}
