package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ganaderia/internal/repository"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.Store on top of MongoDB.
// Records are keyed by their `_id` field.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// NewFromDatabase wraps an already connected database handle.
func NewFromDatabase(db *mongo.Database) *MongoDBRepository {
	return &MongoDBRepository{client: db.Client(), db: db}
}

// FetchAll loads every document of a collection, ordered by id.
func (r *MongoDBRepository) FetchAll(ctx context.Context, collection string, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

// Get loads a single document by id.
func (r *MongoDBRepository) Get(ctx context.Context, collection, id string, out any) error {
	err := r.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s/%s: %w", collection, id, err)
	}
	return nil
}

// Save replaces the document with the given id, inserting it when missing.
func (r *MongoDBRepository) Save(ctx context.Context, collection, id string, doc any) error {
	if id == "" {
		return fmt.Errorf("failed to save into %s: empty id", collection)
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.db.Collection(collection).ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document with the given id. Deleting a missing id is not an error.
func (r *MongoDBRepository) Delete(ctx context.Context, collection, id string) error {
	if _, err := r.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
