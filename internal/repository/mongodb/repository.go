package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/revente/internal/domain/models"
)

const snapshotsCollection = "stats_snapshots"

// Repository defines the interface for statistics archiving.
type Repository interface {
	SaveStatsSnapshot(ctx context.Context, snapshot models.StatsSnapshot) error
	LatestStatsSnapshots(ctx context.Context, limit int64) ([]models.StatsSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotsCollection,
	}, nil
}

// SaveStatsSnapshot appends a snapshot to the archive.
func (r *MongoDBRepository) SaveStatsSnapshot(ctx context.Context, snapshot models.StatsSnapshot) error {
	_, err := r.collection().InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert stats snapshot: %w", err)
	}
	return nil
}

// LatestStatsSnapshots returns up to limit snapshots, newest first.
func (r *MongoDBRepository) LatestStatsSnapshots(ctx context.Context, limit int64) ([]models.StatsSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.StatsSnapshot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stats snapshots: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
