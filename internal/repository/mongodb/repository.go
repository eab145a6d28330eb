package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

const (
	snapshotCollection   = "dashboard_snapshots"
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 200
)

// Repository defines the interface for dashboard snapshot storage.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error)
}

// collection is the subset of *mongo.Collection the repository uses.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// SnapshotRepository implements the Repository interface for MongoDB.
type SnapshotRepository struct {
	client *mongo.Client
	coll   collection
}

// NewSnapshotRepository connects to MongoDB and verifies the connection.
func NewSnapshotRepository(ctx context.Context, uri string, dbName string) (*SnapshotRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SnapshotRepository{
		client: client,
		coll:   client.Database(dbName).Collection(snapshotCollection),
	}, nil
}

// SaveSnapshot stores one digest snapshot.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	if _, err := r.coll.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert dashboard snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the most recent snapshots, newest first. A
// non-positive limit means 20; larger limits are capped at 200.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error) {
	switch {
	case limit <= 0:
		limit = defaultSnapshotLimit
	case limit > maxSnapshotLimit:
		limit = maxSnapshotLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "taken_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := make([]models.DashboardSnapshot, 0, limit)
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard snapshots: %w", err)
	}
	return snapshots, nil
}

// Close closes the MongoDB connection.
func (r *SnapshotRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
