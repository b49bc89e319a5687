package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kzl/storefront-api/internal/config"
)

const (
	usersCollection         = "users"
	productsCollection      = "products"
	ordersCollection        = "orders"
	categoriesCollection    = "categories"
	townshipsCollection     = "townships"
	announcementsCollection = "announcements"
	settingsCollection      = "settings"
	auditLogsCollection     = "audit_logs"
)

// Mongo wraps the shared client and database handle the repositories use.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to call
// on every boot; Mongo treats existing identical indexes as a no-op.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "role", Value: 1}}}},
		{ordersCollection, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{ordersCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{productsCollection, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
		{auditLogsCollection, mongo.IndexModel{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	}
	for _, s := range specs {
		if _, err := m.DB.Collection(s.coll).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.coll, err)
		}
	}
	return nil
}
