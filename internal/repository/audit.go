package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLog records an order lifecycle event for the admin panel.
type AuditLog struct {
	ID        string    `bson:"_id" json:"id"`
	Action    string    `bson:"action" json:"action"`
	EntityID  string    `bson:"entity_id" json:"entity_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Detail    string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type AuditRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	ListByEntity(ctx context.Context, entityID string, limit int64) ([]AuditLog, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

func NewAuditRepository(m *Mongo) AuditRepository {
	return &mongoAuditRepo{coll: m.DB.Collection(auditLogsCollection)}
}

func (r *mongoAuditRepo) Create(ctx context.Context, log *AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (r *mongoAuditRepo) ListByEntity(ctx context.Context, entityID string, limit int64) ([]AuditLog, error) {
	filter := bson.M{}
	if entityID != "" {
		filter["entity_id"] = entityID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode audit logs: %w", err)
	}
	return logs, nil
}
