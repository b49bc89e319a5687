package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kzl/storefront-api/internal/model"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	List(ctx context.Context) ([]model.Announcement, error)
	ListSince(ctx context.Context, since time.Time) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id string) error
}

type mongoAnnouncementRepo struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(m *Mongo) AnnouncementRepository {
	return &mongoAnnouncementRepo{coll: m.DB.Collection(announcementsCollection)}
}

func (r *mongoAnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	a.ID = uuid.NewString()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

func (r *mongoAnnouncementRepo) List(ctx context.Context) ([]model.Announcement, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoAnnouncementRepo) ListSince(ctx context.Context, since time.Time) ([]model.Announcement, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gt": since}})
}

func (r *mongoAnnouncementRepo) find(ctx context.Context, filter bson.M) ([]model.Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []model.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	return announcements, nil
}

func (r *mongoAnnouncementRepo) Update(ctx context.Context, a *model.Announcement) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAnnouncementRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "announcement")
}
