package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kzl/storefront-api/internal/model"
)

// settingsDocID pins the shop settings to a single document.
const settingsDocID = "shop"

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewSettingsRepository(m *Mongo) SettingsRepository {
	return &mongoSettingsRepo{coll: m.DB.Collection(settingsCollection)}
}

// Get returns empty settings (never nil) when none have been saved yet.
func (r *mongoSettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	s := &model.Settings{}
	err := r.coll.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &model.Settings{ID: settingsDocID}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *mongoSettingsRepo) Save(ctx context.Context, s *model.Settings) error {
	s.ID = settingsDocID
	s.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, s, opts); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
