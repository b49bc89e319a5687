package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kzl/storefront-api/internal/model"
)

// Categories and townships are plain reference lists. Products and users
// point at them by name, so deleting an entry does not cascade.

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
}

type mongoCategoryRepo struct {
	coll *mongo.Collection
}

func NewCategoryRepository(m *Mongo) CategoryRepository {
	return &mongoCategoryRepo{coll: m.DB.Collection(categoriesCollection)}
}

func (r *mongoCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	category.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *mongoCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := findAllSortedByName(ctx, r.coll, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *mongoCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCategoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "category")
}

type TownshipRepository interface {
	Create(ctx context.Context, township *model.Township) error
	List(ctx context.Context) ([]model.Township, error)
	Delete(ctx context.Context, id string) error
}

type mongoTownshipRepo struct {
	coll *mongo.Collection
}

func NewTownshipRepository(m *Mongo) TownshipRepository {
	return &mongoTownshipRepo{coll: m.DB.Collection(townshipsCollection)}
}

func (r *mongoTownshipRepo) Create(ctx context.Context, township *model.Township) error {
	township.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, township); err != nil {
		return fmt.Errorf("create township: %w", err)
	}
	return nil
}

func (r *mongoTownshipRepo) List(ctx context.Context) ([]model.Township, error) {
	var townships []model.Township
	if err := findAllSortedByName(ctx, r.coll, &townships); err != nil {
		return nil, fmt.Errorf("list townships: %w", err)
	}
	return townships, nil
}

func (r *mongoTownshipRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "township")
}

func findAllSortedByName(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id, entity string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
