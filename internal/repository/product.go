package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kzl/storefront-api/internal/model"
)

// ProductFilter narrows List results. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	Township string
	Search   string
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

type mongoProductRepo struct {
	coll *mongo.Collection
}

func NewProductRepository(m *Mongo) ProductRepository {
	return &mongoProductRepo{coll: m.DB.Collection(productsCollection)}
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.NewString()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *mongoProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p := &model.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *mongoProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Township != "" {
		query["township"] = filter.Township
	}
	if filter.Search != "" {
		pattern := regexFilter(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"category": pattern},
			bson.M{"township": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func regexFilter(term string) bson.M {
	return bson.M{"$regex": term, "$options": "i"}
}
