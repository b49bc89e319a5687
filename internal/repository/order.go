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
	"github.com/kzl/storefront-api/internal/stock"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)

	// The three transactional mutations of the consistency protocol. Each
	// re-reads order and product inside the store transaction, applies the
	// pure stock transition, and commits all-or-nothing. Stock sentinel
	// errors pass through; anything else is a transaction failure.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
}

type mongoOrderRepo struct {
	client   *mongo.Client
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewOrderRepository(m *Mongo) OrderRepository {
	return &mongoOrderRepo{
		client:   m.Client,
		orders:   m.DB.Collection(ordersCollection),
		products: m.DB.Collection(productsCollection),
	}
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.NewString()
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o := &model.Order{}
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *mongoOrderRepo) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoOrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoOrderRepo) find(ctx context.Context, filter bson.M) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		order, product, err := r.readPair(sc, id)
		if err != nil {
			return err
		}
		delta, err := stock.StatusDelta(order, product, status)
		if err != nil {
			return err
		}
		if err := r.adjustStock(sc, order.ProductID, product, delta); err != nil {
			return err
		}
		_, err = r.orders.UpdateOne(sc, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
		})
		return err
	})
}

func (r *mongoOrderRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		order, product, err := r.readPair(sc, id)
		if err != nil {
			return err
		}
		delta, err := stock.QuantityDelta(order, product, quantity)
		if err != nil {
			return err
		}
		if err := r.adjustStock(sc, order.ProductID, product, delta); err != nil {
			return err
		}
		_, err = r.orders.UpdateOne(sc, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()},
		})
		return err
	})
}

func (r *mongoOrderRepo) Delete(ctx context.Context, id string) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		order, product, err := r.readPair(sc, id)
		if err != nil {
			return err
		}
		delta := stock.DeleteDelta(order, product)
		if err := r.adjustStock(sc, order.ProductID, product, delta); err != nil {
			return err
		}
		_, err = r.orders.DeleteOne(sc, bson.M{"_id": id})
		return err
	})
}

// inTransaction runs fn in a session transaction. The driver re-invokes fn
// on transient conflicts until its retry window closes, which is the retry
// budget the protocol relies on; fn must therefore stay a pure function of
// the state it reads through sc.
func (r *mongoOrderRepo) inTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// readPair loads the order and, when it references a product, that product.
// A missing product comes back nil; the stock transitions decide whether
// that is fatal.
func (r *mongoOrderRepo) readPair(sc mongo.SessionContext, orderID string) (*model.Order, *model.Product, error) {
	order := &model.Order{}
	if err := r.orders.FindOne(sc, bson.M{"_id": orderID}).Decode(order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, stock.ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("read order: %w", err)
	}
	if order.ProductID == "" {
		return order, nil, nil
	}

	product := &model.Product{}
	err := r.products.FindOne(sc, bson.M{"_id": order.ProductID}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return order, nil, nil
		}
		return nil, nil, fmt.Errorf("read product: %w", err)
	}
	return order, product, nil
}

func (r *mongoOrderRepo) adjustStock(sc mongo.SessionContext, productID string, product *model.Product, delta int) error {
	if delta == 0 || product == nil {
		return nil
	}
	_, err := r.products.UpdateOne(sc, bson.M{"_id": productID}, bson.M{
		"$set": bson.M{"quantity": product.Quantity + delta, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}
