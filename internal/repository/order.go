package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/techdetails/storefront-api/internal/model"
)

// OrderRepository defines the interface for order operations.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListOrders(ctx context.Context, params FilterOrdersParams) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*model.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// FilterOrdersParams defines the parameters for the admin order listing.
type FilterOrdersParams struct {
	Status   *string
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    uint64
	Offset   uint64
}

const orderCollection = "orders"

type orderMongoRepository struct {
	db *mongo.Database
}

// NewOrderMongoRepository creates the orders repository.
func NewOrderMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) OrderRepository {
	collection := db.Collection(orderCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create order indexes")
	}

	return &orderMongoRepository{db: db}
}

func (r *orderMongoRepository) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	result, err := r.db.Collection(orderCollection).InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		order.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return order, nil
}

func (r *orderMongoRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(orderCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var order model.Order
	if err := result.Decode(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderMongoRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(orderCollection).Find(
		ctx,
		bson.M{"user_id": objectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeOrders(ctx, cursor)
}

func (r *orderMongoRepository) ListOrders(ctx context.Context, params FilterOrdersParams) ([]*model.Order, error) {
	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	filter := bson.M{}
	if params.Status != nil {
		filter["status"] = *params.Status
	}
	if params.DateFrom != nil || params.DateTo != nil {
		createdAt := bson.M{}
		if params.DateFrom != nil {
			createdAt["$gte"] = *params.DateFrom
		}
		if params.DateTo != nil {
			createdAt["$lte"] = *params.DateTo
		}
		filter["created_at"] = createdAt
	}
	if params.Search != nil {
		filter["$or"] = bson.A{
			bson.M{"order_number": bson.M{"$regex": *params.Search, "$options": "i"}},
			bson.M{"customer.name": bson.M{"$regex": *params.Search, "$options": "i"}},
			bson.M{"customer.email": bson.M{"$regex": *params.Search, "$options": "i"}},
		}
	}

	cursor, err := r.db.Collection(orderCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeOrders(ctx, cursor)
}

func (r *orderMongoRepository) UpdateOrderStatus(
	ctx context.Context,
	id string,
	status string,
) (*model.Order, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(orderCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var order model.Order
	if err := result.Decode(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderMongoRepository) CountOrders(ctx context.Context) (int64, error) {
	return r.db.Collection(orderCollection).CountDocuments(ctx, bson.M{})
}

func (r *orderMongoRepository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	return r.db.Collection(orderCollection).CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": since},
	})
}

// TotalRevenue sums order totals excluding cancelled orders.
func (r *orderMongoRepository) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": model.OrderStatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}}},
	}

	cursor, err := r.db.Collection(orderCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var row struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return 0, err
		}
		return row.Total, nil
	}

	return 0, cursor.Err()
}

func decodeOrders(ctx context.Context, cursor *mongo.Cursor) ([]*model.Order, error) {
	var orders []*model.Order
	for cursor.Next(ctx) {
		var order model.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
