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

// ProductRepository defines the interface for catalog product operations.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, params FilterProductsParams) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (*model.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// FilterProductsParams defines the parameters for filtering and paginating
// the catalog.
type FilterProductsParams struct {
	CategorySlug *string
	Search       *string
	Limit        uint64
	Offset       uint64
}

// UpdateProductParams defines the optional parameters for updating a
// product. Only the fields that are not nil will be updated.
type UpdateProductParams struct {
	Name           *string
	Slug           *string
	Description    *string
	Price          *float64
	Stock          *int
	Category       *string
	CategorySlug   *string
	Features       *[]string
	Specifications *map[string]string
	Images         *[]string
}

const productCollection = "products"

type productMongoRepository struct {
	db *mongo.Database
}

// NewProductMongoRepository creates the products repository.
func NewProductMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProductRepository {
	collection := db.Collection(productCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category_slug", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create product indexes")
	}

	return &productMongoRepository{db: db}
}

func (r *productMongoRepository) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.db.Collection(productCollection).InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		product.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return product, nil
}

func (r *productMongoRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(productCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) ListProducts(
	ctx context.Context,
	params FilterProductsParams,
) ([]*model.Product, error) {
	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 50
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	filter := bson.M{}
	if params.CategorySlug != nil {
		filter["category_slug"] = *params.CategorySlug
	}
	if params.Search != nil {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": *params.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": *params.Search, "$options": "i"}},
		}
	}

	cursor, err := r.db.Collection(productCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productMongoRepository) UpdateProduct(
	ctx context.Context,
	id string,
	params UpdateProductParams,
) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Slug != nil {
		updateMap["slug"] = *params.Slug
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Price != nil {
		updateMap["price"] = *params.Price
	}
	if params.Stock != nil {
		updateMap["stock"] = *params.Stock
	}
	if params.Category != nil {
		updateMap["category"] = *params.Category
	}
	if params.CategorySlug != nil {
		updateMap["category_slug"] = *params.CategorySlug
	}
	if params.Features != nil {
		updateMap["features"] = *params.Features
	}
	if params.Specifications != nil {
		updateMap["specifications"] = *params.Specifications
	}
	if params.Images != nil {
		updateMap["images"] = *params.Images
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no product fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(productCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(productCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) CountProducts(ctx context.Context) (int64, error) {
	return r.db.Collection(productCollection).CountDocuments(ctx, bson.M{})
}

func (r *productMongoRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.db.Collection(productCollection).CountDocuments(ctx, bson.M{"stock": bson.M{"$lt": threshold}})
}

// CountByCategory aggregates product counts keyed by category slug.
func (r *productMongoRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category_slug", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.db.Collection(productCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Slug  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Slug] = row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
