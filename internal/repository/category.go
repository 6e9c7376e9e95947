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

// CategoryRepository defines the interface for category operations.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, id string, params UpdateCategoryParams) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) (*model.Category, error)
}

// UpdateCategoryParams defines the optional parameters for updating a
// category.
type UpdateCategoryParams struct {
	Name *string
	Slug *string
}

const categoryCollection = "categories"

type categoryMongoRepository struct {
	db *mongo.Database
}

// NewCategoryMongoRepository creates the categories repository with a
// unique index on slug.
func NewCategoryMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) CategoryRepository {
	collection := db.Collection(categoryCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create category indexes")
	}

	return &categoryMongoRepository{db: db}
}

func (r *categoryMongoRepository) CreateCategory(
	ctx context.Context,
	category *model.Category,
) (*model.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.db.Collection(categoryCollection).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		category.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return category, nil
}

func (r *categoryMongoRepository) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	result := r.db.Collection(categoryCollection).FindOne(ctx, bson.M{"slug": slug})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	cursor, err := r.db.Collection(categoryCollection).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*model.Category
	for cursor.Next(ctx) {
		var category model.Category
		if err := cursor.Decode(&category); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryMongoRepository) UpdateCategory(
	ctx context.Context,
	id string,
	params UpdateCategoryParams,
) (*model.Category, error) {
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

	if len(updateMap) == 0 {
		return nil, errors.New("no category fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(categoryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryMongoRepository) DeleteCategory(ctx context.Context, id string) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(categoryCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category model.Category
	if err := result.Decode(&category); err != nil {
		return nil, err
	}

	return &category, nil
}
