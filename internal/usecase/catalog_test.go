package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
)

type fakeProductRepo struct {
	repository.ProductRepository
	products map[string]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*model.Product)}
}

func (r *fakeProductRepo) GetProduct(_ context.Context, id string) (*model.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return product, nil
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, product *model.Product) (*model.Product, error) {
	for _, existing := range r.products {
		if existing.Slug == product.Slug {
			return nil, mongo.CommandError{Code: 11000, Message: "duplicate key"}
		}
	}

	stored := *product
	stored.ID = bson.NewObjectID()
	r.products[stored.ID.Hex()] = &stored

	return &stored, nil
}

func (r *fakeProductRepo) CountByCategory(context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, product := range r.products {
		counts[product.CategorySlug]++
	}

	return counts, nil
}

type fakeCategoryRepo struct {
	repository.CategoryRepository
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category)}
}

func (r *fakeCategoryRepo) ListCategories(context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categories = append(categories, category)
	}

	return categories, nil
}

func (r *fakeCategoryRepo) GetCategoryBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, category := range r.categories {
		if category.Slug == slug {
			return category, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	stored := *category
	stored.ID = bson.NewObjectID()
	r.categories[stored.ID.Hex()] = &stored

	return &stored, nil
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	uc := NewCatalogUsecase(newFakeProductRepo(), newFakeCategoryRepo())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, &model.Product{Name: "Keyboard", Slug: "keyboard", Price: 49.99})
	require.NoError(t, err)

	_, err = uc.CreateProduct(ctx, &model.Product{Name: "Other Keyboard", Slug: "keyboard", Price: 59.99})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetProductNotFound(t *testing.T) {
	uc := NewCatalogUsecase(newFakeProductRepo(), newFakeCategoryRepo())

	_, err := uc.GetProduct(context.Background(), bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	uc := NewCatalogUsecase(newFakeProductRepo(), newFakeCategoryRepo())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &model.Category{Name: "Keyboards", Slug: "keyboards"})
	require.NoError(t, err)

	_, err = uc.CreateCategory(ctx, &model.Category{Name: "Keyboards Again", Slug: "keyboards"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestListCategoriesAnnotatesProductCounts(t *testing.T) {
	productRepo := newFakeProductRepo()
	categoryRepo := newFakeCategoryRepo()
	uc := NewCatalogUsecase(productRepo, categoryRepo)
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &model.Category{Name: "Keyboards", Slug: "keyboards"})
	require.NoError(t, err)

	for _, slug := range []string{"k1", "k2"} {
		_, err := uc.CreateProduct(ctx, &model.Product{
			Name: slug, Slug: slug, CategorySlug: "keyboards", Price: 10,
		})
		require.NoError(t, err)
	}

	categories, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.EqualValues(t, 2, categories[0].ProductCount)
}
