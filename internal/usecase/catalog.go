package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
)

// CatalogUsecase defines product and category operations for the storefront
// and the admin back-office.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, params repository.FilterProductsParams) ([]*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, params repository.UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]*model.CategoryWithCount, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, params repository.UpdateCategoryParams) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")
)

type catalogUsecase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogUsecase creates a new instance of CatalogUsecase.
func NewCatalogUsecase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) CatalogUsecase {
	return &catalogUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (u *catalogUsecase) ListProducts(
	ctx context.Context,
	params repository.FilterProductsParams,
) ([]*model.Product, error) {
	return u.productRepo.ListProducts(ctx, params)
}

func (u *catalogUsecase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := u.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (u *catalogUsecase) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	created, err := u.productRepo.CreateProduct(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return created, nil
}

func (u *catalogUsecase) UpdateProduct(
	ctx context.Context,
	id string,
	params repository.UpdateProductParams,
) (*model.Product, error) {
	product, err := u.productRepo.UpdateProduct(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return product, nil
}

func (u *catalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := u.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}
		return err
	}

	return nil
}

// ListCategories returns all categories annotated with their product counts.
func (u *catalogUsecase) ListCategories(ctx context.Context) ([]*model.CategoryWithCount, error) {
	categories, err := u.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := u.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	annotated := make([]*model.CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		annotated = append(annotated, &model.CategoryWithCount{
			Category:     *category,
			ProductCount: counts[category.Slug],
		})
	}

	return annotated, nil
}

func (u *catalogUsecase) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	// Fast-path slug check; the unique index is the source of truth.
	if _, err := u.categoryRepo.GetCategoryBySlug(ctx, category.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := u.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return created, nil
}

func (u *catalogUsecase) UpdateCategory(
	ctx context.Context,
	id string,
	params repository.UpdateCategoryParams,
) (*model.Category, error) {
	category, err := u.categoryRepo.UpdateCategory(ctx, id, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return category, nil
}

func (u *catalogUsecase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := u.categoryRepo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCategoryNotFound
		}
		return err
	}

	return nil
}
