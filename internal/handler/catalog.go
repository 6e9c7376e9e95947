package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/payload"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/httpjson"
	"github.com/techdetails/storefront-api/shared/validation"
)

// CatalogHandler serves the public catalog and the admin product/category
// endpoints.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	validator      *validation.Validator
	logger         *zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(
	catalogUsecase usecase.CatalogUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
		logger:         logger,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := repository.FilterProductsParams{}

	query := r.URL.Query()
	if category := query.Get("category"); category != "" {
		params.CategorySlug = &category
	}
	if search := query.Get("search"); search != "" {
		params.Search = &search
	}
	if limit, err := strconv.ParseUint(query.Get("limit"), 10, 64); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.ParseUint(query.Get("offset"), 10, 64); err == nil {
		params.Offset = offset
	}

	products, err := h.catalogUsecase.ListProducts(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list products")
		httpjson.Error(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if products == nil {
		products = []*model.Product{}
	}

	httpjson.Respond(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUsecase.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrProductNotFound) {
			httpjson.Error(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to fetch product")
		httpjson.Error(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	httpjson.Respond(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateProductRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate product request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	product, err := h.catalogUsecase.CreateProduct(r.Context(), &model.Product{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		Category:       req.Category,
		CategorySlug:   req.CategorySlug,
		Features:       req.Features,
		Specifications: req.Specifications,
		Images:         req.Images,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrSlugTaken) {
			httpjson.Error(w, http.StatusConflict, "slug already in use")
			return
		}

		h.logger.Error().Err(err).Msg("failed to create product")
		httpjson.Error(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	httpjson.Respond(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateProductRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate product update")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	product, err := h.catalogUsecase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), repository.UpdateProductParams{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		Category:       req.Category,
		CategorySlug:   req.CategorySlug,
		Features:       req.Features,
		Specifications: req.Specifications,
		Images:         req.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			httpjson.Error(w, http.StatusNotFound, "product not found")
		case errors.Is(err, usecase.ErrSlugTaken):
			httpjson.Error(w, http.StatusConflict, "slug already in use")
		default:
			h.logger.Error().Err(err).Msg("failed to update product")
			httpjson.Error(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUsecase.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, usecase.ErrProductNotFound) {
			httpjson.Error(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to delete product")
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list categories")
		httpjson.Error(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	httpjson.Respond(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateCategoryRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate category request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	category, err := h.catalogUsecase.CreateCategory(r.Context(), &model.Category{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrSlugTaken) {
			httpjson.Error(w, http.StatusConflict, "slug already in use")
			return
		}

		h.logger.Error().Err(err).Msg("failed to create category")
		httpjson.Error(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	httpjson.Respond(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateCategoryRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogUsecase.UpdateCategory(r.Context(), chi.URLParam(r, "id"), repository.UpdateCategoryParams{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCategoryNotFound):
			httpjson.Error(w, http.StatusNotFound, "category not found")
		case errors.Is(err, usecase.ErrSlugTaken):
			httpjson.Error(w, http.StatusConflict, "slug already in use")
		default:
			h.logger.Error().Err(err).Msg("failed to update category")
			httpjson.Error(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUsecase.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, usecase.ErrCategoryNotFound) {
			httpjson.Error(w, http.StatusNotFound, "category not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to delete category")
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}
