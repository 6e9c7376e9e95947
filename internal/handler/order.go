package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/payload"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/httpjson"
	"github.com/techdetails/storefront-api/shared/validation"
)

// OrderHandler serves order placement, order viewing, and the admin order
// listing.
type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
	validator    *validation.Validator
	logger       *zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler instance.
func NewOrderHandler(
	orderUsecase usecase.OrderUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
		validator:    validator,
		logger:       logger,
	}
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	order, err := h.orderUsecase.PlaceOrder(r.Context(), user)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyCart) {
			httpjson.Error(w, http.StatusBadRequest, "cart is empty")
			return
		}

		h.logger.Error().Err(err).Msg("failed to place order")
		httpjson.Error(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	httpjson.Respond(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	orders, err := h.orderUsecase.ListUserOrders(r.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list orders")
		httpjson.Error(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	if orders == nil {
		orders = []*model.Order{}
	}

	httpjson.Respond(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := repository.FilterOrdersParams{}

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		params.Status = &status
	}
	if search := query.Get("search"); search != "" {
		params.Search = &search
	}
	if from, err := time.Parse(time.RFC3339, query.Get("dateFrom")); err == nil {
		params.DateFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, query.Get("dateTo")); err == nil {
		params.DateTo = &to
	}

	limit, err := strconv.ParseUint(query.Get("limit"), 10, 64)
	if err != nil || limit == 0 {
		limit = 10
	}
	params.Limit = limit

	if page, err := strconv.ParseUint(query.Get("page"), 10, 64); err == nil && page > 1 {
		params.Offset = (page - 1) * limit
	}

	orders, err := h.orderUsecase.ListOrders(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list orders")
		httpjson.Error(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	if orders == nil {
		orders = []*model.Order{}
	}

	httpjson.Respond(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateOrderStatusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate order status request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	order, err := h.orderUsecase.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrderStatus):
			httpjson.Error(w, http.StatusBadRequest, "invalid order status")
		case errors.Is(err, usecase.ErrOrderNotFound):
			httpjson.Error(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error().Err(err).Msg("failed to update order status")
			httpjson.Error(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, order)
}
