package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
)

// OrderUsecase defines order placement and viewing. Payment is out of
// scope; orders are created pending.
type OrderUsecase interface {
	// PlaceOrder creates an order from the user's current cart and clears
	// the cart.
	PlaceOrder(ctx context.Context, user *model.User) (*model.Order, error)

	ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error)
	ListOrders(ctx context.Context, params repository.FilterOrdersParams) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*model.Order, error)
}

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

type orderUsecase struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

// NewOrderUsecase creates a new instance of OrderUsecase.
func NewOrderUsecase(orderRepo repository.OrderRepository, userRepo repository.UserRepository) OrderUsecase {
	return &orderUsecase{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

func (u *orderUsecase) PlaceOrder(ctx context.Context, user *model.User) (*model.Order, error) {
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := u.orderRepo.CreateOrder(ctx, &model.Order{
		OrderNumber: uuid.NewString(),
		UserID:      user.ID,
		Customer: model.OrderCustomer{
			Name:  user.Name,
			Email: user.Email,
		},
		Items:       user.Cart,
		TotalAmount: Totals(user.Cart).Amount,
		Status:      model.OrderStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.ReplaceCart(ctx, user.ID.Hex(), []model.CartItem{}); err != nil {
		return nil, err
	}

	return order, nil
}

func (u *orderUsecase) ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return u.orderRepo.ListOrdersByUser(ctx, userID)
}

func (u *orderUsecase) ListOrders(
	ctx context.Context,
	params repository.FilterOrdersParams,
) ([]*model.Order, error) {
	return u.orderRepo.ListOrders(ctx, params)
}

func (u *orderUsecase) UpdateOrderStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := u.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}
