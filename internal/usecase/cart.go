package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
)

// ErrCartItemNotFound is returned when a quantity update names an item the
// cart does not hold.
var ErrCartItemNotFound = errors.New("item not found in cart")

// AddItem merges an item into a cart. A line with the same product ID
// accumulates quantity; otherwise the item is appended. The input slice is
// not mutated.
func AddItem(items []model.CartItem, item model.CartItem) []model.CartItem {
	merged := make([]model.CartItem, len(items))
	copy(merged, items)

	for i := range merged {
		if merged[i].ProductID == item.ProductID {
			merged[i].Quantity += item.Quantity
			return merged
		}
	}

	return append(merged, item)
}

// SetQuantity overwrites an item's quantity. A quantity of zero or less
// removes the line.
func SetQuantity(items []model.CartItem, productID string, quantity int) []model.CartItem {
	if quantity <= 0 {
		return RemoveItem(items, productID)
	}

	updated := make([]model.CartItem, len(items))
	copy(updated, items)

	for i := range updated {
		if updated[i].ProductID == productID {
			updated[i].Quantity = quantity
		}
	}

	return updated
}

// RemoveItem drops a line from the cart. Removing an absent ID is a no-op.
func RemoveItem(items []model.CartItem, productID string) []model.CartItem {
	remaining := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}

	return remaining
}

// Totals derives the item count and amount from the cart lines. Totals are
// recomputed on every read so they can never drift from the items.
func Totals(items []model.CartItem) model.CartTotals {
	var totals model.CartTotals
	for _, item := range items {
		totals.ItemCount += item.Quantity
		totals.Amount += item.Price * float64(item.Quantity)
	}

	return totals
}

// ResolveOnLogin reconciles the anonymous client cart with the persisted
// server cart at login. The server cart is authoritative: when it is
// non-empty it replaces the client cart wholesale. Only when the server
// holds nothing does the client cart survive.
func ResolveOnLogin(clientItems, serverItems []model.CartItem) []model.CartItem {
	if len(serverItems) > 0 {
		return serverItems
	}

	return clientItems
}

// CartUsecase defines cart persistence operations for an authenticated
// user. Each mutation is a single atomic document operation.
type CartUsecase interface {
	GetCart(ctx context.Context, userID string) ([]model.CartItem, model.CartTotals, error)
	ReplaceCart(ctx context.Context, userID string, items []model.CartItem) error
	ClearCart(ctx context.Context, userID string) error
	AddItem(ctx context.Context, userID string, item model.CartItem) error
	SetItemQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
}

type cartUsecase struct {
	userRepo repository.UserRepository
}

// NewCartUsecase creates a new instance of CartUsecase.
func NewCartUsecase(userRepo repository.UserRepository) CartUsecase {
	return &cartUsecase{userRepo: userRepo}
}

func (u *cartUsecase) GetCart(ctx context.Context, userID string) ([]model.CartItem, model.CartTotals, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.CartTotals{}, ErrUserNotFound
		}
		return nil, model.CartTotals{}, err
	}

	items := user.Cart
	if items == nil {
		items = []model.CartItem{}
	}

	return items, Totals(items), nil
}

func (u *cartUsecase) ReplaceCart(ctx context.Context, userID string, items []model.CartItem) error {
	// Drop lines that imply removal before persisting.
	kept := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}

	return u.userRepo.ReplaceCart(ctx, userID, kept)
}

func (u *cartUsecase) ClearCart(ctx context.Context, userID string) error {
	return u.userRepo.ReplaceCart(ctx, userID, []model.CartItem{})
}

func (u *cartUsecase) AddItem(ctx context.Context, userID string, item model.CartItem) error {
	// Atomic increment on an existing line, otherwise an atomic push of a
	// new line. There is no multi-step transaction here; each path is a
	// single document operation.
	matched, err := u.userRepo.IncrementCartItem(ctx, userID, item.ProductID, item.Quantity)
	if err != nil {
		return err
	}

	if matched {
		return nil
	}

	return u.userRepo.PushCartItem(ctx, userID, item)
}

func (u *cartUsecase) SetItemQuantity(
	ctx context.Context,
	userID string,
	productID string,
	quantity int,
) error {
	if quantity <= 0 {
		return u.userRepo.PullCartItem(ctx, userID, productID)
	}

	matched, err := u.userRepo.SetCartItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return err
	}

	if !matched {
		return ErrCartItemNotFound
	}

	return nil
}

func (u *cartUsecase) RemoveItem(ctx context.Context, userID string, productID string) error {
	// Idempotent: pulling an absent item is not an error.
	return u.userRepo.PullCartItem(ctx, userID, productID)
}
