package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository for usecase tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, mongo.CommandError{Code: 11000, Message: "duplicate key"}
		}
	}

	stored := *user
	stored.ID = bson.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID.Hex()] = &stored

	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	user.Role = role
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	delete(r.users, id)
	return user, nil
}

func (r *fakeUserRepo) ListUsers(
	_ context.Context,
	params repository.FilterUsersParams,
) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		if params.Role != nil && user.Role != *params.Role {
			continue
		}
		copied := *user
		users = append(users, &copied)
	}

	return users, nil
}

func (r *fakeUserRepo) CountUsersByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}

	return count, nil
}

func (r *fakeUserRepo) ReplaceCart(_ context.Context, id string, items []model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.Cart = items
	return nil
}

func (r *fakeUserRepo) IncrementCartItem(
	_ context.Context,
	id string,
	productID string,
	delta int,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return false, mongo.ErrNoDocuments
	}

	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart[i].Quantity += delta
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) PushCartItem(_ context.Context, id string, item model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.Cart = append(user.Cart, item)
	return nil
}

func (r *fakeUserRepo) SetCartItemQuantity(
	_ context.Context,
	id string,
	productID string,
	quantity int,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return false, mongo.ErrNoDocuments
	}

	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart[i].Quantity = quantity
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) PullCartItem(_ context.Context, id string, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	kept := user.Cart[:0]
	for _, item := range user.Cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	user.Cart = kept

	return nil
}

// fakeResetTokenRepo is an in-memory PasswordResetTokenRepository.
type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.PasswordResetToken // keyed by token value
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[string]*model.PasswordResetToken)}
}

func (r *fakeResetTokenRepo) UpsertToken(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for value, existing := range r.tokens {
		if existing.UserID == token.UserID {
			delete(r.tokens, value)
		}
	}

	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeResetTokenRepo) GetToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.tokens[token]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *record
	return &copied, nil
}

func (r *fakeResetTokenRepo) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
